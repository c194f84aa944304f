package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DonationMethodScratchCard = "scratch_card"
	DonationMethodMomo        = "momo"
	DonationMethodATM         = "atm"
	DonationMethodPaypal      = "paypal"

	DonationPending   = "pending"
	DonationCompleted = "completed"
	DonationFailed    = "failed"
	DonationRefunded  = "refunded"

	MinDonationAmount = 1000
)

type Donation struct {
	ID            string    `json:"id" gorm:"primaryKey;type:uuid"`
	UserID        *string   `json:"user_id,omitempty" gorm:"type:uuid;index"`
	DonorName     string    `json:"donor_name"`
	DonorEmail    string    `json:"donor_email"`
	Amount        int64     `json:"amount" gorm:"not null;check:amount >= 1000"`
	Currency      string    `json:"currency" gorm:"not null;default:'VND'"`
	Method        string    `json:"method" gorm:"not null;index"`
	CardType      string    `json:"card_type,omitempty"`
	CardSerial    string    `json:"card_serial,omitempty"`
	CardCode      string    `json:"-"`
	TransactionID string    `json:"transaction_id" gorm:"uniqueIndex;not null"`
	Status        string    `json:"status" gorm:"not null;default:'pending';index"`
	Message       string    `json:"message"`
	Note          string    `json:"note"`
	CreatedAt     time.Time `json:"created_at" gorm:"index"`
	UpdatedAt     time.Time `json:"updated_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL;"`
}

func (Donation) TableName() string {
	return "donations"
}

func (d *Donation) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}
