package dto

type ScratchCardInfo struct {
	CardType string `json:"card_type"`
	Serial   string `json:"serial"`
	Code     string `json:"code"`
}

type CreateDonationRequest struct {
	DonorName   string           `json:"donor_name" binding:"max=100"`
	DonorEmail  string           `json:"donor_email" binding:"omitempty,email"`
	Amount      int64            `json:"amount"`
	Method      string           `json:"method"`
	ScratchCard *ScratchCardInfo `json:"scratch_card,omitempty"`
	Message     string           `json:"message" binding:"max=500"`
}

type UpdateDonationRequest struct {
	Status *string `json:"status,omitempty"`
	Note   *string `json:"note,omitempty"`
}

// DonationReceipt is returned to the donor after creation.
type DonationReceipt struct {
	TransactionID string `json:"transaction_id"`
	Amount        int64  `json:"amount"`
	Status        string `json:"status"`
	Method        string `json:"method"`
}

type DonationStatusResponse struct {
	TransactionID string `json:"transaction_id"`
	Amount        int64  `json:"amount"`
	Status        string `json:"status"`
	Method        string `json:"method"`
	CreatedAt     string `json:"created_at"`
}

type MethodStat struct {
	Method      string `json:"method"`
	TotalAmount int64  `json:"total_amount"`
	Count       int64  `json:"count"`
}

// DonationStats aggregates completed donations.
type DonationStats struct {
	TotalAmount int64        `json:"total_amount"`
	TotalCount  int64        `json:"total_count"`
	ByMethod    []MethodStat `json:"by_method"`
}

type MyDonationStats struct {
	TotalDonated int64 `json:"total_donated"`
}
