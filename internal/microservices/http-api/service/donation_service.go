package service

import (
	"context"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"eshelf/internal/microservices/http-api/dto"
	"eshelf/internal/microservices/http-api/models"
	"eshelf/internal/microservices/http-api/repository"
	"eshelf/internal/middleware/auth"
)

var donationMethods = map[string]bool{
	models.DonationMethodScratchCard: true,
	models.DonationMethodMomo:        true,
	models.DonationMethodATM:         true,
	models.DonationMethodPaypal:      true,
}

var cardTypes = map[string]bool{"viettel": true, "vinaphone": true, "mobifone": true}

type DonationService interface {
	Create(ctx context.Context, who auth.Identity, req dto.CreateDonationRequest) (*models.Donation, error)
	Status(ctx context.Context, transactionID string) (*models.Donation, error)
	// MyDonations lists the user's donations and the sum of completed ones.
	MyDonations(ctx context.Context, userID string) ([]models.Donation, int64, error)
	List(ctx context.Context, f repository.DonationFilter, page dto.PageRequest) ([]models.Donation, int64, error)
	Stats(ctx context.Context) (dto.DonationStats, error)
	Update(ctx context.Context, id string, req dto.UpdateDonationRequest) (*models.Donation, error)
}

type donationService struct {
	repo repository.DonationRepository
	now  func() time.Time
}

func NewDonationService(repo repository.DonationRepository) DonationService {
	return &donationService{repo: repo, now: time.Now}
}

// Create validates the donation and records it. Scratch cards wait for
// manual reconciliation; other methods are recorded as settled.
func (s *donationService) Create(ctx context.Context, who auth.Identity, req dto.CreateDonationRequest) (*models.Donation, error) {
	method := strings.TrimSpace(req.Method)
	if !donationMethods[method] {
		return nil, ErrInvalidMethod
	}
	if req.Amount < models.MinDonationAmount {
		return nil, ErrAmountTooLow
	}

	d := &models.Donation{
		UserID:     who.UserID(),
		DonorName:  strings.TrimSpace(req.DonorName),
		DonorEmail: strings.ToLower(strings.TrimSpace(req.DonorEmail)),
		Amount:     req.Amount,
		Currency:   "VND",
		Method:     method,
		Message:    req.Message,
		Status:     models.DonationCompleted,
	}

	if method == models.DonationMethodScratchCard {
		card := req.ScratchCard
		if card == nil || strings.TrimSpace(card.CardType) == "" || strings.TrimSpace(card.Serial) == "" || strings.TrimSpace(card.Code) == "" {
			return nil, ErrScratchCardFields
		}
		if !cardTypes[card.CardType] {
			return nil, ErrInvalidCardType
		}
		d.CardType = card.CardType
		d.CardSerial = strings.TrimSpace(card.Serial)
		d.CardCode = strings.TrimSpace(card.Code)
		d.Status = models.DonationPending
	}

	if user, ok := who.User(); ok {
		if d.DonorName == "" {
			d.DonorName = user.Username
		}
		if d.DonorEmail == "" {
			d.DonorEmail = user.Email
		}
	}

	d.TransactionID = newTransactionID(s.now())
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *donationService) Status(ctx context.Context, transactionID string) (*models.Donation, error) {
	d, err := s.repo.FindByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, notFound(err, ErrDonationNotFound)
	}
	return d, nil
}

func (s *donationService) MyDonations(ctx context.Context, userID string) ([]models.Donation, int64, error) {
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CompletedTotalByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (s *donationService) List(ctx context.Context, f repository.DonationFilter, page dto.PageRequest) ([]models.Donation, int64, error) {
	return s.repo.List(ctx, f, page.Page, page.Limit)
}

func (s *donationService) Stats(ctx context.Context) (dto.DonationStats, error) {
	rows, err := s.repo.CompletedTotalsByMethod(ctx)
	if err != nil {
		return dto.DonationStats{}, err
	}
	stats := dto.DonationStats{ByMethod: make([]dto.MethodStat, 0, len(rows))}
	for _, r := range rows {
		stats.TotalAmount += r.TotalAmount
		stats.TotalCount += r.Count
		stats.ByMethod = append(stats.ByMethod, dto.MethodStat{Method: r.Method, TotalAmount: r.TotalAmount, Count: r.Count})
	}
	return stats, nil
}

func (s *donationService) Update(ctx context.Context, id string, req dto.UpdateDonationRequest) (*models.Donation, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrDonationNotFound)
	}

	fields := map[string]any{}
	if req.Status != nil {
		if err := donationTransitions.check("donation", d.Status, *req.Status); err != nil {
			return nil, err
		}
		fields["status"] = *req.Status
		d.Status = *req.Status
	}
	if req.Note != nil {
		fields["note"] = *req.Note
		d.Note = *req.Note
	}
	if len(fields) == 0 {
		return d, nil
	}
	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		return nil, notFound(err, ErrDonationNotFound)
	}
	return d, nil
}

const base36 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// newTransactionID returns "TXN" + unix millis + 7 random base36 characters.
func newTransactionID(now time.Time) string {
	var b strings.Builder
	b.WriteString("TXN")
	b.WriteString(strconv.FormatInt(now.UnixMilli(), 10))
	for range 7 {
		b.WriteByte(base36[rand.IntN(len(base36))])
	}
	return b.String()
}
