package service

import (
	"context"
	"strings"
	"time"

	"eshelf/internal/microservices/http-api/dto"
	"eshelf/internal/microservices/http-api/models"
	"eshelf/internal/microservices/http-api/repository"
	"eshelf/internal/middleware/auth"
)

type FeedbackService interface {
	Create(ctx context.Context, who auth.Identity, req dto.CreateFeedbackRequest) (*models.Feedback, error)
	MyFeedback(ctx context.Context, userID string) ([]models.Feedback, error)
	// List returns one page plus the count of feedback per status.
	List(ctx context.Context, f repository.FeedbackFilter, page dto.PageRequest) ([]models.Feedback, int64, map[string]int64, error)
	Update(ctx context.Context, admin *models.User, id string, req dto.UpdateFeedbackRequest) (*models.Feedback, error)
	Delete(ctx context.Context, id string) error
}

type feedbackService struct {
	repo repository.FeedbackRepository
	now  func() time.Time
}

func NewFeedbackService(repo repository.FeedbackRepository) FeedbackService {
	return &feedbackService{repo: repo, now: time.Now}
}

func (s *feedbackService) Create(ctx context.Context, who auth.Identity, req dto.CreateFeedbackRequest) (*models.Feedback, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	errorType := strings.TrimSpace(req.ErrorType)
	if errorType == "" {
		errorType = models.DefaultFeedbackType
	}

	f := &models.Feedback{
		UserID:       who.UserID(),
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		ErrorType:    errorType,
		ErrorSubType: strings.TrimSpace(req.ErrorSubType),
		Content:      content,
		Status:       models.FeedbackPending,
	}
	if user, ok := who.User(); ok {
		if f.Name == "" {
			f.Name = user.Username
		}
		if f.Email == "" {
			f.Email = user.Email
		}
	}

	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *feedbackService) MyFeedback(ctx context.Context, userID string) ([]models.Feedback, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *feedbackService) List(ctx context.Context, f repository.FeedbackFilter, page dto.PageRequest) ([]models.Feedback, int64, map[string]int64, error) {
	list, total, err := s.repo.List(ctx, f, page.Page, page.Limit)
	if err != nil {
		return nil, 0, nil, err
	}
	counts, err := s.repo.StatusCounts(ctx)
	if err != nil {
		return nil, 0, nil, err
	}
	return list, total, counts, nil
}

// Update moves feedback through its status machine. Entering resolved
// records who resolved it and when.
func (s *feedbackService) Update(ctx context.Context, admin *models.User, id string, req dto.UpdateFeedbackRequest) (*models.Feedback, error) {
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrFeedbackNotFound)
	}

	fields := map[string]any{}
	if req.Status != nil {
		if err := feedbackTransitions.check("feedback", f.Status, *req.Status); err != nil {
			return nil, err
		}
		if *req.Status != f.Status {
			fields["status"] = *req.Status
			f.Status = *req.Status
			if f.Status == models.FeedbackResolved {
				now := s.now()
				resolver := admin.ID
				fields["resolved_by"] = resolver
				fields["resolved_at"] = now
				f.ResolvedBy = &resolver
				f.ResolvedAt = &now
			}
		}
	}
	if req.AdminNote != nil {
		fields["admin_note"] = *req.AdminNote
		f.AdminNote = *req.AdminNote
	}
	if len(fields) == 0 {
		return f, nil
	}
	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		return nil, notFound(err, ErrFeedbackNotFound)
	}
	return f, nil
}

func (s *feedbackService) Delete(ctx context.Context, id string) error {
	return notFound(s.repo.Delete(ctx, id), ErrFeedbackNotFound)
}
