// internal/service/testimonial/testimonial_service.go
package testimonial

import (
	"context"
	"fmt"
	"strings"

	"mealkit-service/internal/domain/testimonial"

	"go.uber.org/zap"
)

const publicListLimit = 20

type TestimonialService struct {
	repo   testimonial.Repository
	logger *zap.Logger
}

func NewTestimonialService(repo testimonial.Repository, logger *zap.Logger) *TestimonialService {
	return &TestimonialService{
		repo:   repo,
		logger: logger,
	}
}

// Submit stores a testimonial for moderation
func (s *TestimonialService) Submit(ctx context.Context, req *testimonial.CreateTestimonialRequest) (*testimonial.Testimonial, error) {
	t := &testimonial.Testimonial{
		CustomerName: strings.TrimSpace(req.CustomerName),
		Message:      strings.TrimSpace(req.Message),
		Rating:       req.Rating,
		Plan:         req.Plan,
		IsApproved:   false,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		s.logger.Error("failed to store testimonial", zap.Error(err))
		return nil, fmt.Errorf("failed to submit testimonial: %w", err)
	}

	s.logger.Info("testimonial submitted",
		zap.Int64("testimonial_id", t.ID),
		zap.Int("rating", t.Rating),
	)
	return t, nil
}

// ListApproved returns testimonials visible on the public site
func (s *TestimonialService) ListApproved(ctx context.Context) ([]testimonial.Testimonial, error) {
	return s.repo.List(ctx, testimonial.ListFilters{ApprovedOnly: true, Limit: publicListLimit})
}

// ListAll returns every testimonial for moderation (admin)
func (s *TestimonialService) ListAll(ctx context.Context, limit int) ([]testimonial.Testimonial, error) {
	return s.repo.List(ctx, testimonial.ListFilters{Limit: limit})
}

// Approve publishes a testimonial (admin)
func (s *TestimonialService) Approve(ctx context.Context, id int64) (*testimonial.Testimonial, error) {
	t, err := s.repo.Approve(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("testimonial approved", zap.Int64("testimonial_id", id))
	return t, nil
}

// Delete removes a testimonial (admin)
func (s *TestimonialService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("testimonial deleted", zap.Int64("testimonial_id", id))
	return nil
}
