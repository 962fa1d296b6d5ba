// internal/service/mealplan/mealplan_service.go
package mealplan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mealkit-service/internal/domain/mealplan"
	"mealkit-service/internal/domain/subscription"
	"mealkit-service/internal/pkg/currency"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	catalogueTTL      = 5 * time.Minute
	activeCatalogue   = "mealplans:active"
	completeCatalogue = "mealplans:all"
)

type MealPlanService struct {
	repo   mealplan.Repository
	cache  *cache.Cache
	logger *zap.Logger
}

func NewMealPlanService(repo mealplan.Repository, logger *zap.Logger) *MealPlanService {
	return &MealPlanService{
		repo:   repo,
		cache:  cache.New(catalogueTTL, 10*time.Minute),
		logger: logger,
	}
}

// ListPlans returns the catalogue, served from memory for a few minutes
func (s *MealPlanService) ListPlans(ctx context.Context, activeOnly bool) ([]mealplan.MealPlanResponse, error) {
	key := completeCatalogue
	if activeOnly {
		key = activeCatalogue
	}

	if cached, ok := s.cache.Get(key); ok {
		return cached.([]mealplan.MealPlanResponse), nil
	}

	plans, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list meal plans: %w", err)
	}

	out := make([]mealplan.MealPlanResponse, 0, len(plans))
	for i := range plans {
		out = append(out, toResponse(&plans[i]))
	}

	s.cache.Set(key, out, cache.DefaultExpiration)
	return out, nil
}

// GetPlan retrieves a meal plan by ID
func (s *MealPlanService) GetPlan(ctx context.Context, id int64) (*mealplan.MealPlanResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(p)
	return &resp, nil
}

// CreatePlan adds a catalogue entry; the price defaults to the tier's per-meal price
func (s *MealPlanService) CreatePlan(ctx context.Context, req *mealplan.CreateMealPlanRequest) (*mealplan.MealPlanResponse, error) {
	p := &mealplan.MealPlan{
		Tier:        req.Tier,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Features:    req.Features,
		ImageURL:    req.ImageURL,
		IsActive:    true,
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if req.Price != nil {
		p.Price = *req.Price
	} else {
		unit, ok := subscription.UnitPrice(req.Tier)
		if !ok {
			return nil, &subscription.Error{Kind: subscription.KindInvalidConfiguration, Message: fmt.Sprintf("unknown plan %q", req.Tier)}
		}
		p.Price = unit
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error("failed to create meal plan", zap.Error(err))
		return nil, fmt.Errorf("failed to create meal plan: %w", err)
	}
	s.invalidate()

	s.logger.Info("meal plan created",
		zap.Int64("plan_id", p.ID),
		zap.String("tier", string(p.Tier)),
	)

	resp := toResponse(p)
	return &resp, nil
}

// UpdatePlan applies a partial update
func (s *MealPlanService) UpdatePlan(ctx context.Context, id int64, req *mealplan.UpdateMealPlanRequest) (*mealplan.MealPlanResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		p.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Features != nil {
		p.Features = req.Features
	}
	if req.ImageURL != nil {
		p.ImageURL = *req.ImageURL
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate()

	s.logger.Info("meal plan updated", zap.Int64("plan_id", p.ID))

	resp := toResponse(p)
	return &resp, nil
}

// DeletePlan removes a catalogue entry
func (s *MealPlanService) DeletePlan(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate()

	s.logger.Info("meal plan deleted", zap.Int64("plan_id", id))
	return nil
}

func (s *MealPlanService) invalidate() {
	s.cache.Delete(activeCatalogue)
	s.cache.Delete(completeCatalogue)
}

func toResponse(p *mealplan.MealPlan) mealplan.MealPlanResponse {
	return mealplan.MealPlanResponse{
		MealPlan:       *p,
		FormattedPrice: currency.FormatRupiah(p.Price),
	}
}
