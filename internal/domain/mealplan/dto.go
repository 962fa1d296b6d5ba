// internal/domain/mealplan/dto.go
package mealplan

import "mealkit-service/internal/domain/subscription"

type CreateMealPlanRequest struct {
	Tier        subscription.PlanTier `json:"tier" binding:"required,plantier"`
	Name        string                `json:"name" binding:"required,max=255"`
	Description string                `json:"description" binding:"max=2000"`
	Price       *int64                `json:"price" binding:"omitempty,min=0"`
	Features    []string              `json:"features" binding:"omitempty,dive,max=255"`
	ImageURL    string                `json:"imageUrl" binding:"omitempty,url"`
	IsActive    *bool                 `json:"isActive"`
}

type UpdateMealPlanRequest struct {
	Name        *string  `json:"name" binding:"omitempty,max=255"`
	Description *string  `json:"description" binding:"omitempty,max=2000"`
	Price       *int64   `json:"price" binding:"omitempty,min=0"`
	Features    []string `json:"features" binding:"omitempty,dive,max=255"`
	ImageURL    *string  `json:"imageUrl" binding:"omitempty,url"`
	IsActive    *bool    `json:"isActive"`
}
