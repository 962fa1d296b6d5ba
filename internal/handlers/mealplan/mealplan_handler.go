package mealplan

import (
	"context"
	"net/http"
	"strconv"

	"mealkit-service/internal/domain/mealplan"
	"mealkit-service/internal/middleware"
	"mealkit-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Service is the catalogue surface behind the meal plan routes.
type Service interface {
	ListPlans(ctx context.Context, activeOnly bool) ([]mealplan.MealPlanResponse, error)
	GetPlan(ctx context.Context, id int64) (*mealplan.MealPlanResponse, error)
	CreatePlan(ctx context.Context, req *mealplan.CreateMealPlanRequest) (*mealplan.MealPlanResponse, error)
	UpdatePlan(ctx context.Context, id int64, req *mealplan.UpdateMealPlanRequest) (*mealplan.MealPlanResponse, error)
	DeletePlan(ctx context.Context, id int64) error
}

type MealPlanHandler struct {
	service Service
}

func NewMealPlanHandler(service Service) *MealPlanHandler {
	return &MealPlanHandler{service: service}
}

// ListPlans returns the active catalogue. Admins may pass ?all=true.
func (h *MealPlanHandler) ListPlans(c *gin.Context) {
	activeOnly := !(middleware.IsAdmin(c) && c.Query("all") == "true")

	plans, err := h.service.ListPlans(c.Request.Context(), activeOnly)
	if err != nil {
		response.FromError(c, "failed to list meal plans", err)
		return
	}

	response.Success(c, http.StatusOK, "meal plans retrieved", plans)
}

func (h *MealPlanHandler) GetPlan(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	plan, err := h.service.GetPlan(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, "failed to get meal plan", err)
		return
	}

	response.Success(c, http.StatusOK, "meal plan retrieved", plan)
}

// ========== Admin Endpoints ==========

func (h *MealPlanHandler) CreatePlan(c *gin.Context) {
	var req mealplan.CreateMealPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	plan, err := h.service.CreatePlan(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "failed to create meal plan", err)
		return
	}

	response.Success(c, http.StatusCreated, "meal plan created successfully", plan)
}

func (h *MealPlanHandler) UpdatePlan(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req mealplan.UpdateMealPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	plan, err := h.service.UpdatePlan(c.Request.Context(), id, &req)
	if err != nil {
		response.FromError(c, "failed to update meal plan", err)
		return
	}

	response.Success(c, http.StatusOK, "meal plan updated successfully", plan)
}

func (h *MealPlanHandler) DeletePlan(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeletePlan(c.Request.Context(), id); err != nil {
		response.FromError(c, "failed to delete meal plan", err)
		return
	}

	response.Success(c, http.StatusOK, "meal plan deleted successfully", nil)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "invalid meal plan ID", err)
		return 0, false
	}
	return id, true
}
