// internal/handlers/subscription/subscription_handler.go
package subscription

import (
	"context"
	"net/http"
	"strconv"

	"mealkit-service/internal/domain/auth"
	"mealkit-service/internal/domain/subscription"
	"mealkit-service/internal/middleware"
	"mealkit-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Service is the subscription use-case surface the handler drives.
type Service interface {
	CreateSubscription(ctx context.Context, actor auth.Actor, req *subscription.CreateSubscriptionRequest) (*subscription.SubscriptionResponse, error)
	Quote(req *subscription.QuoteRequest) (*subscription.QuoteResponse, error)
	GetSubscription(ctx context.Context, actor auth.Actor, id int64) (*subscription.SubscriptionResponse, error)
	ListMySubscriptions(ctx context.Context, actor auth.Actor, filters *subscription.SubscriptionListFilters) (*subscription.SubscriptionListResponse, error)
	ListAllSubscriptions(ctx context.Context, filters *subscription.SubscriptionListFilters) (*subscription.SubscriptionListResponse, error)
	GetBillingSummary(ctx context.Context, actor auth.Actor, id int64) (*subscription.BillingSummary, error)
	GetStats(ctx context.Context, filters *subscription.StatsFilters) (*subscription.SubscriptionStats, error)
	UpdateSubscription(ctx context.Context, actor auth.Actor, id int64, req *subscription.UpdateSubscriptionRequest) (*subscription.SubscriptionResponse, error)
	PauseSubscription(ctx context.Context, actor auth.Actor, id int64, req *subscription.PauseSubscriptionRequest) (*subscription.SubscriptionResponse, error)
	ReactivateSubscription(ctx context.Context, actor auth.Actor, id int64) (*subscription.SubscriptionResponse, error)
	CancelSubscription(ctx context.Context, actor auth.Actor, id int64, req *subscription.CancelSubscriptionRequest) (*subscription.SubscriptionResponse, error)
	DeleteSubscription(ctx context.Context, actor auth.Actor, id int64) error
	ApplyScheduledPauses(ctx context.Context) (*subscription.ApplyScheduledPausesResponse, error)
}

type SubscriptionHandler struct {
	service Service
}

func NewSubscriptionHandler(service Service) *SubscriptionHandler {
	return &SubscriptionHandler{
		service: service,
	}
}

// ========== Public Endpoints ==========

// Quote previews the monthly price of a selection
func (h *SubscriptionHandler) Quote(c *gin.Context) {
	var req subscription.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	quote, err := h.service.Quote(&req)
	if err != nil {
		response.FromError(c, "failed to quote price", err)
		return
	}

	response.Success(c, http.StatusOK, "price calculated", quote)
}

// ========== Customer Endpoints ==========

// CreateSubscription places a new subscription for the caller
func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	var req subscription.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	sub, err := h.service.CreateSubscription(c.Request.Context(), middleware.GetActor(c), &req)
	if err != nil {
		response.FromError(c, "failed to create subscription", err)
		return
	}

	response.Success(c, http.StatusCreated, "subscription created successfully", sub)
}

// ListMySubscriptions lists the caller's subscriptions
func (h *SubscriptionHandler) ListMySubscriptions(c *gin.Context) {
	var filters subscription.SubscriptionListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	result, err := h.service.ListMySubscriptions(c.Request.Context(), middleware.GetActor(c), &filters)
	if err != nil {
		response.FromError(c, "failed to list subscriptions", err)
		return
	}

	response.Success(c, http.StatusOK, "subscriptions retrieved", result)
}

// GetSubscription retrieves a single subscription
func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	sub, err := h.service.GetSubscription(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		response.FromError(c, "failed to get subscription", err)
		return
	}

	response.Success(c, http.StatusOK, "subscription retrieved", sub)
}

// UpdateSubscription edits contact details or selections
func (h *SubscriptionHandler) UpdateSubscription(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req subscription.UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	sub, err := h.service.UpdateSubscription(c.Request.Context(), middleware.GetActor(c), id, &req)
	if err != nil {
		response.FromError(c, "failed to update subscription", err)
		return
	}

	response.Success(c, http.StatusOK, "subscription updated successfully", sub)
}

// DeleteSubscription removes a subscription
func (h *SubscriptionHandler) DeleteSubscription(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteSubscription(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		response.FromError(c, "failed to delete subscription", err)
		return
	}

	response.Success(c, http.StatusOK, "subscription deleted successfully", nil)
}

// PauseSubscription schedules or starts a pause
func (h *SubscriptionHandler) PauseSubscription(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req subscription.PauseSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	sub, err := h.service.PauseSubscription(c.Request.Context(), middleware.GetActor(c), id, &req)
	if err != nil {
		response.FromError(c, "failed to pause subscription", err)
		return
	}

	message := "pause scheduled successfully"
	if sub.Status == subscription.StatusPaused {
		message = "subscription paused successfully"
	}
	response.Success(c, http.StatusOK, message, sub)
}

// ReactivateSubscription resumes a paused subscription
func (h *SubscriptionHandler) ReactivateSubscription(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	sub, err := h.service.ReactivateSubscription(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		response.FromError(c, "failed to reactivate subscription", err)
		return
	}

	response.Success(c, http.StatusOK, "subscription reactivated successfully", sub)
}

// CancelSubscription cancels a subscription permanently
func (h *SubscriptionHandler) CancelSubscription(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	// the body is optional
	var req subscription.CancelSubscriptionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "invalid request", err)
			return
		}
	}

	sub, err := h.service.CancelSubscription(c.Request.Context(), middleware.GetActor(c), id, &req)
	if err != nil {
		response.FromError(c, "failed to cancel subscription", err)
		return
	}

	response.Success(c, http.StatusOK, "subscription cancelled successfully", sub)
}

// GetBillingSummary returns next billing date and pause state
func (h *SubscriptionHandler) GetBillingSummary(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	summary, err := h.service.GetBillingSummary(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		response.FromError(c, "failed to get billing summary", err)
		return
	}

	response.Success(c, http.StatusOK, "billing summary retrieved", summary)
}

// ========== Admin Endpoints ==========

// ListAllSubscriptions lists every subscription
func (h *SubscriptionHandler) ListAllSubscriptions(c *gin.Context) {
	var filters subscription.SubscriptionListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	result, err := h.service.ListAllSubscriptions(c.Request.Context(), &filters)
	if err != nil {
		response.FromError(c, "failed to list subscriptions", err)
		return
	}

	response.Success(c, http.StatusOK, "subscriptions retrieved", result)
}

// GetStats returns dashboard aggregates
func (h *SubscriptionHandler) GetStats(c *gin.Context) {
	var filters subscription.StatsFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	stats, err := h.service.GetStats(c.Request.Context(), &filters)
	if err != nil {
		response.FromError(c, "failed to get subscription stats", err)
		return
	}

	response.Success(c, http.StatusOK, "subscription stats retrieved", stats)
}

// ApplyScheduledPauses pauses subscriptions whose scheduled pause has begun
func (h *SubscriptionHandler) ApplyScheduledPauses(c *gin.Context) {
	result, err := h.service.ApplyScheduledPauses(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to apply scheduled pauses", err, result)
		return
	}

	response.Success(c, http.StatusOK, "scheduled pauses applied", result)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "invalid subscription ID", err)
		return 0, false
	}
	return id, true
}
