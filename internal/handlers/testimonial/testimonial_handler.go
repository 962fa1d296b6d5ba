package testimonial

import (
	"context"
	"net/http"
	"strconv"

	"mealkit-service/internal/domain/testimonial"
	"mealkit-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Service is the moderation surface behind the testimonial routes.
type Service interface {
	Submit(ctx context.Context, req *testimonial.CreateTestimonialRequest) (*testimonial.Testimonial, error)
	ListApproved(ctx context.Context) ([]testimonial.Testimonial, error)
	ListAll(ctx context.Context, limit int) ([]testimonial.Testimonial, error)
	Approve(ctx context.Context, id int64) (*testimonial.Testimonial, error)
	Delete(ctx context.Context, id int64) error
}

type TestimonialHandler struct {
	service Service
}

func NewTestimonialHandler(service Service) *TestimonialHandler {
	return &TestimonialHandler{service: service}
}

// ListApproved returns the testimonials shown on the landing page
func (h *TestimonialHandler) ListApproved(c *gin.Context) {
	items, err := h.service.ListApproved(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to list testimonials", err)
		return
	}

	response.Success(c, http.StatusOK, "testimonials retrieved", items)
}

// Submit accepts a testimonial for moderation
func (h *TestimonialHandler) Submit(c *gin.Context) {
	var req testimonial.CreateTestimonialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	item, err := h.service.Submit(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "failed to submit testimonial", err)
		return
	}

	response.Success(c, http.StatusCreated, "thank you, your testimonial is awaiting review", item)
}

// ========== Admin Endpoints ==========

func (h *TestimonialHandler) ListAll(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	items, err := h.service.ListAll(c.Request.Context(), limit)
	if err != nil {
		response.FromError(c, "failed to list testimonials", err)
		return
	}

	response.Success(c, http.StatusOK, "testimonials retrieved", items)
}

func (h *TestimonialHandler) Approve(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	item, err := h.service.Approve(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, "failed to approve testimonial", err)
		return
	}

	response.Success(c, http.StatusOK, "testimonial approved", item)
}

func (h *TestimonialHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, "failed to delete testimonial", err)
		return
	}

	response.Success(c, http.StatusOK, "testimonial deleted", nil)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "invalid testimonial ID", err)
		return 0, false
	}
	return id, true
}
