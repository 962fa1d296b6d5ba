// internal/app/router.go
package app

import (
	"fmt"
	"net/http"

	authHandler "mealkit-service/internal/handlers/auth"
	mealplanHandler "mealkit-service/internal/handlers/mealplan"
	subscriptionHandler "mealkit-service/internal/handlers/subscription"
	testimonialHandler "mealkit-service/internal/handlers/testimonial"
	"mealkit-service/internal/middleware"
	"mealkit-service/internal/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	AuthHandler         *authHandler.AuthHandler
	SubscriptionHandler *subscriptionHandler.SubscriptionHandler
	MealPlanHandler     *mealplanHandler.MealPlanHandler
	TestimonialHandler  *testimonialHandler.TestimonialHandler
	AuthMiddleware      *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, h *Handlers) error {
	if err := validation.RegisterWithGin(); err != nil {
		return fmt.Errorf("failed to register validators: %w", err)
	}

	// ==================== Health & Metrics ====================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": "1.0.0"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")

	// ==================== Public Auth Routes ====================
	authPublic := api.Group("/auth")
	{
		authPublic.POST("/register", h.AuthHandler.Register)
		authPublic.POST("/login", h.AuthHandler.Login)
	}

	// ==================== Authenticated Auth Routes ====================
	authProtected := api.Group("/auth")
	authProtected.Use(h.AuthMiddleware.Auth())
	{
		authProtected.POST("/logout", h.AuthHandler.Logout)
		authProtected.POST("/logout-all", h.AuthHandler.LogoutAll)
		authProtected.GET("/me", h.AuthHandler.GetMe)
	}

	// ==================== Meal Plans ====================
	plans := api.Group("/meal-plans")
	plans.Use(h.AuthMiddleware.OptionalAuth())
	{
		plans.GET("", h.MealPlanHandler.ListPlans)
		plans.GET("/:id", h.MealPlanHandler.GetPlan)
	}

	// ==================== Testimonials ====================
	testimonials := api.Group("/testimonials")
	{
		testimonials.GET("", h.TestimonialHandler.ListApproved)
		testimonials.POST("", h.TestimonialHandler.Submit)
	}

	// ==================== Subscriptions ====================
	api.POST("/subscriptions/quote", h.SubscriptionHandler.Quote)

	subscriptions := api.Group("/subscriptions")
	subscriptions.Use(h.AuthMiddleware.Auth())
	{
		subscriptions.POST("", h.SubscriptionHandler.CreateSubscription)
		subscriptions.GET("", h.SubscriptionHandler.ListMySubscriptions)
		subscriptions.GET("/:id", h.SubscriptionHandler.GetSubscription)
		subscriptions.PUT("/:id", h.SubscriptionHandler.UpdateSubscription)
		subscriptions.DELETE("/:id", h.SubscriptionHandler.DeleteSubscription)
		subscriptions.POST("/:id/pause", h.SubscriptionHandler.PauseSubscription)
		subscriptions.POST("/:id/reactivate", h.SubscriptionHandler.ReactivateSubscription)
		subscriptions.POST("/:id/cancel", h.SubscriptionHandler.CancelSubscription)
		subscriptions.GET("/:id/billing", h.SubscriptionHandler.GetBillingSummary)
	}

	// ==================== Admin Routes ====================
	admin := api.Group("/admin")
	admin.Use(h.AuthMiddleware.AdminOnly()...)
	{
		adminSubscriptions := admin.Group("/subscriptions")
		{
			adminSubscriptions.GET("", h.SubscriptionHandler.ListAllSubscriptions)
			adminSubscriptions.GET("/stats", h.SubscriptionHandler.GetStats)
			adminSubscriptions.POST("/scheduled-pauses/apply", h.SubscriptionHandler.ApplyScheduledPauses)
		}

		adminPlans := admin.Group("/meal-plans")
		{
			adminPlans.POST("", h.MealPlanHandler.CreatePlan)
			adminPlans.PUT("/:id", h.MealPlanHandler.UpdatePlan)
			adminPlans.DELETE("/:id", h.MealPlanHandler.DeletePlan)
		}

		adminTestimonials := admin.Group("/testimonials")
		{
			adminTestimonials.GET("", h.TestimonialHandler.ListAll)
			adminTestimonials.PUT("/:id/approve", h.TestimonialHandler.Approve)
			adminTestimonials.DELETE("/:id", h.TestimonialHandler.Delete)
		}
	}

	return nil
}
