// Package validation registers the domain-specific binding tags used by the
// request DTOs (plantier, mealtype, weekday).
package validation

import (
	"fmt"

	"mealkit-service/internal/domain/subscription"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register adds the custom tags to v.
func Register(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"plantier": func(fl validator.FieldLevel) bool {
			return subscription.PlanTier(fl.Field().String()).IsValid()
		},
		"mealtype": func(fl validator.FieldLevel) bool {
			return subscription.MealType(fl.Field().String()).IsValid()
		},
		"weekday": func(fl validator.FieldLevel) bool {
			return subscription.DeliveryDay(fl.Field().String()).IsValid()
		},
	}

	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s validator: %w", tag, err)
		}
	}
	return nil
}

// RegisterWithGin installs the tags on gin's default binding validator.
func RegisterWithGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected gin validator engine %T", binding.Validator.Engine())
	}
	return Register(v)
}
