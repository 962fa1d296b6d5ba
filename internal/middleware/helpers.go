// internal/middleware/helpers.go
package middleware

import (
	"mealkit-service/internal/domain/auth"

	"github.com/gin-gonic/gin"
)

// GetUserID gets the authenticated user ID from context
func GetUserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get(ctxUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// MustGetUserID gets user ID from context or panics
func MustGetUserID(c *gin.Context) int64 {
	id, exists := GetUserID(c)
	if !exists {
		panic("user_id not found in context")
	}
	return id
}

// GetJTI gets the token id from context
func GetJTI(c *gin.Context) (string, bool) {
	v, exists := c.Get(ctxJTI)
	if !exists {
		return "", false
	}
	jti, ok := v.(string)
	return jti, ok
}

// MustGetJTI gets JTI from context or panics
func MustGetJTI(c *gin.Context) string {
	jti, exists := GetJTI(c)
	if !exists {
		panic("jti not found in context")
	}
	return jti
}

// GetRole gets the caller's role from context
func GetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get(ctxRole)
	if !exists {
		return "", false
	}
	role, ok := v.(string)
	return role, ok
}

// GetActor builds the service-level caller from context
func GetActor(c *gin.Context) auth.Actor {
	id, _ := GetUserID(c)
	role, _ := GetRole(c)
	return auth.Actor{ID: id, Role: role}
}

// IsAuthenticated checks if request is authenticated
func IsAuthenticated(c *gin.Context) bool {
	_, exists := c.Get(ctxUserID)
	return exists
}

// IsAdmin checks if user is an admin
func IsAdmin(c *gin.Context) bool {
	role, _ := GetRole(c)
	return role == auth.RoleAdmin
}
