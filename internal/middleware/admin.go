package middleware

import (
	apierrors "github.com/Tharunsai123/task-manager-backend/internal/errors"
	"github.com/Tharunsai123/task-manager-backend/internal/models"
	"github.com/Tharunsai123/task-manager-backend/internal/repository"
	"github.com/gin-gonic/gin"
)

// RequireAdmin checks that the authenticated user holds the admin role.
// It gates user administration only; task ownership checks are enforced
// separately and are never bypassed by this role.
func RequireAdmin(userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		user, err := userRepo.FindByID(userID)
		if err != nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if user.Role != models.RoleAdmin {
			apierrors.Forbidden(c, "Admin access required")
			c.Abort()
			return
		}

		c.Next()
	}
}
