package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	apperrors "nayidisha/internal/errors"
)

// WebhookSecretMiddleware creates a Gin middleware that validates the
// X-Webhook-Secret header against the secret configured with the voice
// provider. When no secret is configured the check is skipped, matching
// providers that do not sign their webhook calls.
func WebhookSecretMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}
		got := c.GetHeader("X-Webhook-Secret")
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			sentinel := apperrors.ErrInvalidWebhookKey
			c.AbortWithStatusJSON(sentinel.StatusCode,
				gin.H{"error": gin.H{"code": sentinel.Code, "message": sentinel.Message}})
			return
		}
		c.Next()
	}
}
