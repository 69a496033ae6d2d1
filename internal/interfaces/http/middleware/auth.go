package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/verdantmarket/backend/internal/infrastructure/auth"
	"github.com/verdantmarket/backend/internal/infrastructure/logger"
	"github.com/verdantmarket/backend/internal/interfaces/http/dto"
)

// Gin context keys set by VendorAuth
const (
	VendorIDKey = "vendor_id"
	EmailKey    = "vendor_email"
	ClaimsKey   = "jwt_claims"
)

// VendorAuth validates the Bearer token on every request whose path does not
// start with one of skipPrefixes. On success the vendor ID and email are set
// on the gin context and the vendor ID is propagated into the request context
// for logging.
func VendorAuth(jwtService *auth.JWTService, skipPrefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, prefix := range skipPrefixes {
			if strings.HasPrefix(c.Request.URL.Path, prefix) {
				c.Next()
				return
			}
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			unauthorized(c, "Missing or malformed Authorization header")
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			switch err {
			case auth.ErrExpiredToken:
				unauthorized(c, "Token has expired")
			case auth.ErrTokenNotYetValid:
				unauthorized(c, "Token is not yet valid")
			default:
				unauthorized(c, "Invalid token")
			}
			return
		}

		c.Set(VendorIDKey, claims.VendorID)
		c.Set(EmailKey, claims.Email)
		c.Set(ClaimsKey, claims)

		ctx := logger.WithVendorID(c.Request.Context(), claims.VendorID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetVendorID returns the authenticated vendor's ID from the gin context.
// The second return is false when the request was not authenticated or the
// stored ID is not a valid UUID.
func GetVendorID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetString(VendorIDKey)
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// GetEmail returns the authenticated vendor's email from the gin context
func GetEmail(c *gin.Context) string {
	return c.GetString(EmailKey)
}

func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(dto.ErrCodeUnauthorized, message, GetRequestID(c)))
}
