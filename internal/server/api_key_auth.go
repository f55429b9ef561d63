package server

import (
	"strings"

	apikeydomain "github.com/greentruckerlabs/greentrucker/internal/apikey/domain"
	"github.com/gin-gonic/gin"
)

const (
	contextIdentityKey = "identity"

	// HeaderResident lets staff and admin keys act on behalf of a resident.
	// Resident keys are pinned to their own id and the header is ignored.
	HeaderResident = "X-Resident-Id"

	// HeaderIdempotencyKey lets a client retry the settle endpoint without
	// paying twice.
	HeaderIdempotencyKey = "Idempotency-Key"
)

func idempotencyKeyFromHeader(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(HeaderIdempotencyKey))
}

// Identity is the authenticated caller attached to the request context.
type Identity struct {
	KeyID string
	Name  string
	Role  string
}

func identityFrom(c *gin.Context) Identity {
	value, ok := c.Get(contextIdentityKey)
	if !ok {
		return Identity{}
	}
	identity, _ := value.(Identity)
	return identity
}

// residentScope resolves which resident a request operates on. Residents are
// always scoped to themselves.
func (s *Server) residentScope(c *gin.Context, identity Identity) string {
	if identity.Role == "resident" {
		return identity.Name
	}
	return strings.TrimSpace(c.GetHeader(HeaderResident))
}

// APIKeyRequired authenticates requests with a bearer API key and attaches
// the caller identity.
func (s *Server) APIKeyRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		presented := parts[1]

		if !s.apiKeyLimiter.Allow(presented) {
			AbortWithError(c, ErrRateLimited)
			return
		}

		keyID, secret, err := apikeydomain.Parse(presented)
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		var record apikeydomain.APIKey
		if err := s.db.WithContext(c.Request.Context()).
			Where("id = ?", keyID).
			First(&record).Error; err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if err := record.Verify(secret); err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		c.Set(contextIdentityKey, Identity{
			KeyID: record.ID.String(),
			Name:  record.Name,
			Role:  record.Role,
		})
		c.Next()
	}
}

// RequirePermission enforces the role grant for an object and action.
func (s *Server) RequirePermission(object, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := identityFrom(c)
		if err := s.authzSvc.Authorize(c.Request.Context(), identity.Role, object, action); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}
