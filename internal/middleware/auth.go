package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/dentalcare-api/internal/handler"
	"github.com/jwalitptl/dentalcare-api/internal/model"
	apperrors "github.com/jwalitptl/dentalcare-api/pkg/errors"
)

const ContextIdentity = "identity"

type identityKey struct{}

// IdentityResolver turns a bearer token into the account it names.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*model.Identity, error)
}

type AuthMiddleware struct {
	resolver IdentityResolver
}

func NewAuthMiddleware(resolver IdentityResolver) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver}
}

// Authenticate requires a valid bearer token for an existing admin account.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			handler.RespondError(c, apperrors.Unauthorized("No token provided", nil))
			return
		}

		token, ok := bearerToken(header)
		if !ok {
			handler.RespondError(c, apperrors.Unauthorized("Invalid token", nil))
			return
		}

		identity, err := m.resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			handler.RespondError(c, err)
			return
		}

		setIdentity(c, identity)
		c.Next()
	}
}

// Identify attaches the caller's identity when a valid token is present and
// otherwise lets the request through as anonymous.
func (m *AuthMiddleware) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if ok {
			if identity, err := m.resolver.Resolve(c.Request.Context(), token); err == nil {
				setIdentity(c, identity)
			} else if !apperrors.Is(err, apperrors.ErrUnauthorized) {
				handler.RespondError(c, err)
				return
			}
		}
		c.Next()
	}
}

// IdentityFromContext returns the authenticated caller, or nil when anonymous.
func IdentityFromContext(ctx context.Context) *model.Identity {
	identity, _ := ctx.Value(identityKey{}).(*model.Identity)
	return identity
}

func setIdentity(c *gin.Context, identity *model.Identity) {
	c.Set(ContextIdentity, identity)

	ctx := context.WithValue(c.Request.Context(), identityKey{}, identity)
	logger := zerolog.Ctx(ctx).With().Str("admin_id", identity.ID.String()).Logger()
	c.Request = c.Request.WithContext(logger.WithContext(ctx))
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
