package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/deskwise/workflow-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	SubjectID string
	OrgID     string
	// APIKey is set when the caller authenticated with a static key rather
	// than a token.
	APIKey bool
}

// Middleware validates bearer tokens or static API keys.
type Middleware struct {
	tokens       *TokenManager
	apiKeyHashes []string
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, apiKeyHashes []string) *Middleware {
	return &Middleware{tokens: tokens, apiKeyHashes: apiKeyHashes}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	if key := c.Get("X-Api-Key"); key != "" {
		if !VerifyAPIKey(m.apiKeyHashes, key) {
			return apperrors.NewUnauthorized("invalid api key")
		}
		c.Locals(principalKey, &Principal{SubjectID: "api-key", APIKey: true})
		return c.Next()
	}

	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}
	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	c.Locals(principalKey, &Principal{SubjectID: claims.SubjectID, OrgID: claims.OrgID})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
