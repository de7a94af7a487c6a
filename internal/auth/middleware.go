package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/complaint-portal/pkg/util"
)

const identityKey = "auth_identity"

// Identity is the verified claim extracted from a bearer token. It carries
// only what the token asserts; the account behind it is NOT re-checked
// against the database, so a deleted account keeps a working token until
// expiry. Operations that need the full user record look it up by email.
type Identity struct {
	Email string
}

// Middleware validates bearer tokens and exposes the decoded identity.
type Middleware struct {
	tokens *TokenManager
}

// NewMiddleware constructs the token verification middleware.
func NewMiddleware(tokens *TokenManager) *Middleware {
	return &Middleware{tokens: tokens}
}

// ExtractToken returns the token from an Authorization header value,
// stripping an optional "Bearer " prefix. Both bare and prefixed forms are
// accepted; two historical header conventions coexisted.
func ExtractToken(header string) string {
	if rest, ok := strings.CutPrefix(header, "Bearer "); ok {
		return rest
	}
	return header
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	token := ExtractToken(c.Get("Authorization"))
	if token == "" {
		return apperrors.NewUnauthorized("token not available")
	}

	claims, err := m.tokens.ParseToken(token)
	if err != nil {
		return apperrors.NewUnauthorized("unauthorized")
	}

	c.Locals(identityKey, &Identity{Email: claims.Email})
	return c.Next()
}

// IdentityFromContext retrieves the verified caller identity.
func IdentityFromContext(c *fiber.Ctx) (*Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*Identity)
	return identity, ok
}
