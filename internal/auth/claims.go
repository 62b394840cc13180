package auth

import (
	"time"

	"github.com/prompthub/prompthub-server/internal/domain"
)

// IdentityClaims are the claims inside an identity token.
type IdentityClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Image string `json:"image"`

	// Standard PASETO claims
	Issuer     string    `json:"iss"`
	Subject    string    `json:"sub"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
	TokenID    string    `json:"jti"`
}

// Identity returns the caller described by the claims.
func (c *IdentityClaims) Identity() domain.Identity {
	return domain.Identity{Email: c.Email, Name: c.Name, Image: c.Image}
}
