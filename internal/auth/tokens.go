package auth

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"aidanwoods.dev/go-paseto"

	"github.com/prompthub/prompthub-server/internal/domain"
	domainerrors "github.com/prompthub/prompthub-server/internal/errors"
	"github.com/prompthub/prompthub-server/internal/id"
)

const (
	tokenIssuer   = "prompthub-server"
	tokenAudience = "prompthub-client"
)

// TokenService issues and verifies PASETO v4.local identity tokens.
type TokenService struct {
	symmetricKey  paseto.V4SymmetricKey
	tokenDuration time.Duration
	now           func() time.Time
}

// NewTokenService creates a token service from a 32-byte symmetric key.
func NewTokenService(key []byte, tokenDuration time.Duration) (*TokenService, error) {
	if len(key) != keyLength {
		return nil, fmt.Errorf("PASETO v4 key must be exactly %d bytes, got %d", keyLength, len(key))
	}

	symmetricKey, err := paseto.V4SymmetricKeyFromBytes(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create PASETO symmetric key: %w", err)
	}

	return &TokenService{
		symmetricKey:  symmetricKey,
		tokenDuration: tokenDuration,
		now:           time.Now,
	}, nil
}

// IssueIdentityToken creates an encrypted token asserting the identity.
// The email is the subject and the durable identity key.
func (s *TokenService) IssueIdentityToken(who domain.Identity) (string, error) {
	if strings.TrimSpace(who.Email) == "" {
		return "", domainerrors.Validation("identity email is required")
	}

	now := s.now()

	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetSubject(who.Email)
	token.SetAudience(tokenAudience)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(s.tokenDuration))

	tokenID, err := id.Generate("tok")
	if err != nil {
		return "", fmt.Errorf("generate token ID: %w", err)
	}
	token.SetJti(tokenID)

	//nolint:errcheck // Token.Set only errors on unencodable values
	_ = token.Set("email", who.Email)
	//nolint:errcheck // Token.Set only errors on unencodable values
	_ = token.Set("name", who.Name)
	//nolint:errcheck // Token.Set only errors on unencodable values
	_ = token.Set("image", who.Image)

	return token.V4Encrypt(s.symmetricKey, nil), nil
}

// VerifyIdentityToken decrypts and validates a token, returning the identity it carries.
func (s *TokenService) VerifyIdentityToken(tokenString string) (*IdentityClaims, error) {
	now := s.now()

	parser := paseto.NewParserWithoutExpiryCheck()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))

	token, err := parser.ParseV4Local(s.symmetricKey, tokenString, nil)
	if err != nil {
		return nil, domainerrors.Unauthorized("invalid identity token").WithCause(err)
	}

	var claims IdentityClaims
	if err := json.Unmarshal(token.ClaimsJSON(), &claims); err != nil {
		return nil, domainerrors.Unauthorized("invalid identity token").WithCause(err)
	}

	if now.After(claims.Expiration) {
		return nil, domainerrors.TokenExpired("identity token expired")
	}
	if now.Before(claims.NotBefore) {
		return nil, domainerrors.Unauthorized("identity token not yet valid")
	}
	if claims.Email == "" {
		return nil, domainerrors.Unauthorized("identity token has no email")
	}

	return &claims, nil
}

// TokenDuration returns the configured token lifetime.
func (s *TokenService) TokenDuration() time.Duration {
	return s.tokenDuration
}
