package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/nikolayk812/bookcart/internal/domain"
)

type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
	jwt.StandardClaims
}

// TokenParser turns HS256 bearer tokens issued by the storefront backend into auth state.
type TokenParser struct {
	secret []byte
	now    func() time.Time
}

func NewTokenParser(secret string) (*TokenParser, error) {
	if secret == "" {
		return nil, fmt.Errorf("secret is empty")
	}

	return &TokenParser{
		secret: []byte(secret),
		now:    time.Now,
	}, nil
}

// Parse never fails: a missing, malformed or expired token is anonymous.
func (p *TokenParser) Parse(token string) domain.Auth {
	claims, err := p.claims(token)
	if err != nil || claims.Subject == "" {
		return domain.Anonymous()
	}

	return domain.Auth{
		User: &domain.User{
			ID:    claims.Subject,
			Name:  claims.Name,
			Email: claims.Email,
			Role:  claims.Role,
		},
		IsAuthenticated: true,
	}
}

// ParseHeader accepts an Authorization header value of the form "Bearer <token>".
func (p *TokenParser) ParseHeader(header string) domain.Auth {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return domain.Anonymous()
	}
	return p.Parse(strings.TrimSpace(token))
}

// Issue signs claims for the given user. Used by tooling and tests; the backend issues
// real tokens.
func (p *TokenParser) Issue(user domain.User, ttl time.Duration) (string, error) {
	now := p.now()

	claims := Claims{
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
		StandardClaims: jwt.StandardClaims{
			Subject:   user.ID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("token.SignedString: %w", err)
	}
	return signed, nil
}

func (p *TokenParser) claims(token string) (*Claims, error) {
	if token == "" {
		return nil, fmt.Errorf("token is empty")
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("jwt.ParseWithClaims: %w", err)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("token is invalid")
	}

	return claims, nil
}
