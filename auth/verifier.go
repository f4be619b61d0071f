package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// VerifierConfig holds configuration for Verifier
type VerifierConfig struct {
	// Domain is the issuer's host, e.g. "example.us.auth0.com".
	Domain     string
	Audience   string
	Algorithms []string
	Leeway     time.Duration

	// Issuer overrides the issuer derived from Domain.
	Issuer string
}

// IssuerURL returns the expected iss claim for domain.
func IssuerURL(domain string) string {
	return "https://" + strings.TrimSuffix(domain, "/") + "/"
}

// JWKSURL returns the well-known key set location for domain.
func JWKSURL(domain string) string {
	return IssuerURL(domain) + ".well-known/jwks.json"
}

// Verifier checks a bearer token's signature against the issuer's key set
// and validates exp, aud and iss.
type Verifier struct {
	keys   KeyProvider
	parser *jwt.Parser
	issuer string
	logger *zap.Logger
}

// NewVerifier creates a Verifier that resolves signing keys from keys.
func NewVerifier(cfg VerifierConfig, keys KeyProvider, logger *zap.Logger) (*Verifier, error) {
	if keys == nil {
		return nil, errors.New("key provider is required")
	}
	if cfg.Audience == "" {
		return nil, errors.New("audience is required")
	}
	if len(cfg.Algorithms) == 0 {
		return nil, errors.New("at least one signing algorithm is required")
	}

	issuer := cfg.Issuer
	if issuer == "" {
		if cfg.Domain == "" {
			return nil, errors.New("domain or issuer is required")
		}
		issuer = IssuerURL(cfg.Domain)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods(cfg.Algorithms),
		jwt.WithAudience(cfg.Audience),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	}
	if cfg.Leeway > 0 {
		opts = append(opts, jwt.WithLeeway(cfg.Leeway))
	}

	return &Verifier{
		keys:   keys,
		parser: jwt.NewParser(opts...),
		issuer: issuer,
		logger: logger,
	}, nil
}

// Issuer returns the iss value tokens must carry.
func (v *Verifier) Issuer() string {
	return v.issuer
}

// Verify validates tokenString and returns its claims unchanged.
func (v *Verifier) Verify(ctx context.Context, tokenString string) (Claims, error) {
	unverified, _, err := v.parser.ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return nil, ErrUnparseableToken.wrap(err)
	}

	kid, ok := unverified.Header["kid"].(string)
	if !ok || kid == "" {
		return nil, ErrMissingKeyID
	}

	key, err := v.keys.Key(ctx, kid)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) || errors.Is(err, ErrUnsupportedKeyType) {
			return nil, ErrSigningKeyNotFound.wrap(fmt.Errorf("kid %q: %w", kid, err))
		}
		v.logger.Error("failed to resolve signing key",
			zap.String("kid", kid),
			zap.Error(err),
		)
		return nil, ErrKeySetUnavailable.wrap(err)
	}

	claims := jwt.MapClaims{}
	_, err = v.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return key, nil
	})
	if err != nil {
		return nil, classify(err)
	}

	return Claims(claims), nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired.wrap(err)
	case errors.Is(err, jwt.ErrTokenInvalidAudience), errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ErrInvalidClaims.wrap(err)
	default:
		return ErrUnparseableToken.wrap(err)
	}
}
