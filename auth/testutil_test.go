package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const (
	testKID      = "test-key-1"
	testAudience = "casting-agency"
	testDomain   = "tenant.example.com"
)

type testJWK struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

func generateTestKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func toJWK(pub *rsa.PublicKey, kid string) testJWK {
	return testJWK{
		Kid: kid,
		Kty: "RSA",
		Alg: "RS256",
		Use: "sig",
		N:   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
	}
}

// jwksServer serves whatever keys currently holds and counts requests.
type jwksServer struct {
	*httptest.Server
	keys   atomic.Value
	hits   atomic.Int32
	status atomic.Int32
}

func newJWKSServer(t *testing.T, keys ...testJWK) *jwksServer {
	t.Helper()
	s := &jwksServer{}
	s.keys.Store(keys)
	s.status.Store(http.StatusOK)
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		if code := int(s.status.Load()); code != http.StatusOK {
			w.WriteHeader(code)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"keys": s.keys.Load().([]testJWK)})
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *jwksServer) setKeys(keys ...testJWK) { s.keys.Store(keys) }

func newTestKeySource(t *testing.T, url string, cfg KeySourceConfig) *KeySource {
	t.Helper()
	cache, err := NewRistrettoCache(1<<10, 1<<20, 64)
	require.NoError(t, err)
	t.Cleanup(cache.Close)

	cfg.URL = url
	if cfg.RetryInterval == 0 {
		cfg.RetryInterval = time.Millisecond
	}
	return NewKeySource(cfg, cache, nil)
}

func validClaims(perms ...string) jwt.MapClaims {
	now := time.Now()
	p := make([]any, 0, len(perms))
	for _, s := range perms {
		p = append(p, s)
	}
	return jwt.MapClaims{
		"iss":         IssuerURL(testDomain),
		"sub":         "auth0|casting-director",
		"aud":         testAudience,
		"iat":         now.Unix(),
		"exp":         now.Add(time.Hour).Unix(),
		"permissions": p,
	}
}

func signToken(t *testing.T, key *rsa.PrivateKey, kid string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if kid != "" {
		token.Header["kid"] = kid
	}
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}
