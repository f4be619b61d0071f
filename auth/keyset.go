package auth

import (
	"context"
	"crypto/ecdsa"
	"crypto/rsa"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// maxJWKSResponseSize limits the size of key set responses.
const maxJWKSResponseSize = 1 << 20

var (
	// ErrJWKSFetchFailed is returned when the key set could not be fetched
	ErrJWKSFetchFailed = errors.New("failed to fetch JWKS")

	// ErrKeyNotFound is returned when no key in the set matches the kid
	ErrKeyNotFound = errors.New("key not found in JWKS")

	// ErrUnsupportedKeyType is returned for keys that are neither RSA nor EC
	ErrUnsupportedKeyType = errors.New("unsupported key type")
)

// KeyProvider resolves a signing key by key id.
type KeyProvider interface {
	Key(ctx context.Context, kid string) (any, error)
}

// KeySourceConfig holds configuration for KeySource
type KeySourceConfig struct {
	URL                string
	CacheTTL           time.Duration
	MinRefreshInterval time.Duration
	FetchTimeout       time.Duration
	MaxRetries         int
	RetryInterval      time.Duration

	// StaleTTL keeps the last fetched set this long so it can be served
	// when a refetch after expiry fails. Zero disables the fallback.
	StaleTTL time.Duration
}

// KeySource fetches the issuer's published key set and caches it.
//
// A lookup for an unknown kid forces one refetch, at most once per
// MinRefreshInterval. Concurrent fetches for the same URL are collapsed
// and run detached from any single caller's cancellation.
type KeySource struct {
	url           string
	cache         Cache
	httpClient    *http.Client
	ttl           time.Duration
	minRefresh    time.Duration
	fetchTimeout  time.Duration
	maxRetries    uint64
	retryInterval time.Duration
	staleTTL      time.Duration
	logger        *zap.Logger

	group       singleflight.Group
	lastRefresh atomic.Int64
}

// NewKeySource creates a KeySource. A nil logger disables logging.
func NewKeySource(cfg KeySourceConfig, cache Cache, logger *zap.Logger) *KeySource {
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	if cfg.MinRefreshInterval == 0 {
		cfg.MinRefreshInterval = 30 * time.Second
	}
	if cfg.FetchTimeout == 0 {
		cfg.FetchTimeout = 5 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryInterval == 0 {
		cfg.RetryInterval = 200 * time.Millisecond
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &KeySource{
		url:           cfg.URL,
		cache:         cache,
		httpClient:    &http.Client{},
		ttl:           cfg.CacheTTL,
		minRefresh:    cfg.MinRefreshInterval,
		fetchTimeout:  cfg.FetchTimeout,
		maxRetries:    uint64(cfg.MaxRetries),
		retryInterval: cfg.RetryInterval,
		staleTTL:      cfg.StaleTTL,
		logger:        logger,
	}
}

// SetHTTPClient replaces the client used for fetches.
func (s *KeySource) SetHTTPClient(c *http.Client) {
	if c != nil {
		s.httpClient = c
	}
}

// URL returns the key set location.
func (s *KeySource) URL() string {
	return s.url
}

// Key returns the public key for kid.
func (s *KeySource) Key(ctx context.Context, kid string) (any, error) {
	set, err := s.keySet(ctx, false)
	if err != nil {
		return nil, err
	}

	key, err := lookupKey(set, kid)
	if !errors.Is(err, ErrKeyNotFound) {
		return key, err
	}

	if !s.refreshAllowed() {
		return nil, err
	}

	s.logger.Info("kid not in cached key set, refreshing",
		zap.String("kid", kid),
		zap.String("url", s.url),
	)
	set, err = s.keySet(ctx, true)
	if err != nil {
		return nil, err
	}
	return lookupKey(set, kid)
}

// Warm fetches the key set if none is cached.
func (s *KeySource) Warm(ctx context.Context) error {
	_, err := s.keySet(ctx, false)
	return err
}

// Invalidate drops the cached key set so the next lookup refetches it.
func (s *KeySource) Invalidate() {
	s.cache.Del(s.cacheKey())
	s.cache.Del(s.staleKey())
	s.lastRefresh.Store(0)
}

// Ready reports whether a key set is currently cached, stale or not.
func (s *KeySource) Ready() bool {
	_, ok := s.cached()
	return ok
}

func (s *KeySource) cacheKey() string {
	return "jwks:" + s.url
}

func (s *KeySource) staleKey() string {
	return "jwks:stale:" + s.url
}

func (s *KeySource) cached() (jwk.Set, bool) {
	return s.lookup(s.cacheKey())
}

func (s *KeySource) lookup(key string) (jwk.Set, bool) {
	val, ok := s.cache.Get(key)
	if !ok {
		return nil, false
	}
	set, ok := val.(jwk.Set)
	return set, ok && set != nil
}

func (s *KeySource) refreshAllowed() bool {
	last := s.lastRefresh.Load()
	return last == 0 || time.Since(time.Unix(0, last)) >= s.minRefresh
}

func (s *KeySource) keySet(ctx context.Context, force bool) (jwk.Set, error) {
	if !force {
		if set, ok := s.cached(); ok {
			return set, nil
		}
	}

	// The shared fetch outlives any single caller. fetchTimeout and
	// maxRetries bound it.
	fetchCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(s.url, func() (any, error) {
		if !force {
			if set, ok := s.cached(); ok {
				return set, nil
			}
		}

		set, err := s.fetchWithRetry(fetchCtx)
		if err != nil {
			return nil, err
		}
		s.store(set)
		return set, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrJWKSFetchFailed, ctx.Err())
	case res = <-ch:
	}

	if res.Err != nil {
		if !force {
			if set, ok := s.lookup(s.staleKey()); ok {
				s.logger.Warn("serving stale key set after failed refresh",
					zap.String("url", s.url),
					zap.Error(res.Err),
				)
				// Hold the stale set as current until the next refresh window.
				s.cache.Set(s.cacheKey(), set, 1, s.minRefresh)
				s.wait()
				return set, nil
			}
		}
		return nil, res.Err
	}

	set, ok := res.Val.(jwk.Set)
	if !ok {
		return nil, fmt.Errorf("unexpected key set type %T", res.Val)
	}
	return set, nil
}

func (s *KeySource) store(set jwk.Set) {
	s.cache.Set(s.cacheKey(), set, 1, s.ttl)
	if s.staleTTL > 0 {
		s.cache.Set(s.staleKey(), set, 1, s.ttl+s.staleTTL)
	}
	s.wait()
	s.lastRefresh.Store(time.Now().UnixNano())

	s.logger.Debug("key set refreshed",
		zap.String("url", s.url),
		zap.Int("keys", set.Len()),
	)
}

// wait flushes buffered cache writes so the next read sees them.
func (s *KeySource) wait() {
	if w, ok := s.cache.(interface{ Wait() }); ok {
		w.Wait()
	}
}

func (s *KeySource) fetchWithRetry(ctx context.Context) (jwk.Set, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.retryInterval
	b.MaxInterval = 5 * s.retryInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(b, s.maxRetries), ctx)

	var set jwk.Set
	attempt := 0
	err := backoff.RetryNotify(func() error {
		attempt++
		fetched, err := s.fetch(ctx)
		if err != nil {
			return err
		}
		set = fetched
		return nil
	}, policy, func(err error, wait time.Duration) {
		s.logger.Warn("key set fetch failed, retrying",
			zap.String("url", s.url),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", wait),
			zap.Error(err),
		)
	})
	if err != nil {
		s.logger.Error("key set fetch failed",
			zap.String("url", s.url),
			zap.Int("attempts", attempt),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrJWKSFetchFailed, err)
	}
	return set, nil
}

// fetch performs one GET. Client errors and unparseable bodies are marked
// permanent so they are not retried.
func (s *KeySource) fetch(ctx context.Context) (jwk.Set, error) {
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("status code %d", resp.StatusCode)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	set, err := jwk.ParseReader(io.LimitReader(resp.Body, maxJWKSResponseSize))
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("parse jwks: %w", err))
	}
	return set, nil
}

func lookupKey(set jwk.Set, kid string) (any, error) {
	key, ok := set.LookupKeyID(kid)
	if !ok {
		return nil, ErrKeyNotFound
	}

	var rawKey any
	if err := key.Raw(&rawKey); err != nil {
		return nil, fmt.Errorf("failed to get raw key: %w", err)
	}
	switch rawKey.(type) {
	case *rsa.PublicKey, *ecdsa.PublicKey:
		return rawKey, nil
	default:
		return nil, ErrUnsupportedKeyType
	}
}
