package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrNoCredential is returned when no token has been configured.
	ErrNoCredential = errors.New("no credential available")
	// ErrRefreshRejected is returned when the auth service refuses the
	// refresh token. Only this error discards the stored credential.
	ErrRefreshRejected = errors.New("refresh token rejected")
)

// TokenStore owns the credential used against the remote backend.
type TokenStore interface {
	AccessToken(ctx context.Context) (string, error)
	// Refresh exchanges the refresh token for a new access token and
	// stores it.
	Refresh(ctx context.Context) (string, error)
}

// Refresher obtains a new token pair from the auth service.
type Refresher interface {
	RefreshToken(ctx context.Context, refreshToken string) (access, refresh string, err error)
}

// StaticTokenStore keeps the credential in memory.
type StaticTokenStore struct {
	mu        sync.Mutex
	access    string
	refresh   string
	refresher Refresher
}

// NewStaticTokenStore creates a StaticTokenStore. refresher may be nil, in
// which case Refresh always fails.
func NewStaticTokenStore(access, refresh string, refresher Refresher) *StaticTokenStore {
	return &StaticTokenStore{access: access, refresh: refresh, refresher: refresher}
}

func (s *StaticTokenStore) AccessToken(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.access == "" {
		return "", ErrNoCredential
	}
	return s.access, nil
}

func (s *StaticTokenStore) Refresh(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refresher == nil || s.refresh == "" {
		s.access, s.refresh = "", ""
		return "", ErrNoCredential
	}
	access, refresh, err := s.refresher.RefreshToken(ctx, s.refresh)
	if err != nil {
		if errors.Is(err, ErrRefreshRejected) {
			s.access, s.refresh = "", ""
		}
		return "", err
	}
	s.access = access
	if refresh != "" {
		s.refresh = refresh
	}
	return access, nil
}

// RedisTokenStore shares the credential between server replicas and the
// operator CLIs.
type RedisTokenStore struct {
	rdb        *redis.Client
	accessKey  string
	refreshKey string
	refresher  Refresher
}

// NewRedisTokenStore creates a RedisTokenStore and seeds it with the given
// tokens when the keys are still empty.
func NewRedisTokenStore(ctx context.Context, rdb *redis.Client, accessKey, refreshKey, access, refresh string, refresher Refresher) (*RedisTokenStore, error) {
	s := &RedisTokenStore{rdb: rdb, accessKey: accessKey, refreshKey: refreshKey, refresher: refresher}
	if access != "" {
		if err := rdb.SetNX(ctx, accessKey, access, 0).Err(); err != nil {
			return nil, fmt.Errorf("seed access token: %w", err)
		}
	}
	if refresh != "" {
		if err := rdb.SetNX(ctx, refreshKey, refresh, 0).Err(); err != nil {
			return nil, fmt.Errorf("seed refresh token: %w", err)
		}
	}
	return s, nil
}

func (s *RedisTokenStore) AccessToken(ctx context.Context) (string, error) {
	tok, err := s.rdb.Get(ctx, s.accessKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoCredential
	}
	return tok, err
}

func (s *RedisTokenStore) Refresh(ctx context.Context) (string, error) {
	refresh, err := s.rdb.Get(ctx, s.refreshKey).Result()
	if errors.Is(err, redis.Nil) || s.refresher == nil {
		s.clear(ctx)
		return "", ErrNoCredential
	}
	if err != nil {
		return "", err
	}

	access, next, err := s.refresher.RefreshToken(ctx, refresh)
	if err != nil {
		if errors.Is(err, ErrRefreshRejected) {
			s.clear(ctx)
		}
		return "", err
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, s.accessKey, access, 0)
	if next != "" {
		pipe.Set(ctx, s.refreshKey, next, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("store refreshed token: %w", err)
	}
	return access, nil
}

func (s *RedisTokenStore) clear(ctx context.Context) {
	s.rdb.Del(ctx, s.accessKey, s.refreshKey)
}

// HTTPRefresher calls POST {authURL}/refresh-token. A 400, 401 or 403 answer
// yields ErrRefreshRejected; transport failures and other statuses yield a
// *RemoteError so the caller can try again later.
type HTTPRefresher struct {
	authURL string
	client  *http.Client
}

// NewHTTPRefresher creates an HTTPRefresher.
func NewHTTPRefresher(authURL string, timeout time.Duration) *HTTPRefresher {
	return &HTTPRefresher{authURL: strings.TrimRight(authURL, "/"), client: &http.Client{Timeout: timeout}}
}

func (r *HTTPRefresher) RefreshToken(ctx context.Context, refreshToken string) (string, string, error) {
	body, err := json.Marshal(map[string]string{"refreshToken": refreshToken})
	if err != nil {
		return "", "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.authURL+"/refresh-token", bytes.NewReader(body))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", "", &RemoteError{Message: "refresh token", Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return "", "", fmt.Errorf("%w: status %d", ErrRefreshRejected, resp.StatusCode)
	default:
		return "", "", &RemoteError{Status: resp.StatusCode, Message: "refresh token"}
	}

	var out struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", "", fmt.Errorf("decode refresh response: %w", err)
	}
	if out.AccessToken == "" {
		return "", "", errors.New("refresh token: empty access token")
	}
	return out.AccessToken, out.RefreshToken, nil
}
