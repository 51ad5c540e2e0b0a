package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// RemoteStore talks to a generic CRUD-over-HTTP backend:
//
//	GET    {base}/read?tableName=T&field=value
//	POST   {base}/insert   {"tableName", "records"}            -> 201
//	PUT    {base}/update   {"tableName", "idColumn", "idValue", "updates"} -> 200
//	DELETE {base}/delete   {"tableName", "idColumn", "idValue"} -> 200
//
// Every call carries a bearer token. A 401 triggers exactly one credential
// refresh and one retry; a second 401 surfaces as ErrUnauthorized.
type RemoteStore struct {
	baseURL string
	client  *http.Client
	tokens  TokenStore
	log     zerolog.Logger
}

// NewRemoteStore creates a RemoteStore rooted at baseURL.
func NewRemoteStore(baseURL string, timeout time.Duration, tokens TokenStore, log zerolog.Logger) *RemoteStore {
	return &RemoteStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log.With().Str("component", "remote_store").Logger(),
	}
}

type insertBody struct {
	TableName string   `json:"tableName"`
	Records   []Record `json:"records"`
}

type updateBody struct {
	TableName string `json:"tableName"`
	IDColumn  string `json:"idColumn"`
	IDValue   any    `json:"idValue"`
	Updates   Record `json:"updates"`
}

type deleteBody struct {
	TableName string `json:"tableName"`
	IDColumn  string `json:"idColumn"`
	IDValue   any    `json:"idValue"`
}

// Read fetches matching records.
func (s *RemoteStore) Read(ctx context.Context, table Table, field string, value any) ([]Record, error) {
	q := url.Values{}
	q.Set("tableName", string(table))
	if field != "" {
		q.Set(field, fmt.Sprint(value))
	}

	body, err := s.do(ctx, http.MethodGet, "/read?"+q.Encode(), nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	records := []Record{}
	if len(bytes.TrimSpace(body)) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", table, err)
	}
	return records, nil
}

// Insert creates records.
func (s *RemoteStore) Insert(ctx context.Context, table Table, records ...Record) error {
	if len(records) == 0 {
		return nil
	}
	_, err := s.do(ctx, http.MethodPost, "/insert", insertBody{TableName: string(table), Records: records}, http.StatusCreated)
	return err
}

// Update applies a partial update by key.
func (s *RemoteStore) Update(ctx context.Context, table Table, idColumn string, idValue any, fields Record) error {
	_, err := s.do(ctx, http.MethodPut, "/update", updateBody{
		TableName: string(table),
		IDColumn:  idColumn,
		IDValue:   idValue,
		Updates:   fields,
	}, http.StatusOK)
	return err
}

// Delete removes a record by key.
func (s *RemoteStore) Delete(ctx context.Context, table Table, idColumn string, idValue any) error {
	_, err := s.do(ctx, http.MethodDelete, "/delete", deleteBody{
		TableName: string(table),
		IDColumn:  idColumn,
		IDValue:   idValue,
	}, http.StatusOK)
	return err
}

func (s *RemoteStore) do(ctx context.Context, method, path string, payload any, want int) ([]byte, error) {
	var raw []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		raw = b
	}

	token, err := s.tokens.AccessToken(ctx)
	if errors.Is(err, ErrNoCredential) {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if err != nil {
		return nil, fmt.Errorf("load access token: %w", err)
	}

	status, body, err := s.send(ctx, method, path, raw, token)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized {
		s.log.Debug().Str("method", method).Str("path", path).Msg("Access token rejected, refreshing")
		token, err = s.tokens.Refresh(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("Token refresh failed")
			if errors.Is(err, ErrRefreshRejected) || errors.Is(err, ErrNoCredential) {
				return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
			}
			if _, ok := IsRemote(err); ok {
				return nil, err
			}
			return nil, &RemoteError{Message: "refresh token", Err: err}
		}
		status, body, err = s.send(ctx, method, path, raw, token)
		if err != nil {
			return nil, err
		}
		if status == http.StatusUnauthorized {
			return nil, ErrUnauthorized
		}
	}

	if status != want {
		return nil, &RemoteError{Status: status, Message: errorMessage(body)}
	}
	return body, nil
}

func (s *RemoteStore) send(ctx context.Context, method, path string, raw []byte, token string) (int, []byte, error) {
	var reader io.Reader
	if raw != nil {
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if raw != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, nil, &RemoteError{Message: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

func errorMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil {
		if e.Message != "" {
			return e.Message
		}
		if e.Error != "" {
			return e.Error
		}
	}
	return ""
}

// IsRemote reports whether err is a RemoteError and returns it.
func IsRemote(err error) (*RemoteError, bool) {
	var re *RemoteError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
