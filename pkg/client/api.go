// Package client is a Go client for the catalog API with stateful stores
// mirroring what a browser front end keeps: session, favorites, a brand's
// own products and the catalog browsing state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultBaseURL = "http://localhost:3000/api"

const msgConnection = "Errore di connessione"

// APIError is a non 2xx answer. Message holds the server's "error" field,
// or "message" when "error" is absent.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

// ErrorMessage returns the server message carried by err, or fallback.
func ErrorMessage(err error, fallback string) string {
	var ae *APIError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	if fallback == "" {
		return msgConnection
	}
	return fallback
}

func IsUnauthorized(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == http.StatusUnauthorized
}

type API struct {
	baseURL    string
	httpClient *http.Client
	session    *Session

	// OnUnauthorized runs after every 401, whatever the endpoint.
	OnUnauthorized func()
}

func NewAPI(baseURL string, s *Session) *API {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &API{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		session: s,
	}
}

func (a *API) Session() *Session { return a.session }

// Do sends body as JSON and decodes a successful answer into out.
func (a *API) Do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if a.session != nil {
		if tok := a.session.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
			apiErr.Message = payload.Error
			if apiErr.Message == "" {
				apiErr.Message = payload.Message
			}
		}
		if resp.StatusCode == http.StatusUnauthorized && a.OnUnauthorized != nil {
			a.OnUnauthorized()
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (a *API) Get(ctx context.Context, path string, out any) error {
	return a.Do(ctx, http.MethodGet, path, nil, out)
}

func (a *API) Post(ctx context.Context, path string, body, out any) error {
	return a.Do(ctx, http.MethodPost, path, body, out)
}

func (a *API) Put(ctx context.Context, path string, body, out any) error {
	return a.Do(ctx, http.MethodPut, path, body, out)
}

func (a *API) Delete(ctx context.Context, path string, out any) error {
	return a.Do(ctx, http.MethodDelete, path, nil, out)
}
