// Package spotify implements the Web API client: bearer-token auth with
// cached client-credentials exchange, query building, identifier
// normalization and one method per consumed endpoint.
package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"spotimcp/internal/config"
	"spotimcp/internal/model"
)

const defaultTimeout = 30 * time.Second

// DefaultPageLimit is the page size callers get when they do not ask for
// one. Paged methods themselves require an explicit limit.
const DefaultPageLimit = 20

func invalidParams(format string, args ...interface{}) error {
	return &model.InvalidParamsError{Message: fmt.Sprintf(format, args...)}
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	tokens *tokenSource
}

func NewClient(cfg config.Config) *Client {
	httpClient := &http.Client{Timeout: cfg.Timeout()}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.API.BaseURL), "/")
	if baseURL == "" {
		baseURL = strings.TrimRight(config.DefaultAPIBaseURL, "/")
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: httpClient,
		tokens:     newTokenSource(cfg.API.AccountsURL, cfg.ClientID, cfg.ClientSecret, httpClient),
	}
}

// CheckAuth forces one token exchange. Used by the doctor command to verify
// credentials without touching any catalog endpoint.
func (c *Client) CheckAuth(ctx context.Context) error {
	_, err := c.tokens.AccessToken(ctx)
	return err
}

// request performs one authenticated call and returns the raw JSON body.
// Domain semantics are left to the caller; errors from the Web API error
// envelope are folded into a ProviderError carrying the upstream message.
func (c *Client) request(ctx context.Context, method, path, query string, body interface{}) (json.RawMessage, error) {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &model.ProviderError{Code: "SPOTIFY_API", Message: "failed to marshal request body", Retryable: false, Cause: err}
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path+query, reqBody)
	if err != nil {
		return nil, &model.ProviderError{Code: "SPOTIFY_API", Message: "failed to build request", Retryable: false, Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &model.ProviderError{Code: "SPOTIFY_API", Message: "request failed", Retryable: true, Cause: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &model.ProviderError{Code: "SPOTIFY_API", Message: "failed to read response", Retryable: true, StatusCode: resp.StatusCode, Cause: err}
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		if len(respBody) == 0 {
			// Playlist mutations answer 200/201 with a snapshot id, but some
			// endpoints return an empty body on success.
			return json.RawMessage(`{}`), nil
		}
		return json.RawMessage(respBody), nil
	}

	return nil, mapAPIError(resp.StatusCode, respBody)
}

// mapAPIError extracts the nested error.message from the Web API error
// envelope, falling back to a generic status message when the envelope is
// absent or malformed.
func mapAPIError(statusCode int, body []byte) error {
	message := ""
	var envelope struct {
		Error struct {
			Status  int    `json:"status"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		message = strings.TrimSpace(envelope.Error.Message)
	}
	if message == "" {
		message = fmt.Sprintf("spotify api returned status %d", statusCode)
	}

	pe := &model.ProviderError{
		Code:       "SPOTIFY_API",
		Message:    message,
		Retryable:  false,
		StatusCode: statusCode,
	}
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		pe.Code = "SPOTIFY_AUTH"
	case statusCode == http.StatusTooManyRequests:
		pe.Retryable = true
	case statusCode >= http.StatusInternalServerError:
		pe.Retryable = true
	}
	return pe
}

// validateIDList enforces the bulk-endpoint bounds shared by the ids-based
// operations.
func validateIDList(ids []string, field string, max int) error {
	if len(ids) == 0 {
		return invalidParams("%s must contain at least one id", field)
	}
	if len(ids) > max {
		return invalidParams("%s must contain at most %d ids", field, max)
	}
	return nil
}

// resolvePage enforces paging bounds: limit must be within [1, max] and
// offset must be non-negative. An explicit zero limit is rejected like any
// other out-of-range value.
func resolvePage(limit, offset, maxLimit int) (int, int, error) {
	if limit < 1 || limit > maxLimit {
		return 0, 0, invalidParams("limit must be between 1 and %d", maxLimit)
	}
	if offset < 0 {
		return 0, 0, invalidParams("offset must be >= 0")
	}
	return limit, offset, nil
}
