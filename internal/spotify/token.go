package spotify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"spotimcp/internal/model"
)

// tokenSource caches a single client-credentials bearer token and renews it
// through the accounts service when absent or expired. The mutex serializes
// renewals; concurrent tool calls that arrive while a renewal is in flight
// wait for it instead of issuing duplicate exchanges.
type tokenSource struct {
	accountsURL  string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	now          func() time.Time

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

func newTokenSource(accountsURL, clientID, clientSecret string, httpClient *http.Client) *tokenSource {
	return &tokenSource{
		accountsURL:  strings.TrimRight(strings.TrimSpace(accountsURL), "/"),
		clientID:     strings.TrimSpace(clientID),
		clientSecret: strings.TrimSpace(clientSecret),
		httpClient:   httpClient,
		now:          time.Now,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// AccessToken returns the cached token while it is still valid, otherwise
// performs one client-credentials exchange and caches the result. No expiry
// margin is applied; a token that lapses mid-request surfaces as an auth
// error from the Web API rather than a renewal here.
func (t *tokenSource) AccessToken(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.accessToken != "" && t.now().Before(t.expiresAt) {
		return t.accessToken, nil
	}

	token, expiresIn, err := t.exchange(ctx)
	if err != nil {
		return "", err
	}
	t.accessToken = token
	t.expiresAt = t.now().Add(time.Duration(expiresIn) * time.Second)
	return t.accessToken, nil
}

func (t *tokenSource) exchange(ctx context.Context) (string, int, error) {
	if t.clientID == "" || t.clientSecret == "" {
		return "", 0, &model.ProviderError{
			Code:      "SPOTIFY_AUTH",
			Message:   "client credentials are not configured",
			Retryable: false,
		}
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.accountsURL+"/api/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, &model.ProviderError{Code: "SPOTIFY_AUTH", Message: "failed to build token request", Retryable: false, Cause: err}
	}
	basic := base64.StdEncoding.EncodeToString([]byte(t.clientID + ":" + t.clientSecret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", 0, &model.ProviderError{Code: "SPOTIFY_AUTH", Message: "token exchange request failed", Retryable: true, Cause: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, &model.ProviderError{Code: "SPOTIFY_AUTH", Message: "failed to read token response", Retryable: true, StatusCode: resp.StatusCode, Cause: err}
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		message := strings.TrimSpace(string(body))
		if message == "" {
			message = fmt.Sprintf("token endpoint returned status %d", resp.StatusCode)
		}
		return "", 0, &model.ProviderError{
			Code:       "SPOTIFY_AUTH",
			Message:    message,
			Retryable:  resp.StatusCode >= http.StatusInternalServerError,
			StatusCode: resp.StatusCode,
		}
	}

	var parsed tokenResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", 0, &model.ProviderError{Code: "SPOTIFY_AUTH", Message: "failed to decode token response", Retryable: false, Cause: err}
	}
	if strings.TrimSpace(parsed.AccessToken) == "" {
		return "", 0, &model.ProviderError{Code: "SPOTIFY_AUTH", Message: "token response had no access_token", Retryable: false}
	}
	return parsed.AccessToken, parsed.ExpiresIn, nil
}
