package spotify

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"spotimcp/internal/model"
)

func newTestTokenSource(t *testing.T, handler http.HandlerFunc) (*tokenSource, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return newTokenSource(srv.URL, "id", "secret", srv.Client()), srv
}

func TestAccessToken_ExchangesOnceWhileValid(t *testing.T) {
	calls := 0
	ts, _ := newTestTokenSource(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path != "/api/token" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("id:secret"))
		if got := r.Header.Get("Authorization"); got != wantAuth {
			t.Fatalf("unexpected auth header: %q", got)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != "client_credentials" {
			t.Fatalf("unexpected grant_type: %q", got)
		}
		_, _ = w.Write([]byte(`{"access_token":"tok-1","token_type":"Bearer","expires_in":3600}`))
	})

	for i := 0; i < 3; i++ {
		tok, err := ts.AccessToken(context.Background())
		if err != nil {
			t.Fatalf("AccessToken: %v", err)
		}
		if tok != "tok-1" {
			t.Fatalf("unexpected token: %q", tok)
		}
	}
	if calls != 1 {
		t.Fatalf("expected a single exchange, got %d", calls)
	}
}

func TestAccessToken_RenewsAfterExpiry(t *testing.T) {
	calls := 0
	ts, _ := newTestTokenSource(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			_, _ = w.Write([]byte(`{"access_token":"tok-1","expires_in":3600}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"tok-2","expires_in":3600}`))
	})

	current := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ts.now = func() time.Time { return current }

	if _, err := ts.AccessToken(context.Background()); err != nil {
		t.Fatalf("first AccessToken: %v", err)
	}

	current = current.Add(3601 * time.Second)
	tok, err := ts.AccessToken(context.Background())
	if err != nil {
		t.Fatalf("second AccessToken: %v", err)
	}
	if tok != "tok-2" {
		t.Fatalf("expected renewed token, got %q", tok)
	}
	if calls != 2 {
		t.Fatalf("expected two exchanges, got %d", calls)
	}
}

func TestAccessToken_MissingCredentials(t *testing.T) {
	ts := newTokenSource("http://127.0.0.1:0", "", "", http.DefaultClient)
	_, err := ts.AccessToken(context.Background())
	var pe *model.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if pe.Code != "SPOTIFY_AUTH" || pe.Retryable {
		t.Fatalf("unexpected error shape: %+v", pe)
	}
}

func TestAccessToken_UpstreamRejection(t *testing.T) {
	ts, _ := newTestTokenSource(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "invalid client", http.StatusBadRequest)
	})

	_, err := ts.AccessToken(context.Background())
	var pe *model.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if pe.Code != "SPOTIFY_AUTH" {
		t.Fatalf("unexpected code: %q", pe.Code)
	}
	if pe.Retryable {
		t.Fatalf("4xx rejection should not be retryable")
	}
	if pe.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", pe.StatusCode)
	}
}
