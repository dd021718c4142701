package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"spotimcp/internal/model"
	"spotimcp/internal/spotify"
)

// fakeCatalog records the last call per method and answers with canned
// JSON. Setting err makes every method fail.
type fakeCatalog struct {
	raw   json.RawMessage
	err   error
	calls int

	lastSearch      spotify.SearchParams
	lastArtistID    string
	lastIDs         []string
	lastMarket      string
	lastPlaylistID  string
	lastURIs        []string
	lastDetails     spotify.PlaylistDetails
	lastLimit       int
	lastOffset      int
	lastRecs        spotify.RecommendationsParams
	lastAlbumTracks spotify.AlbumTracksParams
}

func (f *fakeCatalog) reply() (json.RawMessage, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.raw == nil {
		return json.RawMessage(`{"ok":true}`), nil
	}
	return f.raw, nil
}

func (f *fakeCatalog) Search(_ context.Context, params spotify.SearchParams) (json.RawMessage, error) {
	f.lastSearch = params
	return f.reply()
}

func (f *fakeCatalog) GetArtist(_ context.Context, id string) (json.RawMessage, error) {
	f.lastArtistID = id
	return f.reply()
}

func (f *fakeCatalog) GetMultipleArtists(_ context.Context, ids []string) (json.RawMessage, error) {
	f.lastIDs = ids
	return f.reply()
}

func (f *fakeCatalog) GetArtistAlbums(_ context.Context, _ spotify.ArtistAlbumsParams) (json.RawMessage, error) {
	return f.reply()
}

func (f *fakeCatalog) GetArtistTopTracks(_ context.Context, id, market string) (json.RawMessage, error) {
	f.lastArtistID = id
	f.lastMarket = market
	return f.reply()
}

func (f *fakeCatalog) GetAlbum(_ context.Context, _, market string) (json.RawMessage, error) {
	f.lastMarket = market
	return f.reply()
}

func (f *fakeCatalog) GetMultipleAlbums(_ context.Context, ids []string, _ string) (json.RawMessage, error) {
	f.lastIDs = ids
	return f.reply()
}

func (f *fakeCatalog) GetAlbumTracks(_ context.Context, params spotify.AlbumTracksParams) (json.RawMessage, error) {
	f.lastAlbumTracks = params
	return f.reply()
}

func (f *fakeCatalog) GetTrack(_ context.Context, _, _ string) (json.RawMessage, error) {
	return f.reply()
}

func (f *fakeCatalog) GetAudiobook(_ context.Context, _, _ string) (json.RawMessage, error) {
	return f.reply()
}

func (f *fakeCatalog) GetMultipleAudiobooks(_ context.Context, ids []string, _ string) (json.RawMessage, error) {
	f.lastIDs = ids
	return f.reply()
}

func (f *fakeCatalog) GetPlaylist(_ context.Context, id, _ string) (json.RawMessage, error) {
	f.lastPlaylistID = id
	return f.reply()
}

func (f *fakeCatalog) GetPlaylistTracks(_ context.Context, _ spotify.PlaylistTracksParams) (json.RawMessage, error) {
	return f.reply()
}

func (f *fakeCatalog) ChangePlaylistDetails(_ context.Context, id string, details spotify.PlaylistDetails) (json.RawMessage, error) {
	f.lastPlaylistID = id
	f.lastDetails = details
	return f.reply()
}

func (f *fakeCatalog) AddTracksToPlaylist(_ context.Context, id string, uris []string) (json.RawMessage, error) {
	f.lastPlaylistID = id
	f.lastURIs = uris
	return f.reply()
}

func (f *fakeCatalog) RemoveTracksFromPlaylist(_ context.Context, id string, uris []string) (json.RawMessage, error) {
	f.lastPlaylistID = id
	f.lastURIs = uris
	return f.reply()
}

func (f *fakeCatalog) GetCurrentUserPlaylists(_ context.Context, limit, offset int) (json.RawMessage, error) {
	f.lastLimit = limit
	f.lastOffset = offset
	return f.reply()
}

func (f *fakeCatalog) GetNewReleases(_ context.Context, limit, offset int) (json.RawMessage, error) {
	f.lastLimit = limit
	f.lastOffset = offset
	return f.reply()
}

func (f *fakeCatalog) GetRecommendations(_ context.Context, params spotify.RecommendationsParams) (json.RawMessage, error) {
	f.lastRecs = params
	return f.reply()
}

type fakePlayer struct {
	output  string
	err     error
	lastURI string
	calls   int
}

func (f *fakePlayer) reply() (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if f.output == "" {
		return "Success", nil
	}
	return f.output, nil
}

func (f *fakePlayer) PlayPause(context.Context) (string, error)     { return f.reply() }
func (f *fakePlayer) NextTrack(context.Context) (string, error)     { return f.reply() }
func (f *fakePlayer) PreviousTrack(context.Context) (string, error) { return f.reply() }
func (f *fakePlayer) CurrentTrack(context.Context) (string, error)  { return f.reply() }

func (f *fakePlayer) PlayTrack(_ context.Context, uri string) (string, error) {
	f.lastURI = uri
	return f.reply()
}

func newTestServer(catalog Catalog, player Player) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(catalog, player, "test", logger)
}

// roundTrip feeds newline-delimited requests through Serve and returns
// the decoded responses.
func roundTrip(t *testing.T, srv *Server, requests ...string) []map[string]any {
	t.Helper()
	input := strings.Join(requests, "\n") + "\n"
	var out bytes.Buffer
	if err := srv.Serve(context.Background(), strings.NewReader(input), &out); err != nil {
		t.Fatalf("Serve: %v", err)
	}

	var responses []map[string]any
	decoder := json.NewDecoder(&out)
	for decoder.More() {
		var resp map[string]any
		if err := decoder.Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		responses = append(responses, resp)
	}
	return responses
}

func TestServe_Initialize(t *testing.T) {
	srv := newTestServer(&fakeCatalog{}, &fakePlayer{})
	responses := roundTrip(t, srv, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)
	if len(responses) != 1 {
		t.Fatalf("expected one response, got %d", len(responses))
	}
	result, ok := responses[0]["result"].(map[string]any)
	if !ok {
		t.Fatalf("expected result object: %#v", responses[0])
	}
	info, ok := result["serverInfo"].(map[string]any)
	if !ok || info["name"] != "spotimcp" {
		t.Fatalf("unexpected serverInfo: %#v", result["serverInfo"])
	}
	if result["protocolVersion"] != protocolVersion {
		t.Fatalf("unexpected protocol version: %#v", result["protocolVersion"])
	}
}

func TestServe_ToolsListOrderAndSchemas(t *testing.T) {
	srv := newTestServer(&fakeCatalog{}, &fakePlayer{})
	responses := roundTrip(t, srv, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	result := responses[0]["result"].(map[string]any)
	tools, ok := result["tools"].([]any)
	if !ok {
		t.Fatalf("expected tools array: %#v", result)
	}
	if len(tools) != len(toolOrder) {
		t.Fatalf("expected %d tools, got %d", len(toolOrder), len(tools))
	}
	for idx, raw := range tools {
		tool := raw.(map[string]any)
		if tool["name"] != toolOrder[idx] {
			t.Fatalf("tool %d: got %v, want %s", idx, tool["name"], toolOrder[idx])
		}
		schema, ok := tool["inputSchema"].(map[string]any)
		if !ok {
			t.Fatalf("tool %v missing inputSchema", tool["name"])
		}
		if schema["type"] != "object" {
			t.Fatalf("tool %v: schema type %v", tool["name"], schema["type"])
		}
		if tool["description"] == "" {
			t.Fatalf("tool %v has no description", tool["name"])
		}
	}
}

func TestServe_UnknownMethod(t *testing.T) {
	srv := newTestServer(&fakeCatalog{}, &fakePlayer{})
	responses := roundTrip(t, srv, `{"jsonrpc":"2.0","id":5,"method":"resources/list"}`)
	errObj, ok := responses[0]["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error: %#v", responses[0])
	}
	if errObj["code"].(float64) != -32601 {
		t.Fatalf("unexpected code: %v", errObj["code"])
	}
}

func TestServe_ParseError(t *testing.T) {
	srv := newTestServer(&fakeCatalog{}, &fakePlayer{})
	responses := roundTrip(t, srv, `{not json`)
	errObj, ok := responses[0]["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error: %#v", responses[0])
	}
	if errObj["code"].(float64) != -32700 {
		t.Fatalf("unexpected code: %v", errObj["code"])
	}
}

func TestServe_NotificationsGetNoResponse(t *testing.T) {
	srv := newTestServer(&fakeCatalog{}, &fakePlayer{})
	responses := roundTrip(t, srv,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"ping"}`,
	)
	if len(responses) != 1 {
		t.Fatalf("notification must not be answered, got %d responses", len(responses))
	}
	if _, ok := responses[0]["result"]; !ok {
		t.Fatalf("expected ping result: %#v", responses[0])
	}
}

func TestServe_ToolCallEndToEnd(t *testing.T) {
	catalog := &fakeCatalog{raw: json.RawMessage(`{"name":"Kind of Blue"}`)}
	srv := newTestServer(catalog, &fakePlayer{})
	req := `{"jsonrpc":"2.0","id":9,"method":"tools/call","params":{"name":"get_album","arguments":{"id":"spotify:album:a1","market":"US"}}}`

	responses := roundTrip(t, srv, req)
	result := responses[0]["result"].(map[string]any)
	if isErr, _ := result["isError"].(bool); isErr {
		t.Fatalf("unexpected tool error: %#v", result)
	}
	content := result["content"].([]any)
	text := content[0].(map[string]any)["text"].(string)
	if !strings.Contains(text, "Kind of Blue") {
		t.Fatalf("unexpected content: %q", text)
	}
	if catalog.lastMarket != "US" {
		t.Fatalf("market not forwarded: %q", catalog.lastMarket)
	}
}

func TestServe_PlayerNotRunningSurfacesAsToolError(t *testing.T) {
	player := &fakePlayer{err: fmt.Errorf("Spotify: %w", model.ErrPlayerNotRunning)}
	srv := newTestServer(&fakeCatalog{}, player)
	req := `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"spotify_play_pause","arguments":{}}}`

	responses := roundTrip(t, srv, req)
	result := responses[0]["result"].(map[string]any)
	if isErr, _ := result["isError"].(bool); !isErr {
		t.Fatalf("expected tool error: %#v", result)
	}
	text := result["content"].([]any)[0].(map[string]any)["text"].(string)
	if !strings.HasPrefix(text, "ERROR: NOT_RUNNING:") {
		t.Fatalf("unexpected error text: %q", text)
	}
}
