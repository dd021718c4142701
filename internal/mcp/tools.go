package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"spotimcp/internal/model"
)

const (
	toolNameSearch                   = "search"
	toolNameGetArtist                = "get_artist"
	toolNameGetMultipleArtists       = "get_multiple_artists"
	toolNameGetArtistAlbums          = "get_artist_albums"
	toolNameGetArtistTopTracks       = "get_artist_top_tracks"
	toolNameGetAlbum                 = "get_album"
	toolNameGetMultipleAlbums        = "get_multiple_albums"
	toolNameGetAlbumTracks           = "get_album_tracks"
	toolNameGetTrack                 = "get_track"
	toolNameGetAudiobook             = "get_audiobook"
	toolNameGetMultipleAudiobooks    = "get_multiple_audiobooks"
	toolNameGetPlaylist              = "get_playlist"
	toolNameGetPlaylistTracks        = "get_playlist_tracks"
	toolNameChangePlaylistDetails    = "change_playlist_details"
	toolNameAddTracksToPlaylist      = "add_tracks_to_playlist"
	toolNameRemoveTracksFromPlaylist = "remove_tracks_from_playlist"
	toolNameGetUserPlaylists         = "get_current_user_playlists"
	toolNameGetNewReleases           = "get_new_releases"
	toolNameGetRecommendations       = "get_recommendations"
	toolNamePlayPause                = "spotify_play_pause"
	toolNameNextTrack                = "spotify_next_track"
	toolNamePreviousTrack            = "spotify_previous_track"
	toolNameGetCurrentTrack          = "spotify_get_current_track"
	toolNamePlayTrack                = "spotify_play_track"
)

// toolOrder fixes the order tools/list reports the catalog in.
var toolOrder = []string{
	toolNameSearch,
	toolNameGetArtist,
	toolNameGetMultipleArtists,
	toolNameGetArtistAlbums,
	toolNameGetArtistTopTracks,
	toolNameGetAlbum,
	toolNameGetMultipleAlbums,
	toolNameGetAlbumTracks,
	toolNameGetTrack,
	toolNameGetAudiobook,
	toolNameGetMultipleAudiobooks,
	toolNameGetPlaylist,
	toolNameGetPlaylistTracks,
	toolNameChangePlaylistDetails,
	toolNameAddTracksToPlaylist,
	toolNameRemoveTracksFromPlaylist,
	toolNameGetUserPlaylists,
	toolNameGetNewReleases,
	toolNameGetRecommendations,
	toolNamePlayPause,
	toolNameNextTrack,
	toolNamePreviousTrack,
	toolNameGetCurrentTrack,
	toolNamePlayTrack,
}

type toolHandler func(context.Context, map[string]interface{}) (toolCallResult, *toolExecutionError)

type toolDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
	handler     toolHandler            `json:"-"`
}

type toolsCallParams struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments,omitempty"`
}

type toolCallResult struct {
	Content           []toolContentItem `json:"content"`
	StructuredContent interface{}       `json:"structuredContent,omitempty"`
	IsError           bool              `json:"isError,omitempty"`
}

type toolContentItem struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type toolExecutionError struct {
	Code      string
	Message   string
	Retryable bool
}

func (s *Server) buildToolRegistry() map[string]toolDefinition {
	return map[string]toolDefinition{
		toolNameSearch: {
			Name:        toolNameSearch,
			Description: "Search the Spotify catalog for albums, artists, audiobooks, playlists or tracks.",
			InputSchema: searchInputSchema(),
			handler:     s.handleSearchTool,
		},
		toolNameGetArtist: {
			Name:        toolNameGetArtist,
			Description: "Get one artist by id or artist URI.",
			InputSchema: singleIDInputSchema("Artist id or spotify:artist: URI"),
			handler:     s.handleGetArtistTool,
		},
		toolNameGetMultipleArtists: {
			Name:        toolNameGetMultipleArtists,
			Description: "Get up to 50 artists in one call.",
			InputSchema: idListInputSchema("Artist ids or spotify:artist: URIs", 50),
			handler:     s.handleGetMultipleArtistsTool,
		},
		toolNameGetArtistAlbums: {
			Name:        toolNameGetArtistAlbums,
			Description: "List an artist's albums with paging.",
			InputSchema: artistAlbumsInputSchema(),
			handler:     s.handleGetArtistAlbumsTool,
		},
		toolNameGetArtistTopTracks: {
			Name:        toolNameGetArtistTopTracks,
			Description: "Get an artist's top tracks for a market.",
			InputSchema: artistTopTracksInputSchema(),
			handler:     s.handleGetArtistTopTracksTool,
		},
		toolNameGetAlbum: {
			Name:        toolNameGetAlbum,
			Description: "Get one album by id or album URI.",
			InputSchema: singleIDWithMarketInputSchema("Album id or spotify:album: URI"),
			handler:     s.handleGetAlbumTool,
		},
		toolNameGetMultipleAlbums: {
			Name:        toolNameGetMultipleAlbums,
			Description: "Get up to 20 albums in one call.",
			InputSchema: idListInputSchema("Album ids or spotify:album: URIs", 20),
			handler:     s.handleGetMultipleAlbumsTool,
		},
		toolNameGetAlbumTracks: {
			Name:        toolNameGetAlbumTracks,
			Description: "List an album's tracks with paging.",
			InputSchema: pagedIDInputSchema("Album id or spotify:album: URI"),
			handler:     s.handleGetAlbumTracksTool,
		},
		toolNameGetTrack: {
			Name:        toolNameGetTrack,
			Description: "Get one track by id or track URI.",
			InputSchema: singleIDWithMarketInputSchema("Track id or spotify:track: URI"),
			handler:     s.handleGetTrackTool,
		},
		toolNameGetAudiobook: {
			Name:        toolNameGetAudiobook,
			Description: "Get one audiobook by id or audiobook URI.",
			InputSchema: singleIDWithMarketInputSchema("Audiobook id or spotify:audiobook: URI"),
			handler:     s.handleGetAudiobookTool,
		},
		toolNameGetMultipleAudiobooks: {
			Name:        toolNameGetMultipleAudiobooks,
			Description: "Get up to 50 audiobooks in one call.",
			InputSchema: idListInputSchema("Audiobook ids or spotify:audiobook: URIs", 50),
			handler:     s.handleGetMultipleAudiobooksTool,
		},
		toolNameGetPlaylist: {
			Name:        toolNameGetPlaylist,
			Description: "Get one playlist by id or playlist URI.",
			InputSchema: singleIDWithMarketInputSchema("Playlist id or spotify:playlist: URI"),
			handler:     s.handleGetPlaylistTool,
		},
		toolNameGetPlaylistTracks: {
			Name:        toolNameGetPlaylistTracks,
			Description: "List a playlist's tracks with paging.",
			InputSchema: pagedIDInputSchema("Playlist id or spotify:playlist: URI"),
			handler:     s.handleGetPlaylistTracksTool,
		},
		toolNameChangePlaylistDetails: {
			Name:        toolNameChangePlaylistDetails,
			Description: "Change a playlist's name, description or visibility.",
			InputSchema: changePlaylistDetailsInputSchema(),
			handler:     s.handleChangePlaylistDetailsTool,
		},
		toolNameAddTracksToPlaylist: {
			Name:        toolNameAddTracksToPlaylist,
			Description: "Append track URIs to a playlist.",
			InputSchema: playlistTracksMutationInputSchema(),
			handler:     s.handleAddTracksToPlaylistTool,
		},
		toolNameRemoveTracksFromPlaylist: {
			Name:        toolNameRemoveTracksFromPlaylist,
			Description: "Remove track URIs from a playlist.",
			InputSchema: playlistTracksMutationInputSchema(),
			handler:     s.handleRemoveTracksFromPlaylistTool,
		},
		toolNameGetUserPlaylists: {
			Name:        toolNameGetUserPlaylists,
			Description: "List the current user's playlists.",
			InputSchema: pagedInputSchema(),
			handler:     s.handleGetUserPlaylistsTool,
		},
		toolNameGetNewReleases: {
			Name:        toolNameGetNewReleases,
			Description: "List newly released albums.",
			InputSchema: pagedInputSchema(),
			handler:     s.handleGetNewReleasesTool,
		},
		toolNameGetRecommendations: {
			Name:        toolNameGetRecommendations,
			Description: "Get track recommendations from seed artists, genres and tracks.",
			InputSchema: recommendationsInputSchema(),
			handler:     s.handleGetRecommendationsTool,
		},
		toolNamePlayPause: {
			Name:        toolNamePlayPause,
			Description: "Toggle play/pause in the Spotify desktop app.",
			InputSchema: emptyInputSchema(),
			handler:     s.handlePlayPauseTool,
		},
		toolNameNextTrack: {
			Name:        toolNameNextTrack,
			Description: "Skip to the next track in the Spotify desktop app.",
			InputSchema: emptyInputSchema(),
			handler:     s.handleNextTrackTool,
		},
		toolNamePreviousTrack: {
			Name:        toolNamePreviousTrack,
			Description: "Skip to the previous track in the Spotify desktop app.",
			InputSchema: emptyInputSchema(),
			handler:     s.handlePreviousTrackTool,
		},
		toolNameGetCurrentTrack: {
			Name:        toolNameGetCurrentTrack,
			Description: "Report the track currently playing in the Spotify desktop app.",
			InputSchema: emptyInputSchema(),
			handler:     s.handleGetCurrentTrackTool,
		},
		toolNamePlayTrack: {
			Name:        toolNamePlayTrack,
			Description: "Play a track by spotify:track: URI in the Spotify desktop app.",
			InputSchema: playTrackInputSchema(),
			handler:     s.handlePlayTrackTool,
		},
	}
}

// ToolInfo describes one tool for catalog listings outside the protocol.
type ToolInfo struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// ListTools returns the tool catalog in report order without needing a
// configured server.
func ListTools() []ToolInfo {
	s := &Server{}
	s.tools = s.buildToolRegistry()
	out := make([]ToolInfo, 0, len(s.tools))
	for _, tool := range s.orderedTools() {
		out = append(out, ToolInfo{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.InputSchema,
		})
	}
	return out
}

// orderedTools returns the registry in catalog order.
func (s *Server) orderedTools() []toolDefinition {
	tools := make([]toolDefinition, 0, len(s.tools))
	for _, name := range toolOrder {
		if tool, ok := s.tools[name]; ok {
			tools = append(tools, tool)
		}
	}
	return tools
}

func (s *Server) processToolsCall(ctx context.Context, rawParams json.RawMessage) (toolCallResult, *rpcError) {
	params, err := parseToolsCallParams(rawParams)
	if err != nil {
		return toolCallResult{}, &rpcError{
			Code:    -32600,
			Message: err.Error(),
		}
	}

	tool, ok := s.tools[params.Name]
	if !ok {
		return newToolErrorResult(toolExecutionError{
			Code:    "METHOD_NOT_FOUND",
			Message: fmt.Sprintf("unknown tool: %s", params.Name),
		}), nil
	}

	if missing := missingRequiredField(tool.InputSchema, params.Arguments); missing != "" {
		return newToolErrorResult(toolExecutionError{
			Code:    "MISSING_FIELD",
			Message: fmt.Sprintf("%s is required", missing),
		}), nil
	}

	result, toolErr := tool.handler(ctx, params.Arguments)
	if toolErr != nil {
		return newToolErrorResult(*toolErr), nil
	}
	return result, nil
}

func parseToolsCallParams(raw json.RawMessage) (toolsCallParams, error) {
	if len(raw) == 0 {
		return toolsCallParams{}, errors.New("params is required")
	}

	var params toolsCallParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return toolsCallParams{}, errors.New("invalid tools/call params")
	}

	params.Name = strings.TrimSpace(params.Name)
	if params.Name == "" {
		return toolsCallParams{}, errors.New("tools/call params.name is required")
	}
	if params.Arguments == nil {
		params.Arguments = map[string]interface{}{}
	}
	return params, nil
}

// missingRequiredField checks presence of every field the tool's declared
// schema marks required, returning the first one absent. Type and range
// checks belong to the handlers.
func missingRequiredField(schema, args map[string]interface{}) string {
	required, ok := schema["required"].([]string)
	if !ok {
		return ""
	}
	for _, field := range required {
		if _, present := args[field]; !present {
			return field
		}
	}
	return ""
}

func newToolErrorResult(toolErr toolExecutionError) toolCallResult {
	text := fmt.Sprintf("ERROR: %s: %s", toolErr.Code, toolErr.Message)
	return toolCallResult{
		IsError: true,
		Content: []toolContentItem{
			{Type: "text", Text: text},
		},
		StructuredContent: map[string]interface{}{
			"error": map[string]interface{}{
				"code":      toolErr.Code,
				"message":   toolErr.Message,
				"retryable": toolErr.Retryable,
			},
		},
	}
}

// newJSONResult pretty-prints a raw upstream JSON document as the tool's
// text content.
func newJSONResult(raw json.RawMessage) (toolCallResult, *toolExecutionError) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return toolCallResult{}, &toolExecutionError{Code: "INTERNAL_ERROR", Message: "upstream returned invalid JSON"}
	}
	return toolCallResult{
		Content: []toolContentItem{
			{Type: "text", Text: buf.String()},
		},
	}, nil
}

func newTextResult(text string) toolCallResult {
	return toolCallResult{
		Content: []toolContentItem{
			{Type: "text", Text: text},
		},
	}
}

// mapHandlerError folds every error shape a handler can produce into one
// tool error: local validation failures, the player-not-running case,
// provider errors with their upstream message, and a generic wrapper for
// anything unexpected.
func mapHandlerError(err error) *toolExecutionError {
	var invalidErr *model.InvalidParamsError
	if errors.As(err, &invalidErr) {
		return &toolExecutionError{Code: "INVALID_PARAMS", Message: invalidErr.Message}
	}
	if errors.Is(err, model.ErrPlayerNotRunning) {
		return &toolExecutionError{Code: "NOT_RUNNING", Message: err.Error()}
	}
	var providerErr *model.ProviderError
	if errors.As(err, &providerErr) {
		msg := strings.TrimSpace(providerErr.Message)
		if msg == "" {
			msg = providerErr.Error()
		}
		return &toolExecutionError{
			Code:      providerErr.Code,
			Message:   msg,
			Retryable: providerErr.Retryable,
		}
	}
	return &toolExecutionError{Code: "INTERNAL_ERROR", Message: err.Error()}
}

func parseRequiredString(args map[string]interface{}, key string) (string, bool, error) {
	raw, ok := args[key]
	if !ok {
		return "", false, nil
	}
	value, ok := raw.(string)
	if !ok {
		return "", true, fmt.Errorf("%s must be a string", key)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", true, fmt.Errorf("%s must be a non-empty string", key)
	}
	return value, true, nil
}

func parseOptionalString(args map[string]interface{}, key string) (string, error) {
	raw, ok := args[key]
	if !ok {
		return "", nil
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}
	return strings.TrimSpace(value), nil
}

func parseOptionalBool(args map[string]interface{}, key string) (*bool, error) {
	raw, ok := args[key]
	if !ok {
		return nil, nil
	}
	v, ok := raw.(bool)
	if !ok {
		return nil, fmt.Errorf("%s must be a boolean", key)
	}
	return &v, nil
}

func parseInteger(value interface{}, field string) (int, error) {
	switch v := value.(type) {
	case float64:
		if math.Trunc(v) != v {
			return 0, fmt.Errorf("%s must be an integer", field)
		}
		if v < math.MinInt || v > math.MaxInt {
			return 0, fmt.Errorf("%s is out of range", field)
		}
		return int(v), nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("%s must be an integer", field)
	}
}

func parseOptionalInteger(args map[string]interface{}, key string, defaultValue int) (int, error) {
	raw, ok := args[key]
	if !ok {
		return defaultValue, nil
	}
	return parseInteger(raw, key)
}

func parseStringSlice(args map[string]interface{}, key string) ([]string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}

	switch typed := raw.(type) {
	case []interface{}:
		out := make([]string, 0, len(typed))
		for idx, item := range typed {
			v, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] must be a string", key, idx)
			}
			v = strings.TrimSpace(v)
			if v == "" {
				return nil, fmt.Errorf("%s[%d] must be a non-empty string", key, idx)
			}
			out = append(out, v)
		}
		return out, nil
	case []string:
		out := make([]string, 0, len(typed))
		for idx, item := range typed {
			item = strings.TrimSpace(item)
			if item == "" {
				return nil, fmt.Errorf("%s[%d] must be a non-empty string", key, idx)
			}
			out = append(out, item)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s must be an array of strings", key)
	}
}
