package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"spotimcp/internal/spotify"
)

const protocolVersion = "2025-03-26"

// Catalog is the surface of the Spotify Web API client the tool handlers
// call. *spotify.Client satisfies it.
type Catalog interface {
	Search(ctx context.Context, params spotify.SearchParams) (json.RawMessage, error)
	GetArtist(ctx context.Context, id string) (json.RawMessage, error)
	GetMultipleArtists(ctx context.Context, ids []string) (json.RawMessage, error)
	GetArtistAlbums(ctx context.Context, params spotify.ArtistAlbumsParams) (json.RawMessage, error)
	GetArtistTopTracks(ctx context.Context, id, market string) (json.RawMessage, error)
	GetAlbum(ctx context.Context, id, market string) (json.RawMessage, error)
	GetMultipleAlbums(ctx context.Context, ids []string, market string) (json.RawMessage, error)
	GetAlbumTracks(ctx context.Context, params spotify.AlbumTracksParams) (json.RawMessage, error)
	GetTrack(ctx context.Context, id, market string) (json.RawMessage, error)
	GetAudiobook(ctx context.Context, id, market string) (json.RawMessage, error)
	GetMultipleAudiobooks(ctx context.Context, ids []string, market string) (json.RawMessage, error)
	GetPlaylist(ctx context.Context, id, market string) (json.RawMessage, error)
	GetPlaylistTracks(ctx context.Context, params spotify.PlaylistTracksParams) (json.RawMessage, error)
	ChangePlaylistDetails(ctx context.Context, id string, details spotify.PlaylistDetails) (json.RawMessage, error)
	AddTracksToPlaylist(ctx context.Context, id string, uris []string) (json.RawMessage, error)
	RemoveTracksFromPlaylist(ctx context.Context, id string, uris []string) (json.RawMessage, error)
	GetCurrentUserPlaylists(ctx context.Context, limit, offset int) (json.RawMessage, error)
	GetNewReleases(ctx context.Context, limit, offset int) (json.RawMessage, error)
	GetRecommendations(ctx context.Context, params spotify.RecommendationsParams) (json.RawMessage, error)
}

// Player is the desktop app control surface. *player.Bridge satisfies it.
type Player interface {
	PlayPause(ctx context.Context) (string, error)
	NextTrack(ctx context.Context) (string, error)
	PreviousTrack(ctx context.Context) (string, error)
	CurrentTrack(ctx context.Context) (string, error)
	PlayTrack(ctx context.Context, uri string) (string, error)
}

type jsonrpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type jsonrpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type serverInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Server speaks newline-delimited JSON-RPC over a reader/writer pair,
// usually stdin/stdout. Logging goes to the supplied slog logger so the
// write side stays a pure protocol channel.
type Server struct {
	catalog Catalog
	player  Player
	tools   map[string]toolDefinition
	info    serverInfo
	logger  *slog.Logger
}

func NewServer(catalog Catalog, player Player, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		catalog: catalog,
		player:  player,
		info:    serverInfo{Name: "spotimcp", Version: version},
		logger:  logger,
	}
	s.tools = s.buildToolRegistry()
	return s
}

// Serve reads requests line by line until EOF or ctx cancellation.
// Malformed lines get a -32700 response; notifications (requests without
// an id) never get a response.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	encoder := json.NewEncoder(w)

	lines := make(chan []byte)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		for scanner.Scan() {
			line := make([]byte, len(scanner.Bytes()))
			copy(line, scanner.Bytes())
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			if len(line) == 0 {
				continue
			}
			response := s.handleLine(ctx, line)
			if response == nil {
				continue
			}
			if err := encoder.Encode(response); err != nil {
				return fmt.Errorf("write response: %w", err)
			}
		}
	}
}

func (s *Server) handleLine(ctx context.Context, line []byte) *jsonrpcResponse {
	var req jsonrpcRequest
	if err := json.Unmarshal(line, &req); err != nil {
		s.logger.Warn("dropping unparsable request", "error", err)
		return &jsonrpcResponse{
			JSONRPC: "2.0",
			Error:   &rpcError{Code: -32700, Message: "parse error"},
		}
	}

	isNotification := len(req.ID) == 0
	response := s.dispatch(ctx, req)
	if isNotification {
		return nil
	}
	return response
}

func (s *Server) dispatch(ctx context.Context, req jsonrpcRequest) *jsonrpcResponse {
	s.logger.Debug("handling request", "method", req.Method)

	switch req.Method {
	case "initialize":
		return s.result(req.ID, map[string]interface{}{
			"protocolVersion": protocolVersion,
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{
					"listChanged": false,
				},
			},
			"serverInfo": s.info,
		})
	case "notifications/initialized", "initialized":
		return nil
	case "ping":
		return s.result(req.ID, map[string]interface{}{})
	case "tools/list":
		return s.result(req.ID, map[string]interface{}{"tools": s.orderedTools()})
	case "tools/call":
		result, rpcErr := s.processToolsCall(ctx, req.Params)
		if rpcErr != nil {
			return s.failure(req.ID, rpcErr)
		}
		return s.result(req.ID, result)
	default:
		s.logger.Warn("unknown method", "method", req.Method)
		return s.failure(req.ID, &rpcError{
			Code:    -32601,
			Message: fmt.Sprintf("method not found: %s", req.Method),
		})
	}
}

func (s *Server) result(id json.RawMessage, result interface{}) *jsonrpcResponse {
	return &jsonrpcResponse{JSONRPC: "2.0", ID: id, Result: result}
}

func (s *Server) failure(id json.RawMessage, rpcErr *rpcError) *jsonrpcResponse {
	return &jsonrpcResponse{JSONRPC: "2.0", ID: id, Error: rpcErr}
}
