package spotify

import (
	"context"
	"encoding/json"
	"net/url"
)

// GetPlaylist fetches one playlist by id or playlist URI.
func (c *Client) GetPlaylist(ctx context.Context, id, market string) (json.RawMessage, error) {
	id = NormalizeID(id, "playlist")
	var q Query
	q.AddString("market", market)
	return c.request(ctx, "GET", "/playlists/"+url.PathEscape(id), q.Encode(), nil)
}

type PlaylistTracksParams struct {
	ID     string
	Market string
	Limit  int
	Offset int
}

// GetPlaylistTracks lists a playlist's items with paging.
func (c *Client) GetPlaylistTracks(ctx context.Context, params PlaylistTracksParams) (json.RawMessage, error) {
	limit, offset, err := resolvePage(params.Limit, params.Offset, 50)
	if err != nil {
		return nil, err
	}
	id := NormalizeID(params.ID, "playlist")

	var q Query
	q.AddInt("limit", limit)
	q.AddInt("offset", offset)
	q.AddString("market", params.Market)
	return c.request(ctx, "GET", "/playlists/"+url.PathEscape(id)+"/tracks", q.Encode(), nil)
}

type PlaylistDetails struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Public      *bool   `json:"public,omitempty"`
}

// ChangePlaylistDetails updates a playlist's name, description or
// visibility. No bound-checking beyond presence; the Web API is
// authoritative for mutations.
func (c *Client) ChangePlaylistDetails(ctx context.Context, id string, details PlaylistDetails) (json.RawMessage, error) {
	if details.Name == nil && details.Description == nil && details.Public == nil {
		return nil, invalidParams("at least one of name, description or public is required")
	}
	id = NormalizeID(id, "playlist")
	return c.request(ctx, "PUT", "/playlists/"+url.PathEscape(id), "", details)
}

// AddTracksToPlaylist appends track URIs to a playlist.
func (c *Client) AddTracksToPlaylist(ctx context.Context, id string, uris []string) (json.RawMessage, error) {
	if len(uris) == 0 {
		return nil, invalidParams("uris must contain at least one track uri")
	}
	id = NormalizeID(id, "playlist")
	body := map[string]interface{}{"uris": uris}
	return c.request(ctx, "POST", "/playlists/"+url.PathEscape(id)+"/tracks", "", body)
}

// RemoveTracksFromPlaylist removes all occurrences of the given track URIs.
func (c *Client) RemoveTracksFromPlaylist(ctx context.Context, id string, uris []string) (json.RawMessage, error) {
	if len(uris) == 0 {
		return nil, invalidParams("uris must contain at least one track uri")
	}
	id = NormalizeID(id, "playlist")
	tracks := make([]map[string]string, 0, len(uris))
	for _, uri := range uris {
		tracks = append(tracks, map[string]string{"uri": uri})
	}
	body := map[string]interface{}{"tracks": tracks}
	return c.request(ctx, "DELETE", "/playlists/"+url.PathEscape(id)+"/tracks", "", body)
}

// GetCurrentUserPlaylists lists the playlists owned or followed by the
// current user.
func (c *Client) GetCurrentUserPlaylists(ctx context.Context, limit, offset int) (json.RawMessage, error) {
	limit, offset, err := resolvePage(limit, offset, 50)
	if err != nil {
		return nil, err
	}
	var q Query
	q.AddInt("limit", limit)
	q.AddInt("offset", offset)
	return c.request(ctx, "GET", "/me/playlists", q.Encode(), nil)
}
