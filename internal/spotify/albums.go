package spotify

import (
	"context"
	"encoding/json"
	"net/url"
)

// GetAlbum fetches one album by id or album URI.
func (c *Client) GetAlbum(ctx context.Context, id, market string) (json.RawMessage, error) {
	id = NormalizeID(id, "album")
	var q Query
	q.AddString("market", market)
	return c.request(ctx, "GET", "/albums/"+url.PathEscape(id), q.Encode(), nil)
}

// GetMultipleAlbums fetches up to 20 albums in one call.
func (c *Client) GetMultipleAlbums(ctx context.Context, ids []string, market string) (json.RawMessage, error) {
	if err := validateIDList(ids, "ids", 20); err != nil {
		return nil, err
	}
	var q Query
	q.AddList("ids", NormalizeIDs(ids, "album"))
	q.AddString("market", market)
	return c.request(ctx, "GET", "/albums", q.Encode(), nil)
}

type AlbumTracksParams struct {
	ID     string
	Market string
	Limit  int
	Offset int
}

// GetAlbumTracks lists an album's tracks with paging.
func (c *Client) GetAlbumTracks(ctx context.Context, params AlbumTracksParams) (json.RawMessage, error) {
	limit, offset, err := resolvePage(params.Limit, params.Offset, 50)
	if err != nil {
		return nil, err
	}
	id := NormalizeID(params.ID, "album")

	var q Query
	q.AddInt("limit", limit)
	q.AddInt("offset", offset)
	q.AddString("market", params.Market)
	return c.request(ctx, "GET", "/albums/"+url.PathEscape(id)+"/tracks", q.Encode(), nil)
}
