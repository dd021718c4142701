package spotify

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
)

// GetArtist fetches one artist by id or artist URI.
func (c *Client) GetArtist(ctx context.Context, id string) (json.RawMessage, error) {
	id = NormalizeID(id, "artist")
	return c.request(ctx, "GET", "/artists/"+url.PathEscape(id), "", nil)
}

// GetMultipleArtists fetches up to 50 artists in one call.
func (c *Client) GetMultipleArtists(ctx context.Context, ids []string) (json.RawMessage, error) {
	if err := validateIDList(ids, "ids", 50); err != nil {
		return nil, err
	}
	var q Query
	q.AddList("ids", NormalizeIDs(ids, "artist"))
	return c.request(ctx, "GET", "/artists", q.Encode(), nil)
}

type ArtistAlbumsParams struct {
	ID            string
	IncludeGroups []string
	Market        string
	Limit         int
	Offset        int
}

// GetArtistAlbums lists an artist's albums with paging.
func (c *Client) GetArtistAlbums(ctx context.Context, params ArtistAlbumsParams) (json.RawMessage, error) {
	limit, offset, err := resolvePage(params.Limit, params.Offset, 50)
	if err != nil {
		return nil, err
	}
	id := NormalizeID(params.ID, "artist")

	var q Query
	q.AddList("include_groups", params.IncludeGroups)
	q.AddInt("limit", limit)
	q.AddInt("offset", offset)
	q.AddString("market", params.Market)
	return c.request(ctx, "GET", "/artists/"+url.PathEscape(id)+"/albums", q.Encode(), nil)
}

// GetArtistTopTracks fetches an artist's top tracks. The Web API rejects
// calls without a market, so the check happens here to save the round trip.
func (c *Client) GetArtistTopTracks(ctx context.Context, id, market string) (json.RawMessage, error) {
	if strings.TrimSpace(market) == "" {
		return nil, invalidParams("market is required")
	}
	id = NormalizeID(id, "artist")

	var q Query
	q.AddString("market", market)
	return c.request(ctx, "GET", "/artists/"+url.PathEscape(id)+"/top-tracks", q.Encode(), nil)
}
