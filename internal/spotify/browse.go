package spotify

import (
	"context"
	"encoding/json"
)

// GetNewReleases lists newly released albums.
func (c *Client) GetNewReleases(ctx context.Context, limit, offset int) (json.RawMessage, error) {
	limit, offset, err := resolvePage(limit, offset, 50)
	if err != nil {
		return nil, err
	}
	var q Query
	q.AddInt("limit", limit)
	q.AddInt("offset", offset)
	return c.request(ctx, "GET", "/browse/new-releases", q.Encode(), nil)
}

type RecommendationsParams struct {
	SeedArtists []string
	SeedGenres  []string
	SeedTracks  []string
	Market      string
	Limit       int
}

// GetRecommendations fetches track recommendations from seed artists,
// genres and tracks. At least one seed list must be non-empty.
func (c *Client) GetRecommendations(ctx context.Context, params RecommendationsParams) (json.RawMessage, error) {
	if len(params.SeedArtists) == 0 && len(params.SeedGenres) == 0 && len(params.SeedTracks) == 0 {
		return nil, invalidParams("at least one of seed_artists, seed_genres or seed_tracks is required")
	}
	if params.Limit < 1 || params.Limit > 100 {
		return nil, invalidParams("limit must be between 1 and 100")
	}

	var q Query
	q.AddList("seed_artists", NormalizeIDs(params.SeedArtists, "artist"))
	q.AddList("seed_genres", params.SeedGenres)
	q.AddList("seed_tracks", NormalizeIDs(params.SeedTracks, "track"))
	q.AddInt("limit", params.Limit)
	q.AddString("market", params.Market)
	return c.request(ctx, "GET", "/recommendations", q.Encode(), nil)
}
