package spotify

import (
	"context"
	"encoding/json"
	"net/url"
)

// GetTrack fetches one track by id or track URI.
func (c *Client) GetTrack(ctx context.Context, id, market string) (json.RawMessage, error) {
	id = NormalizeID(id, "track")
	var q Query
	q.AddString("market", market)
	return c.request(ctx, "GET", "/tracks/"+url.PathEscape(id), q.Encode(), nil)
}
