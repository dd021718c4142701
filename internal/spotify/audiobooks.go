package spotify

import (
	"context"
	"encoding/json"
	"net/url"
)

// GetAudiobook fetches one audiobook by id or URI.
func (c *Client) GetAudiobook(ctx context.Context, id, market string) (json.RawMessage, error) {
	id = NormalizeID(id, "audiobook")
	var q Query
	q.AddString("market", market)
	return c.request(ctx, "GET", "/audiobooks/"+url.PathEscape(id), q.Encode(), nil)
}

// GetMultipleAudiobooks fetches up to 50 audiobooks in one call.
func (c *Client) GetMultipleAudiobooks(ctx context.Context, ids []string, market string) (json.RawMessage, error) {
	if err := validateIDList(ids, "ids", 50); err != nil {
		return nil, err
	}
	var q Query
	q.AddList("ids", NormalizeIDs(ids, "audiobook"))
	q.AddString("market", market)
	return c.request(ctx, "GET", "/audiobooks", q.Encode(), nil)
}
