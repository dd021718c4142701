package spotify

import (
	"context"
	"encoding/json"
	"strings"
)

var searchTypes = map[string]struct{}{
	"album":     {},
	"artist":    {},
	"audiobook": {},
	"playlist":  {},
	"track":     {},
}

type SearchParams struct {
	Query  string
	Type   string
	Market string
	Limit  int
	Offset int
}

// Search queries the catalog for one item type.
func (c *Client) Search(ctx context.Context, params SearchParams) (json.RawMessage, error) {
	if strings.TrimSpace(params.Query) == "" {
		return nil, invalidParams("query must be a non-empty string")
	}
	if _, ok := searchTypes[params.Type]; !ok {
		return nil, invalidParams("type must be one of album,artist,audiobook,playlist,track")
	}
	limit, offset, err := resolvePage(params.Limit, params.Offset, 50)
	if err != nil {
		return nil, err
	}

	var q Query
	q.AddString("q", params.Query)
	q.AddString("type", params.Type)
	q.AddInt("limit", limit)
	q.AddInt("offset", offset)
	q.AddString("market", params.Market)
	return c.request(ctx, "GET", "/search", q.Encode(), nil)
}
