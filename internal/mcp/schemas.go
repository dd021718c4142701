package mcp

// Input contracts for every tool, returned verbatim by tools/list. The
// dispatcher reads each schema's required list for presence validation;
// handlers enforce types and ranges.

func searchInputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]interface{}{
			"query":  map[string]interface{}{"type": "string", "minLength": 1},
			"type":   map[string]interface{}{"type": "string", "enum": []string{"album", "artist", "audiobook", "playlist", "track"}},
			"limit":  map[string]interface{}{"type": "integer", "minimum": 1, "maximum": 50, "default": 20},
			"offset": map[string]interface{}{"type": "integer", "minimum": 0, "default": 0},
			"market": map[string]interface{}{"type": "string"},
		},
		"required": []string{"query", "type"},
	}
}

func singleIDInputSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]interface{}{
			"id": map[string]interface{}{"type": "string", "minLength": 1, "description": description},
		},
		"required": []string{"id"},
	}
}

func singleIDWithMarketInputSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]interface{}{
			"id":     map[string]interface{}{"type": "string", "minLength": 1, "description": description},
			"market": map[string]interface{}{"type": "string"},
		},
		"required": []string{"id"},
	}
}

func idListInputSchema(description string, maxItems int) map[string]interface{} {
	return map[string]interface{}{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]interface{}{
			"ids": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "string", "minLength": 1},
				"minItems":    1,
				"maxItems":    maxItems,
				"description": description,
			},
			"market": map[string]interface{}{"type": "string"},
		},
		"required": []string{"ids"},
	}
}

func pagedIDInputSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]interface{}{
			"id":     map[string]interface{}{"type": "string", "minLength": 1, "description": description},
			"limit":  map[string]interface{}{"type": "integer", "minimum": 1, "maximum": 50, "default": 20},
			"offset": map[string]interface{}{"type": "integer", "minimum": 0, "default": 0},
			"market": map[string]interface{}{"type": "string"},
		},
		"required": []string{"id"},
	}
}

func pagedInputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]interface{}{
			"limit":  map[string]interface{}{"type": "integer", "minimum": 1, "maximum": 50, "default": 20},
			"offset": map[string]interface{}{"type": "integer", "minimum": 0, "default": 0},
		},
		"required": []string{},
	}
}

func artistAlbumsInputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]interface{}{
			"id": map[string]interface{}{"type": "string", "minLength": 1, "description": "Artist id or spotify:artist: URI"},
			"include_groups": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string", "enum": []string{"album", "single", "appears_on", "compilation"}},
			},
			"limit":  map[string]interface{}{"type": "integer", "minimum": 1, "maximum": 50, "default": 20},
			"offset": map[string]interface{}{"type": "integer", "minimum": 0, "default": 0},
			"market": map[string]interface{}{"type": "string"},
		},
		"required": []string{"id"},
	}
}

func artistTopTracksInputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]interface{}{
			"id":     map[string]interface{}{"type": "string", "minLength": 1, "description": "Artist id or spotify:artist: URI"},
			"market": map[string]interface{}{"type": "string", "minLength": 2, "description": "ISO 3166-1 alpha-2 market code"},
		},
		"required": []string{"id", "market"},
	}
}

func changePlaylistDetailsInputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]interface{}{
			"id":          map[string]interface{}{"type": "string", "minLength": 1, "description": "Playlist id or spotify:playlist: URI"},
			"name":        map[string]interface{}{"type": "string"},
			"description": map[string]interface{}{"type": "string"},
			"public":      map[string]interface{}{"type": "boolean"},
		},
		"required": []string{"id"},
	}
}

func playlistTracksMutationInputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]interface{}{
			"id": map[string]interface{}{"type": "string", "minLength": 1, "description": "Playlist id or spotify:playlist: URI"},
			"uris": map[string]interface{}{
				"type":     "array",
				"items":    map[string]interface{}{"type": "string", "minLength": 1},
				"minItems": 1,
			},
		},
		"required": []string{"id", "uris"},
	}
}

func recommendationsInputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]interface{}{
			"seed_artists": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string", "minLength": 1},
			},
			"seed_genres": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string", "minLength": 1},
			},
			"seed_tracks": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string", "minLength": 1},
			},
			"limit":  map[string]interface{}{"type": "integer", "minimum": 1, "maximum": 100, "default": 20},
			"market": map[string]interface{}{"type": "string"},
		},
		"required": []string{},
	}
}

func emptyInputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           map[string]interface{}{},
		"required":             []string{},
	}
}

func playTrackInputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]interface{}{
			"uri": map[string]interface{}{"type": "string", "pattern": "^spotify:track:", "description": "Track URI, e.g. spotify:track:4iV5W9uYEdYUVa79Axb7Rh"},
		},
		"required": []string{"uri"},
	}
}
