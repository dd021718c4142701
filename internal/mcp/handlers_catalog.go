package mcp

import (
	"context"
	"fmt"

	"spotimcp/internal/spotify"
)

// invalidField wraps an argument parse failure as a tool error. Range and
// domain checks live in the catalog client; only shape checks happen here.
func invalidField(err error) *toolExecutionError {
	return &toolExecutionError{Code: "INVALID_PARAMS", Message: err.Error()}
}

func (s *Server) handleSearchTool(ctx context.Context, args map[string]interface{}) (toolCallResult, *toolExecutionError) {
	query, _, err := parseRequiredString(args, "query")
	if err != nil {
		return toolCallResult{}, invalidField(err)
	}
	itemType, _, err := parseRequiredString(args, "type")
	if err != nil {
		return toolCallResult{}, invalidField(err)
	}
	market, err := parseOptionalString(args, "market")
	if err != nil {
		return toolCallResult{}, invalidField(err)
	}
	limit, offset, toolErr := parsePaging(args, 50)
	if toolErr != nil {
		return toolCallResult{}, toolErr
	}

	raw, err := s.catalog.Search(ctx, spotify.SearchParams{
		Query:  query,
		Type:   itemType,
		Market: market,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return toolCallResult{}, mapHandlerError(err)
	}
	return newJSONResult(raw)
}

func (s *Server) handleGetArtistTool(ctx context.Context, args map[string]interface{}) (toolCallResult, *toolExecutionError) {
	id, _, err := parseRequiredString(args, "id")
	if err != nil {
		return toolCallResult{}, invalidField(err)
	}
	raw, err := s.catalog.GetArtist(ctx, id)
	if err != nil {
		return toolCallResult{}, mapHandlerError(err)
	}
	return newJSONResult(raw)
}

func (s *Server) handleGetMultipleArtistsTool(ctx context.Context, args map[string]interface{}) (toolCallResult, *toolExecutionError) {
	ids, err := parseStringSlice(args, "ids")
	if err != nil {
		return toolCallResult{}, invalidField(err)
	}
	raw, err := s.catalog.GetMultipleArtists(ctx, ids)
	if err != nil {
		return toolCallResult{}, mapHandlerError(err)
	}
	return newJSONResult(raw)
}

func (s *Server) handleGetArtistAlbumsTool(ctx context.Context, args map[string]interface{}) (toolCallResult, *toolExecutionError) {
	id, _, err := parseRequiredString(args, "id")
	if err != nil {
		return toolCallResult{}, invalidField(err)
	}
	groups, err := parseStringSlice(args, "include_groups")
	if err != nil {
		return toolCallResult{}, invalidField(err)
	}
	market, err := parseOptionalString(args, "market")
	if err != nil {
		return toolCallResult{}, invalidField(err)
	}
	limit, offset, toolErr := parsePaging(args, 50)
	if toolErr != nil {
		return toolCallResult{}, toolErr
	}

	raw, err := s.catalog.GetArtistAlbums(ctx, spotify.ArtistAlbumsParams{
		ID:            id,
		IncludeGroups: groups,
		Market:        market,
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		return toolCallResult{}, mapHandlerError(err)
	}
	return newJSONResult(raw)
}

func (s *Server) handleGetArtistTopTracksTool(ctx context.Context, args map[string]interface{}) (toolCallResult, *toolExecutionError) {
	id, _, err := parseRequiredString(args, "id")
	if err != nil {
		return toolCallResult{}, invalidField(err)
	}
	market, _, err := parseRequiredString(args, "market")
	if err != nil {
		return toolCallResult{}, invalidField(err)
	}
	raw, err := s.catalog.GetArtistTopTracks(ctx, id, market)
	if err != nil {
		return toolCallResult{}, mapHandlerError(err)
	}
	return newJSONResult(raw)
}

func (s *Server) handleGetAlbumTool(ctx context.Context, args map[string]interface{}) (toolCallResult, *toolExecutionError) {
	id, market, toolErr := parseIDWithMarket(args)
	if toolErr != nil {
		return toolCallResult{}, toolErr
	}
	raw, err := s.catalog.GetAlbum(ctx, id, market)
	if err != nil {
		return toolCallResult{}, mapHandlerError(err)
	}
	return newJSONResult(raw)
}

func (s *Server) handleGetMultipleAlbumsTool(ctx context.Context, args map[string]interface{}) (toolCallResult, *toolExecutionError) {
	ids, err := parseStringSlice(args, "ids")
	if err != nil {
		return toolCallResult{}, invalidField(err)
	}
	market, err := parseOptionalString(args, "market")
	if err != nil {
		return toolCallResult{}, invalidField(err)
	}
	raw, err := s.catalog.GetMultipleAlbums(ctx, ids, market)
	if err != nil {
		return toolCallResult{}, mapHandlerError(err)
	}
	return newJSONResult(raw)
}

func (s *Server) handleGetAlbumTracksTool(ctx context.Context, args map[string]interface{}) (toolCallResult, *toolExecutionError) {
	id, market, toolErr := parseIDWithMarket(args)
	if toolErr != nil {
		return toolCallResult{}, toolErr
	}
	limit, offset, toolErr := parsePaging(args, 50)
	if toolErr != nil {
		return toolCallResult{}, toolErr
	}
	raw, err := s.catalog.GetAlbumTracks(ctx, spotify.AlbumTracksParams{
		ID:     id,
		Market: market,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return toolCallResult{}, mapHandlerError(err)
	}
	return newJSONResult(raw)
}

func (s *Server) handleGetTrackTool(ctx context.Context, args map[string]interface{}) (toolCallResult, *toolExecutionError) {
	id, market, toolErr := parseIDWithMarket(args)
	if toolErr != nil {
		return toolCallResult{}, toolErr
	}
	raw, err := s.catalog.GetTrack(ctx, id, market)
	if err != nil {
		return toolCallResult{}, mapHandlerError(err)
	}
	return newJSONResult(raw)
}

func (s *Server) handleGetAudiobookTool(ctx context.Context, args map[string]interface{}) (toolCallResult, *toolExecutionError) {
	id, market, toolErr := parseIDWithMarket(args)
	if toolErr != nil {
		return toolCallResult{}, toolErr
	}
	raw, err := s.catalog.GetAudiobook(ctx, id, market)
	if err != nil {
		return toolCallResult{}, mapHandlerError(err)
	}
	return newJSONResult(raw)
}

func (s *Server) handleGetMultipleAudiobooksTool(ctx context.Context, args map[string]interface{}) (toolCallResult, *toolExecutionError) {
	ids, err := parseStringSlice(args, "ids")
	if err != nil {
		return toolCallResult{}, invalidField(err)
	}
	market, err := parseOptionalString(args, "market")
	if err != nil {
		return toolCallResult{}, invalidField(err)
	}
	raw, err := s.catalog.GetMultipleAudiobooks(ctx, ids, market)
	if err != nil {
		return toolCallResult{}, mapHandlerError(err)
	}
	return newJSONResult(raw)
}

func (s *Server) handleGetPlaylistTool(ctx context.Context, args map[string]interface{}) (toolCallResult, *toolExecutionError) {
	id, market, toolErr := parseIDWithMarket(args)
	if toolErr != nil {
		return toolCallResult{}, toolErr
	}
	raw, err := s.catalog.GetPlaylist(ctx, id, market)
	if err != nil {
		return toolCallResult{}, mapHandlerError(err)
	}
	return newJSONResult(raw)
}

func (s *Server) handleGetPlaylistTracksTool(ctx context.Context, args map[string]interface{}) (toolCallResult, *toolExecutionError) {
	id, market, toolErr := parseIDWithMarket(args)
	if toolErr != nil {
		return toolCallResult{}, toolErr
	}
	limit, offset, toolErr := parsePaging(args, 50)
	if toolErr != nil {
		return toolCallResult{}, toolErr
	}
	raw, err := s.catalog.GetPlaylistTracks(ctx, spotify.PlaylistTracksParams{
		ID:     id,
		Market: market,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return toolCallResult{}, mapHandlerError(err)
	}
	return newJSONResult(raw)
}

func (s *Server) handleChangePlaylistDetailsTool(ctx context.Context, args map[string]interface{}) (toolCallResult, *toolExecutionError) {
	id, _, err := parseRequiredString(args, "id")
	if err != nil {
		return toolCallResult{}, invalidField(err)
	}

	var details spotify.PlaylistDetails
	if raw, present := args["name"]; present {
		name, ok := raw.(string)
		if !ok {
			return toolCallResult{}, &toolExecutionError{Code: "INVALID_PARAMS", Message: "name must be a string"}
		}
		details.Name = &name
	}
	if raw, present := args["description"]; present {
		description, ok := raw.(string)
		if !ok {
			return toolCallResult{}, &toolExecutionError{Code: "INVALID_PARAMS", Message: "description must be a string"}
		}
		details.Description = &description
	}
	public, err := parseOptionalBool(args, "public")
	if err != nil {
		return toolCallResult{}, invalidField(err)
	}
	details.Public = public

	raw, err := s.catalog.ChangePlaylistDetails(ctx, id, details)
	if err != nil {
		return toolCallResult{}, mapHandlerError(err)
	}
	return newJSONResult(raw)
}

func (s *Server) handleAddTracksToPlaylistTool(ctx context.Context, args map[string]interface{}) (toolCallResult, *toolExecutionError) {
	id, uris, toolErr := parsePlaylistMutation(args)
	if toolErr != nil {
		return toolCallResult{}, toolErr
	}
	raw, err := s.catalog.AddTracksToPlaylist(ctx, id, uris)
	if err != nil {
		return toolCallResult{}, mapHandlerError(err)
	}
	return newJSONResult(raw)
}

func (s *Server) handleRemoveTracksFromPlaylistTool(ctx context.Context, args map[string]interface{}) (toolCallResult, *toolExecutionError) {
	id, uris, toolErr := parsePlaylistMutation(args)
	if toolErr != nil {
		return toolCallResult{}, toolErr
	}
	raw, err := s.catalog.RemoveTracksFromPlaylist(ctx, id, uris)
	if err != nil {
		return toolCallResult{}, mapHandlerError(err)
	}
	return newJSONResult(raw)
}

func (s *Server) handleGetUserPlaylistsTool(ctx context.Context, args map[string]interface{}) (toolCallResult, *toolExecutionError) {
	limit, offset, toolErr := parsePaging(args, 50)
	if toolErr != nil {
		return toolCallResult{}, toolErr
	}
	raw, err := s.catalog.GetCurrentUserPlaylists(ctx, limit, offset)
	if err != nil {
		return toolCallResult{}, mapHandlerError(err)
	}
	return newJSONResult(raw)
}

func (s *Server) handleGetNewReleasesTool(ctx context.Context, args map[string]interface{}) (toolCallResult, *toolExecutionError) {
	limit, offset, toolErr := parsePaging(args, 50)
	if toolErr != nil {
		return toolCallResult{}, toolErr
	}
	raw, err := s.catalog.GetNewReleases(ctx, limit, offset)
	if err != nil {
		return toolCallResult{}, mapHandlerError(err)
	}
	return newJSONResult(raw)
}

func (s *Server) handleGetRecommendationsTool(ctx context.Context, args map[string]interface{}) (toolCallResult, *toolExecutionError) {
	seedArtists, err := parseStringSlice(args, "seed_artists")
	if err != nil {
		return toolCallResult{}, invalidField(err)
	}
	seedGenres, err := parseStringSlice(args, "seed_genres")
	if err != nil {
		return toolCallResult{}, invalidField(err)
	}
	seedTracks, err := parseStringSlice(args, "seed_tracks")
	if err != nil {
		return toolCallResult{}, invalidField(err)
	}
	market, err := parseOptionalString(args, "market")
	if err != nil {
		return toolCallResult{}, invalidField(err)
	}
	limit, err := parseOptionalInteger(args, "limit", spotify.DefaultPageLimit)
	if err != nil {
		return toolCallResult{}, invalidField(err)
	}
	if limit < 1 || limit > 100 {
		return toolCallResult{}, invalidField(fmt.Errorf("limit must be between 1 and 100"))
	}

	raw, err := s.catalog.GetRecommendations(ctx, spotify.RecommendationsParams{
		SeedArtists: seedArtists,
		SeedGenres:  seedGenres,
		SeedTracks:  seedTracks,
		Market:      market,
		Limit:       limit,
	})
	if err != nil {
		return toolCallResult{}, mapHandlerError(err)
	}
	return newJSONResult(raw)
}

// parseIDWithMarket reads the id/market pair shared by the single-item
// lookups.
func parseIDWithMarket(args map[string]interface{}) (string, string, *toolExecutionError) {
	id, _, err := parseRequiredString(args, "id")
	if err != nil {
		return "", "", invalidField(err)
	}
	market, err := parseOptionalString(args, "market")
	if err != nil {
		return "", "", invalidField(err)
	}
	return id, market, nil
}

// parsePaging reads the optional limit/offset pair and enforces the bounds
// the schemas declare. An absent limit takes the default page size; an
// explicit zero is out of range like any other value below 1.
func parsePaging(args map[string]interface{}, maxLimit int) (int, int, *toolExecutionError) {
	limit, err := parseOptionalInteger(args, "limit", spotify.DefaultPageLimit)
	if err != nil {
		return 0, 0, invalidField(err)
	}
	if limit < 1 || limit > maxLimit {
		return 0, 0, invalidField(fmt.Errorf("limit must be between 1 and %d", maxLimit))
	}
	offset, err := parseOptionalInteger(args, "offset", 0)
	if err != nil {
		return 0, 0, invalidField(err)
	}
	if offset < 0 {
		return 0, 0, invalidField(fmt.Errorf("offset must be >= 0"))
	}
	return limit, offset, nil
}

func parsePlaylistMutation(args map[string]interface{}) (string, []string, *toolExecutionError) {
	id, _, err := parseRequiredString(args, "id")
	if err != nil {
		return "", nil, invalidField(err)
	}
	uris, err := parseStringSlice(args, "uris")
	if err != nil {
		return "", nil, invalidField(err)
	}
	return id, uris, nil
}
