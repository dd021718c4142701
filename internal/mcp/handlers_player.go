package mcp

import "context"

func (s *Server) handlePlayPauseTool(ctx context.Context, _ map[string]interface{}) (toolCallResult, *toolExecutionError) {
	out, err := s.player.PlayPause(ctx)
	if err != nil {
		return toolCallResult{}, mapHandlerError(err)
	}
	return newTextResult(out), nil
}

func (s *Server) handleNextTrackTool(ctx context.Context, _ map[string]interface{}) (toolCallResult, *toolExecutionError) {
	out, err := s.player.NextTrack(ctx)
	if err != nil {
		return toolCallResult{}, mapHandlerError(err)
	}
	return newTextResult(out), nil
}

func (s *Server) handlePreviousTrackTool(ctx context.Context, _ map[string]interface{}) (toolCallResult, *toolExecutionError) {
	out, err := s.player.PreviousTrack(ctx)
	if err != nil {
		return toolCallResult{}, mapHandlerError(err)
	}
	return newTextResult(out), nil
}

func (s *Server) handleGetCurrentTrackTool(ctx context.Context, _ map[string]interface{}) (toolCallResult, *toolExecutionError) {
	out, err := s.player.CurrentTrack(ctx)
	if err != nil {
		return toolCallResult{}, mapHandlerError(err)
	}
	return newTextResult(out), nil
}

func (s *Server) handlePlayTrackTool(ctx context.Context, args map[string]interface{}) (toolCallResult, *toolExecutionError) {
	uri, _, err := parseRequiredString(args, "uri")
	if err != nil {
		return toolCallResult{}, invalidField(err)
	}
	out, err := s.player.PlayTrack(ctx, uri)
	if err != nil {
		return toolCallResult{}, mapHandlerError(err)
	}
	return newTextResult(out), nil
}
