package model

import "errors"

var (
	// ErrPlayerNotRunning indicates the desktop player application is not
	// running when a control script targets it.
	ErrPlayerNotRunning = errors.New("player application is not running")
)

// InvalidParamsError reports an argument violation detected locally, before
// any network or script call is made.
type InvalidParamsError struct {
	Message string
}

func (e *InvalidParamsError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// ProviderError carries an upstream failure (Web API, token endpoint or the
// scripting runtime) across component boundaries in a uniform shape.
type ProviderError struct {
	Code       string
	Message    string
	Retryable  bool
	StatusCode int
	Cause      error
}

func (e *ProviderError) Error() string {
	if e == nil {
		return ""
	}
	return e.Code + ": " + e.Message
}

func (e *ProviderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}
