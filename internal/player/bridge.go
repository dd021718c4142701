// Package player drives the local Spotify desktop application through
// osascript. Each operation submits one AppleScript and awaits its single
// result; the scripting runtime's callback/error shape never leaks past
// this package.
package player

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"spotimcp/internal/model"
)

const (
	scriptTimeout = 15 * time.Second

	// TrackURIPrefix is the only URI form PlayTrack accepts.
	TrackURIPrefix = "spotify:track:"
)

// Runner executes one automation script and returns its output.
type Runner interface {
	Run(ctx context.Context, script string) (string, error)
}

// ScriptError is the raw failure shape reported by the scripting runtime.
type ScriptError struct {
	Stderr string
	Cause  error
}

func (e *ScriptError) Error() string {
	if strings.TrimSpace(e.Stderr) != "" {
		return "osascript: " + strings.TrimSpace(e.Stderr)
	}
	if e.Cause != nil {
		return "osascript: " + e.Cause.Error()
	}
	return "osascript failed"
}

func (e *ScriptError) Unwrap() error {
	return e.Cause
}

type osascriptRunner struct{}

func (osascriptRunner) Run(ctx context.Context, script string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, scriptTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "osascript", "-e", script)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &ScriptError{Stderr: stderr.String(), Cause: err}
	}
	return strings.TrimSpace(stdout.String()), nil
}

// Bridge runs the fixed script templates against one player application.
type Bridge struct {
	app    string
	runner Runner
}

// New creates a bridge that shells out to osascript.
func New(app string) *Bridge {
	return NewWithRunner(app, osascriptRunner{})
}

// NewWithRunner creates a bridge with a custom script runner.
func NewWithRunner(app string, runner Runner) *Bridge {
	app = strings.TrimSpace(app)
	if app == "" {
		app = "Spotify"
	}
	return &Bridge{app: app, runner: runner}
}

// PlayPause toggles between playing and paused.
func (b *Bridge) PlayPause(ctx context.Context) (string, error) {
	return b.runSimple(ctx, fmt.Sprintf("tell application %q to playpause", b.app))
}

// NextTrack skips to the next track.
func (b *Bridge) NextTrack(ctx context.Context) (string, error) {
	return b.runSimple(ctx, fmt.Sprintf("tell application %q to next track", b.app))
}

// PreviousTrack skips to the previous track.
func (b *Bridge) PreviousTrack(ctx context.Context) (string, error) {
	return b.runSimple(ctx, fmt.Sprintf("tell application %q to previous track", b.app))
}

// CurrentTrack reports what is playing. An idle player yields a
// human-readable "not playing" line as a success: the host should not treat
// an idle player as a failure.
func (b *Bridge) CurrentTrack(ctx context.Context) (string, error) {
	script := fmt.Sprintf(`tell application %q
	if player state is playing or player state is paused then
		set trackName to name of current track
		set artistName to artist of current track
		set albumName to album of current track
		return trackName & " by " & artistName & " from the album " & albumName
	else
		return %q
	end if
end tell`, b.app, b.app+" is not currently playing anything")

	out, err := b.runner.Run(ctx, script)
	if err != nil {
		return "", b.translate(err)
	}
	return out, nil
}

// PlayTrack starts playback of a track URI. The prefix check runs before
// any script executes; the script also captures the frontmost application
// and best-effort reactivates it after a short delay so focus returns to
// the assistant's window. Refocus failures are swallowed inside the
// script's try blocks.
func (b *Bridge) PlayTrack(ctx context.Context, uri string) (string, error) {
	if !strings.HasPrefix(uri, TrackURIPrefix) {
		return "", &model.InvalidParamsError{
			Message: fmt.Sprintf("uri must start with %q", TrackURIPrefix),
		}
	}

	quoted := `"` + escapeScriptString(uri) + `"`
	script := fmt.Sprintf(`set frontApp to ""
try
	tell application "System Events" to set frontApp to name of first process whose frontmost is true
end try
tell application %q
	play track %s
end tell
delay 0.5
try
	if frontApp is not "" then
		tell application frontApp to activate
	end if
end try
return "Playing " & %s`, b.app, quoted, quoted)

	out, err := b.runner.Run(ctx, script)
	if err != nil {
		return "", b.translate(err)
	}
	if out == "" {
		out = "Success"
	}
	return out, nil
}

func (b *Bridge) runSimple(ctx context.Context, script string) (string, error) {
	out, err := b.runner.Run(ctx, script)
	if err != nil {
		return "", b.translate(err)
	}
	if out == "" {
		out = "Success"
	}
	return out, nil
}

// translate maps runtime failures into the uniform error model: the
// "application isn't running" case (AppleScript error -600) becomes
// ErrPlayerNotRunning; everything else surfaces as a provider error
// carrying the runtime's message.
func (b *Bridge) translate(err error) error {
	var scriptErr *ScriptError
	if errors.As(err, &scriptErr) {
		stderr := scriptErr.Stderr
		if strings.Contains(stderr, "-600") || strings.Contains(stderr, "isn't running") {
			return fmt.Errorf("%s: %w", b.app, model.ErrPlayerNotRunning)
		}
	}
	return &model.ProviderError{
		Code:      "OSASCRIPT_FAILED",
		Message:   err.Error(),
		Retryable: false,
		Cause:     err,
	}
}

// escapeScriptString makes a value safe inside a double-quoted AppleScript
// string literal.
func escapeScriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
