package player

import (
	"context"
	"errors"
	"strings"
	"testing"

	"spotimcp/internal/model"
)

type fakeRunner struct {
	output  string
	err     error
	calls   int
	scripts []string
}

func (f *fakeRunner) Run(_ context.Context, script string) (string, error) {
	f.calls++
	f.scripts = append(f.scripts, script)
	return f.output, f.err
}

func TestPlayPause_TargetsConfiguredApp(t *testing.T) {
	runner := &fakeRunner{output: ""}
	b := NewWithRunner("Spotify", runner)

	out, err := b.PlayPause(context.Background())
	if err != nil {
		t.Fatalf("PlayPause: %v", err)
	}
	if out != "Success" {
		t.Fatalf("empty script output should report Success, got %q", out)
	}
	if runner.calls != 1 {
		t.Fatalf("expected one script run, got %d", runner.calls)
	}
	if !strings.Contains(runner.scripts[0], `tell application "Spotify" to playpause`) {
		t.Fatalf("unexpected script: %q", runner.scripts[0])
	}
}

func TestNewWithRunner_DefaultsAppName(t *testing.T) {
	runner := &fakeRunner{}
	b := NewWithRunner("  ", runner)
	if _, err := b.NextTrack(context.Background()); err != nil {
		t.Fatalf("NextTrack: %v", err)
	}
	if !strings.Contains(runner.scripts[0], `"Spotify"`) {
		t.Fatalf("expected default app name in script: %q", runner.scripts[0])
	}
}

func TestCurrentTrack_IdlePlayerIsSuccess(t *testing.T) {
	runner := &fakeRunner{output: "Spotify is not currently playing anything"}
	b := NewWithRunner("Spotify", runner)

	out, err := b.CurrentTrack(context.Background())
	if err != nil {
		t.Fatalf("idle player must not be an error: %v", err)
	}
	if out != "Spotify is not currently playing anything" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestPlayTrack_RejectsBadURIBeforeRunning(t *testing.T) {
	runner := &fakeRunner{}
	b := NewWithRunner("Spotify", runner)

	_, err := b.PlayTrack(context.Background(), "spotify:album:xyz")
	var ie *model.InvalidParamsError
	if !errors.As(err, &ie) {
		t.Fatalf("expected InvalidParamsError, got %v", err)
	}
	if runner.calls != 0 {
		t.Fatalf("no script may run for a rejected uri, got %d calls", runner.calls)
	}
}

func TestPlayTrack_RunsScriptWithQuotedURI(t *testing.T) {
	runner := &fakeRunner{output: "Playing spotify:track:abc"}
	b := NewWithRunner("Spotify", runner)

	out, err := b.PlayTrack(context.Background(), "spotify:track:abc")
	if err != nil {
		t.Fatalf("PlayTrack: %v", err)
	}
	if out != "Playing spotify:track:abc" {
		t.Fatalf("unexpected output: %q", out)
	}
	if runner.calls != 1 {
		t.Fatalf("expected one script run, got %d", runner.calls)
	}
	script := runner.scripts[0]
	if !strings.Contains(script, `play track "spotify:track:abc"`) {
		t.Fatalf("script missing play command: %q", script)
	}
	if !strings.Contains(script, "frontmost is true") || !strings.Contains(script, "delay 0.5") {
		t.Fatalf("script missing refocus steps: %q", script)
	}
}

func TestTranslate_NotRunningError(t *testing.T) {
	runner := &fakeRunner{err: &ScriptError{Stderr: "execution error: Spotify got an error: Application isn't running. (-600)"}}
	b := NewWithRunner("Spotify", runner)

	_, err := b.PlayPause(context.Background())
	if !errors.Is(err, model.ErrPlayerNotRunning) {
		t.Fatalf("expected ErrPlayerNotRunning, got %v", err)
	}
}

func TestTranslate_OtherScriptFailure(t *testing.T) {
	runner := &fakeRunner{err: &ScriptError{Stderr: "syntax error near line 1"}}
	b := NewWithRunner("Spotify", runner)

	_, err := b.CurrentTrack(context.Background())
	var pe *model.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if pe.Code != "OSASCRIPT_FAILED" {
		t.Fatalf("unexpected code: %q", pe.Code)
	}
}

func TestEscapeScriptString(t *testing.T) {
	got := escapeScriptString(`a"b\c`)
	if got != `a\"b\\c` {
		t.Fatalf("unexpected escape: %q", got)
	}
}
