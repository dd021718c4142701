package spotify

import (
	"reflect"
	"testing"
)

func TestNormalizeID_StripsURIWrapper(t *testing.T) {
	got := NormalizeID("spotify:track:4iV5W9uYEdYUVa79Axb7Rh", "track")
	if got != "4iV5W9uYEdYUVa79Axb7Rh" {
		t.Fatalf("unexpected id: %q", got)
	}
}

func TestNormalizeID_LeavesBareIDAlone(t *testing.T) {
	got := NormalizeID("4iV5W9uYEdYUVa79Axb7Rh", "track")
	if got != "4iV5W9uYEdYUVa79Axb7Rh" {
		t.Fatalf("unexpected id: %q", got)
	}
}

func TestNormalizeID_IgnoresOtherKinds(t *testing.T) {
	got := NormalizeID("spotify:album:abc", "track")
	if got != "spotify:album:abc" {
		t.Fatalf("album URI should pass through a track normalization, got %q", got)
	}
}

func TestNormalizeIDs(t *testing.T) {
	got := NormalizeIDs([]string{"spotify:artist:a1", "a2"}, "artist")
	want := []string{"a1", "a2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
