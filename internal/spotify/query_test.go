package spotify

import "testing"

func TestQuery_EmptyEncodesToNothing(t *testing.T) {
	var q Query
	if got := q.Encode(); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestQuery_PreservesInsertionOrder(t *testing.T) {
	var q Query
	q.AddString("a", "1")
	q.AddString("b", "") // skipped
	q.AddInt("c", 7)
	q.AddBool("d", true)

	if got := q.Encode(); got != "?a=1&c=7&d=true" {
		t.Fatalf("unexpected encoding: %q", got)
	}
}

func TestQuery_EscapesValues(t *testing.T) {
	var q Query
	q.AddString("q", "artist:Daft Punk")
	if got := q.Encode(); got != "?q=artist%3ADaft+Punk" {
		t.Fatalf("unexpected encoding: %q", got)
	}
}

func TestQuery_ListJoinsWithComma(t *testing.T) {
	var q Query
	q.AddList("ids", []string{"a", "b", "c"})
	if got := q.Encode(); got != "?ids=a%2Cb%2Cc" {
		t.Fatalf("unexpected encoding: %q", got)
	}
	var empty Query
	empty.AddList("ids", nil)
	if got := empty.Encode(); got != "" {
		t.Fatalf("empty list should be skipped, got %q", got)
	}
}
