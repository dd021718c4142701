package spotify

import (
	"net/url"
	"strconv"
	"strings"
)

// Query accumulates URL query parameters in insertion order. Absent values
// are skipped at add time, so Encode only ever sees parameters that should
// appear on the wire. The Web API is order-insensitive; the stable order
// just keeps request logs readable.
type Query struct {
	pairs []queryPair
}

type queryPair struct {
	key   string
	value string
}

func (q *Query) add(key, value string) {
	q.pairs = append(q.pairs, queryPair{key: key, value: value})
}

// AddString adds key=value, skipping empty values.
func (q *Query) AddString(key, value string) {
	if value == "" {
		return
	}
	q.add(key, value)
}

// AddInt adds key=value with the integer's literal text form.
func (q *Query) AddInt(key string, value int) {
	q.add(key, strconv.Itoa(value))
}

// AddBool adds key=true or key=false.
func (q *Query) AddBool(key string, value bool) {
	q.add(key, strconv.FormatBool(value))
}

// AddList adds key=a,b,c, skipping empty lists.
func (q *Query) AddList(key string, values []string) {
	if len(values) == 0 {
		return
	}
	q.add(key, strings.Join(values, ","))
}

// Encode renders the accumulated parameters as "?k=v&..." with URL escaping,
// or "" when nothing was added.
func (q *Query) Encode() string {
	if len(q.pairs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteByte('?')
	for i, p := range q.pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	return b.String()
}
