// internal/pkg/query/params.go

// Package query builds ordered URL query strings.
//
// url.Values sorts keys on Encode. The backend does not care, but logs,
// caches and tests do, so requests are built with Params instead.
package query

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Param is one query entry.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered query.
type Params []Param

// Add appends key=value unless value is empty.
func (p Params) Add(key, value string) Params {
	if value == "" {
		return p
	}
	return append(p, Param{Key: key, Value: value})
}

// AddInt appends key=n unless n is zero.
func (p Params) AddInt(key string, n int) Params {
	if n == 0 {
		return p
	}
	return append(p, Param{Key: key, Value: strconv.Itoa(n)})
}

// Get returns the first value for key.
func (p Params) Get(key string) (string, bool) {
	for _, e := range p {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// Encode renders the query without a leading '?'.
func (p Params) Encode() string {
	var b strings.Builder
	for i, e := range p {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(e.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(e.Value))
	}
	return b.String()
}

// FromValues converts url.Values, dropping empty values. Keys come out sorted.
func FromValues(v url.Values) Params {
	if len(v) == 0 {
		return nil
	}
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var out Params
	for _, k := range keys {
		for _, val := range v[k] {
			out = out.Add(k, val)
		}
	}
	return out
}
