package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/contrib/pkg/ports"
)

// Mask replaces values stored under sensitive keys.
const Mask = "***"

type piiMiddleware struct {
	next     ports.ContextStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks values of keys matching the
// patterns before they reach the wrapped store. Nested maps are masked by their
// own keys. Booleans and nil are kept so that bare-key truthiness still holds.
// It panics if a pattern does not compile.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.ContextStore) ports.ContextStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Set(ctx context.Context, key string, value any) error {
	if m.sensitive(key) {
		value = maskValue(value)
	} else if sub, ok := value.(map[string]any); ok {
		// Copy so the caller's map is left as is.
		value = m.maskMap(sub)
	}
	return m.next.Set(ctx, key, value)
}

func (m *piiMiddleware) Get(ctx context.Context, key string) (any, error) {
	return m.next.Get(ctx, key)
}

func (m *piiMiddleware) Delete(ctx context.Context, key string) error {
	return m.next.Delete(ctx, key)
}

func (m *piiMiddleware) All(ctx context.Context) (map[string]any, error) {
	return m.next.All(ctx)
}

// Helpers

func (m *piiMiddleware) sensitive(key string) bool {
	for _, p := range m.patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}

func (m *piiMiddleware) maskMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		switch {
		case m.sensitive(k):
			out[k] = maskValue(v)
		default:
			if sub, ok := v.(map[string]any); ok {
				out[k] = m.maskMap(sub)
			} else {
				out[k] = v
			}
		}
	}
	return out
}

func maskValue(v any) any {
	switch v.(type) {
	case nil, bool:
		return v
	}
	return Mask
}
