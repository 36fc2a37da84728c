package handler

import (
	"fmt"
	"regexp"

	"github.com/docforge/ingest/internal/metadata"
)

// Restriction limits a handler to documents whose metadata field
// matches a pattern.
type Restriction struct {
	Field   string
	Pattern *regexp.Regexp
}

// Matches reports whether any value of the field matches the pattern.
func (r Restriction) Matches(meta *metadata.Metadata) bool {
	for _, v := range meta.Values(r.Field) {
		if r.Pattern.MatchString(v) {
			return true
		}
	}
	return false
}

// Binding attaches optional applies-to restrictions to a handler. A
// binding with no restrictions applies to every document; otherwise it
// applies when at least one restriction matches.
type Binding struct {
	Handler      Handler
	Restrictions []Restriction
}

// Bind wraps h without restrictions.
func Bind(h Handler) Binding {
	return Binding{Handler: h}
}

// RestrictTo wraps h limited to documents whose metadata field matches
// pattern. Most commonly used with metadata.KeyContentType.
func RestrictTo(h Handler, field, pattern string) (Binding, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Binding{}, fmt.Errorf("compile restriction %q: %w", pattern, err)
	}
	return Binding{
		Handler:      h,
		Restrictions: []Restriction{{Field: field, Pattern: re}},
	}, nil
}

// AppliesTo evaluates the binding's restrictions against meta.
func (b Binding) AppliesTo(meta *metadata.Metadata) bool {
	if len(b.Restrictions) == 0 {
		return true
	}
	for _, r := range b.Restrictions {
		if r.Matches(meta) {
			return true
		}
	}
	return false
}

// Name identifies a handler in logs and rejection descriptions.
func Name(h Handler) string {
	if s, ok := h.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", h)
}
