// Package render turns user-authored markdown into sanitized HTML.
// Derived HTML is recomputed synchronously by services on every write,
// never by implicit persistence hooks.
package render

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Renderer converts markdown to HTML and strips everything outside the
// UGC allowlist. Safe for concurrent use.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// New builds a renderer with GFM tables/strikethrough enabled and the
// bluemonday UGC policy.
func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.Table, extension.Strikethrough),
		),
		policy: bluemonday.UGCPolicy(),
	}
}

// Markdown renders src and sanitizes the result. Disallowed tags such as
// <script> are stripped; permitted tags (<p>, <em>, lists, tables) survive.
func (r *Renderer) Markdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return r.policy.Sanitize(buf.String()), nil
}
