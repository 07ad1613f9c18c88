// Package render turns analyzed reports into the static pickboard page.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/sujalbistaa/pickboard/internal/config"
)

//go:embed templates/*.tmpl
var templates embed.FS

const dateLayout = "2006-01-02 15:04:05"

// Renderer converts section text to HTML and lays out the page.
type Renderer struct {
	cfg    config.PageConfig
	md     goldmark.Markdown
	page   *template.Template
	logger arbor.ILogger
}

func New(cfg config.PageConfig, logger arbor.ILogger) (*Renderer, error) {
	page, err := template.ParseFS(templates, "templates/page.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	return &Renderer{
		cfg: cfg,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, CJKEmphasis, Badges),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		page:   page,
		logger: logger,
	}, nil
}

// Markdown renders section text. Raw HTML in the input is dropped, so the
// result is safe to embed.
func (r *Renderer) Markdown(src string) template.HTML {
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		r.logger.Error().Err(err).Int("input_len", len(src)).Msg("Failed to convert markdown to HTML")
		return template.HTML("<pre>" + template.HTMLEscapeString(src) + "</pre>")
	}
	return template.HTML(buf.String())
}

type pageData struct {
	Title          string
	Cards          []Card
	Batches        int
	VisibleBatches int
	VoteAPIURL     string
	GeneratedAt    string
	Empty          string
}

// Page writes the full HTML page for entries, newest first as given.
func (r *Renderer) Page(w io.Writer, entries []Entry, now time.Time) error {
	data := pageData{
		Title:          "AI Trader",
		Cards:          make([]Card, 0, len(entries)),
		VisibleBatches: r.cfg.InitialVisibleBatches,
		VoteAPIURL:     r.cfg.VoteAPIURL,
		GeneratedAt:    now.Format(dateLayout),
		Empty:          "No analyses available yet.",
	}
	for i, e := range entries {
		c := r.Card(e, i)
		data.Cards = append(data.Cards, c)
		if c.Batch+1 > data.Batches {
			data.Batches = c.Batch + 1
		}
	}
	if err := r.page.Execute(w, data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}
