package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/sujalbistaa/pickboard/internal/config"
	"github.com/sujalbistaa/pickboard/internal/extract"
	"github.com/sujalbistaa/pickboard/internal/store"
)

// ReportSource lists posts with their advisor reports.
type ReportSource interface {
	Latest(ctx context.Context, limit int) ([]store.PostReports, error)
}

// StatsSource returns vote aggregates keyed by post id.
type StatsSource interface {
	AllStats(ctx context.Context) (map[uint]store.PostStats, error)
}

// Generator builds the static page from the database.
type Generator struct {
	cfg      config.PageConfig
	reports  ReportSource
	stats    StatsSource
	renderer *Renderer
	logger   arbor.ILogger
}

func NewGenerator(cfg config.PageConfig, reports ReportSource, stats StatsSource, logger arbor.ILogger) (*Generator, error) {
	r, err := New(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &Generator{cfg: cfg, reports: reports, stats: stats, renderer: r, logger: logger}, nil
}

// Entries loads and analyzes the newest posts.
func (g *Generator) Entries(ctx context.Context) ([]Entry, error) {
	posts, err := g.reports.Latest(ctx, g.cfg.MaxPosts)
	if err != nil {
		return nil, err
	}
	stats, err := g.stats.AllStats(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(posts))
	for _, pr := range posts {
		votes, ok := stats[pr.Post.ID]
		if !ok {
			votes = store.PostStats{}
		}
		entries = append(entries, Entry{
			Post:         pr.Post,
			AnalysisDate: pr.AnalysisDate(),
			Analysis:     extract.Analyze(pr.Report()),
			Votes:        votes,
		})
	}
	return entries, nil
}

// Generate writes the page to the configured output file and returns the
// number of posts on it. The file is replaced atomically.
func (g *Generator) Generate(ctx context.Context, now time.Time) (int, error) {
	entries, err := g.Entries(ctx)
	if err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	if err := g.renderer.Page(&buf, entries, now); err != nil {
		return 0, err
	}

	out := g.cfg.OutputFile
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return 0, fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(out), ".pickboard-*.html")
	if err != nil {
		return 0, fmt.Errorf("create temp page: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("write page: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("write page: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return 0, fmt.Errorf("chmod page: %w", err)
	}
	if err := os.Rename(tmp.Name(), out); err != nil {
		return 0, fmt.Errorf("replace page: %w", err)
	}

	g.logger.Info().Str("file", out).Int("posts", len(entries)).Msg("Page generated")
	return len(entries), nil
}
