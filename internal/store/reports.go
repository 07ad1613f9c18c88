// Package store reads posts with their advisor reports and records votes.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/sujalbistaa/pickboard/internal/extract"
	"github.com/sujalbistaa/pickboard/internal/models"
)

// ErrPostNotFound is returned when a post id does not exist.
var ErrPostNotFound = errors.New("post not found")

// PostReports is a post with the newest output of each advisor.
type PostReports struct {
	Post      models.Post
	Advisor   *models.AIOutput // Grok or OpenAI advisor
	DeepSeek  *models.AIOutput
	Evaluator *models.AIOutput
}

// AnalysisDate is the evaluator's timestamp, or nil when there is none.
func (p PostReports) AnalysisDate() *time.Time {
	if p.Evaluator == nil {
		return nil
	}
	t := p.Evaluator.CreatedAt
	return &t
}

// Report is the evaluator output as an extraction input. A post without an
// evaluator output yields an empty report.
func (p PostReports) Report() extract.Report {
	r := extract.Report{ID: int64(p.Post.ID)}
	if p.Evaluator != nil {
		r.Text = p.Evaluator.OutputContent
	}
	return r
}

type Reports struct {
	db *gorm.DB
}

func NewReports(db *gorm.DB) *Reports {
	return &Reports{db: db}
}

// newestOutputsFirst orders preloaded outputs so the first one seen per
// advisor is the latest.
func newestOutputsFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at desc, ai_type desc, id desc")
}

// Latest returns up to limit posts, pinned first, then newest post date.
func (r *Reports) Latest(ctx context.Context, limit int) ([]PostReports, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Preload("Outputs", newestOutputsFirst).
		Order("is_pinned desc, post_date desc, id desc").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("load latest posts: %w", err)
	}

	out := make([]PostReports, 0, len(posts))
	for _, p := range posts {
		out = append(out, collect(p))
	}
	return out, nil
}

// Get returns one post with its advisor outputs.
func (r *Reports) Get(ctx context.Context, id uint) (PostReports, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Preload("Outputs", newestOutputsFirst).First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return PostReports{}, ErrPostNotFound
	}
	if err != nil {
		return PostReports{}, fmt.Errorf("load post %d: %w", id, err)
	}
	return collect(post), nil
}

// CreatePost stores a post together with any outputs attached to it.
func (r *Reports) CreatePost(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// AddOutput stores one advisor output for an existing post.
func (r *Reports) AddOutput(ctx context.Context, output *models.AIOutput) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id").First(&post, output.PostID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}
		return tx.Create(output).Error
	})
}

// collect keeps the first, and therefore newest, output of each advisor.
func collect(p models.Post) PostReports {
	pr := PostReports{Post: p}
	for i := range p.Outputs {
		o := &p.Outputs[i]
		switch o.AIName {
		case models.AdvisorGrok, models.AdvisorOpenAI:
			if pr.Advisor == nil {
				pr.Advisor = o
			}
		case models.AdvisorDeepSeek:
			if pr.DeepSeek == nil {
				pr.DeepSeek = o
			}
		case models.AdvisorEvaluator:
			if pr.Evaluator == nil {
				pr.Evaluator = o
			}
		}
	}
	pr.Post.Outputs = nil
	return pr
}
