package render

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/sujalbistaa/pickboard/internal/extract"
	"github.com/sujalbistaa/pickboard/internal/models"
	"github.com/sujalbistaa/pickboard/internal/store"
)

// Entry is everything the page shows for one post.
type Entry struct {
	Post         models.Post
	AnalysisDate *time.Time
	Analysis     extract.Analysis
	Votes        store.PostStats
}

// Card is the template view of one Entry.
type Card struct {
	ID              uint
	Batch           int
	Visible         bool
	Pinned          bool
	PostDate        string
	PostDateISO     string
	AnalysisDate    string
	AnalysisDateISO string
	PosterName      string
	PosterID        string
	Content         string
	ContentChinese  string
	Labels          Labels
	Stock           *StockSummary
	Option          *OptionSummary
	Sections        []SectionBlock
	Votes           []VoteBlock
}

// Labels are the card captions in the report's language.
type Labels struct {
	AnalysisDate string
	CurrentDate  string
	Empty        string
	BestBuy      string
	Target       string
}

var (
	englishLabels = Labels{
		AnalysisDate: "Analysis Date",
		CurrentDate:  "Current Date",
		Empty:        "NIL",
		BestBuy:      "Best Buy",
		Target:       "Target",
	}
	chineseLabels = Labels{
		AnalysisDate: "分析日期",
		CurrentDate:  "現在日期",
		Empty:        "無",
		BestBuy:      "最佳時機",
		Target:       "目標",
	}
)

// StockSummary is the header card for the top stock pick.
type StockSummary struct {
	Ticker      string
	ActionText  string
	ActionClass string
}

// OptionSummary is the header card for the top option pick. Timeline is set
// when both strike and expiry are known.
type OptionSummary struct {
	Ticker      string
	Type        string
	ActionClass string
	Strike      string
	Expiry      string
	Timeline    bool
}

// SectionBlock is one rendered report section.
type SectionBlock struct {
	Title string
	Class string
	Body  template.HTML
}

// VoteBlock is the vote widget for one vote type.
type VoteBlock struct {
	Type        models.VoteType
	Keyword     string
	Positive    int64
	Negative    int64
	PositivePct string
	NegativePct string
}

var actionNames = map[string]string{
	extract.Buy:  "買入",
	extract.Sell: "賣出",
	extract.Hold: "持有",
}

var voteKeywords = map[models.VoteType]string{
	models.VoteStock:   "股票",
	models.VoteOptions: "期權",
}

// Card builds the view of the entry at position index on the page.
func (r *Renderer) Card(e Entry, index int) Card {
	perBatch := r.cfg.PostsPerBatch
	if perBatch <= 0 {
		perBatch = 1
	}
	zh := e.Analysis.Language == extract.Chinese

	c := Card{
		ID:             e.Post.ID,
		Batch:          index / perBatch,
		Pinned:         e.Post.IsPinned,
		PostDate:       e.Post.PostDate.Format(dateLayout),
		PostDateISO:    e.Post.PostDate.Format(time.RFC3339),
		PosterName:     r.cfg.PosterName,
		PosterID:       r.cfg.PosterID,
		Content:        e.Post.Content,
		ContentChinese: e.Post.ContentChinese,
		Labels:         englishLabels,
	}
	c.Visible = c.Batch < r.cfg.InitialVisibleBatches
	if zh {
		c.Labels = chineseLabels
	}
	if e.AnalysisDate != nil {
		c.AnalysisDate = e.AnalysisDate.Format(dateLayout)
		c.AnalysisDateISO = e.AnalysisDate.Format(time.RFC3339)
	}

	if len(e.Analysis.Stocks) > 0 {
		c.Stock = stockSummary(e.Analysis.Stocks[0], zh)
	}
	if len(e.Analysis.Options) > 0 {
		c.Option = optionSummary(e.Analysis.Options[0])
	}

	c.Sections = r.sections(e.Analysis.Sections)
	c.Votes = voteBlocks(e.Votes)
	return c
}

func stockSummary(p extract.StockPick, zh bool) *StockSummary {
	action := p.Action
	if _, ok := actionNames[action]; !ok {
		action = extract.Buy
	}
	text := action
	if zh {
		text = fmt.Sprintf("%s (%s)", actionNames[action], action)
	}
	return &StockSummary{
		Ticker:      p.Ticker,
		ActionText:  text,
		ActionClass: "card-action-" + strings.ToLower(action),
	}
}

func optionSummary(p extract.OptionPick) *OptionSummary {
	return &OptionSummary{
		Ticker:      p.Ticker,
		Type:        p.Type,
		ActionClass: "card-action-" + strings.ToLower(p.Type),
		Strike:      p.Strike,
		Expiry:      p.Expiry,
		Timeline:    p.Strike != "?" && p.Expiry != "",
	}
}

func (r *Renderer) sections(s extract.Sections) []SectionBlock {
	titles := [3]string{"📈 Stock Picks", "📊 Options Picks", "🎯 Final Verdict"}
	if r.cfg.TraditionalChinese {
		titles = [3]string{"📈 股票建議", "📊 期權建議", "🎯 總結"}
	}
	return []SectionBlock{
		{Title: titles[0], Class: "section-gray-1", Body: r.Markdown(s.StockPicks)},
		{Title: titles[1], Class: "section-gray-2", Body: r.Markdown(s.OptionsPicks)},
		{Title: titles[2], Class: "section-gray-1", Body: r.Markdown(s.FinalVerdict)},
	}
}

func voteBlocks(stats store.PostStats) []VoteBlock {
	blocks := make([]VoteBlock, 0, len(models.VoteTypes))
	for _, t := range models.VoteTypes {
		s := stats[t]
		blocks = append(blocks, VoteBlock{
			Type:        t,
			Keyword:     voteKeywords[t],
			Positive:    s.Positive,
			Negative:    s.Negative,
			PositivePct: fmt.Sprintf("%.1f", s.PositivePct()),
			NegativePct: fmt.Sprintf("%.1f", s.NegativePct()),
		})
	}
	return blocks
}
