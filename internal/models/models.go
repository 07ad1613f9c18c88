package models

import (
	"time"

	"gorm.io/gorm"
)

// Advisor names stored in AIOutput.AIName.
const (
	AdvisorGrok      = "Grok_Advisor"
	AdvisorOpenAI    = "OpenAI_Advisor"
	AdvisorDeepSeek  = "DeepSeek_Advisor"
	AdvisorEvaluator = "TradeEvaluator"
)

// Post represents a single source post that the advisors analyzed.
type Post struct {
	ID             uint       `gorm:"primarykey" json:"id"`
	PostDate       time.Time  `gorm:"not null;index" json:"postDate"`
	Content        string     `gorm:"not null" json:"content"`
	ContentChinese string     `gorm:"not null;default:''" json:"contentChinese,omitempty"`
	IsPinned       bool       `gorm:"not null;default:false" json:"isPinned"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	Outputs        []AIOutput `gorm:"foreignKey:PostID" json:"-"` // Has-many relationship
	Votes          []Vote     `gorm:"foreignKey:PostID" json:"-"`
}

// AIOutput is one advisor's report on a Post. The evaluator's output is
// the report the picks are extracted from.
type AIOutput struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	PostID        uint      `gorm:"not null;index" json:"postId"`
	AIType        string    `gorm:"not null" json:"aiType"`
	AIName        string    `gorm:"not null;index" json:"aiName"`
	OutputContent string    `gorm:"not null" json:"outputContent"`
	CreatedAt     time.Time `json:"createdAt"`
}

// VoteType is what a vote is about: the stock picks or the options picks.
type VoteType string

const (
	VoteStock   VoteType = "stock"
	VoteOptions VoteType = "options"
)

// VoteTypes lists every vote type in display order.
var VoteTypes = []VoteType{VoteStock, VoteOptions}

func (t VoteType) Valid() bool {
	return t == VoteStock || t == VoteOptions
}

// VoteValue is the sentiment of a vote.
type VoteValue string

const (
	VotePositive VoteValue = "positive"
	VoteNegative VoteValue = "negative"
)

func (v VoteValue) Valid() bool {
	return v == VotePositive || v == VoteNegative
}

// Vote represents one reader's positive or negative vote on a Post's picks.
type Vote struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	PostID      uint           `gorm:"not null;index:idx_votes_post_type" json:"postId"`
	VoteType    VoteType       `gorm:"not null;index:idx_votes_post_type" json:"voteType"`
	VoteValue   VoteValue      `gorm:"not null" json:"voteValue"`
	VoterIP     string         `gorm:"index:idx_votes_voter" json:"-"`
	VoterCookie string         `gorm:"index:idx_votes_voter" json:"-"`
	CreatedAt   time.Time      `json:"createdAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
