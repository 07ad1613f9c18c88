package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sujalbistaa/pickboard/internal/models"
)

// ErrAlreadyVoted is returned when the voter already voted on that post and
// vote type.
var ErrAlreadyVoted = errors.New("already voted")

// Voter identifies a reader by client IP and session cookie. Either may be
// empty; a voter matches a stored vote when either one matches.
type Voter struct {
	IP     string
	Cookie string
}

func (v Voter) known() bool {
	return v.IP != "" || v.Cookie != ""
}

// VoteStats are the counts for one vote type.
type VoteStats struct {
	Positive int64 `json:"positive"`
	Negative int64 `json:"negative"`
	Total    int64 `json:"total"`
}

// PositivePct is the positive share in percent, 0 when there are no votes.
func (s VoteStats) PositivePct() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Positive) / float64(s.Total) * 100
}

// NegativePct is the negative share in percent, 0 when there are no votes.
func (s VoteStats) NegativePct() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Negative) / float64(s.Total) * 100
}

// PostStats holds VoteStats for every vote type of one post.
type PostStats map[models.VoteType]VoteStats

func newPostStats() PostStats {
	s := PostStats{}
	for _, t := range models.VoteTypes {
		s[t] = VoteStats{}
	}
	return s
}

func (s PostStats) add(t models.VoteType, v models.VoteValue, n int64) {
	if !t.Valid() {
		return
	}
	st := s[t]
	switch v {
	case models.VotePositive:
		st.Positive += n
	case models.VoteNegative:
		st.Negative += n
	default:
		return
	}
	st.Total = st.Positive + st.Negative
	s[t] = st
}

type Votes struct {
	db *gorm.DB
}

func NewVotes(db *gorm.DB) *Votes {
	return &Votes{db: db}
}

// byVoter narrows a votes query to post, type and (ip OR cookie).
func byVoter(tx *gorm.DB, postID uint, voteType models.VoteType, voter Voter) *gorm.DB {
	match := tx.Session(&gorm.Session{NewDB: true})
	switch {
	case voter.IP != "" && voter.Cookie != "":
		match = match.Where("voter_ip = ?", voter.IP).Or("voter_cookie = ?", voter.Cookie)
	case voter.IP != "":
		match = match.Where("voter_ip = ?", voter.IP)
	default:
		match = match.Where("voter_cookie = ?", voter.Cookie)
	}
	return tx.Model(&models.Vote{}).
		Where("post_id = ? AND vote_type = ?", postID, voteType).
		Where(match)
}

// HasVoted reports whether voter already voted on postID for voteType. An
// anonymous voter (no IP, no cookie) never has.
func (v *Votes) HasVoted(ctx context.Context, postID uint, voteType models.VoteType, voter Voter) (bool, error) {
	if !voter.known() {
		return false, nil
	}
	var n int64
	if err := byVoter(v.db.WithContext(ctx), postID, voteType, voter).Count(&n).Error; err != nil {
		return false, fmt.Errorf("check vote: %w", err)
	}
	return n > 0, nil
}

// VoteValue returns the voter's latest vote value, or "" when there is none.
func (v *Votes) VoteValue(ctx context.Context, postID uint, voteType models.VoteType, voter Voter) (models.VoteValue, error) {
	if !voter.known() {
		return "", nil
	}
	var vote models.Vote
	err := byVoter(v.db.WithContext(ctx), postID, voteType, voter).
		Order("created_at desc, id desc").
		First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load vote: %w", err)
	}
	return vote.VoteValue, nil
}

// Submit records a vote. It fails with ErrPostNotFound for an unknown post
// and ErrAlreadyVoted when the voter has voted on that post and type.
func (v *Votes) Submit(ctx context.Context, vote *models.Vote) error {
	voter := Voter{IP: vote.VoterIP, Cookie: vote.VoterCookie}
	return v.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := lockedPost(tx).First(&post, vote.PostID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}

		if voter.known() {
			var n int64
			if err := byVoter(tx, vote.PostID, vote.VoteType, voter).Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				return ErrAlreadyVoted
			}
		}

		if err := tx.Create(vote).Error; err != nil {
			return fmt.Errorf("record vote: %w", err)
		}
		return nil
	})
}

// lockedPost selects a post row FOR UPDATE, so concurrent submits on one
// post run their duplicate check one at a time. SQLite drops the clause;
// it has a single writer.
func lockedPost(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).Select("id")
}

// BulkInsert stores votes without duplicate checks. Used for seeding.
func (v *Votes) BulkInsert(ctx context.Context, votes []models.Vote) error {
	if len(votes) == 0 {
		return nil
	}
	if err := v.db.WithContext(ctx).CreateInBatches(votes, 100).Error; err != nil {
		return fmt.Errorf("bulk insert votes: %w", err)
	}
	return nil
}

type countRow struct {
	PostID    uint
	VoteType  models.VoteType
	VoteValue models.VoteValue
	Count     int64
}

// Stats returns the counts for postID. Both vote types are always present.
func (v *Votes) Stats(ctx context.Context, postID uint) (PostStats, error) {
	var rows []countRow
	err := v.db.WithContext(ctx).Model(&models.Vote{}).
		Select("post_id, vote_type, vote_value, count(*) as count").
		Where("post_id = ?", postID).
		Group("post_id, vote_type, vote_value").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("vote stats for post %d: %w", postID, err)
	}

	stats := newPostStats()
	for _, r := range rows {
		stats.add(r.VoteType, r.VoteValue, r.Count)
	}
	return stats, nil
}

// AllStats returns the counts of every post that has at least one vote.
func (v *Votes) AllStats(ctx context.Context) (map[uint]PostStats, error) {
	var rows []countRow
	err := v.db.WithContext(ctx).Model(&models.Vote{}).
		Select("post_id, vote_type, vote_value, count(*) as count").
		Group("post_id, vote_type, vote_value").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("vote stats: %w", err)
	}

	all := map[uint]PostStats{}
	for _, r := range rows {
		s, ok := all[r.PostID]
		if !ok {
			s = newPostStats()
			all[r.PostID] = s
		}
		s.add(r.VoteType, r.VoteValue, r.Count)
	}
	return all, nil
}
