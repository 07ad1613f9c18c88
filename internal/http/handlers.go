package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/sujalbistaa/pickboard/internal/extract"
	"github.com/sujalbistaa/pickboard/internal/models"
	"github.com/sujalbistaa/pickboard/internal/store"
)

const (
	sessionCookie    = "vote_session_id"
	sessionCookieAge = 365 * 24 * 60 * 60
)

// --- Structs for request binding ---
type VoteInput struct {
	PostID    uint             `json:"post_id" binding:"required"`
	VoteType  models.VoteType  `json:"vote_type" binding:"required,oneof=stock options"`
	VoteValue models.VoteValue `json:"vote_value" binding:"required,oneof=positive negative"`
}

// --- WebSocket Payloads ---

// WsMessage is the envelope every hub message uses.
type WsMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// --- Rate Limiter ---
type IPRateLimiter struct {
	visitors map[string]*rate.Limiter
	mu       sync.RWMutex
	rps      rate.Limit
	burst    int
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		visitors: make(map[string]*rate.Limiter),
		rps:      r,
		burst:    b,
	}
}

func (rl *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	limiter, exists := rl.visitors[ip]
	if !exists {
		limiter = rate.NewLimiter(rl.rps, rl.burst)
		rl.visitors[ip] = limiter
	}
	return limiter
}

// Sweep forgets visitors whose bucket has refilled completely.
func (rl *IPRateLimiter) Sweep() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	removed := 0
	for ip, l := range rl.visitors {
		if l.Tokens() >= float64(rl.burst) {
			delete(rl.visitors, ip)
			removed++
		}
	}
	return removed
}

// Janitor sweeps the limiter every interval until ctx is done.
func (rl *IPRateLimiter) Janitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.Sweep()
		}
	}
}

func RateLimitMiddleware(limiter *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !limiter.GetLimiter(ip).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please wait."})
			return
		}
		c.Next()
	}
}

// --- Handlers ---

// ReportReader loads one post with its advisor reports.
type ReportReader interface {
	Get(ctx context.Context, id uint) (store.PostReports, error)
}

// VoteStore records and aggregates votes.
type VoteStore interface {
	Submit(ctx context.Context, vote *models.Vote) error
	Stats(ctx context.Context, postID uint) (store.PostStats, error)
	VoteValue(ctx context.Context, postID uint, voteType models.VoteType, voter store.Voter) (models.VoteValue, error)
}

// Publisher fans a message out to live page viewers.
type Publisher interface {
	Publish(msg []byte)
}

// PageGenerator rewrites the static page.
type PageGenerator interface {
	Generate(ctx context.Context, now time.Time) (int, error)
}

type Env struct {
	Reports   ReportReader
	Votes     VoteStore
	Hub       Publisher
	Generator PageGenerator
	Logger    arbor.ILogger
}

// voter identifies the caller by IP and session cookie. A new cookie is
// issued when the request has none.
func voter(c *gin.Context) store.Voter {
	cookie, err := c.Cookie(sessionCookie)
	if err != nil || cookie == "" {
		cookie = uuid.NewString()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(sessionCookie, cookie, sessionCookieAge, "/", "", false, true)
	}
	return store.Voter{IP: c.ClientIP(), Cookie: cookie}
}

func postID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return 0, false
	}
	return uint(id), true
}

func (e *Env) SubmitVote(c *gin.Context) {
	var input VoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	v := voter(c)
	vote := models.Vote{
		PostID:      input.PostID,
		VoteType:    input.VoteType,
		VoteValue:   input.VoteValue,
		VoterIP:     v.IP,
		VoterCookie: v.Cookie,
	}
	ctx := c.Request.Context()
	if err := e.Votes.Submit(ctx, &vote); err != nil {
		switch {
		case errors.Is(err, store.ErrAlreadyVoted):
			c.JSON(http.StatusConflict, gin.H{"error": "You have already voted on this post"})
		case errors.Is(err, store.ErrPostNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		default:
			e.Logger.Error().Err(err).Int("post_id", int(input.PostID)).Msg("Failed to submit vote")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process vote"})
		}
		return
	}

	stats, err := e.Votes.Stats(ctx, input.PostID)
	if err != nil {
		e.Logger.Error().Err(err).Int("post_id", int(input.PostID)).Msg("Failed to load vote stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load vote stats"})
		return
	}

	e.Logger.Info().
		Int("post_id", int(input.PostID)).
		Str("vote_type", string(input.VoteType)).
		Str("vote_value", string(input.VoteValue)).
		Msg("Vote recorded")

	e.broadcastMessage(WsMessage{Type: "vote", Data: gin.H{"post_id": input.PostID, "stats": stats}})
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

func (e *Env) GetVoteStats(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	stats, err := e.Votes.Stats(c.Request.Context(), id)
	if err != nil {
		e.Logger.Error().Err(err).Int("post_id", int(id)).Msg("Failed to load vote stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load vote stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (e *Env) CheckVote(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	v := voter(c)
	ctx := c.Request.Context()

	body := gin.H{}
	for _, t := range models.VoteTypes {
		value, err := e.Votes.VoteValue(ctx, id, t, v)
		if err != nil {
			e.Logger.Error().Err(err).Int("post_id", int(id)).Msg("Failed to check vote")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check vote"})
			return
		}
		body[string(t)+"_voted"] = value != ""
		if value != "" {
			body[string(t)+"_vote_value"] = value
		} else {
			body[string(t)+"_vote_value"] = nil
		}
	}
	c.JSON(http.StatusOK, body)
}

// GetAnalysis returns the picks extracted from a post's evaluator report.
func (e *Env) GetAnalysis(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	pr, err := e.Reports.Get(c.Request.Context(), id)
	if errors.Is(err, store.ErrPostNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		e.Logger.Error().Err(err).Int("post_id", int(id)).Msg("Failed to load post")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load post"})
		return
	}
	c.JSON(http.StatusOK, extract.Analyze(pr.Report()))
}

func (e *Env) AdminGenerate(c *gin.Context) {
	n, err := e.Generator.Generate(c.Request.Context(), time.Now())
	if err != nil {
		e.Logger.Error().Err(err).Msg("Failed to generate page")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate page"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Page generated", "posts": n})
}

func (e *Env) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (e *Env) broadcastMessage(msg WsMessage) {
	if e.Hub == nil {
		return
	}
	jsonMsg, err := json.Marshal(msg)
	if err != nil {
		e.Logger.Error().Err(err).Str("type", msg.Type).Msg("Error marshalling WS message")
		return
	}
	e.Hub.Publish(jsonMsg)
}
