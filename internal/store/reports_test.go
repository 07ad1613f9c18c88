package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sujalbistaa/pickboard/internal/models"
)

func TestReports_LatestOrdering(t *testing.T) {
	reports := NewReports(newTestDB(t))
	ctx := context.Background()

	older := seedPost(t, reports, 0, false)
	newer := seedPost(t, reports, 5, false)
	pinned := seedPost(t, reports, -10, true)

	got, err := reports.Latest(ctx, 30)
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, pinned.ID, got[0].Post.ID)
	assert.Equal(t, newer.ID, got[1].Post.ID)
	assert.Equal(t, older.ID, got[2].Post.ID)
}

func TestReports_LatestLimit(t *testing.T) {
	reports := NewReports(newTestDB(t))
	for i := 0; i < 5; i++ {
		seedPost(t, reports, i, false)
	}

	got, err := reports.Latest(context.Background(), 2)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.True(t, got[0].Post.PostDate.After(got[1].Post.PostDate))
}

func TestReports_NewestOutputPerAdvisor(t *testing.T) {
	reports := NewReports(newTestDB(t))
	early := baseTime.Add(time.Hour)
	late := baseTime.Add(2 * time.Hour)

	post := seedPost(t, reports, 0, false,
		output(models.AdvisorEvaluator, "old verdict", early),
		output(models.AdvisorEvaluator, "new verdict", late),
		output(models.AdvisorGrok, "grok take", early),
		output(models.AdvisorDeepSeek, "deepseek take", late),
		output("SomeOtherBot", "ignored", late),
	)

	got, err := reports.Get(context.Background(), post.ID)
	require.NoError(t, err)

	require.NotNil(t, got.Evaluator)
	assert.Equal(t, "new verdict", got.Evaluator.OutputContent)
	require.NotNil(t, got.Advisor)
	assert.Equal(t, "grok take", got.Advisor.OutputContent)
	require.NotNil(t, got.DeepSeek)
	assert.Equal(t, "deepseek take", got.DeepSeek.OutputContent)

	require.NotNil(t, got.AnalysisDate())
	assert.True(t, late.Equal(*got.AnalysisDate()))

	r := got.Report()
	assert.Equal(t, int64(post.ID), r.ID)
	assert.Equal(t, "new verdict", r.Text)
}

func TestReports_OpenAIAdvisorCountsAsAdvisor(t *testing.T) {
	reports := NewReports(newTestDB(t))
	post := seedPost(t, reports, 0, false, output(models.AdvisorOpenAI, "openai take", baseTime))

	got, err := reports.Get(context.Background(), post.ID)
	require.NoError(t, err)

	require.NotNil(t, got.Advisor)
	assert.Equal(t, "openai take", got.Advisor.OutputContent)
	assert.Nil(t, got.Evaluator)
	assert.Nil(t, got.AnalysisDate())
	assert.Empty(t, got.Report().Text)
}

func TestReports_GetMissing(t *testing.T) {
	reports := NewReports(newTestDB(t))

	_, err := reports.Get(context.Background(), 999)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestReports_AddOutput(t *testing.T) {
	reports := NewReports(newTestDB(t))
	ctx := context.Background()
	post := seedPost(t, reports, 0, false)

	require.NoError(t, reports.AddOutput(ctx, &models.AIOutput{
		PostID: post.ID, AIType: "evaluation", AIName: models.AdvisorEvaluator, OutputContent: "verdict",
	}))

	got, err := reports.Get(ctx, post.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Evaluator)
	assert.Equal(t, "verdict", got.Evaluator.OutputContent)

	err = reports.AddOutput(ctx, &models.AIOutput{PostID: 999, AIName: models.AdvisorEvaluator, OutputContent: "x"})
	assert.ErrorIs(t, err, ErrPostNotFound)
}
