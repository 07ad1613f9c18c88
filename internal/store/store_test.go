package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sujalbistaa/pickboard/internal/common"
	"github.com/sujalbistaa/pickboard/internal/config"
	"github.com/sujalbistaa/pickboard/internal/db"
	"github.com/sujalbistaa/pickboard/internal/models"
)

// newTestDB opens a migrated in-memory sqlite database private to t.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := db.Open(config.DatabaseConfig{URL: "sqlite://:memory:"}, common.NewSilentLogger())
	require.NoError(t, err)
	require.NoError(t, db.Migrate(database))
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return database
}

var baseTime = time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)

// seedPost creates a post dated baseTime plus offset hours.
func seedPost(t *testing.T, reports *Reports, offset int, pinned bool, outputs ...models.AIOutput) models.Post {
	t.Helper()
	post := models.Post{
		PostDate: baseTime.Add(time.Duration(offset) * time.Hour),
		Content:  "post content",
		IsPinned: pinned,
		Outputs:  outputs,
	}
	require.NoError(t, reports.CreatePost(context.Background(), &post))
	return post
}

func output(name, content string, at time.Time) models.AIOutput {
	return models.AIOutput{AIType: "analysis", AIName: name, OutputContent: content, CreatedAt: at}
}
