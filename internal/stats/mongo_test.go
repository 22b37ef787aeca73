package stats

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// setupTestDB connects to TRACKER_TEST_MONGO_URI and returns a fresh
// database named after the test. The test is skipped when the variable is unset.
func setupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("TRACKER_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TRACKER_TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerSelectionTimeout(10*time.Second))
	require.NoError(t, err)
	require.NoError(t, client.Ping(ctx, nil))

	name := fmt.Sprintf("tracker_test_%s", strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()))
	db := client.Database(name)
	require.NoError(t, db.Drop(ctx))

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}

func TestMongoStore_SaveAndLegends(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	s := NewMongoStore(db)
	require.NoError(t, s.EnsureIndexes(ctx))

	now := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, s.Save(ctx, LegendTotal{PlayerUID: 9, TrackerKey: "wins", Legend: "Wraith", Total: 3, UpdatedAt: now}))
	require.NoError(t, s.Save(ctx, LegendTotal{PlayerUID: 9, TrackerKey: "wins", Legend: "Bangalore", Missing: true, UpdatedAt: now}))
	require.NoError(t, s.Save(ctx, LegendTotal{PlayerUID: 9, TrackerKey: "wins", Legend: "Wraith", Total: 8, UpdatedAt: now}))
	require.NoError(t, s.Save(ctx, LegendTotal{PlayerUID: 10, TrackerKey: "wins", Legend: "Octane", Total: 1, UpdatedAt: now}))

	got, err := s.Legends(ctx, 9, "wins")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Bangalore", got[0].Legend)
	assert.True(t, got[0].Missing)
	assert.Equal(t, "Wraith", got[1].Legend)
	assert.Equal(t, int64(8), got[1].Total)
	assert.True(t, now.Equal(got[1].UpdatedAt))
}

func TestMongoStore_SaveRejectsInvalid(t *testing.T) {
	db := setupTestDB(t)
	s := NewMongoStore(db)
	err := s.Save(context.Background(), LegendTotal{PlayerUID: 1, TrackerKey: "wins"})
	assert.ErrorIs(t, err, ErrInvalidRecord)
}
