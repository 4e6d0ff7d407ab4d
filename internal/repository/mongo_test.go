package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"pageQualityGO/internal/models"
)

var fixedNow = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

func newTestRepository(mt *mtest.T) *MongoRepository {
	repo := newMongoRepository(mt.Coll, mt.Coll)
	repo.now = func() time.Time { return fixedNow }
	return repo
}

// toDoc converts a model into the document the server would return
func toDoc(t require.TestingT, v any) bson.D {
	data, err := bson.Marshal(v)
	require.NoError(t, err)

	var doc bson.D
	require.NoError(t, bson.Unmarshal(data, &doc))
	return doc
}

func namespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func sampleAudit(url string, score int) *models.AuditSnapshot {
	return &models.AuditSnapshot{
		ID:       primitive.NewObjectID(),
		URL:      url,
		PageType: models.PageTypeCategory,
		Score:    score,
		Issues: []models.Issue{
			{Severity: models.SeverityWarning, Category: models.CategoryLinks, Message: "Few content links", Priority: models.PriorityMedium},
		},
		Signal:    models.ScrapedPageSignal{URL: url, Title: "Boty", SchemaOrgTypes: []string{"BreadcrumbList"}},
		CreatedAt: fixedNow.Add(-time.Hour),
	}
}

func TestEnsureIndexes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("Success", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(), mtest.CreateSuccessResponse())
		assert.NoError(mt, newTestRepository(mt).ensureIndexes(context.Background()))
	})

	mt.Run("Failure", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad index"}))
		err := newTestRepository(mt).ensureIndexes(context.Background())
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "audit indexes")
	})
}

func TestSaveAudit(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("AssignsIDAndTime", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		audit := &models.AuditSnapshot{URL: "https://shop.example/boty", Score: 80}
		require.NoError(mt, newTestRepository(mt).SaveAudit(context.Background(), audit))

		assert.False(mt, audit.ID.IsZero())
		assert.Equal(mt, fixedNow, audit.CreatedAt)
	})

	mt.Run("KeepsExistingTime", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		created := fixedNow.Add(-48 * time.Hour)
		audit := &models.AuditSnapshot{URL: "https://shop.example/boty", CreatedAt: created}
		require.NoError(mt, newTestRepository(mt).SaveAudit(context.Background(), audit))
		assert.Equal(mt, created, audit.CreatedAt)
	})

	mt.Run("WriteError", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}))

		err := newTestRepository(mt).SaveAudit(context.Background(), &models.AuditSnapshot{URL: "x"})
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "failed to save audit")
	})
}

func TestGetAudit(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("Found", func(mt *mtest.T) {
		want := sampleAudit("https://shop.example/boty", 72)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, toDoc(mt, want)))

		got, err := newTestRepository(mt).GetAudit(context.Background(), want.ID.Hex())
		require.NoError(mt, err)
		require.NotNil(mt, got)

		assert.Equal(mt, want.ID, got.ID)
		assert.Equal(mt, want.URL, got.URL)
		assert.Equal(mt, want.Score, got.Score)
		assert.Equal(mt, want.Issues, got.Issues)
		assert.Equal(mt, want.Signal.SchemaOrgTypes, got.Signal.SchemaOrgTypes)
		assert.True(mt, want.CreatedAt.Equal(got.CreatedAt))
	})

	mt.Run("NotFound", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		got, err := newTestRepository(mt).GetAudit(context.Background(), primitive.NewObjectID().Hex())
		assert.NoError(mt, err)
		assert.Nil(mt, got)
	})

	mt.Run("InvalidID", func(mt *mtest.T) {
		_, err := newTestRepository(mt).GetAudit(context.Background(), "not-an-id")
		assert.ErrorIs(mt, err, ErrInvalidID)
	})
}

func TestFindAudits(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("Recent", func(mt *mtest.T) {
		first := sampleAudit("https://shop.example/a", 90)
		second := sampleAudit("https://shop.example/b", 60)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, toDoc(mt, first), toDoc(mt, second)))

		audits, err := newTestRepository(mt).GetRecentAudits(context.Background(), 10)
		require.NoError(mt, err)
		require.Len(mt, audits, 2)
		assert.Equal(mt, first.URL, audits[0].URL)
		assert.Equal(mt, second.Score, audits[1].Score)
	})

	mt.Run("ByURLEmpty", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		audits, err := newTestRepository(mt).GetAuditsByURL(context.Background(), "https://shop.example/none", 5)
		require.NoError(mt, err)
		assert.NotNil(mt, audits)
		assert.Empty(mt, audits)
	})
}

func TestRankChecks(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	position := 4
	check := &models.RankCheck{
		ID:        primitive.NewObjectID(),
		Keyword:   "pánské boty",
		Domain:    "shop.example",
		Position:  &position,
		Change:    models.RankChange{Direction: models.RankNew, CurrentPosition: &position, Bucket: "top10"},
		CheckedAt: fixedNow,
	}

	mt.Run("Save", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		fresh := &models.RankCheck{Keyword: "boty", Domain: "shop.example"}
		require.NoError(mt, newTestRepository(mt).SaveRankCheck(context.Background(), fresh))
		assert.False(mt, fresh.ID.IsZero())
		assert.Equal(mt, fixedNow, fresh.CheckedAt)
	})

	mt.Run("Latest", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, toDoc(mt, check)))

		got, err := newTestRepository(mt).GetLatestRankCheck(context.Background(), check.Keyword, check.Domain)
		require.NoError(mt, err)
		require.NotNil(mt, got)
		require.NotNil(mt, got.Position)
		assert.Equal(mt, 4, *got.Position)
		assert.Equal(mt, models.RankNew, got.Change.Direction)
	})

	mt.Run("LatestNotFound", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		got, err := newTestRepository(mt).GetLatestRankCheck(context.Background(), "boty", "shop.example")
		assert.NoError(mt, err)
		assert.Nil(mt, got)
	})

	mt.Run("History", func(mt *mtest.T) {
		lost := &models.RankCheck{
			ID:        primitive.NewObjectID(),
			Keyword:   check.Keyword,
			Domain:    check.Domain,
			Change:    models.RankChange{Direction: models.RankLost, Bucket: "not_ranking"},
			CheckedAt: fixedNow.Add(time.Hour),
		}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, toDoc(mt, lost), toDoc(mt, check)))

		history, err := newTestRepository(mt).GetRankHistory(context.Background(), check.Keyword, check.Domain, 20)
		require.NoError(mt, err)
		require.Len(mt, history, 2)
		assert.Nil(mt, history[0].Position)
		assert.Equal(mt, models.RankLost, history[0].Change.Direction)
		assert.Equal(mt, 4, *history[1].Position)
	})
}

func TestGetStats(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	count := func(mt *mtest.T, n int64) bson.D {
		return mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, bson.D{{Key: "n", Value: n}})
	}

	mt.Run("Success", func(mt *mtest.T) {
		mt.AddMockResponses(
			count(mt, 12),
			bson.D{{Key: "ok", Value: 1}, {Key: "values", Value: bson.A{"https://a.example", "https://b.example", "https://c.example"}}},
			count(mt, 4),
			count(mt, 2),
			count(mt, 7),
			count(mt, 11),
			mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, bson.D{{Key: "_id", Value: nil}, {Key: "average", Value: 71.5}}),
		)

		stats, err := newTestRepository(mt).GetStats(context.Background())
		require.NoError(mt, err)

		assert.Equal(mt, 12, stats.TotalAudits)
		assert.Equal(mt, 3, stats.UniqueURLs)
		assert.Equal(mt, 4, stats.RankChecks)
		assert.Equal(mt, 2, stats.AuditsLast24h)
		assert.Equal(mt, 7, stats.AuditsLast7d)
		assert.Equal(mt, 11, stats.AuditsLast30d)
		assert.InDelta(mt, 71.5, stats.AverageScore, 0.001)
		assert.Equal(mt, fixedNow, stats.LastUpdated)
	})

	mt.Run("CountFails", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 13, Message: "unauthorized"}))

		_, err := newTestRepository(mt).GetStats(context.Background())
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "failed to count audits")
	})
}

func TestCloseWithoutClient(t *testing.T) {
	assert.NoError(t, newMongoRepository(nil, nil).Close(context.Background()))
}
