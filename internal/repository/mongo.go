package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"pageQualityGO/internal/config"
	"pageQualityGO/internal/models"
)

// ErrInvalidID is returned when an id is not a valid object id
var ErrInvalidID = errors.New("invalid id")

// Repository defines operations on audit snapshots and rank checks
type Repository interface {
	SaveAudit(ctx context.Context, audit *models.AuditSnapshot) error
	GetAudit(ctx context.Context, id string) (*models.AuditSnapshot, error)
	GetRecentAudits(ctx context.Context, limit int) ([]*models.AuditSnapshot, error)
	GetAuditsByURL(ctx context.Context, url string, limit int) ([]*models.AuditSnapshot, error)

	SaveRankCheck(ctx context.Context, check *models.RankCheck) error
	GetLatestRankCheck(ctx context.Context, keyword, domain string) (*models.RankCheck, error)
	GetRankHistory(ctx context.Context, keyword, domain string, limit int) ([]*models.RankCheck, error)

	GetStats(ctx context.Context) (*models.Stats, error)
	Close(ctx context.Context) error
}

// MongoRepository implements Repository interface for MongoDB
type MongoRepository struct {
	client *mongo.Client
	audits *mongo.Collection
	ranks  *mongo.Collection
	now    func() time.Time
}

// NewMongoRepository creates a new MongoDB repository
func NewMongoRepository(ctx context.Context, cfg config.MongoDBConfig) (*MongoRepository, error) {
	clientOptions := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.Timeout)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Check the connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(cfg.Database)
	repo := newMongoRepository(db.Collection(cfg.AuditCollection), db.Collection(cfg.RankCollection))
	repo.client = client

	if err := repo.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

func newMongoRepository(audits, ranks *mongo.Collection) *MongoRepository {
	return &MongoRepository{
		audits: audits,
		ranks:  ranks,
		now:    time.Now,
	}
}

func (r *MongoRepository) ensureIndexes(ctx context.Context) error {
	auditIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "url", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetBackground(true),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetBackground(true),
		},
	}
	if _, err := r.audits.Indexes().CreateMany(ctx, auditIndexes); err != nil {
		return fmt.Errorf("failed to create audit indexes: %w", err)
	}

	rankIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "keyword", Value: 1}, {Key: "domain", Value: 1}, {Key: "checked_at", Value: -1}},
			Options: options.Index().SetBackground(true),
		},
	}
	if _, err := r.ranks.Indexes().CreateMany(ctx, rankIndexes); err != nil {
		return fmt.Errorf("failed to create rank check indexes: %w", err)
	}
	return nil
}

// SaveAudit inserts a snapshot. Snapshots are never updated.
func (r *MongoRepository) SaveAudit(ctx context.Context, audit *models.AuditSnapshot) error {
	// Set creation time if not set
	if audit.CreatedAt.IsZero() {
		audit.CreatedAt = r.now()
	}

	result, err := r.audits.InsertOne(ctx, audit)
	if err != nil {
		return fmt.Errorf("failed to save audit: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		audit.ID = oid
	}
	return nil
}

// GetAudit retrieves a snapshot by ID
func (r *MongoRepository) GetAudit(ctx context.Context, id string) (*models.AuditSnapshot, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}

	var audit models.AuditSnapshot
	err = r.audits.FindOne(ctx, bson.M{"_id": objectID}).Decode(&audit)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get audit: %w", err)
	}

	return &audit, nil
}

// GetRecentAudits retrieves the most recent snapshots
func (r *MongoRepository) GetRecentAudits(ctx context.Context, limit int) ([]*models.AuditSnapshot, error) {
	return r.findAudits(ctx, bson.M{}, limit)
}

// GetAuditsByURL retrieves the snapshot history of one URL, newest first
func (r *MongoRepository) GetAuditsByURL(ctx context.Context, url string, limit int) ([]*models.AuditSnapshot, error) {
	return r.findAudits(ctx, bson.M{"url": url}, limit)
}

func (r *MongoRepository) findAudits(ctx context.Context, filter bson.M, limit int) ([]*models.AuditSnapshot, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.audits.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to find audits: %w", err)
	}
	defer cursor.Close(ctx)

	audits := []*models.AuditSnapshot{}
	if err := cursor.All(ctx, &audits); err != nil {
		return nil, fmt.Errorf("failed to decode audits: %w", err)
	}

	return audits, nil
}

// SaveRankCheck inserts a rank check
func (r *MongoRepository) SaveRankCheck(ctx context.Context, check *models.RankCheck) error {
	if check.CheckedAt.IsZero() {
		check.CheckedAt = r.now()
	}

	result, err := r.ranks.InsertOne(ctx, check)
	if err != nil {
		return fmt.Errorf("failed to save rank check: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		check.ID = oid
	}
	return nil
}

// GetLatestRankCheck returns the newest check for a keyword and domain
func (r *MongoRepository) GetLatestRankCheck(ctx context.Context, keyword, domain string) (*models.RankCheck, error) {
	findOptions := options.FindOne().SetSort(bson.D{{Key: "checked_at", Value: -1}})

	var check models.RankCheck
	err := r.ranks.FindOne(ctx, bson.M{"keyword": keyword, "domain": domain}, findOptions).Decode(&check)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get rank check: %w", err)
	}

	return &check, nil
}

// GetRankHistory returns checks for a keyword and domain, newest first
func (r *MongoRepository) GetRankHistory(ctx context.Context, keyword, domain string, limit int) ([]*models.RankCheck, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "checked_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.ranks.Find(ctx, bson.M{"keyword": keyword, "domain": domain}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to find rank checks: %w", err)
	}
	defer cursor.Close(ctx)

	checks := []*models.RankCheck{}
	if err := cursor.All(ctx, &checks); err != nil {
		return nil, fmt.Errorf("failed to decode rank checks: %w", err)
	}

	return checks, nil
}

// GetStats retrieves application statistics
func (r *MongoRepository) GetStats(ctx context.Context) (*models.Stats, error) {
	now := r.now()
	stats := &models.Stats{LastUpdated: now}

	total, err := r.audits.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to count audits: %w", err)
	}
	stats.TotalAudits = int(total)

	urls, err := r.audits.Distinct(ctx, "url", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to count unique URLs: %w", err)
	}
	stats.UniqueURLs = len(urls)

	checks, err := r.ranks.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to count rank checks: %w", err)
	}
	stats.RankChecks = int(checks)

	windows := []struct {
		since time.Duration
		dest  *int
	}{
		{24 * time.Hour, &stats.AuditsLast24h},
		{7 * 24 * time.Hour, &stats.AuditsLast7d},
		{30 * 24 * time.Hour, &stats.AuditsLast30d},
	}
	for _, w := range windows {
		n, err := r.audits.CountDocuments(ctx, bson.M{"created_at": bson.M{"$gte": now.Add(-w.since)}})
		if err != nil {
			return nil, fmt.Errorf("failed to count recent audits: %w", err)
		}
		*w.dest = int(n)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "average", Value: bson.D{{Key: "$avg", Value: "$score"}}},
		}}},
	}
	cursor, err := r.audits.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to average scores: %w", err)
	}
	defer cursor.Close(ctx)

	var averages []struct {
		Average float64 `bson:"average"`
	}
	if err := cursor.All(ctx, &averages); err != nil {
		return nil, fmt.Errorf("failed to decode average score: %w", err)
	}
	if len(averages) > 0 {
		stats.AverageScore = averages[0].Average
	}

	return stats, nil
}

// Close closes the MongoDB connection
func (r *MongoRepository) Close(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	return r.client.Disconnect(ctx)
}
