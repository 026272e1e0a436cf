// Package mongo archives the raw payloads received from delivery platforms.
// The relational ledger keeps only the normalized entry; the untouched
// provider document lands here so imports stay auditable and replayable.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dashledger/internal/domain/integration"
)

const (
	// SyncArchiveCollectionName is the name of the archive collection in MongoDB
	SyncArchiveCollectionName = "sync_archive"
)

// ArchivedOrder is the stored shape of one raw platform payload
type ArchivedOrder struct {
	MessageID       uuid.UUID `bson:"message_id"`
	Platform        string    `bson:"platform"`
	PlatformOrderID string    `bson:"platform_order_id"`
	EntryID         int64     `bson:"entry_id"`
	Payload         []byte    `bson:"payload"`
	ArchivedAt      time.Time `bson:"archived_at"`
}

// SyncArchiveRepository stores raw platform payloads in MongoDB
type SyncArchiveRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewSyncArchiveRepository creates a new MongoDB sync archive repository
func NewSyncArchiveRepository(logger *slog.Logger, db *mongo.Database) *SyncArchiveRepository {
	return &SyncArchiveRepository{
		db:     db,
		logger: logger,
	}
}

// Archive stores the raw payload of an imported order. Archiving the same
// (platform, order) pair twice overwrites the previous document; the archive
// mirrors the latest successful import.
func (r *SyncArchiveRepository) Archive(ctx context.Context, doc *ArchivedOrder) error {
	collection := r.db.Collection(SyncArchiveCollectionName)

	filter := bson.M{
		"platform":          doc.Platform,
		"platform_order_id": doc.PlatformOrderID,
	}
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)

	if _, err := collection.UpdateOne(ctx, filter, update, opts); err != nil {
		r.logger.Error("Failed to archive sync payload",
			"platform", doc.Platform,
			"platform_order_id", doc.PlatformOrderID,
			"error", err)
		return fmt.Errorf("failed to archive sync payload: %w", err)
	}

	return nil
}

// GetByOrder retrieves the archived payload for one platform order.
// Returns nil when the order was never archived.
func (r *SyncArchiveRepository) GetByOrder(ctx context.Context, platform integration.SyncPlatform, platformOrderID string) (*ArchivedOrder, error) {
	collection := r.db.Collection(SyncArchiveCollectionName)

	filter := bson.M{
		"platform":          string(platform),
		"platform_order_id": platformOrderID,
	}

	var doc ArchivedOrder
	err := collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		r.logger.Error("Failed to get archived payload",
			"platform", platform,
			"platform_order_id", platformOrderID,
			"error", err)
		return nil, fmt.Errorf("failed to get archived payload: %w", err)
	}

	return &doc, nil
}

// ListByPlatform retrieves archived payloads for a platform, newest first
func (r *SyncArchiveRepository) ListByPlatform(ctx context.Context, platform integration.SyncPlatform, limit int) ([]*ArchivedOrder, error) {
	collection := r.db.Collection(SyncArchiveCollectionName)

	filter := bson.M{"platform": string(platform)}
	opts := options.Find().
		SetSort(bson.M{"archived_at": -1}).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to list archived payloads", "platform", platform, "error", err)
		return nil, fmt.Errorf("failed to list archived payloads: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*ArchivedOrder
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode archived payloads: %w", err)
	}

	return docs, nil
}
