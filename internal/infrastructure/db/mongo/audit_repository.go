package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/marketdesk/portfolio-api/internal/core/domain"
)

const auditCollection = "auth_events"

// AuditRepository implements ports.AuditLog using MongoDB.
type AuditRepository struct {
	coll *mongo.Collection
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

// Record inserts one audit document.
func (r *AuditRepository) Record(ctx context.Context, event domain.AuditEvent) error {
	if _, err := r.coll.InsertOne(ctx, toDocument(event)); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// EnsureIndexes creates the lookup indexes on the audit collection.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "login", Value: 1}, {Key: "at", Value: -1}}},
		{Keys: bson.D{{Key: "type", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func toDocument(e domain.AuditEvent) bson.M {
	at := e.At
	if at.IsZero() {
		at = time.Now()
	}
	doc := bson.M{
		"type":      string(e.Type),
		"login":     e.Login,
		"partition": string(e.Partition),
		"at":        at.UTC(),
	}
	if e.AccountID != 0 {
		doc["account_id"] = e.AccountID
	}
	if e.ActorID != nil {
		doc["actor_id"] = *e.ActorID
	}
	return doc
}
