package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Piladin/ZTPAI/internal/core/ports"
)

const collectionNotificationLog = "notification_log"

// NotificationLog implements ports.NotificationLog using MongoDB.
type NotificationLog struct {
	col *mongo.Collection
}

func NewNotificationLog(db *mongo.Database) *NotificationLog {
	return &NotificationLog{col: db.Collection(collectionNotificationLog)}
}

// Record appends a delivery attempt to the notification_log audit collection.
func (l *NotificationLog) Record(ctx context.Context, rec ports.DeliveryRecord) error {
	doc := bson.M{
		"address":      rec.Address,
		"subject":      rec.Subject,
		"status":       rec.Status,
		"processed_at": rec.ProcessedAt.UTC(),
	}
	if rec.Error != "" {
		doc["error"] = rec.Error
	}

	_, err := l.col.InsertOne(ctx, doc)
	return err
}
