package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Piladin/ZTPAI/internal/core/domain"
	"github.com/Piladin/ZTPAI/internal/core/ports"
)

const collectionAnnouncements = "announcements"

// newestFirst is the listing order shared by List and Search.
var newestFirst = bson.D{{Key: "date_added", Value: -1}, {Key: "_id", Value: -1}}

type AnnouncementRepository struct {
	col *mongo.Collection
	seq *sequence
}

var _ ports.AnnouncementRepository = (*AnnouncementRepository)(nil)

func NewAnnouncementRepository(db *mongo.Database) *AnnouncementRepository {
	return &AnnouncementRepository{
		col: db.Collection(collectionAnnouncements),
		seq: newSequence(db, collectionAnnouncements),
	}
}

// announcementDocument stores the rate in hundredths so range filters compare
// integers.
type announcementDocument struct {
	ID        int64     `bson:"_id"`
	Subject   string    `bson:"subject"`
	Content   string    `bson:"content"`
	RateCents int64     `bson:"hourly_rate_cents"`
	AuthorID  int64     `bson:"author_id"`
	DateAdded time.Time `bson:"date_added"`
}

func (d *announcementDocument) toDomain() *domain.Announcement {
	return &domain.Announcement{
		ID:         d.ID,
		Subject:    d.Subject,
		Content:    d.Content,
		HourlyRate: domain.Rate(d.RateCents),
		AuthorID:   d.AuthorID,
		DateAdded:  d.DateAdded,
	}
}

func (r *AnnouncementRepository) Create(ctx context.Context, a *domain.Announcement) (*domain.Announcement, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.seq.next(ctx)
	if err != nil {
		return nil, err
	}
	doc := announcementDocument{
		ID:        id,
		Subject:   a.Subject,
		Content:   a.Content,
		RateCents: int64(a.HourlyRate),
		AuthorID:  a.AuthorID,
		// Mongo keeps millisecond precision; truncate so the returned value
		// matches what a later read sees.
		DateAdded: a.DateAdded.UTC().Truncate(time.Millisecond),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert announcement: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AnnouncementRepository) FindByID(ctx context.Context, id int64) (*domain.Announcement, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc announcementDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAnnouncementNotFound
		}
		return nil, fmt.Errorf("find announcement: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AnnouncementRepository) List(ctx context.Context, offset, limit int) ([]*domain.Announcement, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count announcements: %w", err)
	}

	opts := options.Find().
		SetSort(newestFirst).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	items, err := r.find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *AnnouncementRepository) Search(ctx context.Context, f ports.AnnouncementFilter) ([]*domain.Announcement, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.find(ctx, searchFilter(f), options.Find().SetSort(newestFirst))
}

// searchFilter translates the filter into a query. The subject is matched as
// a literal, case-insensitive substring.
func searchFilter(f ports.AnnouncementFilter) bson.M {
	filter := bson.M{}
	if f.Subject != "" {
		filter["subject"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Subject), Options: "i"}
	}

	rate := bson.M{}
	if f.MinRate != nil {
		rate["$gte"] = int64(*f.MinRate)
	}
	if f.MaxRate != nil {
		rate["$lte"] = int64(*f.MaxRate)
	}
	if len(rate) > 0 {
		filter["hourly_rate_cents"] = rate
	}
	return filter
}

func (r *AnnouncementRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Announcement, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find announcements: %w", err)
	}
	var docs []announcementDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode announcements: %w", err)
	}

	items := make([]*domain.Announcement, 0, len(docs))
	for i := range docs {
		items = append(items, docs[i].toDomain())
	}
	return items, nil
}

// Update rewrites the mutable fields. Author and creation time never change.
func (r *AnnouncementRepository) Update(ctx context.Context, a *domain.Announcement) (*domain.Announcement, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"subject":           a.Subject,
		"content":           a.Content,
		"hourly_rate_cents": int64(a.HourlyRate),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc announcementDocument
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": a.ID}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAnnouncementNotFound
		}
		return nil, fmt.Errorf("update announcement: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AnnouncementRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAnnouncementNotFound
	}
	return nil
}

func (r *AnnouncementRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: newestFirst},
		{Keys: bson.D{{Key: "author_id", Value: 1}}},
		{Keys: bson.D{{Key: "hourly_rate_cents", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
