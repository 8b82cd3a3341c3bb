package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Piladin/ZTPAI/internal/core/domain"
	"github.com/Piladin/ZTPAI/internal/core/ports"
)

const collectionUsers = "users"

type UserRepository struct {
	col           *mongo.Collection
	announcements *mongo.Collection
	seq           *sequence
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		col:           db.Collection(collectionUsers),
		announcements: db.Collection(collectionAnnouncements),
		seq:           newSequence(db, collectionUsers),
	}
}

// userDocument is the stored shape of an account. EmailKey is the lowercased
// email and carries the uniqueness constraint.
type userDocument struct {
	ID           int64     `bson:"_id"`
	Username     string    `bson:"username"`
	Email        string    `bson:"email"`
	EmailKey     string    `bson:"email_key"`
	PasswordHash string    `bson:"password_hash"`
	FirstName    string    `bson:"first_name"`
	LastName     string    `bson:"last_name"`
	PhoneNumber  string    `bson:"phone_number,omitempty"`
	Role         string    `bson:"role"`
	DateJoined   time.Time `bson:"date_joined"`
}

func toUserDocument(u *domain.User) userDocument {
	return userDocument{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		EmailKey:     strings.ToLower(u.Email),
		PasswordHash: u.PasswordHash,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PhoneNumber:  u.PhoneNumber,
		Role:         string(u.Role),
		DateJoined:   u.DateJoined.UTC(),
	}
}

func (d *userDocument) toDomain() *domain.User {
	return &domain.User{
		ID:           d.ID,
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		PhoneNumber:  d.PhoneNumber,
		Role:         domain.Role(d.Role),
		DateJoined:   d.DateJoined,
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.seq.next(ctx)
	if err != nil {
		return nil, err
	}
	doc := toUserDocument(user)
	doc.ID = id

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email_key": strings.ToLower(email)})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]*domain.User, error) {
	out := make(map[int64]*domain.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	docs, err := r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
	if err != nil {
		return nil, err
	}
	for _, u := range docs {
		out[u.ID] = u
	}
	return out, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

func (r *UserRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]*domain.User, 0, len(docs))
	for i := range docs {
		users = append(users, docs[i].toDomain())
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toUserDocument(user)
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": user.ID}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrUserNotFound
	}
	return doc.toDomain(), nil
}

// Delete removes the account and then its announcements. The two writes are
// not atomic; a failure in between leaves announcements whose author no
// longer resolves, which readers tolerate.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	if _, err := r.announcements.DeleteMany(ctx, bson.M{"author_id": id}); err != nil {
		return fmt.Errorf("delete announcements of user %d: %w", id, err)
	}
	return nil
}

func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email_key", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
