package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/afriroots/afriroots-api/internal/domain"
)

const (
	accountsCollection = "accounts"
	contentCollection  = "content_items"
)

type accountDocument struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	Phone        *string   `bson:"phone,omitempty"`
	PasswordHash string    `bson:"password_hash"`
	Role         string    `bson:"role"`
	Tribe        *string   `bson:"tribe,omitempty"`
	Language     *string   `bson:"language,omitempty"`
	CreatedAt    time.Time `bson:"created_at"`
}

func toAccountDocument(a *domain.Account) accountDocument {
	return accountDocument{
		ID:           a.ID,
		Email:        a.Email,
		Phone:        a.Phone,
		PasswordHash: a.PasswordHash,
		Role:         string(a.Role),
		Tribe:        a.Tribe,
		Language:     a.Language,
		CreatedAt:    a.CreatedAt,
	}
}

func (d accountDocument) toDomain() *domain.Account {
	return &domain.Account{
		ID:           d.ID,
		Email:        d.Email,
		Phone:        d.Phone,
		PasswordHash: d.PasswordHash,
		Role:         domain.Role(d.Role),
		Tribe:        d.Tribe,
		Language:     d.Language,
		CreatedAt:    d.CreatedAt,
	}
}

type mongoAccountRepository struct {
	collection *mongo.Collection
}

var _ AccountRepository = (*mongoAccountRepository)(nil)

// NewMongoAccountRepository creates the unique email and phone indexes and returns
// a MongoDB-backed account store.
func NewMongoAccountRepository(ctx context.Context, db *mongo.Database) (AccountRepository, error) {
	collection := db.Collection(accountsCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName(accountsEmailConstraint).SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "phone", Value: 1}},
			Options: options.Index().
				SetName(accountsPhoneConstraint).
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"phone": bson.M{"$exists": true}}),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, fmt.Errorf("create account indexes: %w", err)
	}
	return &mongoAccountRepository{collection: collection}, nil
}

func (r *mongoAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	if _, err := r.collection.InsertOne(ctx, toAccountDocument(account)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			if isPhoneIndexViolation(err) {
				return ErrDuplicatePhone
			}
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *mongoAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoAccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoAccountRepository) Ping(ctx context.Context) error {
	return r.collection.Database().Client().Ping(ctx, nil)
}

func (r *mongoAccountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	var doc accountDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return doc.toDomain(), nil
}

func isPhoneIndexViolation(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 && strings.Contains(e.Message, "index: "+accountsPhoneConstraint) {
				return true
			}
		}
	}
	return false
}

type contentDocument struct {
	ID        string    `bson:"_id"`
	Title     string    `bson:"title"`
	Body      string    `bson:"body"`
	Tribe     *string   `bson:"tribe,omitempty"`
	Language  *string   `bson:"language,omitempty"`
	AuthorID  string    `bson:"author_id"`
	CreatedAt time.Time `bson:"created_at"`
}

func (d contentDocument) toDomain() domain.ContentItem {
	return domain.ContentItem{
		ID:        d.ID,
		Title:     d.Title,
		Body:      d.Body,
		Tribe:     d.Tribe,
		Language:  d.Language,
		AuthorID:  d.AuthorID,
		CreatedAt: d.CreatedAt,
	}
}

type mongoContentRepository struct {
	collection *mongo.Collection
}

var _ ContentRepository = (*mongoContentRepository)(nil)

// NewMongoContentRepository returns a MongoDB-backed content store.
func NewMongoContentRepository(ctx context.Context, db *mongo.Database) (ContentRepository, error) {
	collection := db.Collection(contentCollection)
	index := mongo.IndexModel{
		Keys: bson.D{{Key: "tribe", Value: 1}, {Key: "language", Value: 1}, {Key: "created_at", Value: -1}},
	}
	if _, err := collection.Indexes().CreateOne(ctx, index); err != nil {
		return nil, fmt.Errorf("create content index: %w", err)
	}
	return &mongoContentRepository{collection: collection}, nil
}

func (r *mongoContentRepository) Create(ctx context.Context, item *domain.ContentItem) error {
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	doc := contentDocument{
		ID:        item.ID,
		Title:     item.Title,
		Body:      item.Body,
		Tribe:     item.Tribe,
		Language:  item.Language,
		AuthorID:  item.AuthorID,
		CreatedAt: item.CreatedAt,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert content: %w", err)
	}
	return nil
}

func (r *mongoContentRepository) GetByID(ctx context.Context, id string) (*domain.ContentItem, error) {
	var doc contentDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find content: %w", err)
	}
	item := doc.toDomain()
	return &item, nil
}

func (r *mongoContentRepository) List(ctx context.Context, filter ContentFilter) ([]domain.ContentItem, error) {
	filter = filter.Normalize()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(filter.Offset)).
		SetLimit(int64(filter.Limit))

	cursor, err := r.collection.Find(ctx, contentQuery(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []contentDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	result := make([]domain.ContentItem, 0, len(docs))
	for _, doc := range docs {
		result = append(result, doc.toDomain())
	}
	return result, nil
}

func contentQuery(filter ContentFilter) bson.M {
	query := bson.M{}
	if filter.Tribe != nil {
		query["tribe"] = *filter.Tribe
	}
	if filter.Language != nil {
		query["language"] = *filter.Language
	}
	if filter.AuthorID != nil {
		query["author_id"] = *filter.AuthorID
	}
	return query
}
