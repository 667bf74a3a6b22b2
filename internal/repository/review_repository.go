package repository

import (
	"context"
	"fmt"
	"time"

	"shopcore/internal/model"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// reviewDoc is the document-store shape of a review. The `_id` key is an
// artifact of the document store and never leaves this package: it is
// normalised into the canonical string ID at this boundary.
type reviewDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ProductID string             `bson:"product_id"`
	Author    string             `bson:"author"`
	Rating    int                `bson:"rating"`
	Comment   string             `bson:"comment"`
	CreatedAt time.Time          `bson:"created_at"`
}

// ReviewRepository serves reviews from MongoDB. It implements
// store.ReviewSource.
type ReviewRepository struct {
	collection *mongo.Collection
	logger     zerolog.Logger
}

// NewReviewRepository creates a new MongoDB-backed review source.
func NewReviewRepository(db *mongo.Database, logger zerolog.Logger) *ReviewRepository {
	return &ReviewRepository{
		collection: db.Collection("reviews"),
		logger:     logger.With().Str("repository", "review").Logger(),
	}
}

// GetReviews returns all reviews for one product, newest first.
func (r *ReviewRepository) GetReviews(ctx context.Context, productID string) ([]model.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"product_id": productID}, opts)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", productID).Msg("failed to query reviews")
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []reviewDoc
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error().Err(err).Str("product_id", productID).Msg("failed to decode reviews")
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}

	reviews := make([]model.Review, 0, len(docs))
	for _, d := range docs {
		reviews = append(reviews, model.Review{
			ID:        d.ID.Hex(),
			ProductID: d.ProductID,
			Author:    d.Author,
			Rating:    d.Rating,
			Comment:   d.Comment,
			CreatedAt: d.CreatedAt,
		})
	}

	r.logger.Debug().Str("product_id", productID).Int("count", len(reviews)).Msg("reviews loaded")
	return reviews, nil
}

// AddReview inserts a review and returns its canonical id.
func (r *ReviewRepository) AddReview(ctx context.Context, review model.Review) (string, error) {
	doc := reviewDoc{
		ProductID: review.ProductID,
		Author:    review.Author,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", review.ProductID).Msg("failed to insert review")
		return "", fmt.Errorf("failed to insert review: %w", err)
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	return oid.Hex(), nil
}
