package wishlist

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/identity"
	"storefront/internal/models"
)

// Store keeps one wishlist document per (user, product) pair in the backing
// document database.
type Store struct {
	db *mongo.Database
}

func NewStore(db *mongo.Database) *Store {
	return &Store{db: db}
}

func docID(userID, productID string) string {
	return userID + "_" + productID
}

// Add saves the product for the user, overwriting any earlier entry for the
// same pair.
func (s *Store) Add(ctx context.Context, id *identity.Identity, product models.Product) error {
	productID := product.ID.Hex()
	item := models.WishlistItem{
		ID:              docID(id.ID, productID),
		UserID:          id.ID,
		UserEmail:       id.Email,
		ProductID:       productID,
		ProductName:     product.Name,
		ProductPrice:    product.Price,
		ProductImage:    product.DisplayImage(),
		ProductCategory: product.Category,
		AddedAt:         time.Now().UTC(),
	}

	replaceOptions := options.Replace().SetUpsert(true)
	_, err := s.db.Collection("wishlists").ReplaceOne(ctx, bson.M{"_id": item.ID}, item, replaceOptions)
	return err
}

// Remove deletes the user's entry for the product. Removing an absent entry
// is not an error.
func (s *Store) Remove(ctx context.Context, userID, productID string) error {
	_, err := s.db.Collection("wishlists").DeleteOne(ctx, bson.M{"_id": docID(userID, productID)})
	return err
}

// Contains reports whether the user has saved the product.
func (s *Store) Contains(ctx context.Context, userID, productID string) (bool, error) {
	err := s.db.Collection("wishlists").FindOne(ctx, bson.M{"_id": docID(userID, productID)}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// List returns the user's saved products, newest first.
func (s *Store) List(ctx context.Context, userID string) ([]models.WishlistItem, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "addedAt", Value: -1}})

	cursor, err := s.db.Collection("wishlists").Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.WishlistItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}
