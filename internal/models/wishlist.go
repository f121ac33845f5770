package models

import "time"

// WishlistItem is one saved product for one user. The document id is the
// "<userId>_<productId>" pair, so saving the same product twice overwrites
// the earlier entry instead of duplicating it.
type WishlistItem struct {
	ID              string    `bson:"_id" json:"id"`
	UserID          string    `bson:"userId" json:"userId"`
	UserEmail       string    `bson:"userEmail" json:"userEmail"`
	ProductID       string    `bson:"productId" json:"productId"`
	ProductName     string    `bson:"productName" json:"productName"`
	ProductPrice    float64   `bson:"productPrice" json:"productPrice"`
	ProductImage    string    `bson:"productImage" json:"productImage"`
	ProductCategory string    `bson:"productCategory" json:"productCategory"`
	AddedAt         time.Time `bson:"addedAt" json:"addedAt"`
}
