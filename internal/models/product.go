package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product mirrors the catalog documents as they exist in the store. Only the
// fields this service depends on are typed; everything else a document
// carries is kept in Extra so re-encoding a product never drops data.
type Product struct {
	ID       primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	Name     string                 `bson:"name" json:"name"`
	Price    float64                `bson:"price" json:"price"`
	Image    string                 `bson:"image,omitempty" json:"image,omitempty"`
	Images   ImageList              `bson:"images,omitempty" json:"images,omitempty"`
	Category string                 `bson:"category,omitempty" json:"category,omitempty"`
	Sizes    []string               `bson:"sizes,omitempty" json:"sizes,omitempty"`
	Colors   []string               `bson:"colors,omitempty" json:"colors,omitempty"`
	Extra    map[string]interface{} `bson:",inline" json:"-"`
}

// DisplayImage picks the primary image, preferring the images array over the
// legacy single-image field.
func (p Product) DisplayImage() string {
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return p.Image
}
