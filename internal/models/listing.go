package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Listing is a document of the listings collection as the page loader reads it.
type Listing struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Title   string             `json:"title" bson:"title"`
	Address string             `json:"address" bson:"address"`
	Price   Price              `json:"price" bson:"price"`
	Images  ListingImages      `json:"images" bson:"images"`
}

type ListingImages struct {
	PicturesURL string `json:"pictures_url" bson:"pictures_url"`
}

// ListingCard is the display projection embedded in the listing page.
type ListingCard struct {
	Title   string `json:"title"`
	Image   string `json:"image"`
	Address string `json:"address"`
	Price   Price  `json:"price"`
}

// MissingFields names the card fields that came back empty from the store.
func (c ListingCard) MissingFields() []string {
	var missing []string
	if c.Title == "" {
		missing = append(missing, "title")
	}
	if c.Image == "" {
		missing = append(missing, "image")
	}
	if c.Address == "" {
		missing = append(missing, "address")
	}
	if !c.Price.Valid() {
		missing = append(missing, "price")
	}
	return missing
}
