package transformers

import (
	"entrepotes-listings/internal/models"
)

type ListingTransformer interface {
	ToCard(listing models.Listing) models.ListingCard
	ToCards(listings []models.Listing) []models.ListingCard
}
