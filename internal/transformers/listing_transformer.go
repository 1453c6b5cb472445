package transformers

import (
	"entrepotes-listings/internal/models"
)

type listingTransformer struct{}

func NewListingTransformer() ListingTransformer {
	return &listingTransformer{}
}

// ToCard keeps exactly title, image, address and price; everything else is dropped.
func (t *listingTransformer) ToCard(listing models.Listing) models.ListingCard {
	return models.ListingCard{
		Title:   listing.Title,
		Image:   listing.Images.PicturesURL,
		Address: listing.Address,
		Price:   listing.Price,
	}
}

func (t *listingTransformer) ToCards(listings []models.Listing) []models.ListingCard {
	cards := make([]models.ListingCard, 0, len(listings))
	for _, l := range listings {
		cards = append(cards, t.ToCard(l))
	}
	return cards
}
