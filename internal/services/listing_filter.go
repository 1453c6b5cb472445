package services

import (
	"strings"

	"entrepotes-listings/internal/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FilterByAddress keeps the cards whose address contains text, ignoring case.
// An empty text keeps every card. Matching lower-cases both sides without
// language rules, the same as the page's in-browser filter, so ß stays ß.
func FilterByAddress(cards []models.ListingCard, text string) []models.ListingCard {
	if text == "" {
		return cards
	}

	caser := cases.Lower(language.Und)
	needle := caser.String(text)

	filtered := make([]models.ListingCard, 0, len(cards))
	for _, card := range cards {
		if strings.Contains(caser.String(card.Address), needle) {
			filtered = append(filtered, card)
		}
	}
	return filtered
}
