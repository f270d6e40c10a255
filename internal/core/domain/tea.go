package domain

import (
	"fmt"
	"strings"
)

// Rating bounds. Zero means the tea or note has not been rated.
const (
	MinRating = 0
	MaxRating = 5
)

// teaImageNames maps tea category ids (1-based) to image names.
var teaImageNames = []string{
	"green",
	"black",
	"herbal",
	"oolong",
	"dark",
	"puer",
	"white",
	"yellow",
}

// Tea is a tea category from the catalog.
type Tea struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	Description string `json:"description"`
	Rating      int    `json:"rating,omitempty"`
}

// TastingNote is a user's note about a specific tea.
// A note with ID 0 has not been saved yet.
type TastingNote struct {
	ID            int    `json:"id,omitempty"`
	Brand         string `json:"brand"`
	Name          string `json:"name"`
	TeaCategoryID int    `json:"teaCategoryId"`
	Rating        int    `json:"rating"`
	Notes         string `json:"notes"`
}

// IsNew reports whether the note still needs an id from the service.
func (n *TastingNote) IsNew() bool {
	return n.ID == 0
}

// Validate checks the fields the data service requires.
func (n *TastingNote) Validate() error {
	var missing []string
	if strings.TrimSpace(n.Brand) == "" {
		missing = append(missing, "brand")
	}
	if strings.TrimSpace(n.Name) == "" {
		missing = append(missing, "name")
	}
	if n.TeaCategoryID <= 0 {
		missing = append(missing, "teaCategoryId")
	}
	if len(missing) > 0 {
		return ErrNoteValidation.WithDetails("missing " + strings.Join(missing, ", "))
	}
	return ValidateRating(n.Rating)
}

// ValidateRating returns ErrRatingOutOfRange unless 0 <= rating <= 5.
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return ErrRatingOutOfRange.WithDetails(fmt.Sprintf("got %d", rating))
	}
	return nil
}

// TeaImage returns the asset path for a tea category id, or "" when the id
// has no image.
func TeaImage(id int) string {
	if id < 1 || id > len(teaImageNames) {
		return ""
	}
	return "assets/img/" + teaImageNames[id-1] + ".jpg"
}

// RatingKey returns the preferences key for a tea's stored rating.
func RatingKey(teaID int) string {
	return fmt.Sprintf("rating%d", teaID)
}
