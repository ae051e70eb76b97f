package domain

import "time"

// Purpose distinguishes the two per-user recipe collections.
type Purpose string

const (
	PurposeFavorite     Purpose = "favorite"
	PurposeShoppingCart Purpose = "shopping_cart"
)

// Valid reports whether p is a known purpose.
func (p Purpose) Valid() bool {
	return p == PurposeFavorite || p == PurposeShoppingCart
}

// Collection names the user-facing collection, for messages.
func (p Purpose) Collection() string {
	switch p {
	case PurposeFavorite:
		return "favorites"
	case PurposeShoppingCart:
		return "shopping cart"
	default:
		return string(p)
	}
}

// MembershipEntry records that OwnerID put RecipeID into a collection.
// (OwnerID, RecipeID, Purpose) is unique; entries are created or deleted, never updated.
type MembershipEntry struct {
	OwnerID   int64
	RecipeID  int64
	Purpose   Purpose
	CreatedAt time.Time
}

// Subscription records that SubscriberID follows AuthorID. The pair is unique
// and the two ids always differ.
type Subscription struct {
	SubscriberID int64
	AuthorID     int64
	CreatedAt    time.Time
}

// ShoppingListItem is one aggregated line of a shopping list.
type ShoppingListItem struct {
	Name            string
	MeasurementUnit string
	TotalAmount     int64
}
