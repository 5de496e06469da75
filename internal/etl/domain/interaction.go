package domain

import (
	"fmt"
	"strings"
)

// InteractionType is the relationship type written for a behavioral event.
// Only the values below ever reach a query string; anything else from the
// source is rejected so event text can never smuggle in a relationship label.
type InteractionType string

const (
	InteractionView      InteractionType = "VIEW"
	InteractionClick     InteractionType = "CLICK"
	InteractionAddToCart InteractionType = "ADD_TO_CART"
)

// AllInteractionTypes lists every allowed interaction relationship type.
var AllInteractionTypes = []InteractionType{
	InteractionView,
	InteractionClick,
	InteractionAddToCart,
}

// ParseInteractionType maps a raw source event type onto the allow-list.
func ParseInteractionType(raw string) (InteractionType, error) {
	switch InteractionType(strings.ToUpper(strings.TrimSpace(raw))) {
	case InteractionView:
		return InteractionView, nil
	case InteractionClick:
		return InteractionClick, nil
	case InteractionAddToCart:
		return InteractionAddToCart, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEventType, raw)
	}
}
