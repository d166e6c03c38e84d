package report

import (
	"slices"
	"strings"
)

const (
	// ItemPlaceholder marks where the item name goes in an entry format.
	ItemPlaceholder = "{item}"
	// PricePlaceholder marks where the price goes in an entry format.
	PricePlaceholder = "{price}"
)

// InferSeparator returns the whitespace-delimited words of itemFmt that sit
// strictly between {item} and {price}, whichever comes first. The result is
// empty when the placeholders are adjacent.
func InferSeparator(itemFmt string) ([]string, error) {
	words := strings.Fields(itemFmt)

	itemAt := slices.Index(words, ItemPlaceholder)
	if itemAt < 0 {
		return nil, &MissingPlaceholderError{Format: itemFmt, Placeholder: ItemPlaceholder}
	}
	priceAt := slices.Index(words, PricePlaceholder)
	if priceAt < 0 {
		return nil, &MissingPlaceholderError{Format: itemFmt, Placeholder: PricePlaceholder}
	}

	lo, hi := min(itemAt, priceAt), max(itemAt, priceAt)
	return slices.Clone(words[lo+1 : hi]), nil
}
