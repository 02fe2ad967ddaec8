package model

import "fmt"

// InsufficientDataError reports that a minimum sample threshold was unmet.
type InsufficientDataError struct {
	ItemID string
	Needed int
	Got    int
}

func (e *InsufficientDataError) Error() string {
	if e.ItemID == "" {
		return fmt.Sprintf("insufficient data: need %d points, have %d", e.Needed, e.Got)
	}
	return fmt.Sprintf("insufficient data for %q: need %d points, have %d", e.ItemID, e.Needed, e.Got)
}

// InvalidInputError reports a caller mistake: unknown item, empty item list,
// non-positive quantity.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}
