package model

// DiscountPolicy is a closed union of the discount rules a platform can
// advertise. The unexported marker keeps the set of variants fixed so cost
// code can type-switch exhaustively.
type DiscountPolicy interface {
	discountPolicy()
}

// PercentageDiscount reduces the order subtotal by Percent percent.
type PercentageDiscount struct {
	Percent float64 `json:"percent"`
}

// FixedDiscount subtracts a flat amount from the order subtotal.
type FixedDiscount struct {
	Amount float64 `json:"amount"`
}

// ThresholdDiscount is informational only: it records the subtotal at which
// a platform advertises a promotion but never changes the price.
type ThresholdDiscount struct {
	MinSubtotal float64 `json:"min_subtotal"`
}

func (PercentageDiscount) discountPolicy() {}
func (FixedDiscount) discountPolicy()      {}
func (ThresholdDiscount) discountPolicy()  {}
