package billing

// ComputeTotal derives a booking total from the nightly rate and the
// hotel-wide discount and VAT percentages. Discount applies to the base
// amount; VAT applies to the discounted amount.
func ComputeTotal(nightlyRate float64, nights int, discountPct, vatPct float64) (float64, error) {
	if discountPct < 0 || discountPct > 100 {
		return 0, ErrInvalidDiscount
	}
	if vatPct < 0 || vatPct > 30 {
		return 0, ErrInvalidVAT
	}

	base := nightlyRate * float64(nights)
	discount := base * discountPct / 100
	vat := (base - discount) * vatPct / 100

	return base - discount + vat, nil
}
