package scenario

import "go.uber.org/multierr"

// Product is what a listing tile or a basket line shows for one item
type Product struct {
	Name  string
	Price string
}

// Validate rejects a snapshot with a blank field. source names the view the
// snapshot was read from.
func (p Product) Validate(source string) error {
	var err error
	if p.Name == "" {
		err = multierr.Append(err, &AssertionError{Check: source + " name is captured", Expected: "non-empty", Actual: ""})
	}
	if p.Price == "" {
		err = multierr.Append(err, &AssertionError{Check: source + " price is captured", Expected: "non-empty", Actual: ""})
	}
	return err
}

// CompareProducts checks name and price independently and reports every
// mismatch, not just the first one.
func CompareProducts(expected, actual Product) error {
	return multierr.Combine(
		assertEqual("basket item name", expected.Name, actual.Name),
		assertEqual("basket item price", expected.Price, actual.Price),
	)
}
