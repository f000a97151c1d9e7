package pricing

import "errors"

var ErrNegativeAdults = errors.New("pricing: adult count cannot be negative")

// Occupancy describes the guest composition a stay is priced for.
type Occupancy struct {
	Adults    int   `json:"adults"`
	ChildAges []int `json:"childAges"`
}

func (o Occupancy) Children() int {
	return len(o.ChildAges)
}

func (o Occupancy) Total() int {
	return o.Adults + len(o.ChildAges)
}

func (o Occupancy) Validate() error {
	if o.Adults < 0 {
		return ErrNegativeAdults
	}
	for _, age := range o.ChildAges {
		if age < 0 {
			return errors.New("pricing: child age cannot be negative")
		}
	}
	return nil
}
