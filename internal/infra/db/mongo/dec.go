package mongo

import "github.com/shopspring/decimal"

// Decimals travel as canonical strings in documents. BSON has no native
// arbitrary-precision type the driver maps onto shopspring values, and string
// round-trips are exact.
func decString(d decimal.Decimal) string {
	return d.String()
}

func decParse(s string) decimal.Decimal {
	if s == "" {
		return decimal.Decimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}
	}
	return d
}
