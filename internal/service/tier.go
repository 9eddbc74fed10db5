package service

// Tier maps a lifetime-spend threshold to a commission-free discount.
type Tier struct {
	MinSpent        int64
	DiscountPercent int
	Name            string
}

// DefaultTiers is ordered ascending by MinSpent. Amounts are cents.
var DefaultTiers = []Tier{
	{MinSpent: 0, DiscountPercent: 0, Name: "Standard"},
	{MinSpent: 10000, DiscountPercent: 5, Name: "Bronze"},
	{MinSpent: 50000, DiscountPercent: 15, Name: "Silver"},
	{MinSpent: 150000, DiscountPercent: 25, Name: "Gold"},
}

// DiscountFor returns the highest tier whose MinSpent <= totalSpent. The lower
// bound is inclusive: exactly reaching a threshold qualifies for that tier.
func DiscountFor(tiers []Tier, totalSpent int64) Tier {
	var current Tier
	for _, t := range tiers {
		if totalSpent >= t.MinSpent {
			current = t
		}
	}
	return current
}
