package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/linkplace/placeflow/internal/service"
)

func TestDiscountFor(t *testing.T) {
	testCases := []struct {
		name       string
		totalSpent int64
		wantTier   string
		wantPct    int
	}{
		{name: "new account", totalSpent: 0, wantTier: "Standard", wantPct: 0},
		{name: "just below bronze", totalSpent: 9999, wantTier: "Standard", wantPct: 0},
		{name: "exactly bronze", totalSpent: 10000, wantTier: "Bronze", wantPct: 5},
		{name: "between bronze and silver", totalSpent: 39999, wantTier: "Bronze", wantPct: 5},
		{name: "exactly silver", totalSpent: 50000, wantTier: "Silver", wantPct: 15},
		{name: "exactly gold", totalSpent: 150000, wantTier: "Gold", wantPct: 25},
		{name: "far past gold", totalSpent: 10000000, wantTier: "Gold", wantPct: 25},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tier := service.DiscountFor(service.DefaultTiers, tc.totalSpent)
			assert.Equal(t, tc.wantTier, tier.Name)
			assert.Equal(t, tc.wantPct, tier.DiscountPercent)
		})
	}
}
