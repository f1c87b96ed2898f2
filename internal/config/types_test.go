package config

import "testing"

func boolPtr(b bool) *bool { return &b }

func TestFeatureFlagDefaults(t *testing.T) {
	t.Parallel()
	var f FeaturesConfig

	// Omitted flags: every category on, per-building cooking off.
	for name, got := range map[string]bool{
		"greenhouse":   f.GreenhouseEnabled(),
		"skills":       f.SkillsEnabled(),
		"daily_reset":  f.DailyResetEnabled(),
		"marketplace":  f.MarketplaceEnabled(),
		"auctions":     f.AuctionsEnabled(),
		"pets":         f.PetsEnabled(),
		"floating_isl": f.FloatingIslandEnabled(),
	} {
		if !got {
			t.Fatalf("%s should default to enabled", name)
		}
	}
	if f.CookingByBuildingEnabled() {
		t.Fatal("cooking_by_building should default to off")
	}

	f.CookingByBuilding = boolPtr(true)
	f.Marketplace = boolPtr(false)
	if !f.CookingByBuildingEnabled() {
		t.Fatal("explicit cooking_by_building=true not honored")
	}
	if f.MarketplaceEnabled() {
		t.Fatal("explicit marketplace=false not honored")
	}
}
