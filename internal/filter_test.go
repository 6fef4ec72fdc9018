package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_Matches(t *testing.T) {
	today := date("2025-01-15")

	netflix := withCategory(newSub("Netflix", "15.99", Monthly(), "2024-01-15"), "Streaming")
	adobe := withCategory(newSub("Adobe Creative Cloud", "599", Yearly(), "2024-02-01"), "Design")
	gym := withCategory(newSub("Gym Membership", "150", Custom(3), "2024-12-01"), "Wellness")
	hulu := withCategory(newSub("Hulu", "12.99", Monthly(), "2023-05-20"), "Streaming")
	hulu.EndDate = datePtr("2024-12-20") // still marked active, but expired

	tests := []struct {
		name   string
		filter Filter
		sub    Subscription
		want   bool
	}{
		{"empty filter", Filter{}, netflix, true},
		{"all everywhere", Filter{Status: "all", Category: "all", Cycle: "all"}, hulu, true},
		{"active matches active", Filter{Status: "active"}, netflix, true},
		{"active excludes expired", Filter{Status: "active"}, hulu, false},
		{"inactive includes expired", Filter{Status: "inactive"}, hulu, true},
		{"category exact", Filter{Category: "Design"}, adobe, true},
		{"category case-insensitive", Filter{Category: "design"}, adobe, true},
		{"category mismatch", Filter{Category: "Design"}, netflix, false},
		{"cycle custom", Filter{Cycle: "custom"}, gym, true},
		{"cycle mismatch", Filter{Cycle: "yearly"}, gym, false},
		{"search name", Filter{Search: "creative"}, adobe, true},
		{"search category", Filter{Search: "WELL"}, gym, true},
		{"search miss", Filter{Search: "spotify"}, netflix, false},
		{"combined", Filter{Status: "active", Category: "Streaming", Search: "net"}, netflix, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(tt.sub, today))
		})
	}
}

func TestFilterSubscriptions_PreservesOrder(t *testing.T) {
	today := date("2025-01-15")
	subs := []Subscription{
		newSub("c", "1", Monthly(), "2024-01-01"),
		newSub("a", "1", Yearly(), "2024-01-01"),
		newSub("b", "1", Monthly(), "2024-01-01"),
	}

	got := FilterSubscriptions(subs, Filter{Cycle: "monthly"}, today)

	assert.Len(t, got, 2)
	assert.Equal(t, "c", got[0].Name)
	assert.Equal(t, "b", got[1].Name)
}

func TestEffectiveStatus(t *testing.T) {
	today := date("2025-01-15")
	sub := newSub("a", "1", Monthly(), "2024-01-01")
	assert.Equal(t, StatusActive, EffectiveStatus(sub, today))

	sub.EndDate = datePtr("2025-01-01")
	assert.Equal(t, StatusInactive, EffectiveStatus(sub, today))
}

func TestCategories(t *testing.T) {
	subs := []Subscription{
		withCategory(newSub("a", "1", Monthly(), "2024-01-01"), "Streaming"),
		withCategory(newSub("b", "1", Monthly(), "2024-01-01"), "design"),
		withCategory(newSub("c", "1", Monthly(), "2024-01-01"), "Streaming"),
		withCategory(newSub("d", "1", Monthly(), "2024-01-01"), "Productivity"),
	}

	assert.Equal(t, []string{"design", "Productivity", "Streaming"}, Categories(subs))
}

func TestCategoryIcon(t *testing.T) {
	assert.Equal(t, "🎬", CategoryIcon("Streaming", nil))
	assert.Equal(t, "🎬", CategoryIcon(" streaming ", nil))
	assert.Equal(t, fallbackIcon, CategoryIcon("Pets", nil))
	assert.Equal(t, fallbackIcon, CategoryIcon(DefaultCategory, nil))
	assert.Equal(t, "🐶", CategoryIcon("pets", map[string]string{"Pets": "🐶"}))
	assert.Equal(t, "📺", CategoryIcon("Streaming", map[string]string{"streaming": "📺"}))
}

func TestCycleLabel(t *testing.T) {
	tests := []struct {
		cycle BillingCycle
		want  string
	}{
		{Monthly(), "Monthly"},
		{Yearly(), "Yearly"},
		{Custom(3), "Every 3 months"},
		{Custom(1), "Every month"},
		{Custom(0), "Every month"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, CycleLabel(tt.cycle))
		})
	}
}
