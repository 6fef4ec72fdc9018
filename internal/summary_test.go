package internal

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withCategory(sub Subscription, category string) Subscription {
	sub.Category = category
	return sub
}

func TestAggregate(t *testing.T) {
	today := date("2025-01-15")

	inactive := newSub("Old", "50", Monthly(), "2024-01-01")
	inactive.Status = StatusInactive

	subs := []Subscription{
		withCategory(newSub("Netflix", "10", Monthly(), "2024-01-01"), "Streaming"),
		withCategory(newSub("Adobe", "120", Yearly(), "2024-01-01"), "Design"),
		inactive,
	}

	summary := Aggregate(subs, today)

	assert.Equal(t, "20.00", summary.TotalMonthly.StringFixed(2))
	assert.Equal(t, "240.00", summary.TotalYearly.StringFixed(2))
	assert.Equal(t, 2, summary.ActiveCount)
	assert.Equal(t, 1, summary.InactiveCount)
	assert.Len(t, summary.PerCategoryMonthly, 2)
	assert.Equal(t, "10.00", summary.PerCategoryMonthly["Design"].StringFixed(2))
}

func TestAggregate_ExpiredCountsAsInactive(t *testing.T) {
	expired := newSub("Hulu", "7.99", Monthly(), "2024-01-01")
	expired.EndDate = datePtr("2025-01-14")

	summary := Aggregate([]Subscription{expired}, date("2025-01-15"))

	assert.Equal(t, 0, summary.ActiveCount)
	assert.Equal(t, 1, summary.InactiveCount)
	assert.True(t, summary.TotalMonthly.IsZero())
}

func TestAggregate_Empty(t *testing.T) {
	summary := Aggregate(nil, date("2025-01-15"))

	assert.True(t, summary.TotalMonthly.IsZero())
	assert.True(t, summary.TotalYearly.IsZero())
	assert.NotNil(t, summary.PerCategoryMonthly)
}

func TestCategoryTotals(t *testing.T) {
	today := date("2025-01-15")
	inactive := withCategory(newSub("Old", "500", Monthly(), "2024-01-01"), "Health")
	inactive.Status = StatusInactive

	subs := []Subscription{
		withCategory(newSub("Netflix", "15", Monthly(), "2024-01-01"), "Streaming"),
		withCategory(newSub("Spotify", "10", Monthly(), "2024-01-01"), "Streaming"),
		withCategory(newSub("Notion", "10", Monthly(), "2024-01-01"), "Productivity"),
		withCategory(newSub("Figma", "120", Yearly(), "2024-01-01"), "design"),
		inactive,
	}

	totals := CategoryTotals(subs, today)
	require.Len(t, totals, 3)

	assert.Equal(t, "Streaming", totals[0].Category)
	assert.Equal(t, 2, totals[0].Count)
	assert.Equal(t, "25.00", totals[0].Monthly.StringFixed(2))
	assert.Equal(t, "300.00", totals[0].Yearly.StringFixed(2))

	// equal monthly cost falls back to case-insensitive name order
	assert.Equal(t, "design", totals[1].Category)
	assert.Equal(t, "Productivity", totals[2].Category)
}

func TestCycleBreakdown(t *testing.T) {
	today := date("2025-01-15")
	subs := []Subscription{
		newSub("a", "10", Monthly(), "2024-01-01"),
		newSub("b", "5.50", Monthly(), "2024-01-01"),
		newSub("c", "120", Yearly(), "2024-01-01"),
		newSub("d", "150", Custom(3), "2024-01-01"),
	}

	got := CycleBreakdown(subs, today)
	require.Len(t, got, 3)

	assert.Equal(t, CycleMonthly, got[0].Kind)
	assert.Equal(t, 2, got[0].Count)
	assert.Equal(t, "15.50", got[0].Total.StringFixed(2))

	assert.Equal(t, CycleYearly, got[1].Kind)
	assert.Equal(t, "120.00", got[1].Total.StringFixed(2))

	// raw cost, not normalized
	assert.Equal(t, CycleCustom, got[2].Kind)
	assert.Equal(t, "150.00", got[2].Total.StringFixed(2))
}

func TestCycleBreakdown_EmptyKindsPresent(t *testing.T) {
	got := CycleBreakdown(nil, date("2025-01-15"))
	require.Len(t, got, 3)
	for _, ct := range got {
		assert.Zero(t, ct.Count)
		assert.True(t, ct.Total.IsZero())
	}
}

func TestTimeline(t *testing.T) {
	today := date("2025-01-15")

	ending := newSub("Ending", "30", Monthly(), "2024-06-01")
	ending.EndDate = datePtr("2025-02-10")

	subs := []Subscription{
		newSub("Always", "10", Monthly(), "2024-01-01"),
		newSub("Later", "120", Yearly(), "2025-03-01"),
		ending,
	}

	timeline := Timeline(subs, today, 4)
	require.Len(t, timeline, 4)

	want := []struct {
		month string
		cost  string
	}{
		{"2025-01-01", "40.00"}, // Always + Ending
		{"2025-02-01", "40.00"}, // Ending still running on the 1st
		{"2025-03-01", "20.00"}, // Always + Later
		{"2025-04-01", "20.00"},
	}
	for i, w := range want {
		assert.Equal(t, w.month, FormatDate(timeline[i].Month))
		assert.Equal(t, w.cost, timeline[i].Cost.StringFixed(2), w.month)
	}
}

func TestUpcomingRenewals(t *testing.T) {
	today := date("2025-01-15")
	subs := []Subscription{
		newSub("Zeta", "10", Monthly(), "2024-12-20"),  // 5 days
		newSub("alpha", "10", Monthly(), "2024-12-20"), // 5 days
		newSub("Beta", "10", Monthly(), "2024-12-16"),  // 1 day
		newSub("Far", "10", Monthly(), "2024-12-05"),   // 21 days
	}

	renewals, err := UpcomingRenewals(subs, today, 14, RenewalOptions{})
	require.NoError(t, err)
	require.Len(t, renewals, 3)

	assert.Equal(t, "Beta", renewals[0].Subscription.Name)
	assert.Equal(t, 1, renewals[0].DaysUntil)
	assert.Equal(t, "alpha", renewals[1].Subscription.Name)
	assert.Equal(t, "Zeta", renewals[2].Subscription.Name)
	assert.Equal(t, "2025-01-20", FormatDate(renewals[2].RenewalDate))
}

func TestUpcomingRenewals_IncludeToday(t *testing.T) {
	today := date("2025-01-15")
	subs := []Subscription{newSub("Due", "10", Monthly(), "2024-12-15")}

	renewals, err := UpcomingRenewals(subs, today, 14, RenewalOptions{})
	require.NoError(t, err)
	assert.Empty(t, renewals)

	renewals, err = UpcomingRenewals(subs, today, 14, RenewalOptions{IncludeToday: true})
	require.NoError(t, err)
	require.Len(t, renewals, 1)
	assert.Equal(t, 0, renewals[0].DaysUntil)
}

func TestUpcomingRenewals_ContinuesPastErrors(t *testing.T) {
	today := date("2025-01-15")
	subs := []Subscription{
		newSub("ancient", "10", Monthly(), "1800-01-01"),
		newSub("ok", "10", Monthly(), "2024-12-20"),
	}

	renewals, err := UpcomingRenewals(subs, today, 14, RenewalOptions{})
	assert.ErrorIs(t, err, ErrRenewalSearchExhausted)
	require.Len(t, renewals, 1)
	assert.Equal(t, "ok", renewals[0].Subscription.Name)
	assert.True(t, decimal.NewFromInt(10).Equal(renewals[0].Subscription.Cost))
}
