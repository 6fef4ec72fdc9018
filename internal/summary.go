package internal

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CategoryTotal is the cost of all active subscriptions in one category
type CategoryTotal struct {
	Category string
	Count    int
	Monthly  decimal.Decimal
	Yearly   decimal.Decimal
}

// CycleTotal sums the undivided cost of active subscriptions sharing a billing cycle kind
type CycleTotal struct {
	Kind  CycleKind
	Count int
	Total decimal.Decimal
}

// MonthCost is the projected monthly-equivalent spend for one calendar month
type MonthCost struct {
	Month time.Time
	Cost  decimal.Decimal
}

// Aggregate computes totals over the effectively active subscriptions.
// InactiveCount includes both explicitly inactive and expired subscriptions.
func Aggregate(subs []Subscription, today time.Time) Summary {
	summary := Summary{
		TotalMonthly:       decimal.Zero,
		TotalYearly:        decimal.Zero,
		PerCategoryMonthly: make(map[string]decimal.Decimal),
	}

	for _, sub := range subs {
		if !IsEffectivelyActive(sub, today) {
			summary.InactiveCount++
			continue
		}
		monthly := MonthlyCost(sub)
		summary.ActiveCount++
		summary.TotalMonthly = summary.TotalMonthly.Add(monthly)
		summary.TotalYearly = summary.TotalYearly.Add(YearlyCost(sub))
		summary.PerCategoryMonthly[sub.Category] = summary.PerCategoryMonthly[sub.Category].Add(monthly)
	}

	return summary
}

// CategoryTotals groups active subscriptions by category, most expensive first
func CategoryTotals(subs []Subscription, today time.Time) []CategoryTotal {
	byCategory := make(map[string]*CategoryTotal)
	for _, sub := range subs {
		if !IsEffectivelyActive(sub, today) {
			continue
		}
		ct := byCategory[sub.Category]
		if ct == nil {
			ct = &CategoryTotal{Category: sub.Category}
			byCategory[sub.Category] = ct
		}
		ct.Count++
		ct.Monthly = ct.Monthly.Add(MonthlyCost(sub))
		ct.Yearly = ct.Yearly.Add(YearlyCost(sub))
	}

	totals := make([]CategoryTotal, 0, len(byCategory))
	for _, ct := range byCategory {
		totals = append(totals, *ct)
	}
	sort.Slice(totals, func(i, j int) bool {
		if c := totals[i].Monthly.Cmp(totals[j].Monthly); c != 0 {
			return c > 0
		}
		return strings.ToLower(totals[i].Category) < strings.ToLower(totals[j].Category)
	})
	return totals
}

// CycleBreakdown returns one entry per cycle kind (monthly, yearly, custom), always in that order
func CycleBreakdown(subs []Subscription, today time.Time) []CycleTotal {
	totals := []CycleTotal{
		{Kind: CycleMonthly, Total: decimal.Zero},
		{Kind: CycleYearly, Total: decimal.Zero},
		{Kind: CycleCustom, Total: decimal.Zero},
	}
	for _, sub := range subs {
		if !IsEffectivelyActive(sub, today) {
			continue
		}
		for i := range totals {
			if totals[i].Kind == sub.Cycle.Kind {
				totals[i].Count++
				totals[i].Total = totals[i].Total.Add(sub.Cost)
			}
		}
	}
	return totals
}

// Timeline projects monthly-equivalent spend for the given number of months starting with
// today's month. A subscription counts toward a month when it is marked active, started on
// or before the first of that month and has not ended before it.
func Timeline(subs []Subscription, today time.Time, months int) []MonthCost {
	first := MonthStart(today)
	timeline := make([]MonthCost, 0, months)
	for i := 0; i < months; i++ {
		month := AddMonths(first, i)
		cost := decimal.Zero
		for _, sub := range subs {
			if sub.Status != StatusActive {
				continue
			}
			if DateOf(sub.StartDate).After(month) {
				continue
			}
			if sub.EndDate != nil && DateOf(*sub.EndDate).Before(month) {
				continue
			}
			cost = cost.Add(MonthlyCost(sub))
		}
		timeline = append(timeline, MonthCost{Month: month, Cost: cost})
	}
	return timeline
}

// UpcomingRenewals returns subscriptions renewing within windowDays, soonest first.
// A subscription whose renewal search fails is left out and its error is joined into
// the returned error; the remaining renewals are still returned.
func UpcomingRenewals(subs []Subscription, today time.Time, windowDays int, opts RenewalOptions) ([]UpcomingRenewal, error) {
	var renewals []UpcomingRenewal
	var errs []error
	for _, sub := range subs {
		r, ok, err := upcoming(sub, today, windowDays, opts)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			renewals = append(renewals, r)
		}
	}

	sort.SliceStable(renewals, func(i, j int) bool {
		if renewals[i].DaysUntil != renewals[j].DaysUntil {
			return renewals[i].DaysUntil < renewals[j].DaysUntil
		}
		return strings.ToLower(renewals[i].Subscription.Name) < strings.ToLower(renewals[j].Subscription.Name)
	})
	return renewals, errors.Join(errs...)
}
