package internal

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// maxRenewalSteps bounds the renewal search. With a cycle of at least one month this
// covers a century of history, so hitting it means a record slipped past validation.
const maxRenewalSteps = 1200

// ErrRenewalSearchExhausted is returned when the renewal search hits maxRenewalSteps.
var ErrRenewalSearchExhausted = errors.New("renewal search exceeded iteration limit")

var monthsPerYear = decimal.NewFromInt(12)

// RenewalOptions tunes the renewal search
type RenewalOptions struct {
	// IncludeToday treats a renewal landing exactly on the reference date as the
	// next renewal instead of skipping to the following cycle.
	IncludeToday bool
}

// CycleMonths returns the length of a billing cycle in months. Never less than 1.
func CycleMonths(c BillingCycle) int {
	switch c.Kind {
	case CycleMonthly:
		return 1
	case CycleYearly:
		return 12
	default:
		return max(1, c.Months)
	}
}

// MonthlyCost returns the subscription's cost normalized to a per-month rate.
// Defined for inactive subscriptions too; callers filter before aggregating.
func MonthlyCost(sub Subscription) decimal.Decimal {
	return sub.Cost.Div(decimal.NewFromInt(int64(CycleMonths(sub.Cycle))))
}

// YearlyCost returns MonthlyCost * 12
func YearlyCost(sub Subscription) decimal.Decimal {
	return MonthlyCost(sub).Mul(monthsPerYear)
}

// IsEffectivelyActive reports whether the subscription is marked active and has not
// passed its end date. The end date itself still counts as active.
func IsEffectivelyActive(sub Subscription, today time.Time) bool {
	if sub.Status != StatusActive {
		return false
	}
	if sub.EndDate != nil && DateOf(*sub.EndDate).Before(DateOf(today)) {
		return false
	}
	return true
}

// NextRenewalDate returns the first renewal strictly after today.
// The boolean is false when the subscription has no further renewal.
func NextRenewalDate(sub Subscription, today time.Time) (time.Time, bool, error) {
	return NextRenewalDateWith(sub, today, RenewalOptions{})
}

// NextRenewalDateWith is NextRenewalDate with explicit options.
//
// A subscription that has not started yet renews first on its start date. Otherwise the
// start date is advanced one cycle at a time, clamping to month ends, until it passes
// today. A renewal past the end date means there is none.
func NextRenewalDateWith(sub Subscription, today time.Time, opts RenewalOptions) (time.Time, bool, error) {
	today = DateOf(today)
	if !IsEffectivelyActive(sub, today) {
		return time.Time{}, false, nil
	}

	start := DateOf(sub.StartDate)
	if today.Before(start) {
		return start, true, nil
	}

	step := CycleMonths(sub.Cycle)
	cursor := start
	for steps := 0; !renewsAfter(cursor, today, opts); steps++ {
		if steps == maxRenewalSteps {
			return time.Time{}, false, fmt.Errorf("subscription %s (%s): %w", sub.ID, sub.Name, ErrRenewalSearchExhausted)
		}
		cursor = AddMonths(cursor, step)
	}

	if sub.EndDate != nil && cursor.After(DateOf(*sub.EndDate)) {
		return time.Time{}, false, nil
	}
	return cursor, true, nil
}

func renewsAfter(cursor, today time.Time, opts RenewalOptions) bool {
	if opts.IncludeToday {
		return !cursor.Before(today)
	}
	return cursor.After(today)
}

// IsUpcoming reports whether the next renewal falls within windowDays of today (inclusive)
func IsUpcoming(sub Subscription, today time.Time, windowDays int) (bool, error) {
	_, ok, err := upcoming(sub, today, windowDays, RenewalOptions{})
	return ok, err
}

func upcoming(sub Subscription, today time.Time, windowDays int, opts RenewalOptions) (UpcomingRenewal, bool, error) {
	renewal, ok, err := NextRenewalDateWith(sub, today, opts)
	if err != nil || !ok {
		return UpcomingRenewal{}, false, err
	}
	days := DaysUntil(renewal, today)
	if days < 0 || days > windowDays {
		return UpcomingRenewal{}, false, nil
	}
	return UpcomingRenewal{Subscription: sub, RenewalDate: renewal, DaysUntil: days}, true, nil
}
