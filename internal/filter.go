package internal

import (
	"strings"
	"time"
)

// Filter selects subscriptions for display. Empty fields and "all" match everything.
type Filter struct {
	Status   string // all, active, inactive (effective status)
	Category string
	Cycle    string // all, monthly, yearly, custom
	Search   string // case-insensitive substring of name or category
}

// Matches returns true if the subscription passes every criterion of the filter
func (f Filter) Matches(sub Subscription, today time.Time) bool {
	if !matchesAll(f.Status) && string(EffectiveStatus(sub, today)) != strings.ToLower(f.Status) {
		return false
	}

	if !matchesAll(f.Category) && !strings.EqualFold(sub.Category, f.Category) {
		return false
	}
	if !matchesAll(f.Cycle) && string(sub.Cycle.Kind) != strings.ToLower(f.Cycle) {
		return false
	}

	search := strings.ToLower(strings.TrimSpace(f.Search))
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(sub.Name), search) ||
		strings.Contains(strings.ToLower(sub.Category), search)
}

func matchesAll(v string) bool {
	return v == "" || v == "all"
}

// FilterSubscriptions returns the subscriptions matching f, preserving order
func FilterSubscriptions(subs []Subscription, f Filter, today time.Time) []Subscription {
	var result []Subscription
	for _, sub := range subs {
		if f.Matches(sub, today) {
			result = append(result, sub)
		}
	}
	return result
}

// EffectiveStatus returns the date-aware status used for display and filtering
func EffectiveStatus(sub Subscription, today time.Time) SubscriptionStatus {
	if IsEffectivelyActive(sub, today) {
		return StatusActive
	}
	return StatusInactive
}

// Categories returns the distinct categories in use, sorted case-insensitively
func Categories(subs []Subscription) []string {
	seen := make(map[string]bool)
	var categories []string
	for _, sub := range subs {
		if !seen[sub.Category] {
			seen[sub.Category] = true
			categories = append(categories, sub.Category)
		}
	}
	sortFold(categories)
	return categories
}
