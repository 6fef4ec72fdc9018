package internal

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultCategory is assigned when a subscription is saved without a category
const DefaultCategory = "Uncategorized"

const fallbackIcon = "📦"

// KnownCategories is the recommended set of categories for grouping.
// Category stays an open tag; anything else falls back to the generic icon.
var KnownCategories = []string{
	"Entertainment",
	"Streaming",
	"Productivity",
	"Software",
	"Design",
	"Utilities",
	"Health",
	"Wellness",
	"Education",
	"Other",
}

var defaultIcons = map[string]string{
	"entertainment": "🎮",
	"streaming":     "🎬",
	"productivity":  "📝",
	"software":      "💻",
	"design":        "🎨",
	"utilities":     "🔧",
	"health":        "💪",
	"wellness":      "🧘",
	"education":     "📚",
	"other":         fallbackIcon,
}

// CategoryIcon returns the icon for a category. overrides (keyed case-insensitively)
// take precedence over the built-in table.
func CategoryIcon(category string, overrides map[string]string) string {
	key := strings.ToLower(strings.TrimSpace(category))
	for name, icon := range overrides {
		if strings.ToLower(name) == key && icon != "" {
			return icon
		}
	}
	if icon, ok := defaultIcons[key]; ok {
		return icon
	}
	return fallbackIcon
}

// CycleLabel returns a human readable billing cycle
func CycleLabel(c BillingCycle) string {
	switch c.Kind {
	case CycleMonthly:
		return "Monthly"
	case CycleYearly:
		return "Yearly"
	default:
		n := CycleMonths(c)
		if n == 1 {
			return "Every month"
		}
		return fmt.Sprintf("Every %d months", n)
	}
}

func sortFold(s []string) {
	sort.Slice(s, func(i, j int) bool {
		return strings.ToLower(s[i]) < strings.ToLower(s[j])
	})
}
