package internal

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultSubscriptions returns the sample collection shown before anything has been saved.
// Each call returns fresh records with new ids.
func DefaultSubscriptions() []Subscription {
	day := func(s string) time.Time {
		t, err := ParseDate(s)
		if err != nil {
			panic(err)
		}
		return t
	}
	end := func(s string) *time.Time {
		t := day(s)
		return &t
	}

	return []Subscription{
		{ID: uuid.NewString(), Name: "Netflix", Category: "Streaming", Cost: decimal.RequireFromString("15.99"), Cycle: Monthly(), StartDate: day("2024-01-15"), Status: StatusActive},
		{ID: uuid.NewString(), Name: "Spotify Family", Category: "Entertainment", Cost: decimal.RequireFromString("15.99"), Cycle: Monthly(), StartDate: day("2023-03-10"), Status: StatusActive},
		{ID: uuid.NewString(), Name: "Notion Plus", Category: "Productivity", Cost: decimal.RequireFromString("10"), Cycle: Monthly(), StartDate: day("2023-07-01"), Status: StatusActive},
		{ID: uuid.NewString(), Name: "Adobe Creative Cloud", Category: "Design", Cost: decimal.RequireFromString("599"), Cycle: Yearly(), StartDate: day("2024-02-01"), Status: StatusActive},
		{ID: uuid.NewString(), Name: "Microsoft 365", Category: "Software", Cost: decimal.RequireFromString("99.99"), Cycle: Yearly(), StartDate: day("2024-01-01"), Status: StatusActive},
		{ID: uuid.NewString(), Name: "Gym Membership", Category: "Wellness", Cost: decimal.RequireFromString("150"), Cycle: Custom(3), StartDate: day("2024-12-01"), EndDate: end("2025-12-01"), Status: StatusActive},
		{ID: uuid.NewString(), Name: "VPN Service", Category: "Utilities", Cost: decimal.RequireFromString("120"), Cycle: Custom(24), StartDate: day("2024-01-01"), Status: StatusActive},
		{ID: uuid.NewString(), Name: "Hulu", Category: "Streaming", Cost: decimal.RequireFromString("12.99"), Cycle: Monthly(), StartDate: day("2023-05-20"), EndDate: end("2024-12-20"), Status: StatusInactive},
	}
}
