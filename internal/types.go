package internal

import (
	"time"

	"github.com/shopspring/decimal"
)

// CycleKind is the recurrence unit of a subscription's cost
type CycleKind string

const (
	CycleMonthly CycleKind = "monthly"
	CycleYearly  CycleKind = "yearly"
	CycleCustom  CycleKind = "custom"
)

// BillingCycle describes how often a subscription bills.
// Months is only meaningful for CycleCustom.
type BillingCycle struct {
	Kind   CycleKind
	Months int
}

func Monthly() BillingCycle { return BillingCycle{Kind: CycleMonthly} }
func Yearly() BillingCycle  { return BillingCycle{Kind: CycleYearly} }

// Custom returns an N-month billing cycle
func Custom(months int) BillingCycle {
	return BillingCycle{Kind: CycleCustom, Months: months}
}

type SubscriptionStatus string

const (
	StatusActive   SubscriptionStatus = "active"
	StatusInactive SubscriptionStatus = "inactive"
)

// Subscription is a recorded recurring expense. Records are replaced, never mutated in place.
type Subscription struct {
	ID        string
	Name      string
	Category  string
	Cost      decimal.Decimal // in the subscription's own billing period
	Cycle     BillingCycle
	StartDate time.Time
	EndDate   *time.Time
	Status    SubscriptionStatus
}

// Summary holds aggregate statistics over a collection of subscriptions
type Summary struct {
	TotalMonthly       decimal.Decimal
	TotalYearly        decimal.Decimal
	ActiveCount        int
	InactiveCount      int
	PerCategoryMonthly map[string]decimal.Decimal
}

// UpcomingRenewal is a subscription whose next renewal falls within the upcoming window
type UpcomingRenewal struct {
	Subscription Subscription
	RenewalDate  time.Time
	DaysUntil    int
}
