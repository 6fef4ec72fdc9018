package internal

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OutputOptions controls how subscriptions are displayed
type OutputOptions struct {
	Format     string // table or json
	Today      time.Time
	WindowDays int
	Renewal    RenewalOptions
	Currency   Currency
	Icons      map[string]string
	SortField  string // name, cost, monthly, renewal
	SortDir    string // asc or desc
	Log        *zap.Logger
}

func (o OutputOptions) logger() *zap.Logger {
	if o.Log == nil {
		return zap.NewNop()
	}
	return o.Log
}

// JSONSummary contains aggregate statistics
type JSONSummary struct {
	TotalMonthly       json.Number            `json:"total_monthly"`
	TotalYearly        json.Number            `json:"total_yearly"`
	ActiveCount        int                    `json:"active_count"`
	InactiveCount      int                    `json:"inactive_count"`
	UpcomingCount      int                    `json:"upcoming_count"`
	PerCategoryMonthly map[string]json.Number `json:"per_category_monthly"`
	Currency           string                 `json:"currency"`
}

// JSONSubscription is the JSON output format for a subscription
type JSONSubscription struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Category         string      `json:"category"`
	Cost             json.Number `json:"cost"`
	BillingCycle     string      `json:"billing_cycle"`
	CustomMonths     int         `json:"custom_months,omitempty"`
	StartDate        string      `json:"start_date"`
	EndDate          string      `json:"end_date,omitempty"`
	Status           string      `json:"status"`
	EffectiveStatus  string      `json:"effective_status"`
	MonthlyCost      json.Number `json:"monthly_cost"`
	YearlyCost       json.Number `json:"yearly_cost"`
	NextRenewal      string      `json:"next_renewal,omitempty"`
	DaysUntilRenewal *int        `json:"days_until_renewal,omitempty"`
	Upcoming         bool        `json:"upcoming"`
	RenewalError     string      `json:"renewal_error,omitempty"`
}

// JSONOverview is the root JSON object of the overview view
type JSONOverview struct {
	Summary  JSONSummary        `json:"summary"`
	Upcoming []JSONSubscription `json:"upcoming"`
}

// JSONCategory is one category of the category breakdown
type JSONCategory struct {
	Category string      `json:"category"`
	Count    int         `json:"count"`
	Monthly  json.Number `json:"monthly"`
	Yearly   json.Number `json:"yearly"`
}

// JSONCycle is one billing cycle kind of the cycle breakdown
type JSONCycle struct {
	Cycle string      `json:"cycle"`
	Count int         `json:"count"`
	Total json.Number `json:"total"`
}

// JSONMonth is one month of the cost timeline
type JSONMonth struct {
	Month string      `json:"month"`
	Cost  json.Number `json:"cost"`
}

func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

// row is a subscription with everything derived for display
type row struct {
	sub        Subscription
	active     bool
	monthly    decimal.Decimal
	yearly     decimal.Decimal
	renewal    time.Time
	hasRenewal bool
	days       int
	upcoming   bool
	renewalErr error
}

func buildRows(subs []Subscription, opts OutputOptions) []row {
	rows := make([]row, 0, len(subs))
	for _, sub := range subs {
		r := row{
			sub:     sub,
			active:  IsEffectivelyActive(sub, opts.Today),
			monthly: MonthlyCost(sub),
			yearly:  YearlyCost(sub),
		}
		renewal, ok, err := NextRenewalDateWith(sub, opts.Today, opts.Renewal)
		if err != nil {
			opts.logger().Error("computing next renewal", zap.String("id", sub.ID), zap.Error(err))
			r.renewalErr = err
		} else if ok {
			r.renewal = renewal
			r.hasRenewal = true
			r.days = DaysUntil(renewal, opts.Today)
			r.upcoming = r.days >= 0 && r.days <= opts.WindowDays
		}
		rows = append(rows, r)
	}
	return rows
}

func (r row) json() JSONSubscription {
	in := InputFromSubscription(r.sub)
	effective := StatusInactive
	if r.active {
		effective = StatusActive
	}
	js := JSONSubscription{
		ID:              r.sub.ID,
		Name:            r.sub.Name,
		Category:        r.sub.Category,
		Cost:            json.Number(r.sub.Cost.String()),
		BillingCycle:    in.Cycle,
		CustomMonths:    in.Months,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		Status:          in.Status,
		EffectiveStatus: string(effective),
		MonthlyCost:     money(r.monthly),
		YearlyCost:      money(r.yearly),
		Upcoming:        r.upcoming,
	}
	if r.hasRenewal {
		days := r.days
		js.NextRenewal = FormatDate(r.renewal)
		js.DaysUntilRenewal = &days
	}
	if r.renewalErr != nil {
		js.RenewalError = r.renewalErr.Error()
	}
	return js
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	return t
}

func upcomingRows(subs []Subscription, opts OutputOptions) ([]UpcomingRenewal, []row) {
	renewals, err := UpcomingRenewals(subs, opts.Today, opts.WindowDays, opts.Renewal)
	if err != nil {
		opts.logger().Error("computing upcoming renewals", zap.Error(err))
	}
	upcomingSubs := make([]Subscription, 0, len(renewals))
	for _, r := range renewals {
		upcomingSubs = append(upcomingSubs, r.Subscription)
	}
	return renewals, buildRows(upcomingSubs, opts)
}

// PrintOverview outputs the summary cards and the upcoming renewals
func PrintOverview(w io.Writer, subs []Subscription, opts OutputOptions) error {
	summary := Aggregate(subs, opts.Today)
	renewals, rows := upcomingRows(subs, opts)

	if opts.Format == "json" {
		perCategory := make(map[string]json.Number, len(summary.PerCategoryMonthly))
		for category, amount := range summary.PerCategoryMonthly {
			perCategory[category] = money(amount)
		}
		out := JSONOverview{
			Summary: JSONSummary{
				TotalMonthly:       money(summary.TotalMonthly),
				TotalYearly:        money(summary.TotalYearly),
				ActiveCount:        summary.ActiveCount,
				InactiveCount:      summary.InactiveCount,
				UpcomingCount:      len(renewals),
				PerCategoryMonthly: perCategory,
				Currency:           opts.Currency.Code,
			},
			Upcoming: make([]JSONSubscription, 0, len(rows)),
		}
		for _, r := range rows {
			out.Upcoming = append(out.Upcoming, r.json())
		}
		return writeJSON(w, out)
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Monthly", "Yearly", "Active", "Inactive", fmt.Sprintf("Renewing in %d days", opts.WindowDays)})
	t.AppendRow(table.Row{
		text.Bold.Sprint(opts.Currency.Format(summary.TotalMonthly)),
		text.Bold.Sprint(opts.Currency.Format(summary.TotalYearly)),
		summary.ActiveCount,
		summary.InactiveCount,
		len(renewals),
	})
	t.Render()
	fmt.Fprintln(w)

	return printUpcomingTable(w, rows, opts)
}

// PrintUpcoming outputs subscriptions renewing within the window, soonest first
func PrintUpcoming(w io.Writer, subs []Subscription, opts OutputOptions) error {
	_, rows := upcomingRows(subs, opts)
	if opts.Format == "json" {
		out := make([]JSONSubscription, 0, len(rows))
		for _, r := range rows {
			out = append(out, r.json())
		}
		return writeJSON(w, out)
	}
	return printUpcomingTable(w, rows, opts)
}

func printUpcomingTable(w io.Writer, rows []row, opts OutputOptions) error {
	if len(rows) == 0 {
		fmt.Fprintf(w, "No renewals in the next %d days.\n", opts.WindowDays)
		return nil
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Name", "Category", "Renews", "In", "Monthly"})
	for _, r := range rows {
		t.AppendRow(table.Row{
			r.sub.Name,
			CategoryIcon(r.sub.Category, opts.Icons) + " " + r.sub.Category,
			FormatDate(r.renewal),
			daysLabel(r.days),
			opts.Currency.FormatPerMonth(r.monthly),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight},
	})
	t.Render()
	return nil
}

func daysLabel(days int) string {
	switch days {
	case 0:
		return "Today"
	case 1:
		return "1 day"
	default:
		return fmt.Sprintf("%d days", days)
	}
}

// PrintList outputs every given subscription with its derived costs and next renewal
func PrintList(w io.Writer, subs []Subscription, opts OutputOptions) error {
	rows := buildRows(subs, opts)
	sortRows(rows, opts.SortField, opts.SortDir)

	if opts.Format == "json" {
		out := make([]JSONSubscription, 0, len(rows))
		for _, r := range rows {
			out = append(out, r.json())
		}
		return writeJSON(w, out)
	}

	if len(rows) == 0 {
		fmt.Fprintln(w, "No subscriptions match your filters.")
		return nil
	}

	summary := Aggregate(subs, opts.Today)

	t := newTable(w)
	t.AppendHeader(table.Row{"Name", "Category", "Cost", "Cycle", "Monthly", "Next Renewal", "Status", "ID"})
	for _, r := range rows {
		status := text.FgGreen.Sprint("ACTIVE")
		if !r.active {
			status = text.FgRed.Sprint("INACTIVE")
		}

		renewal := text.FgHiBlack.Sprint("-")
		switch {
		case r.renewalErr != nil:
			renewal = text.FgRed.Sprint("error")
		case r.hasRenewal && r.upcoming:
			renewal = text.FgYellow.Sprintf("%s (%s)", FormatDate(r.renewal), daysLabel(r.days))
		case r.hasRenewal:
			renewal = FormatDate(r.renewal)
		}

		t.AppendRow(table.Row{
			r.sub.Name,
			CategoryIcon(r.sub.Category, opts.Icons) + " " + r.sub.Category,
			opts.Currency.Format(r.sub.Cost),
			CycleLabel(r.sub.Cycle),
			opts.Currency.Format(r.monthly),
			renewal,
			status,
			text.FgHiBlack.Sprint(shortID(r.sub.ID)),
		})
	}
	t.AppendSeparator()
	t.AppendFooter(table.Row{"", "", "", text.Bold.Sprint("Total (active)"),
		text.Bold.Sprint(opts.Currency.Format(summary.TotalMonthly)),
		text.Bold.Sprint(opts.Currency.Format(summary.TotalYearly) + " / yr"), "", ""})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	t.Render()
	return nil
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func sortRows(rows []row, field, dir string) {
	if field == "" {
		return
	}
	less := func(a, b row) bool {
		switch field {
		case "cost":
			return a.sub.Cost.LessThan(b.sub.Cost)
		case "monthly":
			return a.monthly.LessThan(b.monthly)
		case "renewal":
			// subscriptions without a renewal sort last
			if a.hasRenewal != b.hasRenewal {
				return a.hasRenewal
			}
			return a.renewal.Before(b.renewal)
		default: // "name"
			return strings.ToLower(a.sub.Name) < strings.ToLower(b.sub.Name)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if dir == "desc" {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
}

// PrintCategories outputs per-category cost of active subscriptions, most expensive first
func PrintCategories(w io.Writer, subs []Subscription, opts OutputOptions) error {
	totals := CategoryTotals(subs, opts.Today)
	if opts.Format == "json" {
		out := make([]JSONCategory, 0, len(totals))
		for _, ct := range totals {
			out = append(out, JSONCategory{Category: ct.Category, Count: ct.Count, Monthly: money(ct.Monthly), Yearly: money(ct.Yearly)})
		}
		return writeJSON(w, out)
	}

	if len(totals) == 0 {
		fmt.Fprintln(w, "No active subscriptions to analyze.")
		return nil
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Category", "Subscriptions", "Monthly", "Yearly"})
	for _, ct := range totals {
		t.AppendRow(table.Row{
			CategoryIcon(ct.Category, opts.Icons) + " " + ct.Category,
			ct.Count,
			opts.Currency.Format(ct.Monthly),
			opts.Currency.Format(ct.Yearly),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	t.Render()
	return nil
}

// PrintCycles outputs the billing cycle breakdown of active subscriptions
func PrintCycles(w io.Writer, subs []Subscription, opts OutputOptions) error {
	totals := CycleBreakdown(subs, opts.Today)
	if opts.Format == "json" {
		out := make([]JSONCycle, 0, len(totals))
		for _, ct := range totals {
			out = append(out, JSONCycle{Cycle: string(ct.Kind), Count: ct.Count, Total: money(ct.Total)})
		}
		return writeJSON(w, out)
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Cycle", "Subscriptions", "Billed Amount"})
	for _, ct := range totals {
		name := CycleLabel(BillingCycle{Kind: ct.Kind})
		if ct.Kind == CycleCustom {
			name = "Custom Cycle"
		}
		t.AppendRow(table.Row{name, ct.Count, opts.Currency.Format(ct.Total)})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
	})
	t.Render()
	return nil
}

// PrintTimeline outputs the projected monthly spend with a bar per month
func PrintTimeline(w io.Writer, subs []Subscription, months int, opts OutputOptions) error {
	timeline := Timeline(subs, opts.Today, months)
	if opts.Format == "json" {
		out := make([]JSONMonth, 0, len(timeline))
		for _, m := range timeline {
			out = append(out, JSONMonth{Month: m.Month.Format("2006-01"), Cost: money(m.Cost)})
		}
		return writeJSON(w, out)
	}

	maxCost := decimal.NewFromInt(1)
	for _, m := range timeline {
		if m.Cost.GreaterThan(maxCost) {
			maxCost = m.Cost
		}
	}

	const barWidth = 30
	t := newTable(w)
	t.AppendHeader(table.Row{"Month", "Cost", ""})
	for _, m := range timeline {
		width := int(m.Cost.Mul(decimal.NewFromInt(barWidth)).Div(maxCost).IntPart())
		t.AppendRow(table.Row{
			m.Month.Format("Jan 2006"),
			opts.Currency.Format(m.Cost),
			text.FgCyan.Sprint(strings.Repeat("█", width)),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	t.Render()
	return nil
}

// PrintSubscription outputs a single subscription, used after add and update
func PrintSubscription(w io.Writer, sub Subscription, opts OutputOptions) error {
	r := buildRows([]Subscription{sub}, opts)[0]
	if opts.Format == "json" {
		return writeJSON(w, r.json())
	}

	t := newTable(w)
	t.AppendRows([]table.Row{
		{"ID", sub.ID},
		{"Name", sub.Name},
		{"Category", CategoryIcon(sub.Category, opts.Icons) + " " + sub.Category},
		{"Cost", opts.Currency.Format(sub.Cost)},
		{"Cycle", CycleLabel(sub.Cycle)},
		{"Monthly", opts.Currency.Format(r.monthly)},
		{"Yearly", opts.Currency.Format(r.yearly)},
		{"Status", string(EffectiveStatus(r.sub, opts.Today))},
	})
	if r.hasRenewal {
		t.AppendRow(table.Row{"Next Renewal", FormatDate(r.renewal) + " (" + daysLabel(r.days) + ")"})
	}
	t.Render()
	return nil
}
