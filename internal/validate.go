package internal

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// SubscriptionInput is a subscription as entered by the user, before validation.
// Cost and dates are kept as text so that malformed values can be reported per field.
type SubscriptionInput struct {
	Name      string `json:"name" validate:"required,max=200"`
	Category  string `json:"category" validate:"max=100"`
	Cost      string `json:"cost" validate:"required,positive_decimal"`
	Cycle     string `json:"billingCycle" validate:"oneof=monthly yearly custom"`
	Months    int    `json:"customMonths" validate:"max=1200"`
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	Status    string `json:"status" validate:"oneof=active inactive"`
}

// ValidationErrors maps a field name to what is wrong with it
type ValidationErrors map[string]string

func (e ValidationErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s %s", f, e[f]))
	}
	return "invalid subscription: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// registration only fails on an empty tag or nil func
	_ = v.RegisterValidation("positive_decimal", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
		return err == nil && d.IsPositive()
	})
	return v
}

// normalized trims whitespace and fills in form defaults
func (in SubscriptionInput) normalized() SubscriptionInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	if in.Category == "" {
		in.Category = DefaultCategory
	}
	in.Cost = strings.TrimSpace(in.Cost)
	in.Cycle = strings.ToLower(strings.TrimSpace(in.Cycle))
	if in.Cycle == "" {
		in.Cycle = string(CycleMonthly)
	}
	in.StartDate = strings.TrimSpace(in.StartDate)
	in.EndDate = strings.TrimSpace(in.EndDate)
	in.Status = strings.ToLower(strings.TrimSpace(in.Status))
	if in.Status == "" {
		in.Status = string(StatusActive)
	}
	return in
}

// Validate checks every field and returns ValidationErrors listing all problems found
func (in SubscriptionInput) Validate() error {
	in = in.normalized()
	errs := ValidationErrors{}

	if err := validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validating subscription: %w", err)
		}
		for _, fe := range fieldErrs {
			errs[fe.Field()] = validationMessage(fe)
		}
	}

	if in.Cycle == string(CycleCustom) && in.Months < 1 {
		errs["customMonths"] = "must be at least 1 for a custom cycle"
	}

	if start, err := ParseDate(in.StartDate); err == nil && errs["customMonths"] == "" && errs["billingCycle"] == "" {
		cycle := BillingCycle{Kind: CycleKind(in.Cycle), Months: in.Months}
		if !renewableFrom(start, cycle, DateOf(time.Now())) {
			errs["startDate"] = fmt.Sprintf("must be less than %d billing cycles ago", maxRenewalSteps)
		}
	}

	if in.EndDate != "" {
		start, startErr := ParseDate(in.StartDate)
		end, endErr := ParseDate(in.EndDate)
		if startErr == nil && endErr == nil && end.Before(start) {
			errs["endDate"] = "must not be before the start date"
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "positive_decimal":
		return "must be a positive amount"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "datetime":
		return "must be a date (YYYY-MM-DD)"
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

// renewableFrom reports whether the renewal search started at start reaches a date
// after today within maxRenewalSteps cycles
func renewableFrom(start time.Time, cycle BillingCycle, today time.Time) bool {
	monthsBack := (today.Year()-start.Year())*12 + int(today.Month()) - int(start.Month())
	return monthsBack < maxRenewalSteps*CycleMonths(cycle)
}

// Build validates the input and converts it into a Subscription with the given id
func (in SubscriptionInput) Build(id string) (Subscription, error) {
	if err := in.Validate(); err != nil {
		return Subscription{}, err
	}
	in = in.normalized()

	// already validated, so parsing cannot fail
	cost, _ := decimal.NewFromString(in.Cost)
	start, _ := ParseDate(in.StartDate)

	sub := Subscription{
		ID:        id,
		Name:      in.Name,
		Category:  in.Category,
		Cost:      cost,
		Cycle:     BillingCycle{Kind: CycleKind(in.Cycle)},
		StartDate: start,
		Status:    SubscriptionStatus(in.Status),
	}
	if sub.Cycle.Kind == CycleCustom {
		sub.Cycle.Months = in.Months
	}
	if in.EndDate != "" {
		end, _ := ParseDate(in.EndDate)
		sub.EndDate = &end
	}
	return sub, nil
}

// InputFromSubscription converts a stored subscription back into editable form
func InputFromSubscription(sub Subscription) SubscriptionInput {
	in := SubscriptionInput{
		Name:      sub.Name,
		Category:  sub.Category,
		Cost:      sub.Cost.String(),
		Cycle:     string(sub.Cycle.Kind),
		StartDate: FormatDate(sub.StartDate),
		Status:    string(sub.Status),
	}
	if sub.Cycle.Kind == CycleCustom {
		in.Months = sub.Cycle.Months
	}
	if sub.EndDate != nil {
		in.EndDate = FormatDate(*sub.EndDate)
	}
	return in
}
