package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNoData is returned by a Repository that has never been written to
var ErrNoData = errors.New("no stored subscriptions")

// Repository persists the ordered subscription collection
type Repository interface {
	Read(ctx context.Context) ([]Subscription, error)
	Write(ctx context.Context, subs []Subscription) error
}

// Store is the fail-soft persistence contract used by the Tracker.
// Load never fails and Save never reports an error to the caller.
type Store interface {
	Load(ctx context.Context) []Subscription
	Save(ctx context.Context, subs []Subscription)
}

// SoftStore adapts a Repository to Store: read failures fall back to the default data
// and write failures are dropped. Both are logged.
type SoftStore struct {
	repo     Repository
	log      *zap.Logger
	defaults func() []Subscription
}

func NewSoftStore(repo Repository, log *zap.Logger) *SoftStore {
	return &SoftStore{repo: repo, log: log, defaults: DefaultSubscriptions}
}

func (s *SoftStore) Load(ctx context.Context) []Subscription {
	subs, err := s.repo.Read(ctx)
	if errors.Is(err, ErrNoData) {
		s.log.Info("no stored subscriptions, using defaults")
		return s.defaults()
	}
	if err != nil {
		s.log.Error("loading subscriptions failed, using defaults", zap.Error(err))
		return s.defaults()
	}
	s.log.Debug("loaded subscriptions", zap.Int("count", len(subs)))
	return subs
}

func (s *SoftStore) Save(ctx context.Context, subs []Subscription) {
	if err := s.repo.Write(ctx, subs); err != nil {
		s.log.Error("saving subscriptions failed", zap.Error(err), zap.Int("count", len(subs)))
		return
	}
	s.log.Debug("saved subscriptions", zap.Int("count", len(subs)))
}

// UnavailableRepository stands in for a backend that could not be opened.
// Every call fails with the original error, which SoftStore then logs.
type UnavailableRepository struct {
	Err error
}

func (r UnavailableRepository) Read(context.Context) ([]Subscription, error) {
	return nil, r.Err
}

func (r UnavailableRepository) Write(context.Context, []Subscription) error {
	return r.Err
}

// subscriptionRecord is the flat persisted form of a Subscription, shared by all
// backends and import/export formats.
type subscriptionRecord struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Category     string      `json:"category"`
	Cost         json.Number `json:"cost"`
	BillingCycle string      `json:"billingCycle"`
	CustomMonths int         `json:"customMonths,omitempty"`
	StartDate    string      `json:"startDate"`
	EndDate      string      `json:"endDate,omitempty"`
	Status       string      `json:"status"`
}

func toRecord(sub Subscription) subscriptionRecord {
	in := InputFromSubscription(sub)
	return subscriptionRecord{
		ID:           sub.ID,
		Name:         in.Name,
		Category:     in.Category,
		Cost:         json.Number(in.Cost),
		BillingCycle: in.Cycle,
		CustomMonths: in.Months,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		Status:       in.Status,
	}
}

// subscription runs the record through the edit boundary validation, so stored or
// imported data never reaches the engine unchecked. A missing id gets a fresh one.
func (r subscriptionRecord) subscription() (Subscription, error) {
	id := r.ID
	if id == "" {
		id = uuid.NewString()
	}
	in := SubscriptionInput{
		Name:      r.Name,
		Category:  r.Category,
		Cost:      r.Cost.String(),
		Cycle:     r.BillingCycle,
		Months:    r.CustomMonths,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Status:    r.Status,
	}
	sub, err := in.Build(id)
	if err != nil {
		return Subscription{}, fmt.Errorf("record %q: %w", r.Name, err)
	}
	return sub, nil
}

func fromRecords(records []subscriptionRecord) ([]Subscription, error) {
	subs := make([]Subscription, 0, len(records))
	for _, r := range records {
		sub, err := r.subscription()
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

func toRecords(subs []Subscription) []subscriptionRecord {
	records := make([]subscriptionRecord, 0, len(subs))
	for _, sub := range subs {
		records = append(records, toRecord(sub))
	}
	return records
}
