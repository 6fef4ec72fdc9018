package internal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotFound is returned when no subscription has the requested id
var ErrNotFound = errors.New("subscription not found")

// Tracker owns the in-memory subscription collection. Every mutation replaces whole
// records and is followed by a best-effort save.
type Tracker struct {
	store Store
	log   *zap.Logger
	subs  []Subscription
	newID func() string
}

// NewTracker loads the collection from store
func NewTracker(ctx context.Context, store Store, log *zap.Logger) *Tracker {
	return &Tracker{
		store: store,
		log:   log,
		subs:  store.Load(ctx),
		newID: uuid.NewString,
	}
}

// All returns a copy of the collection in display order
func (t *Tracker) All() []Subscription {
	return append([]Subscription(nil), t.subs...)
}

func (t *Tracker) Get(id string) (Subscription, error) {
	i := t.indexOf(id)
	if i < 0 {
		return Subscription{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return t.subs[i], nil
}

// Add validates the input and inserts it with a fresh id at the front of the collection
func (t *Tracker) Add(ctx context.Context, in SubscriptionInput) (Subscription, error) {
	sub, err := in.Build(t.newID())
	if err != nil {
		return Subscription{}, err
	}
	t.subs = append([]Subscription{sub}, t.subs...)
	t.log.Info("added subscription", zap.String("id", sub.ID), zap.String("name", sub.Name))
	t.store.Save(ctx, t.subs)
	return sub, nil
}

// Update replaces the subscription with the given id, keeping the id and position
func (t *Tracker) Update(ctx context.Context, id string, in SubscriptionInput) (Subscription, error) {
	i := t.indexOf(id)
	if i < 0 {
		return Subscription{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	sub, err := in.Build(id)
	if err != nil {
		return Subscription{}, err
	}
	t.subs[i] = sub
	t.log.Info("updated subscription", zap.String("id", id), zap.String("name", sub.Name))
	t.store.Save(ctx, t.subs)
	return sub, nil
}

func (t *Tracker) Remove(ctx context.Context, id string) error {
	i := t.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	removed := t.subs[i]
	t.subs = append(t.subs[:i:i], t.subs[i+1:]...)
	t.log.Info("removed subscription", zap.String("id", id), zap.String("name", removed.Name))
	t.store.Save(ctx, t.subs)
	return nil
}

// Merge folds imported subscriptions into the collection: records with a known id
// replace the existing one in place, the rest are appended in import order.
func (t *Tracker) Merge(ctx context.Context, imported []Subscription) (added, updated int) {
	for _, sub := range imported {
		if i := t.indexOf(sub.ID); i >= 0 {
			t.subs[i] = sub
			updated++
			continue
		}
		t.subs = append(t.subs, sub)
		added++
	}
	t.log.Info("merged subscriptions", zap.Int("added", added), zap.Int("updated", updated))
	t.store.Save(ctx, t.subs)
	return added, updated
}

func (t *Tracker) indexOf(id string) int {
	for i, sub := range t.subs {
		if sub.ID == id {
			return i
		}
	}
	return -1
}

// Resolve finds a subscription by exact id or, failing that, by a unique id prefix
func (t *Tracker) Resolve(ref string) (Subscription, error) {
	if ref == "" {
		return Subscription{}, fmt.Errorf("%w: empty id", ErrNotFound)
	}
	if i := t.indexOf(ref); i >= 0 {
		return t.subs[i], nil
	}

	var matches []Subscription
	for _, sub := range t.subs {
		if strings.HasPrefix(sub.ID, ref) {
			matches = append(matches, sub)
		}
	}
	switch len(matches) {
	case 0:
		return Subscription{}, fmt.Errorf("%w: %s", ErrNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return Subscription{}, fmt.Errorf("id prefix %q is ambiguous (%d matches)", ref, len(matches))
	}
}
