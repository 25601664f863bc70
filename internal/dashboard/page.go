// Package dashboard holds the page state behind dealerctl: fetch a collection,
// derive a filtered view, mutate through the API and fetch again.
//
// Pages are owned by one caller at a time and are not safe for concurrent use.
package dashboard

import (
	"context"
	"fmt"
)

// Notifier shows one user-facing message per failed operation.
type Notifier interface {
	Notify(msg string, err error)
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// PageConfig wires a ListPage to its data source.
type PageConfig[T any, F comparable] struct {
	// Name appears in notifications and confirmation prompts, e.g. "order".
	Name   string
	Fetch  func(ctx context.Context) ([]T, error)
	Delete func(ctx context.Context, id uint) error
	Derive func(items []T, f F) []T

	Notifier  Notifier
	Confirmer Confirmer
}

// ListPage is a fetched collection plus the filter currently applied to it.
type ListPage[T any, F comparable] struct {
	cfg PageConfig[T, F]

	items   []T
	version uint64
	filter  F

	memo struct {
		valid   bool
		version uint64
		filter  F
		view    []T
	}
}

func NewListPage[T any, F comparable](cfg PageConfig[T, F]) *ListPage[T, F] {
	if cfg.Derive == nil {
		cfg.Derive = func(items []T, _ F) []T { return items }
	}
	return &ListPage[T, F]{cfg: cfg, items: []T{}}
}

// Load fetches the collection. A failure leaves the previous items in place
// and is reported through the Notifier once.
func (p *ListPage[T, F]) Load(ctx context.Context) error {
	items, err := p.cfg.Fetch(ctx)
	if err != nil {
		p.notify(fmt.Sprintf("Failed to load %ss", p.cfg.Name), err)
		return err
	}
	if items == nil {
		items = []T{}
	}
	p.items = items
	p.version++
	return nil
}

// Items returns the unfiltered collection.
func (p *ListPage[T, F]) Items() []T {
	return p.items
}

func (p *ListPage[T, F]) Filter() F {
	return p.filter
}

func (p *ListPage[T, F]) SetFilter(f F) {
	p.filter = f
}

// View returns the derived view. It is recomputed only when the data was
// reloaded or the filter changed since the last call.
func (p *ListPage[T, F]) View() []T {
	m := &p.memo
	if m.valid && m.version == p.version && m.filter == p.filter {
		return m.view
	}
	m.view = p.cfg.Derive(p.items, p.filter)
	m.version = p.version
	m.filter = p.filter
	m.valid = true
	return m.view
}

// Delete asks for confirmation, deletes id and reloads. It reports whether
// the row was deleted.
func (p *ListPage[T, F]) Delete(ctx context.Context, id uint) (bool, error) {
	if p.cfg.Delete == nil {
		return false, fmt.Errorf("%s page is read-only", p.cfg.Name)
	}
	if p.cfg.Confirmer != nil && !p.cfg.Confirmer.Confirm(fmt.Sprintf("Delete %s %d?", p.cfg.Name, id)) {
		return false, nil
	}
	if err := p.cfg.Delete(ctx, id); err != nil {
		p.notify(fmt.Sprintf("Failed to delete %s", p.cfg.Name), err)
		return false, err
	}
	return true, p.Load(ctx)
}

func (p *ListPage[T, F]) notify(msg string, err error) {
	if p.cfg.Notifier != nil {
		p.cfg.Notifier.Notify(msg, err)
	}
}
