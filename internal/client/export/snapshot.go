// Package export builds a point-in-time snapshot of the user's inventory
// and writes it to a file or an S3-compatible bucket.
package export

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/mitteie/internal/client/auth"
	"github.com/dmitrijs2005/mitteie/internal/client/items"
	"github.com/dmitrijs2005/mitteie/internal/client/models"
)

// ErrSubscriptionRequired blocks exports for accounts without a subscription.
var ErrSubscriptionRequired = errors.New("an active subscription is required to export")

// Snapshot is the exported document.
type Snapshot struct {
	GeneratedAt time.Time          `json:"generated_at" yaml:"generated_at"`
	Owner       models.User        `json:"owner" yaml:"owner"`
	ItemCount   int                `json:"item_count" yaml:"item_count"`
	Totals      map[string]float64 `json:"totals" yaml:"totals"`
	Items       []models.Item      `json:"items" yaml:"items"`
}

// Source is the part of the server a snapshot is read from.
type Source interface {
	Me(ctx context.Context) (models.User, error)
	ListItems(ctx context.Context) ([]models.Item, error)
}

// Loader assembles snapshots.
type Loader struct {
	src    Source
	states auth.StateReader
	now    func() time.Time
}

func NewLoader(src Source, states auth.StateReader) *Loader {
	return &Loader{src: src, states: states, now: time.Now}
}

// Load fetches the user and the items in parallel. The cached auth state
// gates the call; the fresh user record decides the subscription check.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	if _, err := auth.RequireUser(l.states); err != nil {
		return nil, err
	}

	var (
		owner models.User
		list  []models.Item
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := l.src.Me(gctx)
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		owner = u
		return nil
	})
	g.Go(func() error {
		it, err := l.src.ListItems(gctx)
		if err != nil {
			return fmt.Errorf("load items: %w", err)
		}
		list = it
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if !owner.Subscribed() {
		return nil, ErrSubscriptionRequired
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	if list == nil {
		list = []models.Item{}
	}
	return &Snapshot{
		GeneratedAt: l.now().UTC(),
		Owner:       owner,
		ItemCount:   len(list),
		Totals:      items.Totals(list),
		Items:       list,
	}, nil
}
