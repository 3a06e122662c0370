// Package items gates inventory mutations on the auth state and keeps a
// view's working set of items in line with the server.
package items

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/mitteie/internal/client/auth"
	"github.com/dmitrijs2005/mitteie/internal/client/models"
	"github.com/dmitrijs2005/mitteie/internal/logging"
)

var (
	ErrAuthRequired     = auth.ErrAuthRequired
	ErrRequestFailed    = errors.New("inventory request failed")
	ErrValidationFailed = errors.New("item is not valid")
)

// Store is the remote inventory.
type Store interface {
	ListItems(ctx context.Context) ([]models.Item, error)
	GetItem(ctx context.Context, id string) (models.Item, error)
	CreateItem(ctx context.Context, in models.ItemInput) (models.Item, error)
	UpdateItem(ctx context.Context, id string, in models.ItemInput) (models.Item, error)
	DeleteItem(ctx context.Context, id string) error
}

// Guard fronts the Store. Reads pass through; a create, update or delete is
// validated first, then sent only when the visitor is authenticated.
// Unknown counts as not authenticated.
type Guard struct {
	store  Store
	states auth.StateReader
	log    logging.Logger
}

func NewGuard(store Store, states auth.StateReader, log logging.Logger) *Guard {
	if log == nil {
		log = logging.Discard()
	}
	return &Guard{store: store, states: states, log: log}
}

func (g *Guard) List(ctx context.Context) ([]models.Item, error) {
	list, err := g.store.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	return list, nil
}

func (g *Guard) Get(ctx context.Context, id string) (models.Item, error) {
	it, err := g.store.GetItem(ctx, id)
	if err != nil {
		return models.Item{}, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	return it, nil
}

// Create sends in as given and returns the server's record.
func (g *Guard) Create(ctx context.Context, in models.ItemInput) (models.Item, error) {
	if err := validate(in); err != nil {
		return models.Item{}, err
	}
	if err := g.gate(ctx, "create"); err != nil {
		return models.Item{}, err
	}

	it, err := g.store.CreateItem(ctx, in)
	if err != nil {
		return models.Item{}, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	return it, nil
}

func (g *Guard) Update(ctx context.Context, id string, in models.ItemInput) (models.Item, error) {
	if strings.TrimSpace(id) == "" {
		return models.Item{}, fmt.Errorf("%w: item id is required", ErrValidationFailed)
	}
	if err := validate(in); err != nil {
		return models.Item{}, err
	}
	if err := g.gate(ctx, "update"); err != nil {
		return models.Item{}, err
	}

	it, err := g.store.UpdateItem(ctx, id, in)
	if err != nil {
		return models.Item{}, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	return it, nil
}

func (g *Guard) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: item id is required", ErrValidationFailed)
	}
	if err := g.gate(ctx, "delete"); err != nil {
		return err
	}

	if err := g.store.DeleteItem(ctx, id); err != nil {
		return fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	return nil
}

func (g *Guard) gate(ctx context.Context, op string) error {
	st := g.states.State()
	if st.IsAuthenticated() {
		return nil
	}
	g.log.Debug(ctx, "mutation blocked", "op", op, "auth", st.Status().String())
	return ErrAuthRequired
}

func validate(in models.ItemInput) error {
	if err := in.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}
	return nil
}
