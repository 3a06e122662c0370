package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/mitteie/internal/client/auth"
	"github.com/dmitrijs2005/mitteie/internal/client/models"
	"github.com/dmitrijs2005/mitteie/internal/client/repositories/drafts"
)

// ItemMutator is implemented by *items.View and *items.Guard.
type ItemMutator interface {
	Create(ctx context.Context, in models.ItemInput) (models.Item, error)
	Update(ctx context.Context, id string, in models.ItemInput) (models.Item, error)
}

// DraftService submits item forms and keeps the ones that were blocked
// because nobody was signed in.
type DraftService interface {
	// Submit creates (itemID == "") or updates an item. When the mutation
	// is refused for lack of a session the form is kept as a draft and
	// returned together with the error.
	Submit(ctx context.Context, itemID string, in models.ItemInput) (models.Item, *models.Draft, error)
	List(ctx context.Context) ([]models.Draft, error)
	// Resubmit sends a stored draft and deletes it once the server accepted it.
	Resubmit(ctx context.Context, id string) (models.Item, error)
	Discard(ctx context.Context, id string) error
}

type draftService struct {
	items  ItemMutator
	drafts drafts.Repository
}

func NewDraftService(items ItemMutator, repo drafts.Repository) DraftService {
	return &draftService{items: items, drafts: repo}
}

func (s *draftService) send(ctx context.Context, itemID string, in models.ItemInput) (models.Item, error) {
	if itemID == "" {
		return s.items.Create(ctx, in)
	}
	return s.items.Update(ctx, itemID, in)
}

func (s *draftService) Submit(ctx context.Context, itemID string, in models.ItemInput) (models.Item, *models.Draft, error) {
	it, err := s.send(ctx, itemID, in)
	if err == nil {
		return it, nil, nil
	}
	if !errors.Is(err, auth.ErrAuthRequired) {
		return models.Item{}, nil, err
	}

	d := &models.Draft{ItemID: itemID, Input: in, Reason: err.Error()}
	if serr := s.drafts.Save(ctx, d); serr != nil {
		return models.Item{}, nil, errors.Join(err, fmt.Errorf("keep draft: %w", serr))
	}
	return models.Item{}, d, err
}

func (s *draftService) List(ctx context.Context) ([]models.Draft, error) {
	return s.drafts.List(ctx)
}

func (s *draftService) Resubmit(ctx context.Context, id string) (models.Item, error) {
	d, err := s.drafts.Get(ctx, id)
	if err != nil {
		return models.Item{}, err
	}

	it, err := s.send(ctx, d.ItemID, d.Input)
	if err != nil {
		d.Reason = err.Error()
		if serr := s.drafts.Save(ctx, d); serr != nil {
			return models.Item{}, errors.Join(err, fmt.Errorf("keep draft: %w", serr))
		}
		return models.Item{}, err
	}

	if err := s.drafts.Delete(ctx, id); err != nil {
		return it, fmt.Errorf("item saved but draft %s was not removed: %w", id, err)
	}
	return it, nil
}

func (s *draftService) Discard(ctx context.Context, id string) error {
	return s.drafts.Delete(ctx, id)
}
