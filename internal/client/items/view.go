package items

import (
	"context"

	"github.com/dmitrijs2005/mitteie/internal/client/models"
)

// View binds a Guard to the working set of one screen. Mutations reach the
// set only after the server accepted them.
type View struct {
	guard *Guard
	set   *WorkingSet
}

func NewView(g *Guard) *View {
	return &View{guard: g, set: NewWorkingSet()}
}

func (v *View) Set() *WorkingSet { return v.set }

// Load fetches the list; on failure the current set is kept.
func (v *View) Load(ctx context.Context) ([]models.Item, error) {
	list, err := v.guard.List(ctx)
	if err != nil {
		return nil, err
	}
	v.set.Reset(list)
	return v.set.Items(), nil
}

func (v *View) Create(ctx context.Context, in models.ItemInput) (models.Item, error) {
	it, err := v.guard.Create(ctx, in)
	if err != nil {
		return models.Item{}, err
	}
	v.set.Upsert(it)
	return it, nil
}

func (v *View) Update(ctx context.Context, id string, in models.ItemInput) (models.Item, error) {
	it, err := v.guard.Update(ctx, id, in)
	if err != nil {
		return models.Item{}, err
	}
	v.set.Upsert(it)
	return it, nil
}

func (v *View) Delete(ctx context.Context, id string) error {
	if err := v.guard.Delete(ctx, id); err != nil {
		return err
	}
	v.set.Remove(id)
	return nil
}
