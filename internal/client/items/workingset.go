package items

import (
	"sync"

	"github.com/dmitrijs2005/mitteie/internal/client/models"
)

// WorkingSet is the item list owned by one view. It only ever changes by
// whole server records: Reset after a fetch, Upsert or Remove after a
// successful mutation.
type WorkingSet struct {
	mu    sync.RWMutex
	items []models.Item
}

func NewWorkingSet() *WorkingSet {
	return &WorkingSet{}
}

// Reset replaces the list with a fresh fetch.
func (w *WorkingSet) Reset(list []models.Item) {
	w.mu.Lock()
	w.items = append([]models.Item(nil), list...)
	w.mu.Unlock()
}

// Upsert replaces the record with the same id or appends it.
func (w *WorkingSet) Upsert(it models.Item) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range w.items {
		if w.items[i].ID == it.ID {
			w.items[i] = it
			return
		}
	}
	w.items = append(w.items, it)
}

// Remove drops the record with id; it reports whether one was present.
func (w *WorkingSet) Remove(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range w.items {
		if w.items[i].ID == id {
			w.items = append(w.items[:i], w.items[i+1:]...)
			return true
		}
	}
	return false
}

func (w *WorkingSet) Get(id string) (models.Item, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, it := range w.items {
		if it.ID == id {
			return it, true
		}
	}
	return models.Item{}, false
}

// Items returns a copy in display order.
func (w *WorkingSet) Items() []models.Item {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]models.Item(nil), w.items...)
}

func (w *WorkingSet) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.items)
}

// TotalValue sums the items that have a value, grouped by currency.
func (w *WorkingSet) TotalValue() map[string]float64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return Totals(w.items)
}

// Totals sums the values of list per currency; items without a value are
// skipped and a blank currency counts as the default one.
func Totals(list []models.Item) map[string]float64 {
	out := map[string]float64{}
	for _, it := range list {
		if it.Value == nil {
			continue
		}
		cur := it.Currency
		if cur == "" {
			cur = models.DefaultCurrency
		}
		out[cur] += *it.Value
	}
	return out
}
