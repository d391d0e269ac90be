package services

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/recetario/internal/client/models"
	"github.com/dmitrijs2005/recetario/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/recetario/internal/common"
	"github.com/dmitrijs2005/recetario/internal/logging"
)

// ResultKind tags the outcome of a cache mutation.
type ResultKind int

const (
	ResultOK ResultKind = iota
	ResultDuplicate
	ResultCapacity
	ResultNotFound
)

func (k ResultKind) String() string {
	switch k {
	case ResultOK:
		return "ok"
	case ResultDuplicate:
		return "duplicate"
	case ResultCapacity:
		return "capacity"
	case ResultNotFound:
		return "not found"
	}
	return fmt.Sprintf("ResultKind(%d)", int(k))
}

// Result is what Save and Remove hand back for expected outcomes. Callers
// branch on Kind to pick what to show; Message is ready for display.
type Result struct {
	Kind    ResultKind
	Message string
	Recipe  models.ModifiedRecipe
}

func (r Result) OK() bool { return r.Kind == ResultOK }

// Err maps a failed result to the matching sentinel error.
func (r Result) Err() error {
	switch r.Kind {
	case ResultDuplicate:
		return common.ErrDuplicate
	case ResultCapacity:
		return common.ErrCapacity
	case ResultNotFound:
		return common.ErrNotFound
	}
	return nil
}

// ModifiedRecipes is the bounded, deduplicated list of locally scaled
// recipes. Every successful mutation rewrites the stored list; if that write
// fails the in-memory change is rolled back and the error is returned.
type ModifiedRecipes struct {
	repo     metadata.Repository
	log      logging.Logger
	capacity int
	now      func() time.Time

	mu    sync.Mutex
	items []models.ModifiedRecipe
}

func NewModifiedRecipes(repo metadata.Repository, log logging.Logger) *ModifiedRecipes {
	if log == nil {
		log = logging.Nop()
	}
	return &ModifiedRecipes{
		repo:     repo,
		log:      log,
		capacity: common.MaxModifiedRecipes,
		now:      time.Now,
	}
}

// Load replaces the in-memory list with the stored one. Later duplicates of
// a variant or id are dropped before the list is cut to capacity.
func (m *ModifiedRecipes) Load(ctx context.Context) error {
	raw, err := m.repo.Get(ctx, common.KeyModifiedRecipes)
	if err != nil {
		return fmt.Errorf("read modified recipes: %w", err)
	}

	var items []models.ModifiedRecipe
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &items); err != nil {
			m.log.Warn(ctx, "stored modified recipes unreadable, starting empty", "error", err)
			items = nil
		}
	}
	kept := items[:0]
	for _, it := range items {
		dup := slices.ContainsFunc(kept, func(k models.ModifiedRecipe) bool {
			return k.SameVariant(it) || k.ModifiedID == it.ModifiedID
		})
		if !dup {
			kept = append(kept, it)
		}
	}
	if dropped := len(items) - len(kept); dropped > 0 {
		m.log.Warn(ctx, "dropped duplicate modified recipes", "count", dropped)
	}
	if len(kept) > m.capacity {
		kept = kept[:m.capacity]
	}

	m.mu.Lock()
	m.items = kept
	m.mu.Unlock()
	return nil
}

// List returns a copy of the entries in insertion order.
func (m *ModifiedRecipes) List() []models.ModifiedRecipe {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.items)
}

// Get returns the entry with modifiedID.
func (m *ModifiedRecipes) Get(modifiedID string) (models.ModifiedRecipe, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.indexOf(modifiedID); i >= 0 {
		return m.items[i], true
	}
	return models.ModifiedRecipe{}, false
}

func (m *ModifiedRecipes) indexOf(modifiedID string) int {
	return slices.IndexFunc(m.items, func(r models.ModifiedRecipe) bool {
		return r.ModifiedID == modifiedID
	})
}

func (m *ModifiedRecipes) persist(ctx context.Context, items []models.ModifiedRecipe) error {
	if items == nil {
		items = []models.ModifiedRecipe{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	if err := m.repo.Set(ctx, common.KeyModifiedRecipes, raw); err != nil {
		return fmt.Errorf("write modified recipes: %w", err)
	}
	return nil
}

// Save appends recipe with a fresh ModifiedID. A variant already present
// for the same recipe and people count yields ResultDuplicate, a full list
// yields ResultCapacity; neither changes the list.
func (m *ModifiedRecipes) Save(ctx context.Context, recipe models.ModifiedRecipe) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if slices.ContainsFunc(m.items, recipe.SameVariant) {
		return Result{
			Kind:    ResultDuplicate,
			Message: fmt.Sprintf("%s for %d people is already saved", recipe.Name, recipe.CantidadPersonas),
		}, nil
	}
	if len(m.items) >= m.capacity {
		return Result{
			Kind:    ResultCapacity,
			Message: fmt.Sprintf("you can keep up to %d modified recipes; remove one first", m.capacity),
		}, nil
	}

	now := m.now()
	recipe.ModifiedID = models.NewModifiedID(recipe.OriginalRecipeID, recipe.CantidadPersonas, now)
	if recipe.CreatedAt.IsZero() {
		recipe.CreatedAt = now
	}

	next := append(slices.Clone(m.items), recipe)
	if err := m.persist(ctx, next); err != nil {
		return Result{}, err
	}
	m.items = next

	return Result{Kind: ResultOK, Message: "recipe saved", Recipe: recipe}, nil
}

// Remove deletes the entry with modifiedID, keeping the others in order.
// An unknown id yields ResultNotFound and leaves the list unchanged.
func (m *ModifiedRecipes) Remove(ctx context.Context, modifiedID string) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(modifiedID)
	if i < 0 {
		return Result{
			Kind:    ResultNotFound,
			Message: fmt.Sprintf("modified recipe %q not found", modifiedID),
		}, nil
	}

	removed := m.items[i]
	next := slices.Delete(slices.Clone(m.items), i, i+1)
	if err := m.persist(ctx, next); err != nil {
		return Result{}, err
	}
	m.items = next

	return Result{Kind: ResultOK, Message: "recipe removed", Recipe: removed}, nil
}
