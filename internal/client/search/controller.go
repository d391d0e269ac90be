// Package search drives a paged, filterable server-side list: debounced
// filter edits, infinite-scroll paging and last-issued-wins result handling.
package search

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/recetario/internal/client/models"
	"github.com/dmitrijs2005/recetario/internal/logging"
)

const (
	DefaultTextDebounce = 300 * time.Millisecond
	DefaultChipDebounce = 100 * time.Millisecond
)

// Status is the controller's loading state.
type Status int

const (
	Idle Status = iota
	Loading
	Loaded
	Error
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Error:
		return "error"
	}
	return "unknown"
}

// Fetcher loads one page for the given filter.
type Fetcher[T any] func(ctx context.Context, f models.FilterState) (models.PagedResult[T], error)

// State is a snapshot of the controller. Content is a copy.
type State[T any] struct {
	Status        Status
	Content       []T
	TotalPages    int
	TotalElements int64
	CurrentPage   int
	IsLastPage    bool
	Err           error
	Filter        models.FilterState
}

// HasMore reports whether LoadMore would fetch anything.
func (s State[T]) HasMore() bool {
	return !s.IsLastPage && s.CurrentPage+1 < s.TotalPages
}

type Option func(*options)

type options struct {
	textDebounce time.Duration
	chipDebounce time.Duration
	pageSize     int
	onChange     func()
	log          logging.Logger
}

// WithTextDebounce sets the quiet window for free-text fields.
func WithTextDebounce(d time.Duration) Option {
	return func(o *options) { o.textDebounce = d }
}

// WithChipDebounce sets the quiet window for discrete selections.
func WithChipDebounce(d time.Duration) Option {
	return func(o *options) { o.chipDebounce = d }
}

func WithPageSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.pageSize = n
		}
	}
}

// WithOnChange registers a callback run after every state change. It is
// called without the controller lock held.
func WithOnChange(fn func()) Option {
	return func(o *options) { o.onChange = fn }
}

func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.log = l }
}

// Controller owns one filtered, paged list. Every request it issues gets a
// generation number and its own context; issuing a request cancels the one
// before it, and only the latest generation may touch state.
type Controller[T any] struct {
	fetch Fetcher[T]
	opts  options

	mu     sync.Mutex
	filter models.FilterState
	status Status
	page   models.PagedResult[T]
	err    error
	// errAppend marks an Error left by a failed next-page request; only
	// that kind of failure may be retried with LoadMore.
	errAppend bool
	gen       uint64
	cancel    context.CancelFunc
	timer     *time.Timer
	armed     uint64
	closed    bool
	base      context.Context
	stopAll   context.CancelFunc

	wg sync.WaitGroup
}

func NewController[T any](fetch Fetcher[T], opts ...Option) *Controller[T] {
	o := options{
		textDebounce: DefaultTextDebounce,
		chipDebounce: DefaultChipDebounce,
		pageSize:     models.DefaultPageSize,
		log:          logging.Nop(),
	}
	for _, fn := range opts {
		fn(&o)
	}

	base, stop := context.WithCancel(context.Background())
	return &Controller[T]{
		fetch:   fetch,
		opts:    o,
		filter:  models.FilterState{Size: o.pageSize},
		base:    base,
		stopAll: stop,
	}
}

// State returns a snapshot.
func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State[T]{
		Status:        c.status,
		Content:       slices.Clone(c.page.Content),
		TotalPages:    c.page.TotalPages,
		TotalElements: c.page.TotalElements,
		CurrentPage:   c.page.CurrentPage,
		IsLastPage:    c.page.IsLastPage,
		Err:           c.err,
		Filter:        c.filter.WithPage(c.filter.Page),
	}
}

func (c *Controller[T]) SetName(name string) {
	c.edit(c.opts.textDebounce, func(f *models.FilterState) { f.Name = name })
}

func (c *Controller[T]) SetUserName(userName string) {
	c.edit(c.opts.textDebounce, func(f *models.FilterState) { f.UserName = userName })
}

func (c *Controller[T]) SetRating(rating int) {
	c.edit(c.opts.chipDebounce, func(f *models.FilterState) { f.Rating = rating })
}

func (c *Controller[T]) IncludeIngredient(id int64) {
	c.edit(c.opts.chipDebounce, func(f *models.FilterState) { f.IncludeIngredientID = id })
}

func (c *Controller[T]) ExcludeIngredient(id int64) {
	c.edit(c.opts.chipDebounce, func(f *models.FilterState) { f.ExcludeIngredientID = id })
}

func (c *Controller[T]) SetTipoReceta(id int64) {
	c.edit(c.opts.chipDebounce, func(f *models.FilterState) { f.TipoRecetaID = id })
}

func (c *Controller[T]) SetSort(sort ...string) {
	c.edit(c.opts.chipDebounce, func(f *models.FilterState) { f.Sort = slices.Clone(sort) })
}

// edit applies fn to the filter and re-arms the debounce timer.
func (c *Controller[T]) edit(window time.Duration, fn func(f *models.FilterState)) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	fn(&c.filter)
	c.filter.Page = 0

	c.stopTimerLocked()
	seq := c.armed
	c.timer = time.AfterFunc(window, func() { c.debounceFired(seq) })
	c.mu.Unlock()
}

// debounceFired runs when a timer elapses. A timer that was stopped or
// re-armed after it had already fired is recognised by its sequence.
func (c *Controller[T]) debounceFired(seq uint64) {
	c.mu.Lock()
	if c.closed || c.armed != seq || c.timer == nil {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.opts.log.Debug(c.base, "debounce elapsed, fetching", "name", c.filter.Name)
	c.issueLocked(0, false)
	c.mu.Unlock()
	c.notify()
}

// Refresh fetches page 0 for the current filter right away and replaces
// the content.
func (c *Controller[T]) Refresh() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.stopTimerLocked()
	c.issueLocked(0, false)
	c.mu.Unlock()
	c.notify()
}

// ClearFilters resets the filter (keeping the page size) and refreshes.
func (c *Controller[T]) ClearFilters() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.filter = c.filter.Cleared()
	c.stopTimerLocked()
	c.issueLocked(0, false)
	c.mu.Unlock()
	c.notify()
}

// Pending reports whether a filter edit is waiting for its debounce window.
func (c *Controller[T]) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer != nil
}

// LoadMore fetches the next page and appends it. It only runs from Loaded,
// or from an Error left by a failed LoadMore, and never while a filter edit
// is pending. It reports whether a request was issued.
func (c *Controller[T]) LoadMore() bool {
	c.mu.Lock()
	canAppend := c.status == Loaded || (c.status == Error && c.errAppend)
	if c.closed || !canAppend || c.timer != nil || !c.page.HasMore() {
		c.mu.Unlock()
		return false
	}
	c.issueLocked(c.page.CurrentPage+1, true)
	c.mu.Unlock()
	c.notify()
	return true
}

func (c *Controller[T]) stopTimerLocked() {
	c.armed++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// issueLocked cancels the request in flight and starts a new one.
func (c *Controller[T]) issueLocked(page int, appendResult bool) {
	if c.cancel != nil {
		c.cancel()
	}
	c.gen++
	gen := c.gen

	ctx, cancel := context.WithCancel(c.base)
	c.cancel = cancel
	c.status = Loading

	c.filter.Page = page
	filter := c.filter.WithPage(page)
	if filter.Size <= 0 {
		filter.Size = c.opts.pageSize
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer cancel()

		res, err := c.fetch(ctx, filter)
		if c.apply(gen, filter, res, err, appendResult) {
			c.notify()
		}
	}()
}

// apply stores a result if gen is still the latest generation.
func (c *Controller[T]) apply(gen uint64, f models.FilterState, res models.PagedResult[T], err error, appendResult bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen || c.closed {
		c.opts.log.Debug(c.base, "discarding stale result", "generation", gen, "page", f.Page)
		return false
	}
	c.cancel = nil

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return false
		}
		c.opts.log.Warn(c.base, "page fetch failed", "page", f.Page, "error", err)
		c.status = Error
		c.err = err
		c.errAppend = appendResult
		return true
	}

	if appendResult {
		c.page = c.page.Append(res)
	} else {
		c.page = res
	}
	c.status = Loaded
	c.err = nil
	c.errAppend = false
	return true
}

func (c *Controller[T]) notify() {
	if c.opts.onChange != nil {
		c.opts.onChange()
	}
}

// Close stops pending timers and cancels the request in flight. Later
// calls are no-ops.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.stopTimerLocked()
	c.stopAll()
}

// Wait blocks until every fetch goroutine has returned.
func (c *Controller[T]) Wait() {
	c.wg.Wait()
}
