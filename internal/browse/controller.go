package browse

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/models"
)

const DefaultDebounce = 300 * time.Millisecond

// Query identifies one fetch. A result is only applied while its Query is still
// the controller's target.
type Query struct {
	SearchTerm string
	Page       int
}

type Result struct {
	Items []models.ResumeLog
	Total int64
}

type Fetcher interface {
	Fetch(ctx context.Context, q Query, pageSize int) (Result, error)
}

// FetcherFunc adapts a plain function to Fetcher.
type FetcherFunc func(ctx context.Context, q Query, pageSize int) (Result, error)

func (f FetcherFunc) Fetch(ctx context.Context, q Query, pageSize int) (Result, error) {
	return f(ctx, q, pageSize)
}

// State is a snapshot of what is currently displayed.
type State struct {
	Query
	Items      []models.ResumeLog
	Total      int64
	TotalPages int
	PageSize   int
}

type Options struct {
	PageSize int
	Debounce time.Duration
	// OnChange is called with the new state each time a fetch result is applied.
	OnChange func(State)
}

// Controller pages and filters resume logs. Search edits are debounced, page
// changes fetch immediately, and any result that arrives for a query that is no
// longer the target is dropped.
type Controller struct {
	fetcher  Fetcher
	logger   *zap.Logger
	pageSize int
	debounce time.Duration
	onChange func(State)

	mu      sync.Mutex
	ctx     context.Context
	target  Query
	state   State
	timer   *time.Timer
	timerID uint64
	pending sync.WaitGroup
}

func NewController(ctx context.Context, fetcher Fetcher, logger *zap.Logger, opts Options) *Controller {
	if opts.PageSize < 1 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	initial := Query{Page: 1}
	return &Controller{
		fetcher:  fetcher,
		logger:   logger,
		pageSize: opts.PageSize,
		debounce: opts.Debounce,
		onChange: opts.OnChange,
		ctx:      ctx,
		target:   initial,
		state: State{
			Query:      initial,
			TotalPages: 1,
			PageSize:   opts.PageSize,
		},
	}
}

// SetSearchTerm resets to the first page and schedules a debounced fetch.
func (c *Controller) SetSearchTerm(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.target = Query{SearchTerm: term, Page: 1}
	c.cancelTimerLocked()

	c.timerID++
	id := c.timerID
	c.pending.Add(1)
	c.timer = time.AfterFunc(c.debounce, func() {
		c.fire(id)
	})
}

// SetPage fetches the requested page right away. A pending debounced fetch is
// superseded.
func (c *Controller) SetPage(page int) {
	if page < 1 {
		page = 1
	}

	c.mu.Lock()
	c.target.Page = page
	c.cancelTimerLocked()
	q := c.target
	c.pending.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.pending.Done()
		c.run(q)
	}()
}

// Refresh fetches the current target immediately.
func (c *Controller) Refresh() {
	c.mu.Lock()
	page := c.target.Page
	c.mu.Unlock()
	c.SetPage(page)
}

func (c *Controller) NextPage() {
	c.mu.Lock()
	page := c.target.Page
	last := c.state.TotalPages
	c.mu.Unlock()

	if page < last {
		c.SetPage(page + 1)
	}
}

func (c *Controller) PrevPage() {
	c.mu.Lock()
	page := c.target.Page
	c.mu.Unlock()

	if page > 1 {
		c.SetPage(page - 1)
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Target() Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

// Wait blocks until no timer is pending and no fetch is in flight.
func (c *Controller) Wait() {
	c.pending.Wait()
}

// Close stops a pending debounced fetch.
func (c *Controller) Close() {
	c.mu.Lock()
	c.cancelTimerLocked()
	c.mu.Unlock()
}

func (c *Controller) cancelTimerLocked() {
	if c.timer == nil {
		return
	}
	if c.timer.Stop() {
		c.pending.Done()
	}
	c.timer = nil
	// a timer that already fired sees a stale id and returns
	c.timerID++
}

func (c *Controller) fire(id uint64) {
	defer c.pending.Done()

	c.mu.Lock()
	if id != c.timerID {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	q := c.target
	c.mu.Unlock()

	c.run(q)
}

func (c *Controller) run(q Query) {
	res, err := c.fetcher.Fetch(c.ctx, q, c.pageSize)

	c.mu.Lock()
	if q != c.target {
		c.mu.Unlock()
		c.logger.Debug("discarding stale resume page",
			zap.String("search", q.SearchTerm),
			zap.Int("page", q.Page),
		)
		return
	}

	if err != nil {
		c.mu.Unlock()
		c.logger.Warn("failed to fetch resume page",
			zap.String("search", q.SearchTerm),
			zap.Int("page", q.Page),
			zap.Error(err),
		)
		return
	}

	c.state = State{
		Query:      q,
		Items:      res.Items,
		Total:      res.Total,
		TotalPages: TotalPages(res.Total, c.pageSize),
		PageSize:   c.pageSize,
	}
	state := c.state
	onChange := c.onChange
	c.mu.Unlock()

	if onChange != nil {
		onChange(state)
	}
}
