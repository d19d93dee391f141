package paginate

import (
	"net/url"
	"strconv"
	"sync"
	"time"
)

// Snapshot is an immutable copy of the controller's state.
type Snapshot struct {
	Filters map[string]string
	Page    int
	Limit   int
}

// Params flattens the snapshot into key parameters for the query cache:
// filters plus page and limit. Empty filter values are dropped so they
// cannot fragment cache keys.
func (s Snapshot) Params() map[string]string {
	params := make(map[string]string, len(s.Filters)+2)
	for k, v := range s.Filters {
		if v != "" {
			params[k] = v
		}
	}
	params["page"] = strconv.Itoa(s.Page)
	params["limit"] = strconv.Itoa(s.Limit)
	return params
}

// Query serializes the snapshot into a URL query string. Non-empty
// values only; keys are sorted by url.Values encoding.
func (s Snapshot) Query() string {
	values := url.Values{}
	for k, v := range s.Filters {
		if v != "" {
			values.Set(k, v)
		}
	}
	values.Set("page", strconv.Itoa(s.Page))
	values.Set("limit", strconv.Itoa(s.Limit))
	return values.Encode()
}

// Controller owns pagination and filter state for one listing screen.
// Changes are debounced before the change callback fires, so a burst of
// keystrokes triggers one request for the final state, not one per key.
type Controller struct {
	filters   map[string]string
	initial   Snapshot
	timer     *time.Timer
	onChange  func(Snapshot)
	setURL    func(rawQuery string)
	debounce  time.Duration
	page      int
	limit     int
	mu        sync.Mutex
	closed    bool
}

// New creates a controller. Defaults: page 1, limit 10, 300ms debounce.
func New(opts ...ControllerOption) *Controller {
	c := &Controller{
		filters:  map[string]string{},
		page:     1,
		limit:    10,
		debounce: 300 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.initial = c.snapshotLocked()
	return c
}

// Page returns the current page.
func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// Limit returns the current page size.
func (c *Controller) Limit() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.limit
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// SetPage moves to the given page. Pages below 1 clamp to 1.
func (c *Controller) SetPage(page int) {
	if page < 1 {
		page = 1
	}

	c.mu.Lock()
	c.page = page
	c.scheduleLocked()
	c.mu.Unlock()
}

// SetLimit changes the page size and always resets the page to 1: the
// old offset is meaningless under a new page size.
func (c *Controller) SetLimit(limit int) {
	if limit < 1 {
		limit = 1
	}

	c.mu.Lock()
	c.limit = limit
	c.page = 1
	c.scheduleLocked()
	c.mu.Unlock()
}

// SetFilter sets a filter value. An empty value removes the filter.
// Changing a filter resets the page to 1.
func (c *Controller) SetFilter(key, value string) {
	c.mu.Lock()
	if value == "" {
		delete(c.filters, key)
	} else {
		c.filters[key] = value
	}
	c.page = 1
	c.scheduleLocked()
	c.mu.Unlock()
}

// Reset restores the controller's initial snapshot: "clear to
// defaults", not "clear to nothing".
func (c *Controller) Reset() {
	c.mu.Lock()
	c.page = c.initial.Page
	c.limit = c.initial.Limit
	c.filters = make(map[string]string, len(c.initial.Filters))
	for k, v := range c.initial.Filters {
		c.filters[k] = v
	}
	c.scheduleLocked()
	c.mu.Unlock()
}

// Flush fires any pending notification immediately.
func (c *Controller) Flush() {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()
	c.fire()
}

// Close cancels any pending notification. A closed controller accepts
// no further changes.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	filters := make(map[string]string, len(c.filters))
	for k, v := range c.filters {
		filters[k] = v
	}
	return Snapshot{Page: c.page, Limit: c.limit, Filters: filters}
}

// scheduleLocked cancels and reschedules the debounce timer, so only
// the final state of a burst produces a notification.
func (c *Controller) scheduleLocked() {
	if c.closed {
		return
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	if c.debounce <= 0 {
		c.timer = nil
		go c.fire()
		return
	}
	c.timer = time.AfterFunc(c.debounce, c.fire)
}

func (c *Controller) fire() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	snap := c.snapshotLocked()
	onChange := c.onChange
	setURL := c.setURL
	c.mu.Unlock()

	if setURL != nil {
		setURL(snap.Query())
	}
	if onChange != nil {
		onChange(snap)
	}
}
