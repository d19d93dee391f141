package paginate

import "time"

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithPage sets the initial page.
// Default: 1.
func WithPage(page int) ControllerOption {
	return func(c *Controller) {
		if page >= 1 {
			c.page = page
		}
	}
}

// WithLimit sets the initial page size.
// Default: 10.
func WithLimit(limit int) ControllerOption {
	return func(c *Controller) {
		if limit >= 1 {
			c.limit = limit
		}
	}
}

// WithFilters sets the initial filter values. Reset restores these.
func WithFilters(filters map[string]string) ControllerOption {
	return func(c *Controller) {
		for k, v := range filters {
			if v != "" {
				c.filters[k] = v
			}
		}
	}
}

// WithDebounce sets the notification debounce delay. Zero or negative
// fires notifications asynchronously without delay.
// Default: 300ms.
func WithDebounce(d time.Duration) ControllerOption {
	return func(c *Controller) {
		c.debounce = d
	}
}

// OnChange sets the callback fired (debounced) after state changes.
func OnChange(fn func(Snapshot)) ControllerOption {
	return func(c *Controller) {
		c.onChange = fn
	}
}

// WithURLSetter mirrors state into the page URL. The setter receives
// the serialized query string and is expected to use replace semantics
// so a typing burst does not grow browser history.
func WithURLSetter(fn func(rawQuery string)) ControllerOption {
	return func(c *Controller) {
		c.setURL = fn
	}
}
