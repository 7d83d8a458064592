package presenter

import "github.com/reeltv/reeltv/internal/media"

// Pager tracks how far a paginated list has been loaded. The current page
// starts at 0 and only moves forward, and only for pages within range.
type Pager struct {
	current   int
	loading   bool
	exhausted bool
}

// Current returns the last accepted page number.
func (p *Pager) Current() int {
	return p.current
}

// Exhausted reports whether a page past the end has been seen.
func (p *Pager) Exhausted() bool {
	return p.exhausted
}

// Loading reports whether a request is outstanding.
func (p *Pager) Loading() bool {
	return p.loading
}

// Next reserves the next page to request. It returns false while a request
// is outstanding or once the list is exhausted.
func (p *Pager) Next() (int, bool) {
	if p.loading || p.exhausted {
		return 0, false
	}
	p.loading = true
	return p.current + 1, true
}

// Accept records a fetched page and reports whether it carried data. A page
// past totalPages marks the pager exhausted.
func (p *Pager) Accept(page *media.Page) bool {
	p.loading = false
	if page == nil {
		return false
	}
	if !page.HasData() {
		p.exhausted = true
		return false
	}
	if page.Page > p.current {
		p.current = page.Page
	}
	return true
}

// Fail releases the outstanding request without changing the position, so a
// later trigger retries the same page.
func (p *Pager) Fail() {
	p.loading = false
}

// Reset rewinds to the initial state.
func (p *Pager) Reset() {
	*p = Pager{}
}
