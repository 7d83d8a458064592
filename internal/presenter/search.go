package presenter

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/reeltv/reeltv/internal/dispatch"
	"github.com/reeltv/reeltv/internal/media"
)

// SearchDebounce is how long typing must pause before a search is issued.
const SearchDebounce = 300 * time.Millisecond

// SearchView renders search results.
type SearchView interface {
	ShowResults(query string, update GridUpdate)
	ShowNoData(query string)
	ClearResults()
}

// SearchPresenter runs debounced searches. A new query cancels the previous
// one, and results never contain the same work twice.
type SearchPresenter struct {
	catalog  Catalog
	exec     *dispatch.Executor
	logger   zerolog.Logger
	debounce time.Duration

	query   string
	pager   Pager
	results WorkList

	view   binding[SearchView]
	scope  *dispatch.Scope
	search *dispatch.Scope
	stop   func()
}

// NewSearchPresenter creates a search presenter with the default debounce.
func NewSearchPresenter(catalog Catalog, exec *dispatch.Executor, logger zerolog.Logger) *SearchPresenter {
	return &SearchPresenter{
		catalog:  catalog,
		exec:     exec,
		debounce: SearchDebounce,
		logger:   logger.With().Str("component", "search").Logger(),
	}
}

// Query returns the query the current results belong to.
func (p *SearchPresenter) Query() string { return p.query }

// Results returns the loaded results.
func (p *SearchPresenter) Results() []media.Work { return p.results.Items() }

// Attach binds v. A search running for a previous view is dropped; paging
// of the current query resumes where it stopped.
func (p *SearchPresenter) Attach(v SearchView) {
	p.cancel()
	if p.scope != nil {
		p.scope.Dispose()
	}
	p.scope = p.exec.NewScope(context.Background())
	p.view.attach(v)

	if p.query != "" {
		if p.pager.Loading() {
			p.pager.Fail()
		}
		p.search = p.exec.NewScope(p.scope.Context())
	}
}

// Detach unbinds the view and cancels any pending or running search.
func (p *SearchPresenter) Detach() {
	p.cancel()
	if p.scope != nil {
		p.scope.Dispose()
	}
	p.view.detach()
}

// OnQueryTextChange schedules a search for text after the debounce delay.
// An empty query clears the results.
func (p *SearchPresenter) OnQueryTextChange(text string) {
	v, ok := p.view.get()
	if !ok {
		return
	}
	query := strings.TrimSpace(text)

	p.cancel()
	if query == "" {
		p.reset("")
		v.ClearResults()
		return
	}
	p.stop = p.scope.After(p.debounce, func() {
		p.stop = nil
		p.start(query)
	})
}

// OnQueryTextSubmit searches for text immediately.
func (p *SearchPresenter) OnQueryTextSubmit(text string) {
	v, ok := p.view.get()
	if !ok {
		return
	}
	p.cancel()
	query := strings.TrimSpace(text)
	if query == "" {
		p.reset("")
		v.ClearResults()
		return
	}
	p.start(query)
}

// LoadMore fetches the next page of the current query and reports whether
// the view will be updated.
func (p *SearchPresenter) LoadMore() bool {
	if p.query == "" || p.search == nil {
		return false
	}
	return p.fetch()
}

// OnItemSelected loads more once the selection is within one row of the end
// and reports whether it did.
func (p *SearchPresenter) OnItemSelected(position, columns int) bool {
	if columns < 1 {
		columns = 1
	}
	if position < p.results.Len()-columns {
		return false
	}
	return p.LoadMore()
}

func (p *SearchPresenter) start(query string) {
	p.reset(query)
	p.search = p.exec.NewScope(p.scope.Context())
	p.fetch()
}

func (p *SearchPresenter) fetch() bool {
	v, ok := p.view.get()
	if !ok {
		return false
	}
	page, ok := p.pager.Next()
	if !ok {
		if p.pager.Exhausted() {
			v.ShowNoData(p.query)
			return true
		}
		return false
	}

	query, scope := p.query, p.search
	dispatch.Submit(scope, func(ctx context.Context) (*media.Page, error) {
		return p.catalog.SearchWorksByQuery(ctx, query, page)
	}, func(res *media.Page, err error) {
		if scope.Disposed() || query != p.query {
			return
		}
		if err != nil {
			p.pager.Fail()
			p.logger.Debug().Err(err).Str("query", query).Msg("Search failed")
			v.ShowNoData(query)
			return
		}
		if !p.pager.Accept(res) || (page == 1 && len(res.Results) == 0) {
			v.ShowNoData(query)
			return
		}
		added := p.results.Append(res.Results)
		v.ShowResults(query, GridUpdate{Works: p.results.Items(), Added: added, Page: p.pager.Current()})
	})
	return true
}

func (p *SearchPresenter) cancel() {
	if p.stop != nil {
		p.stop()
		p.stop = nil
	}
	if p.search != nil {
		p.search.Dispose()
		p.search = nil
	}
}

func (p *SearchPresenter) reset(query string) {
	p.query = query
	p.pager.Reset()
	p.results.Clear()
}
