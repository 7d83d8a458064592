package presenter

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/reeltv/reeltv/internal/dispatch"
	"github.com/reeltv/reeltv/internal/media"
)

// CastView renders a person's details.
type CastView interface {
	ShowCast(person media.Cast)
	ShowNoData()
}

// CastPresenter loads the details of one cast member.
type CastPresenter struct {
	catalog Catalog
	exec    *dispatch.Executor
	logger  zerolog.Logger
	id      int

	view  binding[CastView]
	scope *dispatch.Scope
}

// NewCastPresenter creates a presenter for the person with personID.
func NewCastPresenter(catalog Catalog, exec *dispatch.Executor, personID int, logger zerolog.Logger) *CastPresenter {
	return &CastPresenter{
		catalog: catalog,
		exec:    exec,
		id:      personID,
		logger:  logger.With().Str("component", "cast").Int("personId", personID).Logger(),
	}
}

// Attach binds v and loads the person.
func (p *CastPresenter) Attach(v CastView) {
	if p.scope != nil {
		p.scope.Dispose()
	}
	p.scope = p.exec.NewScope(context.Background())
	p.view.attach(v)

	dispatch.Submit(p.scope, func(ctx context.Context) (*media.Cast, error) {
		return p.catalog.GetCastDetails(ctx, p.id)
	}, func(person *media.Cast, err error) {
		v, ok := p.view.get()
		if !ok {
			return
		}
		if err != nil {
			p.logger.Debug().Err(err).Msg("Cast details failed")
			v.ShowNoData()
			return
		}
		if person == nil {
			v.ShowNoData()
			return
		}
		v.ShowCast(*person)
	})
}

// Detach unbinds the view.
func (p *CastPresenter) Detach() {
	if p.scope != nil {
		p.scope.Dispose()
	}
	p.view.detach()
}
