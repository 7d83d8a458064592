package presenter

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/reeltv/reeltv/internal/dispatch"
	"github.com/reeltv/reeltv/internal/recommendation"
)

// RecommendationSource publishes recommendation cards on demand.
type RecommendationSource interface {
	Latest() []recommendation.Card
	Refresh(ctx context.Context) ([]recommendation.Card, error)
}

// RecommendationsView renders the home-screen recommendation row.
type RecommendationsView interface {
	ShowRecommendations(cards []recommendation.Card)
	ShowNoData()
}

// RecommendationsPresenter shows the latest published cards.
type RecommendationsPresenter struct {
	source RecommendationSource
	exec   *dispatch.Executor
	logger zerolog.Logger

	view       binding[RecommendationsView]
	scope      *dispatch.Scope
	refreshing bool
}

// NewRecommendationsPresenter creates a presenter that reads cards from source.
func NewRecommendationsPresenter(source RecommendationSource, exec *dispatch.Executor, logger zerolog.Logger) *RecommendationsPresenter {
	return &RecommendationsPresenter{
		source: source,
		exec:   exec,
		logger: logger.With().Str("component", "recommendations").Logger(),
	}
}

// Attach binds v and shows what was last published. Nothing published yet
// starts a refresh.
func (p *RecommendationsPresenter) Attach(v RecommendationsView) {
	if p.scope != nil {
		p.scope.Dispose()
	}
	p.scope = p.exec.NewScope(context.Background())
	p.refreshing = false
	p.view.attach(v)

	if cards := p.source.Latest(); len(cards) > 0 {
		v.ShowRecommendations(cards)
		return
	}
	p.Refresh()
}

// Detach unbinds the view.
func (p *RecommendationsPresenter) Detach() {
	if p.scope != nil {
		p.scope.Dispose()
	}
	p.view.detach()
}

// Refresh publishes a new set of cards and shows them.
func (p *RecommendationsPresenter) Refresh() {
	if _, ok := p.view.get(); !ok || p.refreshing {
		return
	}
	p.refreshing = true

	dispatch.Submit(p.scope, p.source.Refresh, func(cards []recommendation.Card, err error) {
		p.refreshing = false
		v, ok := p.view.get()
		if !ok {
			return
		}
		if errors.Is(err, recommendation.ErrRefreshInProgress) {
			// A scheduled run is publishing; show whatever it last finished.
			cards, err = p.source.Latest(), nil
		}
		if err != nil {
			p.logger.Warn().Err(err).Msg("Recommendation refresh failed")
		}
		if len(cards) == 0 {
			v.ShowNoData()
			return
		}
		v.ShowRecommendations(cards)
	})
}
