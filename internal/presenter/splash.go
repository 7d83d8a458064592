package presenter

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/reeltv/reeltv/internal/dispatch"
	"github.com/reeltv/reeltv/internal/preferences"
)

// PermissionStore records which permissions the user granted.
type PermissionStore interface {
	Missing(ctx context.Context) ([]preferences.Permission, error)
	Grant(ctx context.Context, p preferences.Permission, granted bool) error
	MarkFirstRunDone(ctx context.Context) error
}

// SplashView renders the splash screen.
type SplashView interface {
	RequestPermissions(missing []preferences.Permission)
	NavigateToMain()
}

// SplashPresenter gates the app behind the required permissions.
type SplashPresenter struct {
	store  PermissionStore
	exec   *dispatch.Executor
	logger zerolog.Logger

	view  binding[SplashView]
	scope *dispatch.Scope
}

// NewSplashPresenter creates the first-run permission presenter.
func NewSplashPresenter(store PermissionStore, exec *dispatch.Executor, logger zerolog.Logger) *SplashPresenter {
	return &SplashPresenter{
		store:  store,
		exec:   exec,
		logger: logger.With().Str("component", "splash").Logger(),
	}
}

// Attach binds v and checks the permissions.
func (p *SplashPresenter) Attach(v SplashView) {
	if p.scope != nil {
		p.scope.Dispose()
	}
	p.scope = p.exec.NewScope(context.Background())
	p.view.attach(v)
	p.check(nil)
}

// Detach unbinds the view.
func (p *SplashPresenter) Detach() {
	if p.scope != nil {
		p.scope.Dispose()
	}
	p.view.detach()
}

// OnPermissionsResult records the user's answers and re-checks.
func (p *SplashPresenter) OnPermissionsResult(results map[preferences.Permission]bool) {
	if _, ok := p.view.get(); !ok {
		return
	}
	p.check(results)
}

func (p *SplashPresenter) check(results map[preferences.Permission]bool) {
	dispatch.Submit(p.scope, func(ctx context.Context) ([]preferences.Permission, error) {
		for perm, granted := range results {
			if err := p.store.Grant(ctx, perm, granted); err != nil {
				p.logger.Warn().Err(err).Str("permission", string(perm)).Msg("Failed to record permission")
			}
		}
		missing, err := p.store.Missing(ctx)
		if err != nil {
			return nil, err
		}
		if len(missing) == 0 {
			if err := p.store.MarkFirstRunDone(ctx); err != nil {
				p.logger.Warn().Err(err).Msg("Failed to mark first run done")
			}
		}
		return missing, nil
	}, func(missing []preferences.Permission, err error) {
		v, ok := p.view.get()
		if !ok {
			return
		}
		if err != nil {
			p.logger.Error().Err(err).Msg("Failed to read permissions")
			v.RequestPermissions(preferences.RequiredPermissions)
			return
		}
		if len(missing) > 0 {
			v.RequestPermissions(missing)
			return
		}
		v.NavigateToMain()
	})
}
