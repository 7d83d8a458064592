package preferences

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/reeltv/reeltv/internal/database/sqlc"
)

const boolTrue = "true"

// ErrUnknownPermission is returned when granting a permission nobody asks for.
var ErrUnknownPermission = errors.New("unknown permission")

type Service struct {
	queries  *sqlc.Queries
	defaults BrowsePreferences

	mu        sync.Mutex
	listeners []func(BrowsePreferences)
}

// NewService creates a preference store on db. defaults seeds the browse
// preferences until the user changes them.
func NewService(db *sql.DB, defaults BrowsePreferences) *Service {
	if defaults.Language == "" {
		defaults.Language = DefaultPreferences().Language
	}
	return &Service{queries: sqlc.New(db), defaults: defaults}
}

// GetBrowsePreferences returns the stored browse preferences
func (s *Service) GetBrowsePreferences(ctx context.Context) (*BrowsePreferences, error) {
	prefs := s.defaults

	if val, err := s.getString(ctx, KeyLanguage); err == nil && val != "" {
		prefs.Language = val
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	if val, err := s.getString(ctx, KeyIncludeAdult); err == nil {
		prefs.IncludeAdult = val == boolTrue
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	return &prefs, nil
}

// SetBrowsePreferences updates the browse preferences and notifies the
// OnChange listeners.
func (s *Service) SetBrowsePreferences(ctx context.Context, prefs BrowsePreferences) error {
	if err := s.setString(ctx, KeyLanguage, prefs.Language); err != nil {
		return err
	}
	if err := s.setString(ctx, KeyIncludeAdult, strconv.FormatBool(prefs.IncludeAdult)); err != nil {
		return err
	}

	s.mu.Lock()
	listeners := append([]func(BrowsePreferences){}, s.listeners...)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(prefs)
	}
	return nil
}

// OnChange registers fn to run after browse preferences are saved.
func (s *Service) OnChange(fn func(BrowsePreferences)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// IsGranted reports whether p has been granted.
func (s *Service) IsGranted(ctx context.Context, p Permission) (bool, error) {
	val, err := s.getString(ctx, permissionKey(p))
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return val == boolTrue, nil
}

// Grant records the user's answer for p.
func (s *Service) Grant(ctx context.Context, p Permission, granted bool) error {
	if !ValidPermission(string(p)) {
		return fmt.Errorf("%w: %q", ErrUnknownPermission, p)
	}
	return s.setString(ctx, permissionKey(p), strconv.FormatBool(granted))
}

// Missing returns the required permissions that are not granted yet.
func (s *Service) Missing(ctx context.Context) ([]Permission, error) {
	var missing []Permission
	for _, p := range RequiredPermissions {
		ok, err := s.IsGranted(ctx, p)
		if err != nil {
			return nil, err
		}
		if !ok {
			missing = append(missing, p)
		}
	}
	return missing, nil
}

// IsFirstRun reports whether the first-run marker is still unset.
func (s *Service) IsFirstRun(ctx context.Context) bool {
	val, err := s.getString(ctx, KeyFirstRunDone)
	return err != nil || val != boolTrue
}

// MarkFirstRunDone sets the first-run marker.
func (s *Service) MarkFirstRunDone(ctx context.Context) error {
	return s.setString(ctx, KeyFirstRunDone, boolTrue)
}

func (s *Service) getString(ctx context.Context, key string) (string, error) {
	setting, err := s.queries.GetSetting(ctx, key)
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}

func (s *Service) setString(ctx context.Context, key, value string) error {
	_, err := s.queries.SetSetting(ctx, sqlc.SetSettingParams{
		Key:   key,
		Value: value,
	})
	return err
}
