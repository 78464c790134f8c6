package cache

import (
	"context"
	"strconv"

	"github.com/sakif/daybook/internal/model"
	"github.com/sakif/daybook/internal/repository"
)

const (
	keyDarkMode  = "isDarkMode"
	keyLoggedIn  = "isLoggedIn"
	keyUserEmail = "userEmail"
)

// SettingsStore persists the flat app settings in the "settings" namespace.
// Unset keys read back as their zero-value defaults.
type SettingsStore struct {
	kv repository.KVStore
}

func NewSettingsStore(kv repository.KVStore) *SettingsStore {
	return &SettingsStore{kv: kv}
}

func (s *SettingsStore) SetDarkMode(ctx context.Context, on bool) error {
	return s.kv.SetValue(ctx, settingsNamespace, keyDarkMode, strconv.FormatBool(on))
}

// DarkMode returns the dark-mode flag, false by default.
func (s *SettingsStore) DarkMode(ctx context.Context) (bool, error) {
	return s.getBool(ctx, keyDarkMode)
}

func (s *SettingsStore) SetLoggedIn(ctx context.Context, loggedIn bool) error {
	return s.kv.SetValue(ctx, settingsNamespace, keyLoggedIn, strconv.FormatBool(loggedIn))
}

// LoggedIn returns the login flag, false by default.
func (s *SettingsStore) LoggedIn(ctx context.Context) (bool, error) {
	return s.getBool(ctx, keyLoggedIn)
}

func (s *SettingsStore) SetUserEmail(ctx context.Context, email string) error {
	return s.kv.SetValue(ctx, settingsNamespace, keyUserEmail, email)
}

// UserEmail returns the remembered email, empty by default.
func (s *SettingsStore) UserEmail(ctx context.Context) (string, error) {
	raw, _, err := s.kv.GetValue(ctx, settingsNamespace, keyUserEmail)
	return raw, err
}

// All reads every setting in one call.
func (s *SettingsStore) All(ctx context.Context) (model.Settings, error) {
	var settings model.Settings
	var err error

	if settings.DarkMode, err = s.DarkMode(ctx); err != nil {
		return model.Settings{}, err
	}
	if settings.LoggedIn, err = s.LoggedIn(ctx); err != nil {
		return model.Settings{}, err
	}
	if settings.UserEmail, err = s.UserEmail(ctx); err != nil {
		return model.Settings{}, err
	}

	return settings, nil
}

// ClearUserData removes the login flag and remembered email only; dark mode
// survives a logout.
func (s *SettingsStore) ClearUserData(ctx context.Context) error {
	if err := s.kv.DeleteValue(ctx, settingsNamespace, keyLoggedIn); err != nil {
		return err
	}
	return s.kv.DeleteValue(ctx, settingsNamespace, keyUserEmail)
}

// ClearAll wipes every setting, lastOpenDate included.
func (s *SettingsStore) ClearAll(ctx context.Context) error {
	return s.kv.DeleteNamespace(ctx, settingsNamespace)
}

func (s *SettingsStore) getBool(ctx context.Context, key string) (bool, error) {
	raw, ok, err := s.kv.GetValue(ctx, settingsNamespace, key)
	if err != nil || !ok {
		return false, err
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		// A corrupt flag falls back to the default rather than failing reads.
		return false, nil
	}
	return v, nil
}
