package services

import (
	"context"
	"fmt"
)

const lockEnabledKey = "lock_enabled"

// SettingsService holds the lock gate switch.
type SettingsService struct {
	store Store
	auth  Authenticator
}

func NewSettingsService(store Store, auth Authenticator) *SettingsService {
	return &SettingsService{store: store, auth: auth}
}

func (s *SettingsService) SetLockEnabled(ctx context.Context, enabled bool) error {
	v := "0"
	if enabled {
		v = "1"
	}
	return s.store.Queries().SetSetting(ctx, lockEnabledKey, v)
}

func (s *SettingsService) IsLockEnabled(ctx context.Context) (bool, error) {
	v, _, err := s.store.Queries().GetSetting(ctx, lockEnabledKey)
	if err != nil {
		return false, err
	}
	return v == "1", nil
}

// Unlock reports whether access is granted: always when the lock is off,
// otherwise when the authenticator confirms the user.
func (s *SettingsService) Unlock(ctx context.Context) (bool, error) {
	enabled, err := s.IsLockEnabled(ctx)
	if err != nil {
		return false, err
	}
	if !enabled {
		return true, nil
	}
	if s.auth == nil {
		return false, fmt.Errorf("lock enabled but no authenticator configured")
	}
	return s.auth.Authenticate(ctx)
}
