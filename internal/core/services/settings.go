package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/custodia-labs/bfs/internal/core/domain"
	"github.com/custodia-labs/bfs/internal/core/ports/driven"
	"github.com/custodia-labs/bfs/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// settingKeys lists the recognised keys in display order.
var settingKeys = []string{
	domain.KeyThreads,
	domain.KeyBusyTimeoutMS,
	domain.KeyBatchSize,
	domain.KeyVerbose,
}

// SettingsService manages the tool settings held in a config store.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get returns the configured settings. Missing or invalid values fall back
// to their defaults.
func (s *SettingsService) Get() domain.Settings {
	def := domain.DefaultSettings()
	if s.configStore == nil {
		return def
	}

	settings := domain.Settings{
		Threads:     s.configStore.GetInt(domain.KeyThreads, def.Threads),
		BusyTimeout: time.Duration(s.configStore.GetInt(domain.KeyBusyTimeoutMS, int(def.BusyTimeout/time.Millisecond))) * time.Millisecond,
		BatchSize:   s.configStore.GetInt(domain.KeyBatchSize, def.BatchSize),
		Verbose:     s.configStore.GetBool(domain.KeyVerbose, def.Verbose),
	}
	return settings.Normalize()
}

// Set validates value for key and writes it to the config store.
func (s *SettingsService) Set(key, value string) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}

	switch key {
	case domain.KeyThreads, domain.KeyBusyTimeoutMS, domain.KeyBatchSize:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("%w: %s must be a positive integer, got %q", domain.ErrInvalidInput, key, value)
		}
		return s.configStore.Set(key, n)
	case domain.KeyVerbose:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false, got %q", domain.ErrInvalidInput, key, value)
		}
		return s.configStore.Set(key, b)
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
}

// Keys returns the recognised config keys.
func (s *SettingsService) Keys() []string {
	return append([]string(nil), settingKeys...)
}
