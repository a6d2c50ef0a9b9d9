package service

import (
	"context"
	"errors"
	"parking/internal/settings/validator"
	"parking/pkg/config"
	apperrors "parking/pkg/errors"
	"parking/pkg/logger"
	"parking/pkg/model"
	"sync"
	"testing"
	"time"
)

// memorySettingsRepository behaves like the upsert-backed Mongo repository:
// the first GetOrCreate inserts, later calls return what is stored.
type memorySettingsRepository struct {
	mu       sync.Mutex
	settings *model.GlobalSettings
	creates  int
	failWith error
}

func (m *memorySettingsRepository) GetOrCreate(ctx context.Context, defaults model.GlobalSettings) (*model.GlobalSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	if m.settings == nil {
		defaults.UpdatedAt = time.Now()
		m.settings = &defaults
		m.creates++
	}
	cp := *m.settings
	return &cp, nil
}

func (m *memorySettingsRepository) Update(ctx context.Context, penaltyAmount, hourlyRate float64) (*model.GlobalSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	m.settings = &model.GlobalSettings{
		ID:                   model.GlobalSettingsID,
		DefaultPenaltyAmount: penaltyAmount,
		DefaultHourlyRate:    hourlyRate,
		UpdatedAt:            time.Now(),
	}
	cp := *m.settings
	return &cp, nil
}

func newTestConfig() *config.Config {
	cfg := config.Defaults()
	cfg.Log = logger.Nop()
	return cfg
}

func ptr(f float64) *float64 { return &f }

func TestGet_CreatesDefaultsOnce(t *testing.T) {
	repo := &memorySettingsRepository{}
	svc := NewSettingsService(repo, validator.NewSettingsValidator(), newTestConfig())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := svc.Get(context.Background())
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if got.DefaultHourlyRate != 10.0 || got.DefaultPenaltyAmount != 50.0 {
				t.Errorf("unexpected defaults: %+v", got)
			}
		}()
	}
	wg.Wait()

	if repo.creates != 1 {
		t.Errorf("expected exactly one creation, got %d", repo.creates)
	}
}

func TestGet_SeedsFromConfig(t *testing.T) {
	cfg := newTestConfig()
	cfg.DefaultHourlyRate = 7.5
	cfg.DefaultPenaltyAmount = 20

	svc := NewSettingsService(&memorySettingsRepository{}, validator.NewSettingsValidator(), cfg)
	got, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.DefaultHourlyRate != 7.5 || got.DefaultPenaltyAmount != 20 {
		t.Errorf("settings not seeded from config: %+v", got)
	}
}

func TestUpdate(t *testing.T) {
	tests := []struct {
		name     string
		update   *model.SettingsUpdate
		wantCode string
	}{
		{"valid", &model.SettingsUpdate{DefaultPenaltyAmount: ptr(80), DefaultHourlyRate: ptr(12)}, ""},
		{"negative values accepted", &model.SettingsUpdate{DefaultPenaltyAmount: ptr(-1), DefaultHourlyRate: ptr(-5)}, ""},
		{"missing penalty", &model.SettingsUpdate{DefaultHourlyRate: ptr(12)}, apperrors.CodeValidation},
		{"nil update", nil, apperrors.CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &memorySettingsRepository{}
			svc := NewSettingsService(repo, validator.NewSettingsValidator(), newTestConfig())

			got, err := svc.Update(context.Background(), tt.update)
			if tt.wantCode != "" {
				if !apperrors.HasCode(err, tt.wantCode) {
					t.Fatalf("expected %s, got %v", tt.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.DefaultPenaltyAmount != *tt.update.DefaultPenaltyAmount || got.DefaultHourlyRate != *tt.update.DefaultHourlyRate {
				t.Errorf("update not applied: %+v", got)
			}

			reread, _ := svc.Get(context.Background())
			if reread.DefaultHourlyRate != *tt.update.DefaultHourlyRate {
				t.Errorf("Get after Update returned %+v", reread)
			}
		})
	}
}

func TestGet_StorageFailureIsInternal(t *testing.T) {
	repo := &memorySettingsRepository{failWith: errors.New("connection refused")}
	svc := NewSettingsService(repo, validator.NewSettingsValidator(), newTestConfig())

	_, err := svc.Get(context.Background())
	if !apperrors.HasCode(err, apperrors.CodeInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
}
