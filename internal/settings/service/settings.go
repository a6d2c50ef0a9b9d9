package service

import (
	"context"
	"parking/internal/settings/repository"
	"parking/internal/settings/validator"
	"parking/pkg/config"
	apperrors "parking/pkg/errors"
	"parking/pkg/model"
)

// SettingsService is the only entry point to the global defaults. Callers
// get a copy of the record, never a shared pointer.
type SettingsService interface {
	Get(ctx context.Context) (model.GlobalSettings, error)
	Update(ctx context.Context, update *model.SettingsUpdate) (model.GlobalSettings, error)
}

type settingsService struct {
	repo      repository.SettingsRepository
	validator *validator.SettingsValidator
	cfg       *config.Config
}

func NewSettingsService(
	repo repository.SettingsRepository,
	validator *validator.SettingsValidator,
	cfg *config.Config,
) SettingsService {
	return &settingsService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *settingsService) Get(ctx context.Context) (model.GlobalSettings, error) {
	settings, err := s.repo.GetOrCreate(ctx, model.GlobalSettings{
		ID:                   model.GlobalSettingsID,
		DefaultPenaltyAmount: s.cfg.DefaultPenaltyAmount,
		DefaultHourlyRate:    s.cfg.DefaultHourlyRate,
	})
	if err != nil {
		s.cfg.Log.Error("Failed to load global settings", "error", err)
		return model.GlobalSettings{}, apperrors.Internal("Failed to load global settings", err)
	}
	return *settings, nil
}

func (s *settingsService) Update(ctx context.Context, update *model.SettingsUpdate) (model.GlobalSettings, error) {
	if update == nil {
		return model.GlobalSettings{}, apperrors.InvalidInput("Settings update cannot be empty")
	}

	if err := s.validator.Validate(update); err != nil {
		s.cfg.Log.Warn("Settings validation failed", "error", err)
		return model.GlobalSettings{}, apperrors.Validation("Settings validation failed", map[string]any{
			"errors": err,
		})
	}

	settings, err := s.repo.Update(ctx, *update.DefaultPenaltyAmount, *update.DefaultHourlyRate)
	if err != nil {
		s.cfg.Log.Error("Failed to update global settings", "error", err)
		return model.GlobalSettings{}, apperrors.Internal("Failed to update global settings", err)
	}

	s.cfg.Log.Info("Global settings updated",
		"default_penalty_amount", settings.DefaultPenaltyAmount,
		"default_hourly_rate", settings.DefaultHourlyRate,
	)
	return *settings, nil
}
