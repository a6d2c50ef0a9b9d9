package model

import "time"

const GlobalSettingsID = "global"

type GlobalSettings struct {
	ID                   string    `json:"id" bson:"_id"`
	DefaultPenaltyAmount float64   `json:"default_penalty_amount" bson:"default_penalty_amount"`
	DefaultHourlyRate    float64   `json:"default_hourly_rate" bson:"default_hourly_rate"`
	UpdatedAt            time.Time `json:"updated_at" bson:"updated_at"`
}

// SettingsUpdate replaces both defaults. Negative values are accepted.
type SettingsUpdate struct {
	DefaultPenaltyAmount *float64 `json:"default_penalty_amount" validate:"required"`
	DefaultHourlyRate    *float64 `json:"default_hourly_rate" validate:"required"`
}
