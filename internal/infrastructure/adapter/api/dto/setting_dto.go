package dto

import (
	"time"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/usecase"
)

// UpdateSettingRequest carries the new value of one setting
type UpdateSettingRequest struct {
	Value string `json:"value" binding:"required,max=20"`
}

// SettingResponse represents one setting with its bounds
type SettingResponse struct {
	Key       string     `json:"key"`
	Value     int64      `json:"value"`
	Default   int64      `json:"default"`
	Min       int64      `json:"min"`
	Max       int64      `json:"max"`
	Unit      string     `json:"unit"`
	Public    bool       `json:"public"`
	Stored    bool       `json:"stored"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// NewSettingResponse converts a setting view
func NewSettingResponse(view usecase.SettingView) SettingResponse {
	return SettingResponse{
		Key:       string(view.Definition.Key),
		Value:     view.Value,
		Default:   view.Definition.Default,
		Min:       view.Definition.Min,
		Max:       view.Definition.Max,
		Unit:      string(view.Definition.Unit),
		Public:    view.Definition.Public,
		Stored:    view.Stored,
		UpdatedAt: view.UpdatedAt,
	}
}

// PublicSettings keeps the settings clients may read without signing in
func PublicSettings(views []usecase.SettingView) map[string]int64 {
	out := make(map[string]int64, len(views))
	for _, view := range views {
		if view.Definition.Public {
			out[string(view.Definition.Key)] = view.Value
		}
	}
	return out
}
