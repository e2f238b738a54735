package model

import "time"

// Milestone is one scripted stop on the way to the moon.
type Milestone struct {
	TargetPrice float64 `yaml:"price" json:"price"`
	Message     string  `yaml:"message" json:"message"`
}

// SimulationState is the mutable part of the price simulator.
type SimulationState struct {
	CurrentPrice float64 `json:"current_price"`
	StageIndex   int     `json:"stage_index"`
	TrendUp      bool    `json:"trend_up"`
}

// SeriesPoint is one value of the chart window.
type SeriesPoint struct {
	Index int     `json:"index"`
	Value float64 `json:"value"`
}

// Snapshot is what readers see after a tick.
type Snapshot struct {
	State     SimulationState `json:"state"`
	Series    []SeriesPoint   `json:"series"`
	Milestone Milestone       `json:"milestone"`
	Phrase    string          `json:"phrase"`
	Final     bool            `json:"final"`
	Tick      int64           `json:"tick"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// SocialLink is a footer entry, rendered as-is.
type SocialLink struct {
	Title string `yaml:"title" json:"title"`
	Href  string `yaml:"href" json:"href"`
}
