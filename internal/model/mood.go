package model

// Mood is the market mood shown next to the chart.
type Mood string

const (
	MoodPump Mood = "pump"
	MoodDump Mood = "dump"
)

// MoodFor maps a trend direction to a mood.
func MoodFor(trendUp bool) Mood {
	if trendUp {
		return MoodPump
	}
	return MoodDump
}

// Flip returns the opposite mood.
func (m Mood) Flip() Mood {
	if m == MoodPump {
		return MoodDump
	}
	return MoodPump
}
