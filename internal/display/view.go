package display

import (
	"math"
	"strconv"
	"strings"
	"time"

	"CrazyCarl/internal/model"
)

// Chart geometry of the server-rendered SVG.
const (
	ChartWidth   = 600
	ChartHeight  = 240
	chartPadding = 24
)

// MoodCard is the market mood panel.
type MoodCard struct {
	Mood        model.Mood `json:"mood"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
}

var moodCards = map[model.Mood]MoodCard{
	model.MoodPump: {
		Mood:        model.MoodPump,
		Title:       "Carl's Going Parabolic!",
		Description: "Sending it harder than your morning coffee, no cap! 💥☕",
	},
	model.MoodDump: {
		Mood:        model.MoodDump,
		Title:       "Dip? Carl Just Laughs!",
		Description: "Still crazy after all these charts! 😎",
	},
}

// MoodCardFor returns the panel content for a mood.
func MoodCardFor(m model.Mood) MoodCard {
	return moodCards[m]
}

// View is everything the page and the websocket need to draw one frame.
type View struct {
	Ticker        string    `json:"ticker"`
	Price         string    `json:"price"`
	MarketCap     string    `json:"market_cap"`
	PercentChange string    `json:"percent_change"`
	Up            bool      `json:"up"`
	Stage         int       `json:"stage"`
	Stages        int       `json:"stages"`
	Final         bool      `json:"final"`
	Message       string    `json:"message"`
	Phrase        string    `json:"phrase"`
	Mood          MoodCard  `json:"mood"`
	CrazyLevel    int       `json:"crazy_level"`
	Points        string    `json:"points"`
	MarkerX       float64   `json:"marker_x"`
	MarkerY       float64   `json:"marker_y"`
	Tick          int64     `json:"tick"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Build derives the display view from a snapshot.
func Build(snap model.Snapshot, stages int, supply float64, ticker string, crazyLevel int) View {
	points, mx, my := Polyline(snap.Series, ChartWidth, ChartHeight)
	return View{
		Ticker:        ticker,
		Price:         "$" + FormatPrice(snap.State.CurrentPrice),
		MarketCap:     FormatMarketCap(snap.State.CurrentPrice, supply),
		PercentChange: PercentChange(snap.Series),
		Up:            snap.State.TrendUp,
		Stage:         snap.State.StageIndex,
		Stages:        stages,
		Final:         snap.Final,
		Message:       snap.Milestone.Message,
		Phrase:        snap.Phrase,
		Mood:          MoodCardFor(model.MoodFor(snap.State.TrendUp)),
		CrazyLevel:    crazyLevel,
		Points:        points,
		MarkerX:       mx,
		MarkerY:       my,
		Tick:          snap.Tick,
		UpdatedAt:     snap.UpdatedAt,
	}
}

// Polyline maps the window onto an SVG viewport and returns the points
// attribute plus the position of the last point.
func Polyline(series []model.SeriesPoint, width, height float64) (string, float64, float64) {
	if len(series) == 0 {
		return "", 0, 0
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range series {
		lo = math.Min(lo, p.Value)
		hi = math.Max(hi, p.Value)
	}

	innerW := width - 2*chartPadding
	innerH := height - 2*chartPadding
	step := 0.0
	if len(series) > 1 {
		step = innerW / float64(len(series)-1)
	}

	var b strings.Builder
	var x, y float64
	for i, p := range series {
		x = chartPadding + float64(i)*step
		y = chartPadding + innerH/2
		if hi > lo {
			y = chartPadding + innerH*(1-(p.Value-lo)/(hi-lo))
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.FormatFloat(x, 'f', 1, 64))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(y, 'f', 1, 64))
	}
	return b.String(), x, y
}
