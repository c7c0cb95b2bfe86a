package types

import "time"

type Transcript struct {
	Segments []Segment `json:"segments"`
}

// Duration returns the end time of the last segment, or zero for an empty
// transcript.
func (t Transcript) Duration() float64 {
	if len(t.Segments) == 0 {
		return 0
	}
	return t.Segments[len(t.Segments)-1].End
}

type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
	Words []Word  `json:"words,omitempty"`
}

type Word struct {
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Word       string  `json:"word"`
	Confidence float64 `json:"confidence,omitempty"`
	Syllables  int     `json:"syllables,omitempty"`
	Punctuated bool    `json:"punctuated,omitempty"`
}

func (w Word) Duration() float64 { return w.End - w.Start }

// Candidate is one bounded time window of the transcript under consideration.
// Generation fills the window fields; filtering appends Rejections; scoring
// sets Score and the sub-score breakdown on its own copy.
type Candidate struct {
	Start    time.Duration
	End      time.Duration
	Text     string
	Language Language
	Source   Source

	Score        float64
	SubScores    map[string]float64
	HookType     HookType
	HookStrength float64
	Keywords     []string
	EnergyLevel  float64
	ViralScore   float64
	Rejections   []string
}

func (c Candidate) Duration() time.Duration { return c.End - c.Start }

// DurationFromSeconds converts a float seconds value, the unit transcript
// timestamps arrive in, to a time.Duration.
func DurationFromSeconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Source records which generation path produced a candidate.
type Source string

const (
	SourceWindowing Source = "windowing"
	SourceEnergy    Source = "energy"
)

// HookType classifies the attention-grabbing quality of a moment's opening.
type HookType string

const (
	HookQuestion   HookType = "question"
	HookSurprising HookType = "surprising"
	HookData       HookType = "data"
	HookCTA        HookType = "cta"
	HookEmotional  HookType = "emotional"
	HookUrgency    HookType = "urgency"
	HookNone       HookType = "none"
)

// IsValid reports whether h is a recognised hook type.
func (h HookType) IsValid() bool {
	switch h {
	case HookQuestion, HookSurprising, HookData, HookCTA, HookEmotional, HookUrgency, HookNone:
		return true
	}
	return false
}

// EnergyTrace is an ordered energy (or decibel) sequence sampled at a fixed
// interval, produced by an external decoder.
type EnergyTrace struct {
	Interval float64   `json:"interval"`
	Levels   []float64 `json:"levels"`
}

func (t EnergyTrace) Duration() float64 { return float64(len(t.Levels)) * t.Interval }

// TimeAt returns the start time of sample i.
func (t EnergyTrace) TimeAt(i int) float64 { return float64(i) * t.Interval }

type Manifest struct {
	Input   string           `json:"input"`
	Moments []ManifestMoment `json:"moments"`
}

type ManifestMoment struct {
	ID           string   `json:"id"`
	StartSec     float64  `json:"start_sec"`
	EndSec       float64  `json:"end_sec"`
	DurationSec  float64  `json:"duration_sec"`
	Score        float64  `json:"score"`
	HookType     string   `json:"hook_type"`
	HookStrength float64  `json:"hook_strength"`
	Keywords     []string `json:"keywords,omitempty"`
	Language     string   `json:"language"`
	Source       string   `json:"source"`
	Text         string   `json:"text"`
}
