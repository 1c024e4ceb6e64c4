package query

import (
	"math"

	"github.com/celerix-dev/drowsewatch/pkg/schema"
)

// Summary aggregates a filtered report set. Means are 0 for an empty set.
type Summary struct {
	Total              int     `json:"total"`
	Level1             int     `json:"level1"`
	Level2             int     `json:"level2"`
	Level3             int     `json:"level3"`
	EmergencyContacted int     `json:"emergencyContacted"`
	AvgEyeClosure      float64 `json:"avgEyeClosure"`
	AvgMouthRatio      float64 `json:"avgMouthRatio"`
	AvgHeadTilt        float64 `json:"avgHeadTilt"`
	AvgYawnFreq        float64 `json:"avgYawnFreq"`
}

func Summarize(reports []schema.Report) Summary {
	var s Summary
	s.Total = len(reports)
	if s.Total == 0 {
		return s
	}

	var eye, mouth, tilt, yawn float64
	for _, r := range reports {
		switch r.DrowsinessLevel {
		case schema.LevelVoiceWarning:
			s.Level1++
		case schema.LevelAlarm:
			s.Level2++
		case schema.LevelEmergency:
			s.Level3++
		}
		if r.EmergencyContacted {
			s.EmergencyContacted++
		}
		eye += r.EyeClosurePercentage
		mouth += r.MouthAspectRatio
		tilt += r.HeadTiltAngle
		yawn += float64(r.YawnFrequency)
	}

	n := float64(s.Total)
	s.AvgEyeClosure = eye / n
	s.AvgMouthRatio = mouth / n
	s.AvgHeadTilt = tilt / n
	s.AvgYawnFreq = yawn / n
	return s
}

// LevelCount is one bar of the level distribution chart.
type LevelCount struct {
	Level schema.DrowsinessLevel `json:"level"`
	Label string                 `json:"label"`
	Count int                    `json:"count"`
}

func (s Summary) Distribution() []LevelCount {
	return []LevelCount{
		{Level: schema.LevelVoiceWarning, Label: "Level 1", Count: s.Level1},
		{Level: schema.LevelAlarm, Label: "Level 2", Count: s.Level2},
		{Level: schema.LevelEmergency, Label: "Level 3", Count: s.Level3},
	}
}

// Metric is one bar of the average metrics chart.
type Metric struct {
	Name  string  `json:"metric"`
	Value float64 `json:"value"`
}

// Metrics returns the averages rounded to one decimal. The mouth ratio is
// scaled by 100 so it shares an axis with the percentages.
func (s Summary) Metrics() []Metric {
	return []Metric{
		{Name: "Eye Closure", Value: round1(s.AvgEyeClosure)},
		{Name: "Mouth Ratio", Value: round1(s.AvgMouthRatio * 100)},
		{Name: "Head Tilt", Value: round1(s.AvgHeadTilt)},
		{Name: "Yawn Freq", Value: round1(s.AvgYawnFreq)},
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
