package schema

import "time"

// DrowsinessLevel is the severity of a drowsiness event.
type DrowsinessLevel int

const (
	LevelVoiceWarning DrowsinessLevel = 1
	LevelAlarm        DrowsinessLevel = 2
	LevelEmergency    DrowsinessLevel = 3
)

// Valid reports whether l is within 1..3.
func (l DrowsinessLevel) Valid() bool {
	return l >= LevelVoiceWarning && l <= LevelEmergency
}

// IsAlert reports whether a report at this level belongs to the active alert feed.
func (l DrowsinessLevel) IsAlert() bool {
	return l >= LevelAlarm
}

func (l DrowsinessLevel) String() string {
	switch l {
	case LevelVoiceWarning:
		return "voice warning"
	case LevelAlarm:
		return "alarm and voice"
	case LevelEmergency:
		return "emergency contact notified"
	}
	return "unknown"
}

// Location is the vehicle position at the time of a report.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Report is a single drowsiness detection event. Reports are never updated.
type Report struct {
	ID                   string          `json:"id"`
	UserID               string          `json:"userId"`
	UserName             string          `json:"userName"`
	Timestamp            time.Time       `json:"timestamp"`
	EyeClosurePercentage float64         `json:"eyeClosurePercentage"`
	MouthAspectRatio     float64         `json:"mouthAspectRatio"`
	HeadTiltAngle        float64         `json:"headTiltAngle"`
	YawnFrequency        int             `json:"yawnFrequency"`
	DrowsinessLevel      DrowsinessLevel `json:"drowsinessLevel"`
	Location             Location        `json:"location"`
	Speed                float64         `json:"speed"`
	AlertSent            bool            `json:"alertSent"`
	EmergencyContacted   bool            `json:"emergencyContacted"`
}
