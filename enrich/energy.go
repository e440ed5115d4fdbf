package enrich

import "strings"

// Energy is a coarse read of a message's urgency and intensity.
type Energy struct {
	Level string  `json:"level"` // "low", "steady", or "high"
	Score float64 `json:"score"`
}

// EnergyClassifier estimates the energy of a draft message. The real
// classifier is a sibling component of the hosting application; this layer
// consumes it as a black box.
type EnergyClassifier interface {
	Classify(message string) Energy
}

// urgencyMarkers are words that push a message toward high energy.
var urgencyMarkers = []string{"urgent", "asap", "immediately", "right now", "critical", "emergency"}

// heuristicEnergy is the built-in fallback classifier: punctuation, caps,
// and urgency markers, nothing clever.
type heuristicEnergy struct{}

func (heuristicEnergy) Classify(message string) Energy {
	text := strings.ToLower(message)

	score := 0.3
	score += 0.15 * float64(strings.Count(message, "!"))
	for _, marker := range urgencyMarkers {
		if strings.Contains(text, marker) {
			score += 0.2
		}
	}
	if len(message) > 400 {
		score += 0.1
	}
	if score > 1 {
		score = 1
	}

	level := "steady"
	switch {
	case score < 0.4:
		level = "low"
	case score >= 0.7:
		level = "high"
	}
	return Energy{Level: level, Score: score}
}
