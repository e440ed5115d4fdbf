// Package topic classifies free-text boardroom messages against a fixed
// table of keyword-weighted topics. Classification is deterministic, does
// no I/O, and is cheap enough to run on every keystroke (the caller
// debounces, not this package).
package topic

import "strings"

// General is the fallback topic when no keyword matches.
const General = "general"

// Scorer scores a message against a single topic. Implementations must be
// pure functions of the text so a statistical classifier can be substituted
// later without changing any caller.
type Scorer interface {
	Topic() string

	// Score returns the match strength for already lower-cased text.
	Score(text string) int
}

// keywordScorer counts substring hits from a hand-curated keyword list.
type keywordScorer struct {
	topic    string
	keywords []string
}

func (s keywordScorer) Topic() string { return s.topic }

func (s keywordScorer) Score(text string) int {
	n := 0
	for _, kw := range s.keywords {
		if strings.Contains(text, kw) {
			n++
		}
	}
	return n
}

// scorers is the fixed topic table. Declaration order matters: ties resolve
// to whichever topic appears first.
var scorers = []Scorer{
	keywordScorer{"finance", []string{"revenue", "pricing", "margin", "budget", "cash", "funding", "invoice", "profit", "valuation", "runway", "forecast", "fundrais"}},
	keywordScorer{"technology", []string{"architecture", "infrastructure", "deploy", "latency", "codebase", "technical debt", "scalab", "database", "downtime", "outage", "refactor"}},
	keywordScorer{"marketing", []string{"campaign", "brand", "audience", "funnel", "conversion", "advertis", "social media", "seo", "newsletter", "awareness"}},
	keywordScorer{"strategy", []string{"strategy", "strategic", "roadmap", "vision", "long-term", "priorit", "positioning", "expansion", "pivot", "competitor"}},
	keywordScorer{"operations", []string{"process", "workflow", "logistics", "supply", "bottleneck", "vendor", "procurement", "fulfillment", "capacity planning", "sla"}},
	keywordScorer{"legal", []string{"contract", "compliance", "regulation", "liability", "lawsuit", "intellectual property", "trademark", "gdpr", "licensing", "indemn"}},
	keywordScorer{"security", []string{"security", "breach", "vulnerabilit", "encryption", "phishing", "firewall", "penetration", "incident response", "malware", "zero-day"}},
	keywordScorer{"innovation", []string{"innovation", "prototype", "experiment", "disrupt", "r&d", "patent", "emerging", "breakthrough", "moonshot", "incubat"}},
	keywordScorer{"people", []string{"hiring", "recruit", "onboarding", "culture", "retention", "morale", "compensation", "attrition", "leadership", "team building"}},
	keywordScorer{"data", []string{"analytics", "dashboard", "metrics", "kpi", "dataset", "reporting", "insights", "telemetry", "segmentation", "cohort"}},
	keywordScorer{"product", []string{"feature", "backlog", "usability", "launch", "mvp", "sprint", "user feedback", "release", "user research", "product-market"}},
	keywordScorer{"wellness", []string{"wellness", "burnout", "work-life", "mental health", "stress", "mindfulness", "wellbeing", "self-care", "sabbatical"}},
	keywordScorer{"knowledge", []string{"documentation", "knowledge base", "wiki", "training", "mentorship", "best practice", "playbook", "handbook", "lessons learned"}},
	keywordScorer{"partnerships", []string{"partnership", "alliance", "joint venture", "collaboration", "ecosystem", "reseller", "co-market", "affiliate", "channel partner"}},
}

// Detection is the result of classifying one message.
type Detection struct {
	Topic      string  `json:"topic"`
	Confidence float64 `json:"confidence"`
	MatchCount int     `json:"match_count"`
}

// DetectTopic classifies a message. With no keyword hits it returns General
// at confidence 0.2; otherwise confidence is min(0.95, 0.4 + 0.12×matches).
// Every input, including empty or adversarial text, yields a best-effort
// default rather than an error.
func DetectTopic(message string) Detection {
	text := strings.ToLower(message)

	best := General
	bestScore := 0
	for _, s := range scorers {
		if n := s.Score(text); n > bestScore {
			best = s.Topic()
			bestScore = n
		}
	}

	if bestScore == 0 {
		return Detection{Topic: General, Confidence: 0.2}
	}

	confidence := 0.4 + 0.12*float64(bestScore)
	if confidence > 0.95 {
		confidence = 0.95
	}
	return Detection{Topic: best, Confidence: confidence, MatchCount: bestScore}
}

// Keywords returns the keyword list for a topic, or nil for General and
// unknown topics. The routing previewer uses it to find supporting
// participants by expertise overlap.
func Keywords(topicName string) []string {
	for _, s := range scorers {
		if ks, ok := s.(keywordScorer); ok && ks.topic == topicName {
			return ks.keywords
		}
	}
	return nil
}
