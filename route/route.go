// Package route predicts which boardroom participant should answer a
// message. The prediction is a hint for immediate UI feedback; the
// server-side router independently re-validates every decision.
package route

import (
	"fmt"
	"strings"

	"github.com/meridian-market/boardroom/topic"
)

// Participant is one member of the conversation roster, supplied by the
// hosting application's participant registry.
type Participant struct {
	Slug      string   `json:"slug"`
	Name      string   `json:"name"`
	Expertise []string `json:"expertise,omitempty"`
}

// ConversationType tags a chat session and decides routing policy before
// any content-based classification runs.
type ConversationType string

const (
	// TypeFullBoard broadcasts to the whole board; everyone responds.
	TypeFullBoard ConversationType = "full_board"

	// TypeVote is a formal vote; everyone responds.
	TypeVote ConversationType = "vote"

	// TypeOneOnOne is a fixed conversation with a single participant.
	TypeOneOnOne ConversationType = "one_on_one"

	// TypeSmallGroup routes by message content within a restricted set.
	TypeSmallGroup ConversationType = "small_group"
)

// GeneralistSlug designates the participant who fields low-signal and
// unmapped messages.
const GeneralistSlug = "chief-of-staff"

// topicOwners designates the primary responder for each topic.
var topicOwners = map[string]string{
	"finance":      "cfo",
	"technology":   "cto",
	"marketing":    "cmo",
	"strategy":     "ceo",
	"operations":   "coo",
	"legal":        "general-counsel",
	"security":     "ciso",
	"innovation":   "chief-innovation",
	"people":       "chro",
	"data":         "cdo",
	"product":      "cpo",
	"wellness":     "chief-wellness",
	"knowledge":    "cko",
	"partnerships": "cro",
}

const maxSupporting = 2

// Preview is a point-in-time routing prediction. It carries no identity
// across calls and is recomputed for every message.
type Preview struct {
	// PrimarySlug is empty when every participant is expected to respond.
	PrimarySlug   string   `json:"primary_slug,omitempty"`
	PrimaryName   string   `json:"primary_name,omitempty"`
	Topic         string   `json:"topic"`
	Confidence    float64  `json:"confidence"`
	Supporting    []string `json:"supporting,omitempty"`
	Justification string   `json:"justification"`
}

// PreviewRouting predicts the primary and supporting responders for a
// message. The restricted list, when non-empty, narrows the eligible
// participant set; conversation-type policy runs before any content-based
// classification.
func PreviewRouting(message string, participants []Participant, convType ConversationType, restricted []string) Preview {
	eligible := eligibleParticipants(participants, restricted)

	// Everyone responds in broadcasts and votes, whatever the text says.
	if convType == TypeFullBoard || convType == TypeVote {
		supporting := make([]string, 0, len(eligible))
		for _, p := range eligible {
			supporting = append(supporting, p.Slug)
		}
		return Preview{
			Topic:         topic.General,
			Confidence:    1,
			Supporting:    supporting,
			Justification: fmt.Sprintf("all participants respond in a %s conversation", convType),
		}
	}

	// A fixed one-on-one pins the single restricted participant.
	if convType == TypeOneOnOne && len(restricted) == 1 {
		slug := restricted[0]
		return Preview{
			PrimarySlug:   slug,
			PrimaryName:   displayName(participants, slug),
			Topic:         topic.General,
			Confidence:    1,
			Justification: fmt.Sprintf("fixed one-on-one conversation with %s", slug),
		}
	}

	det := topic.DetectTopic(message)

	primary := topicOwners[det.Topic]
	if det.MatchCount == 0 || primary == "" {
		primary = GeneralistSlug
	}
	if len(eligible) > 0 && !rosterHas(eligible, primary) {
		if rosterHas(eligible, GeneralistSlug) {
			primary = GeneralistSlug
		} else {
			primary = eligible[0].Slug
		}
	}

	supporting := supportingSlugs(eligible, det.Topic, primary)
	name := displayName(participants, primary)

	justification := fmt.Sprintf("no strong topic signal, defaulting to %s", name)
	if det.MatchCount > 0 {
		justification = fmt.Sprintf("matched %d %s keyword(s), routed to %s", det.MatchCount, det.Topic, name)
	}

	return Preview{
		PrimarySlug:   primary,
		PrimaryName:   name,
		Topic:         det.Topic,
		Confidence:    det.Confidence,
		Supporting:    supporting,
		Justification: justification,
	}
}

// eligibleParticipants filters the roster to the restricted set, when one
// was supplied.
func eligibleParticipants(participants []Participant, restricted []string) []Participant {
	if len(restricted) == 0 {
		return participants
	}
	allowed := make(map[string]bool, len(restricted))
	for _, slug := range restricted {
		allowed[slug] = true
	}
	eligible := make([]Participant, 0, len(restricted))
	for _, p := range participants {
		if allowed[p.Slug] {
			eligible = append(eligible, p)
		}
	}
	return eligible
}

// supportingSlugs picks up to two participants whose declared expertise
// tags lexically overlap the winning topic's keyword list.
func supportingSlugs(eligible []Participant, topicName, primary string) []string {
	keywords := topic.Keywords(topicName)
	if len(keywords) == 0 {
		return nil
	}

	var supporting []string
	for _, p := range eligible {
		if p.Slug == primary {
			continue
		}
		if expertiseOverlaps(p.Expertise, keywords) {
			supporting = append(supporting, p.Slug)
			if len(supporting) == maxSupporting {
				break
			}
		}
	}
	return supporting
}

// expertiseOverlaps reports whether any expertise tag lexically overlaps
// any keyword, in either containment direction.
func expertiseOverlaps(expertise, keywords []string) bool {
	for _, tag := range expertise {
		tag = strings.ToLower(tag)
		if tag == "" {
			continue
		}
		for _, kw := range keywords {
			if strings.Contains(kw, tag) || strings.Contains(tag, kw) {
				return true
			}
		}
	}
	return false
}

func rosterHas(participants []Participant, slug string) bool {
	for _, p := range participants {
		if p.Slug == slug {
			return true
		}
	}
	return false
}

// displayName resolves a slug against the full roster, falling back to the
// slug itself for unknown participants.
func displayName(participants []Participant, slug string) string {
	for _, p := range participants {
		if p.Slug == slug {
			if p.Name != "" {
				return p.Name
			}
			break
		}
	}
	return slug
}
