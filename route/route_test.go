package route

import (
	"testing"

	"github.com/meridian-market/boardroom/topic"
)

func testRoster() []Participant {
	return []Participant{
		{Slug: "ceo", Name: "Alexandra Pierce", Expertise: []string{"strategy", "vision"}},
		{Slug: "cfo", Name: "Marcus Webb", Expertise: []string{"revenue", "budget"}},
		{Slug: "cto", Name: "Priya Sharma", Expertise: []string{"architecture", "infrastructure"}},
		{Slug: "coo", Name: "Daniel Osei", Expertise: []string{"process", "logistics"}},
		{Slug: "chief-of-staff", Name: "Jordan Lee", Expertise: []string{"coordination"}},
	}
}

func TestFullBoardEveryoneResponds(t *testing.T) {
	roster := testRoster()
	p := PreviewRouting("what is our runway looking like?", roster, TypeFullBoard, nil)

	if p.PrimarySlug != "" {
		t.Fatalf("broadcast should have no primary, got %q", p.PrimarySlug)
	}
	if p.Confidence != 1 {
		t.Fatalf("expected confidence 1, got %f", p.Confidence)
	}
	if len(p.Supporting) != len(roster) {
		t.Fatalf("expected all %d participants supporting, got %d", len(roster), len(p.Supporting))
	}
}

func TestVoteEveryoneResponds(t *testing.T) {
	p := PreviewRouting("approve the budget", testRoster(), TypeVote, nil)
	if p.PrimarySlug != "" || p.Confidence != 1 {
		t.Fatalf("vote should broadcast with confidence 1, got %+v", p)
	}
}

func TestOneOnOnePinsParticipant(t *testing.T) {
	p := PreviewRouting("anything at all", testRoster(), TypeOneOnOne, []string{"cto"})

	if p.PrimarySlug != "cto" {
		t.Fatalf("expected cto, got %q", p.PrimarySlug)
	}
	if p.PrimaryName != "Priya Sharma" {
		t.Fatalf("expected resolved name, got %q", p.PrimaryName)
	}
	if p.Confidence != 1 {
		t.Fatalf("expected confidence 1, got %f", p.Confidence)
	}
}

func TestTopicRoutesToOwner(t *testing.T) {
	p := PreviewRouting("revenue and pricing margin review", testRoster(), TypeSmallGroup, nil)

	if p.PrimarySlug != "cfo" {
		t.Fatalf("finance should route to cfo, got %q", p.PrimarySlug)
	}
	if p.Topic != "finance" {
		t.Fatalf("expected finance topic, got %q", p.Topic)
	}
	if p.Confidence <= 0.6 {
		t.Fatalf("expected confident detection, got %f", p.Confidence)
	}
}

func TestNoSignalDefaultsToGeneralist(t *testing.T) {
	p := PreviewRouting("hello", testRoster(), TypeSmallGroup, nil)

	if p.PrimarySlug != GeneralistSlug {
		t.Fatalf("expected generalist, got %q", p.PrimarySlug)
	}
	if p.Topic != topic.General {
		t.Fatalf("expected general topic, got %q", p.Topic)
	}
	if p.Confidence != 0.2 {
		t.Fatalf("expected confidence 0.2, got %f", p.Confidence)
	}
}

func TestOwnerOutsideRestrictedSetFallsBack(t *testing.T) {
	// Finance message, but the cfo is not in the restricted set.
	p := PreviewRouting("revenue forecast", testRoster(), TypeSmallGroup, []string{"cto", "chief-of-staff"})

	if p.PrimarySlug != GeneralistSlug {
		t.Fatalf("expected generalist fallback, got %q", p.PrimarySlug)
	}
}

func TestSupportingByExpertiseOverlap(t *testing.T) {
	roster := []Participant{
		{Slug: "cfo", Name: "Marcus Webb", Expertise: []string{"revenue"}},
		{Slug: "chief-of-staff", Name: "Jordan Lee", Expertise: []string{"budget"}},
		{Slug: "advisor-1", Name: "Sam Ito", Expertise: []string{"cash"}},
		{Slug: "advisor-2", Name: "Lena Kovac", Expertise: []string{"funding"}},
		{Slug: "cto", Name: "Priya Sharma", Expertise: []string{"architecture"}},
	}
	p := PreviewRouting("revenue forecast for the quarter", roster, TypeSmallGroup, nil)

	if p.PrimarySlug != "cfo" {
		t.Fatalf("expected cfo, got %q", p.PrimarySlug)
	}
	if len(p.Supporting) != 2 {
		t.Fatalf("supporting should be capped at 2, got %v", p.Supporting)
	}
	for _, slug := range p.Supporting {
		if slug == "cfo" {
			t.Fatal("primary must not appear in supporting")
		}
		if slug == "cto" {
			t.Fatal("cto has no finance expertise overlap")
		}
	}
}

func TestRestrictedNarrowsBroadcast(t *testing.T) {
	p := PreviewRouting("cast your vote", testRoster(), TypeVote, []string{"ceo", "cfo"})
	if len(p.Supporting) != 2 {
		t.Fatalf("expected 2 eligible responders, got %v", p.Supporting)
	}
}

func TestUnknownSlugKeepsSlugAsName(t *testing.T) {
	p := PreviewRouting("anything", nil, TypeOneOnOne, []string{"ghost"})
	if p.PrimaryName != "ghost" {
		t.Fatalf("expected slug fallback for unknown participant, got %q", p.PrimaryName)
	}
}
