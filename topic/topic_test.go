package topic

import (
	"math"
	"testing"
)

func TestDetectFinance(t *testing.T) {
	// "revenue", "pricing", "margin" all hit.
	det := DetectTopic("Quarterly revenue and pricing margin review")
	if det.Topic != "finance" {
		t.Fatalf("expected finance, got %q", det.Topic)
	}
	if det.MatchCount != 3 {
		t.Fatalf("expected 3 matches, got %d", det.MatchCount)
	}
	if math.Abs(det.Confidence-0.76) > 1e-9 {
		t.Fatalf("expected confidence 0.76, got %f", det.Confidence)
	}
}

func TestDetectNoSignal(t *testing.T) {
	for _, msg := range []string{"hello", "", "good morning everyone"} {
		det := DetectTopic(msg)
		if det.Topic != General {
			t.Fatalf("%q: expected general, got %q", msg, det.Topic)
		}
		if det.Confidence != 0.2 {
			t.Fatalf("%q: expected confidence 0.2, got %f", msg, det.Confidence)
		}
		if det.MatchCount != 0 {
			t.Fatalf("%q: expected 0 matches, got %d", msg, det.MatchCount)
		}
	}
}

func TestDetectCaseInsensitive(t *testing.T) {
	lower := DetectTopic("the security breach needs attention")
	upper := DetectTopic("THE SECURITY BREACH NEEDS ATTENTION")
	if lower != upper {
		t.Fatalf("case should not matter: %+v vs %+v", lower, upper)
	}
	if lower.Topic != "security" {
		t.Fatalf("expected security, got %q", lower.Topic)
	}
}

func TestDetectConfidenceCapped(t *testing.T) {
	det := DetectTopic("revenue pricing margin budget cash funding forecast")
	if det.Topic != "finance" {
		t.Fatalf("expected finance, got %q", det.Topic)
	}
	if det.Confidence != 0.95 {
		t.Fatalf("expected capped confidence 0.95, got %f", det.Confidence)
	}
}

func TestDetectTieResolvesToDeclarationOrder(t *testing.T) {
	// One finance keyword and one technology keyword; finance is declared
	// first, so it wins the tie.
	det := DetectTopic("budget for the deploy")
	if det.Topic != "finance" {
		t.Fatalf("expected finance on tie, got %q", det.Topic)
	}
	if det.MatchCount != 1 {
		t.Fatalf("expected 1 match, got %d", det.MatchCount)
	}
}

func TestDetectHigherCountWins(t *testing.T) {
	// Two technology keywords beat one finance keyword.
	det := DetectTopic("budget for new infrastructure to cut latency")
	if det.Topic != "technology" {
		t.Fatalf("expected technology, got %q", det.Topic)
	}
	if det.MatchCount != 2 {
		t.Fatalf("expected 2 matches, got %d", det.MatchCount)
	}
}

func TestKeywords(t *testing.T) {
	if kws := Keywords("finance"); len(kws) == 0 {
		t.Fatal("expected finance keywords")
	}
	if kws := Keywords(General); kws != nil {
		t.Fatalf("expected nil for general, got %v", kws)
	}
	if kws := Keywords("astrology"); kws != nil {
		t.Fatalf("expected nil for unknown topic, got %v", kws)
	}
}
