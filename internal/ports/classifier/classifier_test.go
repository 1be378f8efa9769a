package classifier

import "testing"

func TestParseResponse_ValueAndExplanation(t *testing.T) {
	p := ParseResponse("CAUTIOUSLY\nProtective breed, approach slowly.")
	if p.IsSafeToPet != SafetyCautiously {
		t.Fatalf("expected Cautiously, got %q", p.IsSafeToPet)
	}
	if p.SafetyExplanation != "Protective breed, approach slowly." {
		t.Fatalf("unexpected explanation: %q", p.SafetyExplanation)
	}
}

func TestParseResponse_NormalizesShortForms(t *testing.T) {
	cases := map[string]string{
		"YES":     SafetyYes,
		"y":       SafetyYes,
		"no":      SafetyNo,
		"N":       SafetyNo,
		"caution": SafetyCautiously,
		"ERROR":   SafetyError,
	}
	for raw, want := range cases {
		if got := ParseResponse(raw).IsSafeToPet; got != want {
			t.Fatalf("ParseResponse(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestParseResponse_MissingExplanation(t *testing.T) {
	p := ParseResponse("Yes")
	if p.SafetyExplanation != "No explanation provided" {
		t.Fatalf("unexpected fallback explanation: %q", p.SafetyExplanation)
	}
}

func TestParseResponse_SkipsBlankExplanationLines(t *testing.T) {
	p := ParseResponse("No\n\nBite history on record.")
	if p.SafetyExplanation != "Bite history on record." {
		t.Fatalf("unexpected explanation: %q", p.SafetyExplanation)
	}
}

func TestParseResponse_UnknownValueFailsClosed(t *testing.T) {
	p := ParseResponse("Maybe\nwho knows")
	if p.IsSafeToPet != SafetyError {
		t.Fatalf("expected Error for unknown value, got %q", p.IsSafeToPet)
	}
}
