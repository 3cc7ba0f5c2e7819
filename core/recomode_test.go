package dialog

import "testing"

func TestParseRecoModeAcceptsKnownModes(t *testing.T) {
	testCases := []struct {
		value    string
		expected RecoMode
	}{
		{value: "INTERACTIVE", expected: RecoModeInteractive},
		{value: "interactive", expected: RecoModeInteractive},
		{value: "Conversation", expected: RecoModeConversation},
		{value: "DICTATION", expected: RecoModeDictation},
	}

	for _, testCase := range testCases {
		t.Run(testCase.value, func(t *testing.T) {
			mode, err := ParseRecoMode(testCase.value)
			if err != nil {
				t.Fatalf("expected %q to parse, got %v", testCase.value, err)
			}
			if mode != testCase.expected {
				t.Fatalf("expected mode %q, got %q", testCase.expected, mode)
			}
		})
	}
}

func TestParseRecoModeRejectsUnknownValues(t *testing.T) {
	if _, err := ParseRecoMode("freeform"); err == nil {
		t.Fatalf("expected unknown mode to be rejected")
	}
	if _, err := ParseRecoMode(""); err == nil {
		t.Fatalf("expected empty mode to be rejected")
	}
}
