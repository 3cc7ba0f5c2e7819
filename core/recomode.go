package dialog

import (
	"fmt"
	"strings"
)

// RecoMode selects how the service segments and finalizes recognition.
type RecoMode string

const (
	RecoModeInteractive  RecoMode = "INTERACTIVE"
	RecoModeConversation RecoMode = "CONVERSATION"
	RecoModeDictation    RecoMode = "DICTATION"
)

// ParseRecoMode maps a property value onto a known recognition mode,
// ignoring case.
func ParseRecoMode(value string) (RecoMode, error) {
	for _, mode := range []RecoMode{RecoModeInteractive, RecoModeConversation, RecoModeDictation} {
		if strings.EqualFold(value, string(mode)) {
			return mode, nil
		}
	}
	return "", fmt.Errorf("unknown recognition mode %q", value)
}
