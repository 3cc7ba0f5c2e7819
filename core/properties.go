package dialog

import "sync"

const (
	// PropertyRecoMode selects the recognition mode. Writes through the
	// connector are validated against the known modes.
	PropertyRecoMode = "SPEECH-RecoMode"
	// PropertyLogFilename points diagnostics logging at a file. Writes
	// through the connector are validated for a writable path.
	PropertyLogFilename = "SPEECH-LogFilename"
)

// PropertyProvider is the read surface of a property store. Lookups fall
// back to it when the local bag has no entry for a key.
type PropertyProvider interface {
	StringValue(name, defaultValue string) string
}

// Properties is a string key/value bag with parent-chain fallback on read.
// Writes are always local and never propagate upward.
type Properties struct {
	mu     sync.RWMutex
	values map[string]string
	parent PropertyProvider
}

func NewProperties(parent PropertyProvider) *Properties {
	return &Properties{values: map[string]string{}, parent: parent}
}

// StringValue returns the nearest value for name along the parent chain,
// or defaultValue when no ancestor has one.
func (p *Properties) StringValue(name, defaultValue string) string {
	p.mu.RLock()
	value, ok := p.values[name]
	p.mu.RUnlock()

	if ok {
		return value
	}
	if p.parent != nil {
		return p.parent.StringValue(name, defaultValue)
	}
	return defaultValue
}

func (p *Properties) SetStringValue(name, value string) {
	p.mu.Lock()
	p.values[name] = value
	p.mu.Unlock()
}
