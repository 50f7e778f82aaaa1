package entities

import (
	"encoding/json"
	"fmt"
)

// EncodeState serializes the state in the {pilotName, date, completed} layout.
func EncodeState(s ChecklistState) ([]byte, error) {
	if s.Completed == nil {
		s.Completed = CompletionMap{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode checklist state: %w", err)
	}
	return data, nil
}

// DecodeState parses a stored record. Missing fields take their defaults;
// a JSON null record decodes to the default state.
func DecodeState(data []byte) (ChecklistState, error) {
	var s ChecklistState
	if err := json.Unmarshal(data, &s); err != nil {
		return DefaultState(), fmt.Errorf("decode checklist state: %w", err)
	}
	if s.Completed == nil {
		s.Completed = CompletionMap{}
	}
	return s, nil
}
