package entities

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Common errors
var (
	ErrSlotNotFound        = errors.New("persistence slot not found")
	ErrUnknownCategory     = errors.New("unknown checklist category")
	ErrUnknownItem         = errors.New("unknown checklist item")
	ErrInvalidItemKey      = errors.New("invalid checklist item key")
	ErrNoInstallPrompt     = errors.New("no install prompt available")
	ErrInvalidOutcome      = errors.New("invalid install outcome")
	ErrUnknownNotification = errors.New("unknown notification")
)

// Enums and types
type CategoryName string

const (
	CategoryNormal    CategoryName = "normal"
	CategoryEmergency CategoryName = "emergency"
	CategorySite      CategoryName = "site"
)

type InstallOutcome string

const (
	InstallOutcomeAccepted  InstallOutcome = "accepted"
	InstallOutcomeDismissed InstallOutcome = "dismissed"
)

// Valid reports whether the outcome is one the platform can report.
func (o InstallOutcome) Valid() bool {
	return o == InstallOutcomeAccepted || o == InstallOutcomeDismissed
}

type NotificationKind string

const (
	NotificationSaved     NotificationKind = "saved"
	NotificationInstalled NotificationKind = "installed"
)

// ItemKey identifies one checklist item as "{category}-{index}".
type ItemKey string

// NewItemKey builds the completion-map key for an item.
func NewItemKey(category CategoryName, index int) ItemKey {
	return ItemKey(fmt.Sprintf("%s-%d", category, index))
}

// Parse splits the key back into category and index.
func (k ItemKey) Parse() (CategoryName, int, error) {
	i := strings.LastIndex(string(k), "-")
	if i <= 0 || i == len(k)-1 {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidItemKey, string(k))
	}
	index, err := strconv.Atoi(string(k[i+1:]))
	if err != nil || index < 0 {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidItemKey, string(k))
	}
	return CategoryName(k[:i]), index, nil
}

// CompletionMap records which items are checked. Absent keys read as false.
type CompletionMap map[ItemKey]bool

// Checked reports the state of an item.
func (m CompletionMap) Checked(key ItemKey) bool {
	return m[key]
}

// Clone returns an independent copy. A nil map clones to an empty one.
func (m CompletionMap) Clone() CompletionMap {
	out := make(CompletionMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Toggle returns a new map with the item flipped. The input is not modified.
// An unchecked item stays in the map with a false value.
func Toggle(m CompletionMap, key ItemKey) CompletionMap {
	out := m.Clone()
	out[key] = !m[key]
	return out
}

// SessionInfo holds the free-form pilot fields.
type SessionInfo struct {
	PilotName string `json:"pilotName" yaml:"pilot_name"`
	Date      string `json:"date" yaml:"date"`
}

// ChecklistState is the persisted record: session fields plus completion map.
type ChecklistState struct {
	SessionInfo `yaml:",inline"`
	Completed   CompletionMap `json:"completed" yaml:"completed"`
}

// DefaultState is what a fresh or reset checklist looks like.
func DefaultState() ChecklistState {
	return ChecklistState{Completed: CompletionMap{}}
}

// Clone deep-copies the state.
func (s ChecklistState) Clone() ChecklistState {
	return ChecklistState{
		SessionInfo: s.SessionInfo,
		Completed:   s.Completed.Clone(),
	}
}
