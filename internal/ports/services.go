package ports

import (
	"context"
	"time"

	"github.com/flightdeck/rpas-checklist/internal/domain/entities"
)

// ChecklistService interface for checklist state operations
type ChecklistService interface {
	Hydrate(ctx context.Context) entities.ChecklistState
	Toggle(ctx context.Context, category entities.CategoryName, index int) (entities.CompletionMap, error)
	SetPilotName(ctx context.Context, name string)
	SetDate(ctx context.Context, date string)
	UpdateSession(ctx context.Context, req UpdateSessionRequest) entities.ChecklistState
	Persist(ctx context.Context, state entities.ChecklistState)
	Reset(ctx context.Context) entities.ChecklistState
	Snapshot() entities.ChecklistState
	View(now time.Time) *ChecklistView
}

// InstallHandle is the retained platform prompt. Prompt shows it and waits
// for the user's choice.
type InstallHandle interface {
	Prompt(ctx context.Context) (entities.InstallOutcome, error)
}

// InstallService interface for the home-screen install flow
type InstallService interface {
	OnInstallAvailable(handle InstallHandle)
	Pending() InstallHandle
	TriggerInstall(ctx context.Context) (entities.InstallOutcome, error)
	TriggerHandle(ctx context.Context, handle InstallHandle) (entities.InstallOutcome, error)
	DismissPrompt()
	Flags(now time.Time) InstallFlags
}

// Notifier shows transient notifications that dismiss themselves.
type Notifier interface {
	Show(kind entities.NotificationKind)
	Dismiss(kind entities.NotificationKind) error
	Visible(kind entities.NotificationKind, now time.Time) bool
}

// Request/Response Types

type ToggleItemRequest struct {
	Category entities.CategoryName `json:"category" form:"category" param:"category" validate:"required,oneof=normal emergency site"`
	Index    int                   `json:"index" form:"index" param:"index" validate:"min=0"`
}

// UpdateSessionRequest carries optional session fields; nil leaves a field unchanged.
type UpdateSessionRequest struct {
	PilotName *string `json:"pilotName"`
	Date      *string `json:"date"`
}

type InstallOutcomeRequest struct {
	Outcome entities.InstallOutcome `json:"outcome" form:"outcome" validate:"required,oneof=accepted dismissed"`
}

type InstallFlags struct {
	PromptVisible  bool `json:"promptVisible"`
	SuccessVisible bool `json:"successVisible"`
}

type ItemView struct {
	Key     entities.ItemKey `json:"key"`
	Index   int              `json:"index"`
	Text    string           `json:"text"`
	Checked bool             `json:"checked"`
}

type CategoryView struct {
	Name      entities.CategoryName `json:"name"`
	Title     string                `json:"title"`
	Items     []ItemView            `json:"items"`
	Completed int                   `json:"completed"`
}

type ChecklistView struct {
	Title        string         `json:"title"`
	PilotName    string         `json:"pilotName"`
	Date         string         `json:"date"`
	Categories   []CategoryView `json:"categories"`
	Completed    int            `json:"completed"`
	Total        int            `json:"total"`
	SavedVisible bool           `json:"savedVisible"`
	InstallFlags
}
