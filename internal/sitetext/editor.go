package sitetext

import (
	"context"

	"github.com/sadokz/lamaitrise/internal/model"
)

// State is an editor's position in the Display → Editing → Saving cycle.
type State string

const (
	// StateDisplay shows the current value with no edit affordance active.
	StateDisplay State = "display"
	// StateEditing holds a draft seeded from the current value.
	StateEditing State = "editing"
	// StateSaving is the in-flight window of a commit.
	StateSaving State = "saving"
)

// Access carries the ambient admin/edit-mode flags. It is an explicit object
// handed to each editor, constructed from the session at request time and
// torn down with it, rather than global state.
type Access interface {
	IsAdmin() bool
	IsEditMode() bool
}

// Saver persists a committed draft. *Service satisfies it.
type Saver interface {
	Save(ctx context.Context, key model.TextKey, draft string) (string, bool, error)
}

// Notice is the notification an editor emits after a commit attempt.
type Notice string

const (
	// NoticeNone means nothing user-visible happened (no-op commit, cancel).
	NoticeNone Notice = ""
	// NoticeSaved fires after a successful write.
	NoticeSaved Notice = "saved"
	// NoticeSaveFailed fires after a rejected write.
	NoticeSaveFailed Notice = "save_failed"
)

// Editor is the per-field state machine of the inline editing protocol,
// the library form of what the browser runs per editable field; the HTTP
// surface only exposes its persistence half (the text save endpoint). Blur,
// Enter (single-line) and Ctrl+Enter (multi-line) all funnel into Commit;
// Escape funnels into Cancel. Unless the ambient flags allow editing the
// editor is pinned to Display whatever was attempted, so non-admins never see
// an edit affordance.
type Editor struct {
	key       model.TextKey
	access    Access
	sanitizer Sanitizer
	saver     Saver

	state    State
	value    string // last-good displayed value
	original string // value when editing began
	draft    string
}

// NewEditor returns an editor in Display showing currentValue (the saved
// content, or the page's literal default when nothing is saved).
func NewEditor(key model.TextKey, currentValue string, access Access, sanitizer Sanitizer, saver Saver) *Editor {
	return &Editor{
		key:       key,
		access:    access,
		sanitizer: sanitizer,
		saver:     saver,
		state:     StateDisplay,
		value:     currentValue,
	}
}

// State returns the effective state: whatever the internal state, without
// admin and edit-mode the editor reports Display.
func (e *Editor) State() State {
	if !e.canEdit() {
		return StateDisplay
	}
	return e.state
}

// Value returns the displayed value.
func (e *Editor) Value() string { return e.value }

// Draft returns the in-progress draft. Meaningful only while Editing.
func (e *Editor) Draft() string { return e.draft }

func (e *Editor) canEdit() bool {
	return e.access.IsAdmin() && e.access.IsEditMode()
}

// BeginEdit moves Display → Editing on click, seeding draft and original from
// the current value. It is a no-op unless the ambient flags allow editing and
// the editor is in Display.
func (e *Editor) BeginEdit() bool {
	if !e.canEdit() || e.state != StateDisplay {
		return false
	}
	e.state = StateEditing
	e.original = e.value
	e.draft = e.value
	return true
}

// SetDraft replaces the draft while Editing.
func (e *Editor) SetDraft(draft string) {
	if e.state == StateEditing {
		e.draft = draft
	}
}

// Cancel discards the draft and restores the original with no network call.
func (e *Editor) Cancel() {
	if e.state != StateEditing {
		return
	}
	e.state = StateDisplay
	e.value = e.original
	e.draft = ""
}

// Commit sanitizes and persists the draft. A draft whose sanitized form
// equals the original skips the save entirely and returns to Display. On
// failure the editor still returns to Display with the last-good value and
// the draft is discarded; the caller surfaces the error notification.
func (e *Editor) Commit(ctx context.Context) (Notice, error) {
	if e.state != StateEditing || !e.canEdit() {
		return NoticeNone, nil
	}

	sanitized := e.sanitizer.Sanitize(e.draft)
	if sanitized == e.original {
		e.state = StateDisplay
		e.value = e.original
		e.draft = ""
		return NoticeNone, nil
	}

	e.state = StateSaving
	stored, _, err := e.saver.Save(ctx, e.key, e.draft)
	if err != nil {
		e.state = StateDisplay
		e.value = e.original
		e.draft = ""
		return NoticeSaveFailed, err
	}

	e.state = StateDisplay
	e.value = stored
	e.draft = ""
	return NoticeSaved, nil
}
