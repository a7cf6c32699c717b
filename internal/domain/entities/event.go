package entities

import "time"

// Step identifies which field the assistant is currently asking for.
type Step string

const (
	StepAskTitle     Step = "askTitle"
	StepAskWhen      Step = "askWhen"
	StepAskAttendees Step = "askAttendees"
	StepAskConfirm   Step = "askConfirm"
	StepAskWhatEdit  Step = "askWhatEdit"
)

// Draft is an event under construction during a conversation. A nil Start/End
// means "not set yet"; TitleKnown distinguishes a user-provided title from
// the generic placeholder.
type Draft struct {
	Title      string
	TitleKnown bool
	Start      *time.Time
	End        *time.Time
	Attendees  []string
}

// Conversation is the state of one in-progress scheduling dialogue.
// A nil *Conversation means idle (no active dialogue).
type Conversation struct {
	Step  Step
	Draft Draft
}

// SavedEvent is a persisted scheduled item.
type SavedEvent struct {
	Title     string     `json:"title"`
	Start     *time.Time `json:"start"`
	End       *time.Time `json:"end"`
	Attendees []string   `json:"attendees"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Reply is one assistant message produced by a dialogue turn.
type Reply struct {
	Text    string
	IsError bool
}
