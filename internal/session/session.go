// Package session owns the client-side state shared across the UI: the
// active dataset binding, the conversation transcript, and the profile fact
// list. All mutation goes through the Begin/Complete/Fail methods below;
// rendering collaborators only read snapshots.
//
// The container assumes a single logical thread of control (the Bubble Tea
// update loop, or a sequential CLI command). Network calls happen between a
// Begin and its Complete/Fail; the in-flight flags are what serializes each
// workflow.
package session

import (
	"errors"
	"strings"

	"github.com/datadeck-dev/datadeck/internal/api"
	"github.com/datadeck-dev/datadeck/internal/dataset"
)

// Turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is a single entry in the conversation transcript.
type Turn struct {
	Role    string
	Content string
}

// Validation errors, raised before any network call.
var (
	ErrEmptyInput = errors.New("input is empty")
	ErrBusy       = errors.New("another request is still in flight")
	ErrFileType   = errors.New("only .csv, .tsv and .txt files are supported")
	ErrSampleRows = errors.New("sample rows must be one of 50, 100, 500, 1000, 2000")
)

// Generic fallback messages for transport failures without structured detail.
const (
	genericUploadError = "File upload failed. Check that the backend is running."
	genericChatError   = "Failed to send the message. Check that the backend is running."
	genericSaveError   = "Failed to save the fact."
	genericResetError  = "Reset failed. Server state was left untouched."
)

// userMessage picks the string surfaced for a failed operation. Validation
// and decode errors carry their own text; application errors carry the
// backend's; transport errors fall back to the generic message.
func userMessage(err error, fallback string) string {
	if errors.Is(err, ErrEmptyInput) || errors.Is(err, ErrBusy) ||
		errors.Is(err, ErrFileType) || errors.Is(err, ErrSampleRows) {
		return err.Error()
	}
	var de *dataset.DecodeError
	if errors.As(err, &de) {
		return de.Error()
	}
	return api.UserMessage(err, fallback)
}

// Session is the owned state container for one client run.
type Session struct {
	binding    *dataset.Binding
	transcript []Turn
	profile    []string

	uploading bool
	sending   bool
	saving    bool
	resetting bool

	uploadErr  string
	chatErr    string
	profileErr string
	resetErr   string

	// savedNotice is the transient "fact saved" indicator. The caller is
	// responsible for scheduling ClearNotice after a short delay.
	savedNotice bool
}

// New returns an empty session: no dataset, no transcript, no profile.
func New() *Session {
	return &Session{}
}

// Binding returns the active dataset binding, or nil when none is bound.
func (s *Session) Binding() *dataset.Binding {
	return s.binding
}

// Transcript returns a copy of the conversation turns in order.
func (s *Session) Transcript() []Turn {
	return append([]Turn(nil), s.transcript...)
}

// Profile returns a copy of the loaded profile facts in order.
func (s *Session) Profile() []string {
	return append([]string(nil), s.profile...)
}

func (s *Session) Uploading() bool { return s.uploading }
func (s *Session) Sending() bool   { return s.sending }
func (s *Session) Saving() bool    { return s.saving }
func (s *Session) Resetting() bool { return s.resetting }

func (s *Session) UploadError() string  { return s.uploadErr }
func (s *Session) ChatError() string    { return s.chatErr }
func (s *Session) ProfileError() string { return s.profileErr }
func (s *Session) ResetError() string   { return s.resetErr }

// SavedNotice reports whether the transient save-success indicator is up.
func (s *Session) SavedNotice() bool { return s.savedNotice }

// ClearNotice dismisses the transient save-success indicator.
func (s *Session) ClearNotice() { s.savedNotice = false }

// Busy reports whether any operation is in flight. Reset demands exclusion
// against everything else; the other workflows only serialize against
// themselves.
func (s *Session) Busy() bool {
	return s.uploading || s.sending || s.saving || s.resetting
}

// ----------------------------------------------------------------------------
// Upload workflow
// ----------------------------------------------------------------------------

// BeginUpload validates the upload parameters and marks the upload in flight.
// At most one upload may be outstanding at a time.
func (s *Session) BeginUpload(filename string, sampleRows int) error {
	if s.uploading || s.resetting {
		return ErrBusy
	}
	if !dataset.AllowedFile(filename) {
		return ErrFileType
	}
	if !dataset.ValidSampleRows(sampleRows) {
		return ErrSampleRows
	}
	s.uploading = true
	s.uploadErr = ""
	return nil
}

// CompleteUpload installs the new binding, replacing any previous dataset
// atomically from the dependents' point of view.
func (s *Session) CompleteUpload(b *dataset.Binding) {
	s.uploading = false
	s.binding = b
	s.uploadErr = ""
}

// FailUpload surfaces the upload error and leaves the previous binding, if
// any, in place.
func (s *Session) FailUpload(err error) {
	s.uploading = false
	s.uploadErr = userMessage(err, genericUploadError)
}

// ----------------------------------------------------------------------------
// Conversation workflow
// ----------------------------------------------------------------------------

// SetHistory replaces the whole local transcript with the server's. Used at
// session start; a failed history load simply leaves the transcript empty.
func (s *Session) SetHistory(turns []Turn) {
	s.transcript = append([]Turn(nil), turns...)
}

// BeginSend validates text, optimistically appends the user turn, and marks
// the send in flight. The user turn is never rolled back, even if the send
// later fails. Returns the text to put on the wire.
func (s *Session) BeginSend(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyInput
	}
	if s.sending || s.resetting {
		return "", ErrBusy
	}
	s.transcript = append(s.transcript, Turn{Role: RoleUser, Content: text})
	s.sending = true
	s.chatErr = ""
	return text, nil
}

// CompleteSend appends the assistant reply for the in-flight send.
func (s *Session) CompleteSend(reply string) {
	s.sending = false
	s.transcript = append(s.transcript, Turn{Role: RoleAssistant, Content: reply})
}

// FailSend surfaces the chat error. No assistant turn is appended; the
// optimistic user turn stays.
func (s *Session) FailSend(err error) {
	s.sending = false
	s.chatErr = userMessage(err, genericChatError)
}

// ----------------------------------------------------------------------------
// Profile workflow
// ----------------------------------------------------------------------------

// SetProfile replaces the local fact list wholesale with the server's.
func (s *Session) SetProfile(facts []string) {
	s.profile = append([]string(nil), facts...)
	s.profileErr = ""
}

// BeginSaveFact validates the fact text and marks the save in flight. Unlike
// chat sends, nothing is appended locally until the backend confirms.
func (s *Session) BeginSaveFact(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyInput
	}
	if s.saving || s.resetting {
		return ErrBusy
	}
	s.saving = true
	s.profileErr = ""
	return nil
}

// CompleteSaveFact appends the confirmed fact and raises the transient
// save-success indicator.
func (s *Session) CompleteSaveFact(fact string) {
	s.saving = false
	s.profile = append(s.profile, fact)
	s.savedNotice = true
}

// FailSaveFact surfaces the save error; the fact list is unchanged.
func (s *Session) FailSaveFact(err error) {
	s.saving = false
	s.profileErr = userMessage(err, genericSaveError)
}

// ----------------------------------------------------------------------------
// Reset workflow
// ----------------------------------------------------------------------------

// BeginReset marks the reset in flight. Reset excludes every other operation:
// it may not start while anything is outstanding, and nothing else may start
// while it is.
func (s *Session) BeginReset() error {
	if s.Busy() {
		return ErrBusy
	}
	s.resetting = true
	s.resetErr = ""
	return nil
}

// CompleteReset clears all client state back to freshly-started: dataset
// absent, transcript empty, profile cache empty, every error dismissed.
func (s *Session) CompleteReset() {
	*s = Session{}
}

// FailReset surfaces the reset error and leaves all other state exactly as it
// was before the call.
func (s *Session) FailReset(err error) {
	s.resetting = false
	s.resetErr = userMessage(err, genericResetError)
}
