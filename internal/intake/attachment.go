// Package intake implements the client-side resume submission form: the
// attachment slot, field collection, validation, and the multipart upload
// with its success and failure state machine.
package intake

import "sync"

// Attachment is the single resume slot of the form. Selecting a file replaces
// whatever was there; the form never carries more than one file.
type Attachment struct {
	mu   sync.Mutex
	name string
	data []byte
}

// Select replaces the slot content with the given file.
func (a *Attachment) Select(name string, data []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.name = name
	a.data = data
}

// Clear empties the slot.
func (a *Attachment) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.name = ""
	a.data = nil
}

// Selected reports whether a file is attached.
func (a *Attachment) Selected() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.name != ""
}

// Name returns the attached filename, or "" when the slot is empty.
func (a *Attachment) Name() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.name
}

// Bytes returns the attached file content.
func (a *Attachment) Bytes() []byte {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.data
}
