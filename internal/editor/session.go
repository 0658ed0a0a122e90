package editor

// TextInsertion records one free-form text overlay applied to the document.
type TextInsertion struct {
	Page int
	X    float64
	Y    float64
	Text string
}

// Session tracks the modifications applied since the document was opened.
// The document itself already holds every mutation; the session exists for
// the modified indicator and status reporting, not as a replayable edit log.
type Session struct {
	fieldWrites map[string]string
	insertions  []TextInsertion
	dirty       bool
}

// NewSession returns an empty edit session.
func NewSession() *Session {
	return &Session{fieldWrites: make(map[string]string)}
}

// RecordFieldWrite notes that a form field was overwritten. Repeated writes
// to the same field keep only the latest value.
func (s *Session) RecordFieldWrite(name, value string) {
	s.fieldWrites[name] = value
	s.dirty = true
}

// RecordInsertion notes that text was burned into a page.
func (s *Session) RecordInsertion(ins TextInsertion) {
	s.insertions = append(s.insertions, ins)
	s.dirty = true
}

// Dirty reports whether there are modifications not yet saved to disk.
func (s *Session) Dirty() bool {
	return s.dirty
}

// MarkSaved clears the dirty flag after a successful save. The edit history
// is kept for status reporting.
func (s *Session) MarkSaved() {
	s.dirty = false
}

// FieldWrites returns a copy of the applied field writes.
func (s *Session) FieldWrites() map[string]string {
	out := make(map[string]string, len(s.fieldWrites))
	for k, v := range s.fieldWrites {
		out[k] = v
	}
	return out
}

// Insertions returns a copy of the applied text insertions.
func (s *Session) Insertions() []TextInsertion {
	out := make([]TextInsertion, len(s.insertions))
	copy(out, s.insertions)
	return out
}

// EditCount returns the total number of modifications applied this session.
func (s *Session) EditCount() int {
	return len(s.fieldWrites) + len(s.insertions)
}
