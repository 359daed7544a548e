package docmem

import (
	"fmt"

	"github.com/LucasOliveira02/Confidential-Information-Redactor/internal/core/domain"
)

// Change kinds as serialised in a change log.
const (
	ChangeKindReplace      = "replace"
	ChangeKindInsertHeader = "insert-header"
)

// ChangeRecord is one tracked change in serialisable form.
type ChangeRecord struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Paragraph int    `json:"paragraph"`
	Before    string `json:"before,omitempty"`
	After     string `json:"after,omitempty"`
}

// ChangeLog captures the accessor's tracked-change state so a driver
// can reject changes in a later invocation. The document core owns no
// persistence; serialising this log is a driver concern.
type ChangeLog struct {
	// HeaderParagraphs is how many leading paragraphs of the written
	// document belong to the header region.
	HeaderParagraphs int `json:"header_paragraphs"`

	Changes []ChangeRecord `json:"changes"`
}

// Empty reports whether the log carries no tracked changes.
func (l ChangeLog) Empty() bool {
	return len(l.Changes) == 0
}

// ChangeLog exports the current tracked-change state.
func (a *Accessor) ChangeLog() ChangeLog {
	a.mu.Lock()
	defer a.mu.Unlock()
	log := ChangeLog{HeaderParagraphs: len(a.header)}
	for _, c := range a.changes {
		rec := ChangeRecord{ID: c.id, Paragraph: c.para}
		switch c.kind {
		case changeReplace:
			rec.Kind = ChangeKindReplace
			rec.Before = c.before
			rec.After = c.after
		case changeInsertHeader:
			rec.Kind = ChangeKindInsertHeader
		}
		log.Changes = append(log.Changes, rec)
	}
	return log
}

// RestoreChangeLog rebuilds tracked-change state on an accessor whose
// body holds a previously written document: the leading header
// paragraphs are moved back into the header region and the recorded
// changes become rejectable again. Tracking resumes in trackAll, the
// mode the changes were recorded under.
func (a *Accessor) RestoreChangeLog(log ChangeLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if log.HeaderParagraphs > len(a.body) {
		return fmt.Errorf("change log names %d header paragraphs, document has %d paragraphs",
			log.HeaderParagraphs, len(a.body))
	}
	a.header = a.body[:log.HeaderParagraphs]
	a.body = a.body[log.HeaderParagraphs:]

	a.changes = a.changes[:0]
	for _, rec := range log.Changes {
		c := change{id: rec.ID, para: rec.Paragraph}
		switch rec.Kind {
		case ChangeKindReplace:
			if rec.Paragraph < 0 || rec.Paragraph >= len(a.body) {
				return fmt.Errorf("change %s names paragraph %d, document body has %d", rec.ID, rec.Paragraph, len(a.body))
			}
			c.kind = changeReplace
			c.before = rec.Before
			c.after = rec.After
		case ChangeKindInsertHeader:
			if rec.Paragraph < 0 || rec.Paragraph >= len(a.header) {
				return fmt.Errorf("change %s names header paragraph %d, header has %d", rec.ID, rec.Paragraph, len(a.header))
			}
			c.kind = changeInsertHeader
		default:
			return fmt.Errorf("change %s has unknown kind %q", rec.ID, rec.Kind)
		}
		a.changes = append(a.changes, c)
	}
	if a.caps[domain.CapabilityTrackingMode] {
		a.mode = domain.TrackingAll
	}
	return nil
}
