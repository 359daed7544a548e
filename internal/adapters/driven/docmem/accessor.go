// Package docmem is an in-memory implementation of the document
// accessor port.
//
// It reproduces the host object model's semantics that the workflow
// depends on: mutations queue until an explicit Commit, queued search
// results are empty until committed, edits applied while tracking is
// on are recorded as rejectable changes, and capabilities can be
// withheld to exercise degradation paths. It backs both the test suite
// and the CLI driver's plain-text documents.
package docmem

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/LucasOliveira02/Confidential-Information-Redactor/internal/core/domain"
	"github.com/LucasOliveira02/Confidential-Information-Redactor/internal/core/ports/driven"
)

// Ensure Accessor implements the interface.
var _ driven.DocumentAccessor = (*Accessor)(nil)

// Hyperlink is a clickable link attached to part of a paragraph.
type Hyperlink struct {
	Start, End int
	URL        string
}

// StyledRun records styling applied to a body range, for inspection.
type StyledRun struct {
	Paragraph  int
	Start, End int
	Style      domain.TextStyle
}

type paragraph struct {
	text  string
	style domain.TextStyle
	links []Hyperlink
}

type span struct {
	para       int
	start, end int
}

type changeKind int

const (
	changeReplace changeKind = iota
	changeInsertHeader
)

type change struct {
	id     string
	kind   changeKind
	para   int
	before string
	after  string
}

type searchHandle struct {
	mu        sync.Mutex
	committed bool
	refs      []domain.RangeRef
}

// Ranges returns the matched ranges, or domain.ErrNotCommitted if the
// search's batch has not been flushed yet.
func (h *searchHandle) Ranges() ([]domain.RangeRef, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.committed {
		return nil, domain.ErrNotCommitted
	}
	refs := make([]domain.RangeRef, len(h.refs))
	copy(refs, h.refs)
	return refs, nil
}

// Accessor holds a document as ordered body paragraphs plus a header
// region, with an operation queue flushed at Commit.
type Accessor struct {
	mu sync.Mutex

	caps map[domain.Capability]bool
	mode domain.TrackingMode

	body   []*paragraph
	header []*paragraph

	queue  []func() error
	ranges map[domain.RangeRef]*span
	runs   []StyledRun

	changes []change

	mutations int
	commits   int
}

// Option configures a new Accessor.
type Option func(*Accessor)

// WithoutCapability withholds a host capability, so calls depending on
// it fail with domain.ErrCapabilityUnsupported.
func WithoutCapability(c domain.Capability) Option {
	return func(a *Accessor) {
		a.caps[c] = false
	}
}

// WithTrackingMode sets the initial committed tracking mode.
func WithTrackingMode(m domain.TrackingMode) Option {
	return func(a *Accessor) {
		a.mode = m
	}
}

// New creates a document from body paragraphs. Both capabilities are
// supported unless withheld, and tracking starts off.
func New(body []string, opts ...Option) *Accessor {
	a := &Accessor{
		caps: map[domain.Capability]bool{
			domain.CapabilityTrackingMode:    true,
			domain.CapabilityChangeRejection: true,
		},
		mode:   domain.TrackingOff,
		ranges: make(map[domain.RangeRef]*span),
	}
	for _, text := range body {
		a.body = append(a.body, &paragraph{text: text})
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// seedHeader appends a pre-existing header paragraph. Seeded
// paragraphs are part of the loaded document, not tracked changes.
func (a *Accessor) seedHeader(text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.header = append(a.header, &paragraph{text: text})
}

// Supports reports whether the host provides the given capability.
func (a *Accessor) Supports(c domain.Capability) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.caps[c]
}

// TrackingMode returns the committed change-tracking mode.
func (a *Accessor) TrackingMode(_ context.Context) (domain.TrackingMode, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.caps[domain.CapabilityTrackingMode] {
		return domain.TrackingOff, fmt.Errorf("%w: %s", domain.ErrCapabilityUnsupported, domain.CapabilityTrackingMode)
	}
	return a.mode, nil
}

// SetTrackingMode queues a tracking-mode change.
func (a *Accessor) SetTrackingMode(_ context.Context, m domain.TrackingMode) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.caps[domain.CapabilityTrackingMode] {
		return fmt.Errorf("%w: %s", domain.ErrCapabilityUnsupported, domain.CapabilityTrackingMode)
	}
	a.mutations++
	a.queue = append(a.queue, func() error {
		a.mode = m
		return nil
	})
	return nil
}

// BodyText returns the committed body text, paragraphs joined by
// newlines.
func (a *Accessor) BodyText(_ context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return joinParagraphs(a.body), nil
}

// HeaderText returns the committed header text.
func (a *Accessor) HeaderText(_ context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return joinParagraphs(a.header), nil
}

func joinParagraphs(paras []*paragraph) string {
	texts := make([]string, len(paras))
	for i, p := range paras {
		texts[i] = p.text
	}
	return strings.Join(texts, "\n")
}

// InsertHeaderParagraph queues insertion of a styled paragraph at the
// start of the header region.
func (a *Accessor) InsertHeaderParagraph(_ context.Context, text string, style domain.TextStyle) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mutations++
	a.queue = append(a.queue, func() error {
		a.header = append([]*paragraph{{text: text, style: style}}, a.header...)
		if a.mode == domain.TrackingAll {
			a.changes = append(a.changes, change{
				id:   uuid.NewString(),
				kind: changeInsertHeader,
				para: 0,
			})
		}
		return nil
	})
	return nil
}

// SearchBody queues a literal search of the body. The handle's results
// become available after the next Commit.
func (a *Accessor) SearchBody(_ context.Context, literal string, opts domain.SearchOptions) (driven.SearchHandle, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	h := &searchHandle{}
	a.queue = append(a.queue, func() error {
		h.mu.Lock()
		defer h.mu.Unlock()
		for i, p := range a.body {
			for _, sp := range findOccurrences(p.text, literal, opts.MatchCase) {
				ref := domain.RangeRef(uuid.NewString())
				a.ranges[ref] = &span{para: i, start: sp[0], end: sp[1]}
				h.refs = append(h.refs, ref)
			}
		}
		h.committed = true
		return nil
	})
	return h, nil
}

// findOccurrences returns non-overlapping [start,end) byte offsets of
// literal in text, left to right. Case-insensitive matching folds rune
// by rune over the original text, so the offsets always slice text
// itself. Lowering the whole paragraph first would skew offsets when a
// fold changes a rune's encoded length.
func findOccurrences(text, literal string, matchCase bool) [][2]int {
	if literal == "" {
		return nil
	}
	var out [][2]int
	if matchCase {
		idx := 0
		for {
			i := strings.Index(text[idx:], literal)
			if i < 0 {
				break
			}
			abs := idx + i
			out = append(out, [2]int{abs, abs + len(literal)})
			idx = abs + len(literal)
		}
		return out
	}
	for i := 0; i < len(text); {
		if end, ok := foldMatchAt(text, literal, i); ok {
			out = append(out, [2]int{i, end})
			i = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return out
}

// foldMatchAt reports whether literal case-folds against text starting
// at byte offset start, returning the end offset in text on match.
func foldMatchAt(text, literal string, start int) (int, bool) {
	i := start
	for _, lr := range literal {
		r, size := utf8.DecodeRuneInString(text[i:])
		if size == 0 || !runeFoldEq(r, lr) {
			return 0, false
		}
		i += size
	}
	return i, true
}

// runeFoldEq matches strings.EqualFold's simple case folding for a
// single rune pair.
func runeFoldEq(a, b rune) bool {
	if a == b {
		return true
	}
	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}

// ReplaceRange queues replacement of a range's text with styling. The
// edit is recorded as a tracked change when the effective mode at
// apply time is trackAll.
func (a *Accessor) ReplaceRange(_ context.Context, ref domain.RangeRef, text string, style domain.TextStyle) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mutations++
	a.queue = append(a.queue, func() error {
		return a.applyReplace(ref, text, style)
	})
	return nil
}

func (a *Accessor) applyReplace(ref domain.RangeRef, text string, style domain.TextStyle) error {
	sp, ok := a.ranges[ref]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownRange, ref)
	}
	p := a.body[sp.para]
	before := p.text

	p.text = p.text[:sp.start] + text + p.text[sp.end:]
	delta := sp.start + len(text) - sp.end

	// Shift everything in this paragraph sitting after the range.
	for other, osp := range a.ranges {
		if other == ref || osp.para != sp.para {
			continue
		}
		if osp.start >= sp.end {
			osp.start += delta
			osp.end += delta
		}
	}
	kept := p.links[:0]
	for _, l := range p.links {
		if l.End <= sp.start {
			kept = append(kept, l)
		} else if l.Start >= sp.end {
			kept = append(kept, Hyperlink{Start: l.Start + delta, End: l.End + delta, URL: l.URL})
		}
		// Links overlapping the replaced range are dropped with it.
	}
	p.links = kept
	for i := range a.runs {
		if a.runs[i].Paragraph == sp.para && a.runs[i].Start >= sp.end {
			a.runs[i].Start += delta
			a.runs[i].End += delta
		}
	}

	sp.end = sp.start + len(text)
	if !style.IsZero() {
		a.runs = append(a.runs, StyledRun{Paragraph: sp.para, Start: sp.start, End: sp.end, Style: style})
	}

	if a.mode == domain.TrackingAll {
		a.changes = append(a.changes, change{
			id:     uuid.NewString(),
			kind:   changeReplace,
			para:   sp.para,
			before: before,
			after:  p.text,
		})
	}
	return nil
}

// StripHyperlink queues removal of any hyperlink overlapping the range.
func (a *Accessor) StripHyperlink(_ context.Context, ref domain.RangeRef) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mutations++
	a.queue = append(a.queue, func() error {
		sp, ok := a.ranges[ref]
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrUnknownRange, ref)
		}
		p := a.body[sp.para]
		before := p.text
		kept := p.links[:0]
		for _, l := range p.links {
			if l.End <= sp.start || l.Start >= sp.end {
				kept = append(kept, l)
			}
		}
		p.links = kept
		// Unlinking leaves the text as-is, but it is still a tracked
		// mutation when tracking is on.
		if a.mode == domain.TrackingAll {
			a.changes = append(a.changes, change{
				id:     uuid.NewString(),
				kind:   changeReplace,
				para:   sp.para,
				before: before,
				after:  p.text,
			})
		}
		return nil
	})
	return nil
}

// RejectAllChanges restores the pre-change text of every tracked
// change, newest first. It takes effect immediately.
func (a *Accessor) RejectAllChanges(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.caps[domain.CapabilityChangeRejection] {
		return fmt.Errorf("%w: %s", domain.ErrCapabilityUnsupported, domain.CapabilityChangeRejection)
	}
	for i := len(a.changes) - 1; i >= 0; i-- {
		c := a.changes[i]
		switch c.kind {
		case changeReplace:
			a.body[c.para].text = c.before
			a.dropRuns(c.para)
		case changeInsertHeader:
			if c.para < len(a.header) {
				a.header = append(a.header[:c.para], a.header[c.para+1:]...)
			}
		}
	}
	a.changes = nil
	// Range handles are positional; rejection invalidates them all.
	a.ranges = make(map[domain.RangeRef]*span)
	return nil
}

func (a *Accessor) dropRuns(para int) {
	kept := a.runs[:0]
	for _, r := range a.runs {
		if r.Paragraph != para {
			kept = append(kept, r)
		}
	}
	a.runs = kept
}

// Commit flushes all queued operations in order.
func (a *Accessor) Commit(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.commits++
	for len(a.queue) > 0 {
		op := a.queue[0]
		a.queue = a.queue[1:]
		if err := op(); err != nil {
			return err
		}
	}
	return nil
}

// SetHyperlink attaches a link directly to committed state. Test and
// driver setup helper, not part of the port.
func (a *Accessor) SetHyperlink(para, start, end int, url string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.body[para].links = append(a.body[para].links, Hyperlink{Start: start, End: end, URL: url})
}

// BodyParagraphs returns the committed body paragraph texts.
func (a *Accessor) BodyParagraphs() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.body))
	for i, p := range a.body {
		out[i] = p.text
	}
	return out
}

// HeaderParagraphs returns the committed header paragraph texts.
func (a *Accessor) HeaderParagraphs() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.header))
	for i, p := range a.header {
		out[i] = p.text
	}
	return out
}

// HeaderParagraphStyle returns the style of a header paragraph.
func (a *Accessor) HeaderParagraphStyle(i int) domain.TextStyle {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.header[i].style
}

// Hyperlinks returns the committed links of a body paragraph.
func (a *Accessor) Hyperlinks(para int) []Hyperlink {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Hyperlink, len(a.body[para].links))
	copy(out, a.body[para].links)
	return out
}

// StyledRuns returns every styled body range applied so far.
func (a *Accessor) StyledRuns() []StyledRun {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]StyledRun, len(a.runs))
	copy(out, a.runs)
	return out
}

// Mode returns the committed tracking mode without a capability check.
func (a *Accessor) Mode() domain.TrackingMode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// MutationCount returns how many mutating operations have been queued.
func (a *Accessor) MutationCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mutations
}

// CommitCount returns how many commits have been requested.
func (a *Accessor) CommitCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.commits
}

// ChangeCount returns the number of recorded tracked changes.
func (a *Accessor) ChangeCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.changes)
}
