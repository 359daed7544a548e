package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LucasOliveira02/Confidential-Information-Redactor/internal/adapters/driven/docmem"
	"github.com/LucasOliveira02/Confidential-Information-Redactor/internal/core/domain"
	"github.com/LucasOliveira02/Confidential-Information-Redactor/internal/core/ports/driving"
)

// stubClassifier returns canned spans or a canned error and records
// the text it was asked to classify.
type stubClassifier struct {
	mu    sync.Mutex
	spans []string
	err   error
	seen  []string
	block chan struct{} // when non-nil, Classify waits until closed
}

func (s *stubClassifier) Classify(_ context.Context, text string) ([]string, error) {
	s.mu.Lock()
	s.seen = append(s.seen, text)
	block := s.block
	s.mu.Unlock()
	if block != nil {
		<-block
	}
	return s.spans, s.err
}

func (s *stubClassifier) Ping(_ context.Context) error { return s.err }

// collectSink gathers progress reports.
type collectSink struct {
	mu      sync.Mutex
	reports []driving.Progress
}

func (c *collectSink) sink(p driving.Progress) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports = append(c.reports, p)
}

func (c *collectSink) messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.reports))
	for i, p := range c.reports {
		out[i] = p.Message
	}
	return out
}

func TestRun_EmptyDocumentMutatesNothing(t *testing.T) {
	doc := docmem.New([]string{"", "   ", "\t"})
	svc := NewRedactionService(doc, &stubClassifier{spans: []string{"anything"}})
	sink := &collectSink{}

	result, err := svc.Run(context.Background(), sink.sink)
	require.NoError(t, err)

	assert.Zero(t, result.SpansProcessed)
	assert.Zero(t, doc.MutationCount())
	assert.Zero(t, doc.CommitCount())
	assert.Empty(t, doc.HeaderParagraphs())
	assert.Equal(t, driving.StateDone, svc.State())

	joined := strings.Join(sink.messages(), " | ")
	assert.Contains(t, strings.ToLower(joined), "empty")
}

func TestRun_NoSpansPreparesButDoesNotReplace(t *testing.T) {
	doc := docmem.New([]string{"perfectly ordinary text"})
	svc := NewRedactionService(doc, &stubClassifier{spans: []string{}})

	result, err := svc.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Zero(t, result.OccurrencesReplaced)
	assert.Equal(t, domain.TrackingAll, doc.Mode())
	assert.Equal(t, []string{domain.ConfidentialMarker}, doc.HeaderParagraphs())
	assert.Equal(t, []string{"perfectly ordinary text"}, doc.BodyParagraphs())
}

func TestRun_RedactsEveryOccurrence(t *testing.T) {
	doc := docmem.New([]string{
		"ssn 123-45-6789 noted",
		"again: 123-45-6789 and 123-45-6789",
	})
	svc := NewRedactionService(doc, &stubClassifier{spans: []string{"123-45-6789"}})

	result, err := svc.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.SpansProcessed)
	assert.Equal(t, 3, result.OccurrencesReplaced)
	assert.Equal(t, []string{
		"ssn [REDACTED] noted",
		"again: [REDACTED] and [REDACTED]",
	}, doc.BodyParagraphs())

	runs := doc.StyledRuns()
	require.Len(t, runs, 3)
	for _, r := range runs {
		assert.Equal(t, domain.RedactionStyle, r.Style)
	}
}

func TestRun_HeaderTextNeverClassified(t *testing.T) {
	doc := docmem.New([]string{"body only"})
	classifier := &stubClassifier{spans: []string{}}
	svc := NewRedactionService(doc, classifier)

	_, err := svc.Run(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, classifier.seen, 1)
	assert.Equal(t, "body only", classifier.seen[0])
	assert.NotContains(t, classifier.seen[0], domain.ConfidentialMarker)
}

func TestRun_EmailPhoneScenario(t *testing.T) {
	doc := docmem.New([]string{"Contact John at john@example.com or 555-123-4567."})
	svc := NewRedactionService(doc, &stubClassifier{spans: []string{"john@example.com", "555-123-4567"}})
	sink := &collectSink{}

	result, err := svc.Run(context.Background(), sink.sink)
	require.NoError(t, err)

	assert.Equal(t, 2, result.SpansProcessed)
	assert.Equal(t, 2, result.OccurrencesReplaced)

	body := strings.Join(doc.BodyParagraphs(), "\n")
	assert.Equal(t, 2, strings.Count(body, domain.RedactionToken))
	assert.NotContains(t, body, "john@example.com")
	assert.NotContains(t, body, "555-123-4567")

	var processing []string
	for _, msg := range sink.messages() {
		if strings.Contains(msg, "Redacting item") {
			processing = append(processing, msg)
		}
	}
	require.Len(t, processing, 2)
	assert.NotEqual(t, processing[0], processing[1])

	last := sink.reports[len(sink.reports)-1]
	assert.Equal(t, driving.StateDone, last.State)
	assert.Contains(t, last.Message, "Redaction complete")
}

func TestRun_ClassifierFailureSurfacedAndPrepRetained(t *testing.T) {
	doc := docmem.New([]string{"Contact john@example.com"})
	svc := NewRedactionService(doc, &stubClassifier{
		err: fmt.Errorf("%w: quota exceeded", domain.ErrClassifierUnavailable),
	})

	_, err := svc.Run(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrClassifierUnavailable)
	assert.ErrorContains(t, err, "quota exceeded")
	assert.Equal(t, driving.StateError, svc.State())

	// Committed preparation steps are not rolled back.
	assert.Equal(t, domain.TrackingAll, doc.Mode())
	assert.Equal(t, []string{domain.ConfidentialMarker}, doc.HeaderParagraphs())
	assert.Equal(t, []string{"Contact john@example.com"}, doc.BodyParagraphs())
}

func TestAddConfidentialHeader_Idempotent(t *testing.T) {
	ctx := context.Background()
	doc := docmem.New([]string{"body"})
	svc := NewRedactionService(doc, &stubClassifier{})

	require.NoError(t, svc.AddConfidentialHeader(ctx))
	require.NoError(t, svc.AddConfidentialHeader(ctx))

	header := strings.Join(doc.HeaderParagraphs(), "\n")
	assert.Equal(t, 1, strings.Count(header, domain.ConfidentialMarker))
}

func TestEnableTracking_IdempotentWhenAlreadyOn(t *testing.T) {
	ctx := context.Background()
	doc := docmem.New([]string{"body"}, docmem.WithTrackingMode(domain.TrackingAll))
	svc := NewRedactionService(doc, &stubClassifier{})

	before := doc.MutationCount()
	require.NoError(t, svc.EnableTracking(ctx, nil))
	assert.Equal(t, before, doc.MutationCount())
}

func TestEnableTracking_UnsupportedWarnsAndContinues(t *testing.T) {
	ctx := context.Background()
	doc := docmem.New([]string{"body"}, docmem.WithoutCapability(domain.CapabilityTrackingMode))
	svc := NewRedactionService(doc, &stubClassifier{})
	sink := &collectSink{}

	require.NoError(t, svc.EnableTracking(ctx, sink.sink))
	assert.Zero(t, doc.MutationCount())

	joined := strings.Join(sink.messages(), " | ")
	assert.Contains(t, joined, "not supported")
}

func TestRun_TrackingUnsupportedStillRedacts(t *testing.T) {
	doc := docmem.New([]string{"mail a@b.co"}, docmem.WithoutCapability(domain.CapabilityTrackingMode))
	svc := NewRedactionService(doc, &stubClassifier{spans: []string{"a@b.co"}})

	result, err := svc.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.OccurrencesReplaced)
	assert.Equal(t, []string{"mail [REDACTED]"}, doc.BodyParagraphs())
	// Nothing was tracked: edits were applied destructively.
	assert.Zero(t, doc.ChangeCount())
}

func TestRun_UnlinkIsNotASeparateTrackedChange(t *testing.T) {
	doc := docmem.New([]string{"visit john@example.com now"})
	doc.SetHyperlink(0, 6, 22, "mailto:john@example.com")
	svc := NewRedactionService(doc, &stubClassifier{spans: []string{"john@example.com"}})

	_, err := svc.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Empty(t, doc.Hyperlinks(0))
	assert.Equal(t, []string{"visit [REDACTED] now"}, doc.BodyParagraphs())

	// One tracked change for the header insert, one for the text
	// replacement. The unlink happened with tracking off and left no
	// change of its own.
	assert.Equal(t, 2, doc.ChangeCount())
	// Tracking is back on once the run finishes.
	assert.Equal(t, domain.TrackingAll, doc.Mode())
}

func TestRedact_BlankSpansSkipped(t *testing.T) {
	ctx := context.Background()
	doc := docmem.New([]string{"token xyz here"})
	svc := NewRedactionService(doc, &stubClassifier{})

	result, err := svc.Redact(ctx, []string{"", "   ", "xyz"}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.SpansProcessed)
	assert.Equal(t, []string{"token [REDACTED] here"}, doc.BodyParagraphs())
}

func TestRedact_SpanWithoutOccurrencesStillCounts(t *testing.T) {
	ctx := context.Background()
	doc := docmem.New([]string{"nothing to see"})
	svc := NewRedactionService(doc, &stubClassifier{})

	result, err := svc.Redact(ctx, []string{"absent"}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.SpansProcessed)
	assert.Zero(t, result.OccurrencesReplaced)
	assert.Equal(t, []string{"nothing to see"}, doc.BodyParagraphs())
}

func TestRun_Reentrancy(t *testing.T) {
	block := make(chan struct{})
	classifier := &stubClassifier{spans: []string{}, block: block}
	doc := docmem.New([]string{"body text"})
	svc := NewRedactionService(doc, classifier)

	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.Run(context.Background(), nil)
		firstDone <- err
	}()

	// Wait for the first run to reach the blocking classifier call.
	require.Eventually(t, func() bool {
		classifier.mu.Lock()
		defer classifier.mu.Unlock()
		return len(classifier.seen) == 1
	}, 2*time.Second, time.Millisecond)

	_, err := svc.Run(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrRunInProgress)

	close(block)
	require.NoError(t, <-firstDone)
	assert.Equal(t, driving.StateDone, svc.State())
}

func TestRejectAll_RestoresDocument(t *testing.T) {
	ctx := context.Background()
	doc := docmem.New([]string{"Contact John at john@example.com or 555-123-4567."})
	svc := NewRedactionService(doc, &stubClassifier{spans: []string{"john@example.com", "555-123-4567"}})

	_, err := svc.Run(ctx, nil)
	require.NoError(t, err)
	require.Positive(t, doc.ChangeCount())

	require.NoError(t, svc.RejectAll(ctx))

	assert.Equal(t, []string{"Contact John at john@example.com or 555-123-4567."}, doc.BodyParagraphs())
	assert.Empty(t, doc.HeaderParagraphs())
	assert.Zero(t, doc.ChangeCount())
}

func TestRejectAll_UnsupportedInstructsManualReversal(t *testing.T) {
	ctx := context.Background()
	doc := docmem.New([]string{"body"}, docmem.WithoutCapability(domain.CapabilityChangeRejection))
	svc := NewRedactionService(doc, &stubClassifier{})

	err := svc.RejectAll(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCapabilityUnsupported)
	assert.Contains(t, err.Error(), "manually")
	assert.Equal(t, []string{"body"}, doc.BodyParagraphs())
}

func TestState_Transitions(t *testing.T) {
	doc := docmem.New([]string{"body"})
	svc := NewRedactionService(doc, &stubClassifier{spans: []string{}})

	assert.Equal(t, driving.StateIdle, svc.State())

	_, err := svc.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, driving.StateDone, svc.State())
}

func TestRun_ErrorState(t *testing.T) {
	doc := docmem.New([]string{"body"})
	svc := NewRedactionService(doc, &stubClassifier{err: errors.New("boom")})
	sink := &collectSink{}

	_, err := svc.Run(context.Background(), sink.sink)
	require.Error(t, err)
	assert.Equal(t, driving.StateError, svc.State())

	last := sink.reports[len(sink.reports)-1]
	assert.Equal(t, driving.StateError, last.State)
	assert.Contains(t, last.Message, "boom")
}
