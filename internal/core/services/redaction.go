// Package services contains the core workflow orchestration.
package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/LucasOliveira02/Confidential-Information-Redactor/internal/core/domain"
	"github.com/LucasOliveira02/Confidential-Information-Redactor/internal/core/ports/driven"
	"github.com/LucasOliveira02/Confidential-Information-Redactor/internal/core/ports/driving"
	"github.com/LucasOliveira02/Confidential-Information-Redactor/internal/logger"
)

// Ensure RedactionService implements the interface.
var _ driving.RedactionWorkflow = (*RedactionService)(nil)

// RedactionService orchestrates the redaction workflow against one
// document: enable change tracking, insert the confidentiality header
// idempotently, request classification, and apply redactions with
// hyperlink stripping, reporting progress through an injected sink.
//
// One service instance serves one document for one session. A single
// run is permitted at a time; re-entrant calls fail with
// domain.ErrRunInProgress. There is no cancellation once queued
// mutations are committed and no automatic retry anywhere.
type RedactionService struct {
	doc        driven.DocumentAccessor
	classifier driven.Classifier

	mu    sync.Mutex
	state driving.RunState
}

// NewRedactionService creates a workflow bound to a document and a
// classifier.
func NewRedactionService(doc driven.DocumentAccessor, classifier driven.Classifier) *RedactionService {
	return &RedactionService{
		doc:        doc,
		classifier: classifier,
		state:      driving.StateIdle,
	}
}

// State returns the workflow's current lifecycle state.
func (s *RedactionService) State() driving.RunState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *RedactionService) setState(state driving.RunState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// begin transitions idle -> running, guarding against re-entrancy.
func (s *RedactionService) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == driving.StateRunning {
		return domain.ErrRunInProgress
	}
	s.state = driving.StateRunning
	return nil
}

// Run executes the full workflow.
//
// Failure semantics: a classification failure aborts the remaining
// steps; mutations already committed (tracking enabled, header
// inserted) are not rolled back. The caller recovers via RejectAll.
func (s *RedactionService) Run(ctx context.Context, sink driving.ProgressSink) (domain.RedactionResult, error) {
	if err := s.begin(); err != nil {
		return domain.RedactionResult{}, err
	}

	report := func(p driving.Progress) {
		if sink != nil {
			sink(p)
		}
	}

	result, err := s.run(ctx, report)
	if err != nil {
		s.setState(driving.StateError)
		report(driving.Progress{State: driving.StateError, Message: err.Error()})
		return result, err
	}
	s.setState(driving.StateDone)
	return result, nil
}

func (s *RedactionService) run(ctx context.Context, report driving.ProgressSink) (domain.RedactionResult, error) {
	var result domain.RedactionResult

	report(driving.Progress{State: driving.StateRunning, Message: "Preparing document"})

	body, err := s.doc.BodyText(ctx)
	if err != nil {
		return result, fmt.Errorf("load body text: %w", err)
	}
	if strings.TrimSpace(body) == "" {
		// Not an error: nothing to process, nothing is mutated.
		logger.Info("document body is empty, ending run")
		report(driving.Progress{State: driving.StateDone, Message: "Document is empty, nothing to redact"})
		return result, nil
	}

	if err := s.EnableTracking(ctx, report); err != nil {
		return result, err
	}
	if err := s.AddConfidentialHeader(ctx); err != nil {
		return result, err
	}

	report(driving.Progress{State: driving.StateRunning, Message: "Scanning for sensitive content"})
	spans, err := s.classifier.Classify(ctx, body)
	if err != nil {
		return result, fmt.Errorf("classify document: %w", err)
	}

	result, err = s.Redact(ctx, spans, report)
	if err != nil {
		return result, err
	}

	if result.SpansProcessed == 0 {
		report(driving.Progress{State: driving.StateRunning, Message: "No sensitive content found"})
	}
	report(driving.Progress{
		State:     driving.StateDone,
		Message:   fmt.Sprintf("Redaction complete: %d items processed, %d occurrences replaced", result.SpansProcessed, result.OccurrencesReplaced),
		Processed: result.SpansProcessed,
		Total:     result.SpansProcessed,
	})
	return result, nil
}

// EnableTracking switches the document to trackAll. When the host
// lacks the capability it warns and continues without failing. When
// tracking is already on it performs zero additional mutating calls.
func (s *RedactionService) EnableTracking(ctx context.Context, sink driving.ProgressSink) error {
	if !s.doc.Supports(domain.CapabilityTrackingMode) {
		logger.Warn("host does not support %s, edits will not be tracked", domain.CapabilityTrackingMode)
		if sink != nil {
			sink(driving.Progress{
				State:   driving.StateRunning,
				Message: "Change tracking is not supported by this host, edits will not be reversible",
			})
		}
		return nil
	}

	mode, err := s.doc.TrackingMode(ctx)
	if err != nil {
		return fmt.Errorf("read tracking mode: %w", err)
	}
	if mode == domain.TrackingAll {
		return nil
	}

	if err := s.doc.SetTrackingMode(ctx, domain.TrackingAll); err != nil {
		return fmt.Errorf("set tracking mode: %w", err)
	}
	if err := s.doc.Commit(ctx); err != nil {
		return fmt.Errorf("commit tracking mode: %w", err)
	}
	logger.Debug("change tracking enabled")
	return nil
}

// AddConfidentialHeader inserts the confidentiality marker paragraph
// at the start of the first section's header. It checks before
// inserting, so repeated invocations leave exactly one marker.
func (s *RedactionService) AddConfidentialHeader(ctx context.Context) error {
	header, err := s.doc.HeaderText(ctx)
	if err != nil {
		return fmt.Errorf("read header text: %w", err)
	}
	if strings.Contains(header, domain.ConfidentialMarker) {
		return nil
	}

	if err := s.doc.InsertHeaderParagraph(ctx, domain.ConfidentialMarker, domain.HeaderStyle); err != nil {
		return fmt.Errorf("insert confidentiality header: %w", err)
	}
	if err := s.doc.Commit(ctx); err != nil {
		return fmt.Errorf("commit confidentiality header: %w", err)
	}
	logger.Debug("confidentiality header inserted")
	return nil
}

// Redact replaces every case-insensitive literal occurrence of each
// non-blank span with the redaction token, styled dark-fill/light-text
// as a tracked edit. The hyperlink strip for each occurrence happens
// with tracking off so removing a clickable link does not appear as a
// separate change. Progress is reported once per span, not per
// occurrence.
//
// Classifier spans are not guaranteed disjoint: since the redaction
// token is itself literal text, a later span can re-match an earlier
// replacement. That behaviour is preserved as-is.
func (s *RedactionService) Redact(ctx context.Context, spans []string, sink driving.ProgressSink) (domain.RedactionResult, error) {
	var result domain.RedactionResult

	work := make([]string, 0, len(spans))
	for _, span := range spans {
		if strings.TrimSpace(span) == "" {
			continue
		}
		work = append(work, span)
	}
	if len(work) == 0 {
		return result, nil
	}

	tracked := s.doc.Supports(domain.CapabilityTrackingMode)

	for i, span := range work {
		if sink != nil {
			sink(driving.Progress{
				State:     driving.StateRunning,
				Message:   fmt.Sprintf("Redacting item %d of %d", i+1, len(work)),
				Processed: i + 1,
				Total:     len(work),
			})
		}

		handle, err := s.doc.SearchBody(ctx, span, domain.SearchOptions{MatchCase: false})
		if err != nil {
			return result, fmt.Errorf("search body: %w", err)
		}
		// Queued search results are empty until the batch commits.
		if err := s.doc.Commit(ctx); err != nil {
			return result, fmt.Errorf("commit search: %w", err)
		}
		refs, err := handle.Ranges()
		if err != nil {
			return result, fmt.Errorf("read search results: %w", err)
		}

		for _, ref := range refs {
			if err := s.redactRange(ctx, ref, tracked); err != nil {
				return result, err
			}
		}

		result.SpansProcessed++
		result.OccurrencesReplaced += len(refs)
		logger.Debug("redacted span %d of %d, %d occurrence(s)", i+1, len(work), len(refs))
	}

	if err := s.doc.Commit(ctx); err != nil {
		return result, fmt.Errorf("commit replacements: %w", err)
	}
	return result, nil
}

// redactRange queues the per-occurrence edits: untracked unlink, then
// tracked replace.
func (s *RedactionService) redactRange(ctx context.Context, ref domain.RangeRef, tracked bool) error {
	if tracked {
		if err := s.doc.SetTrackingMode(ctx, domain.TrackingOff); err != nil {
			return fmt.Errorf("suspend tracking: %w", err)
		}
	}
	if err := s.doc.StripHyperlink(ctx, ref); err != nil {
		return fmt.Errorf("strip hyperlink: %w", err)
	}
	if tracked {
		if err := s.doc.SetTrackingMode(ctx, domain.TrackingAll); err != nil {
			return fmt.Errorf("resume tracking: %w", err)
		}
	}
	if err := s.doc.ReplaceRange(ctx, ref, domain.RedactionToken, domain.RedactionStyle); err != nil {
		return fmt.Errorf("replace range: %w", err)
	}
	return nil
}

// RejectAll rejects every tracked change in body and header, restoring
// the pre-redaction text. When the host cannot batch-reject it fails
// with a message instructing manual reversal and mutates nothing.
func (s *RedactionService) RejectAll(ctx context.Context) error {
	if !s.doc.Supports(domain.CapabilityChangeRejection) {
		return fmt.Errorf("%w: %s is unavailable on this host, reject the tracked changes manually from the review pane",
			domain.ErrCapabilityUnsupported, domain.CapabilityChangeRejection)
	}
	if err := s.doc.RejectAllChanges(ctx); err != nil {
		return fmt.Errorf("reject tracked changes: %w", err)
	}
	logger.Info("all tracked changes rejected")
	return nil
}
