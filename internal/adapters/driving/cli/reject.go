package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/LucasOliveira02/Confidential-Information-Redactor/internal/adapters/driven/docmem"
	"github.com/LucasOliveira02/Confidential-Information-Redactor/internal/core/services"
	"github.com/LucasOliveira02/Confidential-Information-Redactor/internal/logger"
)

var rejectCmd = &cobra.Command{
	Use:   "reject [file]",
	Short: "Reject all tracked changes, restoring the original text",
	Long: `Reads the document and its change log sidecar, rejects every tracked
change recorded by a previous "redactor redact" run, and writes the
restored document back.`,
	Args: cobra.ExactArgs(1),
	RunE: runReject,
}

var rejectChanges string

func init() {
	rejectCmd.Flags().StringVar(&rejectChanges, "changes", "", "Change log file (default: <file>.changes.json)")
	rootCmd.AddCommand(rejectCmd)
}

func runReject(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	path := args[0]

	changesPath := rejectChanges
	if changesPath == "" {
		changesPath = path + ".changes.json"
	}
	log, err := readChangeLog(changesPath)
	if err != nil {
		return err
	}

	doc, err := docmem.LoadFile(path)
	if err != nil {
		return err
	}
	if err := doc.RestoreChangeLog(log); err != nil {
		return fmt.Errorf("restore change log: %w", err)
	}

	workflow := services.NewRedactionService(doc, nil)
	if err := workflow.RejectAll(ctx); err != nil {
		return err
	}

	if err := doc.WriteFile(path); err != nil {
		return err
	}
	if err := os.Remove(changesPath); err != nil {
		logger.Warn("could not remove change log %s: %v", changesPath, err)
	}

	cmd.Printf("Rejected %d tracked change(s), %s restored\n", len(log.Changes), path)
	return nil
}

func readChangeLog(path string) (docmem.ChangeLog, error) {
	var log docmem.ChangeLog
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return log, fmt.Errorf("no change log at %s: nothing to reject", path)
		}
		return log, fmt.Errorf("read change log: %w", err)
	}
	if err := json.Unmarshal(raw, &log); err != nil {
		return log, fmt.Errorf("parse change log %s: %w", path, err)
	}
	return log, nil
}
