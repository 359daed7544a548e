package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LucasOliveira02/Confidential-Information-Redactor/internal/adapters/driven/classifier/remote"
	"github.com/LucasOliveira02/Confidential-Information-Redactor/internal/adapters/driven/docmem"
	"github.com/LucasOliveira02/Confidential-Information-Redactor/internal/core/ports/driven"
	"github.com/LucasOliveira02/Confidential-Information-Redactor/internal/core/ports/driving"
	"github.com/LucasOliveira02/Confidential-Information-Redactor/internal/core/services"
)

var redactCmd = &cobra.Command{
	Use:   "redact [file]",
	Short: "Redact sensitive text in a document",
	Long: `Classifies the document body via the redaction API server, replaces
every occurrence of each sensitive span with a redaction token as a
tracked change, and inserts a confidentiality header. The tracked
changes are written to a sidecar change log so "redactor reject" can
restore the original text later.`,
	Args: cobra.ExactArgs(1),
	RunE: runRedact,
}

var (
	redactEndpoint string
	redactOut      string
	redactChanges  string
	redactCheck    bool
)

func init() {
	redactCmd.Flags().StringVar(&redactEndpoint, "endpoint", "", "Redaction API server base URL (default from config, then "+remote.DefaultEndpoint+")")
	redactCmd.Flags().StringVarP(&redactOut, "out", "o", "", "Output file (default: overwrite input)")
	redactCmd.Flags().StringVar(&redactChanges, "changes", "", "Change log file (default: <file>.changes.json)")
	redactCmd.Flags().BoolVar(&redactCheck, "check", false, "Only check that the classification endpoint is reachable")
	rootCmd.AddCommand(redactCmd)
}

// resolveEndpoint picks the endpoint from the flag, then the config
// store, then the built-in default.
func resolveEndpoint() string {
	if redactEndpoint != "" {
		return redactEndpoint
	}
	store, err := openConfigStore()
	if err != nil {
		return remote.DefaultEndpoint
	}
	if v := store.GetString(driven.ConfigKeyEndpoint); v != "" {
		return v
	}
	return remote.DefaultEndpoint
}

func runRedact(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	endpoint := resolveEndpoint()
	classifier := remote.New(endpoint)

	if redactCheck {
		if err := classifier.Ping(ctx); err != nil {
			return fmt.Errorf("endpoint %s is not reachable: %w", endpoint, err)
		}
		cmd.Printf("Endpoint %s is reachable\n", endpoint)
		return nil
	}

	path := args[0]
	doc, err := loadDocument(path)
	if err != nil {
		return err
	}

	workflow := services.NewRedactionService(doc, classifier)
	result, err := workflow.Run(ctx, func(p driving.Progress) {
		cmd.Printf("[%s] %s\n", p.State, p.Message)
	})
	if err != nil {
		return fmt.Errorf("redaction failed: %w", err)
	}

	outPath := redactOut
	if outPath == "" {
		outPath = defaultOutPath(path)
	}
	if err := doc.WriteFile(outPath); err != nil {
		return err
	}

	log := doc.ChangeLog()
	if !log.Empty() {
		changesPath := redactChanges
		if changesPath == "" {
			changesPath = outPath + ".changes.json"
		}
		if err := writeChangeLog(changesPath, log); err != nil {
			return err
		}
		cmd.Printf("Tracked changes written to %s (use \"redactor reject\" to restore)\n", changesPath)
	}

	cmd.Printf("Redacted %d occurrence(s) across %d item(s) into %s\n",
		result.OccurrencesReplaced, result.SpansProcessed, outPath)
	return nil
}

// loadDocument reads the input into the in-memory accessor. DOCX
// files are extracted to text; everything else is treated as plain
// text, one paragraph per line.
func loadDocument(path string) (*docmem.Accessor, error) {
	if strings.EqualFold(filepath.Ext(path), ".docx") {
		return docmem.LoadDocx(path)
	}
	return docmem.LoadFile(path)
}

// defaultOutPath keeps plain text in place. DOCX extraction is one
// way, so its redacted text goes to a sibling file instead of
// clobbering the source.
func defaultOutPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".docx") {
		return strings.TrimSuffix(path, filepath.Ext(path)) + ".redacted.txt"
	}
	return path
}

func writeChangeLog(path string, log docmem.ChangeLog) error {
	raw, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return fmt.Errorf("encode change log: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write change log: %w", err)
	}
	return nil
}
