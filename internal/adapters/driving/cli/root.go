// Package cli provides the redactor command-line interface.
//
// The CLI is the driving adapter standing in for a task-pane UI: it
// loads a plain-text document into the in-memory accessor, runs the
// redaction workflow against the configured classification endpoint,
// and prints progress the way a status pane would.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/LucasOliveira02/Confidential-Information-Redactor/internal/adapters/driven/config/file"
	"github.com/LucasOliveira02/Confidential-Information-Redactor/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "redactor",
	Short: "Detect and redact sensitive text in documents",
	Long: `Redactor finds PII/PHI/financial/government-ID data in a document using
a generative-AI classifier, replaces every occurrence with a redaction
token as a tracked change, and marks the document confidential.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

var (
	verboseFlag bool
	configDir   string
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose logging to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Configuration directory (default ~/.redactor)")
}

// openConfigStore opens the TOML config store in the configured
// directory.
func openConfigStore() (*file.ConfigStore, error) {
	return file.NewConfigStore(configDir)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
