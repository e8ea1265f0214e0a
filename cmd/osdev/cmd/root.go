// Package cmd provides the command-line interface for osdev.
package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use: "osdev",
	Short: "osdev demonstrates pointer semantics and memory-mapped I/O " +
		"over a simulated physical memory.",
	Long: `osdev demonstrates pointer semantics safely: cursors over owned ` +
		`buffers replace raw pointers, and device registers are handles ` +
		`bound to fixed addresses. Every access can be traced to a SQLite ` +
		`database and inspected over HTTP.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		// A .env file can provide OSDEV_TRACE_DB and OSDEV_MONITOR_PORT.
		// Missing files are fine.
		_ = godotenv.Load()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		// atexit.Exit so that registered trace flushes still run.
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
