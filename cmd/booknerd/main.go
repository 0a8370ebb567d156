package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"booknerd/internal/config"
	"booknerd/internal/dispatch"
	"booknerd/internal/intent"
	"booknerd/internal/library"
	"booknerd/internal/logging"
	"booknerd/internal/resolve"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const version = "1.0.0"

var (
	// Global flags
	verbose   bool
	workspace string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "booknerd",
	Short: "booknerd - reading companion core",
	Long: `booknerd is the decision core of a reading companion.

It classifies free-form input into commands, resolves book mentions against
your library, and runs a multi-turn discovery chat for finding your next read.

Run without arguments to start the interactive discovery chat.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if workspace == "" {
			workspace, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to determine workspace: %w", err)
			}
		}
		if err := logging.Initialize(workspace); err != nil {
			logger.Warn("debug logging unavailable", zap.Error(err))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Close()
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat()
	},
}

// runCmd dispatches a single voice/text command
var runCmd = &cobra.Command{
	Use:   "run <text>",
	Short: "Dispatch a single command",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.store.Close()

		d := dispatch.NewDispatcher(dispatch.NewRuleClassifier(), app.store)
		result := d.Dispatch(strings.Join(args, " "))
		fmt.Println(d.ResponseText())
		if result.Kind == dispatch.ResultError {
			logger.Debug("command failed", zap.String("message", result.Message))
			os.Exit(1)
		}
		return nil
	},
}

// classifyCmd shows how input would be classified, with suggestions
var classifyCmd = &cobra.Command{
	Use:   "classify <text>",
	Short: "Classify input text into an intent",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		it := intent.Classify(text)
		fmt.Printf("intent: %s\n", it.Kind)
		if it.Payload != "" {
			fmt.Printf("payload: %s\n", it.Payload)
		}
		for _, s := range intent.Suggestions(text) {
			fmt.Printf("  - %s\n", s.Title)
		}
		return nil
	},
}

// suggestCmd ranks library books against a partial title
var suggestCmd = &cobra.Command{
	Use:   "suggest <partial>",
	Short: "Rank library books against a partial title",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.store.Close()

		books, err := app.store.Books()
		if err != nil {
			return err
		}
		for _, s := range resolve.Suggestions(strings.Join(args, " "), books, resolve.DefaultSuggestionLimit) {
			fmt.Printf("%.2f  %s by %s\n", s.Score, s.Book.Title, s.Book.Author)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("booknerd %s\n", version)
	},
}

// app bundles the wired collaborators for one invocation.
type app struct {
	cfg   *config.Config
	store *library.Store
}

func openApp() (*app, error) {
	cfg, err := config.Load(workspace)
	if err != nil {
		return nil, err
	}
	store, err := library.NewStore(resolveDBPath(cfg))
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, store: store}, nil
}

func resolveDBPath(cfg *config.Config) string {
	p := cfg.Library.DatabasePath
	if p == "" {
		p = config.Default().Library.DatabasePath
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(workspace, p)
	}
	return p
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "workspace directory (default: cwd)")
	rootCmd.AddCommand(runCmd, classifyCmd, suggestCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
