package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pjbriggs/arqivr/internal/config"
	"github.com/pjbriggs/arqivr/internal/core"
	"github.com/pjbriggs/arqivr/internal/filesystem"
	"github.com/pjbriggs/arqivr/internal/report"
	"github.com/pjbriggs/arqivr/pkg/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	version = "0.1.0"
	logger  *zap.Logger
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "arqivr",
		Short:   "Arqivr - index, compare and search directory trees",
		Long:    `Indexes directory trees and reports structural differences, inaccessible objects, and attribute-based search matches.`,
		Version: version,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	// Global verbose flag
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	// Add commands
	rootCmd.AddCommand(compareCmd())
	rootCmd.AddCommand(checkAccessCmd())
	rootCmd.AddCommand(findCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// initLogger initializes the logger based on the verbose flag
func initLogger() error {
	var err error
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		// Silent logger - only errors
		cfg := zap.Config{
			Level:            zap.NewAtomicLevelAt(zapcore.ErrorLevel),
			Encoding:         "json",
			OutputPaths:      []string{"stderr"},
			ErrorOutputPaths: []string{"stderr"},
			EncoderConfig:    zap.NewProductionEncoderConfig(),
		}
		logger, err = cfg.Build()
	}
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// loadConfig loads the configuration and applies the shared CLI overrides
func loadConfig(hashAlgo, format, output string, workers int) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if hashAlgo != "" {
		cfg.HashAlgo = hashAlgo
	}
	if format != "" {
		cfg.ReportFormat = format
	}
	if output != "" {
		cfg.OutputFile = output
	}
	if workers > 0 {
		cfg.Workers = workers
	}

	if !models.HashAlgorithm(cfg.HashAlgo).Valid() {
		return nil, fmt.Errorf("unknown hash algorithm: %s", cfg.HashAlgo)
	}

	return cfg, nil
}

// buildIndex builds an index with the configured engine options
func buildIndex(path string, cfg *config.Config) (*filesystem.Index, error) {
	return filesystem.NewIndex(path,
		filesystem.WithHashAlgorithm(models.HashAlgorithm(cfg.HashAlgo)),
		filesystem.WithLogger(logger))
}

// compareCmd creates the compare command
func compareCmd() *cobra.Command {
	var (
		hashAlgo string
		format   string
		output   string
		workers  int
	)

	cmd := &cobra.Command{
		Use:   "compare [source] [target]",
		Short: "Compare two directory trees",
		Long:  `Index both trees and report missing, extra, changed and restricted objects.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initLogger(); err != nil {
				return err
			}
			defer logger.Sync()

			cfg, err := loadConfig(hashAlgo, format, output, workers)
			if err != nil {
				return err
			}

			source, err := buildIndex(args[0], cfg)
			if err != nil {
				return err
			}
			target, err := buildIndex(args[1], cfg)
			if err != nil {
				return err
			}

			comparator := core.NewComparator(cfg, logger)
			diff, err := comparator.Compare(cmd.Context(), source, target)
			if err != nil {
				return err
			}

			gen, err := report.NewGenerator(cfg, logger)
			if err != nil {
				return err
			}
			return gen.Comparison(source.Root(), target.Root(), diff)
		},
	}

	addSharedFlags(cmd, &hashAlgo, &format, &output)
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Hash worker goroutines")

	return cmd
}

// checkAccessCmd creates the check-access command
func checkAccessCmd() *cobra.Command {
	var (
		hashAlgo string
		format   string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "check-access [dir]",
		Short: "List objects the current user cannot read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initLogger(); err != nil {
				return err
			}
			defer logger.Sync()

			cfg, err := loadConfig(hashAlgo, format, output, 0)
			if err != nil {
				return err
			}

			index, err := buildIndex(args[0], cfg)
			if err != nil {
				return err
			}

			inaccessible := core.CheckAccessibility(index)

			gen, err := report.NewGenerator(cfg, logger)
			if err != nil {
				return err
			}
			return gen.Accessibility(index, inaccessible)
		},
	}

	addSharedFlags(cmd, &hashAlgo, &format, &output)

	return cmd
}

// findCmd creates the find command
func findCmd() *cobra.Command {
	var (
		hashAlgo     string
		format       string
		output       string
		extensions   string
		users        string
		minSize      string
		onlyHidden   bool
		noSymlinks   bool
		noCompressed bool
		fullPaths    bool
	)

	cmd := &cobra.Command{
		Use:   "find [dir]",
		Short: "Search the tree by file attributes",
		Long:  `Index the tree and report objects matching the given filters. At least one positive filter (extensions, users, min-size or hidden) must be set.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initLogger(); err != nil {
				return err
			}
			defer logger.Sync()

			cfg, err := loadConfig(hashAlgo, format, output, 0)
			if err != nil {
				return err
			}

			filters := core.FindFilters{
				Extensions:   splitList(extensions),
				Users:        splitList(users),
				OnlyHidden:   onlyHidden,
				NoSymlinks:   noSymlinks,
				NoCompressed: noCompressed,
			}
			if minSize != "" {
				filters.MinSize, err = filesystem.ParseSize(minSize)
				if err != nil {
					return err
				}
			}

			index, err := buildIndex(args[0], cfg)
			if err != nil {
				return err
			}

			matches := core.Find(index, filters)

			gen, err := report.NewGenerator(cfg, logger)
			if err != nil {
				return err
			}
			return gen.Matches(index, matches, fullPaths)
		},
	}

	addSharedFlags(cmd, &hashAlgo, &format, &output)
	cmd.Flags().StringVarP(&extensions, "ext", "e", "", "Comma-separated type extensions to match")
	cmd.Flags().StringVarP(&users, "users", "u", "", "Comma-separated owner names to match")
	cmd.Flags().StringVar(&minSize, "min-size", "", "Minimum file size (e.g. 650K, 1M)")
	cmd.Flags().BoolVar(&onlyHidden, "hidden", false, "Match hidden objects only")
	cmd.Flags().BoolVar(&noSymlinks, "no-symlinks", false, "Drop symlinks from the results")
	cmd.Flags().BoolVar(&noCompressed, "no-compressed", false, "Drop compressed objects from the results")
	cmd.Flags().BoolVarP(&fullPaths, "full-paths", "f", false, "Report full paths to matching objects")

	return cmd
}

func addSharedFlags(cmd *cobra.Command, hashAlgo, format, output *string) {
	cmd.Flags().StringVar(hashAlgo, "hash-algo", "", "Content digest: md5, blake3")
	cmd.Flags().StringVar(format, "format", "", "Report format: text, json")
	cmd.Flags().StringVarP(output, "output", "o", "", "Write the report to a file instead of stdout")
}

// splitList splits a comma-separated flag value, dropping empty items
// and stray leading dots on extensions.
func splitList(value string) []string {
	if value == "" {
		return nil
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		item = strings.TrimPrefix(item, ".")
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
