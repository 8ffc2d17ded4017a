// Package cmd implements the likeql command line tool.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kyle-williams-1/likeql"
	"github.com/kyle-williams-1/likeql/config"
	"github.com/kyle-williams-1/likeql/registry"
)

const defaultTimeout = 30 * time.Second

type options struct {
	cfgFile   string
	field     string
	rootsFile string
	fold      bool
	verbose   bool
	timeout   time.Duration

	logger *zap.Logger
}

// NewRootCommand builds the likeql command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:           "likeql",
		Short:         "likeql - compile search-box queries into SQL LIKE and MongoDB filters",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if opts.verbose {
				opts.logger, err = zap.NewDevelopment()
			} else {
				opts.logger, err = zap.NewProduction()
			}
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = opts.logger.Sync()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.cfgFile, "config", "c", "", "Path to a YAML config file")
	flags.StringVarP(&opts.field, "field", "f", "", "Field every term is matched against")
	flags.BoolVar(&opts.fold, "fold", false, "Ignore case and accents in search terms")
	flags.StringVar(&opts.rootsFile, "roots", "", "YAML file mapping words to their roots")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	flags.DurationVar(&opts.timeout, "timeout", defaultTimeout, "Timeout for database operations")

	rootCmd.AddCommand(newCompileCommand(opts))
	rootCmd.AddCommand(newSearchCommand(opts))
	return rootCmd
}

// Execute runs the command line tool.
func Execute() error {
	rootCmd := NewRootCommand()
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintln(rootCmd.ErrOrStderr(), errorStyle.Sprint("error: ")+err.Error())
	}
	return err
}

// newParser builds a parser from the config file and command line flags.
func (o *options) newParser() (*likeql.Parser, error) {
	cfg := config.Default()
	if o.cfgFile != "" {
		var err error
		if cfg, err = config.Load(o.cfgFile); err != nil {
			return nil, err
		}
	}
	cfg.WithField(o.field)
	if o.fold {
		cfg.Transforms = appendMissing(cfg.Transforms, registry.TransformFold)
	}
	if o.rootsFile != "" {
		cfg.RootsFile = o.rootsFile
		cfg.Transforms = appendMissing(cfg.Transforms, registry.TransformRoots)
	}
	return likeql.NewWithConfig(cfg, likeql.WithLogger(o.logger))
}

func appendMissing(names []string, name string) []string {
	for _, n := range names {
		if n == name {
			return names
		}
	}
	return append(names, name)
}

// readQuery joins the arguments into one query, or reads standard input when
// there are none.
func readQuery(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok {
		if info, err := f.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
			return "", errors.New("no query given, pass it as arguments or on standard input")
		}
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read query: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}
