package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/encconv/config"
	"github.com/wippyai/encconv/converter"
	"github.com/wippyai/encconv/econv"
	"github.com/wippyai/encconv/transcoder"
)

func main() {
	opts := &config.Options{}
	if err := opts.ApplyEnv(os.Getenv(config.EnvVar)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := newRootCmd(opts).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(opts *config.Options) *cobra.Command {
	root := &cobra.Command{
		Use:           "encconv",
		Short:         "Convert text between character encodings",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Validate(); err != nil {
				return err
			}
			return setupLogging(opts)
		},
	}
	opts.Register(root.PersistentFlags())

	root.AddCommand(
		newListCmd(),
		newPathCmd(opts),
		newConvertCmd(opts),
		newBrowseCmd(opts),
		newOptionsCmd(opts),
	)
	return root
}

func setupLogging(opts *config.Options) error {
	if opts.Verbosity == 0 && !opts.Debug {
		return nil
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	transcoder.SetLogger(logger.Named("transcoder"))
	econv.SetLogger(logger.Named("econv"))
	converter.SetLogger(logger.Named("converter"))
	return nil
}

func newPathCmd(opts *config.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "path [SRC DST]",
		Short: "Show the conversion path between two encodings",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, dst := opts.Source(), opts.Destination()
			if len(args) > 0 {
				src = args[0]
			}
			if len(args) > 1 {
				dst = args[1]
			}
			path, err := converter.SearchConvpath(src, dst, opts.Flags())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, st := range path {
				fmt.Fprintf(out, "%d. %s\n", i+1, st)
			}
			return nil
		},
	}
}

func newOptionsCmd(opts *config.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "Print the resolved options",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "source:      %s\n", opts.Source())
			fmt.Fprintf(out, "destination: %s\n", opts.Destination())
			fmt.Fprintf(out, "flags:       %#x\n", uint32(opts.Flags()))
			fmt.Fprintf(out, "replacement: %q\n", opts.Replacement)
			fmt.Fprintf(out, "verbosity:   %d\n", opts.Verbosity)
			fmt.Fprintf(out, "debug:       %t\n", opts.Debug)
			fmt.Fprintf(out, "load path:   %q\n", opts.LoadPath)
			fmt.Fprintf(out, "scripts:     %q\n", opts.Scripts)
		},
	}
}
