package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/wippyai/encconv/config"
	"github.com/wippyai/encconv/converter"
)

func newConvertCmd(opts *config.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "convert [FILE...]",
		Short: "Convert files, or standard input, to standard output",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := bufio.NewWriter(cmd.OutOrStdout())
			defer out.Flush()

			if len(args) == 0 {
				return convertStream(out, cmd.InOrStdin(), opts)
			}
			for _, name := range args {
				f, err := os.Open(name)
				if err != nil {
					return err
				}
				err = convertStream(out, f, opts)
				f.Close()
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
			}
			return nil
		},
	}
}

// convertStream converts one input with a fresh converter so shift state
// never leaks between files.
func convertStream(w io.Writer, r io.Reader, opts *config.Options) error {
	c, err := converter.New(opts.Source(), opts.Destination(), opts.ConverterOptions()...)
	if err != nil {
		return err
	}
	defer c.Close()

	_, err = io.Copy(w, converter.NewReader(r, c))
	return err
}
