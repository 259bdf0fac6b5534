package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wippyai/encconv/converter"
	"github.com/wippyai/encconv/encoding"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	encStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	dstStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [SRC]",
		Short: "List direct conversions, or every destination reachable from SRC",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			styled := isTerminal(cmd.OutOrStdout())
			if len(args) == 1 {
				return listDestinations(cmd.OutOrStdout(), args[0], styled)
			}
			listTranscoders(cmd.OutOrStdout(), styled)
			return nil
		},
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func render(s lipgloss.Style, text string, styled bool) string {
	if !styled {
		return text
	}
	return s.Render(text)
}

func listTranscoders(w io.Writer, styled bool) {
	if styled {
		fmt.Fprintln(w, titleStyle.Render("Transcoders"))
	}
	converter.EachTranscoder(func(src string, dsts []string) {
		names := make([]string, len(dsts))
		for i, d := range dsts {
			names[i] = render(dstStyle, d, styled)
		}
		fmt.Fprintf(w, "%s -> %s\n", render(encStyle, src, styled), strings.Join(names, ", "))
	})
}

func listDestinations(w io.Writer, src string, styled bool) error {
	enc, err := encoding.Lookup(src)
	if err != nil {
		return err
	}
	if styled {
		fmt.Fprintln(w, titleStyle.Render("Destinations of "+enc.Name))
	}
	for _, d := range converter.AvailableDestinations(enc.Name) {
		fmt.Fprintln(w, render(dstStyle, d, styled))
	}
	return nil
}
