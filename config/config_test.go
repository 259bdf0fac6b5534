package config

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/multierr"

	"github.com/wippyai/encconv/converter"
	"github.com/wippyai/encconv/econv"
	encerrors "github.com/wippyai/encconv/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  string
		want Options
		src  string
		dst  string
	}{
		{
			name: "arguments",
			args: []string{"--from", "sjis", "--to=euc-kr", "-vv", "file.txt"},
			want: Options{From: "sjis", To: "euc-kr", Verbosity: 2, Args: []string{"file.txt"}},
			src:  "sjis", dst: "euc-kr",
		},
		{
			name: "environment first",
			args: []string{"--to", "UTF-32BE", "-I", "/b"},
			env:  "--to=UTF-16LE --undef=hex -I /a -d",
			want: Options{To: "UTF-32BE", Undef: "hex", Debug: true, LoadPath: []string{"/a", "/b"}, Args: []string{}},
			src:  "UTF-8", dst: "UTF-32BE",
		},
		{
			name: "quoted environment",
			env:  `--replace '<?>' -e 'puts 1' --xml attr`,
			want: Options{Replacement: "<?>", Scripts: []string{"puts 1"}, XML: "attr", Args: []string{}},
			src:  "UTF-8", dst: "UTF-8",
		},
		{
			name: "external and internal",
			args: []string{"-E", "Shift_JIS:UTF-16BE"},
			want: Options{External: "Shift_JIS", Internal: "UTF-16BE", Args: []string{}},
			src:  "Shift_JIS", dst: "UTF-16BE",
		},
		{
			name: "internal only",
			args: []string{"-E", "EUC-JP", "-U", "UTF-8"},
			want: Options{External: "EUC-JP", Internal: "UTF-8", Args: []string{}},
			src:  "EUC-JP", dst: "UTF-8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := Parse(tt.args, tt.env)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if diff := cmp.Diff(tt.want, *o); diff != "" {
				t.Errorf("options mismatch (-want +got):\n%s", diff)
			}
			if o.Source() != tt.src || o.Destination() != tt.dst {
				t.Errorf("encodings = %s, %s, want %s, %s", o.Source(), o.Destination(), tt.src, tt.dst)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	invalid := &encerrors.Error{Phase: encerrors.PhaseConfig, Kind: encerrors.KindInvalidInput}

	_, err := Parse([]string{"--invalid=drop", "--newline=lf", "--from=nope"}, "")
	if got := len(multierr.Errors(err)); got != 3 {
		t.Errorf("got %d errors, want 3: %v", got, err)
	}
	if !errors.Is(err, invalid) {
		t.Errorf("error %v does not match invalid input", err)
	}

	if _, err := Parse(nil, "file.txt"); !errors.Is(err, invalid) {
		t.Errorf("positional in environment: %v", err)
	}
	if _, err := Parse(nil, `--replace "abc`); !errors.Is(err, invalid) {
		t.Errorf("unbalanced quote: %v", err)
	}
	if _, err := Parse([]string{"--no-such-flag"}, ""); !errors.Is(err, invalid) {
		t.Errorf("unknown flag: %v", err)
	}
}

func TestFlags(t *testing.T) {
	tests := []struct {
		o    Options
		want econv.Flags
	}{
		{Options{}, 0},
		{Options{Invalid: "replace"}, econv.InvalidReplace},
		{Options{Undef: "replace"}, econv.UndefReplace},
		{Options{Undef: "hex"}, econv.UndefHexCharref},
		{Options{Newline: "universal"}, econv.UniversalNewline},
		{Options{Newline: "crlf", XML: "text"}, econv.CRLFNewline | econv.XMLText},
		{Options{Newline: "cr", XML: "attr"}, econv.CRNewline | econv.XMLAttrContent | econv.XMLAttrQuote},
	}

	for _, tt := range tests {
		if got := tt.o.Flags(); got != tt.want {
			t.Errorf("%+v: Flags() = %#x, want %#x", tt.o, got, tt.want)
		}
	}
}

func TestConverterOptions(t *testing.T) {
	o, err := Parse([]string{"--to", "US-ASCII", "--undef=replace", "--replace=_"}, "")
	if err != nil {
		t.Fatal(err)
	}
	c, err := converter.New(o.Source(), o.Destination(), o.ConverterOptions()...)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	out, err := c.Convert([]byte("señor"))
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "se_or" {
		t.Errorf("output = %q", out)
	}
}
