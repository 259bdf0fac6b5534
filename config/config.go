// Package config resolves converter settings from command line arguments
// and the ENCCONV_OPT environment variable.
//
// ENCCONV_OPT is split like a shell command line and parsed before the
// arguments, so explicit arguments override it. List flags accumulate
// across both.
package config

import (
	"fmt"
	"io"
	"slices"

	"github.com/google/shlex"
	"github.com/spf13/pflag"
	"go.uber.org/multierr"

	"github.com/wippyai/encconv/converter"
	"github.com/wippyai/encconv/econv"
	"github.com/wippyai/encconv/encoding"
	"github.com/wippyai/encconv/errors"
)

// EnvVar names the environment variable holding default options.
const EnvVar = "ENCCONV_OPT"

// Options holds resolved settings.
type Options struct {
	From, To string
	// External and Internal come from -E ext:int and -U.
	External, Internal string

	Invalid     string
	Undef       string
	Replacement string
	Newline     string
	XML         string

	Verbosity int
	Debug     bool
	LoadPath  []string
	Scripts   []string

	// Args are the positional arguments of the command line.
	Args []string
}

var (
	invalidModes = []string{"", "replace"}
	undefModes   = []string{"", "replace", "hex"}
	newlineModes = []string{"", "universal", "crlf", "cr"}
	xmlModes     = []string{"", "text", "attr"}
)

// Register adds the option flags to fs, bound to o.
func (o *Options) Register(fs *pflag.FlagSet) {
	fs.StringVar(&o.From, "from", o.From, "source encoding")
	fs.StringVar(&o.To, "to", o.To, "destination encoding")
	fs.VarP(pairValue{&o.External, &o.Internal}, "external-encoding", "E", "external and optional internal encoding")
	fs.StringVarP(&o.Internal, "internal-encoding", "U", o.Internal, "internal encoding")
	fs.StringVar(&o.Invalid, "invalid", o.Invalid, "invalid byte handling: replace")
	fs.StringVar(&o.Undef, "undef", o.Undef, "undefined character handling: replace or hex")
	fs.StringVar(&o.Replacement, "replace", o.Replacement, "replacement text")
	fs.StringVar(&o.Newline, "newline", o.Newline, "newline conversion: universal, crlf or cr")
	fs.StringVar(&o.XML, "xml", o.XML, "XML escaping: text or attr")
	fs.CountVarP(&o.Verbosity, "verbose", "v", "increase verbosity")
	fs.BoolVarP(&o.Debug, "debug", "d", o.Debug, "debug output")
	fs.VarP(listValue{&o.LoadPath}, "load-path", "I", "directory to add to the load path")
	fs.VarP(listValue{&o.Scripts}, "eval", "e", "inline script")
}

// ApplyEnv parses the value of EnvVar into o. It takes options only.
func (o *Options) ApplyEnv(value string) error {
	if value == "" {
		return nil
	}
	args, err := shlex.Split(value)
	if err != nil {
		return errors.ParseFailed(EnvVar, err)
	}
	fs := pflag.NewFlagSet(EnvVar, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	o.Register(fs)
	if err := fs.Parse(args); err != nil {
		return errors.ParseFailed(EnvVar, err)
	}
	if fs.NArg() > 0 {
		return errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("%s takes options only, got %q", EnvVar, fs.Args()))
	}
	return nil
}

// Parse resolves options from the value of EnvVar followed by args. Every
// problem found is reported; the returned error combines them.
func Parse(args []string, env string) (*Options, error) {
	o := &Options{}
	err := o.ApplyEnv(env)

	fs := pflag.NewFlagSet("encconv", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	o.Register(fs)
	if perr := fs.Parse(args); perr != nil {
		return o, multierr.Append(err, errors.ParseFailed("arguments", perr))
	}
	o.Args = fs.Args()
	return o, multierr.Append(err, o.Validate())
}

// Validate checks option words and encoding names.
func (o *Options) Validate() error {
	var err error
	choice := func(flag, value string, allowed []string) {
		if !slices.Contains(allowed, value) {
			err = multierr.Append(err, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
				Value(value).
				Detail("--%s=%s: want one of %q", flag, value, allowed[1:]).
				Build())
		}
	}
	choice("invalid", o.Invalid, invalidModes)
	choice("undef", o.Undef, undefModes)
	choice("newline", o.Newline, newlineModes)
	choice("xml", o.XML, xmlModes)

	for _, name := range []string{o.From, o.To, o.External, o.Internal} {
		if name == "" {
			continue
		}
		if _, lerr := encoding.Lookup(name); lerr != nil {
			err = multierr.Append(err, lerr)
		}
	}
	return err
}

// Source is the encoding input is read in: --from, else the external
// encoding, else UTF-8.
func (o *Options) Source() string {
	switch {
	case o.From != "":
		return o.From
	case o.External != "":
		return o.External
	}
	return encoding.UTF8
}

// Destination is the encoding output is written in: --to, else the
// internal encoding, else UTF-8.
func (o *Options) Destination() string {
	switch {
	case o.To != "":
		return o.To
	case o.Internal != "":
		return o.Internal
	}
	return encoding.UTF8
}

// Flags returns the converter flags selected by the options.
func (o *Options) Flags() econv.Flags {
	var f econv.Flags
	if o.Invalid == "replace" {
		f |= econv.InvalidReplace
	}
	switch o.Undef {
	case "replace":
		f |= econv.UndefReplace
	case "hex":
		f |= econv.UndefHexCharref
	}
	switch o.Newline {
	case "universal":
		f |= econv.UniversalNewline
	case "crlf":
		f |= econv.CRLFNewline
	case "cr":
		f |= econv.CRNewline
	}
	switch o.XML {
	case "text":
		f |= econv.XMLText
	case "attr":
		f |= econv.XMLAttrContent | econv.XMLAttrQuote
	}
	return f
}

// ConverterOptions returns the converter options selected by o.
func (o *Options) ConverterOptions() []converter.Option {
	opts := []converter.Option{converter.WithFlags(o.Flags())}
	if o.Replacement != "" {
		opts = append(opts, converter.WithReplacement(o.Replacement))
	}
	return opts
}
