package config

import (
	"strings"

	"github.com/spf13/pflag"
)

var (
	_ pflag.Value = listValue{}
	_ pflag.Value = pairValue{}
)

// listValue collects every occurrence of a flag, across flag sets sharing
// the same target.
type listValue struct {
	list *[]string
}

func (v listValue) Set(s string) error {
	*v.list = append(*v.list, s)
	return nil
}

func (v listValue) String() string {
	if v.list == nil {
		return ""
	}
	return strings.Join(*v.list, ",")
}

func (v listValue) Type() string { return "list" }

// pairValue parses "ext[:int]" into two encoding names.
type pairValue struct {
	external, internal *string
}

func (v pairValue) Set(s string) error {
	ext, in, found := strings.Cut(s, ":")
	if ext != "" {
		*v.external = ext
	}
	if found && in != "" {
		*v.internal = in
	}
	return nil
}

func (v pairValue) String() string {
	switch {
	case v.external == nil:
		return ""
	case *v.internal == "":
		return *v.external
	}
	return *v.external + ":" + *v.internal
}

func (v pairValue) Type() string { return "ext[:int]" }
