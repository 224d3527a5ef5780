package shadergraph

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/shadergraph/codewriter"
	"github.com/gogpu/shadergraph/layout"
)

// Options configures code generation.
type Options struct {
	// Language is the output dialect (default: cpp).
	Language codewriter.Language `yaml:"language"`

	// Scopes maps every scope to the variable its attributes live in,
	// e.g. 0: state, 1: local. Scope 0 holds state and is updated together
	// with the next scope.
	Scopes map[int]string `yaml:"scopes"`

	// Align selects the padding of declarations (default: vector).
	Align layout.AlignMode `yaml:"align"`

	// Strict aborts Prepare on the first validation error.
	Strict bool `yaml:"strict"`

	// Indent is written once per indentation level (default: tab).
	Indent string `yaml:"indent"`

	// Stop makes emission honor attributes flagged ir.FlagStop (default: true).
	Stop bool `yaml:"stop"`
}

// DefaultOptions returns options for C++ with a state and a local scope.
func DefaultOptions() Options {
	return Options{
		Language: codewriter.CPP,
		Scopes:   map[int]string{0: "state", 1: "local"},
		Align:    layout.VectorAlign,
		Indent:   "\t",
		Stop:     true,
	}
}

// ParseOptions decodes YAML options. Missing fields keep their defaults.
func ParseOptions(data []byte) (Options, error) {
	opts := DefaultOptions()
	opts.Scopes = nil
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("parse options: %w", err)
	}
	return opts.withDefaults()
}

// LoadOptions decodes YAML options from r. An empty document yields the
// defaults.
func LoadOptions(r io.Reader) (Options, error) {
	opts := DefaultOptions()
	opts.Scopes = nil
	if err := yaml.NewDecoder(r).Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return Options{}, fmt.Errorf("load options: %w", err)
	}
	return opts.withDefaults()
}

func (o Options) withDefaults() (Options, error) {
	if o.Scopes == nil {
		o.Scopes = DefaultOptions().Scopes
	}
	if o.Indent == "" {
		o.Indent = "\t"
	}
	for scope, prefix := range o.Scopes {
		if scope < 0 {
			return Options{}, fmt.Errorf("scope %d: scopes must not be negative", scope)
		}
		if prefix == "" {
			return Options{}, fmt.Errorf("scope %d: empty variable name", scope)
		}
	}
	return o, nil
}

// scopeList returns the configured scopes in ascending order.
func (o Options) scopeList() []int {
	return slices.Sorted(maps.Keys(o.Scopes))
}

// stages groups the configured scopes into update stages. The state scope
// 0 is updated together with the next scope.
func (o Options) stages() [][]int {
	scopes := o.scopeList()
	var out [][]int
	for i := 0; i < len(scopes); i++ {
		if scopes[i] == 0 && i+1 < len(scopes) {
			out = append(out, scopes[i:i+2])
			i++
			continue
		}
		out = append(out, scopes[i:i+1])
	}
	return out
}
