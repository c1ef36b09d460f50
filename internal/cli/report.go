package cli

import (
	"fmt"
	"io"

	"github.com/pluginkit/plugclone/internal/attribute"
	"github.com/pluginkit/plugclone/internal/substitute"
)

// reporter prints substitution progress. Missing target files are warned
// about once per run even though every job looks for them.
type reporter struct {
	out, errOut io.Writer
	warned      map[string]bool
}

func newReporter(out, errOut io.Writer) *reporter {
	return &reporter{out: out, errOut: errOut, warned: make(map[string]bool)}
}

func (r *reporter) substitution(res *substitute.Result) {
	for _, c := range res.Replaced {
		fmt.Fprintf(r.out, "  %-8s %s (%d)\n", res.Job.Attribute, c.Path, c.Replacements)
	}
	for _, m := range res.Missing {
		if r.warned[m] {
			continue
		}
		r.warned[m] = true
		fmt.Fprintf(r.errOut, "warning: %s not found, skipped\n", m)
	}
}

func (r *reporter) substitutions(results []*substitute.Result) {
	for _, res := range results {
		r.substitution(res)
	}
}

func (r *reporter) unknownAttribute(name string) {
	fmt.Fprintf(r.errOut, "unrecognized attribute %q (valid: %v)\n", name, attribute.All())
}
