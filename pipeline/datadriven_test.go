package pipeline

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/cockroachdb/errors"

	"github.com/arloliu/zbewalgo/codec"
	"github.com/arloliu/zbewalgo/errs"
)

func errorClass(err error) string {
	for _, c := range []struct {
		err  error
		name string
	}{
		{errs.ErrUnknownAlgorithmName, "unknown algorithm name"},
		{errs.ErrEmptyPipeline, "empty pipeline"},
		{errs.ErrRegistryFull, "registry full"},
	} {
		if errors.Is(err, c.err) {
			return "error: " + c.name
		}
	}

	return "error: " + err.Error()
}

// TestRegistryScript runs registry scripts. Commands:
//
//	parse    input: one spec; prints the parsed pipeline and its ids
//	add      input: one spec per line; prints added/duplicate per line
//	set      input: one spec per line; replaces the registry
//	reset    restores the default pipelines
//	show     prints the registry
func TestRegistryScript(t *testing.T) {
	table := codec.Builtin()

	datadriven.Walk(t, "testdata", func(t *testing.T, path string) {
		defaults, err := Defaults(table)
		if err != nil {
			t.Fatal(err)
		}
		r := NewRegistry(defaults...)

		datadriven.RunTest(t, path, func(t *testing.T, d *datadriven.TestData) string {
			switch d.Cmd {
			case "parse":
				p, err := Parse(d.Input, table)
				if err != nil {
					return errorClass(err)
				}

				return fmt.Sprintf("%s %v", p, p.IDs())

			case "add":
				var sb strings.Builder
				for _, line := range strings.Split(d.Input, "\n") {
					p, err := Parse(line, table)
					if err == nil {
						var added bool
						if added, err = r.Add(p); err == nil {
							if added {
								fmt.Fprintf(&sb, "added %s\n", p)
							} else {
								fmt.Fprintf(&sb, "duplicate %s\n", p)
							}

							continue
						}
					}
					sb.WriteString(errorClass(err) + "\n")
				}

				return sb.String()

			case "set":
				var ps []Pipeline
				for _, line := range strings.Split(d.Input, "\n") {
					p, err := Parse(line, table)
					if err != nil {
						return errorClass(err)
					}
					ps = append(ps, p)
				}
				if err := r.Replace(ps...); err != nil {
					return errorClass(err)
				}

				return "ok"

			case "reset":
				r.Reset()
				return "ok"

			case "show":
				var sb strings.Builder
				snap := r.Snapshot()
				for i := range snap.Len() {
					fmt.Fprintf(&sb, "%d: %s\n", i, snap.At(i))
				}

				return sb.String()

			default:
				return fmt.Sprintf("unknown command: %s", d.Cmd)
			}
		})
	})
}
