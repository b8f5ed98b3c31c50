package main

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"zappem.net/pub/io/lined"

	"zappem.net/pub/math/transforms/transform"
)

var (
	assignment = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9_]*)\s*:=\s*(.*)$`)
	invocation = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9_]*)\((.*)\)$`)
)

// lineReader reads one line of input at a time.
type lineReader interface {
	ReadString() (string, error)
}

func newReplCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactively define and evaluate transforms",
		Long: `Repl reads one command per line:

  A := Tx(alpha)*Ty(beta)   define A (an empty right hand side removes it)
  A(10deg, 15deg)           evaluate A, positionally or with name=value
  A                         print A and its parameters
  diff A alpha              print the derivative of A by alpha
  subs A alpha 10deg        print A with alpha bound to a value
  latex A                   print A as a LaTeX equation
  list                      list the defined transforms
  exit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "transforms repl, type exit to quit\n\n")
			return a.repl(cmd.OutOrStdout(), lined.NewReader())
		},
	}
}

// repl runs an interactive session until exit or the end of input.
func (a *app) repl(w io.Writer, r lineReader) error {
	env := make(map[string]*transform.Transform)
	for {
		fmt.Fprint(w, "> ")
		line, err := r.ReadString()
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(w)
			return nil
		}
		if err != nil {
			return fmt.Errorf("unable to recover: %w", err)
		}
		done, err := a.command(w, env, strings.TrimSpace(line))
		if err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
		}
		if done {
			return nil
		}
	}
}

// command executes one line of the repl. It reports true on exit.
func (a *app) command(w io.Writer, env map[string]*transform.Transform, line string) (bool, error) {
	if line == "" || strings.HasPrefix(line, "#") {
		return false, nil
	}
	fields := strings.Fields(line)
	switch fields[0] {
	case "exit", "quit":
		fmt.Fprintln(w, "exiting")
		return true, nil
	case "list":
		var names []string
		for k := range env {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			fmt.Fprintf(w, " %s%v := %v\n", k, env[k].Params(), env[k])
		}
		return false, nil
	case "latex":
		if len(fields) != 2 {
			return false, errors.New("usage: latex <name>")
		}
		t, err := lookup(env, fields[1])
		if err != nil {
			return false, err
		}
		_, err = t.PrintLaTeX(w, fields[1])
		return false, err
	case "diff":
		if len(fields) != 3 {
			return false, errors.New("usage: diff <name> <param>")
		}
		t, err := lookup(env, fields[1])
		if err != nil {
			return false, err
		}
		d, err := t.Diff(fields[2])
		if err != nil {
			return false, err
		}
		return false, evaluate(w, d, nil)
	case "subs":
		if len(fields) != 4 {
			return false, errors.New("usage: subs <name> <param> <value>")
		}
		t, err := lookup(env, fields[1])
		if err != nil {
			return false, err
		}
		v, err := parseValue(fields[3])
		if err != nil {
			return false, err
		}
		x, err := t.Subs(fields[2], v)
		if err != nil {
			return false, err
		}
		return false, evaluate(w, x, nil)
	}

	if m := assignment.FindStringSubmatch(line); m != nil {
		if m[2] == "" {
			delete(env, m[1])
			return false, nil
		}
		t, err := a.parser(env).Parse(m[2])
		if err != nil {
			return false, fmt.Errorf("assignment to %q failed: %w", m[1], err)
		}
		env[m[1]] = t
		fmt.Fprintf(w, " %s%v := %v\n", m[1], t.Params(), t)
		return false, nil
	}
	if m := invocation.FindStringSubmatch(line); m != nil {
		if t, ok := env[m[1]]; ok {
			args, err := replArgs(m[2])
			if err != nil {
				return false, err
			}
			return false, evaluate(w, t, args)
		}
	}
	t, err := a.parser(env).Parse(line)
	if err != nil {
		return false, err
	}
	return false, evaluate(w, t, nil)
}

func lookup(env map[string]*transform.Transform, name string) (*transform.Transform, error) {
	t, ok := env[name]
	if !ok {
		return nil, fmt.Errorf("%q not defined", name)
	}
	return t, nil
}

// replArgs parses the comma separated arguments of an invocation:
// values, or name=value bindings.
func replArgs(s string) ([]any, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var positional, named []string
	for _, x := range strings.Split(s, ",") {
		if strings.Contains(x, "=") {
			named = append(named, x)
		} else {
			positional = append(positional, x)
		}
	}
	return callArgs(positional, named, nil)
}
