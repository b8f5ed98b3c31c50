package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"zappem.net/pub/math/transforms/rotation"
	"zappem.net/pub/math/transforms/transform"
)

func newEvalCmd(a *app) *cobra.Command {
	var sets, batches []string
	cmd := &cobra.Command{
		Use:   "eval EXPR [VALUE...]",
		Short: "Evaluate a transform expression",
		Long: `Eval parses a transform expression and evaluates it. Values are
given positionally, in the parameter order of the expression, or by name
with --set and --batch. A value is in radians unless suffixed with "deg".
Without values the symbolic matrix and its parameters are printed.`,
		Example: `  transforms eval 'Tx(alpha)*Ty(beta)' 15deg 10deg
  transforms eval 'Tx(alpha)*Ty(beta)*[1,0,0]' --set beta=0.2 --batch alpha=0,45deg,90deg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.parser(nil).Parse(args[0])
			if err != nil {
				return err
			}
			vals, err := callArgs(args[1:], sets, batches)
			if err != nil {
				return err
			}
			return evaluate(cmd.OutOrStdout(), t, vals)
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Bind a parameter, name=value")
	cmd.Flags().StringArrayVar(&batches, "batch", nil, "Bind a parameter to a list of values, name=v1,v2,...")
	return cmd
}

// parseValue parses a number of radians, or of degrees with a "deg"
// suffix.
func parseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	deg := strings.HasSuffix(s, "deg")
	if deg {
		s = strings.TrimSuffix(s, "deg")
	}
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q", s)
	}
	if deg {
		return rotation.Rad(x), nil
	}
	return x, nil
}

func parseValues(ss []string) ([]float64, error) {
	xs := make([]float64, len(ss))
	for i, s := range ss {
		x, err := parseValue(s)
		if err != nil {
			return nil, err
		}
		xs[i] = x
	}
	return xs, nil
}

// binding splits "name=value".
func binding(s string) (name, value string, err error) {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", fmt.Errorf("invalid binding %q, want name=value", s)
	}
	return name, value, nil
}

// callArgs converts the command line values into the arguments of
// Transform.Call. Named bindings are passed as a single transform.Kw.
func callArgs(positional, sets, batches []string) ([]any, error) {
	var args []any
	for _, s := range positional {
		x, err := parseValue(s)
		if err != nil {
			return nil, err
		}
		args = append(args, x)
	}
	if len(sets) == 0 && len(batches) == 0 {
		return args, nil
	}
	kw := make(transform.Kw)
	for _, s := range sets {
		name, v, err := binding(s)
		if err != nil {
			return nil, err
		}
		if kw[name], err = parseValue(v); err != nil {
			return nil, err
		}
	}
	for _, s := range batches {
		name, v, err := binding(s)
		if err != nil {
			return nil, err
		}
		if kw[name], err = parseValues(strings.Split(v, ",")); err != nil {
			return nil, err
		}
	}
	return append(args, kw), nil
}

// evaluate calls t with args and prints the result. A symbolic t
// without arguments is printed as is.
func evaluate(w io.Writer, t *transform.Transform, args []any) error {
	if len(args) == 0 && len(t.Params()) != 0 {
		fmt.Fprintf(w, "params: %v\n%v\n", t.Params(), t)
		return nil
	}
	r, err := t.Call(args...)
	if err != nil {
		return err
	}
	printResult(w, r, t.IsVector())
	return nil
}

func printResult(w io.Writer, r *transform.Result, vector bool) {
	switch {
	case !r.Batched():
		fmt.Fprintf(w, "%v\n", mat.Formatted(r.Matrix(), mat.Squeeze()))
	case vector:
		for k, c := range r.Components() {
			fmt.Fprintf(w, "%s = %v\n", component(k), c)
		}
	default:
		for i, s := range r.Samples {
			fmt.Fprintf(w, "[%d]\n%v\n", i, mat.Formatted(s, mat.Squeeze()))
		}
	}
}

// component names the k'th entry of a transformed vector.
func component(k int) string {
	if k < 3 {
		return string("xyz"[k])
	}
	return strconv.Itoa(k)
}
