package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"zappem.net/pub/math/transforms/transform"
)

// Scenario is one expression of a run file. A named scenario binds its
// transform to the name for the scenarios that follow.
type Scenario struct {
	Name   string              `yaml:"name"`
	Expr   string              `yaml:"expr"`
	Values map[string]string   `yaml:"values"`
	Batch  map[string][]string `yaml:"batch"`
	LaTeX  bool                `yaml:"latex"`
}

// RunFile is the YAML document read by the run command.
type RunFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run FILE",
		Short: "Evaluate the scenarios of a YAML file",
		Long: `Run reads a YAML file of scenarios and evaluates them in order:

  scenarios:
    - name: A
      expr: Tx(alpha)*Ty(beta)
      values: {alpha: 10deg, beta: 15deg}
    - expr: A*[1,0,0]
      batch: {alpha: [0, 45deg, 90deg], beta: [0, 0, 0]}
      latex: true`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := readRunFile(args[0])
			if err != nil {
				return err
			}
			return a.run(cmd.OutOrStdout(), f)
		},
	}
}

func readRunFile(path string) (*RunFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	var f RunFile
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &f, nil
}

func (a *app) run(w io.Writer, f *RunFile) error {
	env := make(map[string]*transform.Transform)
	p := a.parser(env)
	for i, s := range f.Scenarios {
		label := s.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
		}
		if err := a.scenario(w, p, s, label); err != nil {
			return fmt.Errorf("scenario %s: %w", label, err)
		}
	}
	return nil
}

func (a *app) scenario(w io.Writer, p *transform.Parser, s Scenario, label string) error {
	t, err := p.Parse(s.Expr)
	if err != nil {
		return err
	}
	if s.Name != "" {
		p.Env[s.Name] = t
	}
	a.logger.Debug("running scenario", "scenario", label, "expr", s.Expr, "params", t.Params())
	fmt.Fprintf(w, "# %s: %s\n", label, s.Expr)

	var args []any
	if len(s.Values) != 0 || len(s.Batch) != 0 {
		kw := make(transform.Kw)
		for name, v := range s.Values {
			if kw[name], err = parseValue(v); err != nil {
				return err
			}
		}
		for name, vs := range s.Batch {
			if kw[name], err = parseValues(vs); err != nil {
				return err
			}
		}
		args = append(args, kw)
	}
	if err := evaluate(w, t, args); err != nil {
		return err
	}
	if s.LaTeX {
		name := s.Name
		if name == "" {
			name = "T"
		}
		if _, err := t.PrintLaTeX(w, name); err != nil {
			return err
		}
	}
	return nil
}
