package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zappem.net/pub/math/transforms/internal/logging"
	"zappem.net/pub/math/transforms/transform"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errb bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errb)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errb.String(), err
}

func TestEvalSymbolic(t *testing.T) {
	out, _, err := execute(t, "eval", "Tx(alpha)*Ty(beta)")
	require.NoError(t, err)
	assert.Contains(t, out, "params: [beta alpha]")
	assert.Contains(t, out, "cos(alpha)")
}

func TestEvalValues(t *testing.T) {
	out, _, err := execute(t, "eval", "Tx(alpha)", "20deg")
	require.NoError(t, err)
	assert.Contains(t, out, "0.9396926")
	assert.Contains(t, out, "0.3420201")

	out, _, err = execute(t, "eval", "Tx(alpha)", "--set", "alpha=20deg")
	require.NoError(t, err)
	assert.Contains(t, out, "0.9396926")

	out, _, err = execute(t, "eval", "Rz(0)")
	require.NoError(t, err)
	assert.Contains(t, out, "1")
}

func TestEvalBatch(t *testing.T) {
	out, _, err := execute(t, "eval", "Tx(alpha)*[0,1,0]", "--batch", "alpha=0,90deg")
	require.NoError(t, err)
	assert.Contains(t, out, "x = [0 0]")
	assert.Contains(t, out, "z = [0 -1]")

	out, _, err = execute(t, "eval", "Tx(alpha)*Ty(beta)", "--set", "beta=0", "--batch", "alpha=0,0.5,1")
	require.NoError(t, err)
	assert.Contains(t, out, "[0]")
	assert.Contains(t, out, "[2]")
}

func TestEvalErrors(t *testing.T) {
	_, _, err := execute(t, "eval", "Tx(alpha)", "0.1", "--set", "alpha=0.2")
	assert.ErrorIs(t, err, transform.ErrMixedArgs)

	_, _, err = execute(t, "eval", "Tx(alpha)*Ty(beta)", "0.1")
	require.ErrorIs(t, err, transform.ErrArgCount)
	assert.Contains(t, err.Error(), "beta, alpha")

	_, _, err = execute(t, "eval", "Tx(alpha", "0.1")
	assert.ErrorIs(t, err, transform.ErrSyntax)

	_, _, err = execute(t, "eval", "Tx(alpha)", "ten")
	assert.Error(t, err)

	_, _, err = execute(t, "eval", "Tx(alpha)", "--set", "=1")
	assert.Error(t, err)

	_, _, err = execute(t, "--log-level", "loud", "eval", "Rx(0)")
	assert.Error(t, err)
}

func TestEvalDiagnostics(t *testing.T) {
	_, stderr, err := execute(t, "eval", "Tx(alpha)*Ty(0.1)", "0.2")
	require.NoError(t, err)
	assert.Contains(t, stderr, "mismatch")

	_, stderr, err = execute(t, "--quiet", "eval", "Tx(alpha)*Ty(0.1)", "0.2")
	require.NoError(t, err)
	assert.NotContains(t, stderr, "mismatch")

	_, stderr, err = execute(t, "--log-level", "debug", "eval", "Tx(alpha)", "0.2")
	require.NoError(t, err)
	assert.Contains(t, stderr, "evaluating transform")
}

func TestLatex(t *testing.T) {
	out, _, err := execute(t, "latex", "Rx(phi)", "--name", "R")
	require.NoError(t, err)
	assert.Contains(t, out, `\begin{equation}`)
	assert.Contains(t, out, `R = \left[\begin{matrix}1 & 0 & 0\\0 & \cos{\left(\phi \right)}`)
}

const runYAML = `scenarios:
  - name: A
    expr: Tx(alpha)*Ty(beta)
    values: {alpha: 10deg, beta: 15deg}
  - name: V
    expr: A*[1,0,0]
    batch:
      alpha: [0, 0]
      beta: [0, 90deg]
    latex: true
  - expr: Rz(0)
`

func TestRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(runYAML), 0o644))

	out, _, err := execute(t, "run", path)
	require.NoError(t, err)
	assert.Contains(t, out, "# A: Tx(alpha)*Ty(beta)")
	assert.Contains(t, out, "# V: A*[1,0,0]")
	assert.Contains(t, out, "x = [1 ")
	assert.Contains(t, out, "y = [0 0]")
	assert.Contains(t, out, `V = \left[`)
	assert.Contains(t, out, "# #3: Rz(0)")
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("scenarios:\n  - expr: Tx(alpha)\n    colour: blue\n"), 0o644))
	_, _, err := execute(t, "run", bad)
	assert.Error(t, err)

	missing := filepath.Join(dir, "missing.yaml")
	_, _, err = execute(t, "run", missing)
	assert.Error(t, err)

	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("scenarios:\n  - name: B\n    expr: A*Tx(alpha)\n"), 0o644))
	_, _, err = execute(t, "run", unknown)
	require.ErrorIs(t, err, transform.ErrSyntax)
	assert.Contains(t, err.Error(), "scenario B")
}

// script feeds lines to the repl.
type script []string

func (s *script) ReadString() (string, error) {
	if len(*s) == 0 {
		return "", io.EOF
	}
	line := (*s)[0]
	*s = (*s)[1:]
	return line, nil
}

func TestRepl(t *testing.T) {
	a := &app{logger: logging.NewNop()}
	in := script{
		"# a comment",
		"A := Tx(alpha)*Ty(beta)",
		"A(beta=0, alpha=0)",
		"A(0, 90deg)",
		"B := Rz(0.5)",
		"B :=",
		"latex B",
		"list",
		"latex A",
		"diff A gamma",
		"diff A alpha",
		"subs A alpha 10deg",
		"subs A alpha ten",
		"subs B alpha 1",
		"C(1)",
		"exit",
		"list",
	}
	var out bytes.Buffer
	require.NoError(t, a.repl(&out, &in))
	s := out.String()

	assert.Contains(t, s, " A[beta alpha] := ")
	assert.Contains(t, s, `A = \left[\begin{matrix}`)
	assert.Contains(t, s, "error: unknown parameter")
	assert.Contains(t, s, "-sin(alpha)")
	assert.Contains(t, s, "params: [beta]")
	assert.Contains(t, s, `error: invalid value "ten"`)
	assert.Contains(t, s, `error: transform syntax error: unknown name "C"`)
	assert.Contains(t, s, "exiting")
	assert.Contains(t, s, `error: "B" not defined`)
	assert.Len(t, in, 1, "input after exit is not read")
	assert.Equal(t, 1, strings.Count(s, "exiting"))
}

func TestReplEOF(t *testing.T) {
	a := &app{logger: logging.NewNop()}
	in := script{"Rz(0)"}
	var out bytes.Buffer
	require.NoError(t, a.repl(&out, &in))
	assert.Contains(t, out.String(), "1")
}
