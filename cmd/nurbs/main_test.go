package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexozer/nurbs/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const parabola = `
curve:
  knots: [0, 0, 0, 1, 1, 1]
  points:
    - [0, 0]
    - [1, 2]
    - [2, 0]
`

const patch = `
[surface]
knots1 = [0.0, 0.0, 0.0, 1.0, 1.0, 1.0]
knots2 = [0.0, 0.0, 1.0, 1.0]
points = [
  [0.0, 0.0, 0.0], [1.0, 0.0, 1.0], [2.0, 0.0, 0.0],
  [0.0, 1.0, 0.0], [1.0, 1.0, 1.0], [2.0, 1.0, 0.0],
]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(filename, []byte(content), 0666))
	return filename
}

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestInfo(t *testing.T) {
	out, _, err := run(t, "info", writeFile(t, "parabola.yaml", parabola))
	require.NoError(t, err)
	assert.Contains(t, out, "curve")
	assert.Contains(t, out, "degree: 2")
	assert.Contains(t, out, "multiplicities: [3 3]")
	assert.Contains(t, out, "rational: false")

	out, _, err = run(t, "info", writeFile(t, "patch.toml", patch))
	require.NoError(t, err)
	assert.Contains(t, out, "surface")
	assert.Contains(t, out, "direction 2:\n  degree: 1\n  control points: 2")
}

func TestEval(t *testing.T) {
	out, _, err := run(t, "eval", "-n", "3", writeFile(t, "parabola.yaml", parabola))
	require.NoError(t, err)
	assert.Equal(t, "0 0 0\n1 1 0\n2 0 0\n", out)

	out, _, err = run(t, "eval", "-n", "2", "--samples2", "3", writeFile(t, "patch.toml", patch))
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 6)
}

func TestInsert(t *testing.T) {
	filename := writeFile(t, "parabola.yaml", parabola)
	output := filepath.Join(t.TempDir(), "refined.toml")

	_, _, err := run(t, "insert", "--at", "0.5", "-o", output, filename)
	require.NoError(t, err)

	doc, err := document.Open(output)
	require.NoError(t, err)
	c, err := doc.Curve.Build()
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 0.5, 1, 1, 1}, c.Knots())
	assert.Len(t, c.ControlPoints(), 4)
}

func TestRemoveAndElevate(t *testing.T) {
	filename := writeFile(t, "parabola.yaml", parabola)

	out, errOut, err := run(t, "-v", "elevate", "--by", "1", filename)
	require.NoError(t, err)
	assert.Contains(t, errOut, "elevated degree")

	elevated := writeFile(t, "cubic.yaml", out)
	doc, err := document.Open(elevated)
	require.NoError(t, err)
	c, err := doc.Curve.Build()
	require.NoError(t, err)
	degree, err := c.Degree()
	require.NoError(t, err)
	assert.Equal(t, 3, degree)

	_, errOut, err = run(t, "remove", "--at", "0.5", "--times", "2", filename)
	require.NoError(t, err)
	assert.Contains(t, errOut, "removed 0 of 2")

	out, _, err = run(t, "insert", "--at", "0.5", filename)
	require.NoError(t, err)
	_, errOut, err = run(t, "remove", "--at", "0.5", "--times", "2", writeFile(t, "refined.yaml", out))
	require.NoError(t, err)
	assert.Contains(t, errOut, "removed 1 of 2")

	_, errOut, err = run(t, "remove", "--at", "5", filename)
	require.Error(t, err)
	assert.Contains(t, errOut, "Error")
}

func TestSurfaceDirection(t *testing.T) {
	filename := writeFile(t, "patch.toml", patch)

	_, _, err := run(t, "insert", "--dir", "3", "--at", "0.5", filename)
	assert.Error(t, err)

	out, _, err := run(t, "insert", "--dir", "2", "--at", "0.5", filename)
	require.NoError(t, err)
	doc, err := document.ReadBytes([]byte(out), document.TOML)
	require.NoError(t, err)
	s, err := doc.Surface.Build()
	require.NoError(t, err)
	count, err := s.Count(2)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestMissingFile(t *testing.T) {
	_, _, err := run(t, "info", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, _, err = run(t, "info", writeFile(t, "curve.json", "{}"))
	assert.ErrorIs(t, err, document.ErrFormat)
}

func TestSplit(t *testing.T) {
	filename := writeFile(t, "parabola.yaml", parabola)

	out, _, err := run(t, "split", "--at", "0.5", filename)
	require.NoError(t, err)
	base := strings.TrimSuffix(filename, ".yaml")
	assert.Equal(t, base+"-1.yaml\n"+base+"-2.yaml\n", out)

	for i, want := range []string{"[0 0 0] [1 1 0]", "[1 0 0] [2 1 0]"} {
		out, _, err := run(t, "info", fmt.Sprintf("%s-%d.yaml", base, i+1))
		require.NoError(t, err)
		assert.Contains(t, out, "bounds: "+want)
	}

	_, _, err = run(t, "split", "--at", "1", filename)
	assert.Error(t, err)
}

func TestReverse(t *testing.T) {
	out, _, err := run(t, "reverse", writeFile(t, "parabola.yaml", parabola))
	require.NoError(t, err)

	doc, err := document.ReadBytes([]byte(out), document.YAML)
	require.NoError(t, err)
	c, err := doc.Curve.Build()
	require.NoError(t, err)
	pt, err := c.Point(0)
	require.NoError(t, err)
	assert.Equal(t, 2.0, pt[0])
}
