package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/tspforge/internal/cli"
)

// run executes the root command with args and stdin and returns stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCommand("test")
	var out, stderr bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())

	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

type solved struct {
	Size     int     `json:"size" yaml:"size"`
	Strategy string  `json:"strategy" yaml:"strategy"`
	Distance float64 `json:"distance" yaml:"distance"`
	Optimal  bool    `json:"optimal" yaml:"optimal"`
	Tour     []int   `json:"tour" yaml:"tour"`
}

const classic4 = `[[0,10,15,20],[10,0,35,25],[15,35,0,30],[20,25,30,0]]`

func TestSolve_JSONFile(t *testing.T) {
	path := writeFile(t, "classic.json", classic4)
	out, err := run(t, "", "solve", path, "-o", "json", "--time", "2s")
	require.NoError(t, err)

	var res solved
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Equal(t, 4, res.Size)
	require.Equal(t, "exact", res.Strategy)
	require.Equal(t, 80.0, res.Distance)
	require.True(t, res.Optimal)
	require.Len(t, res.Tour, 5)
	require.Equal(t, 0, res.Tour[0])
	require.Equal(t, 0, res.Tour[4])
}

func TestSolve_DefaultBudgetFromConfig(t *testing.T) {
	// No --time: the small time limit (1s) still admits the exact solver.
	out, err := run(t, classic4, "solve", "-")
	require.NoError(t, err)

	var res solved
	require.NoError(t, yaml.Unmarshal([]byte(out), &res))
	require.Equal(t, "exact", res.Strategy)
	require.Equal(t, 80.0, res.Distance)
}

func TestSolve_YAMLPointsFromStdin(t *testing.T) {
	in := "points:\n  - {x: 0, y: 0}\n  - {x: 1, y: 0}\n  - {x: 1, y: 1}\n  - {x: 0, y: 1}\n"
	out, err := run(t, in, "solve", "--format", "yaml", "--strategy", "beam", "--seed", "7")
	require.NoError(t, err)

	var res solved
	require.NoError(t, yaml.Unmarshal([]byte(out), &res))
	require.Equal(t, "beam", res.Strategy)
	require.InDelta(t, 4.0, res.Distance, 1e-9)
}

func TestSolve_MissingEntries(t *testing.T) {
	// A path 0-1-2-3 with unit edges; every other pair is missing.
	path := writeFile(t, "path.csv", "# path graph\n0,1,,\n1,0,1,\n,1,0,1\n,,1,0\n")

	_, err := run(t, "", "solve", path)
	require.ErrorContains(t, err, "--closure")

	out, err := run(t, "", "solve", path, "--closure", "--time", "1s")
	require.NoError(t, err)
	var res solved
	require.NoError(t, yaml.Unmarshal([]byte(out), &res))
	require.InDelta(t, 6.0, res.Distance, 1e-9)
}

func TestSolve_Unreachable(t *testing.T) {
	path := writeFile(t, "split.csv", "0,1,,\n1,0,,\n,,0,1\n,,1,0\n")
	_, err := run(t, "", "solve", path, "--closure")
	require.ErrorContains(t, err, "not strongly connected")
}

func TestSolve_BadFlags(t *testing.T) {
	path := writeFile(t, "classic.json", classic4)

	_, err := run(t, "", "solve", path, "--strategy", "magic")
	require.Error(t, err)

	_, err = run(t, "", "solve", path, "--load", "2")
	require.Error(t, err)

	_, err = run(t, "", "solve", path, "-o", "xml")
	require.ErrorContains(t, err, "unknown output format")

	_, err = run(t, "", "solve", path, "--log-format", "xml")
	require.ErrorContains(t, err, "unknown log format")

	_, err = run(t, "", "solve", path, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestSolve_ConfigFile(t *testing.T) {
	cfg := writeFile(t, "tspforge.yaml", "solver:\n  seed: 9\nlog:\n  level: warn\n  format: json\n")
	path := writeFile(t, "classic.json", classic4)
	out, err := run(t, "", "solve", path, "--config", cfg, "--strategy", "nearest")
	require.NoError(t, err)

	var res solved
	require.NoError(t, yaml.Unmarshal([]byte(out), &res))
	require.Equal(t, "nearest", res.Strategy)
}

func TestSelect(t *testing.T) {
	out, err := run(t, "", "select", "--size", "10", "--time", "2s", "--load", "0.3")
	require.NoError(t, err)
	var sel struct {
		Strategy  string `yaml:"strategy"`
		Rationale string `yaml:"rationale"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &sel))
	require.Equal(t, "exact", sel.Strategy)
	require.NotEmpty(t, sel.Rationale)

	out, err = run(t, "", "select", "-n", "200", "-t", "500ms", "--load", "0.8", "-o", "json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &sel))
	require.Equal(t, "constructive", sel.Strategy)

	_, err = run(t, "", "select")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := writeFile(t, "ok.json", classic4)
	out, err := run(t, "", "validate", valid)
	require.NoError(t, err)
	require.Contains(t, out, "valid: true")
	require.Contains(t, out, "symmetric: true")

	neg := writeFile(t, "neg.json", `{"matrix": [[0, -1], [1, 0]]}`)
	out, err = run(t, "", "validate", neg, "-o", "json")
	require.ErrorContains(t, err, "instance is invalid")
	var rep struct {
		Valid  bool   `json:"valid"`
		Reason string `json:"reason"`
		Row    *int   `json:"row"`
		Col    *int   `json:"col"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.False(t, rep.Valid)
	require.NotEmpty(t, rep.Reason)
	require.NotNil(t, rep.Row)
	require.Equal(t, 0, *rep.Row)
	require.Equal(t, 1, *rep.Col)

	missing := writeFile(t, "missing.json", `[[0, 1, null], [1, 0, 1], [null, 1, 0]]`)
	out, err = run(t, "", "validate", missing)
	require.Error(t, err)
	require.Contains(t, out, "valid: false")

	_, err = run(t, "", "validate", missing, "--closure")
	require.NoError(t, err)
}

func TestGenerate_FeedsSolve(t *testing.T) {
	pts, err := run(t, "", "generate", "--size", "12", "--seed", "3", "-o", "json")
	require.NoError(t, err)
	out, err := run(t, pts, "solve", "--time", "2s")
	require.NoError(t, err)
	var res solved
	require.NoError(t, yaml.Unmarshal([]byte(out), &res))
	require.Equal(t, 12, res.Size)
	require.Len(t, res.Tour, 13)

	mat, err := run(t, "", "generate", "--size", "6", "--layout", "circle", "--matrix")
	require.NoError(t, err)
	out, err = run(t, mat, "validate", "--format", "yaml")
	require.NoError(t, err)
	require.Contains(t, out, "size: 6")

	_, err = run(t, "", "generate", "--layout", "spiral")
	require.Error(t, err)
	_, err = run(t, "", "generate", "--scale", "-1")
	require.ErrorContains(t, err, "--scale")
}

func TestPartition(t *testing.T) {
	pts, err := run(t, "", "generate", "--size", "60", "--layout", "clustered", "--seed", "5", "-o", "json")
	require.NoError(t, err)
	out, err := run(t, pts, "partition", "--max-size", "25", "--strategy", "contiguous", "--members", "-o", "json")
	require.NoError(t, err)

	var rep struct {
		Size     int    `json:"size"`
		Strategy string `json:"strategy"`
		Parts    []struct {
			Size    int   `json:"size"`
			Core    int   `json:"core"`
			Members []int `json:"members"`
		} `json:"parts"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.Equal(t, 60, rep.Size)
	require.Equal(t, "contiguous", rep.Strategy)
	require.Len(t, rep.Parts, 3)
	cores := 0
	for _, p := range rep.Parts {
		cores += p.Core
		require.GreaterOrEqual(t, p.Size, p.Core)
		require.Len(t, p.Members, p.Size)
	}
	require.Equal(t, 60, cores)

	_, err = run(t, pts, "partition", "--strategy", "voronoi")
	require.Error(t, err)
}
