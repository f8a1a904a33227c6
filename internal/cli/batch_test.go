package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/matzehuels/flowgrid/pkg/errors"
)

func writePlan(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestBatch(t *testing.T) {
	plan := writePlan(t, `
output_dir = "out"
seed = 10

[defaults]
size = 9.0
production_rate = 90
sinks = 2

[[network]]
name = "small"
nodes = 9
render = ["dot", "json"]

[[network]]
name = "pinned"
nodes = 16
sinks = 1
seed = 77
`)
	res, err := execute(t, "", "batch", plan)
	require.NoError(t, err)

	dir := filepath.Join(filepath.Dir(plan), "out")
	for _, f := range []string{"small.txt", "small.dot", "small.json", "pinned.txt", manifestName} {
		assert.FileExists(t, filepath.Join(dir, f))
	}
	assert.Contains(t, res.ui, "small:")
	assert.Contains(t, res.ui, "pinned:")

	small, err := os.ReadFile(filepath.Join(dir, "small.txt"))
	require.NoError(t, err)
	got := lines(string(small))
	require.Len(t, got, 10)
	assert.True(t, strings.HasSuffix(got[2], " -45"), got[2])

	raw, err := os.ReadFile(filepath.Join(dir, manifestName))
	require.NoError(t, err)
	var m batchManifest
	require.NoError(t, json.Unmarshal(raw, &m))

	_, err = uuid.Parse(m.RunID)
	assert.NoError(t, err, "run id should be a UUID")
	require.Len(t, m.Networks, 2)

	assert.Equal(t, uint64(10), m.Networks[0].Seed, "plan seed plus index")
	assert.Equal(t, uint64(77), m.Networks[1].Seed, "explicit seed wins")
	assert.Equal(t, []string{"small.dot", "small.json"}, m.Networks[0].Renders)
	assert.Equal(t, 1, m.Networks[1].Params.SinkCount)
	assert.Equal(t, 90, m.Networks[1].Params.ProductionRate, "defaults fill unset fields")
	assert.Equal(t, 16, m.Networks[1].Summary.Emitted)
}

func TestBatchReproducible(t *testing.T) {
	body := `
seed = 5

[[network]]
name = "a"
nodes = 25
`
	p1, p2 := writePlan(t, body), writePlan(t, body)
	_, err := execute(t, "", "batch", p1)
	require.NoError(t, err)
	_, err = execute(t, "", "batch", p2)
	require.NoError(t, err)

	a, err := os.ReadFile(filepath.Join(filepath.Dir(p1), "a.txt"))
	require.NoError(t, err)
	b, err := os.ReadFile(filepath.Join(filepath.Dir(p2), "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestBatchOutputDirFlag(t *testing.T) {
	plan := writePlan(t, "[[network]]\nname = \"x\"\nnodes = 4\n")
	out := filepath.Join(t.TempDir(), "elsewhere")

	_, err := execute(t, "", "batch", plan, "-o", out)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(out, "x.txt"))
	assert.FileExists(t, filepath.Join(out, manifestName))
}

func TestBatchInvalidPlans(t *testing.T) {
	tests := []struct {
		name string
		body string
		code ferrors.Code
	}{
		{"no networks", `seed = 1`, ferrors.ErrCodeInvalidInput},
		{"unknown key", "[[network]]\nname = \"a\"\ncolour = \"red\"\n", ferrors.ErrCodeInvalidFormat},
		{"bad toml", "[[network]\n", ferrors.ErrCodeInvalidFormat},
		{"missing name", "[[network]]\nnodes = 4\n", ferrors.ErrCodeInvalidInput},
		{"path in name", "[[network]]\nname = \"../a\"\n", ferrors.ErrCodeInvalidPath},
		{"duplicate", "[[network]]\nname = \"a\"\n[[network]]\nname = \"a\"\n", ferrors.ErrCodeInvalidInput},
		{"reserved name", "[[network]]\nname = \"manifest\"\n", ferrors.ErrCodeInvalidInput},
		{"bad params", "[[network]]\nname = \"a\"\nsize = -2.0\n", ferrors.ErrCodeInvalidParams},
		{"bad format", "[[network]]\nname = \"a\"\nrender = [\"gif\"]\n", ferrors.ErrCodeInvalidInput},
		{"text render", "[[network]]\nname = \"a\"\nrender = [\"txt\"]\n", ferrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := writePlan(t, tt.body)
			_, err := execute(t, "", "batch", plan)
			require.Error(t, err)
			assert.Equal(t, tt.code, ferrors.GetCode(err))

			entries, _ := os.ReadDir(filepath.Dir(plan))
			assert.Len(t, entries, 1, "an invalid plan should write nothing")
		})
	}
}

func TestBatchMalformedEnvDefaults(t *testing.T) {
	t.Setenv("FLOWGRID_GENERATE_SIZE", "wide")
	plan := writePlan(t, "[[network]]\nname = \"a\"\n")
	_, err := execute(t, "", "batch", plan)
	require.Error(t, err)
	assert.Equal(t, ferrors.ErrCodeInvalidParams, ferrors.GetCode(err))
	assert.Contains(t, err.Error(), "generate.size")

	entries, _ := os.ReadDir(filepath.Dir(plan))
	assert.Len(t, entries, 1)
}

func TestBatchMissingPlan(t *testing.T) {
	_, err := execute(t, "", "batch", filepath.Join(t.TempDir(), "none.toml"))
	require.Error(t, err)
	assert.Equal(t, ferrors.ErrCodeFileNotFound, ferrors.GetCode(err))
}
