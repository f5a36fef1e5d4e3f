package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.String()
}

func TestVersionCommand(t *testing.T) {
	out := runCommand(t, "version")
	assert.Contains(t, out, "loom v")
	assert.Contains(t, out, modulePath)
}

func TestInitWritesConfig(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), ".loom")

	out := runCommand(t, "init", "--config-dir", configDir)
	assert.Contains(t, out, "Initialized")

	data, err := os.ReadFile(filepath.Join(configDir, "loom.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "decl:")
	assert.Contains(t, string(data), "out:")
}

func TestInitIsIdempotent(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), ".loom")

	runCommand(t, "init", "--config-dir", configDir)
	configPath := filepath.Join(configDir, "loom.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("decl: custom.yaml\n"), 0o644))

	runCommand(t, "init", "--config-dir", configDir)

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, "decl: custom.yaml\n", string(data))
}

func TestSnapshotsListEmpty(t *testing.T) {
	out := runCommand(t, "snapshots", "list", "--data-dir", t.TempDir())
	assert.Contains(t, out, "No snapshots.")
}

const testDecl = `package: model
contexts:
  - name: Rug
    members:
      - Foo
      - Bar
routines:
  - name: TraverseGraph
    context: Rug
    access:
      - Foo
`

func TestGenerateWithFlags(t *testing.T) {
	dir := t.TempDir()
	declPath := filepath.Join(dir, "decl.yaml")
	outPath := filepath.Join(dir, "bindings_gen.go")
	require.NoError(t, os.WriteFile(declPath, []byte(testDecl), 0o644))

	out := runCommand(t, "generate", "--decl", declPath, "--out", outPath)
	assert.Contains(t, out, "Wrote")

	src, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(src), "package model")
	assert.Contains(t, string(src), "type Rug struct")
}

func TestGenerateFallsBackToConfig(t *testing.T) {
	dir := t.TempDir()
	configDir := filepath.Join(dir, ".loom")
	declPath := filepath.Join(dir, "decl.yaml")
	outPath := filepath.Join(dir, "bindings_gen.go")
	require.NoError(t, os.WriteFile(declPath, []byte(testDecl), 0o644))

	require.NoError(t, os.MkdirAll(configDir, 0o755))
	configYAML := "decl: " + declPath + "\nout: " + outPath + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "loom.yaml"), []byte(configYAML), 0o644))

	runCommand(t, "generate", "--config-dir", configDir)

	_, err := os.Stat(outPath)
	assert.NoError(t, err)
}
