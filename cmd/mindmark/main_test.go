package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindmark/internal/model"
	"mindmark/internal/storage"
)

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configPath, logLevel, batch = "", "error", false
	fmtCheck = false
	findCase, findRegex, findNotes = false, false, false
	catStored, catTree = false, false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func writeSample(t *testing.T, dir string) string {
	t.Helper()
	m := model.New()
	root := m.Root()
	root.SetText("Plans")
	trip := root.MakeChild("Trip to Lisbon", nil)
	trip.MakeChild("Book flights", nil)
	trip.SetExtra(model.NewNoteExtra("pack the lisbon guide"))
	root.MakeChild("Garden", nil)

	name, err := storage.FileSave(m, filepath.Join(dir, "plans"))
	require.NoError(t, err)
	return name
}

func TestCat(t *testing.T) {
	name := writeSample(t, t.TempDir())

	out, err := execute(t, "cat", name)
	require.NoError(t, err)
	data, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, string(data), out)

	out, err = execute(t, "cat", "--tree", name)
	require.NoError(t, err)
	assert.Contains(t, out, "0 Plans\n")
	assert.Contains(t, out, "├── 1 Trip to Lisbon")

	_, err = execute(t, "cat", filepath.Join(t.TempDir(), "missing.mmd"))
	assert.Error(t, err)
}

func TestFind(t *testing.T) {
	name := writeSample(t, t.TempDir())

	out, err := execute(t, "find", "lisbon", name)
	require.NoError(t, err)
	assert.Equal(t, name+":1: Trip to Lisbon\n", out)

	out, err = execute(t, "find", "--case", "lisbon", name)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = execute(t, "find", "--extras", "guide", name)
	require.NoError(t, err)
	assert.Equal(t, name+":1: Trip to Lisbon\n", out)

	out, err = execute(t, "find", "--regex", `^(Book|Garden)`, name)
	require.NoError(t, err)
	assert.Equal(t, []string{name + ":1.1: Book flights", name + ":2: Garden"}, strings.Split(strings.TrimSpace(out), "\n"))

	_, err = execute(t, "find", "--regex", "(", name)
	assert.Error(t, err)
}

func TestFmt(t *testing.T) {
	name := writeSample(t, t.TempDir())
	canonical, err := os.ReadFile(name)
	require.NoError(t, err)

	out, err := execute(t, "fmt", "--check", name)
	require.NoError(t, err)
	assert.Empty(t, out)

	lines := strings.SplitN(string(canonical), "\n", 2)
	require.NoError(t, os.WriteFile(name, []byte("Hand written\n"+lines[1]), 0644))

	out, err = execute(t, "fmt", "--check", name)
	assert.Error(t, err)
	assert.Contains(t, out, name)

	_, err = execute(t, "fmt", name)
	require.NoError(t, err)
	rewritten, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, string(canonical), string(rewritten))
}

func TestBatchScript(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(strings.Join([]string{
		`database_dir = "` + filepath.ToSlash(filepath.Join(dir, "data")) + `"`,
		`database_file = "test.db"`,
		`log_folder = "` + filepath.ToSlash(filepath.Join(dir, "logs")) + `"`,
		`command_log = "commands.log"`,
		`error_log = "errors.log"`,
		`info_log = "info.log"`,
		`history_file = "` + filepath.ToSlash(filepath.Join(dir, "history")) + `"`,
		`base_folder = "` + filepath.ToSlash(dir) + `"`,
		`color = false`,
		`cache_size = 4`,
	}, "\n")), 0644))

	script := filepath.Join(dir, "build.mms")
	require.NoError(t, os.WriteFile(script, []byte(strings.Join([]string{
		"# build a small map",
		"map new Ideas",
		`topic add 0 "First idea"`,
		"map store ideas",
	}, "\n")), 0644))

	_, err := execute(t, "--config", cfgFile, "--batch", script)
	require.NoError(t, err)

	out, err := execute(t, "--config", cfgFile, "cat", "--stored", "ideas")
	require.NoError(t, err)
	assert.Contains(t, out, "## First idea")
}
