package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngFixture = append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, []byte("payload")...)

func newTestRoot() *cobra.Command {
	cmd := newRootCommand()
	registerSubcommands(cmd)
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	return cmd
}

func writeFixture(t *testing.T, root, rel string, data []byte) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, data, 0o644))
}

func TestGenerateWritesOrderedManifest(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "logo(2).png", append(pngFixture, '2'))
	writeFixture(t, dir, "logo(1).png", append(pngFixture, '1'))
	writeFixture(t, dir, "brand/app.png", append(pngFixture, '3'))

	root := newTestRoot()
	root.SetArgs([]string{"generate", dir, "--owner", "acme", "--repo", "icons", "--branch", "main"})
	require.NoError(t, root.Execute())

	data, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	require.NoError(t, err)

	var entries []struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 3)

	assert.Equal(t, "app", entries[0].Name)
	assert.Equal(t, "logo", entries[1].Name)
	assert.Equal(t, "logo", entries[2].Name)
	assert.Equal(t, "https://raw.githubusercontent.com/acme/icons/main/logo(1).png", entries[1].URL)
	assert.Equal(t, "https://raw.githubusercontent.com/acme/icons/main/logo(2).png", entries[2].URL)
}

func TestGenerateRefusesMismatchedContent(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "sneaky.jpg", pngFixture)

	root := newTestRoot()
	root.SetArgs([]string{"generate", dir, "--owner", "o", "--repo", "r"})
	err := root.Execute()
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "manifest.json"))
	assert.True(t, os.IsNotExist(statErr), "no manifest may be written on a failed run")
}

func TestCheckValidatesWithoutWriting(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "ok.png", pngFixture)

	root := newTestRoot()
	root.SetArgs([]string{"check", dir, "--owner", "o", "--repo", "r"})
	require.NoError(t, root.Execute())

	_, statErr := os.Stat(filepath.Join(dir, "manifest.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestCheckFailsWithoutCoordinates(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "ok.png", pngFixture)

	root := newTestRoot()
	root.SetArgs([]string{"check", dir})
	// No owner/repo configured and the temp dir is not a git checkout.
	assert.Error(t, root.Execute())
}

func TestGenerateYAMLFormat(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "ok.png", pngFixture)

	root := newTestRoot()
	root.SetArgs([]string{"generate", dir, "--owner", "o", "--repo", "r",
		"--format", "yaml", "--output", "manifest.yaml"})
	require.NoError(t, root.Execute())

	data, err := os.ReadFile(filepath.Join(dir, "manifest.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: ok")
}
