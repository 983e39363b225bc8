package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/tigertag/internal/tags"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

const catalogueCSV = `Title,Orchestra,Singer,Date,Label,Genre
La Yumba,Osvaldo Pugliese,,1946-00-00,Odeon,Tango
Recuerdo,Osvaldo Pugliese,,1944-08-17,Odeon,Tango
Quejas de Bandoneón,Aníbal Troilo,,1944-06-26,Victor,Tango
`

func writeFixtureMP3(t *testing.T, path, title string) {
	t.Helper()
	frame := make([]byte, 417)
	frame[0] = 0xff
	frame[1] = 0xfb
	frame[2] = 0x90
	require.NoError(t, os.WriteFile(path, frame, 0o644))
	require.NoError(t, tags.Write(path, tags.Fields{Title: title}))
}

func TestTemplatesCommand(t *testing.T) {
	out, err := execute(t, "templates")
	require.NoError(t, err)
	assert.Contains(t, out, "orchestra_last-title-singer_last-year (default)")
	assert.Contains(t, out, "{title} - {orchestra} - {year}")
}

func TestCatalogueImportAndList(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "state", "tigertag.db")
	csvPath := filepath.Join(dir, "pugliese.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(catalogueCSV), 0o644))

	out, err := execute(t, "--db", dbPath, "catalogue", "import", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, `Imported 3 entries`)
	assert.Contains(t, out, `"pugliese"`)

	out, err = execute(t, "--db", dbPath, "catalogue", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "pugliese")
	assert.Contains(t, out, "3")
}

func TestCatalogueImport_NameNeedsOneFile(t *testing.T) {
	_, err := execute(t, "--db", filepath.Join(t.TempDir(), "s.db"), "catalogue", "import", "--name", "x", "a.csv", "b.csv")
	assert.Error(t, err)
}

func TestRunAndSyncCommands(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "tigertag.db")
	csvPath := filepath.Join(dir, "pugliese.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(catalogueCSV), 0o644))

	folder := filepath.Join(dir, "Pugliese 1946")
	require.NoError(t, os.Mkdir(folder, 0o755))
	writeFixtureMP3(t, filepath.Join(folder, "track01.mp3"), "la yumba")
	require.NoError(t, os.WriteFile(filepath.Join(folder, "cover.jpg"), []byte("jpg"), 0o644))

	out, err := execute(t, "--db", dbPath, "run", folder, "--csv", csvPath, "--batch", "first")
	require.NoError(t, err)
	assert.Contains(t, out, "Pugliese - La Yumba - 1946.mp3")
	assert.Contains(t, out, "1 tagged")
	assert.Contains(t, out, "1 unsupported")
	_, err = os.Stat(filepath.Join(folder, "Pugliese - La Yumba - 1946.mp3"))
	require.NoError(t, err)

	out, err = execute(t, "--db", dbPath, "runs")
	require.NoError(t, err)
	assert.Contains(t, out, folder)

	vdjPath := filepath.Join(dir, "database.xml")
	require.NoError(t, os.WriteFile(vdjPath, []byte(`<?xml version="1.0" encoding="UTF-8"?>
<VirtualDJ_Database Version="8.5">
 <Song FilePath="D:/Music/track01.mp3" />
</VirtualDJ_Database>
`), 0o644))

	out, err = execute(t, "--db", dbPath, "sync", "--vdj", vdjPath)
	require.NoError(t, err)
	assert.Contains(t, out, "1 entry updated")

	content, err := os.ReadFile(vdjPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), `FilePath="D:/Music/Pugliese - La Yumba - 1946.mp3"`)
}

func TestRunCommand_NeedsTerminalWithoutBatch(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "pugliese.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(catalogueCSV), 0o644))

	_, err := execute(t, "--db", filepath.Join(dir, "s.db"), "run", dir, "--csv", csvPath, "--all-years")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--batch")
}

func TestRunCommand_UnknownBatchMode(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "pugliese.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(catalogueCSV), 0o644))

	_, err := execute(t, "--db", filepath.Join(dir, "s.db"), "run", dir, "--csv", csvPath, "--all-years", "--batch", "random")
	assert.Error(t, err)
}
