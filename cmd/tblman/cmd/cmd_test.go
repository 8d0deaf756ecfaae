package cmd

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/tblman/pkg/catalog"
	"github.com/ssargent/tblman/pkg/di"
	"github.com/ssargent/tblman/pkg/logging"
	"github.com/ssargent/tblman/pkg/registry"
	"github.com/ssargent/tblman/pkg/schema"
	"github.com/ssargent/tblman/pkg/table"
)

const limitsDefinition = `[
  {"name": "ContentType", "datatype": "uint32", "editable": false},
  {"name": "SubType", "datatype": "uint32", "editable": false},
  {"name": "Length", "datatype": "uint32", "editable": false},
  {"name": "SpacecraftId", "datatype": "uint32", "editable": false},
  {"name": "ProcessorId", "datatype": "uint32", "editable": false},
  {"name": "ApplicationId", "datatype": "uint32", "editable": false},
  {"name": "TimeSeconds", "datatype": "uint32", "editable": false},
  {"name": "TimeSubSeconds", "datatype": "uint32", "editable": false},
  {"name": "Description", "datatype": "char32", "defaultvalue": "Limits"},
  {"name": "Reserved", "datatype": "uint32", "editable": false},
  {"name": "Offset", "datatype": "uint32", "editable": false},
  {"name": "NumBytes", "datatype": "uint32", "editable": false},
  {"name": "TableName", "datatype": "char40", "defaultvalue": "HK.Limits", "editable": false},
  // payload
  {"name": "Max", "datatype": "uint16", "defaultvalue": 100, "description": "Upper limit"},
  {"name": "Min", "datatype": "uint16", "defaultvalue": 1},
  {"name": "Mode", "datatype": "enum8", "datarange": {"SAFE": 0, "NOMINAL": 1}},
  {"name": "Spare", "datatype": "raw24"}
]`

func setupDefinitions(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "limits.jsonc"), []byte(limitsDefinition), 0600))
	return dir
}

func loadRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.Load(setupDefinitions(t), logging.Discard())
	require.NoError(t, err)
	return reg
}

func TestInitConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "tblman", "config.yaml")
	defsDir := filepath.Join(tmpDir, "defs")

	t.Run("creates config and definitions dir", func(t *testing.T) {
		cfg, created, err := initConfig(configPath, defsDir, false)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, defsDir, cfg.DefinitionsDir)
		assert.DirExists(t, defsDir)
		assert.FileExists(t, configPath)
	})

	t.Run("keeps existing config", func(t *testing.T) {
		cfg, created, err := initConfig(configPath, filepath.Join(tmpDir, "other"), false)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, defsDir, cfg.DefinitionsDir)
	})

	t.Run("force overwrites", func(t *testing.T) {
		other := filepath.Join(tmpDir, "other")
		cfg, created, err := initConfig(configPath, other, true)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, other, cfg.DefinitionsDir)
	})

	t.Run("empty path", func(t *testing.T) {
		_, _, err := initConfig("", defsDir, false)
		assert.Error(t, err)
	})
}

func TestWindowFromFlags(t *testing.T) {
	s, err := loadRegistry(t).Lookup("HK.Limits")
	require.NoError(t, err)

	testCases := []struct {
		name         string
		from, to     string
		wantOffset   int
		wantNumBytes int
		wantErr      bool
	}{
		{"whole payload", "", "", 0, schema.WholePayload, false},
		{"single field", "Min", "", 2, 2, false},
		{"only to", "", "Mode", 4, 1, false},
		{"range", "Min", "Spare", 2, 6, false},
		{"reversed range", "Spare", "Min", 2, 6, false},
		{"header fields are ignored", "TableName", "Max", 0, 2, false},
		{"unknown field", "Nope", "", 0, 0, true},
		{"header only", "Offset", "NumBytes", 0, 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			offset, numBytes, err := windowFromFlags(s, tc.from, tc.to)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantOffset, offset)
			assert.Equal(t, tc.wantNumBytes, numBytes)
		})
	}
}

func TestApplyAssignments(t *testing.T) {
	reg := loadRegistry(t)
	tbl, err := createTable(reg, "HK.Limits", logging.Discard(), []string{"Max=300", "Mode=NOMINAL"}, false)
	require.NoError(t, err)

	get := func(name string) any {
		i, ok := tbl.Schema().FindIndex(name)
		require.True(t, ok)
		v, err := tbl.Get(i, table.AttrValue)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "300", get("Max"))
	assert.Equal(t, "NOMINAL", get("Mode"))
	_, stamped := tbl.CurrentTime()
	assert.True(t, stamped)

	assert.ErrorIs(t, applyAssignments(tbl, []string{"SubType=3"}, false), table.ErrReadOnly)
	require.NoError(t, applyAssignments(tbl, []string{"SubType=3"}, true))
	assert.Equal(t, "3", get("SubType"))

	assert.ErrorIs(t, applyAssignments(tbl, []string{"Nope=1"}, false), table.ErrNoField)
	assert.Error(t, applyAssignments(tbl, []string{"Max"}, false))
	assert.Error(t, applyAssignments(tbl, []string{"Max=70000"}, false))

	_, err = createTable(reg, "HK.Unknown", logging.Discard(), nil, false)
	assert.ErrorIs(t, err, registry.ErrNoDefinition)
}

func TestSaveIdentifyShow(t *testing.T) {
	reg := loadRegistry(t)
	dir := t.TempDir()
	tbl, err := createTable(reg, "HK.Limits", logging.Discard(), []string{"Min=7"}, false)
	require.NoError(t, err)

	full := filepath.Join(dir, "limits.tbl")
	partial, err := saveTable(tbl, full, "", "", binary.BigEndian)
	require.NoError(t, err)
	assert.False(t, partial)

	part := filepath.Join(dir, "min.tbl")
	partial, err = saveTable(tbl, part, "Min", "", binary.BigEndian)
	require.NoError(t, err)
	assert.True(t, partial)

	var out bytes.Buffer
	require.NoError(t, identifyFiles(&out, []string{full, part}, binary.BigEndian))
	assert.Equal(t, full+"\tHK.Limits\n"+part+"\tHK.Limits\n", out.String())

	out.Reset()
	err = identifyFiles(&out, []string{filepath.Join(dir, "missing.tbl"), full}, binary.BigEndian)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, out.String(), "HK.Limits")

	opened, err := reg.Open(part, binary.BigEndian)
	require.NoError(t, err)

	out.Reset()
	showTable(&out, opened, binary.BigEndian, false)
	assert.Contains(t, out.String(), "Table Name           :\tHK.Limits")
	assert.Contains(t, out.String(), "Min")
	assert.NotContains(t, out.String(), "Upper limit")

	out.Reset()
	showTable(&out, opened, binary.BigEndian, true)
	assert.Contains(t, out.String(), "Name\tDescription\tDataType\tValue\n")
	assert.Contains(t, out.String(), "Min\t\tuint16\t7")
}

func TestListDefinitions(t *testing.T) {
	dir := setupDefinitions(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`[{"name": "X"}]`), 0600))
	reg, err := registry.Load(dir, logging.Discard())
	require.NoError(t, err)

	var out bytes.Buffer
	listDefinitions(&out, reg)
	assert.Contains(t, out.String(), "HK.Limits")
	assert.Contains(t, out.String(), "limits.jsonc")
	assert.Contains(t, out.String(), "bad.json")
}

func TestIndexAndLookup(t *testing.T) {
	reg := loadRegistry(t)
	root := t.TempDir()
	tbl, err := createTable(reg, "HK.Limits", logging.Discard(), nil, false)
	require.NoError(t, err)
	_, err = saveTable(tbl, filepath.Join(root, "a.tbl"), "", "", binary.BigEndian)
	require.NoError(t, err)
	_, err = saveTable(tbl, filepath.Join(root, "sub", "b.tbl"), "Mode", "", binary.BigEndian)
	assert.Error(t, err, "missing directory")
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0750))
	_, err = saveTable(tbl, filepath.Join(root, "sub", "b.tbl"), "Mode", "", binary.BigEndian)
	require.NoError(t, err)

	cat, err := catalog.Open(filepath.Join(t.TempDir(), "catalog"))
	require.NoError(t, err)
	defer cat.Close()

	var out bytes.Buffer
	require.NoError(t, indexTables(&out, cat, root, binary.BigEndian))
	assert.Contains(t, out.String(), "2 table files indexed")

	out.Reset()
	require.NoError(t, lookupTables(&out, cat, "HK.Limits"))
	assert.Contains(t, out.String(), "a.tbl")
	assert.Contains(t, out.String(), "b.tbl")

	out.Reset()
	require.NoError(t, lookupTables(&out, cat, ""))
	assert.Contains(t, out.String(), "a.tbl")

	assert.Error(t, lookupTables(&out, cat, "HK.None"))
}

func TestRootCommand(t *testing.T) {
	defs := setupDefinitions(t)
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	output := filepath.Join(dir, "new")

	SetContainer(di.NewContainer())

	run := func(args ...string) (string, error) {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetErr(&out)
		rootCmd.SetArgs(append([]string{"--config", configPath, "--definitions", defs, "--log-level", "error"}, args...))
		err := rootCmd.Execute()
		return out.String(), err
	}

	out, err := run("new", "HK.Limits", output)
	require.NoError(t, err)
	assert.Contains(t, out, "new.tbl saved")
	assert.FileExists(t, output+".tbl")
	assert.Equal(t, defs, container.GetConfig().DefinitionsDir)

	out, err = run("crc", output+".tbl")
	require.NoError(t, err)
	assert.Regexp(t, `new\.tbl\t0x[0-9a-f]{4}`, out)

	out, err = run("format")
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &doc))
	assert.Equal(t, "array", doc["type"])

	changes := filepath.Join(dir, "changes.txt")
	require.NoError(t, os.WriteFile(changes, []byte("Max 250\nSubType 5\n"), 0600))
	out, err = run("paste", output+".tbl", changes)
	require.NoError(t, err)
	assert.Contains(t, out, "read-only")
	assert.Contains(t, out, "1 values pasted")

	out, err = run("paste", "--force", output+".tbl", changes)
	require.NoError(t, err)
	assert.Contains(t, out, "2 values pasted")

	_, err = run("identify", filepath.Join(dir, "absent.tbl"))
	assert.Error(t, err)

	_, err = run("show", "--log-level", "loud", output+".tbl")
	assert.ErrorContains(t, err, "unknown log level")
}

func TestConfigureWithoutContainer(t *testing.T) {
	SetContainer(nil)
	defer SetContainer(di.NewContainer())

	err := configure(rootCmd, nil)
	assert.ErrorContains(t, err, "dependency container not initialized")
}
