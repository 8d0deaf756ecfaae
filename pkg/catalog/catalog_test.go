package catalog

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/tblman/pkg/header"
)

func openCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "catalog"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func writeTable(t *testing.T, path, name string, offset, numBytes uint32) {
	t.Helper()
	h := &header.Header{Offset: offset, NumBytes: numBytes}
	h.SetName(name)
	h.SetDescription("scan test")
	data := append(h.Encode(binary.BigEndian), make([]byte, numBytes)...)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, data, 0600))
}

func TestCatalog_PutLookupDelete(t *testing.T) {
	c := openCatalog(t)

	entries := []Entry{
		{Name: "HK.Limits", Path: "/b/limits.tbl", NumBytes: 8, Size: 124},
		{Name: "HK.Limits", Path: "/a/limits.tbl", NumBytes: 4, Offset: 4, Size: 120},
		{Name: "HK.LimitsExtra", Path: "/a/extra.tbl"},
		{Name: "SC.Mode", Path: "/a/mode.tbl"},
	}
	for _, e := range entries {
		require.NoError(t, c.Put(e))
	}

	found, err := c.Lookup("HK.Limits")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "/a/limits.tbl", found[0].Path)
	assert.Equal(t, uint32(4), found[0].Offset)
	assert.Equal(t, "/b/limits.tbl", found[1].Path)

	all, err := c.All()
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, "SC.Mode", all[3].Name)

	require.NoError(t, c.Delete("HK.Limits", "/a/limits.tbl"))
	found, err = c.Lookup("HK.Limits")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "/b/limits.tbl", found[0].Path)

	none, err := c.Lookup("XX.None")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCatalog_Scan(t *testing.T) {
	c := openCatalog(t)
	root := t.TempDir()

	writeTable(t, filepath.Join(root, "hk", "limits.tbl"), "HK.Limits", 0, 16)
	writeTable(t, filepath.Join(root, "hk", "limits_part.TBL"), "HK.Limits", 8, 4)
	writeTable(t, filepath.Join(root, "mode.tbl"), "SC.Mode", 0, 1)
	require.NoError(t, os.WriteFile(filepath.Join(root, "short.tbl"), []byte("tiny"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("ignored"), 0600))

	report, err := c.Scan(root, binary.BigEndian)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Indexed)
	assert.Equal(t, []string{filepath.Join(root, "short.tbl")}, report.Skipped)
	assert.WithinDuration(t, time.Now(), report.ID.Time(), time.Minute)

	found, err := c.Lookup("HK.Limits")
	require.NoError(t, err)
	require.Len(t, found, 2)
	for _, e := range found {
		assert.Equal(t, report.ID.String(), e.ScanID)
		assert.Equal(t, "scan test", e.Description)
		assert.True(t, filepath.IsAbs(e.Path))
	}
	assert.Equal(t, uint32(8), found[1].Offset)
	assert.Equal(t, int64(header.Size+4), found[1].Size)

	t.Run("rescan replaces entries", func(t *testing.T) {
		again, err := c.Scan(root, binary.BigEndian)
		require.NoError(t, err)
		all, err := c.All()
		require.NoError(t, err)
		assert.Len(t, all, 3)
		assert.Equal(t, again.ID.String(), all[0].ScanID)
	})

	t.Run("missing root", func(t *testing.T) {
		_, err := c.Scan(filepath.Join(root, "absent"), binary.BigEndian)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestUpperBound(t *testing.T) {
	assert.Equal(t, []byte("tbl0"), upperBound([]byte("tbl/")))
	assert.Equal(t, []byte{0x02}, upperBound([]byte{0x01, 0xff}))
	assert.Nil(t, upperBound([]byte{0xff, 0xff}))
}
