package tags

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestAIFF writes a minimal AIFF file with a COMM chunk and an
// odd-sized SSND chunk, so the pad byte is exercised.
func createTestAIFF(t *testing.T, dir string) string {
	t.Helper()

	comm := make([]byte, 18)
	binary.BigEndian.PutUint16(comm[0:2], 2)
	binary.BigEndian.PutUint32(comm[2:6], 1)
	binary.BigEndian.PutUint16(comm[6:8], 16)
	ssnd := []byte{0, 0, 0, 0, 0, 0, 0, 0, 1, 2, 3}

	a := &aiffFile{formType: "AIFF"}
	a.setChunk("COMM", comm)
	a.setChunk("SSND", ssnd)

	path := filepath.Join(dir, "test.aiff")
	require.NoError(t, os.WriteFile(path, a.bytes(), 0o600))
	return path
}

func readAIFFTag(t *testing.T, path string) (*aiffFile, *id3v2.Tag) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, uint32(len(data)-8), binary.BigEndian.Uint32(data[4:8]), "FORM size")

	a, err := parseAIFF(data)
	require.NoError(t, err)
	i := a.chunk(aiffID3Chunk)
	require.GreaterOrEqual(t, i, 0, "ID3 chunk missing")

	tag, err := id3v2.ParseReader(bytes.NewReader(a.chunks[i].data), id3v2.Options{Parse: true})
	require.NoError(t, err)
	return a, tag
}

func TestParseAIFF_RejectsOtherContainers(t *testing.T) {
	_, err := parseAIFF([]byte("RIFF\x00\x00\x00\x04WAVE"))
	assert.ErrorIs(t, err, errNotAIFF)

	_, err = parseAIFF([]byte("FORM"))
	assert.ErrorIs(t, err, errNotAIFF)
}

func TestAIFFChunks_RoundTrip(t *testing.T) {
	path := createTestAIFF(t, t.TempDir())
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	a, err := parseAIFF(data)
	require.NoError(t, err)
	require.Len(t, a.chunks, 2)
	assert.Equal(t, "COMM", a.chunks[0].id)
	assert.Equal(t, "SSND", a.chunks[1].id)
	assert.Len(t, a.chunks[1].data, 11)
	assert.Equal(t, data, a.bytes())
}

func TestWriteAIFF_CreatesID3Chunk(t *testing.T) {
	path := createTestAIFF(t, t.TempDir())

	require.NoError(t, Write(path, pugliese))

	a, tag := readAIFFTag(t, path)
	require.Len(t, a.chunks, 3)
	assert.Equal(t, "COMM", a.chunks[0].id)
	assert.Equal(t, "SSND", a.chunks[1].id)
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 0, 1, 2, 3}, a.chunks[1].data)
	assert.Equal(t, aiffID3Chunk, a.chunks[2].id)

	assert.Equal(t, byte(4), tag.Version())
	assert.Equal(t, "La Yumba", id3Text(tag, frameTitle))
	assert.Equal(t, "Osvaldo Pugliese", id3Text(tag, frameArtist))
	assert.Equal(t, "1946-07", id3Text(tag, frameDate))
	assert.Equal(t, "Odeon", id3Text(tag, framePublisher))
	assert.Equal(t, pugliese.Comment, id3Comment(tag))
}

func TestWriteAIFF_RewritesExistingChunk(t *testing.T) {
	path := createTestAIFF(t, t.TempDir())

	first := pugliese
	first.Label = "RCA Victor"
	require.NoError(t, Write(path, first))
	require.NoError(t, Write(path, pugliese))

	a, tag := readAIFFTag(t, path)
	assert.Len(t, a.chunks, 3, "ID3 chunk must be replaced, not appended")
	assert.Equal(t, "Odeon", id3Text(tag, framePublisher))
	assert.Equal(t, "RCA Victor", id3Text(tag, frameRemixer))
}

func TestRead_AIFF(t *testing.T) {
	path := createTestAIFF(t, t.TempDir())

	o, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "test", o.Title, "untagged file falls back to stem")

	require.NoError(t, Write(path, pugliese))
	o, err = Read(path)
	require.NoError(t, err)
	assert.Equal(t, FormatAIFF, o.Format)
	assert.Equal(t, "La Yumba", o.Title)
	assert.Equal(t, "Osvaldo Pugliese", o.Artist)
	assert.Equal(t, "Odeon", o.Label)
}
