package tags

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/bogem/id3v2/v2"
)

// Write writes ID3v2.4 frames into the ID3 chunk of an AIFF file,
// creating the chunk when the file has none.
func (aiffWriter) Write(path string, f Fields) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	a, err := parseAIFF(data)
	if err != nil {
		return fmt.Errorf("parse file: %w", err)
	}

	tag, err := aiffTag(a)
	if err != nil {
		return err
	}
	applyID3(tag, f)

	var buf bytes.Buffer
	if _, err := tag.WriteTo(&buf); err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}
	a.setChunk(aiffID3Chunk, buf.Bytes())

	if err := replaceFile(path, a.bytes()); err != nil {
		return fmt.Errorf("save file: %w", err)
	}
	return nil
}

// aiffTag decodes the ID3 chunk of a, or returns an empty tag.
func aiffTag(a *aiffFile) (*id3v2.Tag, error) {
	i := a.chunk(aiffID3Chunk)
	if i < 0 {
		return id3v2.NewEmptyTag(), nil
	}
	tag, err := id3v2.ParseReader(bytes.NewReader(a.chunks[i].data), id3v2.Options{Parse: true})
	if errors.Is(err, id3v2.ErrUnsupportedVersion) {
		// Same as MP3: an ID3v2.2 tag is replaced.
		return id3v2.NewEmptyTag(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("parse ID3 chunk: %w", err)
	}
	return tag, nil
}
