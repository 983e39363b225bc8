package tags

import (
	"errors"
	"fmt"
	"os"

	"github.com/bogem/id3v2/v2"
)

// Write writes ID3v2.4 frames to an MP3 file.
func (mp3Writer) Write(path string, f Fields) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if errors.Is(err, id3v2.ErrUnsupportedVersion) {
		// ID3v2.2 or older tags - strip them and retry
		if stripErr := stripID3v2Tag(path); stripErr != nil {
			return fmt.Errorf("strip unsupported ID3v2.2 tag: %w", stripErr)
		}
		tag, err = id3v2.Open(path, id3v2.Options{Parse: true})
	}
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer tag.Close()

	applyID3(tag, f)

	if err := tag.Save(); err != nil {
		return fmt.Errorf("save tags: %w", err)
	}
	return nil
}

// stripID3v2Tag removes the leading ID3v2 tag from a file.
// The id3v2 library cannot parse ID3v2.2, so such tags are dropped.
func stripID3v2Tag(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	size, ok := id3v2TagSize(data)
	if !ok {
		return nil
	}
	if size >= len(data) {
		return fmt.Errorf("ID3v2 tag size (%d) exceeds file size (%d)", size, len(data))
	}
	return replaceFile(path, data[size:])
}

// id3v2TagSize returns the total size of an ID3v2 tag at the start of
// data, header and footer included.
func id3v2TagSize(data []byte) (int, bool) {
	if len(data) < 10 || string(data[:3]) != id3Magic {
		return 0, false
	}
	// Synchsafe integer: 7 bits per byte.
	size := int(data[6]&0x7f)<<21 | int(data[7]&0x7f)<<14 | int(data[8]&0x7f)<<7 | int(data[9]&0x7f)
	size += 10
	if data[5]&0x10 != 0 {
		size += 10
	}
	return size, true
}
