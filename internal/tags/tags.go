// Package tags reads and writes the embedded metadata of audio files.
// Four containers are supported: MP3 (ID3v2), AIFF (ID3v2 chunk), M4A/MP4
// atoms and FLAC Vorbis comments.
package tags

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File extensions supported by the tags package.
const (
	ExtMP3  = ".mp3"
	ExtFLAC = ".flac"
	ExtM4A  = ".m4a"
	ExtMP4  = ".mp4"
	ExtAIF  = ".aif"
	ExtAIFF = ".aiff"
)

// id3Magic is the magic bytes for ID3v2 header detection.
const id3Magic = "ID3"

// ErrUnsupportedFormat is returned for files whose extension has no writer.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Format is the closed set of tag containers.
type Format int

const (
	FormatUnknown Format = iota
	FormatMP3
	FormatM4A
	FormatFLAC
	FormatAIFF
)

func (f Format) String() string {
	switch f {
	case FormatMP3:
		return "MP3"
	case FormatM4A:
		return "M4A"
	case FormatFLAC:
		return "FLAC"
	case FormatAIFF:
		return "AIFF"
	default:
		return "unknown"
	}
}

// FormatOf returns the format for path's extension, matched
// case-insensitively.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtMP3:
		return FormatMP3
	case ExtM4A, ExtMP4:
		return FormatM4A
	case ExtFLAC:
		return FormatFLAC
	case ExtAIF, ExtAIFF:
		return FormatAIFF
	default:
		return FormatUnknown
	}
}

// IsSupported reports whether path has a supported extension.
func IsSupported(path string) bool {
	return FormatOf(path) != FormatUnknown
}

// Fields are the canonical values written to a file. Only these fields
// are replaced; everything else in the file's tag is kept. An empty value
// leaves the existing field as it is.
type Fields struct {
	Title    string
	Artist   string
	Genre    string
	Date     string
	Composer string
	Grouping string
	Label    string
	Comment  string
}

// Writer persists Fields into one file.
type Writer interface {
	Write(path string, f Fields) error
}

type (
	mp3Writer  struct{}
	aiffWriter struct{}
	m4aWriter  struct{}
	flacWriter struct{}
)

// WriterFor returns the writer for path's format.
func WriterFor(path string) (Writer, error) {
	switch FormatOf(path) {
	case FormatMP3:
		return mp3Writer{}, nil
	case FormatAIFF:
		return aiffWriter{}, nil
	case FormatM4A:
		return m4aWriter{}, nil
	case FormatFLAC:
		return flacWriter{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Write writes f into the file at path. The file must already exist and
// is modified in place.
func Write(path string, f Fields) error {
	w, err := WriterFor(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("file not found: %w", err)
	}
	return w.Write(path, f)
}

// replaceFile writes data to a temporary file beside path and renames it
// over path, keeping path's permissions.
func replaceFile(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tigertag-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
