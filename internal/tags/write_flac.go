package tags

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
)

// Vorbis comment keys written by tigertag.
const (
	vorbisTitle     = "TITLE"
	vorbisArtist    = "ARTIST"
	vorbisGenre     = "GENRE"
	vorbisDate      = "DATE"
	vorbisComment   = "COMMENT"
	vorbisComposer  = "COMPOSER"
	vorbisGrouping  = "GROUPING"
	vorbisLabel     = "LABEL"
	vorbisPublisher = "PUBLISHER"
	vorbisRemixer   = "REMIXER"
	vorbisAlbum     = "ALBUM"
)

// Write updates the Vorbis comment block of a FLAC file. Every previous
// value of a replaced key is removed, so keys never end up duplicated.
// The previous label (or publisher) moves to REMIXER.
func (flacWriter) Write(path string, fl Fields) error {
	f, id3Size, err := parseFLACWithID3Support(path)
	if err != nil {
		return fmt.Errorf("parse file: %w", err)
	}

	// If file had ID3v2 header, strip it first before we can modify tags
	if id3Size > 0 {
		if err := stripID3v2Header(path, id3Size); err != nil {
			return fmt.Errorf("strip ID3v2 header: %w", err)
		}
		f, err = parseFLAC(path)
		if err != nil {
			return fmt.Errorf("parse file after ID3 strip: %w", err)
		}
	}

	cmtIdx := -1
	var cmts *flacvorbis.MetaDataBlockVorbisComment
	for i, meta := range f.Meta {
		if meta.Type == flac.VorbisComment {
			cmtIdx = i
			cmts, err = flacvorbis.ParseFromMetaDataBlock(*meta)
			if err != nil {
				return fmt.Errorf("parse vorbis comment: %w", err)
			}
			break
		}
	}
	if cmts == nil {
		cmts = flacvorbis.New()
	}

	existing := vorbisValues(cmts.Comments)
	prior := existing[vorbisLabel]
	if prior == "" {
		prior = existing[vorbisPublisher]
	}

	updates := []struct{ key, value string }{
		{vorbisTitle, fl.Title},
		{vorbisArtist, fl.Artist},
		{vorbisGenre, fl.Genre},
		{vorbisDate, fl.Date},
		{vorbisComment, fl.Comment},
		{vorbisComposer, fl.Composer},
		{vorbisGrouping, fl.Grouping},
		{vorbisLabel, fl.Label},
		{vorbisPublisher, fl.Label},
	}
	if fl.Label != "" && prior != "" && prior != fl.Label {
		updates = append(updates, struct{ key, value string }{vorbisRemixer, prior})
	}

	replaced := make(map[string]bool)
	for _, u := range updates {
		if u.value != "" {
			replaced[u.key] = true
		}
	}
	kept := make([]string, 0, len(cmts.Comments))
	for _, c := range cmts.Comments {
		if !replaced[vorbisKey(c)] {
			kept = append(kept, c)
		}
	}
	cmts.Comments = kept

	for _, u := range updates {
		if u.value == "" {
			continue
		}
		if err := cmts.Add(u.key, u.value); err != nil {
			return fmt.Errorf("add %s: %w", strings.ToLower(u.key), err)
		}
	}

	cmtBlock := cmts.Marshal()
	if cmtIdx >= 0 {
		f.Meta[cmtIdx] = &cmtBlock
	} else {
		f.Meta = append(f.Meta, &cmtBlock)
	}

	if err := f.Save(path); err != nil {
		return fmt.Errorf("save file: %w", err)
	}
	return nil
}

// vorbisKey returns the upper-cased field name of a "KEY=value" comment.
func vorbisKey(comment string) string {
	key, _, _ := strings.Cut(comment, "=")
	return strings.ToUpper(key)
}

// vorbisValues maps each field name to its first value.
func vorbisValues(comments []string) map[string]string {
	values := make(map[string]string, len(comments))
	for _, c := range comments {
		key, value, ok := strings.Cut(c, "=")
		if !ok {
			continue
		}
		key = strings.ToUpper(key)
		if _, seen := values[key]; !seen {
			values[key] = strings.TrimSpace(value)
		}
	}
	return values
}

// errFLACTruncated reports a FLAC stream with no frame data after its
// metadata blocks.
var errFLACTruncated = errors.New("flac stream has no frame data")

// parseFLAC parses a FLAC file. go-flac panics instead of failing when the
// stream ends right after the metadata blocks.
func parseFLAC(path string) (f *flac.File, err error) {
	defer func() {
		if r := recover(); r != nil {
			f, err = nil, fmt.Errorf("%w: %v", errFLACTruncated, r)
		}
	}()
	return flac.ParseFile(path)
}

// parseFLACWithID3Support parses a FLAC file, handling ID3v2 headers if present.
// Returns the parsed FLAC file, the size of any ID3v2 header found, and any error.
func parseFLACWithID3Support(path string) (*flac.File, int64, error) {
	f, err := parseFLAC(path)
	if err == nil {
		return f, 0, nil
	}

	file, openErr := os.Open(path)
	if openErr != nil {
		return nil, 0, err
	}
	defer file.Close()

	header := make([]byte, 10)
	if _, readErr := io.ReadFull(file, header); readErr != nil {
		return nil, 0, err
	}
	if !bytes.Equal(header[:3], []byte(id3Magic)) {
		return nil, 0, err
	}

	id3Size := int64(10)
	id3Size += int64(header[6]&0x7f)<<21 |
		int64(header[7]&0x7f)<<14 |
		int64(header[8]&0x7f)<<7 |
		int64(header[9]&0x7f)

	if _, seekErr := file.Seek(id3Size, io.SeekStart); seekErr != nil {
		return nil, 0, err
	}
	flacMagic := make([]byte, 4)
	if _, readErr := io.ReadFull(file, flacMagic); readErr != nil {
		return nil, 0, err
	}
	if !bytes.Equal(flacMagic, []byte("fLaC")) {
		return nil, 0, errors.New("no fLaC marker found after ID3v2 header")
	}

	return nil, id3Size, nil
}

// stripID3v2Header removes the first id3Size bytes of the file.
func stripID3v2Header(path string, id3Size int64) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if int64(len(data)) <= id3Size {
		return errors.New("file too small to strip ID3v2 header")
	}
	return replaceFile(path, data[id3Size:])
}
