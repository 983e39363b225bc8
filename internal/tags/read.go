package tags

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"
	"github.com/go-flac/flacvorbis"
	goflac "github.com/go-flac/go-flac"
	"go.senan.xyz/taglib"
)

// Observed is what a file's existing tag says about it. The title is what
// gets matched against the catalogue; the rest is shown to the operator.
type Observed struct {
	Path   string
	Format Format
	Title  string
	Artist string
	Album  string
	Date   string
	Genre  string
	Label  string
}

// Read reads the existing tag of a supported file. A missing title falls
// back to the filename without extension.
func Read(path string) (*Observed, error) {
	format := FormatOf(path)
	if format == FormatUnknown {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}

	var (
		o   *Observed
		err error
	)
	if format == FormatAIFF {
		o, err = readAIFF(path)
	} else {
		o, err = readCommon(path, format)
	}
	if err != nil {
		return nil, err
	}

	o.Path = path
	o.Format = format
	if strings.TrimSpace(o.Title) == "" {
		base := filepath.Base(path)
		o.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return o, nil
}

func readCommon(path string, format Format) (*Observed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		switch format {
		case FormatMP3:
			// dhowden/tag has issues with some UTF-16 encoded ID3 tags
			return readMP3WithID3v2(path)
		default:
			// dhowden/tag can't parse some ffmpeg-created M4A and FLAC files
			return readWithTaglib(path)
		}
	}

	o := &Observed{
		Title:  m.Title(),
		Artist: m.Artist(),
		Album:  m.Album(),
		Genre:  m.Genre(),
		Date:   yearToDate(m.Year()),
	}

	// dhowden/tag exposes neither the full date nor the label.
	switch format {
	case FormatMP3:
		readMP3Extended(path, o)
	case FormatFLAC:
		readFLACExtended(path, o)
	case FormatM4A:
		readTaglibExtended(path, o)
	}
	return o, nil
}

func readMP3WithID3v2(path string) (*Observed, error) {
	t, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, err
	}
	defer t.Close()
	return observedFromID3(t), nil
}

func readMP3Extended(path string, o *Observed) {
	t, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return
	}
	defer t.Close()

	if d := id3Text(t, frameDate); d != "" {
		o.Date = d
	}
	o.Label = id3Text(t, framePublisher)
}

func observedFromID3(t *id3v2.Tag) *Observed {
	date := id3Text(t, frameDate)
	if date == "" {
		date = id3Text(t, "TYER")
	}
	return &Observed{
		Title:  id3Text(t, frameTitle),
		Artist: id3Text(t, frameArtist),
		Album:  id3Text(t, frameAlbum),
		Genre:  id3Text(t, frameGenre),
		Date:   date,
		Label:  id3Text(t, framePublisher),
	}
}

func readAIFF(path string) (*Observed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	a, err := parseAIFF(data)
	if err != nil {
		return nil, err
	}
	i := a.chunk(aiffID3Chunk)
	if i < 0 {
		return &Observed{}, nil
	}
	t, err := id3v2.ParseReader(bytes.NewReader(a.chunks[i].data), id3v2.Options{Parse: true})
	if err != nil {
		// An unreadable tag is treated as no tag; matching falls back to
		// the filename.
		return &Observed{}, nil //nolint:nilerr
	}
	return observedFromID3(t), nil
}

func readFLACExtended(path string, o *Observed) {
	f, err := parseFLAC(path)
	if err != nil {
		return
	}
	for _, meta := range f.Meta {
		if meta.Type != goflac.VorbisComment {
			continue
		}
		cmts, err := flacvorbis.ParseFromMetaDataBlock(*meta)
		if err != nil {
			return
		}
		values := vorbisValues(cmts.Comments)
		if d := values[vorbisDate]; d != "" {
			o.Date = d
		}
		o.Label = values[vorbisLabel]
		if o.Label == "" {
			o.Label = values[vorbisPublisher]
		}
		return
	}
}

func readWithTaglib(path string) (*Observed, error) {
	raw, err := taglib.ReadTags(path)
	if err != nil {
		return nil, err
	}
	tags := taglibTags(raw)
	return &Observed{
		Title:  tags.get(taglib.Title),
		Artist: tags.get(taglib.Artist),
		Album:  tags.get(taglib.Album),
		Genre:  tags.get(taglib.Genre),
		Date:   tags.get(taglib.Date),
		Label:  tags.get(taglib.Label, vorbisPublisher),
	}, nil
}

func readTaglibExtended(path string, o *Observed) {
	raw, err := taglib.ReadTags(path)
	if err != nil {
		return
	}
	tags := taglibTags(raw)
	if d := tags.get(taglib.Date); d != "" {
		o.Date = d
	}
	o.Label = tags.get(taglib.Label)
}

// yearToDate converts a year integer to a date string.
// Returns empty string for year 0.
func yearToDate(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year)
}
