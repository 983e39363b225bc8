package tags

import (
	"fmt"
	"strings"

	"github.com/Sorrow446/go-mp4tag"
	"go.senan.xyz/taglib"
)

// Freeform iTunes atoms (----:com.apple.iTunes:<name>) as TagLib names them.
const (
	m4aLabel    = "LABEL"
	m4aRemixer  = "REMIXER"
	m4aGrouping = "GROUPING"
)

// Write writes MP4 atoms. Standard atoms go through go-mp4tag; the label,
// remixer and grouping atoms go through TagLib, which replaces only the
// keys it is given.
func (m4aWriter) Write(path string, f Fields) error {
	prior := m4aPriorLabel(path)

	mp4, err := mp4tag.Open(path)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}

	tags := &mp4tag.MP4Tags{
		Title:       f.Title,
		Artist:      f.Artist,
		CustomGenre: f.Genre,
		Date:        f.Date,
		Composer:    f.Composer,
		Comment:     f.Comment,
	}
	err = mp4.Write(tags, nil)
	mp4.Close()
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}

	extra := make(map[string][]string)
	if f.Grouping != "" {
		extra[m4aGrouping] = []string{f.Grouping}
	}
	if f.Label != "" {
		extra[m4aLabel] = []string{f.Label}
		if prior != "" && prior != f.Label {
			extra[m4aRemixer] = []string{prior}
		}
	}
	if len(extra) == 0 {
		return nil
	}
	if err := taglib.WriteTags(path, extra, 0); err != nil {
		return fmt.Errorf("write freeform atoms: %w", err)
	}
	return nil
}

// m4aPriorLabel reads the label atom before it is overwritten.
func m4aPriorLabel(path string) string {
	raw, err := taglib.ReadTags(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(taglibTags(raw).get(taglib.Label, m4aLabel))
}

// taglibTags wraps a taglib result map with helper methods.
type taglibTags map[string][]string

// get returns the first value for any of the given keys, or empty string if not found.
func (t taglibTags) get(keys ...string) string {
	for _, key := range keys {
		if values, ok := t[key]; ok && len(values) > 0 {
			return values[0]
		}
	}
	return ""
}
