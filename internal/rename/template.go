package rename

import (
	"errors"
	"fmt"
	"strings"

	"github.com/llehouerou/tigertag/internal/metadata"
)

// ErrUnknownTemplate is returned by ParseTemplateName for names outside
// the template set.
var ErrUnknownTemplate = errors.New("unknown filename template")

// Template is one of the fixed filename layouts.
type Template struct {
	name     string
	pattern  string
	segments []segment
}

// DefaultTemplateName is used when no template is configured.
const DefaultTemplateName = "orchestra_last-title-singer_last-year"

var templates = []Template{
	newTemplate(DefaultTemplateName, "{orchestra_last} - {title} - {singer_last} - {year}"),
	newTemplate("title-orchestra-year", "{title} - {orchestra} - {year}"),
	newTemplate("title-orchestra_last-year", "{title} - {orchestra_last} - {year}"),
	newTemplate("orchestra-title-year", "{orchestra} - {title} - {year}"),
	newTemplate("orchestra_last-title-year", "{orchestra_last} - {title} - {year}"),
	newTemplate("title", "{title}"),
}

func newTemplate(name, pattern string) Template {
	segs := parseTemplate(pattern)
	for _, s := range segs {
		if s.isPlaceholder && placeholders[s.value] == nil {
			panic(fmt.Sprintf("template %s: unknown placeholder {%s}", name, s.value))
		}
	}
	return Template{name: name, pattern: pattern, segments: segs}
}

// Templates returns the template set in display order.
func Templates() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}

// DefaultTemplate returns the template named DefaultTemplateName.
func DefaultTemplate() Template {
	return templates[0]
}

// ParseTemplateName looks a template up by name. An empty name selects
// the default.
func ParseTemplateName(name string) (Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultTemplate(), nil
	}
	for _, t := range templates {
		if strings.EqualFold(t.name, name) {
			return t, nil
		}
	}
	return Template{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
}

func (t Template) Name() string    { return t.name }
func (t Template) Pattern() string { return t.pattern }

var placeholders = map[string]func(*metadata.Record) string{
	"title":          (*metadata.Record).Title,
	"orchestra":      (*metadata.Record).Orchestra,
	"orchestra_last": (*metadata.Record).OrchestraLastName,
	"singer":         (*metadata.Record).Singer,
	"singer_last":    (*metadata.Record).SingerLastName,
	"artist":         (*metadata.Record).Artist,
	"year":           (*metadata.Record).Year,
}

// Stem renders the filename stem for rec, before slugification. A
// placeholder with an empty value is dropped together with the literal
// text before it.
func (t Template) Stem(rec *metadata.Record) string {
	var (
		b       strings.Builder
		pending string
	)
	for _, s := range t.segments {
		if !s.isPlaceholder {
			pending += s.value
			continue
		}
		v := strings.TrimSpace(placeholders[s.value](rec))
		if v == "" {
			pending = ""
			continue
		}
		if b.Len() > 0 {
			b.WriteString(pending)
		}
		b.WriteString(v)
		pending = ""
	}
	return b.String()
}

// segment represents either a literal string or a placeholder.
type segment struct {
	isPlaceholder bool
	value         string // placeholder name (without braces) or literal text
}

// parseTemplate parses a template string into segments.
// Placeholders are {name}, escaped braces are {{ and }}.
func parseTemplate(template string) []segment {
	if template == "" {
		return nil
	}

	var segments []segment
	var current []rune
	inPlaceholder := false

	runes := []rune(template)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if r == '{' && i+1 < len(runes) && runes[i+1] == '{' {
			current = append(current, '{')
			i++
			continue
		}
		if r == '}' && i+1 < len(runes) && runes[i+1] == '}' {
			current = append(current, '}')
			i++
			continue
		}

		if r == '{' && !inPlaceholder {
			if len(current) > 0 {
				segments = append(segments, segment{value: string(current)})
				current = nil
			}
			inPlaceholder = true
			continue
		}

		if r == '}' && inPlaceholder {
			segments = append(segments, segment{isPlaceholder: true, value: string(current)})
			current = nil
			inPlaceholder = false
			continue
		}

		current = append(current, r)
	}

	if len(current) > 0 {
		segments = append(segments, segment{isPlaceholder: inPlaceholder, value: string(current)})
	}

	return segments
}
