package tags

import (
	"strings"

	"github.com/bogem/id3v2/v2"
)

// ID3v2.4 frame ids written by tigertag.
const (
	frameTitle     = "TIT2"
	frameArtist    = "TPE1"
	frameGenre     = "TCON"
	frameDate      = "TDRC"
	frameComposer  = "TCOM"
	frameGrouping  = "TIT1"
	framePublisher = "TPUB"
	frameRemixer   = "TPE4"
	frameComment   = "COMM"
	frameAlbum     = "TALB"

	commentLanguage = "eng"
)

// applyID3 writes f into tag as ID3v2.4 UTF-8 frames. A previous
// publisher that differs from the new label is moved to the remixer
// frame. Frames not listed here are left alone.
func applyID3(tag *id3v2.Tag, f Fields) {
	prior := id3Text(tag, framePublisher)

	tag.SetVersion(4)
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	setID3Text(tag, frameTitle, f.Title)
	setID3Text(tag, frameArtist, f.Artist)
	setID3Text(tag, frameGenre, f.Genre)
	if f.Date != "" {
		// ID3v2.3 year frames would contradict the new date.
		tag.DeleteFrames("TYER")
		tag.DeleteFrames("TDAT")
	}
	setID3Text(tag, frameDate, f.Date)
	setID3Text(tag, frameComposer, f.Composer)
	setID3Text(tag, frameGrouping, f.Grouping)

	if f.Label != "" && prior != "" && prior != f.Label {
		setID3Text(tag, frameRemixer, prior)
	}
	setID3Text(tag, framePublisher, f.Label)

	if f.Comment != "" {
		setID3Comment(tag, f.Comment)
	}
}

func setID3Text(tag *id3v2.Tag, id, value string) {
	if value == "" {
		return
	}
	tag.DeleteFrames(id)
	tag.AddTextFrame(id, id3v2.EncodingUTF8, value)
}

// setID3Comment replaces the comment with language "eng" and an empty
// description. Other comment frames are kept.
func setID3Comment(tag *id3v2.Tag, text string) {
	existing := tag.GetFrames(frameComment)
	tag.DeleteFrames(frameComment)
	for _, fr := range existing {
		cf, ok := fr.(id3v2.CommentFrame)
		if ok && cf.Description == "" && strings.EqualFold(cf.Language, commentLanguage) {
			continue
		}
		tag.AddFrame(frameComment, fr)
	}
	tag.AddCommentFrame(id3v2.CommentFrame{
		Encoding:    id3v2.EncodingUTF8,
		Language:    commentLanguage,
		Description: "",
		Text:        text,
	})
}

// id3Text reads the first text frame with the given id.
func id3Text(tag *id3v2.Tag, id string) string {
	frames := tag.GetFrames(id)
	if len(frames) == 0 {
		return ""
	}
	if tf, ok := frames[0].(id3v2.TextFrame); ok {
		return strings.TrimRight(tf.Text, "\x00")
	}
	return ""
}

// id3Comment reads the comment with an empty description, if any.
func id3Comment(tag *id3v2.Tag) string {
	for _, fr := range tag.GetFrames(frameComment) {
		if cf, ok := fr.(id3v2.CommentFrame); ok && cf.Description == "" {
			return strings.TrimRight(cf.Text, "\x00")
		}
	}
	return ""
}
