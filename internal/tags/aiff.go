package tags

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

var errNotAIFF = errors.New("not an AIFF file")

// aiffID3Chunk is the chunk id holding an ID3v2 tag. Some encoders write
// it in lower case.
const aiffID3Chunk = "ID3 "

type aiffChunk struct {
	id   string
	data []byte
}

// aiffFile is an IFF FORM container with form type AIFF or AIFC.
type aiffFile struct {
	formType string
	chunks   []aiffChunk
}

func parseAIFF(data []byte) (*aiffFile, error) {
	if len(data) < 12 || string(data[:4]) != "FORM" {
		return nil, errNotAIFF
	}
	formType := string(data[8:12])
	if formType != "AIFF" && formType != "AIFC" {
		return nil, fmt.Errorf("%w: form type %q", errNotAIFF, formType)
	}

	end := 8 + int(binary.BigEndian.Uint32(data[4:8]))
	if end > len(data) {
		// Trust the data over a wrong header size.
		end = len(data)
	}

	a := &aiffFile{formType: formType}
	pos := 12
	for pos+8 <= end {
		id := string(data[pos : pos+4])
		size := int(binary.BigEndian.Uint32(data[pos+4 : pos+8]))
		pos += 8
		if pos+size > end {
			return nil, fmt.Errorf("chunk %q: size %d exceeds file", id, size)
		}
		a.chunks = append(a.chunks, aiffChunk{id: id, data: data[pos : pos+size]})
		pos += size
		if size%2 == 1 {
			pos++
		}
	}
	return a, nil
}

// chunk returns the index of the first chunk with the given id,
// compared case-insensitively, or -1.
func (a *aiffFile) chunk(id string) int {
	for i, c := range a.chunks {
		if strings.EqualFold(c.id, id) {
			return i
		}
	}
	return -1
}

// setChunk replaces the chunk with the given id or appends it.
func (a *aiffFile) setChunk(id string, data []byte) {
	if i := a.chunk(id); i >= 0 {
		a.chunks[i].data = data
		return
	}
	a.chunks = append(a.chunks, aiffChunk{id: id, data: data})
}

func (a *aiffFile) bytes() []byte {
	size := 4
	for _, c := range a.chunks {
		size += 8 + len(c.data) + len(c.data)%2
	}

	var buf bytes.Buffer
	buf.Grow(8 + size)
	buf.WriteString("FORM")
	_ = binary.Write(&buf, binary.BigEndian, uint32(size))
	buf.WriteString(a.formType)
	for _, c := range a.chunks {
		buf.WriteString(c.id)
		_ = binary.Write(&buf, binary.BigEndian, uint32(len(c.data)))
		buf.Write(c.data)
		if len(c.data)%2 == 1 {
			buf.WriteByte(0)
		}
	}
	return buf.Bytes()
}
