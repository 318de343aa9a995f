// Package srt encodes timed transcript segments as SubRip (SRT) subtitles.
package srt

import (
	"io"
	"iter"
	"strconv"
	"strings"

	"github.com/devbush/whisper2srt/internal/domain"
)

// cueArrow separates the start and end timestamps of a cue.
const cueArrow = " --> "

// Encoder writes SRT cues to a sink one at a time. It never opens, flushes
// or closes the sink.
type Encoder struct {
	w     io.Writer
	count int
	buf   []byte
}

// NewEncoder returns an Encoder that writes to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes seg as the next cue.
//
// The cue is fully rendered before anything is written, so an invalid
// timestamp leaves the sink untouched. Errors from the sink are returned
// as-is.
func (e *Encoder) Encode(seg domain.Segment) error {
	start, err := FormatTimestamp(seg.Start)
	if err != nil {
		return err
	}
	end, err := FormatTimestamp(seg.End)
	if err != nil {
		return err
	}

	index := e.count + 1
	e.buf = e.buf[:0]
	e.buf = strconv.AppendInt(e.buf, int64(index), 10)
	e.buf = append(e.buf, '\n')
	e.buf = append(e.buf, start...)
	e.buf = append(e.buf, cueArrow...)
	e.buf = append(e.buf, end...)
	e.buf = append(e.buf, '\n')
	e.buf = append(e.buf, SanitizeText(seg.Text)...)
	e.buf = append(e.buf, '\n', '\n')

	if _, err := e.w.Write(e.buf); err != nil {
		return err
	}
	e.count = index
	return nil
}

// Count returns the number of cues written so far.
func (e *Encoder) Count() int {
	return e.count
}

// SanitizeText replaces "-->" with "->" so cue text cannot be mistaken for
// a timing line, then trims surrounding whitespace. Replacement repeats
// until no "-->" is left, since "--->" collapses to "-->".
func SanitizeText(text string) string {
	for strings.Contains(text, "-->") {
		text = strings.ReplaceAll(text, "-->", "->")
	}
	return strings.TrimSpace(text)
}

// Write encodes every segment produced by segments to w, in order, and
// returns the number of cues written. It stops at the first error.
func Write(w io.Writer, segments iter.Seq[domain.Segment]) (int, error) {
	enc := NewEncoder(w)
	for seg := range segments {
		if err := enc.Encode(seg); err != nil {
			return enc.Count(), err
		}
	}
	return enc.Count(), nil
}
