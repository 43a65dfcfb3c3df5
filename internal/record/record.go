// Package record implements the Record Decoder (C4): turning a
// byte slice containing a whole number of pretty-printed records into a
// lazy sequence of typed posts.
package record

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// Post is the minimal typed projection of a record this engine cares
// about (spec §9's "dynamic records -> typed model" note): the author
// and the raw place name string. Everything else in the source record
// is ignored rather than decoded into a general DOM.
type Post struct {
	AuthorID string `json:"-"`
	FullName string `json:"-"`
}

// wireRecord mirrors just enough of the input record's shape to extract
// AuthorID and FullName; unknown fields are left for encoding/json to
// discard.
type wireRecord struct {
	Data struct {
		AuthorID string `json:"author_id"`
	} `json:"data"`
	Includes struct {
		Places []struct {
			FullName string `json:"full_name"`
		} `json:"places"`
	} `json:"includes"`
}

// ParseError wraps a single record that failed to decode. Per spec §7 it
// is never fatal: the caller logs it and abandons the remainder of the
// sub-piece it came from.
type ParseError struct {
	Offset int
	Err    error
	Dump   []byte
}

func (e *ParseError) Error() string {
	return "record: failed to decode record at buffer offset " + itoa(e.Offset) + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// maxDumpBytes bounds the size of the dump attached to a ParseError. The
// dump holds the decoder's error message, truncated to this length; it
// does not contain the raw bytes of the record that failed to decode.
const maxDumpBytes = 256

// prepare trims a raw sub-piece down to a bare, comma-separated sequence
// of "{ ... }" objects and wraps it in "[" / "]" to make it a decodable
// JSON array. See SPEC_FULL.md §9 for why this replaces the fixed
// 6-byte tail trim spec.md describes: boundaries from internal/partition
// are content-aligned so the only things that can trail a sub-piece are
// whitespace, the top-level "]" (the final worker only), and a trailing
// "," (every other worker).
func prepare(buf []byte) []byte {
	trimmed := bytes.TrimRight(buf, " \t\r\n")
	trimmed = bytes.TrimSuffix(trimmed, []byte("]"))
	trimmed = bytes.TrimRight(trimmed, " \t\r\n")
	trimmed = bytes.TrimSuffix(trimmed, []byte(","))

	out := make([]byte, 0, len(trimmed)+2)
	out = append(out, '[')
	out = append(out, trimmed...)
	out = append(out, ']')
	return out
}

// Decoder pulls one Post at a time out of a sub-piece's bytes, per spec
// §9's "coroutine/streaming control flow -> pull iterator" note. It
// never materializes the full decoded array.
type Decoder struct {
	dec    *json.Decoder
	offset int
	opened bool
	done   bool
}

// NewDecoder prepares buf (a whole number of pretty-printed records) for
// streaming decode.
func NewDecoder(buf []byte) *Decoder {
	wrapped := prepare(buf)
	return &Decoder{dec: json.NewDecoder(bytes.NewReader(wrapped))}
}

// Next advances the decoder and returns the next Post. It returns
// ok=false once the sub-piece is exhausted. A non-nil error is always a
// *ParseError and means the remainder of the sub-piece has been
// abandoned, per spec §7 — the caller should stop calling Next after
// seeing one.
func (d *Decoder) Next() (Post, bool, error) {
	if d.done {
		return Post{}, false, nil
	}

	if !d.opened {
		tok, err := d.dec.Token()
		if err != nil {
			d.done = true
			return Post{}, false, &ParseError{Err: errors.Wrap(err, "reading array open token")}
		}
		if delim, ok := tok.(json.Delim); !ok || delim != '[' {
			d.done = true
			return Post{}, false, &ParseError{Err: errors.New("sub-piece did not decode to a JSON array")}
		}
		d.opened = true
	}

	if !d.dec.More() {
		d.done = true
		return Post{}, false, nil
	}

	var raw wireRecord
	off := int(d.dec.InputOffset())
	if err := d.dec.Decode(&raw); err != nil {
		d.done = true
		return Post{}, false, &ParseError{Offset: off, Err: err, Dump: dump(err)}
	}

	post := Post{AuthorID: raw.Data.AuthorID}
	if len(raw.Includes.Places) > 0 {
		post.FullName = raw.Includes.Places[0].FullName
	}
	return post, true, nil
}

func dump(err error) []byte {
	if err == nil || err == io.EOF {
		return nil
	}
	s := err.Error()
	if len(s) > maxDumpBytes {
		s = s[:maxDumpBytes]
	}
	return []byte(s)
}
