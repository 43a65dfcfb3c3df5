// Package partition implements the Byte-Range Partitioner (C2) and
// Sub-Chunker (C3): splitting a pretty-printed JSON array into
// record-aligned byte ranges without parsing the file.
package partition

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Record framing contract (spec §6): every record opens with a line that
// is exactly "  {" and the line immediately after it begins with
// "    \"_id\"". The top-level array opens with "[" and closes with "]".
const (
	recordOpenLine  = "  {"
	recordCloseLine = "  }"
	idHeaderPrefix  = `    "_id"`
	arrayOpenLine   = "["
)

// Range is a half-open byte interval [Start, End) aligned to whole
// records.
type Range struct {
	Start int64
	End   int64
}

// AlignError reports that a boundary scan ran off the end of the file
// without finding the record-framing pattern it was looking for. It is
// fatal for the worker that hit it: spec §7 requires the root to abort
// rather than continue with a partial result.
type AlignError struct {
	Pos  int64
	Kind string
	Err  error
}

func (e *AlignError) Error() string {
	return "partition: alignment scan from offset " + itoa(e.Pos) + " (" + e.Kind + "): " + e.Err.Error()
}

func (e *AlignError) Unwrap() error { return e.Err }

func itoa(n int64) string {
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

func trimLineEnding(line string) string {
	return strings.TrimRight(line, "\r\n")
}

// lineReader reads successive lines from f starting at pos, tracking the
// absolute byte offset of each line it returns.
type lineReader struct {
	br     *bufio.Reader
	offset int64
}

func newLineReader(f *os.File, pos int64) (*lineReader, error) {
	if _, err := f.Seek(pos, io.SeekStart); err != nil {
		return nil, err
	}
	return &lineReader{br: bufio.NewReaderSize(f, 64*1024), offset: pos}, nil
}

// next returns the next line (including its terminating newline, if
// any) and the absolute offset its first byte started at. A final line
// with no trailing newline is still returned with a nil error; the
// caller learns it has run out of input when next returns an empty line
// alongside a non-nil error.
func (lr *lineReader) next() (line string, start int64, err error) {
	start = lr.offset
	raw, err := lr.br.ReadString('\n')
	lr.offset += int64(len(raw))
	if raw == "" && err != nil {
		return "", start, err
	}
	return raw, start, nil
}

// alignToRecordStart scans forward from pos until it finds a line that is
// exactly "  {" immediately followed by a line beginning with the _id
// header, and returns the byte offset of the "  {" line. This is the one
// double-check realignment rule used for every start boundary in C2 and
// every internal boundary in C3.
func alignToRecordStart(f *os.File, pos int64) (int64, error) {
	lr, err := newLineReader(f, pos)
	if err != nil {
		return 0, &AlignError{Pos: pos, Kind: "record-start", Err: err}
	}

	prevLine, prevStart, err := lr.next()
	if prevLine == "" && err != nil {
		return 0, &AlignError{Pos: pos, Kind: "record-start", Err: errors.New("reached EOF without finding a record-open line")}
	}

	for {
		curLine, curStart, curErr := lr.next()
		if trimLineEnding(prevLine) == recordOpenLine && strings.HasPrefix(trimLineEnding(curLine), idHeaderPrefix) {
			return prevStart, nil
		}
		if curLine == "" && curErr != nil {
			return 0, &AlignError{Pos: pos, Kind: "record-start", Err: errors.New("reached EOF without finding a record-open line")}
		}
		prevLine, prevStart = curLine, curStart
	}
}

// firstRecordOffset returns the byte offset immediately after the file's
// opening "[" line, i.e. where the first record begins.
func firstRecordOffset(f *os.File) (int64, error) {
	lr, err := newLineReader(f, 0)
	if err != nil {
		return 0, &AlignError{Pos: 0, Kind: "array-open", Err: err}
	}
	line, _, err := lr.next()
	if err != nil && line == "" {
		return 0, &AlignError{Pos: 0, Kind: "array-open", Err: err}
	}
	if trimLineEnding(line) != arrayOpenLine {
		return 0, &AlignError{Pos: 0, Kind: "array-open", Err: errors.New("first line is not '['")}
	}
	return lr.offset, nil
}

// Ranges computes the N aligned, record-boundary-respecting byte ranges
// that partition a file of the given size, per spec §4.2. Concatenating
// the ranges in order covers every record in the file exactly once.
func Ranges(f *os.File, size int64, n int) ([]Range, error) {
	if n <= 0 {
		return nil, errors.New("partition: worker count must be positive")
	}
	if size <= 0 {
		return nil, errors.New("partition: empty file")
	}

	nominal := size / int64(n)
	starts := make([]int64, n)
	for r := 0; r < n; r++ {
		starts[r] = int64(r) * nominal
	}

	ranges := make([]Range, n)
	for r := 0; r < n; r++ {
		var start int64
		var err error
		if r == 0 {
			start, err = firstRecordOffset(f)
		} else {
			start, err = alignToRecordStart(f, starts[r])
		}
		if err != nil {
			return nil, err
		}

		var end int64
		if r == n-1 {
			end = size
		} else {
			nominalEnd := starts[r+1]
			end, err = alignToRecordStart(f, nominalEnd)
			if err != nil {
				return nil, err
			}
		}
		ranges[r] = Range{Start: start, End: end}
	}
	return ranges, nil
}

// SubChunks splits a worker's aligned [start, end) range into
// memory-bounded, record-aligned pieces of nominal size budget, per spec
// §4.3. The first piece keeps start, the last keeps end; every internal
// boundary is realigned with the same double-check rule as Ranges.
func SubChunks(f *os.File, start, end int64, budget int64) ([]Range, error) {
	if budget <= 0 {
		return nil, errors.New("partition: sub-chunk budget must be positive")
	}
	span := end - start
	if span <= budget {
		return []Range{{Start: start, End: end}}, nil
	}

	k := span/budget + 1
	ranges := make([]Range, 0, k)
	prev := start
	for i := int64(1); i < k; i++ {
		nominalBoundary := start + i*budget
		if nominalBoundary >= end {
			break
		}
		aligned, err := alignToRecordStart(f, nominalBoundary)
		if err != nil {
			// No record opens between the nominal boundary and EOF (the
			// boundary fell inside the file's last record), so the rest of
			// the range stays in the final piece.
			break
		}
		if aligned <= prev {
			// The nominal boundary realigned to (or before) the previous
			// one; skip emitting a degenerate empty piece.
			continue
		}
		ranges = append(ranges, Range{Start: prev, End: aligned})
		prev = aligned
	}
	ranges = append(ranges, Range{Start: prev, End: end})
	return ranges, nil
}
