// Package refindex builds the in-memory suburb-to-region lookup that the
// resolver (internal/resolve) consults for every record. It is built once
// at startup from the SAL reference file and is read-only afterward.
package refindex

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// RefLoadError marks a fatal failure while loading the reference file:
// missing file, malformed JSON, or an unrecognized ste digit. It is always
// fatal — the root aborts every worker rather than proceeding with a
// partial index.
type RefLoadError struct {
	Path string
	Err  error
}

func (e *RefLoadError) Error() string {
	return "refindex: failed to load " + e.Path + ": " + e.Err.Error()
}

func (e *RefLoadError) Unwrap() error { return e.Err }

// stateNameByDigit is the ste digit -> full state name table, carried
// verbatim from the reference implementation's state_dict.
var stateNameByDigit = map[string]string{
	"1": "new south wales",
	"2": "victoria",
	"3": "queensland",
	"4": "south australia",
	"5": "western australia",
	"6": "tasmania",
	"7": "northern territory",
	"8": "australian capital territory",
	"9": "other territories",
}

// territoryDigit is excluded from every index: ste "9" never qualifies.
const territoryDigit = "9"

// rawEntry is the shape of one value in the reference object.
type rawEntry struct {
	Ste string `json:"ste"`
	Gcc string `json:"gcc"`
	Sal string `json:"sal"`
}

// ReferenceIndex maps normalized (state, suburb) pairs to a region and
// exposes the state's gcc string. It is safe for concurrent read-only use
// by multiple workers once Load returns.
type ReferenceIndex struct {
	suburbsByState map[string]map[string]struct{}
	gccByState     map[string]string
}

// HasSuburb reports whether suburb is indexed under state. Both arguments
// must already be normalized (trimmed, lowercased).
func (r *ReferenceIndex) HasSuburb(state, suburb string) bool {
	set, ok := r.suburbsByState[state]
	if !ok {
		return false
	}
	_, ok = set[suburb]
	return ok
}

// GCC returns the canonical gcc string for a normalized state name.
func (r *ReferenceIndex) GCC(state string) (string, bool) {
	gcc, ok := r.gccByState[state]
	return gcc, ok
}

// isRural reports whether a gcc string's category character marks it as
// rest-of-state rather than greater-capital.
func isRural(gcc string) bool {
	return len(gcc) >= 2 && gcc[1] == 'r'
}

// normalizeSuburbKey strips a parenthesized qualifier such as "(City)"
// from a reference-file key and returns the trimmed, lowercased name.
func normalizeSuburbKey(key string) string {
	if idx := strings.Index(key, " ("); idx >= 0 {
		key = key[:idx]
	}
	return strings.ToLower(strings.TrimSpace(key))
}

// Load streams the reference JSON object at path and builds a
// ReferenceIndex without ever holding the whole decoded document in
// memory, matching the streaming discipline the rest of the engine
// observes for the (much larger) posts file.
func Load(path string, log *zap.Logger) (*ReferenceIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &RefLoadError{Path: path, Err: err}
	}
	defer f.Close()

	idx := &ReferenceIndex{
		suburbsByState: make(map[string]map[string]struct{}),
		gccByState:     make(map[string]string),
	}

	dec := json.NewDecoder(f)
	tok, err := dec.Token()
	if err != nil {
		return nil, &RefLoadError{Path: path, Err: errors.Wrap(err, "reading opening token")}
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, &RefLoadError{Path: path, Err: errors.New("expected top-level JSON object")}
	}

	count := 0
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, &RefLoadError{Path: path, Err: errors.Wrap(err, "reading suburb key")}
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, &RefLoadError{Path: path, Err: errors.New("non-string suburb key")}
		}

		var raw rawEntry
		if err := dec.Decode(&raw); err != nil {
			return nil, &RefLoadError{Path: path, Err: errors.Wrapf(err, "decoding entry %q", key)}
		}

		if raw.Ste == territoryDigit {
			continue
		}
		stateName, ok := stateNameByDigit[raw.Ste]
		if !ok {
			return nil, &RefLoadError{Path: path, Err: errors.Errorf("unknown ste %q for %q", raw.Ste, key)}
		}
		if isRural(raw.Gcc) {
			continue
		}

		name := normalizeSuburbKey(key)
		set, ok := idx.suburbsByState[stateName]
		if !ok {
			set = make(map[string]struct{})
			idx.suburbsByState[stateName] = set
		}
		set[name] = struct{}{}
		idx.gccByState[stateName] = raw.Gcc
		count++
	}

	if _, err := dec.Token(); err != nil && err != io.EOF {
		return nil, &RefLoadError{Path: path, Err: errors.Wrap(err, "reading closing token")}
	}

	if log != nil {
		log.Info("reference index loaded",
			zap.String("path", path),
			zap.Int("suburbs", count),
			zap.Int("states", len(idx.suburbsByState)),
		)
	}

	return idx, nil
}
