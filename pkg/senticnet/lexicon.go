// Package senticnet loads the SenticNet concept lexicon from its assignment
// source form (one `senticnet['term'] = [...]` line per concept) or from the
// converted JSON form, and exposes concept polarity lookups.
package senticnet

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Defaults for the SenticNet 6 layout.
const (
	DefaultContainer     = "senticnet"
	DefaultPolarityIndex = 7

	maxLineBytes = 1 << 20
)

// Parse errors recorded per line.
var (
	ErrKeyNotString  = errors.New("key is not a string literal")
	ErrValueNotList  = errors.New("value is not a list or tuple")
	ErrUnknownFormat = errors.New("unknown lexicon file format")
)

// Record is the raw value list of one concept, as written in the source.
type Record []any

// ParseError describes one source line that matched the assignment shape
// but could not be evaluated. Such lines are skipped.
type ParseError struct {
	Line int
	Err  error
}

func (e ParseError) Error() string {
	return fmt.Sprintf("line %d ignored: %v", e.Line, e.Err)
}

func (e ParseError) Unwrap() error { return e.Err }

// Option configures parsing and lookup.
type Option func(*options)

type options struct {
	container     string
	polarityIndex int
	logger        *slog.Logger
}

// WithContainer sets the name of the mapping assigned to in the source.
func WithContainer(name string) Option {
	return func(o *options) { o.container = name }
}

// WithPolarityIndex sets the position of the polarity value in each record.
func WithPolarityIndex(idx int) Option {
	return func(o *options) { o.polarityIndex = idx }
}

// WithLogger sets the logger receiving per-line parse warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func buildOptions(opts []Option) options {
	o := options{container: DefaultContainer, polarityIndex: DefaultPolarityIndex}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// Lexicon maps concept terms to their records. It is immutable once built
// and safe for concurrent reads.
type Lexicon struct {
	records       map[string]Record
	polarityIndex int
}

// New builds a lexicon over the given records. The map is not copied.
func New(records map[string]Record, opts ...Option) *Lexicon {
	o := buildOptions(opts)

	if records == nil {
		records = map[string]Record{}
	}

	return &Lexicon{records: records, polarityIndex: o.polarityIndex}
}

// Len returns the number of concepts.
func (l *Lexicon) Len() int {
	return len(l.records)
}

// Lookup returns the raw record for term.
func (l *Lexicon) Lookup(term string) (Record, bool) {
	rec, ok := l.records[term]

	return rec, ok
}

// Polarity returns the polarity scalar of term. Records without a numeric
// value at the polarity index yield false.
func (l *Lexicon) Polarity(term string) (float64, bool) {
	rec, ok := l.records[term]
	if !ok || l.polarityIndex < 0 || l.polarityIndex >= len(rec) {
		return 0, false
	}

	switch v := rec[l.polarityIndex].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}

		return f, true
	default:
		return 0, false
	}
}

// Terms returns all concept terms in sorted order.
func (l *Lexicon) Terms() []string {
	terms := make([]string, 0, len(l.records))
	for term := range l.records {
		terms = append(terms, term)
	}

	slices.Sort(terms)

	return terms
}

// Parse reads assignment source. Lines not shaped like an assignment to the
// container are ignored silently; assignments whose key or value fail to
// evaluate are skipped and returned as ParseErrors. Later assignments of the
// same key overwrite earlier ones. Only read failures are returned as error.
func Parse(r io.Reader, opts ...Option) (*Lexicon, []ParseError, error) {
	o := buildOptions(opts)
	assign := regexp.MustCompile(`^` + regexp.QuoteMeta(o.container) + `\[(.+?)\]\s*=\s*(.+)`)

	records := make(map[string]Record)

	var skipped []ParseError

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineBytes)

	lineNo := 0

	for scanner.Scan() {
		lineNo++

		match := assign.FindStringSubmatch(scanner.Text())
		if match == nil {
			continue
		}

		term, rec, err := parseAssignment(match[1], match[2])
		if err != nil {
			perr := ParseError{Line: lineNo, Err: err}
			skipped = append(skipped, perr)

			if o.logger != nil {
				o.logger.Warn("lexicon line ignored", "line", lineNo, "error", err)
			}

			continue
		}

		records[term] = rec
	}

	err := scanner.Err()
	if err != nil {
		return nil, skipped, fmt.Errorf("read lexicon source: %w", err)
	}

	return &Lexicon{records: records, polarityIndex: o.polarityIndex}, skipped, nil
}

func parseAssignment(rawKey, rawValue string) (string, Record, error) {
	key, err := ParseLiteral(rawKey)
	if err != nil {
		return "", nil, fmt.Errorf("key: %w", err)
	}

	term, ok := key.(string)
	if !ok {
		return "", nil, ErrKeyNotString
	}

	value, err := ParseLiteral(rawValue)
	if err != nil {
		return "", nil, fmt.Errorf("value: %w", err)
	}

	list, ok := value.([]any)
	if !ok {
		return "", nil, ErrValueNotList
	}

	return term, Record(list), nil
}

// LoadJSON reads the converted JSON form: an object of term to value list.
func LoadJSON(r io.Reader, opts ...Option) (*Lexicon, error) {
	var records map[string]Record

	err := json.NewDecoder(r).Decode(&records)
	if err != nil {
		return nil, fmt.Errorf("decode lexicon json: %w", err)
	}

	return New(records, opts...), nil
}

// WriteJSON writes the lexicon in its converted JSON form with sorted keys.
func (l *Lexicon) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	err := enc.Encode(l.records)
	if err != nil {
		return fmt.Errorf("encode lexicon json: %w", err)
	}

	return nil
}

// LoadFile loads a lexicon from path, choosing the format by extension:
// ".json" for the converted form, ".py" or ".txt" for assignment source.
func LoadFile(path string, opts ...Option) (*Lexicon, []ParseError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open lexicon: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		lex, loadErr := LoadJSON(f, opts...)

		return lex, nil, loadErr
	case ".py", ".txt", "":
		return Parse(f, opts...)
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}
