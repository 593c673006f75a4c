// Package wordnet reads the Princeton WordNet 3.0 database files and answers
// the lookups the text normalizer and the sense lexicon need: synsets of a
// word form, noun lemmas and antonyms.
package wordnet

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// POS is a WordNet part-of-speech tag.
type POS byte

// Parts of speech as written in the database files.
const (
	Noun         POS = 'n'
	Verb         POS = 'v'
	Adjective    POS = 'a'
	AdjSatellite POS = 's'
	Adverb       POS = 'r'
)

// Lookup order used by Synsets.
var posOrder = []POS{Noun, Verb, Adjective, Adverb}

var fileNames = map[POS]string{
	Noun:      "noun",
	Verb:      "verb",
	Adjective: "adj",
	Adverb:    "adv",
}

// Base maps satellite adjectives onto the adjective tag; other tags are
// returned unchanged.
func (p POS) Base() POS {
	if p == AdjSatellite {
		return Adjective
	}

	return p
}

func (p POS) String() string { return string(p) }

const antonymSymbol = "!"

// ErrNoDictionary is returned when a directory holds no index files.
var ErrNoDictionary = errors.New("no wordnet index files found")

// Synset is one WordNet synonym set.
type Synset struct {
	Offset   int64
	POS      POS
	Lemmas   []string
	pointers []pointer
}

type pointer struct {
	symbol string
	offset int64
	pos    POS
	source int
	target int
}

type synsetKey struct {
	pos    POS
	offset int64
}

// Dictionary is an in-memory WordNet database. It is immutable after
// loading and safe for concurrent use.
type Dictionary struct {
	index      map[POS]map[string][]int64
	synsets    map[synsetKey]*Synset
	exceptions map[POS]map[string][]string
}

// Open loads the database files from dir.
func Open(dir string) (*Dictionary, error) {
	return OpenFS(os.DirFS(dir))
}

// OpenFS loads index.<pos>, data.<pos> and <pos>.exc files from fsys.
// Parts of speech without an index file are skipped; exception lists are
// optional.
func OpenFS(fsys fs.FS) (*Dictionary, error) {
	dict := &Dictionary{
		index:      make(map[POS]map[string][]int64),
		synsets:    make(map[synsetKey]*Synset),
		exceptions: make(map[POS]map[string][]string),
	}

	for _, pos := range posOrder {
		name := fileNames[pos]

		idx, err := readFile(fsys, "index."+name, parseIndex)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}

		if err != nil {
			return nil, err
		}

		dict.index[pos] = idx

		synsets, err := readFile(fsys, "data."+name, parseData)
		if err != nil {
			return nil, err
		}

		for _, ss := range synsets {
			dict.synsets[synsetKey{pos: pos, offset: ss.Offset}] = ss
		}

		exc, err := readFile(fsys, name+".exc", parseExceptions)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}

		dict.exceptions[pos] = exc
	}

	if len(dict.index) == 0 {
		return nil, ErrNoDictionary
	}

	return dict, nil
}

func readFile[T any](fsys fs.FS, name string, parse func(io.Reader) (T, error)) (T, error) {
	f, err := fsys.Open(name)
	if err != nil {
		var zero T

		return zero, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	out, err := parse(f)
	if err != nil {
		return out, fmt.Errorf("parse %s: %w", name, err)
	}

	return out, nil
}

func scanLines(r io.Reader, fn func(line string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), 1<<20)

	for scanner.Scan() {
		line := scanner.Text()
		// License header lines start with whitespace.
		if line == "" || line[0] == ' ' {
			continue
		}

		err := fn(line)
		if err != nil {
			return err
		}
	}

	return scanner.Err()
}

// index line: lemma pos synset_cnt p_cnt [ptr_symbol...] sense_cnt tagsense_cnt offset...
func parseIndex(r io.Reader) (map[string][]int64, error) {
	idx := make(map[string][]int64)

	err := scanLines(r, func(line string) error {
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return fmt.Errorf("short index line %q", line)
		}

		synsetCount, err := strconv.Atoi(fields[2])
		if err != nil {
			return fmt.Errorf("synset count in %q: %w", line, err)
		}

		if synsetCount > len(fields) {
			return fmt.Errorf("short index line %q", line)
		}

		offsets := make([]int64, 0, synsetCount)

		for _, raw := range fields[len(fields)-synsetCount:] {
			off, parseErr := strconv.ParseInt(raw, 10, 64)
			if parseErr != nil {
				return fmt.Errorf("offset in %q: %w", line, parseErr)
			}

			offsets = append(offsets, off)
		}

		idx[fields[0]] = offsets

		return nil
	})

	return idx, err
}

// data line: offset lex_filenum ss_type w_cnt (word lex_id)... p_cnt (ptr)... | gloss
func parseData(r io.Reader) ([]*Synset, error) {
	var out []*Synset

	err := scanLines(r, func(line string) error {
		head, _, _ := strings.Cut(line, "|")

		ss, err := parseSynset(strings.Fields(head))
		if err != nil {
			return fmt.Errorf("data line %q: %w", truncate(line), err)
		}

		out = append(out, ss)

		return nil
	})

	return out, err
}

var errShortData = errors.New("truncated synset")

func parseSynset(fields []string) (*Synset, error) {
	const headerFields = 4

	if len(fields) < headerFields {
		return nil, errShortData
	}

	offset, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("offset: %w", err)
	}

	wordCount, err := strconv.ParseInt(fields[3], 16, 32)
	if err != nil {
		return nil, fmt.Errorf("word count: %w", err)
	}

	ss := &Synset{Offset: offset, POS: POS(fields[2][0])}
	pos := headerFields

	for range wordCount {
		if pos+1 >= len(fields) {
			return nil, errShortData
		}

		ss.Lemmas = append(ss.Lemmas, stripMarker(fields[pos]))
		pos += 2
	}

	if pos >= len(fields) {
		return nil, errShortData
	}

	ptrCount, err := strconv.Atoi(fields[pos])
	if err != nil {
		return nil, fmt.Errorf("pointer count: %w", err)
	}

	pos++

	for range ptrCount {
		if pos+3 >= len(fields) {
			return nil, errShortData
		}

		ptr, ptrErr := parsePointer(fields[pos : pos+4])
		if ptrErr != nil {
			return nil, ptrErr
		}

		ss.pointers = append(ss.pointers, ptr)
		pos += 4
	}

	return ss, nil
}

func parsePointer(fields []string) (pointer, error) {
	offset, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return pointer{}, fmt.Errorf("pointer offset: %w", err)
	}

	st, err := strconv.ParseUint(fields[3], 16, 16)
	if err != nil {
		return pointer{}, fmt.Errorf("pointer source/target: %w", err)
	}

	return pointer{
		symbol: fields[0],
		offset: offset,
		pos:    POS(fields[2][0]),
		source: int(st >> 8),
		target: int(st & 0xff),
	}, nil
}

// Adjective lemmas may carry a syntactic marker such as "(a)" or "(ip)".
func stripMarker(word string) string {
	if i := strings.IndexByte(word, '('); i > 0 && strings.HasSuffix(word, ")") {
		return word[:i]
	}

	return word
}

func parseExceptions(r io.Reader) (map[string][]string, error) {
	exc := make(map[string][]string)

	err := scanLines(r, func(line string) error {
		fields := strings.Fields(line)
		if len(fields) >= 2 {
			exc[fields[0]] = fields[1:]
		}

		return nil
	})

	return exc, err
}

func truncate(s string) string {
	const limit = 60

	if len(s) > limit {
		return s[:limit] + "..."
	}

	return s
}
