// Package sentiwordnet loads SentiWordNet 3.0 sense scores and resolves a
// word to the scores of its most common scored sense.
package sentiwordnet

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/spreadsent/pkg/wordnet"
)

// Scores are the positive and negative scores of one synset.
type Scores struct {
	Pos float64
	Neg float64
}

// SynsetSource lists the synsets of a word in sense order.
type SynsetSource interface {
	Synsets(word string) []*wordnet.Synset
}

type senseKey struct {
	pos    wordnet.POS
	offset int64
}

// Lexicon maps WordNet synsets to their sentiment scores.
type Lexicon struct {
	scores  map[senseKey]Scores
	synsets SynsetSource
}

// Load reads a SentiWordNet file from path.
func Load(path string, synsets SynsetSource) (*Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sentiwordnet: %w", err)
	}
	defer f.Close()

	return Parse(f, synsets)
}

// Parse reads the tab-separated SentiWordNet format:
// POS, ID, PosScore, NegScore, SynsetTerms, Gloss. Lines starting with '#'
// and lines without an ID are ignored.
func Parse(r io.Reader, synsets SynsetSource) (*Lexicon, error) {
	lex := &Lexicon{scores: make(map[senseKey]Scores), synsets: synsets}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), 1<<20)

	lineNo := 0

	for scanner.Scan() {
		lineNo++

		line := scanner.Text()
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 4 || fields[0] == "" || fields[1] == "" {
			continue
		}

		key, scores, err := parseFields(fields)
		if err != nil {
			return nil, fmt.Errorf("sentiwordnet line %d: %w", lineNo, err)
		}

		lex.scores[key] = scores
	}

	err := scanner.Err()
	if err != nil {
		return nil, fmt.Errorf("read sentiwordnet: %w", err)
	}

	return lex, nil
}

func parseFields(fields []string) (senseKey, Scores, error) {
	offset, err := strconv.ParseInt(strings.TrimSpace(fields[1]), 10, 64)
	if err != nil {
		return senseKey{}, Scores{}, fmt.Errorf("synset id: %w", err)
	}

	pos, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
	if err != nil {
		return senseKey{}, Scores{}, fmt.Errorf("positive score: %w", err)
	}

	neg, err := strconv.ParseFloat(strings.TrimSpace(fields[3]), 64)
	if err != nil {
		return senseKey{}, Scores{}, fmt.Errorf("negative score: %w", err)
	}

	key := senseKey{pos: wordnet.POS(fields[0][0]).Base(), offset: offset}

	return key, Scores{Pos: pos, Neg: neg}, nil
}

// Len returns the number of scored synsets.
func (l *Lexicon) Len() int {
	return len(l.scores)
}

// Sense returns the scores of one synset.
func (l *Lexicon) Sense(ss *wordnet.Synset) (Scores, bool) {
	s, ok := l.scores[senseKey{pos: ss.POS.Base(), offset: ss.Offset}]

	return s, ok
}

// Resolve returns the scores of the first sense of word that SentiWordNet
// covers. A covered sense with zero scores is still a result.
func (l *Lexicon) Resolve(word string) (Scores, bool) {
	if l.synsets == nil {
		return Scores{}, false
	}

	for _, ss := range l.synsets.Synsets(word) {
		if s, ok := l.Sense(ss); ok {
			return s, true
		}
	}

	return Scores{}, false
}
