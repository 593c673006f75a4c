// Package vader exposes the VADER valence lexicon as a vocabulary and a
// term-level valence lookup.
package vader

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"os"
	"strconv"
	"strings"

	"github.com/jonreiter/govader"
)

// Lexicon is a term to valence mapping on the -4..+4 VADER scale.
type Lexicon struct {
	valence  map[string]float64
	analyzer *govader.SentimentIntensityAnalyzer
}

// Default returns the lexicon bundled with govader. Merges into the
// returned lexicon do not reach the analyzer's own word list.
func Default() *Lexicon {
	sia := govader.NewSentimentIntensityAnalyzer()

	return &Lexicon{valence: maps.Clone(sia.Lexicon), analyzer: sia}
}

// New builds a lexicon from an explicit mapping. The map is copied.
func New(valence map[string]float64) *Lexicon {
	out := make(map[string]float64, len(valence))
	maps.Copy(out, valence)

	return &Lexicon{valence: out}
}

// Len returns the number of terms.
func (l *Lexicon) Len() int {
	return len(l.valence)
}

// Contains reports whether term is in the vocabulary.
func (l *Lexicon) Contains(term string) bool {
	_, ok := l.valence[term]

	return ok
}

// Valence returns the raw valence of term.
func (l *Lexicon) Valence(term string) (float64, bool) {
	v, ok := l.valence[term]

	return v, ok
}

// Compound returns the sentence-level VADER compound score of text. It is
// zero for lexicons not backed by the bundled analyzer.
func (l *Lexicon) Compound(text string) float64 {
	if l.analyzer == nil {
		return 0
	}

	return l.analyzer.PolarityScores(text).Compound
}

// Merge adds entries read in the vader_lexicon.txt layout
// (token, mean valence, standard deviation, raw ratings; tab-separated).
// Existing terms are overwritten. It returns the number of entries merged.
func (l *Lexicon) Merge(r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	merged := 0
	lineNo := 0

	for scanner.Scan() {
		lineNo++

		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return merged, fmt.Errorf("vader lexicon line %d: missing valence", lineNo)
		}

		v, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			return merged, fmt.Errorf("vader lexicon line %d: %w", lineNo, err)
		}

		l.valence[fields[0]] = v
		merged++
	}

	err := scanner.Err()
	if err != nil {
		return merged, fmt.Errorf("read vader lexicon: %w", err)
	}

	return merged, nil
}

// MergeFile merges a lexicon file from path.
func (l *Lexicon) MergeFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open vader lexicon: %w", err)
	}
	defer f.Close()

	return l.Merge(f)
}
