// Package batch runs the normalizer and the polarity resolver over whole
// datasets of entity timelines, one goroutine per entity.
package batch

import (
	_ "embed"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Timelines maps an entity to the ordered texts of its timeline.
type Timelines map[string][]string

// Corpus maps an entity to the flat n-gram list of each of its units.
type Corpus map[string][][]string

// Scores maps an entity to its unit scores keyed by 1-based unit index.
type Scores map[string]map[string]float64

// Aggregates maps an entity to its sentiment intensity.
type Aggregates map[string]float64

// CSV column names.
const (
	ColumnUsername        = "username"
	ColumnText            = "text"
	ColumnTextTranslation = "text_translation"
)

// Input errors.
var (
	ErrUnsupportedInput = errors.New("unsupported timelines format")
	ErrInvalidTimelines = errors.New("timelines do not match schema")
	ErrMissingColumn    = errors.New("missing csv column")
)

//go:embed timelines.schema.json
var timelinesSchema []byte

var schemaLoader = gojsonschema.NewBytesLoader(timelinesSchema)

// Units returns the total number of texts.
func (t Timelines) Units() int {
	n := 0
	for _, texts := range t {
		n += len(texts)
	}

	return n
}

// LoadTimelines reads a .json or .csv timelines file.
func LoadTimelines(path string) (Timelines, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open timelines: %w", err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ParseTimelinesJSON(file)
	case ".csv":
		return ParseTimelinesCSV(file)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedInput, filepath.Base(path))
	}
}

// ParseTimelinesJSON reads {"entity": ["text", ...]}. Null texts become "".
func ParseTimelinesJSON(r io.Reader) (Timelines, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read timelines: %w", err)
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("validate timelines: %w", err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, verr := range result.Errors() {
			msgs = append(msgs, verr.String())
		}

		return nil, fmt.Errorf("%w: %s", ErrInvalidTimelines, strings.Join(msgs, "; "))
	}

	var raw map[string][]*string

	err = json.Unmarshal(data, &raw)
	if err != nil {
		return nil, fmt.Errorf("decode timelines: %w", err)
	}

	out := make(Timelines, len(raw))

	for entity, texts := range raw {
		units := make([]string, len(texts))

		for i, text := range texts {
			if text != nil {
				units[i] = *text
			}
		}

		out[entity] = units
	}

	return out, nil
}

// ParseTimelinesCSV reads rows with a username column and a text column.
// The English text_translation column is scored when present; text is the
// fallback. Rows are grouped per username in file order.
func ParseTimelinesCSV(r io.Reader) (Timelines, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	userCol, textCol, translationCol := -1, -1, -1

	for i, name := range header {
		switch strings.TrimSpace(strings.ToLower(name)) {
		case ColumnUsername:
			userCol = i
		case ColumnText:
			textCol = i
		case ColumnTextTranslation:
			translationCol = i
		}
	}

	if translationCol >= 0 {
		textCol = translationCol
	}

	if userCol < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, ColumnUsername)
	}

	if textCol < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, ColumnText)
	}

	out := make(Timelines)

	for {
		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}

		if readErr != nil {
			return nil, fmt.Errorf("read csv: %w", readErr)
		}

		if userCol >= len(record) {
			continue
		}

		var text string
		if textCol < len(record) {
			text = record[textCol]
		}

		out[record[userCol]] = append(out[record[userCol]], text)
	}

	return out, nil
}
