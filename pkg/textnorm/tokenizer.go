package textnorm

import (
	"html"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// DefaultMaxRun is the longest run of one repeated character the tokenizer
// keeps ("loooooove" becomes "looove").
const DefaultMaxRun = 3

const emoticonPattern = `(?:[<>]?[:;=8][\-o\*']?[\)\]\(\[dDpP/:\}\{@\|\\]` +
	`|[\)\]\(\[dDpP/:\}\{@\|\\][\-o\*']?[:;=8][<>]?` +
	`|</?3)`

var (
	emoticonRe = regexp.MustCompile(emoticonPattern)

	handleRe = regexp.MustCompile(`(?:^|[^\p{L}\p{N}_!@#$%&*])@[A-Za-z0-9_]{1,15}`)

	tokenRe = regexp.MustCompile(strings.Join([]string{
		emoticonPattern,
		`<[^>\s]+>`,
		`[\-]+>|<[\-]+`,
		`@[\p{L}\p{N}_]+`,
		`#+[\p{L}\p{N}_]+[\p{L}\p{N}'_\-]*[\p{L}\p{N}_]+`,
		`[\p{L}\p{N}_.+\-]+@[\p{L}\p{N}_\-]+\.(?:[\p{L}\p{N}_\-]\.?)+[\p{L}\p{N}_\-]`,
		`\p{L}[\p{M}]*(?:[\p{L}\p{M}]|['\-_])+\p{L}[\p{M}]*`,
		`[+\-]?\p{N}+[,/.:\-]\p{N}+[+\-]?`,
		`[\p{L}\p{M}\p{N}_]+`,
		`\.(?:\s*\.)+`,
		`\S`,
	}, "|"))
)

// Tokenizer splits social-media text into lower-cased tokens, keeping
// emoticons intact and capping character repetitions.
type Tokenizer struct {
	// MaxRun caps runs of one repeated character. Zero disables capping.
	MaxRun int
}

// NewTokenizer returns a tokenizer capping runs at maxRun.
func NewTokenizer(maxRun int) *Tokenizer {
	return &Tokenizer{MaxRun: maxRun}
}

// Tokenize returns the tokens of text in order.
func (tk *Tokenizer) Tokenize(text string) []string {
	text = norm.NFC.String(html.UnescapeString(text))
	text = handleRe.ReplaceAllStringFunc(text, keepLeader)

	if tk.MaxRun > 0 {
		text = CollapseRuns(text, tk.MaxRun)
	}

	tokens := tokenRe.FindAllString(text, -1)
	// Casers carry state; one per call keeps Tokenize goroutine-safe.
	lower := cases.Lower(language.Und)

	for i, tok := range tokens {
		if !emoticonRe.MatchString(tok) {
			tokens[i] = lower.String(tok)
		}
	}

	return tokens
}

// keepLeader drops the handle but keeps the character matched before "@".
func keepLeader(match string) string {
	at := strings.IndexByte(match, '@')

	return match[:at] + " "
}

// CollapseRuns shortens every run of one repeated rune to at most limit.
func CollapseRuns(text string, limit int) string {
	var (
		sb   strings.Builder
		prev rune = -1
		run  int
	)

	sb.Grow(len(text))

	for _, r := range text {
		if r == prev {
			run++
		} else {
			prev, run = r, 1
		}

		if run <= limit {
			sb.WriteRune(r)
		}
	}

	return sb.String()
}
