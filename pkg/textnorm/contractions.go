package textnorm

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var contractionCandidate = regexp.MustCompile(`['’]?\p{L}+(?:['’]\p{L}+)*`)

var contractionTable = map[string]string{
	"'cause":    "because",
	"ain't":     "are not",
	"aren't":    "are not",
	"can't":     "cannot",
	"can't've":  "cannot have",
	"could've":  "could have",
	"couldn't":  "could not",
	"didn't":    "did not",
	"doesn't":   "does not",
	"don't":     "do not",
	"hadn't":    "had not",
	"hasn't":    "has not",
	"haven't":   "have not",
	"he'd":      "he would",
	"he'll":     "he will",
	"he's":      "he is",
	"how'd":     "how did",
	"how'll":    "how will",
	"how's":     "how is",
	"i'd":       "I would",
	"i'll":      "I will",
	"i'm":       "I am",
	"i've":      "I have",
	"isn't":     "is not",
	"it'd":      "it would",
	"it'll":     "it will",
	"it's":      "it is",
	"let's":     "let us",
	"ma'am":     "madam",
	"mightn't":  "might not",
	"might've":  "might have",
	"mustn't":   "must not",
	"must've":   "must have",
	"needn't":   "need not",
	"o'clock":   "of the clock",
	"shan't":    "shall not",
	"she'd":     "she would",
	"she'll":    "she will",
	"she's":     "she is",
	"should've": "should have",
	"shouldn't": "should not",
	"that'd":    "that would",
	"that's":    "that is",
	"there'd":   "there would",
	"there's":   "there is",
	"they'd":    "they would",
	"they'll":   "they will",
	"they're":   "they are",
	"they've":   "they have",
	"wasn't":    "was not",
	"we'd":      "we would",
	"we'll":     "we will",
	"we're":     "we are",
	"we've":     "we have",
	"weren't":   "were not",
	"what'll":   "what will",
	"what're":   "what are",
	"what's":    "what is",
	"what've":   "what have",
	"when's":    "when is",
	"where'd":   "where did",
	"where's":   "where is",
	"who'd":     "who would",
	"who'll":    "who will",
	"who's":     "who is",
	"who've":    "who have",
	"why's":     "why is",
	"won't":     "will not",
	"would've":  "would have",
	"wouldn't":  "would not",
	"y'all":     "you all",
	"you'd":     "you would",
	"you'll":    "you will",
	"you're":    "you are",
	"you've":    "you have",
	"gonna":     "going to",
	"gotta":     "got to",
	"wanna":     "want to",
	"gimme":     "give me",
	"lemme":     "let me",
	"kinda":     "kind of",
	"sorta":     "sort of",
	"outta":     "out of",
	"dunno":     "do not know",
}

// Generic endings for forms missing from the table.
var contractionSuffixes = []struct{ suffix, repl string }{
	{"n't", " not"},
	{"'re", " are"},
	{"'ve", " have"},
	{"'ll", " will"},
	{"'d", " would"},
	{"'m", " am"},
}

// ExpandContractions rewrites contracted forms ("don't", "I'm", "gonna")
// into their canonical multi-word form. A capitalized or upper-case source
// keeps its case on the expansion.
func ExpandContractions(text string) string {
	return contractionCandidate.ReplaceAllStringFunc(text, expandWord)
}

func expandWord(word string) string {
	key := strings.ToLower(strings.ReplaceAll(word, "’", "'"))

	expanded, ok := contractionTable[key]
	if !ok {
		expanded, ok = expandSuffix(key)
	}

	if !ok {
		return word
	}

	return matchCase(word, expanded)
}

func expandSuffix(key string) (string, bool) {
	for _, s := range contractionSuffixes {
		stem, found := strings.CutSuffix(key, s.suffix)
		if found && stem != "" && !strings.ContainsRune(stem, '\'') {
			return stem + s.repl, true
		}
	}

	return "", false
}

func matchCase(src, expanded string) string {
	first, _ := utf8.DecodeRuneInString(src)
	if !unicode.IsUpper(first) {
		return expanded
	}

	if utf8.RuneCountInString(src) > 1 && strings.ToUpper(src) == src {
		return strings.ToUpper(expanded)
	}

	r, size := utf8.DecodeRuneInString(expanded)

	return string(unicode.ToUpper(r)) + expanded[size:]
}
