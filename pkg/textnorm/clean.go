package textnorm

import "regexp"

var noisePattern = regexp.MustCompile(`http\S+|www.\S+|@\w+|#\w+`)

// StripNoise removes URLs, @mentions and #hashtags from text.
func StripNoise(text string) string {
	return noisePattern.ReplaceAllString(text, "")
}
