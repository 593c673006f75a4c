package textnorm

import "strings"

const elongationRun = 3

// ReduceElongation strips repeated characters from an elongated word until
// it becomes a dictionary word. Each pass shortens every run of three or
// more identical characters by one; the word is returned as soon as it is
// recognized, or once a pass changes nothing.
func ReduceElongation(word string, dict Dictionary) string {
	if dict.IsWord(word) || !hasRun(word, elongationRun) {
		return word
	}

	current := word

	for {
		if dict.IsWord(current) {
			return current
		}

		next := shortenRuns(current, elongationRun)
		if next == current {
			return next
		}

		current = next
	}
}

func hasRun(word string, limit int) bool {
	var (
		prev rune = -1
		run  int
	)

	for _, r := range word {
		if r == prev {
			run++
		} else {
			prev, run = r, 1
		}

		if run >= limit {
			return true
		}
	}

	return false
}

// shortenRuns drops one character from every run of at least limit.
func shortenRuns(word string, limit int) string {
	runes := []rune(word)

	var sb strings.Builder

	for i := 0; i < len(runes); {
		j := i
		for j < len(runes) && runes[j] == runes[i] {
			j++
		}

		n := j - i
		if n >= limit {
			n--
		}

		sb.WriteString(strings.Repeat(string(runes[i]), n))

		i = j
	}

	return sb.String()
}
