package wordnet

import "strings"

type substitution struct{ suffix, repl string }

// Detachment rules per part of speech, tried in order.
var substitutions = map[POS][]substitution{
	Noun: {
		{"s", ""}, {"ses", "s"}, {"ves", "f"}, {"xes", "x"}, {"zes", "z"},
		{"ches", "ch"}, {"shes", "sh"}, {"men", "man"}, {"ies", "y"},
	},
	Verb: {
		{"s", ""}, {"ies", "y"}, {"es", "e"}, {"es", ""},
		{"ed", "e"}, {"ed", ""}, {"ing", "e"}, {"ing", ""},
	},
	Adjective: {
		{"er", ""}, {"est", ""}, {"er", "e"}, {"est", "e"},
	},
	Adverb: nil,
}

// Morphy returns the base forms of form that exist in the index for pos,
// consulting the exception list first and then the detachment rules.
func (d *Dictionary) Morphy(form string, pos POS) []string {
	pos = pos.Base()

	if bases, ok := d.exceptions[pos][form]; ok {
		return d.filterForms(pos, append([]string{form}, bases...))
	}

	forms := applyRules(pos, []string{form})

	if found := d.filterForms(pos, append([]string{form}, forms...)); len(found) > 0 {
		return found
	}

	for len(forms) > 0 {
		forms = applyRules(pos, forms)

		if found := d.filterForms(pos, forms); len(found) > 0 {
			return found
		}
	}

	return nil
}

func applyRules(pos POS, forms []string) []string {
	var out []string

	for _, form := range forms {
		for _, sub := range substitutions[pos] {
			if strings.HasSuffix(form, sub.suffix) {
				out = append(out, form[:len(form)-len(sub.suffix)]+sub.repl)
			}
		}
	}

	return out
}

func (d *Dictionary) filterForms(pos POS, forms []string) []string {
	var (
		out  []string
		seen = make(map[string]struct{}, len(forms))
	)

	for _, form := range forms {
		if _, ok := d.index[pos][form]; !ok {
			continue
		}

		if _, dup := seen[form]; dup {
			continue
		}

		seen[form] = struct{}{}
		out = append(out, form)
	}

	return out
}

// Synsets returns the synsets of word across noun, verb, adjective and
// adverb, each in sense order. The word is lower-cased first.
func (d *Dictionary) Synsets(word string) []*Synset {
	word = strings.ToLower(word)

	var (
		out  []*Synset
		seen = make(map[synsetKey]struct{})
	)

	for _, pos := range posOrder {
		for _, form := range d.Morphy(word, pos) {
			for _, offset := range d.index[pos][form] {
				key := synsetKey{pos: pos, offset: offset}
				if _, dup := seen[key]; dup {
					continue
				}

				ss, ok := d.synsets[key]
				if !ok {
					continue
				}

				seen[key] = struct{}{}
				out = append(out, ss)
			}
		}
	}

	return out
}

// IsWord reports whether word has at least one synset.
func (d *Dictionary) IsWord(word string) bool {
	return len(d.Synsets(word)) > 0
}

// Lemma returns the shortest noun base form of word, or word itself when
// none exists.
func (d *Dictionary) Lemma(word string) string {
	forms := d.Morphy(word, Noun)
	if len(forms) == 0 {
		return word
	}

	best := forms[0]
	for _, form := range forms[1:] {
		if len(form) < len(best) {
			best = form
		}
	}

	return best
}

// Antonyms lists, for every synset of word and every lemma of that synset,
// the first antonym of the lemma. Order follows sense order, then lemma
// order within the synset.
func (d *Dictionary) Antonyms(word string) []string {
	var out []string

	for _, ss := range d.Synsets(word) {
		for i := range ss.Lemmas {
			if ant, ok := d.firstAntonym(ss, i+1); ok {
				out = append(out, ant)
			}
		}
	}

	return out
}

func (d *Dictionary) firstAntonym(ss *Synset, lemmaNumber int) (string, bool) {
	for _, ptr := range ss.pointers {
		if ptr.symbol != antonymSymbol || ptr.source != lemmaNumber {
			continue
		}

		target, ok := d.synsets[synsetKey{pos: ptr.pos.Base(), offset: ptr.offset}]
		if !ok || ptr.target < 1 || ptr.target > len(target.Lemmas) {
			continue
		}

		return target.Lemmas[ptr.target-1], true
	}

	return "", false
}
