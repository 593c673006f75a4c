// Package testfixture holds a miniature WordNet, SentiWordNet, SenticNet and
// valence lexicon shared by package tests.
package testfixture

import (
	"strings"
	"testing/fstest"
)

// WordNet returns a tiny WordNet database in the on-disk file layout.
func WordNet() fstest.MapFS {
	return fstest.MapFS{
		"index.noun": file(
			"  1 This software and database is being provided to you, the LICENSEE, by",
			"day n 1 0 1 0 15155220",
			"dog n 1 0 1 0 02084071",
			"domestic_dog n 1 0 1 0 02084071",
			"good n 1 0 1 0 05142180",
			"goose n 1 0 1 0 01855672",
			"hate n 1 1 ! 1 0 07547805",
			"love n 1 1 ! 1 0 07543288",
			"news n 1 0 1 0 06642138",
			"world n 1 0 1 0 09466280",
		),
		"data.noun": file(
			"  1 This software and database is being provided to you, the LICENSEE, by",
			"01855672 05 n 01 goose 0 000 | web-footed long-necked migratory aquatic birds",
			"02084071 05 n 02 dog 0 domestic_dog 0 000 | a member of the genus Canis",
			"05142180 07 n 01 good 0 000 | moral excellence or admirableness",
			"06642138 10 n 01 news 0 000 | information reported in a newspaper",
			"07543288 12 n 01 love 0 001 ! 07547805 n 0101 | a strong positive emotion of regard and affection",
			"07547805 12 n 01 hate 0 001 ! 07543288 n 0101 | the emotion of intense dislike",
			"09466280 17 n 01 world 0 000 | everything that exists anywhere",
			"15155220 28 n 01 day 0 000 | time for Earth to make a complete rotation",
		),
		"noun.exc": file(
			"geese goose",
		),
		"index.verb": file(
			"hate v 1 1 ! 1 0 01774136",
			"love v 1 1 ! 1 0 01775164",
		),
		"data.verb": file(
			"01774136 37 v 01 hate 0 001 ! 01775164 v 0101 01 + 02 00 | dislike intensely",
			"01775164 37 v 01 love 0 001 ! 01774136 v 0101 01 + 02 00 | have a great affection or liking for",
		),
		"index.adj": file(
			"awful a 1 0 1 0 00193799",
			"bad a 1 1 ! 1 0 01125429",
			"good a 1 1 ! 1 0 01123148",
			"happy a 1 1 ! 1 0 01148283",
			"sad a 1 0 1 0 01361863",
			"terrible a 1 0 1 0 00193799",
			"unhappy a 1 1 ! 1 0 01149494",
		),
		"data.adj": file(
			"00193799 00 s 02 terrible 0 awful(a) 0 000 | exceptionally bad or displeasing",
			"01123148 00 a 01 good 0 001 ! 01125429 a 0101 | having desirable or positive qualities",
			"01125429 00 a 01 bad 0 001 ! 01123148 a 0101 | having undesirable or negative qualities",
			"01148283 00 a 01 happy 0 001 ! 01149494 a 0101 | enjoying or showing joy or pleasure",
			"01149494 00 a 01 unhappy 0 001 ! 01148283 a 0101 | experiencing or marked by sadness",
			"01361863 00 a 01 sad 0 000 | experiencing or showing sorrow or unhappiness",
		),
		"adj.exc": file(
			"better good",
		),
		"index.adv": file(
			"well r 1 0 1 0 00011093",
		),
		"data.adv": file(
			"00011093 02 r 01 well 0 000 | in a good or proper manner",
		),
	}
}

// SentiWordNet is a SentiWordNet 3.0 excerpt covering the WordNet fixture.
// goose, news, day and well have no scores.
const SentiWordNet = `# SentiWordNet v3.0 excerpt
# POS	ID	PosScore	NegScore	SynsetTerms	Gloss
a	00193799	0	0.625	terrible#1 awful#1	exceptionally bad or displeasing
a	01123148	0.75	0	good#1	having desirable or positive qualities
a	01125429	0	0.625	bad#1	having undesirable or negative qualities
a	01148283	0.875	0	happy#1	enjoying or showing joy or pleasure
a	01149494	0	0.75	unhappy#1	experiencing or marked by sadness
a	01361863	0.125	0.75	sad#1	experiencing or showing sorrow or unhappiness
n	02084071	0	0	dog#1 domestic_dog#1	a member of the genus Canis
n	05142180	0.5	0	good#1	moral excellence or admirableness
n	07543288	0.625	0	love#1	a strong positive emotion of regard and affection
n	07547805	0	0.75	hate#1	the emotion of intense dislike
n	09466280	0	0	world#1	everything that exists anywhere
v	01774136	0	0.5	hate#1	dislike intensely
v	01775164	0.5	0	love#1	have a great affection or liking for
`

// SenticNet is a SenticNet assignment source excerpt. Line 6 is malformed.
const SenticNet = `senticnet = {}
senticnet['out_of_this_world'] = ['#joy', '#admiration', 'positive', 'positive', 'great', 'wonderful', 'out_of_this_world', '0.9']
senticnet['world'] = ['#interest', '#calmness', 'neutral', 'neutral', 'earth', 'globe', 'world', '-0.3']
senticnet['fake_news'] = ['#disgust', '#anger', 'negative', 'negative', 'lie', 'hoax', 'fake_news', '-0.6']
senticnet['news'] = ['#interest', '#surprise', 'positive', 'neutral', 'report', 'story', 'news', '0.2']
senticnet['broken'] = ['#joy', 'oops
senticnet['goose'] = ['#joy', '#surprise', 'positive', 'positive', 'bird', 'fowl', 'goose', '0.4']
`

// Valence is a small valence lexicon on VADER's -4..4 scale.
func Valence() map[string]float64 {
	return map[string]float64{
		":)":    2.0,
		"bad":   -2.5,
		"day":   0.0,
		"good":  1.9,
		"happy": 2.7,
		"hate":  -2.7,
		"lol":   1.8,
		"love":  3.2,
		"well":  1.1,
		"😀":     2.8,
	}
}

func file(lines ...string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(strings.Join(lines, "\n") + "\n")}
}
