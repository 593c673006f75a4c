package senticnet

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Literal parsing errors.
var (
	ErrInvalidLiteral = errors.New("invalid literal")
	ErrTrailingData   = errors.New("unexpected trailing data")
	ErrUnterminated   = errors.New("unterminated literal")
)

// ParseLiteral evaluates a data literal as written in lexicon source files:
// quoted strings (single or double, optional r/u prefix), integers and
// floats, True/False/None, and arbitrarily nested lists and tuples.
// Numbers decode as float64, sequences as []any, None as nil.
func ParseLiteral(src string) (any, error) {
	p := &literalParser{src: src}

	p.skipSpace()

	value, err := p.value()
	if err != nil {
		return nil, err
	}

	p.skipSpace()

	if p.pos < len(p.src) && p.src[p.pos] != '#' {
		return nil, fmt.Errorf("%w at offset %d", ErrTrailingData, p.pos)
	}

	return value, nil
}

type literalParser struct {
	src string
	pos int
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\r', '\n':
			p.pos++
		default:
			return
		}
	}
}

func (p *literalParser) value() (any, error) {
	if p.pos >= len(p.src) {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidLiteral)
	}

	switch ch := p.src[p.pos]; {
	case ch == '[':
		return p.sequence(']')
	case ch == '(':
		return p.sequence(')')
	case ch == '\'' || ch == '"':
		return p.str(false)
	case (ch == 'r' || ch == 'R' || ch == 'u' || ch == 'U') && p.pos+1 < len(p.src) &&
		(p.src[p.pos+1] == '\'' || p.src[p.pos+1] == '"'):
		p.pos++

		return p.str(ch == 'r' || ch == 'R')
	case ch == '-' || ch == '+' || ch == '.' || isDigit(ch):
		return p.number()
	default:
		return p.keyword()
	}
}

func (p *literalParser) sequence(closer byte) (any, error) {
	p.pos++

	items := make([]any, 0)

	for {
		p.skipSpace()

		if p.pos >= len(p.src) {
			return nil, ErrUnterminated
		}

		if p.src[p.pos] == closer {
			p.pos++

			return items, nil
		}

		item, err := p.value()
		if err != nil {
			return nil, err
		}

		items = append(items, item)

		p.skipSpace()

		if p.pos >= len(p.src) {
			return nil, ErrUnterminated
		}

		switch p.src[p.pos] {
		case ',':
			p.pos++
		case closer:
		default:
			return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrInvalidLiteral, p.src[p.pos], p.pos)
		}
	}
}

func (p *literalParser) str(raw bool) (any, error) {
	quote := p.src[p.pos]
	p.pos++

	var sb strings.Builder

	for p.pos < len(p.src) {
		ch := p.src[p.pos]

		switch {
		case ch == quote:
			p.pos++

			return sb.String(), nil
		case ch == '\n':
			return nil, ErrUnterminated
		case ch == '\\' && p.pos+1 < len(p.src):
			if raw {
				sb.WriteByte(ch)
				sb.WriteByte(p.src[p.pos+1])
				p.pos += 2

				continue
			}

			err := p.escape(&sb)
			if err != nil {
				return nil, err
			}
		default:
			sb.WriteByte(ch)
			p.pos++
		}
	}

	return nil, ErrUnterminated
}

var simpleEscapes = map[byte]string{
	'\\': "\\", '\'': "'", '"': "\"", 'n': "\n", 't': "\t", 'r': "\r",
	'a': "\a", 'b': "\b", 'f': "\f", 'v': "\v", '\n': "",
}

func (p *literalParser) escape(sb *strings.Builder) error {
	code := p.src[p.pos+1]

	if repl, ok := simpleEscapes[code]; ok {
		sb.WriteString(repl)
		p.pos += 2

		return nil
	}

	if isOctal(code) {
		p.octal(sb)

		return nil
	}

	width := map[byte]int{'x': 2, 'u': 4, 'U': 8}[code]
	if width == 0 {
		// Unknown escapes keep the backslash.
		sb.WriteByte('\\')
		sb.WriteByte(code)
		p.pos += 2

		return nil
	}

	start := p.pos + 2
	if start+width > len(p.src) {
		return fmt.Errorf("%w: truncated \\%c escape", ErrInvalidLiteral, code)
	}

	cp, err := strconv.ParseUint(p.src[start:start+width], 16, 32)
	if err != nil || !utf8.ValidRune(rune(cp)) {
		return fmt.Errorf("%w: bad \\%c escape", ErrInvalidLiteral, code)
	}

	sb.WriteRune(rune(cp))
	p.pos = start + width

	return nil
}

// octal decodes \o, \oo or \ooo into the code point it names.
func (p *literalParser) octal(sb *strings.Builder) {
	p.pos++

	var cp rune

	for n := 0; n < 3 && p.pos < len(p.src) && isOctal(p.src[p.pos]); n++ {
		cp = cp*8 + rune(p.src[p.pos]-'0')
		p.pos++
	}

	sb.WriteRune(cp)
}

func (p *literalParser) number() (any, error) {
	start := p.pos

	if p.src[p.pos] == '-' || p.src[p.pos] == '+' {
		p.pos++
	}

	for p.pos < len(p.src) {
		ch := p.src[p.pos]
		if isDigit(ch) || ch == '.' || ch == '_' || ch == 'e' || ch == 'E' ||
			((ch == '-' || ch == '+') && (p.src[p.pos-1] == 'e' || p.src[p.pos-1] == 'E')) {
			p.pos++

			continue
		}

		break
	}

	text := strings.ReplaceAll(p.src[start:p.pos], "_", "")

	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: number %q", ErrInvalidLiteral, text)
	}

	return value, nil
}

func (p *literalParser) keyword() (any, error) {
	start := p.pos

	for p.pos < len(p.src) && isIdent(p.src[p.pos]) {
		p.pos++
	}

	switch word := p.src[start:p.pos]; word {
	case "True":
		return true, nil
	case "False":
		return false, nil
	case "None":
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidLiteral, p.src[start:min(len(p.src), start+16)])
	}
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isOctal(ch byte) bool { return ch >= '0' && ch <= '7' }

func isIdent(ch byte) bool {
	return ch == '_' || isDigit(ch) || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
