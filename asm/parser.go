package asm

import (
	"bufio"
	"io"
	"strings"
)

// ParsedLine is the structured form of one source line. A line may carry any
// combination of label, directive, and instruction; a zero ParsedLine means
// the line was blank or comment-only.
type ParsedLine struct {
	Label         string
	Mnemonic      string
	Operands      []string
	Directive     string
	DirectiveArgs []string
	LineNo        int
	Raw           string
}

// Empty reports whether the line carries nothing to assemble.
func (line ParsedLine) Empty() bool {
	return line.Label == "" && line.Mnemonic == "" && line.Directive == ""
}

// Parser splits source text into ParsedLines. It never validates operand
// semantics; that is the encoder's job.
type Parser struct {
	CaseInsensitive bool
}

// Parse parses a whole source stream, dropping blank and comment-only lines.
func (p *Parser) Parse(input io.Reader) (lines []ParsedLine, err error) {
	scanner := bufio.NewScanner(input)

	var lineno int
	for scanner.Scan() {
		lineno += 1
		line := p.ParseLine(scanner.Text(), lineno)
		if !line.Empty() {
			lines = append(lines, line)
		}
	}
	err = scanner.Err()

	return
}

// stripComment removes everything after whichever comment marker appears
// first. Markers are matched as literal substrings.
func stripComment(text string) string {
	cut := len(text)
	for _, marker := range []string{";", "#", "//"} {
		if pos := strings.Index(text, marker); pos >= 0 && pos < cut {
			cut = pos
		}
	}
	return text[:cut]
}

// ParseLine parses a single source line.
func (p *Parser) ParseLine(text string, lineno int) (line ParsedLine) {
	line.LineNo = lineno
	line.Raw = text

	rest := strings.TrimSpace(stripComment(text))
	if rest == "" {
		return
	}

	// Directive line.
	if strings.HasPrefix(rest, ".") {
		p.parseDirective(rest, &line)
		return
	}

	// Leading label.
	if pos := strings.Index(rest, ":"); pos >= 0 {
		line.Label = strings.TrimSpace(rest[:pos])
		rest = strings.TrimSpace(rest[pos+1:])
	}

	if rest == "" {
		return
	}

	// Directive after a label.
	if strings.HasPrefix(rest, ".") {
		p.parseDirective(rest, &line)
		return
	}

	tokens := tokenize(rest)
	if len(tokens) == 0 {
		return
	}

	line.Mnemonic = tokens[0]
	if p.CaseInsensitive {
		line.Mnemonic = strings.ToUpper(line.Mnemonic)
	}
	line.Operands = tokens[1:]

	return
}

func (p *Parser) parseDirective(rest string, line *ParsedLine) {
	tokens := tokenize(rest)
	if len(tokens) == 0 {
		return
	}
	line.Directive = strings.ToLower(tokens[0][1:])
	line.DirectiveArgs = tokens[1:]
}

// tokenize splits on whitespace and commas while keeping quoted substrings
// (either quote type, with backslash escapes) as single tokens. Quoted
// tokens retain their surrounding quotes.
func tokenize(text string) (tokens []string) {
	var current strings.Builder
	var quote byte

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for n := 0; n < len(text); n++ {
		ch := text[n]

		if quote != 0 {
			if ch == '\\' && n+1 < len(text) {
				current.WriteByte(ch)
				n += 1
				current.WriteByte(text[n])
				continue
			}
			current.WriteByte(ch)
			if ch == quote {
				quote = 0
				flush()
			}
			continue
		}

		switch ch {
		case ' ', '\t', ',':
			flush()
		case '"', '\'':
			flush()
			quote = ch
			current.WriteByte(ch)
		default:
			current.WriteByte(ch)
		}
	}
	flush()

	return
}

// ParseMacroArgs splits a macro-call argument list on top-level commas,
// tracking nested parenthesis depth so arguments that are themselves
// @macro(...) calls stay whole. Quoted substrings are opaque.
func ParseMacroArgs(text string) (args []string) {
	var current strings.Builder
	var quote byte
	depth := 0

	flush := func() {
		arg := strings.TrimSpace(current.String())
		if arg != "" {
			args = append(args, arg)
		}
		current.Reset()
	}

	for n := 0; n < len(text); n++ {
		ch := text[n]

		if quote != 0 {
			if ch == '\\' && n+1 < len(text) {
				current.WriteByte(ch)
				n += 1
				current.WriteByte(text[n])
				continue
			}
			current.WriteByte(ch)
			if ch == quote {
				quote = 0
			}
			continue
		}

		switch ch {
		case '"', '\'':
			quote = ch
			current.WriteByte(ch)
		case '(':
			depth += 1
			current.WriteByte(ch)
		case ')':
			depth -= 1
			current.WriteByte(ch)
		case ',':
			if depth == 0 {
				flush()
			} else {
				current.WriteByte(ch)
			}
		default:
			current.WriteByte(ch)
		}
	}
	flush()

	return
}
