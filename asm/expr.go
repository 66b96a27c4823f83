package asm

import (
	"fmt"
	"regexp"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

var (
	charRe = regexp.MustCompile(`'\\?[^']'`)
	exprRe = regexp.MustCompile(`\$\([^\$]*\)`)
)

// evalExpr evaluates a $( ... ) expression at assembly time. Integer-valued
// equates are bound as variables; everything else is out of scope for the
// expression language.
func (asm *Assembler) evalExpr(expr string) (value uint32, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		value32, valErr := asm.encoder.ParseImmediate(str)
		if valErr != nil {
			// Non-integer equates may be registers or labels.
			continue
		}
		pred[key] = starlark.MakeInt(int(value32))
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = ErrParseExpression(expr)
		return
	}

	rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	rcInt, ok := rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	rc64, ok := rcInt.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}

	value = uint32(rc64)
	return
}

// expandText rewrites character literals and $( ... ) expressions in a raw
// source line before parsing. Lines holding string directives keep their
// quoted text untouched.
func (asm *Assembler) expandText(text string, lineno int) (out string, err error) {
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	out = text
	if strings.Contains(out, `"`) {
		// A double-quoted string literal; character rewriting would
		// corrupt apostrophes inside it.
		return
	}

	out = charRe.ReplaceAllStringFunc(out, func(word string) string {
		value, ok := charValue(word[1 : len(word)-1])
		if !ok {
			return word
		}
		return fmt.Sprintf("%v", value)
	})

	out = exprRe.ReplaceAllStringFunc(out, func(match string) string {
		value, evalErr := asm.evalExpr(match[2 : len(match)-1])
		if evalErr != nil {
			err = evalErr
			return match
		}
		return fmt.Sprintf("%v", value)
	})

	return
}

// charValue evaluates the inside of a character literal.
func charValue(str string) (value byte, ok bool) {
	if len(str) == 2 && str[0] == '\\' {
		switch str[1] {
		case 'n':
			return '\n', true
		case 'r':
			return '\r', true
		case 't':
			return '\t', true
		case '0':
			return 0, true
		case '\\':
			return '\\', true
		case '\'':
			return '\'', true
		}
		return 0, false
	}
	if len(str) != 1 {
		return 0, false
	}
	return str[0], true
}
