package link

import (
	"errors"

	"github.com/ripplevm/rasm/translate"
)

var f = translate.From

var (
	ErrNoObjects = errors.New(f("no objects to link"))
	ErrBadMagic  = errors.New(f("not a linked program binary"))
	ErrTruncated = errors.New(f("linked program binary truncated"))
)

// ErrObjectErrors refuses an object that carries assembly errors.
type ErrObjectErrors struct {
	Name  string
	Count int
}

func (err ErrObjectErrors) Error() string {
	return f("object '%v' has %d assembly errors", err.Name, err.Count)
}

// ErrSymbolDuplicate reports a symbol defined by more than one object.
type ErrSymbolDuplicate struct {
	Symbol string
	Name   string
}

func (err ErrSymbolDuplicate) Error() string {
	return f("symbol '%v' redefined by object '%v'", err.Symbol, err.Name)
}

// ErrSymbolUndefined reports a reference no object satisfies.
type ErrSymbolUndefined struct {
	Symbol string
	Name   string
	Index  int
}

func (err ErrSymbolUndefined) Error() string {
	return f("undefined symbol '%v' referenced by object '%v' instruction %d", err.Symbol, err.Name, err.Index)
}
