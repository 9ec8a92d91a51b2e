package cellerr

import (
	"errors"
	"fmt"
	"runtime/debug"
)

type ErrCode int

const (
	None ErrCode = iota
	InvalidType
	TypeMismatch
	Uninitialized
	Parse
	UndefinedCell
	Redeclared
	Eval
)

// CellError is implemented by every error produced by cells and cell scripts
type CellError interface {
	Error() string
	Code() ErrCode
	// Line is the script line the error originated from, or 0 outside of scripts
	Line() int

	withStack([]byte) CellError
	getStack() []byte
	withLine(int) CellError
}

func FormatWithCode(e CellError) string {
	prefix := ""
	if e.Line() > 0 {
		prefix = fmt.Sprintf("line %d: ", e.Line())
	}
	return fmt.Sprintf("%s(E%03d) %s", prefix, e.Code(), e.Error())
}

func New[E CellError](err E) CellError {
	return err.withStack(debug.Stack())
}

// AtLine returns a copy of err positioned at the given script line
func AtLine(err CellError, line int) CellError {
	return err.withLine(line)
}

// Is reports whether any error in err's chain is a CellError with the given code
func Is(err error, code ErrCode) bool {
	var cellErr CellError
	if !errors.As(err, &cellErr) {
		return false
	}
	return cellErr.Code() == code
}

// From returns err as a CellError, classifying it as Unclassified if it is not one already
func From(err error) CellError {
	var cellErr CellError
	if errors.As(err, &cellErr) {
		return cellErr
	}
	return New(Unclassified{From: err})
}

// position is embedded in every error kind
type position struct {
	line int
}

func (p position) Line() int { return p.line }

type Unclassified struct {
	From error
	position
	stack []byte
}

func (e Unclassified) Error() string {
	return fmt.Sprintf("unclassified error: %v", e.From)
}
func (e Unclassified) Unwrap() error    { return e.From }
func (e Unclassified) Code() ErrCode    { return None }
func (e Unclassified) getStack() []byte { return e.stack }
func (e Unclassified) withStack(stack []byte) CellError {
	e.stack = stack
	return e
}
func (e Unclassified) withLine(line int) CellError {
	e.line = line
	return e
}
