package cellerr

import "fmt"

type NewInvalidType struct {
	position
	// Desc describes the rejected type descriptor
	Desc   string
	Reason string
	stack  []byte
}

func (e NewInvalidType) Error() string {
	return fmt.Sprintf("invalid type '%s': %s", e.Desc, e.Reason)
}
func (e NewInvalidType) Code() ErrCode    { return InvalidType }
func (e NewInvalidType) getStack() []byte { return e.stack }
func (e NewInvalidType) withStack(stack []byte) CellError {
	e.stack = stack
	return e
}
func (e NewInvalidType) withLine(line int) CellError {
	e.line = line
	return e
}

// MismatchOp is the operation that found mismatching types
type MismatchOp int

const (
	OpAssignValue MismatchOp = iota
	OpAssignCell
	OpTransfer
)

type NewTypeMismatch struct {
	position
	Op MismatchOp
	// Expected is the declared type of the cell being written to,
	// that is the receiver of an assignment or the target of a transfer
	Expected string
	// Found is the type of the value or cell being read from
	Found string
	// Reason is optional extra detail
	Reason string
	stack  []byte
}

func (e NewTypeMismatch) Error() string {
	var msg string
	switch e.Op {
	case OpAssignCell:
		msg = fmt.Sprintf("type mismatch: cannot assign '%s' to '%s'", e.Found, e.Expected)
	case OpTransfer:
		msg = fmt.Sprintf("type mismatch: cannot transfer '%s' to '%s'", e.Found, e.Expected)
	default:
		msg = fmt.Sprintf("type mismatch: expected type '%s', got '%s'", e.Expected, e.Found)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}
func (e NewTypeMismatch) Code() ErrCode    { return TypeMismatch }
func (e NewTypeMismatch) getStack() []byte { return e.stack }
func (e NewTypeMismatch) withStack(stack []byte) CellError {
	e.stack = stack
	return e
}
func (e NewTypeMismatch) withLine(line int) CellError {
	e.line = line
	return e
}

type NewUninitialized struct {
	position
	// Type is the declared type of the unset cell
	Type  string
	Op    MismatchOp
	stack []byte
}

func (e NewUninitialized) Error() string {
	verb := "transfer"
	if e.Op != OpTransfer {
		verb = "assign"
	}
	return fmt.Sprintf("cannot %s from uninitialized cell of type '%s'", verb, e.Type)
}
func (e NewUninitialized) Code() ErrCode    { return Uninitialized }
func (e NewUninitialized) getStack() []byte { return e.stack }
func (e NewUninitialized) withStack(stack []byte) CellError {
	e.stack = stack
	return e
}
func (e NewUninitialized) withLine(line int) CellError {
	e.line = line
	return e
}

type NewParse struct {
	position
	Message string
	Hint    string
	stack   []byte
}

func (e NewParse) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Hint)
	}
	return e.Message
}
func (e NewParse) Code() ErrCode    { return Parse }
func (e NewParse) getStack() []byte { return e.stack }
func (e NewParse) withStack(stack []byte) CellError {
	e.stack = stack
	return e
}
func (e NewParse) withLine(line int) CellError {
	e.line = line
	return e
}

type NewUndefinedCell struct {
	position
	Name  string
	stack []byte
}

func (e NewUndefinedCell) Error() string {
	return fmt.Sprintf("cell '%s' is not declared", e.Name)
}
func (e NewUndefinedCell) Code() ErrCode    { return UndefinedCell }
func (e NewUndefinedCell) getStack() []byte { return e.stack }
func (e NewUndefinedCell) withStack(stack []byte) CellError {
	e.stack = stack
	return e
}
func (e NewUndefinedCell) withLine(line int) CellError {
	e.line = line
	return e
}

type NewRedeclared struct {
	position
	Name         string
	PreviousLine int
	stack        []byte
}

func (e NewRedeclared) Error() string {
	return fmt.Sprintf("cell '%s' is already declared on line %d", e.Name, e.PreviousLine)
}
func (e NewRedeclared) Code() ErrCode    { return Redeclared }
func (e NewRedeclared) getStack() []byte { return e.stack }
func (e NewRedeclared) withStack(stack []byte) CellError {
	e.stack = stack
	return e
}
func (e NewRedeclared) withLine(line int) CellError {
	e.line = line
	return e
}

type NewEval struct {
	position
	Expr   string
	Reason string
	stack  []byte
}

func (e NewEval) Error() string {
	return fmt.Sprintf("could not evaluate '%s': %s", e.Expr, e.Reason)
}
func (e NewEval) Code() ErrCode    { return Eval }
func (e NewEval) getStack() []byte { return e.stack }
func (e NewEval) withStack(stack []byte) CellError {
	e.stack = stack
	return e
}
func (e NewEval) withLine(line int) CellError {
	e.line = line
	return e
}
