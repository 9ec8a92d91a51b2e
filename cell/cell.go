// Package cell implements runtime-typed cells: containers bound to a
// declared type at construction which reject values of any other type.
//
// A Cell is written to through two explicit operations in place of plain
// assignment: Assign, which stores a value or copies another cell, and
// TransferTo, which copies the receiver's value into a peer cell.
//
// Cells are not safe for concurrent use.
package cell

import (
	"fmt"
	"reflect"

	"github.com/cottand/shift/cellerr"
	"github.com/cottand/shift/internal/log"
)

var cellLogger = log.DefaultLogger.With("section", "cell")

// Holder is implemented by anything backed by a Cell, that is *Cell and *Var
type Holder interface {
	Cell() *Cell
}

// Settings tweak the behaviour of the cells they create
type Settings struct {
	// StrictCellAssign makes Assign fail with cellerr.Uninitialized when the
	// source cell is unset, the same way TransferTo does.
	// By default, assigning from an unset cell copies its unset state.
	StrictCellAssign bool
}

// Cell binds a value slot to a declared type.
//
// The zero Cell is not usable, use New or Settings.New
type Cell struct {
	typ      reflect.Type
	value    any
	set      bool
	settings Settings
}

var _ Holder = (*Cell)(nil)
var _ fmt.Stringer = (*Cell)(nil)

// New returns an unset Cell accepting only values of type t
func New(t reflect.Type) (*Cell, error) {
	return Settings{}.New(t)
}

// NewNamed returns an unset Cell for the type registered as name in u
func NewNamed(u Universe, name string) (*Cell, error) {
	return Settings{}.NewNamed(u, name)
}

func (s Settings) New(t reflect.Type) (*Cell, error) {
	if err := checkDeclarable(t); err != nil {
		return nil, err
	}
	return &Cell{typ: t, settings: s}, nil
}

func (s Settings) NewNamed(u Universe, name string) (*Cell, error) {
	t, err := u.Lookup(name)
	if err != nil {
		return nil, err
	}
	return s.New(t)
}

// checkDeclarable accepts types built from value kinds only, which Go copies on assignment
func checkDeclarable(t reflect.Type) error {
	if t == nil {
		return cellerr.New(cellerr.NewInvalidType{Desc: "nil", Reason: "not a type"})
	}
	if t.Kind() == reflect.Interface {
		return cellerr.New(cellerr.NewInvalidType{Desc: t.String(), Reason: "interface types have no values of their own"})
	}
	switch ref := sharedPart(t); {
	case ref == nil:
		return nil
	case ref == t:
		return cellerr.New(cellerr.NewInvalidType{Desc: t.String(), Reason: fmt.Sprintf("%s is a reference kind", t.Kind())})
	default:
		return cellerr.New(cellerr.NewInvalidType{Desc: t.String(), Reason: fmt.Sprintf("contains %s, which is not copied by value", ref)})
	}
}

// sharedPart returns the first type within t whose values would be shared
// between copies of a t, or nil if copies of t are independent
func sharedPart(t reflect.Type) reflect.Type {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.String:
		return nil
	case reflect.Array:
		return sharedPart(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if ref := sharedPart(t.Field(i).Type); ref != nil {
				return ref
			}
		}
		return nil
	default:
		return t
	}
}

// Cell returns c itself, so that *Cell is a Holder
func (c *Cell) Cell() *Cell { return c }

// Type is the declared type of c
func (c *Cell) Type() reflect.Type { return c.typ }

func (c *Cell) IsSet() bool { return c.set }

// Value returns the current value of c and whether it is set
func (c *Cell) Value() (any, bool) {
	return c.value, c.set
}

// Assign stores source in c.
//
// If source is a Holder, this is equivalent to AssignCell, otherwise to
// AssignValue.
func (c *Cell) Assign(source any) error {
	if h, ok := source.(Holder); ok && reflect.TypeOf(source).Kind() == reflect.Pointer {
		return c.AssignCell(h)
	}
	return c.AssignValue(source)
}

// AssignValue stores v in c if the dynamic type of v is exactly the declared type of c
func (c *Cell) AssignValue(v any) error {
	if c.typ == nil {
		return errZeroCell()
	}
	found := reflect.TypeOf(v)
	if found != c.typ {
		return cellerr.New(cellerr.NewTypeMismatch{
			Op:       cellerr.OpAssignValue,
			Expected: c.typ.String(),
			Found:    typeName(found),
		})
	}
	c.value = v
	c.set = true
	cellLogger.Debug("assigned value", "type", c.typ, "value", c)
	return nil
}

// AssignCell copies the value of src into c. src must have the same declared type as c.
//
// An unset src leaves c unset, unless c was created with Settings.StrictCellAssign.
func (c *Cell) AssignCell(src Holder) error {
	if c.typ == nil {
		return errZeroCell()
	}
	other := holderCell(src)
	if other == nil {
		return cellerr.New(cellerr.NewTypeMismatch{
			Op:       cellerr.OpAssignCell,
			Expected: c.typ.String(),
			Found:    "nil",
			Reason:   "source is not a cell",
		})
	}
	if other.typ != c.typ {
		return cellerr.New(cellerr.NewTypeMismatch{
			Op:       cellerr.OpAssignCell,
			Expected: c.typ.String(),
			Found:    typeName(other.typ),
		})
	}
	if !other.set && c.settings.StrictCellAssign {
		return cellerr.New(cellerr.NewUninitialized{Type: other.typ.String(), Op: cellerr.OpAssignCell})
	}
	if !other.set {
		cellLogger.Debug("assigned from unset cell", "type", c.typ)
	}
	c.value, c.set = other.value, other.set
	return nil
}

// TransferTo copies the value of c into target, leaving c unchanged
func (c *Cell) TransferTo(target Holder) error {
	if c.typ == nil {
		return errZeroCell()
	}
	other := holderCell(target)
	if other == nil {
		return cellerr.New(cellerr.NewTypeMismatch{
			Op:       cellerr.OpTransfer,
			Expected: "nil",
			Found:    c.typ.String(),
			Reason:   "target is not a cell",
		})
	}
	if other.typ != c.typ {
		return cellerr.New(cellerr.NewTypeMismatch{
			Op:       cellerr.OpTransfer,
			Expected: typeName(other.typ),
			Found:    c.typ.String(),
		})
	}
	if !c.set {
		return cellerr.New(cellerr.NewUninitialized{Type: c.typ.String(), Op: cellerr.OpTransfer})
	}
	other.value, other.set = c.value, true
	cellLogger.Debug("transferred value", "type", c.typ, "value", c)
	return nil
}

// String displays the value of c, or describes c if it is unset
func (c *Cell) String() string {
	if !c.set {
		return fmt.Sprintf("Uninitialized cell of type %s", c.typ)
	}
	return fmt.Sprint(c.value)
}

func holderCell(h Holder) *Cell {
	if h == nil {
		return nil
	}
	v := reflect.ValueOf(h)
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return nil
	}
	return h.Cell()
}

func errZeroCell() error {
	return cellerr.New(cellerr.NewInvalidType{Desc: "nil", Reason: "cell was not created with New"})
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "nil"
	}
	return t.String()
}
