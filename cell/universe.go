package cell

import (
	"reflect"

	"github.com/benbjohnson/immutable"
	"github.com/cottand/shift/cellerr"
)

// Universe maps type names to the types cells can be declared with.
//
// A Universe is immutable: With returns an extended copy and leaves the
// receiver untouched, so universes can be shared freely.
type Universe struct {
	types *immutable.SortedMap[string, reflect.Type]
}

var builtins = func() Universe {
	b := immutable.NewSortedMapBuilder[string, reflect.Type](nil)
	for _, t := range []reflect.Type{
		TypeOf[bool](),
		TypeOf[int](), TypeOf[int8](), TypeOf[int16](), TypeOf[int32](), TypeOf[int64](),
		TypeOf[uint](), TypeOf[uint8](), TypeOf[uint16](), TypeOf[uint32](), TypeOf[uint64](), TypeOf[uintptr](),
		TypeOf[float32](), TypeOf[float64](),
		TypeOf[complex64](), TypeOf[complex128](),
		TypeOf[string](),
	} {
		b.Set(t.String(), t)
	}
	// aliases, as in the Go universe
	b.Set("byte", TypeOf[byte]())
	b.Set("rune", TypeOf[rune]())
	return Universe{types: b.Map()}
}()

// Builtins returns the universe of Go's predeclared value types
func Builtins() Universe {
	return builtins
}

// TypeOf returns the reflect.Type of T
func TypeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

func (u Universe) Lookup(name string) (reflect.Type, error) {
	if u.types != nil {
		if t, ok := u.types.Get(name); ok {
			return t, nil
		}
	}
	return nil, cellerr.New(cellerr.NewInvalidType{Desc: name, Reason: "unknown type name"})
}

// With returns a copy of u where name refers to t.
// It fails if cells cannot be declared with t.
func (u Universe) With(name string, t reflect.Type) (Universe, error) {
	if err := checkDeclarable(t); err != nil {
		return u, err
	}
	types := u.types
	if types == nil {
		types = immutable.NewSortedMap[string, reflect.Type](nil)
	}
	return Universe{types: types.Set(name, t)}, nil
}

func (u Universe) Len() int {
	if u.types == nil {
		return 0
	}
	return u.types.Len()
}

// Names returns the registered type names in ascending order
func (u Universe) Names() []string {
	if u.types == nil {
		return nil
	}
	names := make([]string, 0, u.types.Len())
	itr := u.types.Iterator()
	for !itr.Done() {
		name, _, _ := itr.Next()
		names = append(names, name)
	}
	return names
}
