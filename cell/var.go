package cell

// Var is a Cell whose declared type is known at compile time.
// Set cannot fail, while Assign still accepts any value or Holder.
type Var[T any] struct {
	c *Cell
}

var _ Holder = (*Var[int])(nil)

func NewVar[T any]() (*Var[T], error) {
	return NewVarWith[T](Settings{})
}

func NewVarWith[T any](s Settings) (*Var[T], error) {
	c, err := s.New(TypeOf[T]())
	if err != nil {
		return nil, err
	}
	return &Var[T]{c: c}, nil
}

func (v *Var[T]) Cell() *Cell { return v.c }

func (v *Var[T]) Set(x T) {
	v.c.value = x
	v.c.set = true
}

func (v *Var[T]) Assign(source any) error { return v.c.Assign(source) }

func (v *Var[T]) TransferTo(target Holder) error { return v.c.TransferTo(target) }

// Get returns the current value, or the zero value of T and false if v is unset
func (v *Var[T]) Get() (T, bool) {
	if !v.c.set {
		var zero T
		return zero, false
	}
	return v.c.value.(T), true
}

func (v *Var[T]) String() string { return v.c.String() }
