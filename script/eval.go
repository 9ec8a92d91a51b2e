package script

import (
	"context"
	"fmt"
	"go/constant"
	"go/token"
	"go/types"
	"io"
	"math"
	"reflect"

	"github.com/cottand/shift/cellerr"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// evaluator computes the right-hand side of assignments with an embedded Go interpreter
type evaluator struct {
	i *interp.Interpreter
}

func newEvaluator(stdout io.Writer) (*evaluator, error) {
	i := interp.New(interp.Options{Stdout: stdout, Stderr: stdout})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("error loading Go interpreter: %w", err)
	}
	return &evaluator{i: i}, nil
}

// eval returns the dynamic value of the Go expression expr
func (e *evaluator) eval(ctx context.Context, expr string) (any, error) {
	if tv, ok := untypedConstant(expr); ok {
		return defaultTyped(expr, tv)
	}
	v, err := e.run(ctx, expr)
	if err != nil {
		return nil, err
	}
	if !v.IsValid() || !v.CanInterface() {
		return nil, cellerr.New(cellerr.NewEval{Expr: expr, Reason: "expression has no value"})
	}
	return v.Interface(), nil
}

// importPackage makes the standard library package at path usable in later expressions
func (e *evaluator) importPackage(ctx context.Context, path string) error {
	_, err := e.run(ctx, fmt.Sprintf("import %q", path))
	return err
}

func (e *evaluator) run(ctx context.Context, src string) (v reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = cellerr.New(cellerr.NewEval{Expr: src, Reason: fmt.Sprint("interpreter panicked: ", r)})
		}
	}()

	v, err = e.i.EvalWithContext(ctx, src)
	if err != nil {
		if ctx.Err() != nil {
			return v, ctx.Err()
		}
		return v, cellerr.New(cellerr.NewEval{Expr: src, Reason: err.Error()})
	}
	return v, nil
}

// untypedConstant folds expr if it is an untyped constant expression made of
// literals and predeclared identifiers only
func untypedConstant(expr string) (types.TypeAndValue, bool) {
	tv, err := types.Eval(token.NewFileSet(), nil, token.NoPos, expr)
	if err != nil || tv.Value == nil {
		return tv, false
	}
	b, ok := tv.Type.(*types.Basic)
	return tv, ok && b.Info()&types.IsUntyped != 0
}

// defaultTyped gives an untyped constant its default Go type, the way
// `v := <constant>` would
func defaultTyped(expr string, tv types.TypeAndValue) (any, error) {
	c := tv.Value
	overflows := func(typ string) error {
		return cellerr.New(cellerr.NewEval{Expr: expr, Reason: fmt.Sprintf("constant %s overflows %s", c, typ)})
	}
	switch tv.Type.(*types.Basic).Kind() {
	case types.UntypedBool:
		return constant.BoolVal(c), nil
	case types.UntypedString:
		return constant.StringVal(c), nil
	case types.UntypedRune:
		i, exact := constant.Int64Val(constant.ToInt(c))
		if !exact || i < math.MinInt32 || i > math.MaxInt32 {
			return nil, overflows("rune")
		}
		return rune(i), nil
	case types.UntypedInt:
		i, exact := constant.Int64Val(constant.ToInt(c))
		if !exact || int64(int(i)) != i {
			return nil, overflows("int")
		}
		return int(i), nil
	case types.UntypedFloat:
		f, _ := constant.Float64Val(constant.ToFloat(c))
		if math.IsInf(f, 0) {
			return nil, overflows("float64")
		}
		return f, nil
	case types.UntypedComplex:
		z := constant.ToComplex(c)
		re, _ := constant.Float64Val(constant.Real(z))
		im, _ := constant.Float64Val(constant.Imag(z))
		if math.IsInf(re, 0) || math.IsInf(im, 0) {
			return nil, overflows("complex128")
		}
		return complex(re, im), nil
	}
	return nil, cellerr.New(cellerr.NewEval{Expr: expr, Reason: "not a constant"})
}
