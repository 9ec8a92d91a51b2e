package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/cottand/shift/cell"
	"github.com/cottand/shift/cellerr"
	"github.com/cottand/shift/internal/log"
)

var runLogger = log.DefaultLogger.With("section", "script.run")

type RunSettings struct {
	// Universe resolves the type names of declarations; cell.Builtins() if empty
	Universe cell.Universe
	// Cell configures every cell the script declares
	Cell cell.Settings
	// ContinueOnError makes the run report failed statements on Stdout and
	// carry on, instead of stopping at the first one
	ContinueOnError bool
	// Stdout receives the output of print statements; discarded if nil
	Stdout io.Writer
}

// Runner executes Programs. Cells declared by a Program stay declared for
// later calls to Run on the same Runner.
type Runner struct {
	settings RunSettings
	cells    map[string]declared
	order    []string
	eval     *evaluator
}

type declared struct {
	cell *cell.Cell
	line int
}

// Entry describes a declared cell
type Entry struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
	Value string `yaml:"value"`
	Set   bool   `yaml:"set"`
	Line  int    `yaml:"line"`
}

func NewRunner(settings RunSettings) (*Runner, error) {
	if settings.Universe.Len() == 0 {
		settings.Universe = cell.Builtins()
	}
	if settings.Stdout == nil {
		settings.Stdout = io.Discard
	}
	eval, err := newEvaluator(settings.Stdout)
	if err != nil {
		return nil, err
	}
	return &Runner{
		settings: settings,
		cells:    make(map[string]declared),
		eval:     eval,
	}, nil
}

// Run executes the statements of p in order.
//
// Failed statements are reported in the returned Errors. The error return is
// only used for failures unrelated to the script itself, such as ctx being done.
func (r *Runner) Run(ctx context.Context, p *Program) (*cellerr.Errors, error) {
	var errs *cellerr.Errors
	logger := runLogger.With("program", p.Name)

	for _, stmt := range p.Stmts {
		if err := ctx.Err(); err != nil {
			return errs, err
		}
		logger.Debug("executing", "line", stmt.Line(), "stmt", stmt)

		err := r.exec(ctx, stmt)
		if err == nil {
			continue
		}
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return errs, err
		}
		cellErr := cellerr.AtLine(cellerr.From(err), stmt.Line())
		errs = errs.With(cellErr)
		if !r.settings.ContinueOnError {
			logger.Debug("stopping at failed statement", slog.Any("errors", errs))
			return errs, nil
		}
		if _, err := fmt.Fprintf(r.settings.Stdout, "Error: %s\n", cellErr.Error()); err != nil {
			return errs, fmt.Errorf("could not write error: %w", err)
		}
	}
	return errs, nil
}

func (r *Runner) exec(ctx context.Context, stmt Stmt) error {
	switch s := stmt.(type) {
	case *Decl:
		if prev, ok := r.cells[s.Name]; ok {
			return cellerr.New(cellerr.NewRedeclared{Name: s.Name, PreviousLine: prev.line})
		}
		c, err := r.settings.Cell.NewNamed(r.settings.Universe, s.TypeName)
		if err != nil {
			return err
		}
		r.cells[s.Name] = declared{cell: c, line: s.Line()}
		r.order = append(r.order, s.Name)
		return nil

	case *Assign:
		target, err := r.lookup(s.Target)
		if err != nil {
			return err
		}
		if isIdent(s.Expr) {
			if src, ok := r.cells[s.Expr]; ok {
				return target.Assign(src.cell)
			}
		}
		v, err := r.eval.eval(ctx, s.Expr)
		if err != nil && isIdent(s.Expr) && cellerr.Is(err, cellerr.Eval) {
			// neither a cell nor a Go identifier
			return cellerr.New(cellerr.NewUndefinedCell{Name: s.Expr})
		}
		if err != nil {
			return err
		}
		return target.Assign(v)

	case *Transfer:
		src, err := r.lookup(s.Source)
		if err != nil {
			return err
		}
		target, err := r.lookup(s.Target)
		if err != nil {
			return err
		}
		return src.TransferTo(target)

	case *Print:
		c, err := r.lookup(s.Name)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(r.settings.Stdout, "%s: %s\n", s.Name, c); err != nil {
			return fmt.Errorf("could not print %s: %w", s.Name, err)
		}
		return nil

	case *Import:
		return r.eval.importPackage(ctx, s.Path)
	}
	return fmt.Errorf("unsupported statement %T", stmt)
}

func (r *Runner) lookup(name string) (*cell.Cell, error) {
	d, ok := r.cells[name]
	if !ok {
		return nil, cellerr.New(cellerr.NewUndefinedCell{Name: name})
	}
	return d.cell, nil
}

// Lookup returns the cell declared as name
func (r *Runner) Lookup(name string) (*cell.Cell, bool) {
	d, ok := r.cells[name]
	return d.cell, ok
}

// Snapshot describes every declared cell, in declaration order
func (r *Runner) Snapshot() []Entry {
	entries := make([]Entry, 0, len(r.order))
	for _, name := range r.order {
		d := r.cells[name]
		entries = append(entries, Entry{
			Name:  name,
			Type:  d.cell.Type().String(),
			Value: d.cell.String(),
			Set:   d.cell.IsSet(),
			Line:  d.line,
		})
	}
	return entries
}
