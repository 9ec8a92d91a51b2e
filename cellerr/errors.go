package cellerr

import (
	"fmt"
	"log/slog"
	"strings"
)

type Errors struct {
	errs []CellError
}

func (r *Errors) With(err ...CellError) *Errors {
	if r == nil {
		return &Errors{errs: err}
	}
	r.errs = append(r.errs, err...)
	return r
}

func (r *Errors) Merge(err *Errors) *Errors {
	if r == nil {
		return err
	}
	if err == nil {
		return r
	}
	if len(err.errs) == 0 {
		return r
	}
	return r.With(err.errs...)
}

func (r *Errors) Errors() []CellError {
	if r == nil {
		return nil
	}
	return r.errs
}

func (r *Errors) HasError() bool {
	if r == nil {
		return false
	}
	return len(r.errs) > 0
}

// Err returns the first error, or nil if there are none
func (r *Errors) Err() error {
	if !r.HasError() {
		return nil
	}
	return r.errs[0]
}

func (r *Errors) LogValue() slog.Value {
	var vals []slog.Attr
	for i, v := range r.Errors() {
		attrs := []slog.Attr{slog.String("msg", FormatWithCode(v))}
		if origin := originOf(v); origin != "" {
			attrs = append(attrs, slog.String("origin", origin))
		}
		vals = append(vals, slog.Attr{
			Key:   fmt.Sprint("e", i),
			Value: slog.GroupValue(attrs...),
		})
	}
	return slog.GroupValue(vals...)
}

// originOf is the file and line of the call to New that created e
func originOf(e CellError) string {
	// goroutine header, debug.Stack, New, then the caller, each taking two lines
	const callerLine = 6
	lines := strings.Split(string(e.getStack()), "\n")
	if len(lines) <= callerLine {
		return ""
	}
	file, _, _ := strings.Cut(strings.TrimSpace(lines[callerLine]), " ")
	return file
}
