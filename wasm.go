//go:build js && wasm

package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"syscall/js"

	"github.com/cottand/shift/cellerr"
	"github.com/cottand/shift/script"
)

func main() {
	js.Global().Set("RunCellScript", js.FuncOf(runCellScript))

	// wait indefinitely so that Go does not terminate execution
	// and the function remains available
	<-make(chan struct{})
}

// runCellScript runs the script passed as its only argument and returns its output,
// followed by its errors, if any
//
// output: { output: string, errors: string }
func runCellScript(_ js.Value, args []js.Value) (ret any) {
	result := func(output, errs string) any {
		return js.ValueOf(map[string]any{
			"output": output,
			"errors": errs,
		})
	}
	defer func() {
		if r := recover(); r != nil {
			ret = result("", "runner panicked: "+fmt.Sprint(r))
		}
	}()
	if len(args) != 1 {
		return result("", fmt.Sprintf("expected 1 argument, got %d", len(args)))
	}

	prog, errs := script.ParseString("program.shift", args[0].String())
	if errs.HasError() {
		return result("", formatErrors(errs))
	}

	out := &bytes.Buffer{}
	runner, err := script.NewRunner(script.RunSettings{ContinueOnError: true, Stdout: out})
	if err != nil {
		return result("", err.Error())
	}
	errs, err = runner.Run(context.Background(), prog)
	if err != nil {
		return result(out.String(), err.Error())
	}
	return result(out.String(), formatErrors(errs))
}

func formatErrors(errs *cellerr.Errors) string {
	sb := strings.Builder{}
	for _, cellErr := range errs.Errors() {
		sb.WriteString(cellerr.FormatWithCode(cellErr))
		sb.WriteByte('\n')
	}
	return sb.String()
}
