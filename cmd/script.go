package cmd

import (
	"io"
	"strings"

	"github.com/cottand/shift/cellerr"
	"github.com/cottand/shift/script"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	dumpNone = "none"
	dumpYAML = "yaml"
)

// runScript parses and runs the script read from r, printing its output and,
// if dump is dumpYAML, the final state of its cells to cmd's output
func runScript(cmd *cobra.Command, name string, r io.Reader, settings script.RunSettings, dump string) error {
	if dump != dumpNone && dump != dumpYAML {
		return errors.Errorf("unknown dump format '%s', expected '%s' or '%s'", dump, dumpNone, dumpYAML)
	}

	prog, errs := script.Parse(name, r)
	if errs.HasError() {
		return errorsFound("parsing", errs)
	}

	settings.Stdout = cmd.OutOrStdout()
	runner, err := script.NewRunner(settings)
	if err != nil {
		return errors.Wrap(err, "could not start script runner")
	}

	errs, err = runner.Run(cmd.Context(), prog)
	if err != nil {
		return errors.Wrapf(err, "could not run %s", name)
	}

	if dump == dumpYAML {
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(map[string][]script.Entry{"cells": runner.Snapshot()}); err != nil {
			return errors.Wrap(err, "could not dump cells")
		}
		if err := enc.Close(); err != nil {
			return errors.Wrap(err, "could not dump cells")
		}
	}

	if errs.HasError() && !settings.ContinueOnError {
		return errorsFound("running", errs)
	}
	return nil
}

func errorsFound(phase string, errs *cellerr.Errors) error {
	sb := &strings.Builder{}
	for _, cellErr := range errs.Errors() {
		sb.WriteString("\n")
		sb.WriteString(cellerr.FormatWithCode(cellErr))
	}
	return errors.Errorf("errors found while %s:%s", phase, sb.String())
}
