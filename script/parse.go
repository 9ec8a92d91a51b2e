package script

import (
	"bufio"
	"fmt"
	"go/token"
	"io"
	"strconv"
	"strings"

	"github.com/cottand/shift/cellerr"
	"github.com/cottand/shift/internal/log"
	"github.com/hashicorp/go-set/v3"
)

var parseLogger = log.DefaultLogger.With("section", "script.parse")

const (
	kwVar    = "var"
	kwPrint  = "print"
	kwImport = "import"

	opAssign   = "<<"
	opTransfer = ">>"
)

var keywords = set.From([]string{kwVar, kwPrint, kwImport})

// Parse reads a whole script from r. name is only used to label the Program.
//
// Every line is parsed even after a malformed one, so that all parse errors
// are reported at once. The returned Program is nil if there were errors.
func Parse(name string, r io.Reader) (*Program, *cellerr.Errors) {
	var errs *cellerr.Errors
	prog := &Program{Name: name}

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		stmt, err := parseLine(scanner.Text(), lineNum)
		if err != nil {
			errs = errs.With(cellerr.AtLine(err, lineNum))
			continue
		}
		if stmt != nil {
			prog.Stmts = append(prog.Stmts, stmt)
		}
	}
	if err := scanner.Err(); err != nil {
		errs = errs.With(cellerr.AtLine(cellerr.From(err), lineNum))
	}
	if errs.HasError() {
		parseLogger.Debug("failed to parse script", "name", name, "errors", errs)
		return nil, errs
	}
	return prog, nil
}

// ParseString is Parse for in-memory scripts
func ParseString(name, src string) (*Program, *cellerr.Errors) {
	return Parse(name, strings.NewReader(src))
}

func parseLine(line string, lineNum int) (Stmt, cellerr.CellError) {
	line = strings.TrimSpace(stripComment(line))
	if line == "" {
		return nil, nil
	}
	pos := Pos{LineNum: lineNum}
	fields := strings.Fields(line)

	switch fields[0] {
	case kwVar:
		if len(fields) != 3 {
			return nil, parseErr("malformed declaration", "expected 'var <name> <type>'")
		}
		if err := checkName(fields[1]); err != nil {
			return nil, err
		}
		if !token.IsIdentifier(fields[2]) {
			return nil, parseErr(fmt.Sprintf("invalid type name '%s'", fields[2]), "")
		}
		return &Decl{Pos: pos, Name: fields[1], TypeName: fields[2]}, nil

	case kwPrint:
		if len(fields) != 2 {
			return nil, parseErr("malformed print", "expected 'print <name>'")
		}
		if err := checkName(fields[1]); err != nil {
			return nil, err
		}
		return &Print{Pos: pos, Name: fields[1]}, nil

	case kwImport:
		rest := strings.TrimSpace(strings.TrimPrefix(line, kwImport))
		path, err := strconv.Unquote(rest)
		if err != nil || path == "" {
			return nil, parseErr(fmt.Sprintf("malformed import %s", rest), `expected 'import "<path>"'`)
		}
		return &Import{Pos: pos, Path: path}, nil
	}

	name, rest := leadingIdent(line)
	if name == "" {
		return nil, parseErr(fmt.Sprintf("unexpected '%s'", line), "expected a declaration, an assignment, a transfer or a print")
	}
	if err := checkName(name); err != nil {
		return nil, err
	}
	rest = strings.TrimSpace(rest)

	switch {
	case strings.HasPrefix(rest, opAssign):
		expr := strings.TrimSpace(strings.TrimPrefix(rest, opAssign))
		if expr == "" {
			return nil, parseErr(fmt.Sprintf("missing value to assign to '%s'", name), "")
		}
		return &Assign{Pos: pos, Target: name, Expr: expr}, nil

	case strings.HasPrefix(rest, opTransfer):
		target := strings.TrimSpace(strings.TrimPrefix(rest, opTransfer))
		if target == "" {
			return nil, parseErr(fmt.Sprintf("missing transfer target for '%s'", name), "")
		}
		if err := checkName(target); err != nil {
			return nil, err
		}
		return &Transfer{Pos: pos, Source: name, Target: target}, nil
	}
	return nil, parseErr(fmt.Sprintf("unexpected '%s' after '%s'", rest, name), "expected '<<' or '>>'")
}

func parseErr(msg, hint string) cellerr.CellError {
	return cellerr.New(cellerr.NewParse{Message: msg, Hint: hint})
}

func checkName(name string) cellerr.CellError {
	if !token.IsIdentifier(name) {
		return parseErr(fmt.Sprintf("invalid cell name '%s'", name), "")
	}
	if keywords.Contains(name) {
		return parseErr(fmt.Sprintf("cell name '%s' is a keyword", name), "")
	}
	return nil
}

// isIdent reports whether s is a single identifier, as opposed to a Go expression
func isIdent(s string) bool {
	return token.IsIdentifier(s) && !keywords.Contains(s)
}

// leadingIdent splits s after the identifier it starts with.
// head is empty if s does not start with an identifier
func leadingIdent(s string) (head string, tail string) {
	end := strings.IndexFunc(s, func(r rune) bool {
		return !(r == '_' || 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9' || r >= 0x80)
	})
	if end < 0 {
		end = len(s)
	}
	if !token.IsIdentifier(s[:end]) {
		return "", s
	}
	return s[:end], s[end:]
}

// stripComment removes a trailing '#' comment, ignoring '#' inside Go string and rune literals
func stripComment(line string) string {
	var quote rune
	escaped := false
	for i, r := range line {
		switch {
		case escaped:
			escaped = false
		case quote != 0 && r == '\\' && quote != '`':
			escaped = true
		case quote != 0 && r == quote:
			quote = 0
		case quote != 0:
		case r == '"' || r == '\'' || r == '`':
			quote = r
		case r == '#':
			return line[:i]
		}
	}
	return line
}
