package script

import "fmt"

// Program is a parsed cell script
type Program struct {
	Name  string
	Stmts []Stmt
}

// Stmt is a single line of a Program
type Stmt interface {
	Line() int
	String() string
	stmtNode()
}

type Pos struct {
	LineNum int
}

func (p Pos) Line() int { return p.LineNum }
func (Pos) stmtNode()   {}

// Decl declares a new cell: var Name TypeName
type Decl struct {
	Pos
	Name     string
	TypeName string
}

// Assign stores the result of Expr in Target: Target << Expr
//
// Expr is either the name of a declared cell or a Go expression
type Assign struct {
	Pos
	Target string
	Expr   string
}

// Transfer copies Source into Target: Source >> Target
type Transfer struct {
	Pos
	Source string
	Target string
}

// Print displays a cell: print Name
type Print struct {
	Pos
	Name string
}

// Import makes a standard library package available to expressions: import "Path"
type Import struct {
	Pos
	Path string
}

func (s *Decl) String() string     { return fmt.Sprintf("var %s %s", s.Name, s.TypeName) }
func (s *Assign) String() string   { return fmt.Sprintf("%s << %s", s.Target, s.Expr) }
func (s *Transfer) String() string { return fmt.Sprintf("%s >> %s", s.Source, s.Target) }
func (s *Print) String() string    { return fmt.Sprintf("print %s", s.Name) }
func (s *Import) String() string   { return fmt.Sprintf("import %q", s.Path) }
