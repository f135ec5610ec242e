package custom

import (
	"errors"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"strconv"
	"strings"

	"github.com/mvp-joe/project-outline/internal/analyzer"
)

// Go analyzes Go source with go/ast. Methods keep their bare name and carry
// the receiver type as their scope, so their path reads "Recv.Name". Struct
// fields and interface methods are reported so they nest under their type.
// Package-level constants and variables are attributes. Every declaration
// starts at its doc comment when it has one.
type Go struct{}

// Extract implements analyzer.Analyzer. A file with syntax errors yields
// whatever declarations the parser recovered along with a ParseError.
func (g Go) Extract(source []byte) (analyzer.RawMapping, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", source, parser.ParseComments|parser.AllErrors)
	if file == nil {
		return nil, goParseError(err)
	}

	raw := analyzer.RawMapping{}
	line := func(p token.Pos) int { return fset.Position(p).Line }

	for _, imp := range file.Imports {
		path, _ := strconv.Unquote(imp.Path.Value)
		if path == "" {
			path = imp.Path.Value
		}
		raw.Add(analyzer.RawElement{
			Name:     path,
			Line:     line(imp.Pos()),
			EndLine:  line(imp.End()),
			Category: analyzer.Import,
		})
	}

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			start := line(declStart(d.Doc, d.Pos()))
			var decorators []string
			if d.Doc != nil {
				decorators = goDirectives(d.Doc)
			}
			el := analyzer.RawElement{
				Name:       d.Name.Name,
				Line:       start,
				EndLine:    line(d.End()),
				Decorators: decorators,
				Category:   analyzer.Function,
			}
			if d.Recv != nil && len(d.Recv.List) > 0 {
				el.Scope = receiverName(d.Recv.List[0].Type)
				el.Category = analyzer.Method
			}
			raw.Add(el)

		case *ast.GenDecl:
			for _, spec := range d.Specs {
				// A lone spec owns the keyword and the declaration's doc.
				doc, pos := specDoc(spec), spec.Pos()
				if len(d.Specs) == 1 {
					doc, pos = d.Doc, d.Pos()
				}
				start := line(declStart(doc, pos))

				switch sp := spec.(type) {
				case *ast.TypeSpec:
					goTypeSpec(raw, sp, start, line(sp.End()), line)
				case *ast.ValueSpec:
					for _, name := range sp.Names {
						if name.Name == "_" {
							continue
						}
						raw.Add(analyzer.RawElement{
							Name:     name.Name,
							Line:     start,
							EndLine:  line(sp.End()),
							Category: analyzer.Attribute,
						})
					}
				}
			}
		}
	}

	if err != nil {
		return raw, goParseError(err)
	}
	return raw, nil
}

func goTypeSpec(raw analyzer.RawMapping, ts *ast.TypeSpec, start, end int, line func(token.Pos) int) {
	switch t := ts.Type.(type) {
	case *ast.StructType:
		raw.Add(analyzer.RawElement{Name: ts.Name.Name, Line: start, EndLine: end, Category: analyzer.Struct})
		if t.Fields == nil {
			return
		}
		for _, field := range t.Fields.List {
			name := fieldName(field)
			if name == "" {
				continue
			}
			raw.Add(analyzer.RawElement{
				Name:     name,
				Line:     line(field.Pos()),
				EndLine:  line(field.End()),
				Category: analyzer.Property,
			})
		}

	case *ast.InterfaceType:
		raw.Add(analyzer.RawElement{Name: ts.Name.Name, Line: start, EndLine: end, Category: analyzer.Interface})
		if t.Methods == nil {
			return
		}
		for _, m := range t.Methods.List {
			if _, ok := m.Type.(*ast.FuncType); !ok || len(m.Names) == 0 {
				continue
			}
			raw.Add(analyzer.RawElement{
				Name:     m.Names[0].Name,
				Line:     line(m.Pos()),
				EndLine:  line(m.End()),
				Category: analyzer.Method,
			})
		}

	default:
		// Named non-struct types (type ID string) are reported as classes.
		raw.Add(analyzer.RawElement{Name: ts.Name.Name, Line: start, EndLine: end, Category: analyzer.Class})
	}
}

func fieldName(field *ast.Field) string {
	if len(field.Names) > 0 {
		names := make([]string, len(field.Names))
		for i, n := range field.Names {
			names[i] = n.Name
		}
		return strings.Join(names, ", ")
	}
	// Embedded field.
	return receiverName(field.Type)
}

// receiverName extracts the base type name from a receiver expression.
func receiverName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return receiverName(t.X)
	case *ast.IndexExpr:
		return receiverName(t.X)
	case *ast.IndexListExpr:
		return receiverName(t.X)
	case *ast.SelectorExpr:
		return t.Sel.Name
	case *ast.ParenExpr:
		return receiverName(t.X)
	}
	return ""
}

// declStart is where a declaration begins: its doc comment when it has one.
func declStart(doc *ast.CommentGroup, pos token.Pos) token.Pos {
	if doc != nil {
		return doc.Pos()
	}
	return pos
}

func specDoc(spec ast.Spec) *ast.CommentGroup {
	switch sp := spec.(type) {
	case *ast.TypeSpec:
		return sp.Doc
	case *ast.ValueSpec:
		return sp.Doc
	}
	return nil
}

// goDirectives returns //go: style directive lines from a doc comment.
func goDirectives(doc *ast.CommentGroup) []string {
	var out []string
	for _, c := range doc.List {
		if strings.HasPrefix(c.Text, "//go:") {
			out = append(out, c.Text)
		}
	}
	return out
}

func goParseError(err error) error {
	perr := &analyzer.ParseError{Format: "go", Message: "syntax error"}
	var list scanner.ErrorList
	if errors.As(err, &list) && len(list) > 0 {
		perr.Line = list[0].Pos.Line
		perr.Message = list[0].Msg
	} else if err != nil {
		perr.Message = err.Error()
	}
	return perr
}
