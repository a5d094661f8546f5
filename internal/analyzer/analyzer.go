// Package analyzer extracts function and class names from Python source
// text using tree-sitter. Analysis is a pure function over the file
// contents; callers read the file and route the result.
package analyzer

import (
	"context"
	"fmt"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// FailureKind classifies why a source file could not be analyzed.
type FailureKind int

const (
	FailNone FailureKind = iota
	// FailSyntax marks source the parser could not build a clean tree for.
	FailSyntax
	// FailParse covers any other parse-level failure.
	FailParse
)

// Analysis is the outcome of analyzing one source file: either sorted,
// deduplicated definition names, or a typed failure with a message.
type Analysis struct {
	Classes   []string
	Functions []string
	Failure   FailureKind
	Message   string
}

// Failed reports whether the analysis carries a failure instead of names.
func (a Analysis) Failed() bool {
	return a.Failure != FailNone
}

// Empty reports whether the analysis succeeded but found no definitions.
func (a Analysis) Empty() bool {
	return !a.Failed() && len(a.Classes) == 0 && len(a.Functions) == 0
}

// defQuery matches definition nodes anywhere in the tree, so nested
// functions and classes are collected the same as top-level ones.
const defQuery = `
	(function_definition name: (identifier) @func)
	(class_definition name: (identifier) @class)
`

// Analyze parses Python source and collects every function and class name
// it defines, at any nesting depth. Malformed source yields a FailSyntax
// result rather than an error; the caller decides how to surface it.
func Analyze(src []byte) Analysis {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return Analysis{Failure: FailParse, Message: err.Error()}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return Analysis{Failure: FailSyntax, Message: syntaxMessage(root)}
	}

	query, err := sitter.NewQuery([]byte(defQuery), python.GetLanguage())
	if err != nil {
		return Analysis{Failure: FailParse, Message: fmt.Sprintf("build definition query: %v", err)}
	}

	qc := sitter.NewQueryCursor()
	qc.Exec(query, root)

	classes := make(map[string]struct{})
	functions := make(map[string]struct{})
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, c := range m.Captures {
			name := c.Node.Content(src)
			switch query.CaptureNameForId(c.Index) {
			case "class":
				classes[name] = struct{}{}
			case "func":
				functions[name] = struct{}{}
			}
		}
	}

	return Analysis{
		Classes:   sortedNames(classes),
		Functions: sortedNames(functions),
	}
}

// syntaxMessage builds a positioned message from the first error node.
// Tree-sitter never hard-fails on bad input; ERROR and missing nodes in the
// tree are its syntax error signal.
func syntaxMessage(root *sitter.Node) string {
	if n := firstErrorNode(root); n != nil {
		p := n.StartPoint()
		return fmt.Sprintf("invalid syntax at line %d, column %d", p.Row+1, p.Column+1)
	}
	return "invalid syntax"
}

func firstErrorNode(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if !child.HasError() && !child.IsMissing() {
			continue
		}
		if found := firstErrorNode(child); found != nil {
			return found
		}
	}
	return nil
}

func sortedNames(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
