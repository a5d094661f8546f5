// Package render computes the prefix and indentation strings shared by the
// crawl transcript and the commented tree map.
package render

import "strings"

const (
	indentUnit    = "    "
	branchMiddle  = "├── "
	branchLast    = "└── "
	continuation  = "|   "
	arrow         = "-> "
	commentMarker = "# "
)

// Kind classifies a rendered line so display sinks can route it
// (color tags, filtering) without re-parsing the text.
type Kind int

const (
	KindHeader Kind = iota
	KindDirectory
	KindFile
	KindSourceFile
	KindClass
	KindFunction
	KindInfo
	KindError
)

// String returns a short label for the line kind.
func (k Kind) String() string {
	switch k {
	case KindHeader:
		return "header"
	case KindDirectory:
		return "dir"
	case KindFile:
		return "file"
	case KindSourceFile:
		return "source"
	case KindClass:
		return "class"
	case KindFunction:
		return "function"
	case KindInfo:
		return "info"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Line is one finished output line plus its semantic kind. The same lines
// build the flat transcript and, comment-prefixed, the tree map.
type Line struct {
	Kind Kind
	Text string
}

// Indent returns the indentation block for the given depth.
func Indent(depth int) string {
	return strings.Repeat(indentUnit, depth)
}

// Prefix returns the indentation and branch symbol for an entry rendered at
// the given depth. The last sibling at a level gets the terminal symbol,
// every other sibling the continuing one.
func Prefix(depth int, isLast bool) string {
	if isLast {
		return Indent(depth) + branchLast
	}
	return Indent(depth) + branchMiddle
}

// DefPrefix returns the prefix for a class or function line nested under a
// source file rendered at depth. Definitions sit one level deeper than the
// file, with a continuation marker and arrow so they read as leaves of a
// leaf rather than siblings of the file.
func DefPrefix(depth int) string {
	return Indent(depth+2) + continuation + arrow
}

// NotePrefix returns the prefix for an informational note attached to a
// source file rendered at depth, such as "no definitions" or a syntax error.
func NotePrefix(depth int) string {
	return Indent(depth+2) + "- "
}

// Comment prefixes a line with the map file's comment marker.
func Comment(text string) string {
	return commentMarker + text
}
