package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrefix(t *testing.T) {
	tests := []struct {
		name   string
		depth  int
		isLast bool
		want   string
	}{
		{"root level middle", 0, false, "├── "},
		{"root level last", 0, true, "└── "},
		{"one level middle", 1, false, "    ├── "},
		{"one level last", 1, true, "    └── "},
		{"three levels last", 3, true, "            └── "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Prefix(tt.depth, tt.isLast))
		})
	}
}

func TestPrefix_Deterministic(t *testing.T) {
	for depth := 0; depth < 5; depth++ {
		assert.Equal(t, Prefix(depth, true), Prefix(depth, true))
		assert.Equal(t, Prefix(depth, false), Prefix(depth, false))
		assert.NotEqual(t, Prefix(depth, true), Prefix(depth, false),
			"terminal and continuing prefixes must differ")
	}
}

func TestDefPrefix(t *testing.T) {
	// A file rendered at depth 0 owns definitions two indent units deeper,
	// behind a continuation marker and arrow.
	assert.Equal(t, "        |   -> ", DefPrefix(0))
	assert.Equal(t, "            |   -> ", DefPrefix(1))
}

func TestNotePrefix(t *testing.T) {
	assert.Equal(t, "        - ", NotePrefix(0))
	assert.Equal(t, "            - ", NotePrefix(1))
}

func TestComment(t *testing.T) {
	assert.Equal(t, "# └── root/", Comment("└── root/"))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "dir", KindDirectory.String())
	assert.Equal(t, "class", KindClass.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
