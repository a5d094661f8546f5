package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_SortsAndSplitsDefinitions(t *testing.T) {
	src := []byte(`
class B:
    pass

def z():
    pass

class A:
    def method(self):
        pass

def a():
    pass
`)

	res := Analyze(src)
	require.False(t, res.Failed(), "message: %s", res.Message)

	assert.Equal(t, []string{"A", "B"}, res.Classes)
	assert.Equal(t, []string{"a", "method", "z"}, res.Functions)
}

func TestAnalyze_FindsNestedDefinitions(t *testing.T) {
	src := []byte(`
def outer():
    def inner():
        class Hidden:
            pass
        return Hidden
    return inner
`)

	res := Analyze(src)
	require.False(t, res.Failed())

	assert.Equal(t, []string{"Hidden"}, res.Classes)
	assert.Equal(t, []string{"inner", "outer"}, res.Functions)
}

func TestAnalyze_DeduplicatesNames(t *testing.T) {
	src := []byte(`
def handler():
    pass

def handler():
    pass
`)

	res := Analyze(src)
	require.False(t, res.Failed())
	assert.Equal(t, []string{"handler"}, res.Functions)
}

func TestAnalyze_DecoratedAndAsyncDefinitions(t *testing.T) {
	src := []byte(`
import functools

@functools.cache
def cached():
    pass

async def fetch():
    pass
`)

	res := Analyze(src)
	require.False(t, res.Failed())
	assert.Equal(t, []string{"cached", "fetch"}, res.Functions)
	assert.Empty(t, res.Classes)
}

func TestAnalyze_NoDefinitions(t *testing.T) {
	src := []byte("x = 1\nprint(x)\n")

	res := Analyze(src)
	require.False(t, res.Failed())
	assert.True(t, res.Empty())
	assert.Empty(t, res.Classes)
	assert.Empty(t, res.Functions)
}

func TestAnalyze_EmptyFile(t *testing.T) {
	res := Analyze(nil)
	require.False(t, res.Failed())
	assert.True(t, res.Empty())
}

func TestAnalyze_SyntaxError(t *testing.T) {
	src := []byte("def broken(:\n    pass\n")

	res := Analyze(src)
	require.True(t, res.Failed())
	assert.Equal(t, FailSyntax, res.Failure)
	assert.Contains(t, res.Message, "invalid syntax")
	assert.Empty(t, res.Classes)
	assert.Empty(t, res.Functions)
}
