package parser

import (
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, source string) *ParseResult {
	t.Helper()
	p := New()
	t.Cleanup(p.Close)
	res, err := p.Parse([]byte(source), "test.py")
	require.NoError(t, err)
	t.Cleanup(res.Close)
	return res
}

func TestParseValidSource(t *testing.T) {
	res := parse(t, "def hello():\n    return 42\n")
	require.NotNil(t, res.Tree.RootNode())
	assert.Equal(t, KindModule, KindOf(res.Tree.RootNode()))
	assert.False(t, res.HasSyntaxError())
}

func TestParseBrokenSource(t *testing.T) {
	res := parse(t, "def broken(:\n    pass\n")
	assert.True(t, res.HasSyntaxError())
}

func TestFindNodesByKind(t *testing.T) {
	res := parse(t, "def a():\n    pass\n\ndef b():\n    pass\n\nclass C:\n    pass\n")
	funcs := FindNodesByKind(res.Tree.RootNode(), KindFunctionDef)
	assert.Len(t, funcs, 2)
	both := FindNodesByKind(res.Tree.RootNode(), KindFunctionDef, KindClassDef)
	assert.Len(t, both, 3)
}

func TestWalkSkipsChildrenOnFalse(t *testing.T) {
	res := parse(t, "class C:\n    def m(self):\n        pass\n")
	var sawMethod bool
	WalkTyped(res.Tree.RootNode(), func(n *sitter.Node, kind Kind) bool {
		if kind == KindClassDef {
			return false
		}
		if kind == KindFunctionDef {
			sawMethod = true
		}
		return true
	})
	assert.False(t, sawMethod)
}

func TestStartAndEndLine(t *testing.T) {
	res := parse(t, "x = 1\ndef f():\n    pass\n")
	fn := FindNodesByKind(res.Tree.RootNode(), KindFunctionDef)[0]
	assert.Equal(t, uint32(2), StartLine(fn))
	assert.Equal(t, uint32(3), EndLine(fn))
}

func TestIsAsync(t *testing.T) {
	res := parse(t, "async def f():\n    pass\n\ndef g():\n    pass\n")
	funcs := FindNodesByKind(res.Tree.RootNode(), KindFunctionDef)
	require.Len(t, funcs, 2)
	assert.True(t, IsAsync(funcs[0]))
	assert.False(t, IsAsync(funcs[1]))
}

func TestDocstring(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
		found  bool
	}{
		{"triple quoted", "def f():\n    \"\"\"Does things.\"\"\"\n    pass\n", "Does things.", true},
		{"single quoted", "def f():\n    'short'\n    pass\n", "short", true},
		{"raw prefix", "def f():\n    r'''raw doc'''\n", "raw doc", true},
		{"adjacent literals join", "def f():\n    \"first \" \"second\"\n    pass\n", "first second", true},
		{"no docstring", "def f():\n    x = 1\n", "", false},
		{"string not first", "def f():\n    x = 1\n    'late'\n", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := parse(t, tt.source)
			fn := FindNodesByKind(res.Tree.RootNode(), KindFunctionDef)[0]
			body := fn.ChildByFieldName("body")
			doc, ok := Docstring(body, res.Source)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, doc)
		})
	}
}

func TestStringValue(t *testing.T) {
	res := parse(t, "a = 'one'\nb = \"two\"\nc = f'three'\n")
	strs := FindNodesByKind(res.Tree.RootNode(), KindString)
	require.Len(t, strs, 3)
	assert.Equal(t, "one", StringValue(strs[0], res.Source))
	assert.Equal(t, "two", StringValue(strs[1], res.Source))
	assert.Equal(t, "three", StringValue(strs[2], res.Source))
}
