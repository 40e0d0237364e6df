package complexity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svergne/pyscope/pkg/parser"
)

func funcComplexity(t *testing.T, source string) int {
	t.Helper()
	p := parser.New()
	t.Cleanup(p.Close)
	res, err := p.Parse([]byte(source), "test.py")
	require.NoError(t, err)
	t.Cleanup(res.Close)
	funcs := parser.FindNodesByKind(res.Tree.RootNode(), parser.KindFunctionDef)
	require.NotEmpty(t, funcs)
	return Count(funcs[0], res.Source)
}

func TestCount(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   int
	}{
		{
			"straight line",
			"def f():\n    return 1\n",
			1,
		},
		{
			"single if",
			"def f(x):\n    if x:\n        return 1\n    return 0\n",
			2,
		},
		{
			"if and for",
			"def f(xs):\n    if xs:\n        for x in xs:\n            pass\n",
			3,
		},
		{
			"elif chain",
			"def f(x):\n    if x == 1:\n        pass\n    elif x == 2:\n        pass\n    elif x == 3:\n        pass\n",
			4,
		},
		{
			"else is free",
			"def f(x):\n    if x:\n        pass\n    else:\n        pass\n",
			2,
		},
		{
			"while loop",
			"def f(x):\n    while x:\n        x -= 1\n",
			2,
		},
		{
			"try except except",
			"def f():\n    try:\n        pass\n    except ValueError:\n        pass\n    except KeyError:\n        pass\n",
			3,
		},
		{
			"with statement",
			"def f(path):\n    with open(path) as fh:\n        return fh.read()\n",
			2,
		},
		{
			"assert",
			"def f(x):\n    assert x > 0\n    return x\n",
			2,
		},
		{
			"boolean chain of three",
			"def f(a, b, c):\n    return a and b and c\n",
			3,
		},
		{
			"mixed and or",
			"def f(a, b, c):\n    if a and (b or c):\n        pass\n",
			4,
		},
		{
			"conditional expression not counted",
			"def f(x):\n    return 1 if x else 0\n",
			1,
		},
		{
			"list comprehension",
			"def f(xs):\n    return [x for x in xs]\n",
			2,
		},
		{
			"generator expression",
			"def f(xs):\n    return sum(x for x in xs)\n",
			2,
		},
		{
			"async for",
			"async def f(xs):\n    async for x in xs:\n        pass\n",
			2,
		},
		{
			"nested function counts toward outer",
			"def f(x):\n    def g(y):\n        if y:\n            return y\n    return g(x)\n",
			2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, funcComplexity(t, tt.source))
		})
	}
}

func TestCountIsAtLeastOne(t *testing.T) {
	assert.Equal(t, 1, funcComplexity(t, "def f():\n    pass\n"))
}

func TestGrade(t *testing.T) {
	assert.Equal(t, "low", Grade(1))
	assert.Equal(t, "low", Grade(5))
	assert.Equal(t, "moderate", Grade(10))
	assert.Equal(t, "high", Grade(11))
}
