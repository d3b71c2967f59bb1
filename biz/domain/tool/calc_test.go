package tool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	assert.Equal(t, "2*3", Sanitize("2×3"))
	assert.Equal(t, "10/2", Sanitize("10÷2"))
	assert.Equal(t, "2**3", Sanitize("2^3"))
	assert.Equal(t, "1+1", Sanitize("1+1;"))
	assert.Equal(t, "(2)", Sanitize("eval{(2)}"))
	assert.Equal(t, "2+2", Sanitize("  2+2  "))
}

func TestEvaluate(t *testing.T) {
	cases := []struct {
		expr string
		want float64
	}{
		{"2+2*3", 8},
		{"(2+2)*3", 12},
		{"10 - 4 / 2", 8},
		{"2**3", 8},
		{"2**3**2", 512}, // 右结合
		{"-3+5", 2},
		{"1.5*2", 3},
		{"(10-4)/2", 3},
	}
	for _, c := range cases {
		got, err := Evaluate(c.expr)
		require.NoError(t, err, c.expr)
		assert.Equal(t, c.want, got, c.expr)
	}
}

func TestEvaluateRejects(t *testing.T) {
	for _, expr := range []string{
		"1/0",
		"__proto__",
		"constructor",
		"2+abc",
		"(2+3",
		"",
	} {
		_, err := Evaluate(expr)
		assert.Error(t, err, expr)
	}
}

func TestCalculatorExecute(t *testing.T) {
	calc := NewCalculator()

	res, err := calc.Execute(context.Background(), map[string]any{"expression": "2+2*3"})
	require.NoError(t, err)
	assert.Empty(t, res.Err)
	assert.Equal(t, "Safe Calculator", res.Source)
	assert.Equal(t, float64(8), res.Data["result"])
	assert.Equal(t, true, res.Data["isValid"])

	// 非法表达式不返回error, 失败进入Result.Err由上层隔离
	res, err = calc.Execute(context.Background(), map[string]any{"expression": "process.exit()"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Err)
	assert.Equal(t, "Calculator Error", res.Source)

	res, err = calc.Execute(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "expression is required", res.Err)
}
