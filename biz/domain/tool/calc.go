package tool

// calc 安全算术求值, 不依赖任何动态执行

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xh-polaris/brandstudio-core-api/biz/infra/cst"
)

var (
	reDangerKeywords = regexp.MustCompile(`(?i)(?:function|var|let|const|return|if|else|for|while|do|try|catch|throw)`)
	reDangerNames    = regexp.MustCompile(`(?i)(?:eval|exec|system|require|import|process|global|window|document)`)
	reValidExpr      = regexp.MustCompile(`^[0-9+\-*/.()\s\t]+$`)
)

type calculator struct{}

func NewCalculator() Adapter {
	return &calculator{}
}

func (c *calculator) Name() string { return cst.ToolCalc }

func (c *calculator) Execute(ctx context.Context, args map[string]any) (*Result, error) {
	start := time.Now()
	expression, _ := args["expression"].(string)
	if expression == "" {
		return &Result{Tool: c.Name(), Source: "Calculator Error", Err: "expression is required",
			LatencyMs: time.Since(start).Milliseconds()}, nil
	}

	sanitized := Sanitize(expression)
	value, err := Evaluate(sanitized)
	if err != nil {
		return &Result{Tool: c.Name(), Source: "Calculator Error", Err: err.Error(),
			LatencyMs: time.Since(start).Milliseconds(),
			Data:      map[string]any{"expression": sanitized, "isValid": false}}, nil
	}
	return &Result{Tool: c.Name(), Source: "Safe Calculator", LatencyMs: time.Since(start).Milliseconds(),
		Data: map[string]any{"result": value, "expression": sanitized, "isValid": true}}, nil
}

// Sanitize 剥离语句分隔与危险标识符, 并归一化数学符号
func Sanitize(expression string) string {
	s := strings.NewReplacer(";", "", "{", "", "}", "").Replace(expression)
	s = reDangerKeywords.ReplaceAllString(s, "")
	s = reDangerNames.ReplaceAllString(s, "")
	s = strings.NewReplacer("×", "*", "÷", "/", "^", "**").Replace(s)
	return strings.TrimSpace(s)
}

// Evaluate 递归下降求值, 只接受数字与四则运算
func Evaluate(expression string) (float64, error) {
	if strings.Contains(expression, "__") || strings.Contains(strings.ToLower(expression), "constructor") {
		return 0, errors.New("expression contains potentially unsafe patterns")
	}
	check := strings.ReplaceAll(expression, "**", "*")
	if !reValidExpr.MatchString(check) {
		return 0, errors.New("expression contains invalid characters")
	}

	p := &exprParser{input: expression}
	v, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return 0, fmt.Errorf("unexpected character at position %d", p.pos)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("result is not a valid number")
	}
	return v, nil
}

// exprParser 表达式求值器
// expr   = term (('+'|'-') term)*
// term   = power (('*'|'/') power)*
// power  = unary ('**' power)?
// unary  = ('-'|'+')? primary
// primary= number | '(' expr ')'
type exprParser struct {
	input string
	pos   int
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t' || p.input[p.pos] == '\n') {
		p.pos++
	}
}

func (p *exprParser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *exprParser) parseExpr() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpace()
		op := p.peek()
		if op != '+' && op != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return 0, err
		}
		if op == '+' {
			left += right
		} else {
			left -= right
		}
	}
}

func (p *exprParser) parseTerm() (float64, error) {
	left, err := p.parsePower()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpace()
		op := p.peek()
		// '**'是幂运算, 不在此消费
		if op == '*' && p.pos+1 < len(p.input) && p.input[p.pos+1] == '*' {
			return left, nil
		}
		if op != '*' && op != '/' {
			return left, nil
		}
		p.pos++
		right, err := p.parsePower()
		if err != nil {
			return 0, err
		}
		if op == '*' {
			left *= right
		} else {
			if right == 0 {
				return 0, errors.New("division by zero")
			}
			left /= right
		}
	}
}

func (p *exprParser) parsePower() (float64, error) {
	base, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.peek() == '*' && p.pos+1 < len(p.input) && p.input[p.pos+1] == '*' {
		p.pos += 2
		exp, err := p.parsePower() // 右结合
		if err != nil {
			return 0, err
		}
		return math.Pow(base, exp), nil
	}
	return base, nil
}

func (p *exprParser) parseUnary() (float64, error) {
	p.skipSpace()
	switch p.peek() {
	case '-':
		p.pos++
		v, err := p.parseUnary()
		return -v, err
	case '+':
		p.pos++
		return p.parseUnary()
	}
	return p.parsePrimary()
}

func (p *exprParser) parsePrimary() (float64, error) {
	p.skipSpace()
	if p.peek() == '(' {
		p.pos++
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return 0, errors.New("missing closing parenthesis")
		}
		p.pos++
		return v, nil
	}

	start := p.pos
	for p.pos < len(p.input) && (p.input[p.pos] == '.' || (p.input[p.pos] >= '0' && p.input[p.pos] <= '9')) {
		p.pos++
	}
	if start == p.pos {
		return 0, fmt.Errorf("expected number at position %d", start)
	}
	v, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", p.input[start:p.pos])
	}
	return v, nil
}
