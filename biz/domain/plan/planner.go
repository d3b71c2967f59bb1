package plan

// 规划阶段, 由纯规则将用户意图映射为工具执行计划

import (
	"regexp"
	"strings"

	"github.com/xh-polaris/brandstudio-core-api/biz/infra/cst"
)

// 触发词表, 与前端和文档保持一致
var (
	searchKeywords = []string{"buscar", "search", "web"}
	calcKeywords   = []string{"calcular", "calculate"}
	visualKeywords = []string{
		"imagen", "image", "visual", "diseño", "design", "logo", "banner",
		"infografía", "infographic", "layout", "mockup", "prototipo", "prototype",
	}

	reInlineMath = regexp.MustCompile(`\d+\s*[+\-*/]\s*\d+`)
	reExpression = regexp.MustCompile(`[\d+\-*/().\s]+`)
	hasDigit     = regexp.MustCompile(`\d`)
)

// Step 一次工具执行
type Step struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

// Attach 附件引用, 用于推导读取类工具
type Attach struct {
	Kind string
	URL  string
}

// Plan 工具执行计划
// Visual为true时生成阶段走视觉任务移交
type Plan struct {
	Steps         []*Step `json:"steps"`
	Visual        bool    `json:"visual"`
	VisualSubject string  `json:"visualSubject,omitempty"`
}

// Build 构建执行计划
// 显式声明的工具优先且顺序保留, 关键词触发的工具追加在后, 同一工具只执行一次
func Build(text string, explicit []string, attaches []*Attach) *Plan {
	p := &Plan{}
	seen := map[string]bool{}
	lower := strings.ToLower(text)

	add := func(tool string, args map[string]any) {
		if tool == "" || seen[tool] {
			return
		}
		seen[tool] = true
		p.Steps = append(p.Steps, &Step{Tool: tool, Args: args})
	}

	argsFor := func(tool string) map[string]any {
		switch tool {
		case cst.ToolWebSearch:
			return map[string]any{"query": text}
		case cst.ToolCalc:
			if expr := ExtractExpression(text); expr != "" {
				return map[string]any{"expression": expr}
			}
			return map[string]any{"expression": text}
		}
		return nil
	}

	// 显式工具
	for _, tool := range explicit {
		add(tool, argsFor(tool))
	}

	// 关键词触发
	if containsAny(lower, searchKeywords) {
		add(cst.ToolWebSearch, argsFor(cst.ToolWebSearch))
	}
	if containsAny(lower, calcKeywords) || reInlineMath.MatchString(text) {
		add(cst.ToolCalc, argsFor(cst.ToolCalc))
	}

	// 附件推导
	for _, a := range attaches {
		switch a.Kind {
		case cst.AttachPDF:
			add(cst.ToolPDFRead, map[string]any{"url": a.URL})
		case cst.AttachImage:
			add(cst.ToolImageDesc, map[string]any{"url": a.URL})
		case cst.AttachAudio:
			add(cst.ToolTranscribe, map[string]any{"url": a.URL})
		}
	}

	// 视觉任务
	if containsAny(lower, visualKeywords) {
		p.Visual = true
		p.VisualSubject = text
	}
	return p
}

// ExtractExpression 从文本中提取最长的算术表达式片段
func ExtractExpression(text string) string {
	best := ""
	for _, m := range reExpression.FindAllString(text, -1) {
		m = strings.TrimSpace(m)
		if hasDigit.MatchString(m) && len(m) > len(best) {
			best = m
		}
	}
	return best
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
