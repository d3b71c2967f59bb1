package plan

import (
	"regexp"
	"strings"
)

var reSubject = regexp.MustCompile(`(?i)(?:crear|generate|diseñar)\s+(?:un|una|a)?\s*([^.!?]+)`)

var knownStyles = []string{"minimal", "modern", "professional", "creative", "bold"}

// Handoff 视觉生成移交载荷, 只产出结构化请求而不实际生成图像
type Handoff struct {
	Task        string   `json:"task"`
	Subject     string   `json:"subject"`
	Style       string   `json:"style"`
	Palette     string   `json:"palette"`
	Constraints []string `json:"constraints"`
	Sizes       []string `json:"sizes"`
}

// BuildHandoff 从用户文本推导视觉任务请求
func BuildHandoff(text string) *Handoff {
	return &Handoff{
		Task:        "image.generate",
		Subject:     extractSubject(text),
		Style:       extractStyle(text),
		Palette:     "BrandKit.primary",
		Constraints: extractConstraints(text),
		Sizes:       []string{"1024x1024", "1920x1080"},
	}
}

func extractSubject(text string) string {
	if m := reSubject.FindStringSubmatch(text); len(m) > 1 {
		if s := strings.TrimSpace(m[1]); s != "" {
			return s
		}
	}
	return "Creative visual content"
}

func extractStyle(text string) string {
	lower := strings.ToLower(text)
	for _, style := range knownStyles {
		if strings.Contains(lower, style) {
			return style
		}
	}
	return "professional"
}

func extractConstraints(text string) []string {
	lower := strings.ToLower(text)
	constraints := make([]string, 0, 3)
	if strings.Contains(lower, "logo") {
		constraints = append(constraints, "include brand logo")
	}
	if strings.Contains(lower, "colors") || strings.Contains(lower, "colores") {
		constraints = append(constraints, "use brand colors")
	}
	if strings.Contains(lower, "typography") || strings.Contains(lower, "tipografía") {
		constraints = append(constraints, "use brand typography")
	}
	return constraints
}
