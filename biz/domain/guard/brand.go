package guard

// 品牌守卫, 在进入工具与生成阶段前对最后一条用户消息做合规预检

import (
	"strings"
	"unicode"

	"github.com/xh-polaris/brandstudio-core-api/biz/infra/config"
	"github.com/xh-polaris/brandstudio-core-api/pkg/ac"
	"github.com/xh-polaris/brandstudio-core-api/pkg/logs"
)

// 严重级别
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// 违规类型
const (
	TypeBannedTerm = "banned_term"
	TypeTone       = "tone"
	TypeStyle      = "style"
)

// 默认词表, 配置为空时使用
var (
	defaultBanned = []string{"obsolete", "outdated", "legacy system"}
	defaultAvoid  = []string{"terrible", "awful", "horrible"}
)

// Violation 一次命中
type Violation struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// Report 预检结果, 无违规或仅低危时放行
type Report struct {
	Pass       bool         `json:"pass"`
	Score      int          `json:"score"`
	Violations []*Violation `json:"violations,omitempty"`
}

// Guard 品牌守卫
type Guard struct {
	banned *ac.Matcher
	avoid  *ac.Matcher
}

func New(conf config.Guard) *Guard {
	banned, avoid := conf.Banned, conf.Avoid
	if len(banned) == 0 {
		banned = defaultBanned
	}
	if len(avoid) == 0 {
		avoid = defaultAvoid
	}
	g := new(Guard)
	var err error
	if g.banned, err = ac.NewMatcher(banned); err != nil {
		logs.Errorf("[guard] build banned matcher err: %v", err)
	}
	if g.avoid, err = ac.NewMatcher(avoid); err != nil {
		logs.Errorf("[guard] build avoid matcher err: %v", err)
	}
	return g
}

// Precheck 对文本做品牌合规预检
func (g *Guard) Precheck(text string) *Report {
	var vs []*Violation

	if hit, words := g.banned.Search(text, false); hit {
		for _, w := range words {
			vs = append(vs, &Violation{
				Type:     TypeBannedTerm,
				Message:  "Término prohibido por la marca: " + w,
				Severity: SeverityHigh,
			})
		}
	}
	if hit, words := g.avoid.Search(text, false); hit {
		for _, w := range words {
			vs = append(vs, &Violation{
				Type:     TypeTone,
				Message:  "Tono negativo detectado: " + w,
				Severity: SeverityMedium,
			})
		}
	}
	for _, word := range strings.Fields(text) {
		if isShouting(word) {
			vs = append(vs, &Violation{
				Type:     TypeStyle,
				Message:  "Evitar mayúsculas sostenidas: " + word,
				Severity: SeverityLow,
			})
		}
	}

	return makeReport(vs)
}

// makeReport 计分并判定是否放行
// 高危扣20, 中危扣10, 低危扣5, 存在高危或中危即阻断
func makeReport(vs []*Violation) *Report {
	score := 100
	pass := true
	for _, v := range vs {
		switch v.Severity {
		case SeverityHigh:
			score -= 20
			pass = false
		case SeverityMedium:
			score -= 10
			pass = false
		default:
			score -= 5
		}
	}
	if score < 0 {
		score = 0
	}
	return &Report{Pass: pass, Score: score, Violations: vs}
}

// isShouting 判定一个词是否为全大写超过3个字母
func isShouting(word string) bool {
	letters := 0
	for _, r := range word {
		if !unicode.IsLetter(r) {
			continue
		}
		if !unicode.IsUpper(r) {
			return false
		}
		letters++
	}
	return letters > 3
}
