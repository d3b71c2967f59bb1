package guard

// PII脱敏, 对进入事件日志与外部工具的文本做处理

import "regexp"

var (
	reEmail = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	reSSN   = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)
	reCard  = regexp.MustCompile(`\b(?:\d[ -]*?){13,16}\b`)
	rePhone = regexp.MustCompile(`\b(?:\+?\d{1,3}[ -]?)?(?:\(\d{2,3}\)[ -]?)?\d{3}[ -]?\d{2,4}[ -]?\d{3,4}\b`)
)

// RedactPII 将常见个人信息替换为占位符
func RedactPII(text string) string {
	text = reEmail.ReplaceAllString(text, "[EMAIL]")
	text = reSSN.ReplaceAllString(text, "[SSN]")
	text = reCard.ReplaceAllString(text, "[CARD]")
	text = rePhone.ReplaceAllString(text, "[PHONE]")
	return text
}
