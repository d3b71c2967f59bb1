package ac

import (
	"bytes"
	"strings"

	ahocorasick "github.com/anknown/ahocorasick"
)

// ac 封装Aho-Corasick多模式串匹配, 用于品牌守卫的词表命中

type Matcher struct {
	m *ahocorasick.Machine
}

// readRunes 将字符串字典转换为rune切片数组, 满足AC自动机的输入格式
func readRunes(dict []string) (runes [][]rune) {
	for _, word := range dict {
		word = strings.ToLower(word)          // 转换为小写, 实现大小写不敏感匹配
		l := bytes.TrimSpace([]byte(word))    // 去除前后空白字符
		runes = append(runes, bytes.Runes(l)) // 转换为rune切片, 支持多字节字符
	}
	return runes
}

// NewMatcher 根据词表构建AC自动机
func NewMatcher(dict []string) (*Matcher, error) {
	if len(dict) == 0 {
		return &Matcher{}, nil
	}
	m := new(ahocorasick.Machine)
	if err := m.Build(readRunes(dict)); err != nil {
		return nil, err
	}
	return &Matcher{m: m}, nil
}

// Search 多模式串搜索
// findText为待搜索文本, stopImmediately为true时命中第一个即返回
// 返回是否命中及命中的词列表
func (a *Matcher) Search(findText string, stopImmediately bool) (bool, []string) {
	if a == nil || a.m == nil || len(findText) == 0 {
		return false, nil
	}

	hits := a.m.MultiPatternSearch([]rune(strings.ToLower(findText)), stopImmediately)
	if len(hits) > 0 {
		words := make([]string, 0)
		for _, hit := range hits {
			words = append(words, string(hit.Word))
		}
		return true, words
	}
	return false, nil
}
