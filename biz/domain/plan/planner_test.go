package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xh-polaris/brandstudio-core-api/biz/infra/cst"
)

func toolNames(p *Plan) []string {
	names := make([]string, 0, len(p.Steps))
	for _, s := range p.Steps {
		names = append(names, s.Tool)
	}
	return names
}

func TestBuildKeywordTriggers(t *testing.T) {
	cases := []struct {
		name  string
		text  string
		tools []string
	}{
		{"search es", "buscar tendencias de diseño", []string{cst.ToolWebSearch}},
		{"search en", "search for brand guidelines", []string{cst.ToolWebSearch}},
		{"calc keyword", "calcular el presupuesto", []string{cst.ToolCalc}},
		{"calc inline", "cuanto es 2+2*3", []string{cst.ToolCalc}},
		{"both", "buscar y calcular 5*5", []string{cst.ToolWebSearch, cst.ToolCalc}},
		{"none", "hola, como estas", []string{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := Build(c.text, nil, nil)
			assert.Equal(t, c.tools, toolNames(p))
		})
	}
}

func TestBuildExplicitToolsFirst(t *testing.T) {
	p := Build("buscar 2+2", []string{cst.ToolCalc, cst.ToolWebSearch}, nil)
	// 显式顺序保留, 关键词触发不重复追加
	assert.Equal(t, []string{cst.ToolCalc, cst.ToolWebSearch}, toolNames(p))
	assert.Equal(t, "2+2", p.Steps[0].Args["expression"])
	assert.Equal(t, "buscar 2+2", p.Steps[1].Args["query"])
}

func TestBuildAttachmentTools(t *testing.T) {
	attaches := []*Attach{
		{Kind: cst.AttachPDF, URL: "https://cos.example.com/a.pdf"},
		{Kind: cst.AttachImage, URL: "https://cos.example.com/b.png"},
		{Kind: cst.AttachAudio, URL: "https://cos.example.com/c.mp3"},
		{Kind: cst.AttachLink, URL: "https://example.com"},
	}
	p := Build("revisa esto", nil, attaches)
	assert.Equal(t, []string{cst.ToolPDFRead, cst.ToolImageDesc, cst.ToolTranscribe}, toolNames(p))
	assert.Equal(t, "https://cos.example.com/a.pdf", p.Steps[0].Args["url"])
}

func TestBuildVisualDetection(t *testing.T) {
	p := Build("crear un logo para la marca", nil, nil)
	assert.True(t, p.Visual)
	assert.Equal(t, "crear un logo para la marca", p.VisualSubject)

	p = Build("redacta un parrafo", nil, nil)
	assert.False(t, p.Visual)
}

func TestExtractExpression(t *testing.T) {
	assert.Equal(t, "2+2*3", ExtractExpression("calcula 2+2*3 por favor"))
	assert.Equal(t, "(10 - 4) / 2", ExtractExpression("resuelve (10 - 4) / 2 ahora"))
	assert.Equal(t, "", ExtractExpression("sin numeros aqui"))
}

func TestBuildHandoff(t *testing.T) {
	h := BuildHandoff("crear un banner minimal con logo y colores corporativos")
	assert.Equal(t, "image.generate", h.Task)
	assert.Equal(t, "banner minimal con logo y colores corporativos", h.Subject)
	assert.Equal(t, "minimal", h.Style)
	assert.Equal(t, "BrandKit.primary", h.Palette)
	assert.Contains(t, h.Constraints, "include brand logo")
	assert.Contains(t, h.Constraints, "use brand colors")
	assert.Equal(t, []string{"1024x1024", "1920x1080"}, h.Sizes)
}

func TestBuildHandoffDefaults(t *testing.T) {
	h := BuildHandoff("imagen")
	assert.Equal(t, "Creative visual content", h.Subject)
	assert.Equal(t, "professional", h.Style)
	assert.Empty(t, h.Constraints)
}
