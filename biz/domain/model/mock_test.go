package model

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xh-polaris/brandstudio-core-api/biz/application/dto/core_api"
	"github.com/xh-polaris/brandstudio-core-api/biz/domain/tool"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/cst"
)

func personaReq(persona string) *core_api.ChatReq {
	return &core_api.ChatReq{Settings: &core_api.Settings{Persona: persona}}
}

func TestMockPersonaPrefix(t *testing.T) {
	g := newMockGenerator(false)
	ctx := context.Background()

	text, tokens, err := g.Generate(ctx, personaReq(cst.PersonaMentor), nil)
	require.NoError(t, err)
	assert.True(t, tokens > 0)
	assert.Contains(t, text, "Como tu mentor creativo")

	text, _, _ = g.Generate(ctx, personaReq(cst.PersonaPlanner), nil)
	assert.Contains(t, text, "Analicemos esto paso a paso")

	text, _, _ = g.Generate(ctx, personaReq(cst.PersonaEngineer), nil)
	assert.Contains(t, text, "Desde una perspectiva técnica")

	text, _, _ = g.Generate(ctx, &core_api.ChatReq{}, nil)
	assert.NotContains(t, text, "mentor")
}

func TestMockToolSummaries(t *testing.T) {
	g := newMockGenerator(true)
	results := []*tool.Result{
		{Tool: cst.ToolWebSearch, Data: map[string]any{"totalResults": 3}},
		{Tool: cst.ToolPDFRead, Data: map[string]any{"metadata": map[string]any{"pageCount": 14}}},
		{Tool: cst.ToolCalc, Data: map[string]any{"result": 8}},
		{Tool: cst.ToolTranscribe, Data: map[string]any{"text": "..."}},
		{Tool: cst.ToolImageDesc, Err: "timeout"},
	}

	text, _, err := g.Generate(context.Background(), &core_api.ChatReq{}, results)
	require.NoError(t, err)
	assert.Contains(t, text, "He utilizado 5 herramientas")
	assert.Contains(t, text, "Encontré 3 resultados relevantes.")
	assert.Contains(t, text, "Procesé un documento de 14 páginas.")
	assert.Contains(t, text, "El resultado es: 8")
	assert.Contains(t, text, "Procesamiento completado exitosamente.")
	assert.Contains(t, text, "**"+cst.ToolImageDesc+"**: Error - timeout")
}

func TestMockSuffixByMode(t *testing.T) {
	ctx := context.Background()
	text, _, _ := newMockGenerator(true).Generate(ctx, &core_api.ChatReq{}, nil)
	assert.Contains(t, text, "modo canary")

	text, _, _ = newMockGenerator(false).Generate(ctx, &core_api.ChatReq{}, nil)
	assert.Contains(t, text, "¿Hay algún aspecto específico que te gustaría que profundice más?")
}
