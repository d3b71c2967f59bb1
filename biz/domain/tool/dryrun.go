package tool

// dry_run模式下的确定性mock适配器, 金丝雀环境用

import (
	"context"
	"time"

	"github.com/xh-polaris/brandstudio-core-api/biz/infra/cst"
)

type mockAdapter struct {
	name string
	data func(args map[string]any) map[string]any
}

func (m *mockAdapter) Name() string { return m.name }

func (m *mockAdapter) Execute(_ context.Context, args map[string]any) (*Result, error) {
	start := time.Now()
	return &Result{
		Tool:      m.name,
		Source:    "Mock " + m.name,
		LatencyMs: time.Since(start).Milliseconds(),
		Data:      m.data(args),
	}, nil
}

func mockAdapters() map[string]Adapter {
	return map[string]Adapter{
		cst.ToolWebSearch: &mockAdapter{name: cst.ToolWebSearch, data: func(args map[string]any) map[string]any {
			query, _ := args["query"].(string)
			if query == "" {
				query = "test query"
			}
			return map[string]any{
				"query": query,
				"results": []map[string]any{{
					"title":   "Resultado simulado",
					"url":     "https://example.com/search-result",
					"snippet": "Información relevante encontrada en la búsqueda web simulada",
				}},
				"totalResults": 1,
			}
		}},
		cst.ToolPDFRead: &mockAdapter{name: cst.ToolPDFRead, data: func(map[string]any) map[string]any {
			return map[string]any{
				"pages":    []map[string]any{{"pageNumber": 1, "text": "Contenido del PDF simulado..."}},
				"metadata": map[string]any{"pageCount": 14, "title": "Documento simulado"},
				"text":     "Contenido completo del PDF simulado",
			}
		}},
		cst.ToolImageDesc: &mockAdapter{name: cst.ToolImageDesc, data: func(map[string]any) map[string]any {
			return map[string]any{
				"description": "Imagen simulada con elementos de marca",
				"colors":      []map[string]any{{"hex": "#2563EB", "percentage": 35}},
				"objects":     []map[string]any{{"name": "logo", "confidence": 0.9}},
				"tags":        []string{"producto", "logo", "marca"},
			}
		}},
		cst.ToolTranscribe: &mockAdapter{name: cst.ToolTranscribe, data: func(map[string]any) map[string]any {
			return map[string]any{
				"text":       "Transcripción simulada del contenido de audio...",
				"language":   "es",
				"confidence": 0.95,
				"duration":   120,
			}
		}},
		cst.ToolCalc: &mockAdapter{name: cst.ToolCalc, data: func(args map[string]any) map[string]any {
			expression, _ := args["expression"].(string)
			if expression == "" {
				expression = "simulación"
			}
			return map[string]any{"result": 42, "expression": expression, "isValid": true}
		}},
	}
}
