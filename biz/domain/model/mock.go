package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/xh-polaris/brandstudio-core-api/biz/application/dto/core_api"
	"github.com/xh-polaris/brandstudio-core-api/biz/domain/tool"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/cst"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/util"
)

// mockGenerator 确定性回复, 未配置模型或dry_run时使用
type mockGenerator struct {
	dryRun bool
}

func newMockGenerator(dryRun bool) *mockGenerator {
	return &mockGenerator{dryRun: dryRun}
}

func (g *mockGenerator) Generate(_ context.Context, req *core_api.ChatReq, results []*tool.Result) (string, int64, error) {
	var sb strings.Builder
	switch req.GetSettings().GetPersona() {
	case cst.PersonaMentor:
		sb.WriteString("Como tu mentor creativo, puedo ayudarte a desarrollar esta idea. ")
	case cst.PersonaPlanner:
		sb.WriteString("Analicemos esto paso a paso para crear un plan efectivo. ")
	case cst.PersonaEngineer:
		sb.WriteString("Desde una perspectiva técnica, podemos abordar esto de manera sistemática. ")
	}

	if len(results) > 0 {
		sb.WriteString(fmt.Sprintf("He utilizado %d herramientas para obtener información adicional:\n\n", len(results)))
		for _, r := range results {
			sb.WriteString("**" + r.Tool + "**: ")
			if r.Err != "" {
				sb.WriteString("Error - " + r.Err + "\n")
				continue
			}
			switch r.Tool {
			case cst.ToolWebSearch:
				sb.WriteString(fmt.Sprintf("Encontré %v resultados relevantes.\n", numberOr(r.Data["totalResults"], 0)))
			case cst.ToolPDFRead:
				sb.WriteString(fmt.Sprintf("Procesé un documento de %v páginas.\n", pageCount(r.Data)))
			case cst.ToolCalc:
				sb.WriteString(fmt.Sprintf("El resultado es: %v\n", r.Data["result"]))
			default:
				sb.WriteString("Procesamiento completado exitosamente.\n")
			}
		}
		sb.WriteString("\n")
	}

	if g.dryRun {
		sb.WriteString("Esta es una respuesta simulada del orquestador ChatGPT-5 en modo canary. ")
		sb.WriteString("En producción, aquí recibirías la respuesta real generada por el modelo de lenguaje.")
	} else {
		sb.WriteString("Basándome en el análisis realizado, puedo proporcionarte una respuesta completa y contextual. ")
		sb.WriteString("¿Hay algún aspecto específico que te gustaría que profundice más?")
	}

	text := sb.String()
	return text, util.EstimateTokens(text), nil
}

func numberOr(v any, def any) any {
	if v == nil {
		return def
	}
	return v
}

func pageCount(data map[string]any) any {
	if meta, ok := data["metadata"].(map[string]any); ok {
		if n, ok := meta["pageCount"]; ok {
			return n
		}
	}
	return 0
}
