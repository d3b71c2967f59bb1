package tool

// image.describe 图像理解, Google Vision不可用时降级为本地占位分析

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/xh-polaris/brandstudio-core-api/biz/infra/config"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/cst"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/util/httpx"
)

type imageDescriber struct {
	conf config.Providers
}

func NewImageDescriber(conf config.Providers) Adapter {
	return &imageDescriber{conf: conf}
}

func (i *imageDescriber) Name() string { return cst.ToolImageDesc }

func (i *imageDescriber) Execute(ctx context.Context, args map[string]any) (*Result, error) {
	start := time.Now()
	imgURL, _ := args["url"].(string)
	if imgURL == "" {
		return nil, errors.New("image url is required")
	}

	data, source, err := runChain(ctx, defaultPolicy, []provider{
		{name: "Google Vision API", fn: func(ctx context.Context) (map[string]any, error) {
			return i.vision(ctx, imgURL)
		}},
	})
	if err != nil {
		// 降级: 返回空分析结构, 不让整次运行失败
		data = map[string]any{
			"description": "Análisis de imagen no disponible",
			"colors":      []map[string]any{},
			"objects":     []map[string]any{},
			"tags":        []string{},
		}
		source = "Local Analysis"
	}
	data["url"] = imgURL
	return &Result{Tool: i.Name(), Source: source, LatencyMs: time.Since(start).Milliseconds(), Data: data}, nil
}

func (i *imageDescriber) vision(ctx context.Context, imgURL string) (map[string]any, error) {
	if i.conf.VisionAPIKey == "" {
		return nil, fmt.Errorf("vision api: %w", errNotConfigured)
	}
	body := map[string]any{
		"requests": []map[string]any{{
			"image": map[string]any{"source": map[string]any{"imageUri": imgURL}},
			"features": []map[string]any{
				{"type": "LABEL_DETECTION", "maxResults": 10},
				{"type": "IMAGE_PROPERTIES"},
				{"type": "TEXT_DETECTION"},
			},
		}},
	}
	h := http.Header{"Content-Type": []string{"application/json"}}
	resp, err := httpx.GetHttpClient().Post(ctx,
		"https://vision.googleapis.com/v1/images:annotate?key="+i.conf.VisionAPIKey, h, body)
	if err != nil {
		return nil, err
	}
	return parseAnnotation(resp), nil
}

// parseAnnotation 把annotate响应整理成统一的分析结构
func parseAnnotation(resp map[string]any) map[string]any {
	var annotation map[string]any
	if rs, ok := resp["responses"].([]any); ok && len(rs) > 0 {
		annotation, _ = rs[0].(map[string]any)
	}

	tags := make([]string, 0, 10)
	if labels, ok := annotation["labelAnnotations"].([]any); ok {
		for _, l := range labels {
			m, _ := l.(map[string]any)
			if desc, ok := m["description"].(string); ok {
				tags = append(tags, desc)
			}
		}
	}

	description := "Imagen analizada"
	if len(tags) > 0 {
		n := len(tags)
		if n > 3 {
			n = 3
		}
		description = "Imagen con: " + strings.Join(tags[:n], ", ")
	}

	colors := make([]map[string]any, 0, 5)
	if props, ok := annotation["imagePropertiesAnnotation"].(map[string]any); ok {
		if dom, ok := props["dominantColors"].(map[string]any); ok {
			if cs, ok := dom["colors"].([]any); ok {
				for _, c := range cs {
					m, _ := c.(map[string]any)
					rgb, _ := m["color"].(map[string]any)
					frac, _ := m["pixelFraction"].(float64)
					colors = append(colors, map[string]any{
						"rgb":        rgb,
						"percentage": int(frac * 100),
					})
				}
			}
		}
	}

	objects := make([]map[string]any, 0, 5)
	if texts, ok := annotation["textAnnotations"].([]any); ok && len(texts) > 0 {
		m, _ := texts[0].(map[string]any)
		if t, ok := m["description"].(string); ok {
			objects = append(objects, map[string]any{"type": "text", "content": t})
		}
	}

	return map[string]any{
		"description": description,
		"colors":      colors,
		"objects":     objects,
		"tags":        tags,
	}
}
