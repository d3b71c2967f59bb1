package tool

// pdf.read 文档解析, 外部解析服务不可用时降级为本地元数据

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/xh-polaris/brandstudio-core-api/biz/infra/config"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/cst"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/util"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/util/httpx"
)

type pdfReader struct {
	conf config.Providers
}

func NewPDFReader(conf config.Providers) Adapter {
	return &pdfReader{conf: conf}
}

func (p *pdfReader) Name() string { return cst.ToolPDFRead }

func (p *pdfReader) Execute(ctx context.Context, args map[string]any) (*Result, error) {
	start := time.Now()
	docURL, _ := args["url"].(string)
	if docURL == "" {
		return nil, errors.New("document url is required")
	}

	data, source, err := runChain(ctx, defaultPolicy, []provider{
		{name: "PDF Parser", fn: func(ctx context.Context) (map[string]any, error) {
			return p.remoteParse(ctx, docURL)
		}},
	})
	if err != nil {
		// 降级: 从URL提取文件名作为元数据, 不让整次运行失败
		data = map[string]any{
			"pages": []map[string]any{},
			"metadata": map[string]any{
				"title":     docTitle(docURL),
				"pageCount": 0,
			},
			"text": "",
		}
		source = "Local Metadata"
	}
	data["url"] = docURL
	return &Result{Tool: p.Name(), Source: source, LatencyMs: time.Since(start).Milliseconds(), Data: data}, nil
}

func (p *pdfReader) remoteParse(ctx context.Context, docURL string) (map[string]any, error) {
	if p.conf.PDFParserURL == "" {
		return nil, fmt.Errorf("pdf parser: %w", errNotConfigured)
	}
	h := http.Header{"Content-Type": []string{"application/json"}}
	return httpx.GetHttpClient().Post(ctx, p.conf.PDFParserURL, h, map[string]any{"url": docURL})
}

// docTitle 从URL路径取文件名, 去掉扩展名
func docTitle(docURL string) string {
	name := path.Base(util.Str2URL(docURL).Path)
	if name == "." || name == "/" || name == "" {
		return "Documento"
	}
	return strings.TrimSuffix(name, path.Ext(name))
}
