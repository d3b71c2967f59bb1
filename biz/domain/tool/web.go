package tool

// web.run 网页搜索, Google CSE优先, Bing兜底, 全部失败时返回降级结构

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/xh-polaris/brandstudio-core-api/biz/infra/config"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/cst"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/util/httpx"
)

const maxSearchResults = 10

type webSearch struct {
	conf config.Providers
}

func NewWebSearch(conf config.Providers) Adapter {
	return &webSearch{conf: conf}
}

func (w *webSearch) Name() string { return cst.ToolWebSearch }

func (w *webSearch) Execute(ctx context.Context, args map[string]any) (*Result, error) {
	start := time.Now()
	query, _ := args["query"].(string)
	if query == "" {
		return nil, errors.New("search query is required")
	}

	data, source, err := runChain(ctx, defaultPolicy, []provider{
		{name: "Google Custom Search", fn: func(ctx context.Context) (map[string]any, error) {
			return w.googleSearch(ctx, query)
		}},
		{name: "Bing Search", fn: func(ctx context.Context) (map[string]any, error) {
			return w.bingSearch(ctx, query)
		}},
	})
	if err != nil {
		// 降级: 返回结构化的不可用提示, 不让整次运行失败
		data = map[string]any{
			"query": query,
			"results": []map[string]any{{
				"title":   "Search Service Unavailable",
				"url":     "#",
				"snippet": fmt.Sprintf("Unable to perform web search for %q.", query),
			}},
			"totalResults": 0,
		}
		source = "Error Response"
	}
	data["query"] = query
	return &Result{Tool: w.Name(), Source: source, LatencyMs: time.Since(start).Milliseconds(), Data: data}, nil
}

func (w *webSearch) googleSearch(ctx context.Context, query string) (map[string]any, error) {
	if w.conf.GoogleAPIKey == "" || w.conf.GoogleSearchCx == "" {
		return nil, fmt.Errorf("google custom search: %w", errNotConfigured)
	}
	q := url.Values{}
	q.Set("key", w.conf.GoogleAPIKey)
	q.Set("cx", w.conf.GoogleSearchCx)
	q.Set("q", query)
	q.Set("num", fmt.Sprintf("%d", maxSearchResults))
	q.Set("safe", "active")
	resp, err := httpx.GetHttpClient().Get(ctx, "https://www.googleapis.com/customsearch/v1?"+q.Encode(), nil, nil)
	if err != nil {
		return nil, err
	}

	items, _ := resp["items"].([]any)
	results := make([]map[string]any, 0, len(items))
	for _, it := range items {
		item, ok := it.(map[string]any)
		if !ok {
			continue
		}
		results = append(results, map[string]any{
			"title":   item["title"],
			"url":     item["link"],
			"snippet": item["snippet"],
		})
	}
	return map[string]any{"results": results, "totalResults": len(results)}, nil
}

func (w *webSearch) bingSearch(ctx context.Context, query string) (map[string]any, error) {
	if w.conf.BingAPIKey == "" {
		return nil, fmt.Errorf("bing search: %w", errNotConfigured)
	}
	q := url.Values{}
	q.Set("q", query)
	q.Set("count", fmt.Sprintf("%d", maxSearchResults))
	q.Set("safeSearch", "Moderate")
	h := http.Header{"Ocp-Apim-Subscription-Key": []string{w.conf.BingAPIKey}}
	resp, err := httpx.GetHttpClient().Get(ctx, "https://api.bing.microsoft.com/v7.0/search?"+q.Encode(), h, nil)
	if err != nil {
		return nil, err
	}

	webPages, _ := resp["webPages"].(map[string]any)
	values, _ := webPages["value"].([]any)
	results := make([]map[string]any, 0, len(values))
	for _, it := range values {
		item, ok := it.(map[string]any)
		if !ok {
			continue
		}
		results = append(results, map[string]any{
			"title":   item["name"],
			"url":     item["url"],
			"snippet": item["snippet"],
		})
	}
	return map[string]any{"results": results, "totalResults": len(results)}, nil
}
