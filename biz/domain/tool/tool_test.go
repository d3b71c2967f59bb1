package tool

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xh-polaris/brandstudio-core-api/biz/infra/config"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/cst"
)

func fastPolicy() retryPolicy {
	return retryPolicy{timeout: 100 * time.Millisecond, retries: 2, backoff: time.Millisecond}
}

func TestWithRetry(t *testing.T) {
	attempts := 0
	data, err := withRetry(context.Background(), fastPolicy(), func(ctx context.Context) (map[string]any, error) {
		attempts++
		if attempts < 3 {
			return nil, errors.New("transient")
		}
		return map[string]any{"ok": true}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, true, data["ok"])
}

func TestWithRetryExhausted(t *testing.T) {
	attempts := 0
	_, err := withRetry(context.Background(), fastPolicy(), func(ctx context.Context) (map[string]any, error) {
		attempts++
		return nil, errors.New("permanent")
	})
	require.Error(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRunChainFallsBack(t *testing.T) {
	chain := []provider{
		{name: "primary", fn: func(ctx context.Context) (map[string]any, error) {
			return nil, errors.New("down")
		}},
		{name: "secondary", fn: func(ctx context.Context) (map[string]any, error) {
			return map[string]any{"v": 1}, nil
		}},
	}
	data, source, err := runChain(context.Background(), retryPolicy{timeout: 100 * time.Millisecond, retries: 0, backoff: time.Millisecond}, chain)
	require.NoError(t, err)
	assert.Equal(t, "secondary", source)
	assert.Equal(t, 1, data["v"])
}

func TestRegistryDryRun(t *testing.T) {
	r := NewRegistry(&config.Config{DryRun: true})
	assert.Equal(t, cst.ModeDryRun, r.Mode())
	assert.Nil(t, r.Get("export.md"))

	res, err := r.Get(cst.ToolWebSearch).Execute(context.Background(), map[string]any{"query": "marca"})
	require.NoError(t, err)
	assert.Equal(t, "marca", res.Data["query"])
	assert.Equal(t, 1, res.Data["totalResults"])

	res, err = r.Get(cst.ToolCalc).Execute(context.Background(), map[string]any{"expression": "2+2"})
	require.NoError(t, err)
	assert.Equal(t, 42, res.Data["result"])
	assert.Equal(t, "2+2", res.Data["expression"])
}

func TestRegistryLive(t *testing.T) {
	r := NewRegistry(&config.Config{})
	assert.Equal(t, cst.ModeLive, r.Mode())
	for _, name := range []string{cst.ToolWebSearch, cst.ToolCalc, cst.ToolPDFRead, cst.ToolImageDesc, cst.ToolTranscribe} {
		require.NotNil(t, r.Get(name), name)
		assert.Equal(t, name, r.Get(name).Name())
	}
}

func TestWithRetrySkipsUnconfigured(t *testing.T) {
	// 缺少凭据不重试, 立即换下一个后端
	attempts := 0
	_, err := withRetry(context.Background(), fastPolicy(), func(ctx context.Context) (map[string]any, error) {
		attempts++
		return nil, errors.New("whisper: " + errNotConfigured.Error())
	})
	require.Error(t, err)
	assert.Equal(t, 3, attempts)

	attempts = 0
	_, err = withRetry(context.Background(), fastPolicy(), func(ctx context.Context) (map[string]any, error) {
		attempts++
		return nil, fmt.Errorf("whisper: %w", errNotConfigured)
	})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestWebSearchDegraded(t *testing.T) {
	// 无任何后端配置时走降级响应而不报错
	ws := NewWebSearch(config.Providers{})
	res, err := ws.Execute(context.Background(), map[string]any{"query": "tendencias"})
	require.NoError(t, err)
	assert.Equal(t, "Error Response", res.Source)
	assert.Equal(t, "tendencias", res.Data["query"])
	results, ok := res.Data["results"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, results, 1)
	assert.Equal(t, "Search Service Unavailable", results[0]["title"])
}

func TestPDFReaderDegraded(t *testing.T) {
	pr := NewPDFReader(config.Providers{})
	res, err := pr.Execute(context.Background(), map[string]any{"url": "https://cdn.example.com/docs/informe-anual.pdf"})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "Local Metadata", res.Source)
	assert.Equal(t, "", res.Data["text"])
	meta, ok := res.Data["metadata"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "informe-anual", meta["title"])
	assert.Equal(t, 0, meta["pageCount"])
}

func TestImageDescriberDegraded(t *testing.T) {
	id := NewImageDescriber(config.Providers{})
	res, err := id.Execute(context.Background(), map[string]any{"url": "https://cdn.example.com/logo.png"})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "Local Analysis", res.Source)
	assert.Equal(t, "Análisis de imagen no disponible", res.Data["description"])
	assert.Empty(t, res.Data["tags"])
}

func TestAudioTranscriberDegraded(t *testing.T) {
	at := NewAudioTranscriber(config.Providers{})
	res, err := at.Execute(context.Background(), map[string]any{"url": "https://cdn.example.com/nota.mp3"})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "Error Response", res.Source)
	assert.Equal(t, "", res.Data["text"])
	assert.Equal(t, "es", res.Data["language"])
}
