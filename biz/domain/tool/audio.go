package tool

// audio.transcribe 语音转写, Whisper优先, Google与Deepgram兜底

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/xh-polaris/brandstudio-core-api/biz/infra/config"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/cst"
	"github.com/xh-polaris/brandstudio-core-api/biz/infra/util/httpx"
)

type audioTranscriber struct {
	conf config.Providers
}

func NewAudioTranscriber(conf config.Providers) Adapter {
	return &audioTranscriber{conf: conf}
}

func (a *audioTranscriber) Name() string { return cst.ToolTranscribe }

func (a *audioTranscriber) Execute(ctx context.Context, args map[string]any) (*Result, error) {
	start := time.Now()
	audioURL, _ := args["url"].(string)
	if audioURL == "" {
		return nil, errors.New("audio url is required")
	}

	data, source, err := runChain(ctx, defaultPolicy, []provider{
		{name: "OpenAI Whisper", fn: func(ctx context.Context) (map[string]any, error) {
			return a.whisper(ctx, audioURL)
		}},
		{name: "Google Speech-to-Text", fn: func(ctx context.Context) (map[string]any, error) {
			return a.googleSpeech(ctx, audioURL)
		}},
		{name: "Deepgram Nova-2", fn: func(ctx context.Context) (map[string]any, error) {
			return a.deepgram(ctx, audioURL)
		}},
	})
	if err != nil {
		// 降级: 返回空转写结构, 不让整次运行失败
		data = map[string]any{
			"text":       "",
			"language":   "es",
			"confidence": 0,
		}
		source = "Error Response"
	}
	data["url"] = audioURL
	return &Result{Tool: a.Name(), Source: source, LatencyMs: time.Since(start).Milliseconds(), Data: data}, nil
}

func (a *audioTranscriber) whisper(ctx context.Context, audioURL string) (map[string]any, error) {
	if a.conf.WhisperAPIKey == "" {
		return nil, fmt.Errorf("whisper: %w", errNotConfigured)
	}
	h := http.Header{
		"Authorization": []string{"Bearer " + a.conf.WhisperAPIKey},
		"Content-Type":  []string{"application/json"},
	}
	return httpx.GetHttpClient().Post(ctx, "https://api.openai.com/v1/audio/transcriptions", h,
		map[string]any{"model": "whisper-1", "url": audioURL, "language": "es"})
}

func (a *audioTranscriber) googleSpeech(ctx context.Context, audioURL string) (map[string]any, error) {
	if a.conf.GoogleAPIKey == "" {
		return nil, fmt.Errorf("google speech: %w", errNotConfigured)
	}
	h := http.Header{"Content-Type": []string{"application/json"}}
	return httpx.GetHttpClient().Post(ctx,
		"https://speech.googleapis.com/v1/speech:recognize?key="+a.conf.GoogleAPIKey, h,
		map[string]any{
			"config": map[string]any{"languageCode": "es-ES", "enableAutomaticPunctuation": true},
			"audio":  map[string]any{"uri": audioURL},
		})
}

func (a *audioTranscriber) deepgram(ctx context.Context, audioURL string) (map[string]any, error) {
	if a.conf.DeepgramAPIKey == "" {
		return nil, fmt.Errorf("deepgram: %w", errNotConfigured)
	}
	h := http.Header{
		"Authorization": []string{"Token " + a.conf.DeepgramAPIKey},
		"Content-Type":  []string{"application/json"},
	}
	return httpx.GetHttpClient().Post(ctx,
		"https://api.deepgram.com/v1/listen?model=nova-2&language=es", h,
		map[string]any{"url": audioURL})
}
