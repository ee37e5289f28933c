package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/jinford/blog-agent/internal/core/images"
)

const (
	// DefaultImageModel はデフォルトで使用する画像生成モデル
	DefaultImageModel = "gpt-image-1"

	// imageTimeout は画像生成のタイムアウト。テキスト補完より長めに取る。
	imageTimeout = 180 * time.Second
)

// ImageGenerator は OpenAI Images API を使用した画像生成実装
type ImageGenerator struct {
	client openai.Client
	model  string
}

// NewImageGenerator はAPIキーとモデルを指定して ImageGenerator を作成する
func NewImageGenerator(apiKey, model string) (*ImageGenerator, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyNotSet
	}
	if model == "" {
		model = DefaultImageModel
	}

	return &ImageGenerator{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}, nil
}

// インターフェース実装の確認
var _ images.Generator = (*ImageGenerator)(nil)

// Generate はプロンプトから画像を生成し、PNG バイト列を返す
func (g *ImageGenerator) Generate(ctx context.Context, prompt string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, imageTimeout)
	defer cancel()

	resp, err := g.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Model:  openai.ImageModel(g.model),
		Prompt: prompt,
		Size:   openai.ImageGenerateParamsSize1536x1024,
	})
	if err != nil {
		return nil, fmt.Errorf("image generation failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no image data returned")
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image data: %w", err)
	}
	return data, nil
}
