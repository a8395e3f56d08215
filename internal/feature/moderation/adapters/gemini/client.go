// Package gemini はGoogle Gemini APIを使用したテキスト審査クライアントを提供します。
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"erasmus_backend/internal/feature/moderation/domain/entity"
	"erasmus_backend/internal/feature/moderation/usecase"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"
	// ClassificationPromptTemplate はテキスト分類のプロンプトテンプレートです。
	ClassificationPromptTemplate = "You moderate a community site for exchange students. " +
		"Answer with exactly one word, SAFE or UNSAFE. A text is UNSAFE if it contains hate speech, " +
		"harassment, sexual content, threats of violence or spam.\n\nText:\n%s"
)

// GeminiTextClassifier はGoogle Gemini APIを使用してテキストを審査します。
type GeminiTextClassifier struct {
	client *genai.Client
	model  string
}

// GeminiTextClassifierがTextClassifierを実装していることをコンパイル時に検証します。
var _ usecase.TextClassifier = (*GeminiTextClassifier)(nil)

// NewGeminiTextClassifier はADCを使用してGeminiTextClassifierの新しいインスタンスを生成します。
// 環境変数 GOOGLE_GENAI_USE_VERTEXAI, GOOGLE_CLOUD_PROJECT, GOOGLE_CLOUD_LOCATION（またはGEMINI_API_KEY）が必要です。
func NewGeminiTextClassifier(ctx context.Context, model string) (*GeminiTextClassifier, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &GeminiTextClassifier{client: client, model: model}, nil
}

// ClassifyText はテキストをSAFE/UNSAFEに分類します。
func (g *GeminiTextClassifier) ClassifyText(ctx context.Context, text string) (entity.Verdict, error) {
	prompt := fmt.Sprintf(ClassificationPromptTemplate, text)
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return entity.Verdict{}, fmt.Errorf("gemini API request failed: %w", err)
	}
	return ParseClassification(resp.Text())
}

// ParseClassification はモデルの回答を判定に変換します。SAFE/UNSAFE以外の回答はエラーです。
func ParseClassification(answer string) (entity.Verdict, error) {
	word := strings.ToUpper(strings.Trim(strings.TrimSpace(answer), ".!\"'`*"))
	switch word {
	case "SAFE":
		return entity.Allow(), nil
	case "UNSAFE":
		return entity.Reject("UNSAFE"), nil
	}
	return entity.Verdict{}, fmt.Errorf("unexpected classification %q", answer)
}
