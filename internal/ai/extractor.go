package ai

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/pdfscrubber/pdf-scrubber/internal/scrubber"
)

// Extractor derives document metadata from PDF text using a chat model.
// It implements scrubber.Extractor and is selected by configuration; the
// stub extractor remains the default.
type Extractor struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewExtractor creates a new AI-backed metadata extractor
func NewExtractor(apiKey, model string, logger *zap.Logger) *Extractor {
	return &Extractor{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: logger,
	}
}

type extractionResponse struct {
	Company      string `json:"company"`
	DocumentType string `json:"document_type"`
	Date         string `json:"date"`
}

// Extract asks the model for issuer, document type and date. Missing
// fields fall back to the placeholder values and mark the result as
// assumed so the UI flags it.
func (e *Extractor) Extract(ctx context.Context, text string, path string) (*scrubber.Metadata, error) {
	e.logger.Debug("Extracting metadata", zap.String("path", path), zap.Int("text_length", len(text)))

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: 0.1,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You extract structured metadata from business documents. Answer only with JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(text),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		e.logger.Error("Failed to call extraction model", zap.Error(err))
		return nil, fmt.Errorf("failed to extract metadata: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from extraction model")
	}

	var parsed extractionResponse
	content := resp.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		e.logger.Error("Failed to parse extraction result",
			zap.Error(err),
			zap.String("content", content))
		return nil, fmt.Errorf("failed to parse extraction result: %w", err)
	}

	metadata := &scrubber.Metadata{
		Company:      parsed.Company,
		DocumentType: parsed.DocumentType,
		Date:         parsed.Date,
	}
	if metadata.Company == "" {
		metadata.Company = "Unknown"
		metadata.Assumed = true
	}
	if metadata.DocumentType == "" {
		metadata.DocumentType = "Document"
		metadata.Assumed = true
	}
	if metadata.Date == "" {
		metadata.Assumed = true
	}

	e.logger.Info("Metadata extracted",
		zap.String("company", metadata.Company),
		zap.String("document_type", metadata.DocumentType),
		zap.Bool("assumed", metadata.Assumed))
	return metadata, nil
}

func buildPrompt(text string) string {
	const maxChars = 6000
	if len(text) > maxChars {
		text = text[:maxChars]
	}

	return fmt.Sprintf(`Extract metadata from this document text:

%s

Return JSON with this structure:
{
  "company": "issuing company name",
  "document_type": "Invoice, Contract, Statement, Receipt, ...",
  "date": "document date as YYYY/MM/DD"
}

Use an empty string for any field you cannot determine.`, text)
}
