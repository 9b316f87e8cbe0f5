package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/mmynk/billsplit/internal/models"
)

const geminiPrompt = `You read photos of restaurant and shop receipts.
List every purchased line item on the receipt. Skip subtotals, totals, taxes,
tips, discounts, payment and change lines.
Return strictly a JSON object with this structure:
{"items": [{"name": "Item name", "price": 1.23, "quantity": 1}]}
"price" is the unit price as a number without currency symbols.
"quantity" is a positive integer, 1 when the receipt does not show one.
Return {"items": []} when the image is not a receipt.`

// ImageReader sends an image with a prompt to a vision model and returns
// the generated text.
type ImageReader interface {
	ReadImage(ctx context.Context, mimeType string, data []byte, prompt string) (string, error)
	Close() error
}

// geminiReader is an ImageReader backed by the Google Gemini API.
type geminiReader struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiReader creates a Gemini API client for the given model.
func NewGeminiReader(ctx context.Context, apiKey, modelName string) (ImageReader, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0)
	return &geminiReader{client: client, model: model}, nil
}

func (g *geminiReader) ReadImage(ctx context.Context, mimeType string, data []byte, prompt string) (string, error) {
	blob := genai.Blob{MIMEType: mimeType, Data: data}
	resp, err := g.model.GenerateContent(ctx, blob, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("generated content is not text")
	}
	return sb.String(), nil
}

func (g *geminiReader) Close() error {
	return g.client.Close()
}

// Vision extracts items from receipt photos with a vision model.
type Vision struct {
	reader ImageReader
}

// NewVision returns an image extractor using reader.
func NewVision(reader ImageReader) *Vision {
	return &Vision{reader: reader}
}

type visionItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Extract implements Extractor. Entries the model returns without a name or
// with a non-positive price are dropped.
func (v *Vision) Extract(ctx context.Context, upload Upload) ([]models.LineItem, error) {
	out, err := v.reader.ReadImage(ctx, upload.MediaType(), upload.Data, geminiPrompt)
	if err != nil {
		return nil, fmt.Errorf("failed to read receipt image: %w", err)
	}

	var parsed struct {
		Items []visionItem `json:"items"`
	}
	if err := json.Unmarshal([]byte(stripFence(out)), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse model response: %w", err)
	}

	items := make([]models.LineItem, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		item, err := models.NewLineItem(it.Name, it.Price, it.Quantity)
		if err != nil {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// stripFence removes a markdown code fence some models wrap JSON in.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
