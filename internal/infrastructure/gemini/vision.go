package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/macrolens/datahunter/internal/domain"
	"github.com/macrolens/datahunter/internal/infrastructure/httpclient"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	// DefaultModel is used when no model is configured
	DefaultModel = "gemini-2.5-flash"

	visionTimeout = 9 * time.Second
	maxImageBytes = 5 << 20
)

// generator sends one prompt plus one inline image and returns the reply text
type generator interface {
	generate(ctx context.Context, model, prompt string, image []byte, mimeType string) (string, error)
}

// genaiGenerator is the generator backed by the Gemini API
type genaiGenerator struct {
	client *genai.Client
}

func (g genaiGenerator) generate(ctx context.Context, model, prompt string, image []byte, mimeType string) (string, error) {
	temperature := float32(0)
	resp, err := g.client.Models.GenerateContent(ctx, model, []*genai.Content{
		{
			Parts: []*genai.Part{
				{Text: prompt},
				{InlineData: &genai.Blob{MIMEType: mimeType, Data: image}},
			},
		},
	}, &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", err
	}
	return responseText(resp), nil
}

// responseText joins the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}
	var texts []string
	for _, part := range candidate.Content.Parts {
		if part != nil && part.Text != "" {
			texts = append(texts, part.Text)
		}
	}
	return strings.Join(texts, "")
}

// VisionExtractor reads product facts off a photo with a Gemini model.
// It implements domain.VisionExtractor.
type VisionExtractor struct {
	gen        generator
	model      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewVisionExtractor connects to the Gemini API with apiKey
func NewVisionExtractor(ctx context.Context, apiKey, model string, logger *zap.Logger) (*VisionExtractor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: gemini key missing", domain.ErrProviderNotConfigured)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return newVisionExtractor(genaiGenerator{client: client}, model, logger), nil
}

func newVisionExtractor(gen generator, model string, logger *zap.Logger) *VisionExtractor {
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VisionExtractor{
		gen:        gen,
		model:      model,
		httpClient: httpclient.New(visionTimeout),
		logger:     logger.Named("gemini"),
	}
}

// ExtractFromImage downloads imageURL and asks the model for the product
// facts, translated into lang
func (v *VisionExtractor) ExtractFromImage(ctx context.Context, imageURL string, lang domain.Language) (*domain.VisionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, visionTimeout)
	defer cancel()

	image, mimeType, err := v.download(ctx, imageURL)
	if err != nil {
		return nil, err
	}

	text, err := v.gen.generate(ctx, v.model, buildPrompt(lang), image, mimeType)
	if err != nil {
		v.logger.Warn("Gemini generation failed", zap.String("url", imageURL), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrVisionUnavailable, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty response", domain.ErrVisionUnavailable)
	}

	result, err := parseReply(text)
	if err != nil {
		v.logger.Warn("Gemini reply not parseable", zap.String("url", imageURL), zap.Error(err))
		return nil, err
	}

	v.logger.Debug("Vision extraction complete",
		zap.String("url", imageURL),
		zap.Int("fields", result.Fields.Populated()))
	return result, nil
}

// download fetches the image body, refusing anything over 5 MiB
func (v *VisionExtractor) download(ctx context.Context, imageURL string) ([]byte, string, error) {
	resp, err := httpclient.Get(ctx, v.httpClient, imageURL, httpclient.BrowserUserAgent, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: download: %v", domain.ErrImageRejected, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("%w: download status %d", domain.ErrImageRejected, resp.StatusCode)
	}

	data, tooLarge, err := httpclient.ReadLimited(resp.Body, maxImageBytes)
	if err != nil {
		return nil, "", fmt.Errorf("%w: read: %v", domain.ErrImageRejected, err)
	}
	if tooLarge {
		return nil, "", fmt.Errorf("%w: image larger than %d bytes", domain.ErrImageRejected, maxImageBytes)
	}

	mimeType := resp.Header.Get("Content-Type")
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = "image/jpeg"
	}
	return data, strings.TrimSpace(mimeType), nil
}

// reply mirrors the JSON object the prompt asks for
type reply struct {
	ProductName string `json:"product_name"`
	domain.ExtractedFields
}

// parseReply strips markdown fences and decodes the model's JSON object
func parseReply(text string) (*domain.VisionResult, error) {
	clean := strings.TrimSpace(text)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	if start, end := strings.IndexByte(clean, '{'), strings.LastIndexByte(clean, '}'); start >= 0 && end > start {
		clean = clean[start : end+1]
	}

	var r reply
	if err := json.Unmarshal([]byte(clean), &r); err != nil {
		return nil, fmt.Errorf("%w: decode reply: %v", domain.ErrVisionUnavailable, err)
	}

	return &domain.VisionResult{
		ProductName: domain.OrSentinel(r.ProductName),
		Fields:      r.ExtractedFields.Normalize(),
	}, nil
}

func buildPrompt(lang domain.Language) string {
	return fmt.Sprintf(`You are a product master data expert. Look at this product image.
Task: extract the product specifications printed on the pack.
Language: translate all text into %s.
Use "-" for anything that is not visible. Reply with one JSON object only:
{
  "product_name": "Brand + name",
  "weight": "Net weight (e.g. 500g) or -",
  "ingredients": "Full list as a single string or -",
  "allergens": "List of allergens or -",
  "may_contain": "May contain warnings or -",
  "nutri_scope": "Nutrition header (e.g. per 100g) or -",
  "energy": "Energy in kJ / kcal or -",
  "fat": "Total fat or -",
  "saturates": "Saturated fat or -",
  "carbs": "Carbohydrates or -",
  "sugars": "Sugars or -",
  "protein": "Protein or -",
  "fiber": "Fibre or -",
  "salt": "Salt or -",
  "organic_id": "Organic certification code (e.g. DE-ÖKO-001) or -"
}`, lang.Name())
}
