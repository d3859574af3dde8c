package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/genai"
)

// uploadMIMEType is forced on every upload regardless of the client-provided
// filename; the backend rejects files without a recognized type.
const uploadMIMEType = "video/mp4"

// backend is the seam between the request lifecycle and the Gemini SDK.
// Credential selection is by pool index so the fail-over loop can rotate keys
// without rebuilding clients.
type backend interface {
	Upload(ctx context.Context, keyIndex int, path string) (*genai.File, error)
	GetFile(ctx context.Context, keyIndex int, name string) (*genai.File, error)
	DeleteFile(ctx context.Context, keyIndex int, name string) error
	Generate(ctx context.Context, keyIndex int, model string, file *genai.File) (string, error)
	ListModels(ctx context.Context, keyIndex int) ([]string, error)
}

// gaitSchema constrains generation output to the GaitAnalysis shape.
var gaitSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"parkinson_probability":   {Type: genai.TypeInteger},
		"freezing_percentage":     {Type: genai.TypeNumber},
		"bradykinesia_score":      {Type: genai.TypeInteger},
		"freezing_score":          {Type: genai.TypeInteger},
		"variability_score":       {Type: genai.TypeInteger},
		"reasoning":               {Type: genai.TypeString},
		"clinical_interpretation": {Type: genai.TypeString},
		"recommendation":          {Type: genai.TypeString},
	},
	Required: []string{
		"parkinson_probability", "freezing_percentage", "bradykinesia_score",
		"freezing_score", "variability_score", "reasoning",
		"clinical_interpretation", "recommendation",
	},
}

// genaiBackend implements backend with one SDK client per credential.
type genaiBackend struct {
	clients []*genai.Client
}

func newGenaiBackend(ctx context.Context, apiKeys []string) (*genaiBackend, error) {
	b := &genaiBackend{}
	for i, key := range apiKeys {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: key})
		if err != nil {
			return nil, fmt.Errorf("genai client for key #%d: %w", i+1, err)
		}
		b.clients = append(b.clients, client)
	}
	return b, nil
}

func (b *genaiBackend) Upload(ctx context.Context, keyIndex int, path string) (*genai.File, error) {
	return b.clients[keyIndex].Files.UploadFromPath(ctx, path, &genai.UploadFileConfig{
		MIMEType: uploadMIMEType,
	})
}

func (b *genaiBackend) GetFile(ctx context.Context, keyIndex int, name string) (*genai.File, error) {
	return b.clients[keyIndex].Files.Get(ctx, name, nil)
}

func (b *genaiBackend) DeleteFile(ctx context.Context, keyIndex int, name string) error {
	_, err := b.clients[keyIndex].Files.Delete(ctx, name, nil)
	return err
}

func (b *genaiBackend) Generate(ctx context.Context, keyIndex int, model string, file *genai.File) (string, error) {
	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			genai.NewPartFromURI(file.URI, file.MIMEType),
			genai.NewPartFromText(gaitPrompt),
		},
	}}
	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0),
		ResponseMIMEType: "application/json",
		ResponseSchema:   gaitSchema,
	}

	resp, err := b.clients[keyIndex].Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		if e, ok := err.(*apierror.APIError); ok {
			err = e.Unwrap()
		}
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no candidates")
	}

	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}

func (b *genaiBackend) ListModels(ctx context.Context, keyIndex int) ([]string, error) {
	var names []string
	for m, err := range b.clients[keyIndex].Models.All(ctx) {
		if err != nil {
			return nil, err
		}
		for _, action := range m.SupportedActions {
			if action == "generateContent" {
				names = append(names, m.Name)
				break
			}
		}
	}
	return names, nil
}
