package script

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/genai"
)

// DefaultWriterModel is the Gemini model used to draft scripts.
const DefaultWriterModel = "gemini-2.5-flash"

// WriteRequest describes the script the Writer should draft.
type WriteRequest struct {
	// Topic is the subject the dialogue should cover.
	Topic string

	// Prompt is the system prompt template. Occurrences of {{CHAR_A}} and
	// {{CHAR_B}} are replaced with the character names.
	Prompt string

	// RoleA and RoleB are the two speaker roles for the conversation.
	RoleA string
	RoleB string

	// Language is the target language code; defaults to DefaultLanguage.
	Language string
}

// Writer drafts conversation scripts with a Gemini model, constraining the
// output to the script JSON shape via a response schema.
type Writer struct {
	client *genai.Client
	model  string
}

// NewWriter creates a script writer. If model is empty, DefaultWriterModel
// is used.
func NewWriter(client *genai.Client, model string) *Writer {
	if model == "" {
		model = DefaultWriterModel
	}
	return &Writer{client: client, model: model}
}

// scriptSchema constrains model output to the conversation shape Parse
// expects.
var scriptSchema = &jsonschema.Schema{
	Type:     "object",
	Required: []string{"conversation"},
	Properties: map[string]*jsonschema.Schema{
		"conversation": {
			Type: "array",
			Items: &jsonschema.Schema{
				Type:     "object",
				Required: []string{"role", "text"},
				Properties: map[string]*jsonschema.Schema{
					"role": {Type: "string", Description: "speaker character name"},
					"text": {Type: "string", Description: "spoken line, may include [bracketed] delivery cues"},
				},
			},
		},
		"metadata": {
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"language": {Type: "string"},
				"title":    {Type: "string"},
			},
		},
	},
}

// Write drafts a script for the request topic and returns it validated.
func (w *Writer) Write(ctx context.Context, req WriteRequest) (*Script, error) {
	if req.Topic == "" {
		return nil, fmt.Errorf("script: write: topic is required")
	}
	lang := req.Language
	if lang == "" {
		lang = DefaultLanguage
	}

	system := strings.NewReplacer(
		"{{CHAR_A}}", req.RoleA,
		"{{CHAR_B}}", req.RoleB,
	).Replace(req.Prompt)

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   convSchema(scriptSchema),
	}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	prompt := fmt.Sprintf(
		"Write a short two-person dialogue between %q and %q about: %s\nLanguage: %s",
		req.RoleA, req.RoleB, req.Topic, lang,
	)
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	resp, err := w.client.Models.GenerateContent(ctx, w.model, contents, cfg)
	if err != nil {
		if e, ok := err.(*apierror.APIError); ok {
			err = e.Unwrap()
		}
		return nil, fmt.Errorf("script: write: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("script: write: model returned no candidates")
	}

	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p.Text != "" {
			sb.WriteString(p.Text)
		}
	}

	s, err := Parse([]byte(sb.String()))
	if err != nil {
		return nil, err
	}
	if s.Metadata.Language == "" {
		s.Metadata.Language = lang
	}
	return s, nil
}

// convSchema lowers a jsonschema.Schema to the genai schema type. Only the
// subset the script schema uses is mapped.
func convSchema(schema *jsonschema.Schema) *genai.Schema {
	if schema == nil {
		return nil
	}
	gs := genai.Schema{
		Description: schema.Description,
		Items:       convSchema(schema.Items),
		Required:    schema.Required,
	}
	if n := len(schema.Properties); n > 0 {
		gs.Properties = make(map[string]*genai.Schema, n)
		for k, prop := range schema.Properties {
			gs.Properties[k] = convSchema(prop)
		}
	}
	switch schema.Type {
	case "object":
		gs.Type = genai.TypeObject
	case "array":
		gs.Type = genai.TypeArray
	case "string":
		gs.Type = genai.TypeString
	case "number":
		gs.Type = genai.TypeNumber
	case "integer":
		gs.Type = genai.TypeInteger
	case "boolean":
		gs.Type = genai.TypeBoolean
	}
	return &gs
}
