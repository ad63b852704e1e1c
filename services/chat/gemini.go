// File: services/chat/gemini.go
package chat

import (
	"context"
	"fmt"

	"podgoro/models"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiOracle implements Oracle on top of the Gemini API with the
// availability function declared as a tool.
type GeminiOracle struct {
	client    *genai.Client
	modelName string
}

func NewGeminiOracle(apiKey, modelName string) (*GeminiOracle, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiOracle{client: client, modelName: modelName}, nil
}

func availabilityTool() *genai.Tool {
	return &genai.Tool{
		FunctionDeclarations: []*genai.FunctionDeclaration{
			{
				Name:        CheckAvailabilityTool,
				Description: "Preveri prost termin za sobo ali mizo. Obvezno pred vsako trditvijo o razpoložljivosti.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"type": {
							Type:        genai.TypeString,
							Description: "Vrsta rezervacije: room ali table",
							Enum:        []string{models.ReservationRoom, models.ReservationTable},
						},
						"date": {
							Type:        genai.TypeString,
							Description: "Datum prihoda v obliki DD.MM.YYYY",
						},
						"time": {
							Type:        genai.TypeString,
							Description: "Ura prihoda HH:MM (samo za mize)",
						},
						"people": {
							Type:        genai.TypeInteger,
							Description: "Število oseb",
						},
						"nights": {
							Type:        genai.TypeInteger,
							Description: "Število nočitev (samo za sobe)",
						},
					},
					Required: []string{"type", "date"},
				},
			},
		},
	}
}

// Converse sends the conversation to the model and normalizes the reply.
func (g *GeminiOracle) Converse(ctx context.Context, req OracleRequest) (OracleReply, error) {
	model := g.client.GenerativeModel(g.modelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(req.System)},
	}
	model.Tools = []*genai.Tool{availabilityTool()}
	if req.ForceTool != "" {
		model.ToolConfig = &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{
				Mode:                 genai.FunctionCallingAny,
				AllowedFunctionNames: []string{req.ForceTool},
			},
		}
	}

	session := model.StartChat()
	if len(req.Messages) > 1 {
		history := make([]*genai.Content, 0, len(req.Messages)-1)
		for _, turn := range req.Messages[:len(req.Messages)-1] {
			role := "user"
			if turn.Role == "assistant" {
				role = "model"
			}
			history = append(history, &genai.Content{
				Role:  role,
				Parts: []genai.Part{genai.Text(turn.Text)},
			})
		}
		session.History = history
	}

	last := ""
	if len(req.Messages) > 0 {
		last = req.Messages[len(req.Messages)-1].Text
	}

	resp, err := session.SendMessage(ctx, genai.Text(last))
	if err != nil {
		return OracleReply{}, fmt.Errorf("gemini generate error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return OracleReply{}, fmt.Errorf("gemini returned no candidates")
	}

	var reply OracleReply
	for _, part := range resp.Candidates[0].Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			reply.Text += string(p)
		case genai.FunctionCall:
			reply.ToolCalls = append(reply.ToolCalls, ToolCall{
				Name: p.Name,
				Args: p.Args,
			})
		}
	}
	return reply, nil
}
