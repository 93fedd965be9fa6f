package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"github.com/kindwatch/wardenbot/internal/adapters"
	"github.com/kindwatch/wardenbot/internal/adapters/llm"
)

type API struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger *log.Entry
}

const DefaultModel = "gemini-2.5-flash-lite"

func NewGemini(apiKey, model string, logger *log.Entry) adapters.LLM {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		logger.Fatalf("Error creating client: %v", err)
	}
	api := &API{
		client: client,
		logger: logger,
	}
	api.WithModel(model)
	api.WithSafetySettings(nil)
	api.WithParameters(nil)
	return api
}

func (g *API) WithModel(modelName string) *API {
	if modelName == "" {
		modelName = DefaultModel
	}
	g.model = g.client.GenerativeModel(modelName)
	return g
}

func (g *API) WithParameters(parameters *llm.GenerationParameters) *API {
	if parameters == nil {
		parameters = &llm.GenerationParameters{
			Temperature:      0.3,
			TopK:             40,
			TopP:             0.95,
			MaxOutputTokens:  512,
			ResponseMIMEType: "text/plain",
		}
	}

	g.model.SetTemperature(parameters.Temperature)
	g.model.SetTopK(parameters.TopK)
	g.model.SetTopP(parameters.TopP)
	g.model.SetMaxOutputTokens(parameters.MaxOutputTokens)
	g.model.ResponseMIMEType = parameters.ResponseMIMEType

	return g
}

// WithSafetySettings disables the provider-side blocking. The classifier has
// to see offensive content to judge it, so filtering happens on our side.
func (g *API) WithSafetySettings(safetySettings []*genai.SafetySetting) *API {
	if len(safetySettings) == 0 {
		for _, category := range []genai.HarmCategory{
			genai.HarmCategoryDangerous,
			genai.HarmCategoryDangerousContent,
			genai.HarmCategoryDerogatory,
			genai.HarmCategoryHarassment,
			genai.HarmCategoryHateSpeech,
			genai.HarmCategoryMedical,
			genai.HarmCategorySexual,
			genai.HarmCategorySexuallyExplicit,
			genai.HarmCategoryToxicity,
			genai.HarmCategoryViolence,
			genai.HarmCategoryUnspecified,
		} {
			safetySettings = append(safetySettings, &genai.SafetySetting{
				Category:  category,
				Threshold: genai.HarmBlockNone,
			})
		}
	}
	g.model.SafetySettings = safetySettings
	return g
}

func (g *API) ChatCompletion(ctx context.Context, messages []llm.ChatCompletionMessage) (llm.ChatCompletionResponse, error) {
	if len(messages) == 0 {
		return llm.ChatCompletionResponse{}, fmt.Errorf("no messages to send")
	}

	session := g.model.StartChat()
	session.History = []*genai.Content{}

	lastMessage, messages := messages[len(messages)-1], messages[:len(messages)-1]

	backupInstruction := g.model.SystemInstruction
	defer func() { g.model.SystemInstruction = backupInstruction }()
	for _, message := range messages {
		if message.Role == llm.RoleSystem {
			g.model.SystemInstruction = &genai.Content{
				Parts: []genai.Part{genai.Text(message.Content)},
			}
			continue
		}
		session.History = append(session.History, &genai.Content{
			Parts: []genai.Part{genai.Text(message.Content)},
		})
	}

	resp, err := session.SendMessage(ctx, genai.Text(lastMessage.Content))
	if err != nil {
		return llm.ChatCompletionResponse{}, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return llm.ChatCompletionResponse{}, nil
	}

	response := ""
	for _, part := range resp.Candidates[0].Content.Parts {
		response += fmt.Sprintf("%v", part)
	}

	return llm.ChatCompletionResponse{
		Choices: []llm.ChatCompletionChoice{{Message: llm.ChatCompletionMessage{Role: llm.RoleAssistant, Content: response}}},
	}, nil
}
