// internal/analyzer/openai.go
package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// OpenAIAnalyzer asks a chat model for a structured JSON analysis of the
// transcript. The model's answer is trusted verbatim once parsed; missing
// fields default to zero/empty.
type OpenAIAnalyzer struct {
	client *openai.Client
	model  string
}

func NewOpenAIAnalyzer(cfg OpenAIConfig) (*OpenAIAnalyzer, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("analyzer api key is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
		option.WithRequestTimeout(timeout),
	}
	if trimmed := strings.TrimRight(cfg.BaseURL, "/"); trimmed != "" {
		opts = append(opts, option.WithBaseURL(trimmed))
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = string(openai.ChatModelGPT4oMini)
	}

	client := openai.NewClient(opts...)
	return &OpenAIAnalyzer{client: &client, model: model}, nil
}

const analysisPrompt = `Analyze this call transcript and provide a structured analysis in JSON format with the following fields:
{
    "agent_performance": {
        "score": float,
        "issues": [string]
    },
    "customer_analysis": {
        "interest_score": float,
        "description": string,
        "preferences": string
    },
    "test_drive": {
        "readiness_score": float
    }
}
Scores are on a 0-100 scale. Respond with JSON only.

Transcript: %s`

func (a *OpenAIAnalyzer) Analyze(ctx context.Context, transcript string) (*Result, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, errors.New("transcript cannot be empty")
	}

	completion, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(a.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(fmt.Sprintf(analysisPrompt, transcript)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(completion.Choices) == 0 {
		return nil, errors.New("empty completion response")
	}

	return parseAnalysis(completion.Choices[0].Message.Content)
}

// fencedJSON matches a JSON object wrapped in a markdown code block, which
// chat models emit even when asked for raw JSON.
var fencedJSON = regexp.MustCompile("```(?:json)?\\s*(\\{[\\s\\S]*?\\})\\s*```")

// parseAnalysis extracts the analysis JSON from a model reply and maps it
// onto the fixed result shape.
func parseAnalysis(reply string) (*Result, error) {
	text := reply
	if m := fencedJSON.FindStringSubmatch(reply); m != nil {
		text = m[1]
	}

	var payload struct {
		AgentPerformance struct {
			Score  float64  `json:"score"`
			Issues []string `json:"issues"`
		} `json:"agent_performance"`
		CustomerAnalysis struct {
			InterestScore float64 `json:"interest_score"`
			Description   string  `json:"description"`
			Preferences   string  `json:"preferences"`
		} `json:"customer_analysis"`
		TestDrive struct {
			ReadinessScore float64 `json:"readiness_score"`
		} `json:"test_drive"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, fmt.Errorf("invalid JSON in model response: %w", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON in model response: %w", err)
	}

	return &Result{
		AgentPerformanceScore: payload.AgentPerformance.Score,
		AgentIssues:           strings.Join(payload.AgentPerformance.Issues, ", "),
		CustomerInterestScore: payload.CustomerAnalysis.InterestScore,
		CustomerDescription:   payload.CustomerAnalysis.Description,
		CustomerPreferences:   payload.CustomerAnalysis.Preferences,
		TestDriveReadiness:    payload.TestDrive.ReadinessScore,
		Raw:                   raw,
	}, nil
}
