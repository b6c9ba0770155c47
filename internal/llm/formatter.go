package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/sashabaranov/go-openai"

	"github.com/Atj28/weather-and-solar-AI-chat-bot/internal/geocode"
	"github.com/Atj28/weather-and-solar-AI-chat-bot/internal/intent"
)

// DefaultModel is the chat model used for analysis.
const DefaultModel = "gpt-4-1106-preview"

const maxCompletionTokens = 4000

// marineHourlyLimit bounds the marine payload sent to the model; the raw
// series can span a week of hourly entries and blow up the prompt.
const marineHourlyLimit = 24

// Formatter turns raw weather data into a structured analysis via an OpenAI
// function call forced onto the schema selected for the intent.
type Formatter struct {
	client *openai.Client
	model  string
}

// NewFormatter creates a Formatter. Empty model falls back to DefaultModel.
func NewFormatter(client *openai.Client, model string) *Formatter {
	if model == "" {
		model = DefaultModel
	}
	return &Formatter{client: client, model: model}
}

// Format asks the model to analyze weatherData and returns the parsed
// function-call arguments merged with raw_data, location, query_type and
// time_frame. Malformed model output is a terminal fault.
func (f *Formatter) Format(ctx context.Context, weatherData map[string]any, loc geocode.Location, w intent.WeatherIntent) (map[string]any, error) {
	def, err := FunctionFor(w)
	if err != nil {
		return nil, err
	}

	systemMessage := fmt.Sprintf(
		"You are a weather expert providing analysis of %s data. Focus on practical insights and clear explanations.",
		w.APIType,
	)

	payload, err := json.MarshalIndent(optimizePayload(weatherData, w), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding weather payload: %w", err)
	}
	userMessage := fmt.Sprintf("Analyze this %s data for %s:\n%s", w.APIType, loc.City, payload)

	resp, err := f.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: f.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
		Functions:    []openai.FunctionDefinition{def},
		FunctionCall: openai.FunctionCall{Name: def.Name},
		MaxTokens:    maxCompletionTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.FunctionCall == nil {
		return nil, fmt.Errorf("model returned no function call for %s", def.Name)
	}

	var result map[string]any
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.FunctionCall.Arguments), &result); err != nil {
		return nil, fmt.Errorf("parsing model analysis: %w", err)
	}

	result["raw_data"] = weatherData
	result["location"] = loc
	result["query_type"] = string(w.APIType)
	result["time_frame"] = string(w.TimeFrame)

	log.Printf("INFO: formatted %s analysis for %s", w.APIType, loc.City)
	return result, nil
}

// optimizePayload trims the data sent to the model. Marine responses keep
// only the first 24 hourly entries plus location/timezone metadata; other
// types go through unchanged.
func optimizePayload(weatherData map[string]any, w intent.WeatherIntent) map[string]any {
	if w.APIType != intent.APIMarine {
		return weatherData
	}

	optimized := make(map[string]any)
	if hourly, ok := weatherData["hourly"].(map[string]any); ok {
		trimmed := make(map[string]any, len(hourly))
		for key, series := range hourly {
			if list, ok := series.([]any); ok && len(list) > marineHourlyLimit {
				trimmed[key] = list[:marineHourlyLimit]
			} else {
				trimmed[key] = series
			}
		}
		optimized["hourly"] = trimmed
	}
	for _, key := range []string{"latitude", "longitude", "timezone", "timezone_abbreviation"} {
		if v, ok := weatherData[key]; ok {
			optimized[key] = v
		}
	}
	return optimized
}
