// Package openai implementa el port classifier contra la API de chat de
// OpenAI. Un perro se manda serializado dentro del prompt y el modelo
// responde clasificación + explicación en dos líneas.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"dog-registry/internal/ports/classifier"
)

const (
	defaultModel   = "gpt-3.5-turbo"
	requestTimeout = 30 * time.Second
)

const promptTemplate = "Analyze this dog data for petting safety. You MUST respond with exactly one of these four words: " +
	"YES (clearly safe/friendly), NO (clearly dangerous/aggressive), CAUTIOUSLY (requires caution), ERROR (invalid data).\n\n" +
	"Rules:\n" +
	"- If dog shows obvious signs of friendliness, therapy work, gentle temperament = YES\n" +
	"- If dog shows obvious signs of aggression, biting history, dangerous behavior = NO\n" +
	"- If uncertain or mixed signals = CAUTIOUSLY\n" +
	"- If nonsensical breed/age/weight = ERROR\n\n" +
	"Respond with the word only, then new line, then brief explanation.\n\n" +
	"Dog data:%s"

// Config del cliente. APIKey vacía => cliente sin configurar: Predict
// degrada a Error sin tocar la red.
type Config struct {
	APIKey string
	Model  string
}

type Client struct {
	api   *goopenai.Client
	model string

	// cache por payload serializado: perfiles idénticos no repiten el
	// request.
	mu    sync.Mutex
	cache map[string]classifier.SafetyPrediction
}

func NewClient(cfg Config) *Client {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	c := &Client{
		model: model,
		cache: map[string]classifier.SafetyPrediction{},
	}
	if cfg.APIKey != "" {
		c.api = goopenai.NewClient(cfg.APIKey)
	}
	return c
}

var _ classifier.Predictor = (*Client)(nil)

func (c *Client) IsConfigured() bool {
	return c != nil && c.api != nil
}

func (c *Client) Predict(ctx context.Context, p classifier.DogProfile) classifier.SafetyPrediction {
	if !c.IsConfigured() {
		return classifier.SafetyPrediction{
			IsSafeToPet:       classifier.SafetyError,
			SafetyExplanation: "Classifier not configured",
		}
	}

	payload, err := json.Marshal(p)
	if err != nil {
		return classifier.SafetyPrediction{
			IsSafeToPet:       classifier.SafetyError,
			SafetyExplanation: "Technical error occurred: " + err.Error(),
		}
	}
	key := string(payload)

	c.mu.Lock()
	if cached, ok := c.cache[key]; ok {
		c.mu.Unlock()
		return cached
	}
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: fmt.Sprintf(promptTemplate, key)},
		},
		Temperature: 0.1,
		MaxTokens:   210,
	})
	if err != nil {
		var apiErr *goopenai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			// Rate limit: respuesta conservadora, no cacheable.
			return classifier.SafetyPrediction{
				IsSafeToPet:       classifier.SafetyCautiously,
				SafetyExplanation: "Rate limit exceeded. Please wait before making more requests. Prediction based on breed: " + p.Breed,
			}
		}
		return classifier.SafetyPrediction{
			IsSafeToPet:       classifier.SafetyError,
			SafetyExplanation: "Technical error occurred: " + err.Error(),
		}
	}

	if len(resp.Choices) == 0 {
		return classifier.SafetyPrediction{
			IsSafeToPet:       classifier.SafetyError,
			SafetyExplanation: "API call failed - no response received",
		}
	}

	result := classifier.ParseResponse(resp.Choices[0].Message.Content)

	c.mu.Lock()
	c.cache[key] = result
	c.mu.Unlock()

	return result
}
