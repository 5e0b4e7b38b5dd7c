package integrations

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pratik-mahalle/nutriscan/internal/domain/analysis"
	"github.com/pratik-mahalle/nutriscan/internal/domain/product"
)

// Narrator turns an analysis into a short plain-language explanation
type Narrator interface {
	Narrate(ctx context.Context, p product.Product, a analysis.Result, conditions, goals []string) (string, error)
}

// chatCompleter is the part of the OpenAI client we use
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAINarrator asks an OpenAI chat model for the explanation
type OpenAINarrator struct {
	client  chatCompleter
	model   string
	timeout time.Duration
}

// NewOpenAINarrator creates a narrator. It returns nil when apiKey is empty.
func NewOpenAINarrator(apiKey, model string) *OpenAINarrator {
	if apiKey == "" {
		return nil
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAINarrator{
		client:  openai.NewClient(apiKey),
		model:   model,
		timeout: 8 * time.Second,
	}
}

// Narrate returns a few sentences about the product for this profile
func (n *OpenAINarrator) Narrate(ctx context.Context, p product.Product, a analysis.Result, conditions, goals []string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	resp, err := n.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: n.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a nutrition assistant. Explain food label assessments in at most three short sentences. Do not give medical diagnoses.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(p, a, conditions, goals),
			},
		},
		MaxTokens:   200,
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// BuildPrompt renders the facts the model is allowed to use
func BuildPrompt(p product.Product, a analysis.Result, conditions, goals []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Product: %s (%s)\n", p.Name, p.Brand)
	n := p.Nutrition
	fmt.Fprintf(&b, "Per 100 g: %.0f kcal, protein %.1f g, carbs %.1f g, fat %.1f g, fiber %.1f g, sugar %.1f g, sodium %.0f mg\n",
		n.Calories, n.Protein, n.Carbs, n.Fat, n.Fiber, n.Sugar, n.Sodium)
	if len(p.Allergens) > 0 {
		fmt.Fprintf(&b, "Allergens: %s\n", strings.Join(p.Allergens, ", "))
	}
	if len(conditions) > 0 {
		fmt.Fprintf(&b, "User conditions: %s\n", strings.Join(conditions, ", "))
	}
	if len(goals) > 0 {
		fmt.Fprintf(&b, "User goals: %s\n", strings.Join(goals, ", "))
	}
	fmt.Fprintf(&b, "Score: %d/100 (%s)\n", a.Score, a.Level)
	for _, w := range a.Warnings {
		fmt.Fprintf(&b, "Warning: %s\n", w)
	}
	for _, r := range a.Recommendations {
		fmt.Fprintf(&b, "Recommendation: %s\n", r)
	}
	return b.String()
}
