package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/niveshquant/quantfolio/pkg/config"
	"github.com/niveshquant/quantfolio/pkg/logger"
)

// Request/response shapes for Anthropic models on Bedrock.
type claudeRequest struct {
	AnthropicVersion string          `json:"anthropic_version"`
	MaxTokens        int             `json:"max_tokens"`
	System           string          `json:"system,omitempty"`
	Messages         []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

const scorerSystemPrompt = "You are an equity analyst covering Indian listed companies. " +
	"Rate the qualitative standing of the company you are given: management track record, " +
	"governance history, brand strength and durability of its moat. " +
	"Answer with a single number between 0 and 100 and nothing else."

// BedrockScorer asks an Anthropic model on AWS Bedrock for a 0-100
// qualitative score. Calls are rate limited, bounded by a per-call
// timeout and run through a circuit breaker so a degraded endpoint
// sheds load instead of stalling the weekly run.
type BedrockScorer struct {
	client  *bedrockruntime.Client
	model   string
	timeout time.Duration
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[float64]
	logger  *logger.Logger
}

// NewBedrockScorer builds the scorer from the enrichment config.
// Credentials come from the default AWS chain.
func NewBedrockScorer(ctx context.Context, cfg config.EnrichmentConfig, log *logger.Logger) (*BedrockScorer, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 30
	}

	settings := gobreaker.Settings{
		Name:    "bedrock",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Trip once at least 5 calls have failed more often than not
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.WithFields(map[string]interface{}{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state change")
		},
	}

	return &BedrockScorer{
		client:  bedrockruntime.NewFromConfig(awsCfg),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		limiter: rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1),
		breaker: gobreaker.NewCircuitBreaker[float64](settings),
		logger:  log,
	}, nil
}

// Score implements contracts.QualitativeScorer.
func (s *BedrockScorer) Score(ctx context.Context, name, industry string) (float64, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	return s.breaker.Execute(func() (float64, error) {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		return s.invoke(callCtx, name, industry)
	})
}

func (s *BedrockScorer) invoke(ctx context.Context, name, industry string) (float64, error) {
	request := claudeRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        16,
		System:           scorerSystemPrompt,
		Messages: []claudeMessage{
			{Role: "user", Content: fmt.Sprintf("Company: %s\nIndustry: %s", name, industry)},
		},
	}

	body, err := json.Marshal(request)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	output, err := s.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(s.model),
		Body:        body,
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to invoke model: %w", err)
	}

	var response claudeResponse
	if err := json.Unmarshal(output.Body, &response); err != nil {
		return 0, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(response.Content) == 0 {
		return 0, fmt.Errorf("empty response from model")
	}

	return parseScore(response.Content[0].Text)
}

// parseScore reads the leading number out of the model's reply and
// clamps it to [0, 100]. Models occasionally append punctuation or a
// unit despite the prompt.
func parseScore(text string) (float64, error) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 {
		return 0, fmt.Errorf("blank score reply")
	}

	raw := strings.TrimRight(fields[0], ".,%")
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable score %q", fields[0])
	}

	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}
	return value, nil
}
