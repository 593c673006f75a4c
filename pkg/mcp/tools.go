package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/spreadsent/pkg/aggregate"
	"github.com/Sumatoshi-tech/spreadsent/pkg/ngram"
	"github.com/Sumatoshi-tech/spreadsent/pkg/polarity"
	"github.com/Sumatoshi-tech/spreadsent/pkg/sentiment"
)

// Tool name constants.
const (
	ToolNameScore     = "spreadsent_score"
	ToolNameNormalize = "spreadsent_normalize"
)

// Input size limits.
const (
	// MaxTextInputBytes is the maximum allowed size of a single text (64 KB).
	MaxTextInputBytes = 64 << 10
	// MaxTexts is the maximum number of texts scored in one call.
	MaxTexts = 1000
)

// Sentinel errors for tool input validation.
var (
	// ErrEmptyText indicates neither text nor texts was given.
	ErrEmptyText = errors.New("text or texts parameter is required")
	// ErrTextTooLarge indicates a text exceeds the size limit.
	ErrTextTooLarge = errors.New("text input exceeds maximum size")
	// ErrTooManyTexts indicates the texts list exceeds the count limit.
	ErrTooManyTexts = errors.New("too many texts")
	// ErrInvalidMaxN indicates max_n is outside 1..4.
	ErrInvalidMaxN = errors.New("max_n must be between 1 and 4")
)

// Analyzer is the scoring engine behind the tools.
type Analyzer interface {
	Tokens(text string) ([]string, error)
	Analyze(text string) (sentiment.Analysis, error)
}

// ScoreInput is the input schema for the spreadsent_score tool.
type ScoreInput struct {
	Text    string   `json:"text,omitempty"    jsonschema:"a single text to score"`
	Texts   []string `json:"texts,omitempty"   jsonschema:"texts of one timeline, scored in order and aggregated"`
	Explain bool     `json:"explain,omitempty" jsonschema:"include the n-grams that contributed to each score"`
}

// NormalizeInput is the input schema for the spreadsent_normalize tool.
type NormalizeInput struct {
	Text string `json:"text"            jsonschema:"text to normalize"`
	MaxN int    `json:"max_n,omitempty" jsonschema:"largest n-gram size (1-4, default 4)"`
}

// TextScore is the score of one text.
type TextScore struct {
	Unit          string                  `json:"unit"`
	Score         float64                 `json:"score"`
	Tokens        []string                `json:"tokens"`
	VaderCompound float64                 `json:"vader_compound"`
	Contributions []polarity.Contribution `json:"contributions,omitempty"`
}

// ScoreResult is the output of the spreadsent_score tool.
type ScoreResult struct {
	Scores    []TextScore `json:"scores"`
	Intensity float64     `json:"intensity"`
}

// NormalizeResult is the output of the spreadsent_normalize tool.
type NormalizeResult struct {
	Tokens []string  `json:"tokens"`
	NGrams []string  `json:"ngrams"`
	Set    ngram.Set `json:"set"`
}

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

func scoreHandler(engine Analyzer) func(context.Context, *mcpsdk.CallToolRequest, ScoreInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return func(_ context.Context, _ *mcpsdk.CallToolRequest, input ScoreInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
		texts, err := validateScoreInput(input)
		if err != nil {
			return errorResult(err)
		}

		result := ScoreResult{Scores: make([]TextScore, 0, len(texts))}
		byUnit := make(map[string]float64, len(texts))

		for i, text := range texts {
			analysis, analyzeErr := engine.Analyze(text)
			if analyzeErr != nil {
				return errorResult(fmt.Errorf("text %d: %w", i+1, analyzeErr))
			}

			unit := strconv.Itoa(i + 1)
			ts := TextScore{
				Unit:          unit,
				Score:         analysis.Score,
				Tokens:        analysis.Tokens,
				VaderCompound: analysis.Compound,
			}

			if input.Explain {
				ts.Contributions = analysis.Contributions
			}

			result.Scores = append(result.Scores, ts)
			byUnit[unit] = analysis.Score
		}

		result.Intensity = aggregate.Intensity(byUnit)

		return jsonResult(result)
	}
}

func normalizeHandler(engine Analyzer) func(context.Context, *mcpsdk.CallToolRequest, NormalizeInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return func(_ context.Context, _ *mcpsdk.CallToolRequest, input NormalizeInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
		maxN, err := validateNormalizeInput(input)
		if err != nil {
			return errorResult(err)
		}

		tokens, err := engine.Tokens(input.Text)
		if err != nil {
			return errorResult(err)
		}

		flat := ngram.Generate(tokens, maxN)

		return jsonResult(NormalizeResult{
			Tokens: tokens,
			NGrams: flat,
			Set:    ngram.Split(flat),
		})
	}
}

func validateScoreInput(input ScoreInput) ([]string, error) {
	texts := input.Texts
	if input.Text != "" {
		texts = append([]string{input.Text}, texts...)
	}

	if len(texts) == 0 {
		return nil, ErrEmptyText
	}

	if len(texts) > MaxTexts {
		return nil, fmt.Errorf("%w: %d (max %d)", ErrTooManyTexts, len(texts), MaxTexts)
	}

	for i, text := range texts {
		if len(text) > MaxTextInputBytes {
			return nil, fmt.Errorf("%w: text %d is %d bytes (max %d)", ErrTextTooLarge, i+1, len(text), MaxTextInputBytes)
		}
	}

	return texts, nil
}

func validateNormalizeInput(input NormalizeInput) (int, error) {
	if input.Text == "" {
		return 0, ErrEmptyText
	}

	if len(input.Text) > MaxTextInputBytes {
		return 0, fmt.Errorf("%w: %d bytes (max %d)", ErrTextTooLarge, len(input.Text), MaxTextInputBytes)
	}

	if input.MaxN == 0 {
		return ngram.DefaultMaxN, nil
	}

	if input.MaxN < 1 || input.MaxN > ngram.DefaultMaxN {
		return 0, fmt.Errorf("%w: %d", ErrInvalidMaxN, input.MaxN)
	}

	return input.MaxN, nil
}

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}
