package moderation

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/kindwatch/wardenbot/internal/adapters"
	"github.com/kindwatch/wardenbot/internal/adapters/llm"
)

// ErrUnavailable marks a classification attempt that never produced a
// response. Callers fail open on it.
var ErrUnavailable = errors.New("classifier unavailable")

type VerdictSource string

const (
	VerdictSourceParsed    VerdictSource = "parsed"
	VerdictSourceHeuristic VerdictSource = "heuristic"
)

type Verdict struct {
	Offensive   bool
	Explanation string
	Source      VerdictSource
}

type Classifier interface {
	Analyze(ctx context.Context, text string) (Verdict, error)
}

const systemPrompt = `Your job is to analyze chat messages and detect offensive content or bullying.
You must respond with JSON of the following structure:
{
    "is_offensive": true/false,
    "explanation": "why the message is or is not offensive"
}

A message counts as offensive if it contains:
- profanity
- abusive language
- threats
- harassment
- mockery
- calls to exclude someone
- attacks on feelings`

// heuristicMarkers are scanned in a raw response when it does not parse as
// the expected verdict structure.
var heuristicMarkers = []string{
	"offensive",
	"bullying",
	"harassment",
	"abusive",
	"threat",
}

type LLMClassifier struct {
	llm    adapters.LLM
	logger *log.Entry
}

func NewLLMClassifier(model adapters.LLM, logger *log.Entry) *LLMClassifier {
	return &LLMClassifier{
		llm:    model,
		logger: logger,
	}
}

func (c *LLMClassifier) Analyze(ctx context.Context, text string) (Verdict, error) {
	if strings.TrimSpace(text) == "" {
		return Verdict{Source: VerdictSourceParsed}, nil
	}

	resp, err := c.llm.ChatCompletion(ctx, []llm.ChatCompletionMessage{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: text},
	})
	if err != nil {
		return Verdict{}, errors.WithMessage(ErrUnavailable, err.Error())
	}
	if len(resp.Choices) == 0 {
		return Verdict{}, errors.WithMessage(ErrUnavailable, "empty response")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if verdict, ok := parseVerdict(content); ok {
		return verdict, nil
	}

	c.logger.WithField("response", content).Warn("unparseable verdict, falling back to heuristic")
	return heuristicVerdict(content), nil
}

func parseVerdict(content string) (Verdict, bool) {
	var raw struct {
		IsOffensive *bool   `json:"is_offensive"`
		Explanation *string `json:"explanation"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &raw); err != nil {
		return Verdict{}, false
	}
	if raw.IsOffensive == nil || raw.Explanation == nil {
		return Verdict{}, false
	}
	return Verdict{
		Offensive:   *raw.IsOffensive,
		Explanation: *raw.Explanation,
		Source:      VerdictSourceParsed,
	}, true
}

func heuristicVerdict(content string) Verdict {
	lowered := strings.ToLower(content)
	for _, marker := range heuristicMarkers {
		if strings.Contains(lowered, marker) {
			return Verdict{
				Offensive:   true,
				Explanation: content,
				Source:      VerdictSourceHeuristic,
			}
		}
	}
	return Verdict{Explanation: content, Source: VerdictSourceHeuristic}
}

func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
