package moderation

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/kindwatch/wardenbot/internal/adapters/llm"
)

type classifierTestLLM struct {
	calls        int
	lastMessages []llm.ChatCompletionMessage
	response     llm.ChatCompletionResponse
	err          error
}

func (s *classifierTestLLM) ChatCompletion(_ context.Context, messages []llm.ChatCompletionMessage) (llm.ChatCompletionResponse, error) {
	s.calls++
	s.lastMessages = append([]llm.ChatCompletionMessage{}, messages...)
	return s.response, s.err
}

func assistantResponse(content string) llm.ChatCompletionResponse {
	return llm.ChatCompletionResponse{
		Choices: []llm.ChatCompletionChoice{
			{Message: llm.ChatCompletionMessage{Role: llm.RoleAssistant, Content: content}},
		},
	}
}

func newTestClassifier(stub *classifierTestLLM) *LLMClassifier {
	return NewLLMClassifier(stub, log.New().WithField("test", "classifier"))
}

func TestClassifierParsesStructuredVerdict(t *testing.T) {
	t.Parallel()

	stub := &classifierTestLLM{
		response: assistantResponse(`{"is_offensive": true, "explanation": "contains insults"}`),
	}
	verdict, err := newTestClassifier(stub).Analyze(context.Background(), "you are terrible")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !verdict.Offensive || verdict.Explanation != "contains insults" {
		t.Fatalf("unexpected verdict: %#v", verdict)
	}
	if verdict.Source != VerdictSourceParsed {
		t.Fatalf("expected parsed source, got %q", verdict.Source)
	}
	if len(stub.lastMessages) != 2 || stub.lastMessages[0].Role != llm.RoleSystem {
		t.Fatalf("unexpected prompt layout: %#v", stub.lastMessages)
	}
}

func TestClassifierParsesFencedVerdict(t *testing.T) {
	t.Parallel()

	stub := &classifierTestLLM{
		response: assistantResponse("```json\n{\"is_offensive\": false, \"explanation\": \"fine\"}\n```"),
	}
	verdict, err := newTestClassifier(stub).Analyze(context.Background(), "hello there")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if verdict.Offensive || verdict.Source != VerdictSourceParsed {
		t.Fatalf("unexpected verdict: %#v", verdict)
	}
}

func TestClassifierHeuristicOnMalformedResponse(t *testing.T) {
	t.Parallel()

	stub := &classifierTestLLM{
		response: assistantResponse("This message is clear harassment of another member."),
	}
	verdict, err := newTestClassifier(stub).Analyze(context.Background(), "some text")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !verdict.Offensive {
		t.Fatalf("heuristic should flag keyword match: %#v", verdict)
	}
	if verdict.Source != VerdictSourceHeuristic {
		t.Fatalf("expected heuristic source, got %q", verdict.Source)
	}
	if verdict.Explanation != "This message is clear harassment of another member." {
		t.Fatalf("heuristic must keep the raw response as explanation: %q", verdict.Explanation)
	}
}

func TestClassifierHeuristicOnMissingFields(t *testing.T) {
	t.Parallel()

	// parseable JSON, required field absent
	stub := &classifierTestLLM{
		response: assistantResponse(`{"explanation": "looks neutral"}`),
	}
	verdict, err := newTestClassifier(stub).Analyze(context.Background(), "some text")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if verdict.Source != VerdictSourceHeuristic {
		t.Fatalf("missing fields must fall back to heuristic, got %q", verdict.Source)
	}
	if verdict.Offensive {
		t.Fatalf("no keyword marker present, must be benign: %#v", verdict)
	}
}

func TestClassifierReturnsUnavailableOnTransportError(t *testing.T) {
	t.Parallel()

	stub := &classifierTestLLM{err: errors.New("connection refused")}
	_, err := newTestClassifier(stub).Analyze(context.Background(), "some text")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestClassifierReturnsUnavailableOnEmptyResponse(t *testing.T) {
	t.Parallel()

	stub := &classifierTestLLM{}
	_, err := newTestClassifier(stub).Analyze(context.Background(), "some text")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestClassifierSkipsEmptyText(t *testing.T) {
	t.Parallel()

	stub := &classifierTestLLM{}
	verdict, err := newTestClassifier(stub).Analyze(context.Background(), "   \n\t ")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if verdict.Offensive {
		t.Fatalf("blank text must be benign: %#v", verdict)
	}
	if stub.calls != 0 {
		t.Fatalf("blank text must not reach the LLM, got %d calls", stub.calls)
	}
}
