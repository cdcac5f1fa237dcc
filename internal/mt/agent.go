package mt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/JaimeStill/go-agents/pkg/agent"

	"github.com/JaimeStill/scribe/pkg/formatting"
)

// ChatFunc sends a prompt to a language model and returns the reply text.
type ChatFunc func(ctx context.Context, prompt string) (string, error)

// chatProvider translates a batch with a single chat prompt. The lines go
// out as a JSON array and the reply must hold a JSON array of the same
// length, optionally wrapped in prose or a code fence.
type chatProvider struct {
	chat ChatFunc
}

// NewChatProvider returns a Provider that prompts chat for each batch.
func NewChatProvider(chat ChatFunc) Provider {
	return &chatProvider{chat: chat}
}

func newAgent(cfg Config) (Provider, error) {
	agentCfg := cfg.AgentConfig()
	a, err := agent.New(&agentCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: create agent: %w", ErrInvalidConfig, err)
	}

	return NewChatProvider(func(ctx context.Context, prompt string) (string, error) {
		resp, err := a.Chat(ctx, prompt)
		if err != nil {
			return "", err
		}
		return resp.Content(), nil
	}), nil
}

func (p *chatProvider) Name() string { return ProviderAgent }

func (p *chatProvider) Translate(ctx context.Context, req Request) ([]string, error) {
	prompt, err := composePrompt(req)
	if err != nil {
		return nil, err
	}

	content, err := p.chat(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("chat call: %w", err)
	}

	lines, err := formatting.Parse[[]string](content)
	if err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return lines, nil
}

func (p *chatProvider) Close() error { return nil }

func composePrompt(req Request) (string, error) {
	texts := make([]string, len(req.Lines))
	for i, l := range req.Lines {
		texts[i] = l.Text
	}
	input, err := json.Marshal(texts)
	if err != nil {
		return "", fmt.Errorf("encode lines: %w", err)
	}

	var sb strings.Builder

	source := req.SourceLang
	if source == "" {
		source = "the detected language"
	}
	fmt.Fprintf(&sb, "You are a professional translator. Translate each string of the JSON array below from %s to %s.\n", source, req.TargetLang)
	sb.WriteString("Reply with only a JSON array of strings with exactly the same number of elements, in the same order. ")
	sb.WriteString("Preserve numbers, placeholders, punctuation and leading or trailing whitespace.\n")

	if terms := terminology(req.Lines); len(terms) > 0 {
		sb.WriteString("\nTERMINOLOGY (use these exact translations):\n")
		for _, h := range terms {
			fmt.Fprintf(&sb, "  %s → %s\n", h.Source, h.Target)
		}
	}

	sb.WriteString("\nINPUT:\n")
	sb.Write(input)

	return sb.String(), nil
}

// terminology collects the distinct hints of a batch in first-seen order.
func terminology(lines []Line) []Hint {
	seen := make(map[string]bool)
	var terms []Hint
	for _, l := range lines {
		for _, h := range l.Hints {
			if !seen[h.Source] {
				seen[h.Source] = true
				terms = append(terms, h)
			}
		}
	}
	return terms
}
