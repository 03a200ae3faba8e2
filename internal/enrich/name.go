package enrich

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/flowdexhq/flowdex/internal/llm"
)

// maxServiceableNameLen caps the customer-facing short name.
const maxServiceableNameLen = 25

// defaultServiceableName is used when no source text yields a single word.
const defaultServiceableName = "Workflow"

// NameInput carries the analytics fields fed to name generation.
type NameInput struct {
	UseCaseName        string
	UseCaseDescription string
	Title              string
}

// Namer generates serviceable names. The rule path always produces a valid
// name; AI output is accepted only when it fits the length budget after
// word-boundary truncation.
type Namer struct {
	gen    Generator
	useAI  bool
	logger *slog.Logger
}

// NewNamer creates a namer. gen may be nil when AI is disabled.
func NewNamer(gen Generator, useAI bool, logger *slog.Logger) *Namer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Namer{gen: gen, useAI: useAI && gen != nil, logger: logger}
}

// Name generates a serviceable name of at most 25 characters. Never returns
// an error: AI failures degrade to the rule-based name.
func (n *Namer) Name(ctx context.Context, in NameInput) string {
	if n.useAI {
		name, err := n.nameAI(ctx, in)
		if err != nil {
			if errors.Is(err, llm.ErrFatalAPI) {
				n.useAI = false
				n.logger.Warn("fatal AI provider error, naming rule-based for the rest of the run", "error", err)
			} else {
				n.logger.Warn("AI naming failed, using rule-based name",
					"title", in.Title, "error", err)
			}
		} else if name != "" {
			return name
		}
	}
	return NameRuleBased(in)
}

// AIEnabled reports whether the AI pass is still active. It flips off for the
// remainder of the run after a fatal provider error.
func (n *Namer) AIEnabled() bool {
	return n.useAI
}

// NameRuleBased derives the name from the first non-empty source text, taking
// whole words greedily until the length budget is exhausted.
func NameRuleBased(in NameInput) string {
	source := strings.TrimSpace(in.UseCaseName)
	if source == "" {
		source = strings.TrimSpace(in.UseCaseDescription)
	}
	if source == "" {
		source = strings.TrimSpace(in.Title)
	}

	name := TruncateAtWordBoundary(source, maxServiceableNameLen)
	if name == "" {
		return defaultServiceableName
	}
	return name
}

func (n *Namer) nameAI(ctx context.Context, in NameInput) (string, error) {
	resp, err := n.gen.GenerateWithSystem(ctx, nameSystemPrompt,
		nameUserPrompt(in.UseCaseName, in.UseCaseDescription, in.Title))
	if err != nil {
		return "", err
	}

	name := strings.Trim(strings.TrimSpace(resp), `"'`)
	if len(name) <= maxServiceableNameLen {
		return name, nil
	}
	// Too long: salvage by cutting at a word boundary, else discard.
	return TruncateAtWordBoundary(name, maxServiceableNameLen), nil
}

// TruncateAtWordBoundary returns the longest prefix of whole space-separated
// words whose joined length does not exceed max. Returns "" when even the
// first word does not fit.
func TruncateAtWordBoundary(s string, max int) string {
	words := strings.Fields(s)
	var b strings.Builder
	for _, w := range words {
		add := len(w)
		if b.Len() > 0 {
			add++ // separating space
		}
		if b.Len()+add > max {
			break
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(w)
	}
	return b.String()
}
