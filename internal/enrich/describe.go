package enrich

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/flowdexhq/flowdex/internal/llm"
)

// maxDescriptionLen caps generated use-case descriptions.
const maxDescriptionLen = 500

// DescribeInput carries the template data fed to description generation.
type DescribeInput struct {
	Title       string
	Description string
	Category    string
	Tags        []string
	NodeTypes   []string
}

// Describer generates use-case descriptions. The rule template always
// produces something; the AI path replaces it when enabled and successful.
type Describer struct {
	gen    Generator
	useAI  bool
	logger *slog.Logger
}

// NewDescriber creates a describer. gen may be nil when AI is disabled.
func NewDescriber(gen Generator, useAI bool, logger *slog.Logger) *Describer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Describer{gen: gen, useAI: useAI && gen != nil, logger: logger}
}

// Describe generates the use-case description. Never returns an error: AI
// failures degrade to the rule-based template.
func (d *Describer) Describe(ctx context.Context, in DescribeInput) string {
	if d.useAI {
		desc, err := d.describeAI(ctx, in)
		if err != nil {
			if errors.Is(err, llm.ErrFatalAPI) {
				d.useAI = false
				d.logger.Warn("fatal AI provider error, describing rule-based for the rest of the run", "error", err)
			} else {
				d.logger.Warn("AI description failed, using rule-based template",
					"title", in.Title, "error", err)
			}
		} else if desc != "" {
			return desc
		}
	}
	return DescribeRuleBased(in)
}

// AIEnabled reports whether the AI pass is still active. It flips off for the
// remainder of the run after a fatal provider error.
func (d *Describer) AIEnabled() bool {
	return d.useAI
}

// DescribeRuleBased assembles a description from the template's own metadata.
func DescribeRuleBased(in DescribeInput) string {
	firstSentence := extractFirstSentence(in.Description, 200)
	keyNodes := extractKeyNodes(in.NodeTypes, 5)

	nodePhrase := ""
	if len(keyNodes) > 0 {
		nodePhrase = " using " + strings.Join(keyNodes, ", ")
	}
	tagPhrase := ""
	if len(in.Tags) > 0 {
		tags := in.Tags
		if len(tags) > 5 {
			tags = tags[:5]
		}
		tagPhrase = " (tags: " + strings.Join(tags, ", ") + ")"
	}
	categoryPhrase := ""
	if in.Category != "" {
		categoryPhrase = " Category: " + in.Category + "."
	}

	if firstSentence != "" {
		return truncate(firstSentence+categoryPhrase+" This workflow"+nodePhrase+" supports use cases"+tagPhrase+".", maxDescriptionLen)
	}
	return truncate(fmt.Sprintf("This workflow automates %q%s.%s%s", in.Title, nodePhrase, categoryPhrase, tagPhrase), maxDescriptionLen)
}

func (d *Describer) describeAI(ctx context.Context, in DescribeInput) (string, error) {
	resp, err := d.gen.GenerateWithSystem(ctx, describeSystemPrompt, describeUserPrompt(in))
	if err != nil {
		return "", err
	}
	return truncate(strings.TrimSpace(resp), maxDescriptionLen), nil
}

// extractFirstSentence takes text up to and including the first period, or
// the first maxLen characters when no period exists.
func extractFirstSentence(text string, maxLen int) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}
	first := trimmed
	if dot := strings.Index(trimmed, "."); dot >= 0 {
		first = trimmed[:dot+1]
	}
	return strings.TrimSpace(truncate(first, maxLen))
}

// extractKeyNodes maps the first few substantive node types to display names,
// skipping annotation-only nodes, deduplicated in order.
func extractKeyNodes(nodeTypes []string, limit int) []string {
	skip := map[string]bool{
		"n8n-nodes-base.stickyNote": true,
		"n8n-nodes-base.noOp":       true,
	}

	var names []string
	seen := make(map[string]bool)
	taken := 0
	for _, t := range nodeTypes {
		if skip[t] {
			continue
		}
		if taken >= limit {
			break
		}
		taken++
		name := NodeDisplayName(t)
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
