package enrich

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/flowdexhq/flowdex/internal/llm"
	"github.com/flowdexhq/flowdex/internal/models"
)

// topN is how many industries and processes the top-2 pass keeps.
const topN = 2

// TopClassifier condenses a use-case description into the two best-fit
// industries and processes. AI-first: when available it leads, and the rule
// pass fills any remaining slots.
type TopClassifier struct {
	gen    Generator
	useAI  bool
	logger *slog.Logger
}

// NewTopClassifier creates a top-2 classifier. gen may be nil when AI is
// disabled.
func NewTopClassifier(gen Generator, useAI bool, logger *slog.Logger) *TopClassifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &TopClassifier{gen: gen, useAI: useAI && gen != nil, logger: logger}
}

// TopResult is the outcome of the top-2 pass.
type TopResult struct {
	Industries []models.ClassifiedItem
	Processes  []models.ClassifiedItem
	Method     string
}

// ClassifyTop selects the top 2 industries and processes from the use-case
// description. Never returns an error: AI failures degrade to the rule pass.
func (tc *TopClassifier) ClassifyTop(ctx context.Context, description string) TopResult {
	text := strings.ToLower(description)
	ruleInd := truncateItems(matchCategories(text, industryKeywords), topN)
	ruleProc := truncateItems(matchCategories(text, processKeywords), topN)

	if tc.useAI && strings.TrimSpace(description) != "" {
		aiInd, aiProc, err := tc.classifyTopAI(ctx, description)
		if err != nil {
			if errors.Is(err, llm.ErrFatalAPI) {
				tc.useAI = false
				tc.logger.Warn("fatal AI provider error, classifying rule-based for the rest of the run", "error", err)
			} else {
				tc.logger.Warn("AI top-2 classification failed, using rule-based result", "error", err)
			}
		} else {
			mergedInd, _ := mergeItems(aiInd, ruleInd)
			mergedProc, _ := mergeItems(aiProc, ruleProc)
			industries := truncateItems(mergedInd, topN)
			processes := truncateItems(mergedProc, topN)
			// AI items lead the merged order, so anything past them in the
			// truncated lists came from the rule pass.
			method := models.MethodAI
			if len(industries) > len(aiInd) || len(processes) > len(aiProc) {
				method = models.MethodHybrid
			}
			return TopResult{
				Industries: industries,
				Processes:  processes,
				Method:     method,
			}
		}
	}

	return TopResult{
		Industries: ruleInd,
		Processes:  ruleProc,
		Method:     models.MethodRuleBased,
	}
}

// AIEnabled reports whether the AI pass is still active. It flips off for the
// remainder of the run after a fatal provider error.
func (tc *TopClassifier) AIEnabled() bool {
	return tc.useAI
}

func truncateItems(items []models.ClassifiedItem, n int) []models.ClassifiedItem {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func (tc *TopClassifier) classifyTopAI(ctx context.Context, description string) ([]models.ClassifiedItem, []models.ClassifiedItem, error) {
	var resp aiClassification
	if err := tc.gen.GenerateJSON(ctx, top2SystemPrompt, top2UserPrompt(description), &resp); err != nil {
		return nil, nil, err
	}
	return truncateItems(convertAIItems(resp.Industries), topN),
		truncateItems(convertAIItems(resp.Processes), topN), nil
}
