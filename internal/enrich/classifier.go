package enrich

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/flowdexhq/flowdex/internal/llm"
	"github.com/flowdexhq/flowdex/internal/models"
)

// maxRuleConfidence caps every rule-derived confidence value.
const maxRuleConfidence = 0.95

// lowConfidenceThreshold below which the AI pass is consulted even when the
// rule pass produced matches.
const lowConfidenceThreshold = 0.5

// noMatchConfidence is recorded when the rule pass finds nothing and AI is
// unavailable.
const noMatchConfidence = 0.4

// ClassifyInput carries the template text fed to classification.
type ClassifyInput struct {
	Title       string
	Description string
	Category    string
	Tags        []string
}

func (in ClassifyInput) searchText() string {
	parts := []string{in.Title, in.Description, in.Category, strings.Join(in.Tags, " ")}
	return strings.ToLower(strings.Join(parts, " "))
}

// Classification is the outcome of the industry/process pass for one template.
type Classification struct {
	Industries []models.ClassifiedItem
	Processes  []models.ClassifiedItem
	Method     string
	Confidence float64
}

// Classifier assigns applicable industries and business processes. The rule
// pass always runs; the AI pass runs only when enabled and the rule result is
// missing a dimension or weakly confident.
type Classifier struct {
	gen    Generator
	useAI  bool
	logger *slog.Logger
}

// NewClassifier creates a classifier. gen may be nil when AI is disabled.
func NewClassifier(gen Generator, useAI bool, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{gen: gen, useAI: useAI && gen != nil, logger: logger}
}

// AIEnabled reports whether the AI pass is still active. It flips off for the
// remainder of the run after a fatal provider error.
func (c *Classifier) AIEnabled() bool {
	return c.useAI
}

// matchCategories runs substring keyword matching against the search text.
// Confidence grows with match count, capped at 0.95.
func matchCategories(text string, categories []keywordCategory) []models.ClassifiedItem {
	var items []models.ClassifiedItem
	for _, cat := range categories {
		var matched []string
		for _, kw := range cat.Keywords {
			if strings.Contains(text, kw) {
				matched = append(matched, kw)
			}
		}
		if len(matched) == 0 {
			continue
		}
		confidence := math.Min(maxRuleConfidence, 0.5+0.1*float64(len(matched)))
		items = append(items, models.ClassifiedItem{
			Name:       cat.Name,
			Confidence: confidence,
			Keywords:   matched,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Confidence > items[j].Confidence
	})
	return items
}

// meanConfidence averages item confidences across both lists, capped at 0.95.
// Returns 0 when both lists are empty.
func meanConfidence(industries, processes []models.ClassifiedItem) float64 {
	total := 0.0
	n := 0
	for _, it := range industries {
		total += it.Confidence
		n++
	}
	for _, it := range processes {
		total += it.Confidence
		n++
	}
	if n == 0 {
		return 0
	}
	return math.Min(maxRuleConfidence, total/float64(n))
}

// Classify runs the rule pass and, when warranted, the AI pass, and merges
// the two. It never returns an error: AI failures degrade to the rule result.
func (c *Classifier) Classify(ctx context.Context, in ClassifyInput) Classification {
	text := in.searchText()
	ruleIndustries := matchCategories(text, industryKeywords)
	ruleProcesses := matchCategories(text, processKeywords)
	ruleConfidence := meanConfidence(ruleIndustries, ruleProcesses)

	needAI := c.useAI &&
		(len(ruleIndustries) == 0 || len(ruleProcesses) == 0 || ruleConfidence < lowConfidenceThreshold)

	if needAI {
		aiIndustries, aiProcesses, err := c.classifyAI(ctx, in)
		if err != nil {
			if errors.Is(err, llm.ErrFatalAPI) {
				c.useAI = false
				c.logger.Warn("fatal AI provider error, classifying rule-based for the rest of the run", "error", err)
			} else {
				c.logger.Warn("AI classification failed, using rule-based result",
					"title", in.Title, "error", err)
			}
		} else {
			return mergeClassifications(ruleIndustries, ruleProcesses, ruleConfidence, aiIndustries, aiProcesses)
		}
	}

	confidence := ruleConfidence
	if len(ruleIndustries) == 0 && len(ruleProcesses) == 0 {
		confidence = noMatchConfidence
	}
	return Classification{
		Industries: ruleIndustries,
		Processes:  ruleProcesses,
		Method:     models.MethodRuleBased,
		Confidence: confidence,
	}
}

// mergeClassifications combines AI and rule-based results. AI items take
// precedence; rule-based items fill in categories the AI missed. The method
// records which sources actually contributed.
func mergeClassifications(ruleInd, ruleProc []models.ClassifiedItem, ruleConfidence float64, aiInd, aiProc []models.ClassifiedItem) Classification {
	mergedInd, indFromRule := mergeItems(aiInd, ruleInd)
	mergedProc, procFromRule := mergeItems(aiProc, ruleProc)

	aiConfidence := meanConfidence(aiInd, aiProc)

	method := models.MethodAI
	if indFromRule || procFromRule {
		method = models.MethodHybrid
	}

	return Classification{
		Industries: mergedInd,
		Processes:  mergedProc,
		Method:     method,
		Confidence: math.Max(ruleConfidence, aiConfidence),
	}
}

// mergeItems appends rule items whose name the AI did not already produce.
// Reports whether any rule item survived the merge.
func mergeItems(ai, rule []models.ClassifiedItem) ([]models.ClassifiedItem, bool) {
	merged := make([]models.ClassifiedItem, 0, len(ai)+len(rule))
	seen := make(map[string]bool, len(ai))
	for _, it := range ai {
		merged = append(merged, it)
		seen[strings.ToLower(it.Name)] = true
	}
	fromRule := false
	for _, it := range rule {
		if seen[strings.ToLower(it.Name)] {
			continue
		}
		merged = append(merged, it)
		fromRule = true
	}
	return merged, fromRule
}

// aiClassification is the JSON shape requested from the model.
type aiClassification struct {
	Industries []aiClassifiedItem `json:"industries"`
	Processes  []aiClassifiedItem `json:"processes"`
}

type aiClassifiedItem struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

func (c *Classifier) classifyAI(ctx context.Context, in ClassifyInput) ([]models.ClassifiedItem, []models.ClassifiedItem, error) {
	var resp aiClassification
	if err := c.gen.GenerateJSON(ctx, classifySystemPrompt, classifyUserPrompt(in), &resp); err != nil {
		return nil, nil, err
	}
	return convertAIItems(resp.Industries), convertAIItems(resp.Processes), nil
}

func convertAIItems(items []aiClassifiedItem) []models.ClassifiedItem {
	out := make([]models.ClassifiedItem, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it.Name) == "" {
			continue
		}
		conf := it.Confidence
		if conf < 0 {
			conf = 0
		}
		if conf > maxRuleConfidence {
			conf = maxRuleConfidence
		}
		out = append(out, models.ClassifiedItem{
			Name:       it.Name,
			Confidence: conf,
			Reasoning:  it.Reasoning,
		})
	}
	return out
}
