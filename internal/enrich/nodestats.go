package enrich

import (
	"sort"
	"strings"
	"unicode"

	"github.com/flowdexhq/flowdex/internal/models"
)

// nodeTypeDisplayNames maps raw workflow node types to human-readable names.
// Types not listed fall back to a camel-case split of the last segment.
var nodeTypeDisplayNames = map[string]string{
	"n8n-nodes-base.openAi":          "OpenAI",
	"n8n-nodes-base.googleSheets":    "Google Sheets",
	"n8n-nodes-base.gmail":           "Gmail",
	"n8n-nodes-base.httpRequest":     "HTTP Request",
	"n8n-nodes-base.if":              "IF",
	"n8n-nodes-base.set":             "Set",
	"n8n-nodes-base.scheduleTrigger": "Schedule Trigger",
	"n8n-nodes-base.formTrigger":     "Form Trigger",
	"n8n-nodes-base.stickyNote":      "Sticky Note",
	"n8n-nodes-base.emailSend":       "Email Send",
	"n8n-nodes-base.form":            "Form",
	"n8n-nodes-base.noOp":            "No Operation",
	"n8n-nodes-base.typeformTrigger": "Typeform Trigger",
	"n8n-nodes-base.merge":           "Merge",
	"n8n-nodes-base.function":        "Code",
	"n8n-nodes-base.googleCalendar":  "Google Calendar",
	"n8n-nodes-base.mattermost":      "Mattermost",
}

// NodeDisplayName returns the human-readable name for a workflow node type.
func NodeDisplayName(nodeType string) string {
	if name, ok := nodeTypeDisplayNames[nodeType]; ok {
		return name
	}

	fallback := nodeType
	if idx := strings.LastIndex(nodeType, "."); idx >= 0 {
		fallback = nodeType[idx+1:]
	}

	// Split camelCase: "googleDrive" -> "google Drive"
	var b strings.Builder
	for _, r := range fallback {
		if unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// NodeStats summarizes the node graph of one template.
type NodeStats struct {
	TotalNodeCount       int
	UniqueNodeTypes      []string
	TotalUniqueNodeTypes int
	Breakdown            []models.NodeTypeCount
}

// AnalyzeNodes computes node statistics for a template. Nodes with a blank
// type are excluded from type counts but still contribute to the raw total.
func AnalyzeNodes(nodes []models.WorkflowNode) NodeStats {
	typeCounts := make(map[string]int)
	for _, n := range nodes {
		t := strings.TrimSpace(n.Type)
		if t == "" {
			continue
		}
		typeCounts[t]++
	}

	unique := make([]string, 0, len(typeCounts))
	for t := range typeCounts {
		unique = append(unique, t)
	}
	sort.Strings(unique)

	breakdown := make([]models.NodeTypeCount, 0, len(unique))
	for _, t := range unique {
		breakdown = append(breakdown, models.NodeTypeCount{
			NodeType: t,
			Count:    typeCounts[t],
		})
	}

	return NodeStats{
		TotalNodeCount:       len(nodes),
		UniqueNodeTypes:      unique,
		TotalUniqueNodeTypes: len(unique),
		Breakdown:            breakdown,
	}
}
