package enrich

import (
	"fmt"
	"strings"
)

// Prompt templates for the AI passes. Each pass constrains the model to the
// same category vocabulary the rule pass uses so results stay comparable.

const classifySystemPrompt = `You are a workflow automation analyst. Classify the given workflow template into applicable industries and business processes.

Respond with JSON only, in this exact shape:
{"industries": [{"name": "...", "confidence": 0.0, "reasoning": "..."}], "processes": [{"name": "...", "confidence": 0.0, "reasoning": "..."}]}

Guidelines:
- Pick only industries and processes that genuinely apply
- confidence is between 0 and 1
- reasoning is one short sentence
- Prefer these industry names where they fit: ` + "Healthcare, E-commerce, Marketing, Finance, Customer Support, HR & Recruiting, Sales & CRM, Content & Media, IT & DevOps, Legal & Compliance, Education, Real Estate, Travel & Hospitality, General / Cross-industry" + `
- Prefer these process names where they fit: ` + "Lead Generation, Customer Support, Marketing Automation, Sales Pipeline, Data Sync & ETL, Notifications & Alerts, Content Creation, Reporting & Analytics, Form & Survey Processing, Scheduling & Booking, Document Processing, AI & LLM Workflows"

func classifyUserPrompt(in ClassifyInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", in.Title)
	if in.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", in.Description)
	}
	if in.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", in.Category)
	}
	if len(in.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(in.Tags, ", "))
	}
	b.WriteString("\nClassification:")
	return b.String()
}

const top2SystemPrompt = `You are a workflow automation analyst. From the given use-case description, select the TOP 2 industries and TOP 2 business processes this workflow serves best.

Respond with JSON only, in this exact shape:
{"industries": [{"name": "...", "confidence": 0.0, "reasoning": "..."}], "processes": [{"name": "...", "confidence": 0.0, "reasoning": "..."}]}

Guidelines:
- At most 2 entries per list, ordered best-fit first
- confidence is between 0 and 1
- reasoning is one short sentence`

func top2UserPrompt(description string) string {
	return fmt.Sprintf("Use-case description: %s\n\nTop 2 selection:", description)
}

const describeSystemPrompt = `You are a technical copywriter for a workflow template catalog. Write a concise use-case description for the given workflow.

Guidelines:
- 2 to 3 sentences, plain prose, no markdown
- Lead with what the workflow accomplishes for the user
- Mention the key integrations by name
- Do not repeat the title verbatim`

func describeUserPrompt(in DescribeInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", in.Title)
	if in.Description != "" {
		fmt.Fprintf(&b, "Raw description: %s\n", in.Description)
	}
	if in.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", in.Category)
	}
	if len(in.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(in.Tags, ", "))
	}
	if len(in.NodeTypes) > 0 {
		names := make([]string, 0, len(in.NodeTypes))
		for _, t := range in.NodeTypes {
			names = append(names, NodeDisplayName(t))
		}
		fmt.Fprintf(&b, "Key integrations: %s\n", strings.Join(names, ", "))
	}
	b.WriteString("\nUse-case description:")
	return b.String()
}

const nameSystemPrompt = `You are naming workflow templates for a service catalog. Produce a short, customer-facing name for the given workflow.

Guidelines:
- Maximum 25 characters
- Plain words, no quotes, no trailing punctuation
- Capture the core outcome, not the tooling
- Respond with the name only`

func nameUserPrompt(useCaseName, useCaseDescription, title string) string {
	var b strings.Builder
	if useCaseName != "" {
		fmt.Fprintf(&b, "Use-case name: %s\n", useCaseName)
	}
	if useCaseDescription != "" {
		fmt.Fprintf(&b, "Use-case description: %s\n", useCaseDescription)
	}
	fmt.Fprintf(&b, "Title: %s\n", title)
	b.WriteString("\nShort name:")
	return b.String()
}
