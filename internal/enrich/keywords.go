package enrich

// keywordCategory is one named category with the keywords that signal it.
// Categories are matched in declaration order so rule-based output is
// deterministic across runs.
type keywordCategory struct {
	Name     string
	Keywords []string
}

var industryKeywords = []keywordCategory{
	{"Healthcare", []string{"medical", "patient", "hospital", "health", "clinical", "dental", "pharmacy", "diagnosis", "treatment", "ehr"}},
	{"E-commerce", []string{"shopify", "woocommerce", "stripe", "order", "cart", "product", "inventory", "checkout", "store", "ebay", "amazon"}},
	{"Marketing", []string{"hubspot", "mailchimp", "campaign", "seo", "ads", "newsletter", "lead", "outreach", "brand", "content"}},
	{"Finance", []string{"stripe", "invoice", "payment", "quickbooks", "expense", "crypto", "trading", "financial", "accounting"}},
	{"Customer Support", []string{"zendesk", "support", "ticket", "helpdesk", "customer", "chat", "slack", "discord"}},
	{"HR & Recruiting", []string{"hr", "resume", "recruit", "hiring", "candidate", "interview", "employee", "onboarding"}},
	{"Sales & CRM", []string{"crm", "salesforce", "pipedrive", "hubspot", "lead", "deal", "contact", "sales"}},
	{"Content & Media", []string{"youtube", "blog", "instagram", "twitter", "linkedin", "video", "content", "social", "media"}},
	{"IT & DevOps", []string{"github", "gitlab", "jira", "slack", "docker", "deploy", "server", "api"}},
	{"Legal & Compliance", []string{"legal", "contract", "compliance", "audit", "document"}},
	{"Education", []string{"course", "learning", "student", "education", "training"}},
	{"Real Estate", []string{"estate", "property", "listing", "zillow", "realtor"}},
	{"Travel & Hospitality", []string{"travel", "booking", "hotel", "flight", "calendar", "reservation"}},
	{"General / Cross-industry", []string{"automation", "workflow", "n8n", "integration"}},
}

var processKeywords = []keywordCategory{
	{"Lead Generation", []string{"lead", "prospect", "qualification", "scoring", "outreach", "cold"}},
	{"Customer Support", []string{"ticket", "zendesk", "support", "helpdesk", "reply", "inbox"}},
	{"Marketing Automation", []string{"campaign", "newsletter", "email", "social", "post", "schedule"}},
	{"Sales Pipeline", []string{"crm", "deal", "pipeline", "sales", "contact", "hubspot"}},
	{"Data Sync & ETL", []string{"sync", "transfer", "export", "import", "sheet", "database", "csv"}},
	{"Notifications & Alerts", []string{"alert", "notification", "slack", "telegram", "email", "digest"}},
	{"Content Creation", []string{"generate", "content", "blog", "image", "video", "ai", "gpt"}},
	{"Reporting & Analytics", []string{"report", "analytics", "dashboard", "summary", "insight"}},
	{"Form & Survey Processing", []string{"form", "typeform", "survey", "submission", "jotform"}},
	{"Scheduling & Booking", []string{"calendar", "booking", "schedule", "appointment", "calendly"}},
	{"Document Processing", []string{"pdf", "document", "ocr", "extract", "parse", "invoice"}},
	{"AI & LLM Workflows", []string{"openai", "gemini", "claude", "ai", "llm", "chatbot", "rag", "agent"}},
}
