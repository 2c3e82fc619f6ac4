package llm

import _ "embed"

var (
	//go:embed prompts/analyze.txt
	promptAnalyze string
	//go:embed prompts/recommend.txt
	promptRecommend string
)

// SystemAnalyze is the system prompt for the document-analysis agent.
func SystemAnalyze() string { return promptAnalyze }

// SystemRecommend is the system prompt for the gap-recommendation agent.
func SystemRecommend() string { return promptRecommend }
