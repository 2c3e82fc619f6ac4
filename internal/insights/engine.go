package insights

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/ValeriiSysoiev/AI-Enable-Cyber-Maturity-Assessment-2-sub003/internal/llm"
	"github.com/ValeriiSysoiev/AI-Enable-Cyber-Maturity-Assessment-2-sub003/internal/shared/telemetry"
)

// Agent labels recorded on run logs, one per extraction step.
const (
	AgentDocAnalyzer    = "DocAnalyzer"
	AgentGapRecommender = "GapRecommender"
)

const (
	maxTitleChars      = 200
	truncatedChars     = 197
	ellipsisMarker     = "..."
	minRecTitleChars   = 5
	inputPreviewChars  = 200
	outputPreviewLines = 8
	outputPreviewChars = 500
)

// Engine transforms generated text into typed Finding/Recommendation records
// plus an audit RunLog. Parsing is deterministic and pure; the only I/O is
// the Generate call on the injected client.
type Engine struct {
	LLM llm.Client
}

// Analyze generates an analysis of the given content and extracts findings.
// Errors from the underlying Generate call propagate untouched; malformed
// lines in the generated text are dropped, never surfaced as errors.
func (e *Engine) Analyze(ctx context.Context, assessmentID, content string) ([]Finding, RunLog, error) {
	text, err := e.LLM.Generate(ctx, llm.SystemAnalyze(), content)
	if err != nil {
		return nil, RunLog{}, err
	}
	findings := parseFindings(assessmentID, text)
	return findings, buildRunLog(assessmentID, AgentDocAnalyzer, content, text), nil
}

// Recommend generates remediation recommendations for the given findings text.
func (e *Engine) Recommend(ctx context.Context, assessmentID, findingsPrompt string) ([]Recommendation, RunLog, error) {
	text, err := e.LLM.Generate(ctx, llm.SystemRecommend(), findingsPrompt)
	if err != nil {
		return nil, RunLog{}, err
	}
	recs := parseRecommendations(assessmentID, text)
	return recs, buildRunLog(assessmentID, AgentGapRecommender, findingsPrompt, text), nil
}

// Finding line grammar: optional bullet marker, severity token with optional
// brackets, optional separator, optional "Area:" prefix, then the title.
var findingLineRe = regexp.MustCompile(
	`(?i)^\s*(?:[-*•]\s*)?\[?(informational|info|low|medium|high|critical)\b\]?\s*[:\-]?\s*(?:([^:]+):\s*)?(.*)$`)

var severityKeywords = []string{"informational", "info", "low", "medium", "high", "critical"}

func parseFindings(assessmentID, text string) []Finding {
	var out []Finding
	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}
		m := findingLineRe.FindStringSubmatch(line)
		if m == nil {
			noteNearMiss(assessmentID, line)
			continue
		}
		title := stripQuotes(m[3])
		if title == "" {
			noteNearMiss(assessmentID, line)
			continue
		}
		out = append(out, Finding{
			AssessmentID: assessmentID,
			Title:        title,
			Severity:     normalizeSeverity(m[1]),
			Area:         stripQuotes(m[2]),
		})
	}
	return out
}

// noteNearMiss records a diagnostic for dropped lines that textually contain
// a severity keyword, to surface near-miss parses during debugging. It never
// emits data.
func noteNearMiss(assessmentID, line string) {
	lower := strings.ToLower(line)
	for _, kw := range severityKeywords {
		if strings.Contains(lower, kw) {
			telemetry.Warn("finding.parse.near_miss", map[string]any{
				"assessment_id": assessmentID,
				"line":          line,
			})
			return
		}
	}
}

func normalizeSeverity(raw string) string {
	sev := strings.ToLower(strings.TrimSpace(raw))
	if sev == "informational" {
		return "info"
	}
	return sev
}

// Recommendation line grammar: optional ordinal (N. or N)) or bullet marker,
// free-text title, optional trailing parenthesized metadata block.
var recLineRe = regexp.MustCompile(
	`^\s*(?:\d+\s*[.)]\s*|[-*•]\s*)?(.*?)\s*(?:\(([^()]*)\))?\s*$`)

var leadingMarkerRe = regexp.MustCompile(`^\s*(?:\d+\s*[.)]\s*|[-*•]\s*)+`)

var digitsOnlyRe = regexp.MustCompile(`^\d+$`)

var leadingIntRe = regexp.MustCompile(`^(\d+)(?:\s*w(?:eeks?)?)?\.?$`)

func parseRecommendations(assessmentID, text string) []Recommendation {
	var out []Recommendation
	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}
		m := recLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		title := strings.TrimSpace(m[1])
		if len([]rune(title)) < minRecTitleChars || digitsOnlyRe.MatchString(title) {
			continue
		}

		priority, effort, weeks := parseRecMetadata(m[2])

		title = leadingMarkerRe.ReplaceAllString(title, "")
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		if runes := []rune(title); len(runes) > maxTitleChars {
			title = string(runes[:truncatedChars]) + ellipsisMarker
		}

		out = append(out, Recommendation{
			AssessmentID:  assessmentID,
			Title:         title,
			Priority:      priority,
			Effort:        effort,
			TimelineWeeks: weeks,
		})
	}
	return out
}

var metaTokenSplitRe = regexp.MustCompile(`[,;\s]+`)

// parseRecMetadata scans a metadata block for priority, effort and timeline.
// Priority is decided by substring precedence p1 > p3 > p2. Effort is decided
// by the last matching token; timeline by the first token with a leading
// integer. The asymmetry is intentional and must not be normalized.
func parseRecMetadata(meta string) (priority, effort string, weeks *int) {
	priority = "P2"
	effort = "M"

	meta = strings.TrimSpace(meta)
	if meta == "" {
		return priority, effort, nil
	}

	lower := strings.ToLower(meta)
	switch {
	case strings.Contains(lower, "p1"):
		priority = "P1"
	case strings.Contains(lower, "p3"):
		priority = "P3"
	case strings.Contains(lower, "p2"):
		priority = "P2"
	}

	tokens := metaTokenSplitRe.Split(lower, -1)

	for _, tok := range tokens {
		switch tok {
		case "s", "small":
			effort = "S"
		case "m", "medium":
			effort = "M"
		case "l", "large":
			effort = "L"
		}
	}

	for _, tok := range tokens {
		if m := leadingIntRe.FindStringSubmatch(tok); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n >= 0 {
				weeks = &n
				break
			}
		}
	}

	return priority, effort, weeks
}

// stripQuotes trims whitespace and surrounding single/double quote characters.
func stripQuotes(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}

func buildRunLog(assessmentID, agent, input, output string) RunLog {
	return RunLog{
		AssessmentID:  assessmentID,
		Agent:         agent,
		InputPreview:  previewChars(input, inputPreviewChars),
		OutputPreview: previewOutput(output),
	}
}

func previewChars(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func previewOutput(s string) string {
	lines := strings.Split(s, "\n")
	if len(lines) > outputPreviewLines {
		lines = lines[:outputPreviewLines]
	}
	return previewChars(strings.Join(lines, "\n"), outputPreviewChars)
}
