package stages

import (
	"strings"

	"github.com/pathfinder-mcp/pathfinder/internal/heuristics"
)

// implicitTrigger maps a fixed trigger phrase to the requirement it
// implies. Triggers are evaluated in declaration order; each requirement
// is added at most once.
type implicitTrigger struct {
	trigger     string
	requirement string
}

var implicitTriggers = []implicitTrigger{
	{"login", "authentication"},
	{"sign in", "authentication"},
	{"sign up", "user-registration"},
	{"auth", "authentication"},
	{"payment", "payment-processing"},
	{"checkout", "payment-processing"},
	{"subscription", "billing"},
	{"upload", "file-storage"},
	{"image", "media-handling"},
	{"search", "search-indexing"},
	{"notification", "notification-delivery"},
	{"email", "email-delivery"},
	{"real-time", "event-streaming"},
	{"chat", "event-streaming"},
	{"admin", "role-based-access"},
	{"permission", "role-based-access"},
	{"report", "reporting"},
	{"export", "data-export"},
	{"multi-tenant", "tenant-isolation"},
	{"mobile", "responsive-design"},
	{"gdpr", "data-privacy-compliance"},
	{"audit", "audit-logging"},
}

// Analyze derives the analysis result from a description and its
// classification. When the top domain misses the confidence floor, the
// caller is expected to have routed the classification through the
// decision resolver; the result still records the fallback domain so the
// pipeline can proceed on the recommendation.
func Analyze(description string, cls heuristics.Classification) AnalysisResult {
	top := cls.Top()

	domain := top.Domain
	if top.Confidence < heuristics.DomainFloor {
		domain = heuristics.DomainGeneralSoftware
	}

	return AnalysisResult{
		Description:          description,
		Domain:               domain,
		Confidence:           top.Confidence,
		Complexity:           cls.Complexity.Score,
		Strategy:             cls.Complexity.Strategy,
		Indicators:           top.Indicators,
		ImplicitRequirements: implicitRequirements(description),
	}
}

// implicitRequirements scans the description for fixed trigger phrases
// and returns the implied requirements, deduplicated, in trigger order.
func implicitRequirements(description string) []string {
	lower := strings.ToLower(description)
	seen := make(map[string]bool)
	var reqs []string
	for _, t := range implicitTriggers {
		if !strings.Contains(lower, t.trigger) {
			continue
		}
		if seen[t.requirement] {
			continue
		}
		seen[t.requirement] = true
		reqs = append(reqs, t.requirement)
	}
	return reqs
}
