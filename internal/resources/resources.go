// Package resources implements the MCP resource handlers for Pathfinder.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (pathfinder://...) following MCP
// conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/pathfinder-mcp/pathfinder/internal/decision"
	"github.com/pathfinder-mcp/pathfinder/internal/heuristics"
)

// Handler serves the Pathfinder resource endpoints.
type Handler struct {
	cfg heuristics.Config
}

// NewHandler creates a resource Handler over the active heuristic tables.
func NewHandler(cfg heuristics.Config) *Handler {
	return &Handler{cfg: cfg}
}

// domainEntry is one domain in the published catalog.
type domainEntry struct {
	Domain       string     `json:"domain"`
	Keywords     []string   `json:"keywords,omitempty"`
	TechPatterns [][]string `json:"tech_patterns,omitempty"`
	Phrases      []string   `json:"phrases,omitempty"`
	Fallback     bool       `json:"fallback,omitempty"`
}

// domainCatalog is the full payload of pathfinder://domains.
type domainCatalog struct {
	Domains             []domainEntry `json:"domains"`
	ConfidenceFloor     float64       `json:"confidence_floor"`
	EscalationThreshold float64       `json:"escalation_threshold"`
	ClosenessMargin     float64       `json:"closeness_margin"`
}

// DomainsResource returns the MCP resource definition for the domain
// catalog.
func (h *Handler) DomainsResource() mcp.Resource {
	return mcp.NewResource(
		"pathfinder://domains",
		"Pathfinder Domain Catalog",
		mcp.WithResourceDescription("The recognized project domains, the signals each one matches on, and the classifier's escalation thresholds"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleDomains returns the domain catalog as JSON. The catalog reflects
// the active heuristic tables, including any override file in effect.
func (h *Handler) HandleDomains(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	catalog := domainCatalog{
		ConfidenceFloor:     heuristics.DomainFloor,
		EscalationThreshold: decision.EscalationThreshold,
		ClosenessMargin:     decision.ClosenessMargin,
	}

	for _, d := range h.cfg.Domains {
		rules := h.cfg.Rules[d]
		entry := domainEntry{Domain: string(d)}
		for _, k := range rules.Keywords {
			entry.Keywords = append(entry.Keywords, k.Term)
		}
		for _, p := range rules.TechPatterns {
			entry.TechPatterns = append(entry.TechPatterns, p.Terms)
		}
		for _, ph := range rules.Phrases {
			entry.Phrases = append(entry.Phrases, ph.Phrase)
		}
		catalog.Domains = append(catalog.Domains, entry)
	}
	catalog.Domains = append(catalog.Domains, domainEntry{
		Domain:   string(heuristics.DomainGeneralSoftware),
		Fallback: true,
	})

	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling domain catalog: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
