package stages

import (
	"fmt"

	"github.com/pathfinder-mcp/pathfinder/internal/heuristics"
)

// Phase names used by the decomposition templates.
const (
	PhaseSetup         = "setup"
	PhaseArchitecture  = "architecture_design"
	PhaseCore          = "core_implementation"
	PhaseIntegration   = "integration"
	PhaseTesting       = "testing"
	PhaseHardening     = "hardening"
	PhaseDocumentation = "documentation"
	PhaseDeployment    = "deployment"
)

// phaseTemplates is the linear phase sequence per complexity tier.
// Heavier projects get more up-front design and more pre-release rigor.
var phaseTemplates = map[ComplexityTier][]string{
	TierLight:    {PhaseSetup, PhaseCore, PhaseTesting},
	TierStandard: {PhaseSetup, PhaseCore, PhaseTesting, PhaseDeployment},
	TierHeavy:    {PhaseSetup, PhaseArchitecture, PhaseCore, PhaseIntegration, PhaseTesting, PhaseHardening, PhaseDeployment},
}

// phaseDescriptions maps phase names to their fixed descriptions. The
// core phase description is specialized per domain at build time.
var phaseDescriptions = map[string]string{
	PhaseSetup:         "Scaffold the project, configure tooling, and establish conventions",
	PhaseArchitecture:  "Define component boundaries, interfaces, and key technical decisions",
	PhaseCore:          "Implement the primary functionality",
	PhaseIntegration:   "Wire components together and verify cross-component behavior",
	PhaseTesting:       "Build the automated test suite and close coverage gaps",
	PhaseHardening:     "Audit error paths, performance, and operational edge cases",
	PhaseDocumentation: "Write user-facing and reference documentation",
	PhaseDeployment:    "Package, release, and establish the deployment procedure",
}

// coreFocusByDomain sharpens the core phase description for each domain.
var coreFocusByDomain = map[heuristics.Domain]string{
	heuristics.DomainWebApp:             "data model, API endpoints, and frontend views",
	heuristics.DomainCLITooling:         "command surface, argument handling, and output formats",
	heuristics.DomainSystemArchitecture: "module extraction and seam refactoring behind a regression safety net",
	heuristics.DomainDataPipeline:       "ingestion, transformation, and load stages with schema contracts",
	heuristics.DomainInfrastructure:     "environment provisioning, delivery workflow, and observability baseline",
	heuristics.DomainGeneralSoftware:    "core logic, persistence, and the external interface",
}

// TierFor buckets a 1-10 complexity score into a template tier.
func TierFor(complexity int) ComplexityTier {
	switch {
	case complexity <= 3:
		return TierLight
	case complexity <= 6:
		return TierStandard
	default:
		return TierHeavy
	}
}

// Decompose maps the analyzed domain and complexity onto a fixed phase
// template. Dependencies form a linear chain through the template, plus
// one fan-out: standard and heavy tiers add a documentation phase that
// depends only on core implementation, running in parallel with testing.
func Decompose(analysis AnalysisResult) DecompositionResult {
	tier := TierFor(analysis.Complexity)
	names := phaseTemplates[tier]

	phases := make([]Phase, 0, len(names)+1)
	var corePhaseID string

	for i, name := range names {
		p := Phase{
			ID:          fmt.Sprintf("PH-%d", i+1),
			Name:        name,
			Description: phaseDescriptions[name],
		}
		if name == PhaseCore {
			p.Description = fmt.Sprintf("%s: %s", phaseDescriptions[name], coreFocusByDomain[analysis.Domain])
			corePhaseID = p.ID
		}
		if i > 0 {
			p.DependsOn = []string{phases[i-1].ID}
		}
		phases = append(phases, p)
	}

	if tier != TierLight {
		phases = append(phases, Phase{
			ID:          fmt.Sprintf("PH-%d", len(phases)+1),
			Name:        PhaseDocumentation,
			Description: phaseDescriptions[PhaseDocumentation],
			DependsOn:   []string{corePhaseID},
		})
	}

	return DecompositionResult{
		Analysis: analysis,
		Tier:     tier,
		Phases:   phases,
	}
}
