// Package heuristics implements the deterministic domain and complexity
// classifier behind the analysis stage.
//
// The classifier is intentionally simple: weighted keyword matching,
// technology co-occurrence patterns, and fixed contextual phrases. No
// probabilistic models, no external lookups — the same text always yields
// the same scores, bit for bit.
//
// All heuristic tables are immutable configuration injected at construction
// (see Config and DefaultConfig). Tools and tests can supply alternate
// tables without touching shared state.
package heuristics

import "fmt"

// --- Domain enum ---

// Domain identifies one of the fixed project domains the classifier
// can recognize.
type Domain string

const (
	DomainWebApp             Domain = "web_app"
	DomainCLITooling         Domain = "cli_tooling"
	DomainSystemArchitecture Domain = "system_architecture"
	DomainDataPipeline       Domain = "data_pipeline"
	DomainInfrastructure     Domain = "infrastructure"

	// DomainGeneralSoftware is the fallback when no domain clears the
	// minimum confidence floor. It is never scored directly.
	DomainGeneralSoftware Domain = "general_software"
)

// validDomains is the set of recognized domains, fallback included.
var validDomains = map[Domain]bool{
	DomainWebApp:             true,
	DomainCLITooling:         true,
	DomainSystemArchitecture: true,
	DomainDataPipeline:       true,
	DomainInfrastructure:     true,
	DomainGeneralSoftware:    true,
}

// ValidateDomain returns an error if the domain is not recognized.
func ValidateDomain(d Domain) error {
	if !validDomains[d] {
		return fmt.Errorf("invalid domain %q: must be one of: web_app, cli_tooling, system_architecture, data_pipeline, infrastructure, general_software", d)
	}
	return nil
}

// --- Rule types ---

// KeywordRule is a single domain-specific term with a specificity weight.
// Terms may contain spaces; matching is case-insensitive substring.
type KeywordRule struct {
	Term   string  `yaml:"term"`
	Weight float64 `yaml:"weight"`
}

// TechPattern is a co-occurrence rule: it matches only when every term is
// present in the text. Co-occurrence is a stronger signal than any single
// keyword, so patterns carry higher effective weight.
type TechPattern struct {
	Terms  []string `yaml:"terms"`
	Weight float64  `yaml:"weight"`
}

// PhraseRule is a fixed contextual phrase contributing a small weight.
type PhraseRule struct {
	Phrase string  `yaml:"phrase"`
	Weight float64 `yaml:"weight"`
}

// DomainRules bundles all matching rules for one domain.
type DomainRules struct {
	Keywords     []KeywordRule `yaml:"keywords"`
	TechPatterns []TechPattern `yaml:"tech_patterns"`
	Phrases      []PhraseRule  `yaml:"phrases"`
}

// ComplexityRule awards rubric points when its term appears in the text.
// Points feed the complexity estimate, never domain confidence.
type ComplexityRule struct {
	Term      string `yaml:"term"`
	Points    int    `yaml:"points"`
	Dimension string `yaml:"dimension"` // novelty | coupling | scale | ambiguity
}

// DimensionWeights controls how the three matching dimensions combine
// into a per-domain confidence. They must sum to 1.
type DimensionWeights struct {
	Keyword     float64 `yaml:"keyword"`
	TechPattern float64 `yaml:"tech_pattern"`
	Phrase      float64 `yaml:"phrase"`
}

// Saturations are the per-dimension raw-weight totals at which a
// dimension's normalized score reaches 1. Hits beyond saturation add
// nothing — a description drenched in keywords is not more certainly a
// web app than one with three strong ones.
type Saturations struct {
	Keyword     float64 `yaml:"keyword"`
	TechPattern float64 `yaml:"tech_pattern"`
	Phrase      float64 `yaml:"phrase"`
}

// Config is the full immutable heuristic table set. The Domains slice
// fixes evaluation order; scoring never iterates the Rules map directly,
// which keeps results deterministic.
type Config struct {
	Domains     []Domain               `yaml:"domains"`
	Rules       map[Domain]DomainRules `yaml:"rules"`
	Complexity  []ComplexityRule       `yaml:"complexity"`
	Weights     DimensionWeights       `yaml:"weights"`
	Saturations Saturations            `yaml:"saturations"`
}

// Validate checks the config for structural problems: unknown domains,
// missing rule sets, or degenerate weights.
func (c Config) Validate() error {
	if len(c.Domains) == 0 {
		return fmt.Errorf("config has no domains")
	}
	for _, d := range c.Domains {
		if err := ValidateDomain(d); err != nil {
			return err
		}
		if d == DomainGeneralSoftware {
			return fmt.Errorf("general_software is the fallback domain and cannot be scored")
		}
		if _, ok := c.Rules[d]; !ok {
			return fmt.Errorf("domain %q has no rules", d)
		}
	}
	sum := c.Weights.Keyword + c.Weights.TechPattern + c.Weights.Phrase
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("dimension weights must sum to 1, got %.3f", sum)
	}
	if c.Saturations.Keyword <= 0 || c.Saturations.TechPattern <= 0 || c.Saturations.Phrase <= 0 {
		return fmt.Errorf("saturations must be positive")
	}
	return nil
}

// DefaultConfig returns the built-in heuristic tables.
//
// Weights and saturation points are empirically chosen, not derived.
// They are tunable: supply an override file via LoadConfig to replace
// the whole table set.
func DefaultConfig() Config {
	return Config{
		Domains: []Domain{
			DomainWebApp,
			DomainCLITooling,
			DomainSystemArchitecture,
			DomainDataPipeline,
			DomainInfrastructure,
		},
		Weights: DimensionWeights{
			Keyword:     0.50,
			TechPattern: 0.35,
			Phrase:      0.15,
		},
		Saturations: Saturations{
			Keyword:     3.0,
			TechPattern: 1.5,
			Phrase:      0.75,
		},
		Rules: map[Domain]DomainRules{
			DomainWebApp: {
				Keywords: []KeywordRule{
					{Term: "e-commerce", Weight: 1.5},
					{Term: "web app", Weight: 1.5},
					{Term: "website", Weight: 1.0},
					{Term: "storefront", Weight: 1.0},
					{Term: "frontend", Weight: 1.0},
					{Term: "backend", Weight: 0.75},
					{Term: "react", Weight: 1.25},
					{Term: "vue", Weight: 1.25},
					{Term: "angular", Weight: 1.25},
					{Term: "fastapi", Weight: 1.25},
					{Term: "django", Weight: 1.25},
					{Term: "rails", Weight: 1.25},
					{Term: "next.js", Weight: 1.25},
					{Term: "rest api", Weight: 1.0},
					{Term: "graphql", Weight: 1.0},
					{Term: "browser", Weight: 0.75},
					{Term: "user interface", Weight: 0.75},
					{Term: "checkout", Weight: 0.75},
					{Term: "login", Weight: 0.5},
					{Term: "html", Weight: 0.5},
					{Term: "css", Weight: 0.5},
					{Term: "platform", Weight: 0.4},
					{Term: "session", Weight: 0.4},
					{Term: "responsive", Weight: 0.6},
				},
				TechPatterns: []TechPattern{
					{Terms: []string{"react", "frontend"}, Weight: 1.0},
					{Terms: []string{"fastapi", "backend"}, Weight: 1.0},
					{Terms: []string{"django", "python"}, Weight: 0.75},
					{Terms: []string{"frontend", "backend"}, Weight: 0.75},
					{Terms: []string{"react", "api"}, Weight: 0.75},
					{Terms: []string{"vue", "api"}, Weight: 0.75},
				},
				Phrases: []PhraseRule{
					{Phrase: "online store", Weight: 0.5},
					{Phrase: "shopping cart", Weight: 0.5},
					{Phrase: "customer facing", Weight: 0.4},
					{Phrase: "single page", Weight: 0.4},
				},
			},
			DomainCLITooling: {
				Keywords: []KeywordRule{
					{Term: "cli", Weight: 1.5},
					{Term: "command line", Weight: 1.5},
					{Term: "command-line", Weight: 1.5},
					{Term: "terminal", Weight: 1.0},
					{Term: "subcommand", Weight: 1.25},
					{Term: "shell", Weight: 0.75},
					{Term: "stdin", Weight: 1.0},
					{Term: "stdout", Weight: 1.0},
					{Term: "developer tool", Weight: 0.75},
					{Term: "script", Weight: 0.5},
					{Term: "flag", Weight: 0.5},
					{Term: "installer", Weight: 0.5},
					{Term: "cross-platform binary", Weight: 1.0},
				},
				TechPatterns: []TechPattern{
					{Terms: []string{"cli", "flag"}, Weight: 1.0},
					{Terms: []string{"command", "terminal"}, Weight: 0.75},
					{Terms: []string{"pipe", "stdout"}, Weight: 0.75},
				},
				Phrases: []PhraseRule{
					{Phrase: "from the terminal", Weight: 0.5},
					{Phrase: "single binary", Weight: 0.4},
					{Phrase: "scriptable interface", Weight: 0.4},
				},
			},
			DomainSystemArchitecture: {
				Keywords: []KeywordRule{
					{Term: "refactor", Weight: 1.25},
					{Term: "architecture", Weight: 1.0},
					{Term: "microservice", Weight: 1.25},
					{Term: "monolith", Weight: 1.25},
					{Term: "codebase", Weight: 0.75},
					{Term: "legacy", Weight: 1.0},
					{Term: "coupling", Weight: 1.0},
					{Term: "module boundaries", Weight: 1.25},
					{Term: "tech debt", Weight: 1.0},
					{Term: "design pattern", Weight: 0.75},
					{Term: "migration", Weight: 0.75},
					{Term: "domain model", Weight: 0.75},
				},
				TechPatterns: []TechPattern{
					{Terms: []string{"monolith", "microservice"}, Weight: 1.0},
					{Terms: []string{"refactor", "legacy"}, Weight: 1.0},
					{Terms: []string{"extract", "service"}, Weight: 0.75},
				},
				Phrases: []PhraseRule{
					{Phrase: "existing codebase", Weight: 0.5},
					{Phrase: "break apart", Weight: 0.4},
					{Phrase: "clean up the", Weight: 0.3},
				},
			},
			DomainDataPipeline: {
				Keywords: []KeywordRule{
					{Term: "pipeline", Weight: 1.0},
					{Term: "etl", Weight: 1.5},
					{Term: "ingest", Weight: 1.25},
					{Term: "kafka", Weight: 1.25},
					{Term: "spark", Weight: 1.25},
					{Term: "warehouse", Weight: 1.0},
					{Term: "dataset", Weight: 0.75},
					{Term: "batch job", Weight: 1.0},
					{Term: "streaming", Weight: 0.75},
					{Term: "transform", Weight: 0.5},
					{Term: "analytics", Weight: 0.75},
					{Term: "data quality", Weight: 1.0},
				},
				TechPatterns: []TechPattern{
					{Terms: []string{"kafka", "stream"}, Weight: 1.0},
					{Terms: []string{"extract", "load"}, Weight: 0.75},
					{Terms: []string{"ingest", "warehouse"}, Weight: 1.0},
				},
				Phrases: []PhraseRule{
					{Phrase: "data sources", Weight: 0.5},
					{Phrase: "near real-time", Weight: 0.4},
					{Phrase: "downstream consumers", Weight: 0.4},
				},
			},
			DomainInfrastructure: {
				Keywords: []KeywordRule{
					{Term: "kubernetes", Weight: 1.5},
					{Term: "terraform", Weight: 1.5},
					{Term: "docker", Weight: 1.0},
					{Term: "helm", Weight: 1.25},
					{Term: "ci/cd", Weight: 1.25},
					{Term: "provisioning", Weight: 1.0},
					{Term: "cluster", Weight: 0.75},
					{Term: "aws", Weight: 0.75},
					{Term: "gcp", Weight: 0.75},
					{Term: "azure", Weight: 0.75},
					{Term: "observability", Weight: 0.75},
					{Term: "autoscaling", Weight: 1.0},
				},
				TechPatterns: []TechPattern{
					{Terms: []string{"kubernetes", "helm"}, Weight: 1.0},
					{Terms: []string{"terraform", "aws"}, Weight: 1.0},
					{Terms: []string{"docker", "deploy"}, Weight: 0.75},
				},
				Phrases: []PhraseRule{
					{Phrase: "infrastructure as code", Weight: 0.5},
					{Phrase: "deployment pipeline", Weight: 0.4},
					{Phrase: "multi-region", Weight: 0.4},
				},
			},
		},
		Complexity: []ComplexityRule{
			// novelty
			{Term: "greenfield", Points: 1, Dimension: "novelty"},
			{Term: "from scratch", Points: 1, Dimension: "novelty"},
			{Term: "prototype", Points: 1, Dimension: "novelty"},
			{Term: "never been done", Points: 2, Dimension: "novelty"},
			{Term: "experimental", Points: 1, Dimension: "novelty"},
			// coupling
			{Term: "refactor", Points: 2, Dimension: "coupling"},
			{Term: "architecture", Points: 2, Dimension: "coupling"},
			{Term: "microservice", Points: 2, Dimension: "coupling"},
			{Term: "legacy", Points: 2, Dimension: "coupling"},
			{Term: "integration", Points: 1, Dimension: "coupling"},
			{Term: "distributed", Points: 2, Dimension: "coupling"},
			{Term: "monolith", Points: 1, Dimension: "coupling"},
			// scale
			{Term: "pipeline", Points: 1, Dimension: "scale"},
			{Term: "high availability", Points: 2, Dimension: "scale"},
			{Term: "multi-tenant", Points: 2, Dimension: "scale"},
			{Term: "real-time", Points: 1, Dimension: "scale"},
			{Term: "enterprise", Points: 1, Dimension: "scale"},
			{Term: "millions of", Points: 2, Dimension: "scale"},
			{Term: "platform", Points: 1, Dimension: "scale"},
			// ambiguity
			{Term: "something", Points: 1, Dimension: "ambiguity"},
			{Term: "somehow", Points: 1, Dimension: "ambiguity"},
			{Term: "maybe", Points: 1, Dimension: "ambiguity"},
			{Term: "flexible", Points: 1, Dimension: "ambiguity"},
			{Term: "various", Points: 1, Dimension: "ambiguity"},
			{Term: "etc", Points: 1, Dimension: "ambiguity"},
		},
	}
}
