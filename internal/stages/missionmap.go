package stages

import (
	"math"
	"strings"
)

// profileRule maps task vocabulary to an agent profile. Rules are
// evaluated in order; the first match wins.
type profileRule struct {
	keywords []string
	profile  string
}

var profileRules = []profileRule{
	{[]string{"frontend", "view", "ui"}, "frontend_engineer"},
	{[]string{"api", "endpoint", "backend"}, "backend_engineer"},
	{[]string{"data-model", "persistence", "schema", "ingestion", "transform", "load-stage"}, "data_engineer"},
	{[]string{"provision", "deploy", "delivery", "release", "packaging", "observability"}, "platform_engineer"},
	{[]string{"test", "regression", "checks", "audit"}, "qa_engineer"},
	{[]string{"boundaries", "interfaces", "architecture", "extraction", "seam"}, "software_architect"},
	{[]string{"docs", "guide", "reference", "runbook"}, "technical_writer"},
}

const defaultProfile = "generalist_engineer"

// MapResources assigns each task an agent profile, derives priorities
// from critical-path slack, and groups independent tasks into parallel
// execution batches.
//
// Priorities: task complexity is treated as duration for a standard
// forward/backward critical-path pass. Zero-slack tasks get priority 10;
// the rest scale down linearly with slack, bottoming out at 1.
//
// Batches: a task's batch is one past the latest batch among its
// dependencies, so tasks within a batch share no dependency edges and can
// run in parallel.
func MapResources(graph TaskGraphResult) MissionMapResult {
	n := len(graph.Tasks)
	index := make(map[string]int, n)
	for i, t := range graph.Tasks {
		index[t.ID] = i
	}

	// Forward pass: earliest start. Tasks are topologically ordered —
	// dependencies always precede dependents in the slice.
	earliest := make([]int, n)
	for i, t := range graph.Tasks {
		for _, dep := range t.DependsOn {
			j := index[dep]
			if finish := earliest[j] + graph.Tasks[j].Complexity; finish > earliest[i] {
				earliest[i] = finish
			}
		}
	}

	projectEnd := 0
	for i, t := range graph.Tasks {
		if finish := earliest[i] + t.Complexity; finish > projectEnd {
			projectEnd = finish
		}
	}

	// Backward pass: latest start without delaying the project end.
	latest := make([]int, n)
	for i, t := range graph.Tasks {
		latest[i] = projectEnd - t.Complexity
	}
	for i := n - 1; i >= 0; i-- {
		for _, dep := range graph.Tasks[i].DependsOn {
			j := index[dep]
			if bound := latest[i] - graph.Tasks[j].Complexity; bound < latest[j] {
				latest[j] = bound
			}
		}
	}

	slack := make([]int, n)
	maxSlack := 0
	for i := range graph.Tasks {
		slack[i] = latest[i] - earliest[i]
		if slack[i] > maxSlack {
			maxSlack = slack[i]
		}
	}

	assignments := make([]Assignment, 0, n)
	var criticalPath []string
	for i, t := range graph.Tasks {
		assignments = append(assignments, Assignment{
			TaskID:       t.ID,
			AgentProfile: profileFor(t),
			Priority:     priorityFor(slack[i], maxSlack),
		})
		if slack[i] == 0 {
			criticalPath = append(criticalPath, t.ID)
		}
	}

	return MissionMapResult{
		TaskGraph:    graph,
		Assignments:  assignments,
		Batches:      batch(graph.Tasks, index),
		CriticalPath: criticalPath,
	}
}

// profileFor picks the agent profile by the first rule whose keyword
// appears in the task name; the description is consulted only when no
// rule matches the name.
func profileFor(t Task) string {
	for _, text := range []string{strings.ToLower(t.Name), strings.ToLower(t.Description)} {
		for _, rule := range profileRules {
			for _, kw := range rule.keywords {
				if strings.Contains(text, kw) {
					return rule.profile
				}
			}
		}
	}
	return defaultProfile
}

// priorityFor converts slack into a 1-10 priority. Zero slack is the
// critical path and always scores 10.
func priorityFor(slack, maxSlack int) int {
	if slack == 0 || maxSlack == 0 {
		return 10
	}
	p := 10 - int(math.Round(9*float64(slack)/float64(maxSlack)))
	if p < 1 {
		return 1
	}
	return p
}

// batch levels the tasks: level(t) = 1 + max(level of dependencies).
func batch(tasks []Task, index map[string]int) []Batch {
	levels := make([]int, len(tasks))
	maxLevel := 0
	for i, t := range tasks {
		level := 1
		for _, dep := range t.DependsOn {
			if l := levels[index[dep]] + 1; l > level {
				level = l
			}
		}
		levels[i] = level
		if level > maxLevel {
			maxLevel = level
		}
	}

	batches := make([]Batch, maxLevel)
	for i := range batches {
		batches[i].Order = i + 1
	}
	for i, t := range tasks {
		b := &batches[levels[i]-1]
		b.TaskIDs = append(b.TaskIDs, t.ID)
	}
	return batches
}
