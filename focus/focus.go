// Package focus computes the energy and alignment metrics for missions
// and their projects. Every active project consumes a fixed share of
// focus energy; the numbers here drive the energy widget, the focus
// view, and the context handed to the assistant.
package focus

import (
	"fmt"
	"math"
	"strings"
)

// EnergyPerProject is the fixed focus cost of one active project, in
// percentage points. Policy constant, not configurable.
const EnergyPerProject = 20

// Status is a project's lifecycle state.
type Status string

const (
	StatusActive      Status = "Active"
	StatusConcept     Status = "Concept"
	StatusMaintenance Status = "Maintenance"
	StatusArchived    Status = "Archived"
)

// Project is one unit of work under a mission.
type Project struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title"`
	Status   Status `json:"status"`
	Progress int    `json:"progress"`
}

// Mission groups projects under one long-term aim.
type Mission struct {
	ID        string    `json:"id,omitempty"`
	Title     string    `json:"title"`
	Statement string    `json:"statement,omitempty"`
	Color     string    `json:"color,omitempty"`
	Projects  []Project `json:"projects"`
}

// Metrics is the aggregate alignment picture across all missions.
type Metrics struct {
	FocusScore         int
	TotalProjects      int
	ActiveProjects     int
	UsedEnergy         int
	RemainingEnergy    int
	ActiveMissionCount int
	AvgProgress        int
}

// MissionMetrics is the per-mission breakdown by status.
type MissionMetrics struct {
	Active      []Project
	Concepts    []Project
	Maintenance []Project
	Archived    []Project
	EnergyUsed  int
	AvgProgress int
}

// CalculateFocusBudget returns the remaining focus energy for the
// energy widget. The widget never shows an empty bar, so this path
// floors at 5%.
func CalculateFocusBudget(projects []Project) int {
	active := 0
	for _, p := range projects {
		if p.Status == StatusActive {
			active++
		}
	}
	remaining := 100 - active*EnergyPerProject
	if remaining < 5 {
		return 5
	}
	return remaining
}

// EnergyColor maps remaining energy to the widget's display color.
func EnergyColor(energy int) string {
	if energy < 30 {
		return "#ef4444"
	}
	if energy < 60 {
		return "#f59e0b"
	}
	return "#ffffff"
}

// HealthLabel maps a focus score to its alignment label and color.
func HealthLabel(score int) (label, color string) {
	if score >= 70 {
		return "FOCUSED", "#10b981"
	}
	if score >= 40 {
		return "BALANCED", "#f59e0b"
	}
	return "SCATTERED", "#ef4444"
}

// CalculateMetrics computes the focus-view aggregate. Unlike the
// widget, this path floors remaining energy at 0. The focus score
// starts at remaining energy, gains a fifth of the average active
// progress (capped at 100), then loses 10 points per active mission
// beyond the second.
func CalculateMetrics(missions []Mission) Metrics {
	var all, active []Project
	for _, m := range missions {
		all = append(all, m.Projects...)
	}
	for _, p := range all {
		if p.Status == StatusActive {
			active = append(active, p)
		}
	}

	used := len(active) * EnergyPerProject
	remaining := 100 - used
	if remaining < 0 {
		remaining = 0
	}

	avgProgress := 0.0
	if len(active) > 0 {
		sum := 0
		for _, p := range active {
			sum += p.Progress
		}
		avgProgress = float64(sum) / float64(len(active))
	}

	score := math.Min(100, float64(remaining)+avgProgress*0.2)

	activeMissions := 0
	for _, m := range missions {
		for _, p := range m.Projects {
			if p.Status == StatusActive {
				activeMissions++
				break
			}
		}
	}
	if activeMissions > 2 {
		score = math.Max(0, score-float64(activeMissions-2)*10)
	}

	return Metrics{
		FocusScore:         int(math.Round(score)),
		TotalProjects:      len(all),
		ActiveProjects:     len(active),
		UsedEnergy:         used,
		RemainingEnergy:    remaining,
		ActiveMissionCount: activeMissions,
		AvgProgress:        int(math.Round(avgProgress)),
	}
}

// CalculateMissionMetrics breaks one mission's projects down by status.
func CalculateMissionMetrics(m Mission) MissionMetrics {
	var mm MissionMetrics
	for _, p := range m.Projects {
		switch p.Status {
		case StatusActive:
			mm.Active = append(mm.Active, p)
		case StatusConcept:
			mm.Concepts = append(mm.Concepts, p)
		case StatusMaintenance:
			mm.Maintenance = append(mm.Maintenance, p)
		case StatusArchived:
			mm.Archived = append(mm.Archived, p)
		}
	}
	mm.EnergyUsed = len(mm.Active) * EnergyPerProject
	if len(mm.Active) > 0 {
		sum := 0
		for _, p := range mm.Active {
			sum += p.Progress
		}
		mm.AvgProgress = int(math.Round(float64(sum) / float64(len(mm.Active))))
	}
	return mm
}

// Overview renders the mission/project tree as the plain-text listing
// included in assistant context.
func Overview(missions []Mission) string {
	blocks := make([]string, 0, len(missions))
	for _, m := range missions {
		items := make([]string, 0, len(m.Projects))
		for _, p := range m.Projects {
			prog := ""
			if p.Status == StatusActive {
				prog = fmt.Sprintf(" (%d%%)", p.Progress)
			}
			items = append(items, fmt.Sprintf("- %s [%s]%s", p.Title, p.Status, prog))
		}
		body := strings.Join(items, "\n")
		if body == "" {
			body = "- No projects"
		}
		blocks = append(blocks, fmt.Sprintf("%s:\n%s", m.Title, body))
	}
	return strings.Join(blocks, "\n\n")
}

// ContextMessage renders the user-context block appended to the system
// prompt when missions are available. Returns "" for an empty mission
// list.
func ContextMessage(missions []Mission) string {
	if len(missions) == 0 {
		return ""
	}
	active := 0
	for _, m := range missions {
		for _, p := range m.Projects {
			if p.Status == StatusActive {
				active++
			}
		}
	}
	used := active * EnergyPerProject
	remaining := 100 - used
	if remaining < 0 {
		remaining = 0
	}
	return fmt.Sprintf("\n\nCurrent User Context:\nEnergy used: %d%%, Remaining: %d%%\nActive projects: %d\n\nMissions Overview:\n%s",
		used, remaining, active, Overview(missions))
}

// LocalSummary renders the deterministic status answer used when no
// assistant backend can be reached.
func LocalSummary(missions []Mission) string {
	metrics := CalculateMetrics(missions)
	var b strings.Builder
	b.WriteString("Focus Snapshot\n")
	fmt.Fprintf(&b, "Active: %d, Energy used: %d%%, Remaining: %d%%\n",
		metrics.ActiveProjects, metrics.UsedEnergy, metrics.RemainingEnergy)
	fmt.Fprintf(&b, "Focus score: %d\n", metrics.FocusScore)
	if len(missions) == 0 {
		b.WriteString("\nNo missions found.")
		return b.String()
	}
	b.WriteString("\n")
	b.WriteString(Overview(missions))
	return b.String()
}
