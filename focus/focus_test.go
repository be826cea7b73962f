package focus

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func projects(statuses ...Status) []Project {
	out := make([]Project, len(statuses))
	for i, s := range statuses {
		out[i] = Project{Title: fmt.Sprintf("p%d", i), Status: s}
	}
	return out
}

func TestCalculateFocusBudget(t *testing.T) {
	assert.Equal(t, 100, CalculateFocusBudget(nil))
	assert.Equal(t, 80, CalculateFocusBudget(projects(StatusActive)))
	assert.Equal(t, 60, CalculateFocusBudget(projects(StatusActive, StatusActive)))
	assert.Equal(t, 100, CalculateFocusBudget(projects(StatusConcept, StatusArchived, StatusMaintenance)))
}

func TestCalculateFocusBudget_Floor(t *testing.T) {
	// Five or more active projects would hit zero; the widget floors at 5.
	assert.Equal(t, 5, CalculateFocusBudget(projects(StatusActive, StatusActive, StatusActive, StatusActive, StatusActive)))
	assert.Equal(t, 5, CalculateFocusBudget(projects(StatusActive, StatusActive, StatusActive, StatusActive, StatusActive, StatusActive)))
}

func TestEnergyColor(t *testing.T) {
	assert.Equal(t, "#ef4444", EnergyColor(0))
	assert.Equal(t, "#ef4444", EnergyColor(29))
	assert.Equal(t, "#f59e0b", EnergyColor(30))
	assert.Equal(t, "#f59e0b", EnergyColor(59))
	assert.Equal(t, "#ffffff", EnergyColor(60))
	assert.Equal(t, "#ffffff", EnergyColor(100))
}

func TestHealthLabel(t *testing.T) {
	label, color := HealthLabel(70)
	assert.Equal(t, "FOCUSED", label)
	assert.Equal(t, "#10b981", color)

	label, _ = HealthLabel(69)
	assert.Equal(t, "BALANCED", label)
	label, _ = HealthLabel(40)
	assert.Equal(t, "BALANCED", label)
	label, color = HealthLabel(39)
	assert.Equal(t, "SCATTERED", label)
	assert.Equal(t, "#ef4444", color)
}

func TestCalculateMetrics_Empty(t *testing.T) {
	m := CalculateMetrics(nil)
	assert.Equal(t, 100, m.FocusScore)
	assert.Equal(t, 0, m.UsedEnergy)
	assert.Equal(t, 100, m.RemainingEnergy)
	assert.Equal(t, 0, m.ActiveMissionCount)
}

func TestCalculateMetrics_FloorsAtZero(t *testing.T) {
	// Six active projects overshoot the budget; this path floors at 0,
	// not the widget's 5.
	m := CalculateMetrics([]Mission{{Title: "m", Projects: projects(
		StatusActive, StatusActive, StatusActive, StatusActive, StatusActive, StatusActive)}})
	assert.Equal(t, 120, m.UsedEnergy)
	assert.Equal(t, 0, m.RemainingEnergy)
}

func TestCalculateMetrics_ProgressBonus(t *testing.T) {
	m := CalculateMetrics([]Mission{{Title: "m", Projects: []Project{
		{Title: "a", Status: StatusActive, Progress: 50},
		{Title: "b", Status: StatusActive, Progress: 100},
	}}})
	// remaining 60 + avg(75)*0.2 = 75
	assert.Equal(t, 75, m.FocusScore)
	assert.Equal(t, 75, m.AvgProgress)
	assert.Equal(t, 2, m.ActiveProjects)
}

func TestCalculateMetrics_CapsAtHundred(t *testing.T) {
	m := CalculateMetrics([]Mission{{Title: "m", Projects: []Project{
		{Title: "a", Status: StatusActive, Progress: 100},
	}}})
	// remaining 80 + 100*0.2 = 100, exactly at the cap
	assert.Equal(t, 100, m.FocusScore)

	m = CalculateMetrics([]Mission{{Title: "m", Projects: []Project{
		{Title: "a", Status: StatusConcept, Progress: 100},
	}}})
	assert.Equal(t, 100, m.FocusScore, "no active projects leaves the full budget")
}

func TestCalculateMetrics_ScatterPenalty(t *testing.T) {
	missions := []Mission{
		{Title: "m1", Projects: projects(StatusActive)},
		{Title: "m2", Projects: projects(StatusActive)},
		{Title: "m3", Projects: projects(StatusActive)},
		{Title: "m4", Projects: projects(StatusActive)},
	}
	m := CalculateMetrics(missions)
	assert.Equal(t, 4, m.ActiveMissionCount)
	// remaining 20 + 0 bonus - (4-2)*10 = 0
	assert.Equal(t, 0, m.FocusScore)
}

func TestCalculateMissionMetrics(t *testing.T) {
	mm := CalculateMissionMetrics(Mission{Title: "m", Projects: []Project{
		{Title: "a", Status: StatusActive, Progress: 40},
		{Title: "b", Status: StatusActive, Progress: 61},
		{Title: "c", Status: StatusConcept},
		{Title: "d", Status: StatusMaintenance},
		{Title: "e", Status: StatusArchived},
	}})
	assert.Len(t, mm.Active, 2)
	assert.Len(t, mm.Concepts, 1)
	assert.Len(t, mm.Maintenance, 1)
	assert.Len(t, mm.Archived, 1)
	assert.Equal(t, 40, mm.EnergyUsed)
	assert.Equal(t, 51, mm.AvgProgress, "rounds to nearest")
}

func TestOverview(t *testing.T) {
	missions := []Mission{
		{Title: "Ship", Projects: []Project{
			{Title: "API", Status: StatusActive, Progress: 60},
			{Title: "Docs", Status: StatusConcept, Progress: 10},
		}},
		{Title: "Learn"},
	}
	got := Overview(missions)
	assert.Equal(t, "Ship:\n- API [Active] (60%)\n- Docs [Concept]\n\nLearn:\n- No projects", got)
}

func TestContextMessage(t *testing.T) {
	assert.Equal(t, "", ContextMessage(nil))

	missions := []Mission{{Title: "Ship", Projects: []Project{
		{Title: "API", Status: StatusActive, Progress: 60},
	}}}
	got := ContextMessage(missions)
	assert.Contains(t, got, "Current User Context:")
	assert.Contains(t, got, "Energy used: 20%, Remaining: 80%")
	assert.Contains(t, got, "Active projects: 1")
	assert.Contains(t, got, "Missions Overview:\nShip:\n- API [Active] (60%)")
}

func TestLocalSummary(t *testing.T) {
	got := LocalSummary(nil)
	assert.Contains(t, got, "No missions found.")
	assert.Contains(t, got, "Active: 0, Energy used: 0%, Remaining: 100%")

	missions := []Mission{{Title: "Ship", Projects: []Project{
		{Title: "API", Status: StatusActive, Progress: 60},
	}}}
	got = LocalSummary(missions)
	assert.Contains(t, got, "Active: 1, Energy used: 20%, Remaining: 80%")
	assert.Contains(t, got, "Ship:")
	assert.NotContains(t, got, "No missions found.")
}
