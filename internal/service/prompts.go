package service

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/ar2745/cognitive-daily/internal/cache"
	"github.com/ar2745/cognitive-daily/internal/model"
)

// Prompt templates for AI-powered daily planning. Placeholders are filled by
// BuildPrompt; every value is coerced to a string-safe form first, so
// interpolation cannot fail at request time.

// withCurrentTime inserts the current-time line after the date line so every
// scenario template reports it without repeating the text thirteen times.
func withCurrentTime(template string) string {
	return strings.Replace(template,
		"- Date: {plan_date}",
		"- Date: {plan_date}\n  - Current time: {current_time}", 1)
}

var basePlanTemplate = withCurrentTime(`You are a smart daily planner assistant.
User info:
  - Date: {plan_date}
  - Energy level: {energy_level}
  - Available hours: {available_hours}
  - Goals: {goals}
  - Preferences: {preferences}
  - History: {history}
Please generate a detailed plan for the remaining typical awake hours of the day as a JSON object with a 'schedule' (dict of time: activity) and optional 'notes'.
`)

var scenarioTemplates = map[string]string{
	"work": withCurrentTime(`You are a productivity-focused daily planner assistant.
Today is a work-focused day.
User info:
  - Date: {plan_date}
  - Energy level: {energy_level}
  - Available hours: {available_hours}
  - Work goals: {goals}
  - Preferences: {preferences}
  - History: {history}
Generate a structured, efficient workday plan. Prioritize deep work and key deliverables. Return a JSON object with a 'schedule' and optional 'notes'.
`),
	"personal": withCurrentTime(`You are a well-being-oriented daily planner assistant.
Today is a personal day.
User info:
  - Date: {plan_date}
  - Energy level: {energy_level}
  - Available hours: {available_hours}
  - Personal goals: {goals}
  - Preferences: {preferences}
  - History: {history}
Generate a balanced, restorative plan. Emphasize self-care, hobbies, and relaxation. Return a JSON object with a 'schedule' and optional 'notes'.
`),
	"wellness": withCurrentTime(`You are a wellness-oriented daily planner assistant.
Today, the user wants to focus on health, rest, and self-care.
User info:
  - Date: {plan_date}
  - Energy level: {energy_level}
  - Available hours: {available_hours}
  - Wellness goals: {goals}
  - Preferences: {preferences}
  - History: {history}
Create a gentle, restorative plan with time for exercise, healthy meals, and relaxation. Return a JSON object with a 'schedule' and optional 'notes'.
`),
	"travel": withCurrentTime(`You are a travel itinerary assistant.
Today, the user is traveling.
User info:
  - Date: {plan_date}
  - Destinations: {goals}
  - Preferences: {preferences}
  - History: {history}
Plan an efficient, enjoyable travel day, including transit, sightseeing, meals, and rest. Return a JSON object with a 'schedule' and optional 'notes'.
`),
	"study": withCurrentTime(`You are an academic-focused daily planner assistant.
Today is a study-intensive day.
User info:
  - Date: {plan_date}
  - Energy level: {energy_level}
  - Available hours: {available_hours}
  - Study goals: {goals}
  - Preferences: {preferences}
  - History: {history}
Generate a focused study plan with blocks for reading, assignments, and breaks. Return a JSON object with a 'schedule' and optional 'notes'.
`),
	"creative": withCurrentTime(`You are a creativity-boosting daily planner assistant.
Today is dedicated to creative pursuits.
User info:
  - Date: {plan_date}
  - Energy level: {energy_level}
  - Available hours: {available_hours}
  - Creative goals: {goals}
  - Preferences: {preferences}
  - History: {history}
Design a plan that encourages flow, inspiration, and time for artistic work. Return a JSON object with a 'schedule' and optional 'notes'.
`),
	"social": withCurrentTime(`You are a social-oriented daily planner assistant.
Today is focused on social connections and events.
User info:
  - Date: {plan_date}
  - Energy level: {energy_level}
  - Available hours: {available_hours}
  - Social goals: {goals}
  - Preferences: {preferences}
  - History: {history}
Plan a day with time for friends, family, and meaningful interactions. Return a JSON object with a 'schedule' and optional 'notes'.
`),
	"recovery": withCurrentTime(`You are a gentle, recovery-focused daily planner assistant.
Today, the user needs rest and recuperation.
User info:
  - Date: {plan_date}
  - Energy level: {energy_level}
  - Available hours: {available_hours}
  - Recovery goals: {goals}
  - Preferences: {preferences}
  - History: {history}
Create a plan with minimal demands, emphasizing rest, hydration, and light activity. Return a JSON object with a 'schedule' and optional 'notes'.
`),
	"deadline": withCurrentTime(`You are a deadline-driven daily planner assistant.
Today is a high-pressure day with urgent deliverables.
User info:
  - Date: {plan_date}
  - Energy level: {energy_level}
  - Available hours: {available_hours}
  - Deadline goals: {goals}
  - Preferences: {preferences}
  - History: {history}
Build a time-boxed plan that prioritizes urgent tasks and minimizes distractions. Return a JSON object with a 'schedule' and optional 'notes'.
`),
	"weekend": withCurrentTime(`You are a weekend-oriented daily planner assistant.
Today is for leisure, fun, and recharging.
User info:
  - Date: {plan_date}
  - Energy level: {energy_level}
  - Available hours: {available_hours}
  - Weekend goals: {goals}
  - Preferences: {preferences}
  - History: {history}
Suggest a flexible, enjoyable plan with time for hobbies, rest, and socializing. Return a JSON object with a 'schedule' and optional 'notes'.
`),
	"parenting": withCurrentTime(`You are a family-oriented daily planner assistant.
Today involves parenting and family activities.
User info:
  - Date: {plan_date}
  - Energy level: {energy_level}
  - Available hours: {available_hours}
  - Family goals: {goals}
  - Preferences: {preferences}
  - History: {history}
Plan a day that balances childcare, family time, and personal needs. Return a JSON object with a 'schedule' and optional 'notes'.
`),
	"minimalist": withCurrentTime(`You are a minimalist daily planner assistant.
Today, the user wants to focus only on essentials.
User info:
  - Date: {plan_date}
  - Energy level: {energy_level}
  - Available hours: {available_hours}
  - Essential goals: {goals}
  - Preferences: {preferences}
  - History: {history}
Create a simple plan with only the most important tasks, reducing overload. Return a JSON object with a 'schedule' and optional 'notes'.
`),
}

const taskAnalysisTemplate = `You are an expert productivity assistant. Analyze the following list of tasks for a user's daily plan.

User info:
  - Date: {plan_date}
  - Energy level: {energy_level}
  - Available hours: {available_hours}
  - Preferences: {preferences}

Tasks:
{tasks}

Instructions:
- Suggest improvements or optimizations for the tasks (e.g., splitting, merging, rewording).
- Prioritize the tasks based on importance, urgency, and user preferences.
- Recommend a time allocation for each task, as an integer number of minutes (e.g., 60 for 1 hour, 90 for 1.5 hours). Do not use hours or strings like '1 hour' or '90 mins'.
- Ensure the total time fits within the user's available minutes for the day.
- If any tasks are unclear or redundant, note them.
- Return your response as a JSON object with:
  - "optimized_tasks": a list of tasks with suggested order and time allocation (in minutes, integer)
  - "suggestions": a list of optimization notes or recommendations
  - "raw_response": the full text of your analysis
`

// selectTemplate picks the scenario template, defaulting to the base one for
// unknown scenarios.
func selectTemplate(scenario string) string {
	if template, ok := scenarioTemplates[scenario]; ok {
		return template
	}
	return basePlanTemplate
}

// GenerateRequest mirrors the ai-generate request payload.
type GenerateRequest struct {
	PlanDate       string         `json:"plan_date"`
	EnergyLevel    *int           `json:"energy_level,omitempty"`
	AvailableHours *float64       `json:"available_hours,omitempty"`
	Goals          []string       `json:"goals,omitempty"`
	Preferences    map[string]any `json:"preferences,omitempty"`
	History        map[string]any `json:"history,omitempty"`
	Scenario       string         `json:"scenario,omitempty"`
}

// PromptContext is the merged view of user profile, request, and recent-plan
// history that feeds a plan-generation prompt.
type PromptContext struct {
	PlanDate       string
	CurrentTime    string
	EnergyLevel    *int
	AvailableHours *float64
	Goals          []string
	Preferences    map[string]any
	History        map[string]any
	Scenario       string
}

// BuildContext merges user defaults with request values (request wins),
// injects recent plans into history under a fixed key, and selects the
// scenario: explicit request scenario, then preference-embedded, then "base".
func BuildContext(user *model.User, req GenerateRequest, recentPlans []cache.PlanSummary, currentTime string) PromptContext {
	preferences := make(map[string]any, len(user.Preferences)+len(req.Preferences))
	for k, v := range user.Preferences {
		preferences[k] = v
	}
	for k, v := range req.Preferences {
		preferences[k] = v
	}

	availableHours := req.AvailableHours
	if availableHours == nil && user.DefaultWorkingHours != nil {
		hours := float64(*user.DefaultWorkingHours)
		availableHours = &hours
	}

	history := make(map[string]any, len(req.History)+1)
	for k, v := range req.History {
		history[k] = v
	}
	if len(recentPlans) > 0 {
		history["recent_plans"] = recentPlans
	}

	scenario := req.Scenario
	if scenario == "" {
		if s, ok := preferences["scenario"].(string); ok {
			scenario = s
		}
	}
	if scenario == "" {
		scenario = "base"
	}

	return PromptContext{
		PlanDate:       req.PlanDate,
		CurrentTime:    currentTime,
		EnergyLevel:    req.EnergyLevel,
		AvailableHours: availableHours,
		Goals:          req.Goals,
		Preferences:    preferences,
		History:        history,
		Scenario:       scenario,
	}
}

// BuildPrompt renders the scenario template for the context. Missing optional
// values render as "N/A"; empty structured values render as "{}".
func BuildPrompt(pc PromptContext) string {
	replacer := strings.NewReplacer(
		"{plan_date}", orNA(pc.PlanDate),
		"{current_time}", orNA(pc.CurrentTime),
		"{energy_level}", intOrNA(pc.EnergyLevel),
		"{available_hours}", floatOrNA(pc.AvailableHours),
		"{goals}", strings.Join(pc.Goals, ", "),
		"{preferences}", mapOrEmpty(pc.Preferences),
		"{history}", mapOrEmpty(pc.History),
	)
	return replacer.Replace(selectTemplate(pc.Scenario))
}

// BuildTaskAnalysisPrompt renders the non-scenario task-analysis template
// from a flat list of task titles.
func BuildTaskAnalysisPrompt(planDate string, energyLevel *int, availableHours *float64, preferences map[string]any, titles []string) string {
	var tasks strings.Builder
	for _, title := range titles {
		tasks.WriteString("- ")
		tasks.WriteString(title)
		tasks.WriteByte('\n')
	}
	replacer := strings.NewReplacer(
		"{plan_date}", orNA(planDate),
		"{energy_level}", intOrNA(energyLevel),
		"{available_hours}", floatOrNA(availableHours),
		"{preferences}", mapOrEmpty(preferences),
		"{tasks}", strings.TrimRight(tasks.String(), "\n"),
	)
	return replacer.Replace(taskAnalysisTemplate)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func intOrNA(v *int) string {
	if v == nil {
		return "N/A"
	}
	return strconv.Itoa(*v)
}

func floatOrNA(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

func mapOrEmpty(m map[string]any) string {
	if len(m) == 0 {
		return "{}"
	}
	encoded, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(encoded)
}
