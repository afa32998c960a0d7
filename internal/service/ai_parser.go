package service

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Provider responses arrive as free text, usually JSON wrapped in a markdown
// code fence. Parse failures are never fatal: they degrade to an empty but
// well-shaped result carrying the raw text.

var (
	codeFencePattern      = regexp.MustCompile("(?m)^```(?:json)?\\s*|```$")
	timeAllocationPattern = regexp.MustCompile(`^([\d.]+)\s*(hours?|hrs?|h|minutes?|mins?|m)$`)
)

// stripCodeFence removes leading/trailing markdown code-fence markers,
// optionally tagged "json".
func stripCodeFence(raw string) string {
	return strings.TrimSpace(codeFencePattern.ReplaceAllString(strings.TrimSpace(raw), ""))
}

// parsePlanResponse parses a plan-generation response. A list-valued notes
// field joins with newlines; other non-null notes coerce to string.
func parsePlanResponse(raw string) *GenerateResponse {
	var parsed struct {
		Schedule map[string]any  `json:"schedule"`
		Notes    json.RawMessage `json:"notes"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &parsed); err != nil {
		return &GenerateResponse{Schedule: map[string]any{}, RawResponse: raw}
	}
	if parsed.Schedule == nil {
		parsed.Schedule = map[string]any{}
	}
	return &GenerateResponse{
		Schedule:    parsed.Schedule,
		Notes:       normalizeNotes(parsed.Notes),
		RawResponse: raw,
	}
}

func normalizeNotes(raw json.RawMessage) *string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var list []any
	if err := json.Unmarshal(raw, &list); err == nil {
		parts := make([]string, len(list))
		for i, item := range list {
			parts[i] = fmt.Sprint(item)
		}
		joined := strings.Join(parts, "\n")
		return &joined
	}
	var scalar any
	if err := json.Unmarshal(raw, &scalar); err != nil {
		return nil
	}
	text := fmt.Sprint(scalar)
	return &text
}

// parseTaskAnalysisResponse parses a task-analysis response and coerces every
// time_allocation to integer minutes.
func parseTaskAnalysisResponse(raw string) *TaskAnalysisResponse {
	var parsed struct {
		OptimizedTasks []map[string]any `json:"optimized_tasks"`
		Suggestions    []string         `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &parsed); err != nil {
		return &TaskAnalysisResponse{
			OptimizedTasks: []map[string]any{},
			Suggestions:    []string{"Failed to parse AI response. See raw_response."},
			RawResponse:    raw,
		}
	}
	if parsed.OptimizedTasks == nil {
		parsed.OptimizedTasks = []map[string]any{}
	}
	if parsed.Suggestions == nil {
		parsed.Suggestions = []string{}
	}
	for _, task := range parsed.OptimizedTasks {
		if minutes := ParseTimeAllocation(task["time_allocation"]); minutes != nil {
			task["time_allocation"] = *minutes
		} else {
			task["time_allocation"] = nil
		}
	}
	return &TaskAnalysisResponse{
		OptimizedTasks: parsed.OptimizedTasks,
		Suggestions:    parsed.Suggestions,
		RawResponse:    raw,
	}
}

// ParseTimeAllocation coerces a provider-supplied time allocation to integer
// minutes. Hour-family suffixes multiply by 60; minute-family values round;
// bare numbers round. Unparseable values yield nil, not zero.
func ParseTimeAllocation(value any) *int {
	switch v := value.(type) {
	case int:
		n := v
		return &n
	case float64:
		n := int(math.Round(v))
		return &n
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		if m := timeAllocationPattern.FindStringSubmatch(s); m != nil {
			num, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				return nil
			}
			if strings.HasPrefix(m[2], "h") {
				n := int(math.Round(num * 60))
				return &n
			}
			n := int(math.Round(num))
			return &n
		}
		if num, err := strconv.ParseFloat(s, 64); err == nil {
			n := int(math.Round(num))
			return &n
		}
		return nil
	default:
		return nil
	}
}
