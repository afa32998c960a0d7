package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlanResponseStripsCodeFence(t *testing.T) {
	raw := "```json\n{\"schedule\": {\"09:00\": \"deep work\"}, \"notes\": \"short day\"}\n```"
	resp := parsePlanResponse(raw)
	assert.Equal(t, map[string]any{"09:00": "deep work"}, resp.Schedule)
	require.NotNil(t, resp.Notes)
	assert.Equal(t, "short day", *resp.Notes)
	assert.Equal(t, raw, resp.RawResponse)
}

func TestParsePlanResponseInvalidJSONDegrades(t *testing.T) {
	raw := "```json\nI cannot produce a plan today, sorry.\n```"
	resp := parsePlanResponse(raw)
	assert.Empty(t, resp.Schedule)
	assert.NotNil(t, resp.Schedule)
	assert.Nil(t, resp.Notes)
	// The raw text survives verbatim, fence included.
	assert.Equal(t, raw, resp.RawResponse)
}

func TestParsePlanResponseNotesVariants(t *testing.T) {
	listResp := parsePlanResponse(`{"schedule": {}, "notes": ["drink water", "stretch"]}`)
	require.NotNil(t, listResp.Notes)
	assert.Equal(t, "drink water\nstretch", *listResp.Notes)

	nullResp := parsePlanResponse(`{"schedule": {}, "notes": null}`)
	assert.Nil(t, nullResp.Notes)

	missingResp := parsePlanResponse(`{"schedule": {}}`)
	assert.Nil(t, missingResp.Notes)
}

func TestParseTaskAnalysisResponseCoercesTimeAllocations(t *testing.T) {
	resp := parseTaskAnalysisResponse(`{
		"optimized_tasks": [
			{"title": "a", "time_allocation": "1.5 hours"},
			{"title": "b", "time_allocation": 45},
			{"title": "c", "time_allocation": "garbage"}
		],
		"suggestions": ["split a"]
	}`)
	require.Len(t, resp.OptimizedTasks, 3)
	assert.Equal(t, 90, resp.OptimizedTasks[0]["time_allocation"])
	assert.Equal(t, 45, resp.OptimizedTasks[1]["time_allocation"])
	assert.Nil(t, resp.OptimizedTasks[2]["time_allocation"])
	assert.Equal(t, []string{"split a"}, resp.Suggestions)
}

func TestParseTaskAnalysisResponseInvalidJSONDegrades(t *testing.T) {
	raw := "Here is my analysis: do less."
	resp := parseTaskAnalysisResponse(raw)
	assert.Empty(t, resp.OptimizedTasks)
	assert.Equal(t, []string{"Failed to parse AI response. See raw_response."}, resp.Suggestions)
	assert.Equal(t, raw, resp.RawResponse)
}

func TestParseTimeAllocation(t *testing.T) {
	cases := []struct {
		name  string
		value any
		want  *int
	}{
		{"integer", 90, intPtr(90)},
		{"float rounds", 89.6, intPtr(90)},
		{"fractional hours", "1.5 hours", intPtr(90)},
		{"single hour", "1 hour", intPtr(60)},
		{"hr abbreviation", "2 hrs", intPtr(120)},
		{"minutes", "90 min", intPtr(90)},
		{"mins plural", "45 mins", intPtr(45)},
		{"bare m", "30m", intPtr(30)},
		{"numeric string", "75", intPtr(75)},
		{"mixed case spacing", "  1.5 Hours ", intPtr(90)},
		{"garbage", "garbage", nil},
		{"nil", nil, nil},
		{"bool", true, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseTimeAllocation(tc.value)
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tc.want, *got)
		})
	}
}
