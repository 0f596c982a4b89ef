package incidents

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, body string) Incident {
	t.Helper()
	inc, err := Parse([]byte(body))
	require.NoError(t, err)
	return inc
}

func TestFormatEmptyIncidentUsesPlaceholders(t *testing.T) {
	got := Format(Incident{})

	want := strings.Join([]string{
		"**(no summary)**",
		"State: UNKNOWN | Severity: UNSPECIFIED",
		"Policy: (no policy name) | Condition: (no condition name)",
		"Resource: (unknown resource)",
		"Metric: (unknown metric)",
		"Started: n/a | Ended: n/a",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestFormatDiskFull(t *testing.T) {
	inc := mustParse(t, `{"incident": {"summary": "Disk full", "state": "open", "severity": "critical", "observed_value": 95}}`)

	got := Format(inc)
	assert.True(t, strings.HasPrefix(got, "**Disk full**"))
	assert.Contains(t, got, "State: OPEN | Severity: critical")
	assert.Contains(t, got, "Observed Value: 95")
	assert.NotContains(t, got, "Threshold:")
	assert.NotContains(t, got, "Link:")
}

func TestFormatAllFields(t *testing.T) {
	inc := mustParse(t, `{"incident": {
		"summary": "CPU high",
		"severity": "warning",
		"state": "Closed",
		"policy_name": "cpu-policy",
		"condition_name": "cpu > 90%",
		"resource_name": "projects/p/instances/vm-1",
		"metric": {"type": "compute.googleapis.com/instance/cpu/utilization"},
		"started_at": 1700000000,
		"ended_at": "1700000600",
		"observed_value": "0.97",
		"threshold_value": 0.9,
		"url": "https://console.example/incidents/1",
		"apigee_url": "https://apigee.example/1"
	}}`)

	want := strings.Join([]string{
		"**CPU high**",
		"State: CLOSED | Severity: warning",
		"Policy: cpu-policy | Condition: cpu > 90%",
		"Resource: projects/p/instances/vm-1",
		"Metric: compute.googleapis.com/instance/cpu/utilization",
		"Started: 2023-11-14 22:13:20Z | Ended: 2023-11-14 22:23:20Z",
		"Observed Value: 0.97",
		"Threshold: 0.9",
		"Link: https://console.example/incidents/1",
	}, "\n")
	assert.Equal(t, want, Format(inc))
}

func TestFormatFallbackCandidates(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"display name wins", `{"resource_display_name": "vm-1", "resource_name": "r", "resource": {"labels": {"instance_id": "i"}}}`, "Resource: vm-1"},
		{"empty display name skipped", `{"resource_display_name": "", "resource_name": "r"}`, "Resource: r"},
		{"instance id", `{"resource": {"labels": {"instance_id": "i-123"}}}`, "Resource: i-123"},
		{"resource not an object", `{"resource": "vm"}`, "Resource: (unknown resource)"},
		{"labels not an object", `{"resource": {"labels": ["x"]}}`, "Resource: (unknown resource)"},
		{"metric display name", `{"metric": {"displayName": "CPU", "type": "cpu/util"}}`, "Metric: CPU"},
		{"metric type", `{"metric": {"displayName": null, "type": "cpu/util"}}`, "Metric: cpu/util"},
		{"metric not an object", `{"metric": 7}`, "Metric: (unknown metric)"},
		{"apigee url", `{"url": "", "apigee_url": "https://apigee.example"}`, "Link: https://apigee.example"},
		{"numeric summary", `{"summary": 5}`, "**5**"},
		{"zero summary", `{"summary": 0}`, "**(no summary)**"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inc := mustParse(t, `{"incident": `+tt.body+`}`)
			assert.Contains(t, Format(inc), tt.want)
		})
	}
}

func TestFormatZeroValuesSuppressConditionalLines(t *testing.T) {
	inc := mustParse(t, `{"incident": {"observed_value": 0, "threshold_value": "", "url": null, "apigee_url": false}}`)

	got := Format(inc)
	assert.NotContains(t, got, "Observed Value:")
	assert.NotContains(t, got, "Threshold:")
	assert.NotContains(t, got, "Link:")
	assert.Len(t, strings.Split(got, "\n"), 6)
}

func TestFormatTruncatesLongMessages(t *testing.T) {
	inc := Incident{"summary": strings.Repeat("x", 3000)}

	got := Format(inc)
	assert.Equal(t, MaxMessageLen, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.True(t, strings.HasPrefix(got, "**xxx"))
}

func TestFormatTruncatesOneOverLimit(t *testing.T) {
	base := Format(Incident{"summary": ""})
	pad := MaxMessageLen - len(base) + len("(no summary)") + 1
	inc := Incident{"summary": strings.Repeat("y", pad)}

	got := Format(inc)
	assert.Equal(t, MaxMessageLen, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, strings.Repeat("y", MaxMessageLen-len("**")-len("...")), strings.TrimSuffix(strings.TrimPrefix(got, "**"), "..."))
}

func TestFormatTruncatesByCharacter(t *testing.T) {
	inc := Incident{"summary": strings.Repeat("é", 2500)}

	got := Format(inc)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, MaxMessageLen, utf8.RuneCountInString(got))
}

func TestFormatExactlyAtLimitIsUntouched(t *testing.T) {
	base := Format(Incident{"summary": ""})
	pad := MaxMessageLen - len(base) + len("(no summary)")
	inc := Incident{"summary": strings.Repeat("y", pad)}

	got := Format(inc)
	assert.Len(t, got, MaxMessageLen)
	assert.False(t, strings.HasSuffix(got, "..."))
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want string
	}{
		{"nil", nil, "n/a"},
		{"empty string", "", "n/a"},
		{"zero", json.Number("0"), "1970-01-01 00:00:00Z"},
		{"zero string", "0", "1970-01-01 00:00:00Z"},
		{"float64", float64(86400), "1970-01-02 00:00:00Z"},
		{"fractional", json.Number("1700000000.75"), "2023-11-14 22:13:20Z"},
		{"negative fractional", "-1.5", "1969-12-31 23:59:58Z"},
		{"padded string", " 1700000000 ", "2023-11-14 22:13:20Z"},
		{"exponent", json.Number("1e9"), "2001-09-09 01:46:40Z"},
		{"not numeric", "yesterday", "yesterday"},
		{"rfc3339", "2024-01-01T00:00:00Z", "2024-01-01T00:00:00Z"},
		{"nan", "NaN", "NaN"},
		{"infinity", "inf", "inf"},
		{"out of range", json.Number("1e20"), "1e20"},
		{"true", true, "1970-01-01 00:00:01Z"},
		{"false", false, "1970-01-01 00:00:00Z"},
		{"object", map[string]interface{}{"s": "1"}, `{"s":"1"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTimestamp(tt.in))
		})
	}
}

func TestFormatTimestampPlaceholderIsStable(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t, "n/a", FormatTimestamp(nil))
		assert.Equal(t, "n/a", FormatTimestamp(""))
	}
}

func TestFormatBooleanTimestamps(t *testing.T) {
	inc := mustParse(t, `{"incident": {"started_at": true, "ended_at": false}}`)
	assert.Contains(t, Format(inc), "Started: 1970-01-01 00:00:01Z | Ended: 1970-01-01 00:00:00Z")
}

func TestFormatStartedAtZero(t *testing.T) {
	inc := mustParse(t, `{"incident": {"started_at": 0}}`)
	assert.Contains(t, Format(inc), "Started: 1970-01-01 00:00:00Z | Ended: n/a")
}
