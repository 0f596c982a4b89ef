package incidents

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// MaxMessageLen is the destination's hard limit on message content, in characters.
const MaxMessageLen = 2000

const (
	ellipsis        = "..."
	timestampLayout = "2006-01-02 15:04:05Z"
	noTimestamp     = "n/a"
)

// Earliest and latest second representable as a four-digit year.
var (
	minEpoch = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC).Unix()
	maxEpoch = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC).Unix()
)

// Format renders inc as chat message text. It never fails: missing or
// malformed fields fall back to placeholders.
func Format(inc Incident) string {
	summary := inc.First("(no summary)", "summary")
	severity := inc.First("UNSPECIFIED", "severity")
	state := strings.ToUpper(inc.First("UNKNOWN", "state"))
	policy := inc.First("(no policy name)", "policy_name")
	condition := inc.First("(no condition name)", "condition_name")
	resource := inc.First("(unknown resource)",
		"resource_display_name", "resource_name", "resource.labels.instance_id")
	metric := inc.First("(unknown metric)", "metric.displayName", "metric.type")

	started, _ := inc.Lookup("started_at")
	ended, _ := inc.Lookup("ended_at")

	lines := []string{
		fmt.Sprintf("**%s**", summary),
		fmt.Sprintf("State: %s | Severity: %s", state, severity),
		fmt.Sprintf("Policy: %s | Condition: %s", policy, condition),
		fmt.Sprintf("Resource: %s", resource),
		fmt.Sprintf("Metric: %s", metric),
		fmt.Sprintf("Started: %s | Ended: %s", FormatTimestamp(started), FormatTimestamp(ended)),
	}
	if v := inc.First("", "observed_value"); v != "" {
		lines = append(lines, "Observed Value: "+v)
	}
	if v := inc.First("", "threshold_value"); v != "" {
		lines = append(lines, "Threshold: "+v)
	}
	if v := inc.First("", "url", "apigee_url"); v != "" {
		lines = append(lines, "Link: "+v)
	}

	return truncate(strings.Join(lines, "\n"), MaxMessageLen)
}

// FormatTimestamp renders epoch seconds (number or numeric string) as a UTC
// timestamp. Absent or empty values become "n/a"; anything that cannot be
// read as epoch seconds is returned in its raw form.
func FormatTimestamp(v interface{}) string {
	var raw string
	switch val := v.(type) {
	case nil:
		return noTimestamp
	case string:
		if val == "" {
			return noTimestamp
		}
		raw = val
	case json.Number:
		raw = val.String()
	case float64:
		raw = strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		// Booleans count as epoch 1 and 0.
		if val {
			raw = "1"
		} else {
			raw = "0"
		}
	default:
		return display(v)
	}

	secs, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(secs) || math.IsInf(secs, 0) {
		return raw
	}
	secs = math.Floor(secs)
	if secs < float64(minEpoch) || secs > float64(maxEpoch) {
		return raw
	}
	return time.Unix(int64(secs), 0).UTC().Format(timestampLayout)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-len(ellipsis)]) + ellipsis
}
