package incidents

import (
	"encoding/json"
	"strings"
)

// Incident is the alert object carried under the "incident" key of the
// request body. Values are kept as decoded; numbers are json.Number.
type Incident map[string]interface{}

// Lookup walks nested objects along path. A missing key or a non-object
// intermediate yields (nil, false).
func (inc Incident) Lookup(path ...string) (interface{}, bool) {
	var cur interface{} = map[string]interface{}(inc)
	for _, key := range path {
		obj, ok := asObject(cur)
		if !ok {
			return nil, false
		}
		cur, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// First returns the display text of the first truthy value among the given
// dotted paths, or def when none is set.
func (inc Incident) First(def string, paths ...string) string {
	for _, p := range paths {
		v, ok := inc.Lookup(strings.Split(p, ".")...)
		if ok && truthy(v) {
			return display(v)
		}
	}
	return def
}

func asObject(v interface{}) (map[string]interface{}, bool) {
	switch obj := v.(type) {
	case map[string]interface{}:
		return obj, true
	case Incident:
		return obj, true
	}
	return nil, false
}

// truthy mirrors the loose notion of "set" used by alerting payloads:
// null, "", 0, false and empty containers count as unset.
func truthy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return true
		}
		return f != 0
	case float64:
		return val != 0
	case int:
		return val != 0
	case int64:
		return val != 0
	case map[string]interface{}:
		return len(val) > 0
	case []interface{}:
		return len(val) > 0
	}
	return true
}

func display(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
