package incidents

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// Validation messages returned to the caller as-is.
const (
	MsgInvalidJSON     = "Request body must be valid JSON"
	MsgNotAnObject     = "JSON payload must be an object"
	MsgMissingIncident = "Payload must include an 'incident' object"
)

// InvalidPayloadError reports a request body that cannot yield an Incident.
type InvalidPayloadError struct {
	Msg string
	Err error
}

func (e *InvalidPayloadError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *InvalidPayloadError) Unwrap() error { return e.Err }

// Parse decodes body and returns its "incident" object unmodified.
func Parse(body []byte) (Incident, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, &InvalidPayloadError{Msg: MsgInvalidJSON, Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &InvalidPayloadError{Msg: MsgInvalidJSON, Err: errors.New("trailing data after JSON value")}
	}

	obj, ok := v.(map[string]interface{})
	if !ok {
		return nil, &InvalidPayloadError{Msg: MsgNotAnObject}
	}
	inc, ok := obj["incident"].(map[string]interface{})
	if !ok {
		return nil, &InvalidPayloadError{Msg: MsgMissingIncident}
	}
	return Incident(inc), nil
}
