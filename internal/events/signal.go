package events

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pion/webrtc/v4"
)

// Signal is relayed verbatim apart from the sender annotation, so it keeps
// every field the client sent.
type Signal struct {
	Target string
	RoomID string

	fields map[string]json.RawMessage
}

func (*Signal) Type() string { return TypeWebRTCSignal }

func (s *Signal) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	s.fields = fields
	s.Target = stringField(fields, "target")
	s.RoomID = stringField(fields, "roomId")
	return nil
}

func (s *Signal) Validate() error {
	if blank(s.Target) {
		return missing(TypeWebRTCSignal, "target")
	}
	if blank(s.RoomID) {
		return missing(TypeWebRTCSignal, "roomId")
	}
	for _, key := range []string{"sdp", "offer", "answer", "description"} {
		if raw, ok := s.fields[key]; ok {
			if err := validateDescription(raw); err != nil {
				return fmt.Errorf("%w: webrtc-signal %s: %v", ErrMalformed, key, err)
			}
		}
	}
	if raw, ok := s.fields["candidate"]; ok {
		if err := validateCandidate(raw); err != nil {
			return fmt.Errorf("%w: webrtc-signal candidate: %v", ErrMalformed, err)
		}
	}
	if raw, ok := s.fields["signal"]; ok {
		if err := validateSignalObject(raw); err != nil {
			return fmt.Errorf("%w: webrtc-signal signal: %v", ErrMalformed, err)
		}
	}
	return nil
}

// Relay returns the payload forwarded to the target with sender set.
func (s *Signal) Relay(sender string) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(s.fields)+1)
	for k, v := range s.fields {
		out[k] = v
	}
	b, _ := json.Marshal(sender)
	out["sender"] = b
	return out
}

func stringField(fields map[string]json.RawMessage, key string) string {
	var v string
	if raw, ok := fields[key]; ok {
		_ = json.Unmarshal(raw, &v)
	}
	return v
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

type description struct {
	Type string  `json:"type"`
	SDP  *string `json:"sdp"`
}

// validateDescription checks objects that carry an sdp string. Bare strings
// (raw SDP) and other shapes pass through untouched.
func validateDescription(raw json.RawMessage) error {
	if !isObject(raw) {
		return nil
	}
	var d description
	if err := json.Unmarshal(raw, &d); err != nil {
		return err
	}
	if d.SDP == nil {
		return nil
	}
	if webrtc.NewSDPType(d.Type) == webrtc.SDPTypeUnknown {
		return fmt.Errorf("unsupported sdp type %q", d.Type)
	}
	return nil
}

func validateCandidate(raw json.RawMessage) error {
	if !isObject(raw) {
		var s *string
		return json.Unmarshal(raw, &s)
	}
	var c webrtc.ICECandidateInit
	return json.Unmarshal(raw, &c)
}

func validateSignalObject(raw json.RawMessage) error {
	if !isObject(raw) {
		return nil
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return err
	}
	if c, ok := probe["candidate"]; ok {
		return validateCandidate(c)
	}
	return validateDescription(raw)
}
