// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package tracing

import (
	"errors"
	"net/url"
	"strings"
)

// DefaultEndpoint is the literal config value selecting the backend's
// built-in agent address.
const DefaultEndpoint = "default"

var errMissingHost = errors.New("missing host")

// AgentEndpoint is either the backend's default agent address or an
// explicit, validated absolute URL. The zero value is the default.
type AgentEndpoint struct {
	url *url.URL
}

// DefaultAgentEndpoint selects the backend's built-in agent address.
func DefaultAgentEndpoint() AgentEndpoint {
	return AgentEndpoint{}
}

// ParseAgentEndpoint resolves a config value into an AgentEndpoint.
// "default" selects the default endpoint. Anything else is parsed as a
// URL, with "http://" prepended when no scheme is present.
func ParseAgentEndpoint(s string) (AgentEndpoint, error) {
	if s == DefaultEndpoint {
		return DefaultAgentEndpoint(), nil
	}

	raw := s
	if !hasScheme(raw) {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return AgentEndpoint{}, &ConfigValidationError{Field: "endpoint", Value: s, Cause: err}
	}
	if u.Host == "" {
		return AgentEndpoint{}, &ConfigValidationError{Field: "endpoint", Value: s, Cause: errMissingHost}
	}
	return AgentEndpoint{url: u}, nil
}

// hasScheme reports whether s starts with "<scheme>://", where scheme
// is ALPHA *( ALPHA / DIGIT / "+" / "-" / "." ) as in RFC 3986.
func hasScheme(s string) bool {
	scheme, _, found := strings.Cut(s, "://")
	if !found || scheme == "" {
		return false
	}
	for i, c := range scheme {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case i > 0 && ('0' <= c && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return true
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface so
// endpoints are resolved while the config is being decoded.
func (e *AgentEndpoint) UnmarshalText(b []byte) error {
	ep, err := ParseAgentEndpoint(string(b))
	if err != nil {
		return err
	}
	*e = ep
	return nil
}

// MarshalText implements the [encoding.TextMarshaler] interface.
func (e AgentEndpoint) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// IsDefault reports whether the default agent address should be used.
func (e AgentEndpoint) IsDefault() bool {
	return e.url == nil
}

// URL returns a copy of the explicit URL. ok is false for the default endpoint.
func (e AgentEndpoint) URL() (u *url.URL, ok bool) {
	if e.url == nil {
		return nil, false
	}
	cp := *e.url
	return &cp, true
}

// String returns "default" or the explicit URL.
func (e AgentEndpoint) String() string {
	if e.url == nil {
		return DefaultEndpoint
	}
	return e.url.String()
}
