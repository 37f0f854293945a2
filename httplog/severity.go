package httplog

import "strings"

// Severity selects the sink method used for every entry. The zero value is SeverityInfo.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityDebug
	SeverityWarn
	SeverityError
)

var severityNames = map[Severity]string{
	SeverityInfo:  "INFO",
	SeverityDebug: "DEBUG",
	SeverityWarn:  "WARN",
	SeverityError: "ERROR",
}

// String returns the canonical name; unknown values render as INFO
func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return severityNames[SeverityInfo]
}

// ParseSeverity never fails: the match is case-insensitive and anything
// unrecognized, including the empty string, yields SeverityInfo.
func ParseSeverity(value string) Severity {
	value = strings.TrimSpace(value)
	for s, name := range severityNames {
		if strings.EqualFold(name, value) {
			return s
		}
	}
	return SeverityInfo
}

// MarshalText implements encoding.TextMarshaler
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler with the ParseSeverity fallback; it never returns an error.
func (s *Severity) UnmarshalText(text []byte) error {
	*s = ParseSeverity(string(text))
	return nil
}
