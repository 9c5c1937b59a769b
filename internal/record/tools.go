package record

import (
	"strings"
	"unicode"
)

// ToolRef names an external program and, when recorded, its version.
type ToolRef struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// ParseToolRef splits a trailing version token from a tool line.
//
//	"Trimmomatic v0.36" -> {Trimmomatic 0.36}
//	"CheckM 1.0.7"      -> {CheckM 1.0.7}
//	"CLC"               -> {CLC}
//
// A version token starts with a digit, or with 'v'/'V' followed by a digit.
// The leading 'v' is dropped.
func ParseToolRef(s string) ToolRef {
	s = strings.TrimSpace(s)
	if s == "" {
		return ToolRef{}
	}
	i := strings.LastIndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return ToolRef{Name: s}
	}
	name := strings.TrimSpace(s[:i])
	last := s[i+1:]
	if v, ok := versionToken(last); ok && name != "" {
		return ToolRef{Name: name, Version: v}
	}
	return ToolRef{Name: s}
}

func versionToken(tok string) (string, bool) {
	if tok == "" {
		return "", false
	}
	if tok[0] == 'v' || tok[0] == 'V' {
		tok = tok[1:]
	}
	if tok == "" || tok[0] < '0' || tok[0] > '9' {
		return "", false
	}
	return tok, true
}

func (t ToolRef) String() string {
	if t.Version == "" {
		return t.Name
	}
	return t.Name + " v" + t.Version
}

// IsZero reports whether no tool is recorded.
func (t ToolRef) IsZero() bool {
	return t.Name == ""
}

// Tools returns the tool recorded for each stage that has a non-empty value.
func (r *Record) Tools() map[Stage]ToolRef {
	out := make(map[Stage]ToolRef)
	for _, sk := range stageKeys {
		v := r.Value(sk.key)
		if v == "" {
			continue
		}
		if sk.stage == StageRefinement {
			out[sk.stage] = ToolRef{Name: v}
			continue
		}
		out[sk.stage] = ParseToolRef(v)
	}
	return out
}
