package record

import "strings"

// Report is the outcome of checking a record against the known keys.
// Unknown keys and empty values are informational; only missing known keys
// make a record invalid.
type Report struct {
	Missing []string `json:"missing,omitempty"`
	Unknown []string `json:"unknown,omitempty"`
	Empty   []string `json:"empty,omitempty"`
}

// OK reports whether every known key is present.
func (r Report) OK() bool {
	return len(r.Missing) == 0
}

// Summary renders a one-line description of problems, or "ok".
func (r Report) Summary() string {
	if r.OK() && len(r.Unknown) == 0 {
		return "ok"
	}
	var parts []string
	if len(r.Missing) > 0 {
		parts = append(parts, "missing: "+strings.Join(r.Missing, ", "))
	}
	if len(r.Unknown) > 0 {
		parts = append(parts, "unknown: "+strings.Join(r.Unknown, ", "))
	}
	if len(parts) == 0 {
		return "ok"
	}
	return strings.Join(parts, "; ")
}

// Validate checks rec against the known keys. Missing keys are listed in
// canonical order; unknown and empty keys in record order.
func Validate(rec *Record) Report {
	var rep Report
	for _, k := range knownKeys {
		if !rec.Has(k) {
			rep.Missing = append(rep.Missing, k)
		}
	}
	for _, f := range rec.Fields() {
		if !IsKnownKey(f.Key) {
			rep.Unknown = append(rep.Unknown, f.Key)
		}
		if f.Value == "" {
			rep.Empty = append(rep.Empty, f.Key)
		}
	}
	return rep
}
