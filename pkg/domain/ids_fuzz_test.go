package domain

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// FuzzParseStudyID checks that parsing never panics and valid IDs round-trip.
func FuzzParseStudyID(f *testing.F) {
	f.Add("")
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("00000000-0000-0000-0000-000000000000")
	f.Add("not-a-uuid")
	f.Add(string([]byte{0x00, 0x01, 0x02}))

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParseStudyID(input)
		if err == nil {
			roundTrip, err2 := ParseStudyID(id.String())
			if err2 != nil {
				t.Errorf("valid ID failed round-trip: %v", err2)
			}
			if roundTrip != id {
				t.Error("round-trip changed ID value")
			}
		}
		if !utf8.ValidString(input) && err == nil {
			t.Error("non-UTF8 input was accepted")
		}
	})
}

// FuzzParseAccession checks accepted accessions are clean tokens.
func FuzzParseAccession(f *testing.F) {
	f.Add("U_73212")
	f.Add("GCA_000010565.1")
	f.Add(" a b ")
	f.Add("x,y")

	f.Fuzz(func(t *testing.T, input string) {
		acc, err := ParseAccession(input)
		if err != nil {
			return
		}
		s := acc.String()
		if s == "" || len(s) > MaxAccessionLength {
			t.Errorf("accepted out-of-range accession %q", s)
		}
		if strings.ContainsAny(s, " \t\r\n,") {
			t.Errorf("accepted accession with separator %q", s)
		}
		if !utf8.ValidString(s) {
			t.Errorf("accepted non-UTF8 accession %q", s)
		}
	})
}
