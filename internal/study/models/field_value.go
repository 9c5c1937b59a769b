package models

import (
	"math"
	"strconv"
	"strings"

	id "studycat/pkg/domain"
	dErrors "studycat/pkg/domain-errors"
)

// FieldValue is a typed genome metadata value. Text holds the canonical form:
// "true"/"false" for BOOLEAN, base-10 for INTEGER, shortest round-trip for FLOAT.
type FieldValue struct {
	Type id.FieldType `json:"type"`
	Text string       `json:"value"`
}

var booleanWords = map[string]bool{
	"true": true, "t": true, "yes": true, "y": true, "1": true,
	"false": false, "f": false, "no": false, "n": false, "0": false,
}

// CoerceFieldValue converts raw input to the declared type.
func CoerceFieldValue(t id.FieldType, raw string) (FieldValue, error) {
	raw = strings.TrimSpace(raw)
	switch t {
	case id.FieldTypeText:
		return FieldValue{Type: t, Text: raw}, nil
	case id.FieldTypeBoolean:
		b, ok := booleanWords[strings.ToLower(raw)]
		if !ok {
			return FieldValue{}, dErrors.New(dErrors.CodeValidation, "not a boolean: "+strconv.Quote(raw))
		}
		return FieldValue{Type: t, Text: strconv.FormatBool(b)}, nil
	case id.FieldTypeInteger:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return FieldValue{}, dErrors.New(dErrors.CodeValidation, "not an integer: "+strconv.Quote(raw))
		}
		return FieldValue{Type: t, Text: strconv.FormatInt(n, 10)}, nil
	case id.FieldTypeFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return FieldValue{}, dErrors.New(dErrors.CodeValidation, "not a finite number: "+strconv.Quote(raw))
		}
		return FieldValue{Type: t, Text: strconv.FormatFloat(f, 'g', -1, 64)}, nil
	default:
		return FieldValue{}, dErrors.New(dErrors.CodeInvalidInput, "unsupported field type "+t.String())
	}
}

func (v FieldValue) Bool() (bool, bool) {
	if v.Type != id.FieldTypeBoolean {
		return false, false
	}
	b, err := strconv.ParseBool(v.Text)
	return b, err == nil
}

func (v FieldValue) Int() (int64, bool) {
	if v.Type != id.FieldTypeInteger {
		return 0, false
	}
	n, err := strconv.ParseInt(v.Text, 10, 64)
	return n, err == nil
}

// Float also reads INTEGER values.
func (v FieldValue) Float() (float64, bool) {
	if v.Type != id.FieldTypeFloat && v.Type != id.FieldTypeInteger {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.Text, 64)
	return f, err == nil
}

// Number reads the value as a finite number whatever its declared type, so
// quality fields imported as TEXT still count. BOOLEAN values never do.
func (v FieldValue) Number() (float64, bool) {
	if v.Type == id.FieldTypeBoolean {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.Text), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
