package record

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Encode writes rec in the text format, one key<TAB>value line per field in
// record order. A field with an empty value is written as the bare key.
func Encode(w io.Writer, rec *Record) error {
	bw := bufio.NewWriter(w)
	for _, f := range rec.Fields() {
		if err := checkEncodable(f); err != nil {
			return err
		}
		var err error
		if f.Value == "" {
			_, err = fmt.Fprintf(bw, "%s\n", f.Key)
		} else {
			_, err = fmt.Fprintf(bw, "%s\t%s\n", f.Key, f.Value)
		}
		if err != nil {
			return fmt.Errorf("write field %q: %w", f.Key, err)
		}
	}
	return bw.Flush()
}

// String renders rec in the text format. Unencodable fields are skipped.
func (r *Record) String() string {
	var sb strings.Builder
	for _, f := range r.Fields() {
		if checkEncodable(f) != nil {
			continue
		}
		sb.WriteString(f.Key)
		if f.Value != "" {
			sb.WriteByte('\t')
			sb.WriteString(f.Value)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func checkEncodable(f Field) error {
	if err := ValidateKey(f.Key); err != nil {
		return err
	}
	return ValidateValue(f.Key, f.Value)
}

// ValidateValue reports whether value reads back unchanged under key. The
// parser trims surrounding whitespace and ends a value at the line break.
func ValidateValue(key, value string) error {
	if strings.ContainsAny(value, "\n\r") {
		return fmt.Errorf("value of %q contains a line break", key)
	}
	if strings.TrimSpace(value) != value {
		return fmt.Errorf("value of %q has leading or trailing whitespace", key)
	}
	return nil
}

// ValidateKey reports whether key can round-trip through the text format.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	if strings.HasPrefix(key, "#") {
		return fmt.Errorf("key %q would be read back as a comment", key)
	}
	if strings.ContainsAny(key, " \t\r\n\v\f") {
		return fmt.Errorf("key %q contains whitespace", key)
	}
	return nil
}

// EncodeYAML writes rec as a YAML mapping, preserving field order.
func EncodeYAML(w io.Writer, rec *Record) error {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range rec.Fields() {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: f.Key},
			&yaml.Node{Kind: yaml.ScalarNode, Value: f.Value, Tag: "!!str"},
		)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// DecodeYAML reads a flat YAML mapping of scalar values into a record.
func DecodeYAML(r io.Reader) (*Record, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return &Record{}, nil
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	node := &doc
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("decode yaml: record must be a mapping")
	}
	rec := &Record{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return nil, &ParseError{Line: k.Line, Msg: fmt.Sprintf("value of %q must be a scalar", k.Value)}
		}
		if rec.Has(k.Value) {
			return nil, &ParseError{Line: k.Line, Msg: fmt.Sprintf("duplicate key %q", k.Value)}
		}
		val := v.Value
		if v.Tag == "!!null" {
			val = ""
		}
		rec.Set(k.Value, val)
	}
	return rec, nil
}
