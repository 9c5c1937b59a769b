// Package record reads and writes study provenance records.
//
// A record is a flat list of named fields, one per line:
//
//	study_description	Genome recovery from a coalbed methane well
//	sequencing_platform	Illumina HiSeq
//	qc_program	Trimmomatic v0.36
//	genome_coverage
//
// Keys are unique within a record. Values may be empty. Field order carries no
// meaning but is preserved so an exported record reads like the authored one.
package record

// Field is a single key/value line.
type Field struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Record is an ordered set of fields with unique keys.
// The zero value is an empty record ready to use.
type Record struct {
	fields []Field
	index  map[string]int
}

// New builds a record from fields. A later duplicate key replaces the earlier
// value in place.
func New(fields ...Field) *Record {
	r := &Record{}
	for _, f := range fields {
		r.Set(f.Key, f.Value)
	}
	return r
}

// Get returns the value for key and whether the key is present.
func (r *Record) Get(key string) (string, bool) {
	if r == nil || r.index == nil {
		return "", false
	}
	i, ok := r.index[key]
	if !ok {
		return "", false
	}
	return r.fields[i].Value, true
}

// Value returns the value for key, or "" when absent.
func (r *Record) Value(key string) string {
	v, _ := r.Get(key)
	return v
}

// Has reports whether key is present.
func (r *Record) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Set replaces the value of an existing key in place or appends a new field.
func (r *Record) Set(key, value string) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if i, ok := r.index[key]; ok {
		r.fields[i].Value = value
		return
	}
	r.index[key] = len(r.fields)
	r.fields = append(r.fields, Field{Key: key, Value: value})
}

// Delete removes key and reports whether it was present.
func (r *Record) Delete(key string) bool {
	i, ok := r.index[key]
	if !ok {
		return false
	}
	r.fields = append(r.fields[:i], r.fields[i+1:]...)
	delete(r.index, key)
	for j := i; j < len(r.fields); j++ {
		r.index[r.fields[j].Key] = j
	}
	return true
}

// Len returns the number of fields.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.fields)
}

// Keys returns keys in record order.
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.Key
	}
	return keys
}

// Fields returns a copy of the fields in record order.
func (r *Record) Fields() []Field {
	if r == nil {
		return nil
	}
	return append([]Field(nil), r.fields...)
}

// Map returns the fields as a map. Order is lost.
func (r *Record) Map() map[string]string {
	m := make(map[string]string, r.Len())
	if r == nil {
		return m
	}
	for _, f := range r.fields {
		m[f.Key] = f.Value
	}
	return m
}

// Clone returns a deep copy.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	return New(r.fields...)
}
