package model

import (
	"github.com/go-viper/mapstructure/v2"
)

// IDField is the field name that carries a record's identifier.
const IDField = "id"

// Record is a snapshot of a stored record, tagged with the type name of the
// model it presents as. The tag is what callers observe; two records with
// identical fields but different tags are instances of different types.
type Record struct {
	typeName string
	fields   map[string]any
}

// NewRecord creates a record tagged with typeName. The fields map is used
// as-is; callers hand over ownership.
func NewRecord(typeName string, fields map[string]any) *Record {
	if fields == nil {
		fields = make(map[string]any)
	}
	return &Record{typeName: typeName, fields: fields}
}

// TypeName returns the type name this record is tagged with.
func (r *Record) TypeName() string {
	return r.typeName
}

// ID returns the record's identifier, or "" if it has none.
func (r *Record) ID() string {
	id, _ := r.fields[IDField].(string)
	return id
}

// Get returns the value of a named field.
func (r *Record) Get(name string) (any, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// Has reports whether the record carries a field of the given name.
func (r *Record) Has(name string) bool {
	_, ok := r.fields[name]
	return ok
}

// Fields returns a copy of the record's fields.
func (r *Record) Fields() map[string]any {
	out := make(map[string]any, len(r.fields))
	for k, v := range r.fields {
		out[k] = v
	}
	return out
}

// Len returns the number of fields on the record.
func (r *Record) Len() int {
	return len(r.fields)
}

// Decode unmarshals the record's fields into dst, which must be a pointer to
// a struct or map. Field matching follows mapstructure conventions.
func (r *Record) Decode(dst any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  dst,
		TagName: "json",
	})
	if err != nil {
		return err
	}
	return dec.Decode(r.fields)
}
