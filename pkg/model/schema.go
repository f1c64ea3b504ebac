package model

// Schema is the set of field names a model declares. It is consulted when a
// proxy runs in strict mode to decide which fields survive transcoding.
type Schema struct {
	name   string
	fields []string
	index  map[string]struct{}
}

// NewSchema creates a schema for the named model with the given declared
// field names. The identifier field is always declared.
func NewSchema(name string, fields []string) *Schema {
	s := &Schema{
		name:  name,
		index: make(map[string]struct{}, len(fields)+1),
	}
	s.index[IDField] = struct{}{}
	s.fields = append(s.fields, IDField)
	for _, f := range fields {
		if _, ok := s.index[f]; ok {
			continue
		}
		s.index[f] = struct{}{}
		s.fields = append(s.fields, f)
	}
	return s
}

// Name returns the model name the schema belongs to.
func (s *Schema) Name() string {
	return s.name
}

// FieldNames returns the declared field names in declaration order.
func (s *Schema) FieldNames() []string {
	out := make([]string, len(s.fields))
	copy(out, s.fields)
	return out
}

// Has reports whether the schema declares a field of the given name.
func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Len returns the number of declared fields.
func (s *Schema) Len() int {
	return len(s.fields)
}
