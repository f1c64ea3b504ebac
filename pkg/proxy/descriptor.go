package proxy

import "strings"

// recordPrefix marks a configured method name as record-level.
const recordPrefix = "prototype."

// Scope says whether an operation is invoked on the model itself or on an
// identified record of the model.
type Scope int

const (
	// ScopeStatic is a type-level operation, invoked on the model.
	ScopeStatic Scope = iota
	// ScopeRecord is a record-level operation, invoked against a record
	// identified by its shared identifier.
	ScopeRecord
)

func (s Scope) String() string {
	if s == ScopeRecord {
		return "record-level"
	}
	return "type-level"
}

// Descriptor names one operation to forward and the scope it lives in.
// Descriptors are parsed once, at registration.
type Descriptor struct {
	Scope Scope
	Name  string
}

// parseDescriptor turns a configured method string into a Descriptor.
// "name" is type-level; "prototype.name" is record-level.
func parseDescriptor(method string) Descriptor {
	if rest, ok := strings.CutPrefix(method, recordPrefix); ok {
		return Descriptor{Scope: ScopeRecord, Name: rest}
	}
	return Descriptor{Scope: ScopeStatic, Name: method}
}

// String renders the descriptor back in its configuration form.
func (d Descriptor) String() string {
	if d.Scope == ScopeRecord {
		return recordPrefix + d.Name
	}
	return d.Name
}
