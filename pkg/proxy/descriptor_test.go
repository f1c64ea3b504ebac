package proxy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDescriptor(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		wantScope Scope
		wantName  string
	}{
		{
			name:      "type-level",
			method:    "create",
			wantScope: ScopeStatic,
			wantName:  "create",
		},
		{
			name:      "record-level",
			method:    "prototype.updateAttributes",
			wantScope: ScopeRecord,
			wantName:  "updateAttributes",
		},
		{
			name:      "prefix only strips once",
			method:    "prototype.prototype.x",
			wantScope: ScopeRecord,
			wantName:  "prototype.x",
		},
		{
			name:      "dotted name without prefix stays type-level",
			method:    "nested.op",
			wantScope: ScopeStatic,
			wantName:  "nested.op",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := parseDescriptor(tt.method)
			assert.Equal(t, tt.wantScope, d.Scope)
			assert.Equal(t, tt.wantName, d.Name)
			assert.Equal(t, tt.method, d.String(), "String should round-trip")
		})
	}
}

func TestScopeString(t *testing.T) {
	assert.Equal(t, "type-level", ScopeStatic.String())
	assert.Equal(t, "record-level", ScopeRecord.String())
}
