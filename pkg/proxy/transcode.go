package proxy

import (
	"github.com/leapstack-labs/modelproxy/pkg/model"
)

// Transcode reshapes a raw result from an internal model so it presents as
// the target (public) type:
//
//   - slices are mapped element-wise, preserving order and length;
//   - a single record is re-tagged with targetType; in strict mode only
//     fields declared by schema are copied, otherwise every source field is;
//   - nil and primitive values pass through unchanged.
//
// Transcode is pure: it allocates new records and never mutates raw.
func Transcode(raw any, targetType string, schema *model.Schema, strict bool) any {
	switch v := raw.(type) {
	case nil:
		return nil
	case *model.Record:
		return transcodeRecord(v, targetType, schema, strict)
	case []*model.Record:
		out := make([]any, len(v))
		for i, rec := range v {
			out[i] = Transcode(rec, targetType, schema, strict)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = Transcode(elem, targetType, schema, strict)
		}
		return out
	case map[string]any:
		return transcodeRecord(model.NewRecord("", v), targetType, schema, strict)
	default:
		return raw
	}
}

func transcodeRecord(rec *model.Record, targetType string, schema *model.Schema, strict bool) *model.Record {
	if rec == nil {
		return nil
	}
	fields := make(map[string]any, rec.Len())
	for name, value := range rec.Fields() {
		if strict && (schema == nil || !schema.Has(name)) {
			continue
		}
		fields[name] = value
	}
	return model.NewRecord(targetType, fields)
}
