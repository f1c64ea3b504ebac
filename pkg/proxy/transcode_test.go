package proxy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/modelproxy/pkg/model"
)

func publicSchema() *model.Schema {
	return model.NewSchema("CoffeeShop", []string{"prop"})
}

func TestTranscode_RetagsRecord(t *testing.T) {
	raw := model.NewRecord("InternalShop", map[string]any{"id": "1", "prop": "hello"})

	shaped := Transcode(raw, "CoffeeShop", publicSchema(), false)

	rec, ok := shaped.(*model.Record)
	require.True(t, ok)
	assert.Equal(t, "CoffeeShop", rec.TypeName())
	v, _ := rec.Get("prop")
	assert.Equal(t, "hello", v)
}

func TestTranscode_StrictDropsUndeclaredFields(t *testing.T) {
	raw := model.NewRecord("InternalShop", map[string]any{"id": "1", "prop": "hello", "secret": "x"})

	shaped := Transcode(raw, "CoffeeShop", publicSchema(), true)

	rec, ok := shaped.(*model.Record)
	require.True(t, ok)
	assert.Equal(t, "CoffeeShop", rec.TypeName())
	v, _ := rec.Get("prop")
	assert.Equal(t, "hello", v)
	assert.False(t, rec.Has("secret"), "undeclared field must not survive strict transcoding")
	assert.True(t, rec.Has("id"))
}

func TestTranscode_NonStrictCopiesAllFields(t *testing.T) {
	raw := model.NewRecord("InternalShop", map[string]any{"id": "1", "prop": "hello", "secret": "x"})

	shaped := Transcode(raw, "CoffeeShop", publicSchema(), false)

	rec, ok := shaped.(*model.Record)
	require.True(t, ok)
	assert.Equal(t, raw.Fields(), rec.Fields(), "non-strict must be a no-op on field values")
	assert.Equal(t, "CoffeeShop", rec.TypeName(), "only the type tag changes")
}

func TestTranscode_DoesNotMutateRaw(t *testing.T) {
	raw := model.NewRecord("InternalShop", map[string]any{"id": "1", "prop": "hello", "secret": "x"})
	before := raw.Fields()

	_ = Transcode(raw, "CoffeeShop", publicSchema(), true)

	assert.Equal(t, before, raw.Fields())
	assert.Equal(t, "InternalShop", raw.TypeName())
}

func TestTranscode_Sequences(t *testing.T) {
	t.Run("record slice preserves order and length", func(t *testing.T) {
		raw := []*model.Record{
			model.NewRecord("InternalShop", map[string]any{"id": "1", "prop": "a"}),
			model.NewRecord("InternalShop", map[string]any{"id": "2", "prop": "b"}),
			model.NewRecord("InternalShop", map[string]any{"id": "3", "prop": "c"}),
		}

		shaped := Transcode(raw, "CoffeeShop", publicSchema(), false)
		out, ok := shaped.([]any)
		require.True(t, ok)
		require.Len(t, out, 3)
		for i, want := range []string{"a", "b", "c"} {
			rec := out[i].(*model.Record)
			assert.Equal(t, "CoffeeShop", rec.TypeName())
			v, _ := rec.Get("prop")
			assert.Equal(t, want, v)
		}
	})

	t.Run("mixed slice maps elements independently", func(t *testing.T) {
		raw := []any{
			model.NewRecord("InternalShop", map[string]any{"prop": "a"}),
			42,
			nil,
		}

		shaped := Transcode(raw, "CoffeeShop", publicSchema(), false)
		out, ok := shaped.([]any)
		require.True(t, ok)
		require.Len(t, out, 3)
		assert.Equal(t, "CoffeeShop", out[0].(*model.Record).TypeName())
		assert.Equal(t, 42, out[1])
		assert.Nil(t, out[2])
	})
}

func TestTranscode_Passthrough(t *testing.T) {
	tests := []struct {
		name string
		raw  any
	}{
		{name: "nil", raw: nil},
		{name: "string", raw: "plain"},
		{name: "int", raw: 7},
		{name: "int64 count", raw: int64(12)},
		{name: "bool", raw: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.raw, Transcode(tt.raw, "CoffeeShop", publicSchema(), true))
		})
	}
}

func TestTranscode_FieldMap(t *testing.T) {
	raw := map[string]any{"id": "1", "prop": "hello", "secret": "x"}

	shaped := Transcode(raw, "CoffeeShop", publicSchema(), true)

	rec, ok := shaped.(*model.Record)
	require.True(t, ok)
	assert.Equal(t, "CoffeeShop", rec.TypeName())
	assert.False(t, rec.Has("secret"))
	// The source map stays untouched.
	assert.Equal(t, "x", raw["secret"])
}
