package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamespace_LookupGatedOnBoot(t *testing.T) {
	ns := NewNamespace()
	ns.Add(New("CoffeeShop", nil))

	_, ok := ns.Lookup("CoffeeShop")
	assert.False(t, ok, "names must not resolve before boot")
	assert.False(t, ns.Booted())

	ns.Boot()
	require.True(t, ns.Booted())

	m, ok := ns.Lookup("CoffeeShop")
	require.True(t, ok)
	assert.Equal(t, "CoffeeShop", m.Name())

	_, ok = ns.Lookup("Missing")
	assert.False(t, ok)
}

func TestNamespace_LastAddWins(t *testing.T) {
	ns := NewNamespace()
	first := New("CoffeeShop", nil)
	second := New("CoffeeShop", nil)
	ns.Add(first)
	ns.Add(second)
	ns.Boot()

	m, ok := ns.Lookup("CoffeeShop")
	require.True(t, ok)
	assert.Same(t, second, m)
	assert.Equal(t, 1, ns.Count())
}

func TestNamespace_ModelsSortedAndPreBoot(t *testing.T) {
	ns := NewNamespace()
	ns.Add(New("Zebra", nil))
	ns.Add(New("Alpha", nil))

	models := ns.Models()
	require.Len(t, models, 2, "enumeration works before boot")
	assert.Equal(t, "Alpha", models[0].Name())
	assert.Equal(t, "Zebra", models[1].Name())
}
