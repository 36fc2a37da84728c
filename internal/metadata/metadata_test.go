package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddKeepsOrder(t *testing.T) {
	m := New()
	m.Add("b", "1")
	m.Add("a", "2")
	m.Add("b", "3")

	assert.Equal(t, []string{"b", "a"}, m.Keys())
	assert.Equal(t, []string{"1", "3"}, m.Values("b"))
	assert.Equal(t, "1", m.Get("b"))
}

func TestSetReplaces(t *testing.T) {
	m := New()
	m.Add("k", "old", "older")
	m.Set("k", "new")
	assert.Equal(t, []string{"new"}, m.Values("k"))
}

func TestSetIfEmpty(t *testing.T) {
	m := New()
	m.SetIfEmpty("k", "first")
	m.SetIfEmpty("k", "second")
	assert.Equal(t, "first", m.Get("k"))
}

func TestRemove(t *testing.T) {
	m := New()
	m.Add("a", "1")
	m.Add("b", "2")
	m.Remove("a")

	assert.False(t, m.Has("a"))
	assert.Equal(t, []string{"b"}, m.Keys())
}

func TestCloneIsIndependent(t *testing.T) {
	m := New()
	m.Add("k", "v")

	c := m.Clone()
	c.Add("k", "extra")
	c.Add("other", "x")

	assert.Equal(t, []string{"v"}, m.Values("k"))
	assert.False(t, m.Has("other"))
}

func TestStringSortedDump(t *testing.T) {
	m := New()
	m.Add("z", "1")
	m.Add("a", "2", "3")

	assert.Equal(t, "a = 2\na = 3\nz = 1\n", m.String())
}
