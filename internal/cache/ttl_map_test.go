package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTTLMap_GetFresh(t *testing.T) {
	m := NewTTLMap[string, int]()
	now := time.Unix(1000, 0)

	m.SetWithTTL("a", 1, now, 30*time.Second)

	got, ok := m.GetFresh("a", now.Add(29*time.Second))
	require.True(t, ok)
	require.Equal(t, 1, got)

	_, ok = m.GetFresh("a", now.Add(30*time.Second))
	require.False(t, ok, "entry expires exactly at now+ttl")

	_, ok = m.GetFresh("missing", now)
	require.False(t, ok)
}

func TestTTLMap_NoExpiry(t *testing.T) {
	m := NewTTLMap[string, int]()
	now := time.Unix(1000, 0)

	m.SetWithTTL("a", 1, now, 0)

	got, ok := m.GetFresh("a", now.Add(1000*time.Hour))
	require.True(t, ok)
	require.Equal(t, 1, got)
}

func TestTTLMap_Delete(t *testing.T) {
	m := NewTTLMap[string, int]()
	now := time.Unix(1000, 0)

	m.SetWithTTL("a", 1, now, time.Minute)
	require.Equal(t, 1, m.Len())

	m.Delete("a")
	_, ok := m.GetFresh("a", now)
	require.False(t, ok)
	require.Equal(t, 0, m.Len())
}

func TestTTLMap_NilReceiverIsNoop(t *testing.T) {
	var m *TTLMap[string, int]
	now := time.Unix(1000, 0)

	m.SetWithTTL("a", 1, now, time.Minute)
	_, ok := m.GetFresh("a", now)
	require.False(t, ok)
	m.Delete("a")
	require.Equal(t, 0, m.Len())
}

func TestTTLMap_OverwriteReplacesValueAndExpiry(t *testing.T) {
	m := NewTTLMap[string, int]()
	now := time.Unix(1000, 0)

	m.SetWithTTL("a", 1, now, time.Second)
	m.SetWithTTL("a", 2, now, time.Minute)

	got, ok := m.GetFresh("a", now.Add(30*time.Second))
	require.True(t, ok)
	require.Equal(t, 2, got)
}
