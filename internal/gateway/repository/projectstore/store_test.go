package projectstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"promptcanvas/internal/canvas"
)

func fileStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "projects.json"))
}

func TestPutGet_RoundTrip(t *testing.T) {
	s := fileStore(t)
	s.Put(State{
		ProjectID: "p1",
		UserID:    "u1",
		Prompt:    "neon",
		Snapshot: canvas.Snapshot{Nodes: []canvas.Node{
			{ID: "t1", Kind: canvas.KindText, Text: "city"},
		}},
	})
	got, ok := s.Get("p1")
	require.True(t, ok)
	require.Equal(t, "Project", got.ProjectName) // default applied
	require.Equal(t, "neon", got.Prompt)
	require.Len(t, got.Snapshot.Nodes, 1)
}

func TestGet_MissingProject(t *testing.T) {
	s := fileStore(t)
	_, ok := s.Get("nope")
	require.False(t, ok)
	_, ok = s.Get("  ")
	require.False(t, ok)
}

func TestPut_NormalizesNodeIDs(t *testing.T) {
	s := fileStore(t)
	s.Put(State{
		ProjectID: "p1",
		Snapshot: canvas.Snapshot{Nodes: []canvas.Node{
			{Kind: canvas.KindText, Text: "first"},
			{ID: "dup", Kind: canvas.KindText, Text: "a"},
			{ID: "dup", Kind: canvas.KindText, Text: "b"},
		}},
	})
	got, ok := s.Get("p1")
	require.True(t, ok)
	ids := map[string]bool{}
	for _, n := range got.Snapshot.Nodes {
		require.NotEmpty(t, n.ID)
		require.False(t, ids[n.ID], "duplicate id %q survived", n.ID)
		ids[n.ID] = true
	}
}

func TestUpdate_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.json")
	s := New(path)
	s.Put(State{ProjectID: "p1", Prompt: "a"})
	_, ok := s.Update("p1", func(st *State) { st.Prompt = "b" })
	require.True(t, ok)

	reopened := New(path)
	got, ok := reopened.Get("p1")
	require.True(t, ok)
	require.Equal(t, "b", got.Prompt)
}

func TestGenerated_AppendListDelete(t *testing.T) {
	s := fileStore(t)
	s.Put(State{ProjectID: "p1"})

	first, err := s.AddGenerated(GeneratedItem{ProjectID: "p1", URL: "https://img/1", Prompt: "one"})
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)
	require.False(t, first.CreatedAt.IsZero())

	second, err := s.AddGenerated(GeneratedItem{ProjectID: "p1", URL: "https://img/2", Prompt: "two"})
	require.NoError(t, err)

	items, err := s.ListGenerated("p1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	// newest first
	require.Equal(t, second.ID, items[0].ID)

	require.NoError(t, s.DeleteGenerated("p1", first.ID))
	items, err = s.ListGenerated("p1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, second.ID, items[0].ID)

	// deleting a missing item is fine
	require.NoError(t, s.DeleteGenerated("p1", "ghost"))
}

func TestListByUser_Filters(t *testing.T) {
	s := fileStore(t)
	s.Put(State{ProjectID: "p1", UserID: "alice"})
	s.Put(State{ProjectID: "p2", UserID: "bob"})
	require.Len(t, s.ListByUser("alice"), 1)
	require.Len(t, s.ListByUser(""), 2)
}

func TestNewFromConfig_FileFallback(t *testing.T) {
	s := NewFromConfig(filepath.Join(t.TempDir(), "p.json"), "")
	require.NotNil(t, s)
	require.Nil(t, s.db)
}
