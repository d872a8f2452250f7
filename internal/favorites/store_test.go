package favorites

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"nocturna/pkg/database"
	"nocturna/pkg/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "data.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return NewStore(db)
}

func TestNamespace(t *testing.T) {
	require.Equal(t, "favorites-u1", Namespace("u1"))
	require.Equal(t, "favorites-anon", Namespace(""))
}

func TestAddContainsRemove(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ns := Namespace("u1")

	f := models.Favorito{ID: "p1", Nombre: "Lestat", Imagen: "/l.jpg", Tipo: "Vampiro"}

	inserted, err := s.Add(ctx, ns, f)
	require.NoError(t, err)
	require.True(t, inserted)

	ok, err := s.Contains(ctx, ns, "p1")
	require.NoError(t, err)
	require.True(t, ok)

	existed, err := s.Remove(ctx, ns, "p1")
	require.NoError(t, err)
	require.True(t, existed)

	ok, err = s.Contains(ctx, ns, "p1")
	require.NoError(t, err)
	require.False(t, ok)

	existed, err = s.Remove(ctx, ns, "p1")
	require.NoError(t, err)
	require.False(t, existed)
}

func TestDuplicateAddIsNoOp(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ns := Namespace("u1")

	inserted, err := s.Add(ctx, ns, models.Favorito{ID: "p1", Nombre: "Lestat"})
	require.NoError(t, err)
	require.True(t, inserted)

	inserted, err = s.Add(ctx, ns, models.Favorito{ID: "p1", Nombre: "Lestat"})
	require.NoError(t, err)
	require.False(t, inserted, "second insert of the same id must not write a row")

	favs, err := s.List(ctx, ns)
	require.NoError(t, err)
	require.Len(t, favs, 1)
}

func TestListKeepsInsertionOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ns := Namespace("u1")

	for _, f := range []models.Favorito{
		{ID: "p3", Nombre: "Claudia"},
		{ID: "p1", Nombre: "Lestat"},
		{ID: "p2", Nombre: "Ged"},
	} {
		_, err := s.Add(ctx, ns, f)
		require.NoError(t, err)
	}

	favs, err := s.List(ctx, ns)
	require.NoError(t, err)
	require.Equal(t, []string{"Claudia", "Lestat", "Ged"}, nombres(favs))
}

func TestNamespaceIsolation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Add(ctx, Namespace("u1"), models.Favorito{ID: "p1", Nombre: "Lestat"})
	require.NoError(t, err)
	_, err = s.Add(ctx, Namespace("u2"), models.Favorito{ID: "p2", Nombre: "Ged"})
	require.NoError(t, err)

	ok, err := s.Contains(ctx, Namespace("u2"), "p1")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Clear(ctx, Namespace("u1")))

	favs, err := s.List(ctx, Namespace("u1"))
	require.NoError(t, err)
	require.Empty(t, favs)

	favs, err = s.List(ctx, Namespace("u2"))
	require.NoError(t, err)
	require.Len(t, favs, 1)
}

func TestDropNamespace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ns := Namespace("u1")

	_, err := s.Add(ctx, ns, models.Favorito{ID: "p1", Nombre: "Lestat"})
	require.NoError(t, err)

	require.NoError(t, s.DropNamespace(ns))

	favs, err := s.List(ctx, ns)
	require.NoError(t, err)
	require.Empty(t, favs)
}

func nombres(favs []models.Favorito) []string {
	out := make([]string, len(favs))
	for i, f := range favs {
		out[i] = f.Nombre
	}
	return out
}
