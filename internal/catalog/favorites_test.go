package catalog

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"nocturna/internal/notify"
	"nocturna/pkg/models"
)

func lestat() models.Personaje {
	return models.Personaje{
		ID:     "p1",
		Nombre: "Lestat de Lioncourt",
		Tipo:   "Vampiro",
		Imagen: "/images/lestat.jpg",
	}
}

func TestToggleFavoriteFlipsMembership(t *testing.T) {
	f := newFixture(t, "http://unused.invalid")
	ctx := context.Background()
	p := lestat()

	require.False(t, f.state.IsFavorite(ctx, p.Key()))

	f.state.ToggleFavorite(ctx, p)
	require.True(t, f.state.IsFavorite(ctx, p.Key()))
	require.Equal(t, notify.Entry{
		Level:   notify.LevelSuccess,
		Message: "Lestat de Lioncourt añadido a favoritos.",
	}, f.rec.Last())

	f.state.ToggleFavorite(ctx, p)
	require.False(t, f.state.IsFavorite(ctx, p.Key()))
	require.Equal(t, notify.Entry{
		Level:   notify.LevelInfo,
		Message: "Lestat de Lioncourt eliminado de favoritos.",
	}, f.rec.Last())
}

func TestToggleFavoriteStoresReducedProjection(t *testing.T) {
	f := newFixture(t, "http://unused.invalid")
	ctx := context.Background()

	p := lestat()
	p.Descripcion = "dos siglos de existencia"
	p.Poderes = models.Poderes{"Vuelo", "Hipnosis"}
	f.state.ToggleFavorite(ctx, p)

	favs := f.state.Favoritos(ctx)
	require.Equal(t, []models.Favorito{{
		ID:     "p1",
		Nombre: "Lestat de Lioncourt",
		Imagen: "/images/lestat.jpg",
		Tipo:   "Vampiro",
	}}, favs)
}

// Concurrent toggles of the same personaje serialize: an even number of
// invocations always lands back on not-favorite.
func TestConcurrentTogglesSerialize(t *testing.T) {
	f := newFixture(t, "http://unused.invalid")
	ctx := context.Background()
	p := lestat()

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.state.ToggleFavorite(ctx, p)
		}()
	}
	wg.Wait()

	require.False(t, f.state.IsFavorite(ctx, p.Key()))
	require.Len(t, f.rec.Entries(), 2)
}

func TestRemoveFavoriteNamesEntityWhenKnown(t *testing.T) {
	f := newFixture(t, "http://unused.invalid")
	ctx := context.Background()
	f.state.ToggleFavorite(ctx, lestat())

	f.state.RemoveFavorite(ctx, "p1")
	require.Equal(t, notify.Entry{
		Level:   notify.LevelInfo,
		Message: "Lestat de Lioncourt eliminado de la lista.",
	}, f.rec.Last())
	require.Empty(t, f.state.Favoritos(ctx))

	f.state.RemoveFavorite(ctx, "unknown")
	require.Equal(t, notify.Entry{
		Level:   notify.LevelInfo,
		Message: "Elemento eliminado de favoritos.",
	}, f.rec.Last())
}

func TestClearAllFavorites(t *testing.T) {
	f := newFixture(t, "http://unused.invalid")
	ctx := context.Background()
	f.state.ToggleFavorite(ctx, lestat())
	f.state.ToggleFavorite(ctx, models.Personaje{ID: "p2", Nombre: "Claudia", Tipo: "Vampiro"})

	f.state.ClearAllFavorites(ctx)
	require.Empty(t, f.state.Favoritos(ctx))
	require.Equal(t, notify.Entry{
		Level:   notify.LevelInfo,
		Message: "Todos los favoritos han sido eliminados. Lista vacía.",
	}, f.rec.Last())
}

// Switching identity swaps the namespace; no favorites carry over and the
// original set is intact on switching back.
func TestIdentitySwitchSwapsNamespace(t *testing.T) {
	f := newFixture(t, "http://unused.invalid")
	ctx := context.Background()
	f.state.ToggleFavorite(ctx, lestat())

	f.ident.set("u2")
	require.False(t, f.state.IsFavorite(ctx, "p1"))
	require.Empty(t, f.state.Favoritos(ctx))

	f.ident.set("u1")
	require.True(t, f.state.IsFavorite(ctx, "p1"))
}
