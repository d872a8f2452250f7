package catalog

import (
	"context"
	"fmt"

	"nocturna/internal/favorites"
	"nocturna/pkg/models"
)

// namespace resolves the active identity's storage key. Switching identity
// (login/logout) changes what Key returns, which swaps the namespace without
// any favorites state carried over.
func (s *State) namespace() string {
	return favorites.Namespace(s.session.Key())
}

// Favoritos lists the active identity's favorites.
func (s *State) Favoritos(ctx context.Context) []models.Favorito {
	favs, err := s.favs.List(ctx, s.namespace())
	if err != nil {
		s.log.Error().Err(err).Msg("list favorites")
		s.notify.Error("Ocurrió un error al modificar favoritos.")
		return nil
	}
	return favs
}

// IsFavorite reports whether the id is in the active favorites set.
func (s *State) IsFavorite(ctx context.Context, id string) bool {
	ok, err := s.favs.Contains(ctx, s.namespace(), id)
	if err != nil {
		s.log.Error().Err(err).Msg("check favorite")
		return false
	}
	return ok
}

// ToggleFavorite flips membership for the personaje: present means remove,
// absent means store the reduced projection. The whole flip happens under
// the state lock and the store re-verifies absence on insert, so a rapid
// double invocation flips membership exactly once.
func (s *State) ToggleFavorite(ctx context.Context, p models.Personaje) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ns := favorites.Namespace(s.session.Key())
	id := p.Key()

	present, err := s.favs.Contains(ctx, ns, id)
	if err != nil {
		s.log.Error().Err(err).Msg("toggle favorite")
		s.notify.Error("Ocurrió un error al modificar favoritos.")
		return
	}

	if present {
		if _, err := s.favs.Remove(ctx, ns, id); err != nil {
			s.log.Error().Err(err).Msg("toggle favorite")
			s.notify.Error("Ocurrió un error al modificar favoritos.")
			return
		}
		s.notify.Info(fmt.Sprintf("%s eliminado de favoritos.", p.Nombre))
		return
	}

	inserted, err := s.favs.Add(ctx, ns, models.FavoritoDe(p))
	if err != nil {
		s.log.Error().Err(err).Msg("toggle favorite")
		s.notify.Error("Ocurrió un error al modificar favoritos.")
		return
	}
	if !inserted {
		s.notify.Warn(fmt.Sprintf("%s ya está en favoritos.", p.Nombre))
		return
	}
	s.notify.Success(fmt.Sprintf("%s añadido a favoritos.", p.Nombre))
}

// RemoveFavorite removes unconditionally; the notification names the entity
// when it was found, else stays generic.
func (s *State) RemoveFavorite(ctx context.Context, id string) {
	ns := s.namespace()

	var nombre string
	favs, err := s.favs.List(ctx, ns)
	if err == nil {
		for _, f := range favs {
			if f.ID == id {
				nombre = f.Nombre
				break
			}
		}
	}

	if _, err := s.favs.Remove(ctx, ns, id); err != nil {
		s.log.Error().Err(err).Msg("remove favorite")
		s.notify.Error("Ocurrió un error al modificar favoritos.")
		return
	}

	if nombre != "" {
		s.notify.Info(fmt.Sprintf("%s eliminado de la lista.", nombre))
	} else {
		s.notify.Info("Elemento eliminado de favoritos.")
	}
}

// ClearAllFavorites empties the active set unconditionally.
func (s *State) ClearAllFavorites(ctx context.Context) {
	if err := s.favs.Clear(ctx, s.namespace()); err != nil {
		s.log.Error().Err(err).Msg("clear favorites")
		s.notify.Error("Ocurrió un error al modificar favoritos.")
		return
	}
	s.notify.Info("Todos los favoritos han sido eliminados. Lista vacía.")
}
