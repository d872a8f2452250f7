// Package catalog owns the paginated, filtered personaje list and the
// per-identity favorites set. It re-fetches the current page after every
// mutation so the list and pagination metadata never go stale past a
// confirmed change.
package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"nocturna/internal/api"
	"nocturna/internal/favorites"
	"nocturna/internal/notify"
	"nocturna/internal/sanitize"
	"nocturna/pkg/models"
)

// DefaultLimit is the items-per-page used until the server reports its own.
const DefaultLimit = 8

// Confirmer guards destructive actions. Declining is a silent no-op.
type Confirmer interface {
	Confirm(prompt string) bool
}

// IdentitySource resolves the favorites identity of the active session.
type IdentitySource interface {
	Key() string
}

type State struct {
	mu      sync.Mutex
	api     *api.Client
	notify  notify.Notifier
	confirm Confirmer
	favs    *favorites.Store
	session IdentitySource
	log     zerolog.Logger

	personajes []models.Personaje
	meta       models.Meta
	loading    bool
	page       int
	limit      int
	tipo       string
	nombre     string

	// gen identifies the (page, limit, tipo, nombre) tuple an in-flight
	// fetch was issued for; responses for superseded tuples are discarded.
	gen uint64
}

func New(client *api.Client, notifier notify.Notifier, confirm Confirmer,
	favs *favorites.Store, session IdentitySource, log zerolog.Logger) *State {
	return &State{
		api:     client,
		notify:  notifier,
		confirm: confirm,
		favs:    favs,
		session: session,
		log:     log,
		meta:    models.Meta{TotalPages: 1, CurrentPage: 1, ItemsPerPage: DefaultLimit},
		page:    1,
		limit:   DefaultLimit,
	}
}

// Personajes returns a copy of the current page's characters.
func (s *State) Personajes() []models.Personaje {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Personaje, len(s.personajes))
	copy(out, s.personajes)
	return out
}

func (s *State) Meta() models.Meta {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meta
}

func (s *State) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Page returns the client's current page intent.
func (s *State) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// Refresh fetches the list for the current (page, limit, tipo, nombre)
// tuple. Failures become notifications, never errors.
func (s *State) Refresh(ctx context.Context) {
	s.fetch(ctx)
}

// SetQuery replaces the whole tuple at once without fetching, for one-shot
// callers that set several knobs and then Refresh a single time.
func (s *State) SetQuery(page, limit int, tipo, nombre string) {
	s.mu.Lock()
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	s.page = page
	s.limit = limit
	s.tipo = tipo
	s.nombre = nombre
	s.mu.Unlock()
}

// SetPage moves to page n and re-fetches.
func (s *State) SetPage(ctx context.Context, n int) {
	s.mu.Lock()
	if n < 1 {
		n = 1
	}
	s.page = n
	s.mu.Unlock()
	s.fetch(ctx)
}

// SetLimit changes items-per-page, resets to page 1 and re-fetches.
func (s *State) SetLimit(ctx context.Context, limit int) {
	s.mu.Lock()
	if limit < 1 {
		limit = DefaultLimit
	}
	s.limit = limit
	s.page = 1
	s.mu.Unlock()
	s.fetch(ctx)
}

// SetTipoFilter changes the type filter, resets to page 1 and re-fetches.
func (s *State) SetTipoFilter(ctx context.Context, tipo string) {
	s.mu.Lock()
	s.tipo = tipo
	s.page = 1
	s.mu.Unlock()
	s.fetch(ctx)
}

// SetNombreFilter changes the name search, resets to page 1 and re-fetches.
func (s *State) SetNombreFilter(ctx context.Context, nombre string) {
	s.mu.Lock()
	s.nombre = nombre
	s.page = 1
	s.mu.Unlock()
	s.fetch(ctx)
}

// fetch issues the list request for the current tuple. The generation
// counter is bumped on entry, so a response that comes back after the tuple
// changed again must not overwrite the newer fetch's state.
func (s *State) fetch(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.gen++
	gen := s.gen
	params := api.ListParams{Page: s.page, Limit: s.limit, Tipo: s.tipo, Nombre: s.nombre}
	s.mu.Unlock()

	page, err := s.api.ListPersonajes(ctx, params)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		// superseded; the newest fetch owns the loading flag
		s.log.Debug().
			Int("page", params.Page).Str("tipo", params.Tipo).Str("nombre", params.Nombre).
			Msg("discarding stale list response")
		return
	}
	s.loading = false

	if err != nil {
		s.log.Error().Err(err).Msg("fetch personajes")
		s.notify.Error("Error al cargar la lista de personajes.")
		return
	}

	s.personajes = page.Personajes
	s.meta = page.Meta
	if s.meta.CurrentPage > 0 {
		// server metadata is authoritative for the effective page
		s.page = s.meta.CurrentPage
	}
}

// Create sanitizes, validates and creates a personaje, then re-fetches the
// current page so the pagination metadata resyncs.
func (s *State) Create(ctx context.Context, p models.Personaje) bool {
	p = cleanPersonaje(p)
	if errs := p.Validate(); len(errs) > 0 {
		s.notify.Error(firstError(errs))
		return false
	}

	if _, err := s.api.CreatePersonaje(ctx, p); err != nil {
		s.log.Error().Err(err).Msg("create personaje")
		s.notify.Error(api.Message(err, "Error al crear personaje."))
		return false
	}

	// the mutation already succeeded; the resync reports its own failures
	s.notify.Success(fmt.Sprintf("Personaje %s creado correctamente.", p.Nombre))
	s.fetch(ctx)
	return true
}

// Update edits a personaje in place, keeping the stored image when the edit
// left it blank, then re-fetches the current page.
func (s *State) Update(ctx context.Context, id string, p models.Personaje) bool {
	p = cleanPersonaje(p)
	if p.Imagen == "" {
		if prev := s.find(id); prev != nil {
			p.Imagen = prev.Imagen
		}
	}
	if errs := p.Validate(); len(errs) > 0 {
		s.notify.Error(firstError(errs))
		return false
	}

	if _, err := s.api.UpdatePersonaje(ctx, id, p); err != nil {
		s.log.Error().Err(err).Msg("update personaje")
		s.notify.Error(api.Message(err, "Error al actualizar personaje."))
		return false
	}

	s.notify.Success(fmt.Sprintf("Personaje %s actualizado correctamente.", p.Nombre))
	s.fetch(ctx)
	return true
}

// Delete removes a personaje after explicit confirmation. Declining the
// prompt is a no-op; no API call is issued.
func (s *State) Delete(ctx context.Context, id, nombre string) bool {
	if !s.confirm.Confirm(fmt.Sprintf("¿Estás seguro de eliminar a %s? ¡Esta acción es irreversible!", nombre)) {
		return false
	}

	if err := s.api.DeletePersonaje(ctx, id); err != nil {
		s.log.Error().Err(err).Msg("delete personaje")
		s.notify.Error(api.Message(err, "Error al eliminar personaje."))
		return false
	}

	s.notify.Success(fmt.Sprintf("Personaje %s eliminado correctamente.", nombre))
	s.fetch(ctx)
	return true
}

func (s *State) find(id string) *models.Personaje {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.personajes {
		if s.personajes[i].Key() == id {
			p := s.personajes[i]
			return &p
		}
	}
	return nil
}

func cleanPersonaje(p models.Personaje) models.Personaje {
	p.Nombre = sanitize.Strip(p.Nombre)
	p.Tipo = sanitize.Strip(p.Tipo)
	p.Descripcion = sanitize.Strip(p.Descripcion)
	p.Poderes = sanitize.StripAll(p.Poderes)
	return p
}

func firstError(errs map[string]string) string {
	for _, msg := range errs {
		return msg
	}
	return ""
}
