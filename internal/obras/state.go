// Package obras owns the unpaginated media list. Unlike the personaje
// catalog it patches the local list with the server's echoed entity after
// each mutation instead of re-fetching.
package obras

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"nocturna/internal/api"
	"nocturna/internal/notify"
	"nocturna/internal/sanitize"
	"nocturna/pkg/models"
)

// Confirmer guards destructive actions. Declining is a silent no-op.
type Confirmer interface {
	Confirm(prompt string) bool
}

type State struct {
	mu      sync.Mutex
	api     *api.Client
	notify  notify.Notifier
	confirm Confirmer
	log     zerolog.Logger

	obras   []models.Obra
	loading bool
}

func New(client *api.Client, notifier notify.Notifier, confirm Confirmer, log zerolog.Logger) *State {
	return &State{
		api:     client,
		notify:  notifier,
		confirm: confirm,
		log:     log,
		loading: true,
	}
}

// Obras returns a copy of the current list.
func (s *State) Obras() []models.Obra {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Obra, len(s.obras))
	copy(out, s.obras)
	return out
}

func (s *State) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Find returns the stored obra with the given id, or nil.
func (s *State) Find(id string) *models.Obra {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.obras {
		if s.obras[i].Key() == id {
			o := s.obras[i]
			return &o
		}
	}
	return nil
}

// Load fetches the full list, normalizing every entry to the canonical
// field names.
func (s *State) Load(ctx context.Context) {
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	list, err := s.api.ListObras(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("fetch obras")
		s.notify.Error("Error al cargar la lista de obras. Revisa la conexión con el backend.")
		return
	}

	normalized := make([]models.Obra, len(list))
	for i, o := range list {
		normalized[i] = o.Normalize()
	}

	s.mu.Lock()
	s.obras = normalized
	s.mu.Unlock()
}

// Create sends the obra in the server's write convention and appends the
// normalized echo to the local list. A duplicate-title conflict gets its own
// message and leaves the list unchanged.
func (s *State) Create(ctx context.Context, o models.Obra) bool {
	o = clean(o)
	if errs := o.Validate(); len(errs) > 0 {
		s.notify.Error(firstError(errs))
		return false
	}

	created, err := s.api.CreateObra(ctx, o.Payload(nil))
	if err != nil {
		if api.IsConflict(err, "título") {
			s.notify.Error(api.Message(err, "Ya existe una obra con ese título."))
		} else {
			s.log.Error().Err(err).Msg("create obra")
			s.notify.Error(api.Message(err, "Error al crear la obra."))
		}
		return false
	}

	echo := created.Normalize()
	s.mu.Lock()
	s.obras = append(s.obras, echo)
	s.mu.Unlock()

	s.notify.Success(fmt.Sprintf("Obra %q creada con éxito.", echo.Titulo))
	return true
}

// Update edits the obra and replaces the matching local entry with the
// server's echo. A blank image falls back to the previously stored value.
func (s *State) Update(ctx context.Context, id string, o models.Obra) bool {
	o = clean(o)
	prev := s.Find(id)
	if errs := o.Validate(); len(errs) > 0 {
		s.notify.Error(firstError(errs))
		return false
	}

	updated, err := s.api.UpdateObra(ctx, id, o.Payload(prev))
	if err != nil {
		s.log.Error().Err(err).Msg("update obra")
		s.notify.Error(api.Message(err, "Error al actualizar la obra."))
		return false
	}

	echo := updated.Normalize()
	s.mu.Lock()
	for i := range s.obras {
		if s.obras[i].Key() == id {
			s.obras[i] = echo
			break
		}
	}
	s.mu.Unlock()

	s.notify.Success(fmt.Sprintf("Obra %q actualizada con éxito.", echo.Titulo))
	return true
}

// Delete removes the obra after explicit confirmation; declining is a no-op.
func (s *State) Delete(ctx context.Context, id, titulo string) bool {
	prompt := fmt.Sprintf("¿Estás seguro de eliminar la obra %q? ¡Esto podría afectar a personajes asociados!", titulo)
	if !s.confirm.Confirm(prompt) {
		return false
	}

	if err := s.api.DeleteObra(ctx, id); err != nil {
		s.log.Error().Err(err).Msg("delete obra")
		s.notify.Error(fmt.Sprintf("Error al eliminar %q.", titulo))
		return false
	}

	s.mu.Lock()
	kept := s.obras[:0]
	for _, o := range s.obras {
		if o.Key() != id {
			kept = append(kept, o)
		}
	}
	s.obras = kept
	s.mu.Unlock()

	s.notify.Success(fmt.Sprintf("Obra %q eliminada correctamente.", titulo))
	return true
}

func clean(o models.Obra) models.Obra {
	o.Titulo = sanitize.Strip(o.Titulo)
	o.Tipo = sanitize.Strip(o.Tipo)
	o.Genero = sanitize.Strip(o.Genero)
	o.Sinopsis = sanitize.Strip(o.Sinopsis)
	return o
}

func firstError(errs map[string]string) string {
	for _, msg := range errs {
		return msg
	}
	return ""
}
