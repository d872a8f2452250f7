package models

import (
	"encoding/json"
	"strings"
)

// Clasificaciones accepted for a personaje.
var Clasificaciones = []string{"Protagonista", "Antagonista", "Aliado"}

// Personaje is a catalog character as exposed by the API. The backend may
// identify entities with either "id" or a Mongo-style "_id"; both are kept
// and resolved through Key.
type Personaje struct {
	ID            string  `json:"id,omitempty"`
	MongoID       string  `json:"_id,omitempty"`
	Nombre        string  `json:"nombre"`
	Tipo          string  `json:"tipo"`
	Clasificacion string  `json:"clasificacion,omitempty"`
	Imagen        string  `json:"imagen,omitempty"`
	Poderes       Poderes `json:"poderes,omitempty"`
	Descripcion   string  `json:"descripcion,omitempty"`
	Obra          string  `json:"obra,omitempty"`
}

// Key resolves the entity identifier, preferring "_id" over "id".
func (p Personaje) Key() string {
	if p.MongoID != "" {
		return p.MongoID
	}
	return p.ID
}

// Validate checks the form rules enforced before any network call.
// It returns a field -> message map; an empty map means valid.
func (p Personaje) Validate() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(p.Nombre) == "" {
		errs["nombre"] = "El nombre del personaje es obligatorio."
	}
	if strings.TrimSpace(p.Tipo) == "" {
		errs["tipo"] = "El tipo del personaje es obligatorio."
	}
	if c := strings.TrimSpace(p.Clasificacion); c != "" && !containsString(Clasificaciones, c) {
		errs["clasificacion"] = "La clasificación debe ser Protagonista, Antagonista o Aliado."
	}
	return errs
}

// Poderes is the power list of a personaje. The API sometimes returns it as
// a comma-delimited string instead of an array, so decoding accepts both and
// always yields trimmed, non-empty entries.
type Poderes []string

func (p *Poderes) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*p = trimPoderes(list)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*p = ParsePoderes(s)
	return nil
}

// ParsePoderes splits a comma-delimited power string into clean entries.
func ParsePoderes(s string) Poderes {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return trimPoderes(strings.Split(s, ","))
}

func trimPoderes(in []string) Poderes {
	out := make(Poderes, 0, len(in))
	for _, p := range in {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Favorito is the reduced projection of a Personaje kept in the per-user
// favorites store.
type Favorito struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Imagen string `json:"imagen,omitempty"`
	Tipo   string `json:"tipo,omitempty"`
}

// FavoritoDe builds the stored projection for a personaje.
func FavoritoDe(p Personaje) Favorito {
	return Favorito{
		ID:     p.Key(),
		Nombre: p.Nombre,
		Imagen: p.Imagen,
		Tipo:   p.Tipo,
	}
}

// Meta is the pagination block returned by the personajes list endpoint.
// The server's values are authoritative; the client reconciles its own page
// intent against them after every fetch.
type Meta struct {
	TotalPages   int `json:"totalPages"`
	CurrentPage  int `json:"currentPage"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}

// FallbackMeta synthesizes a meta block for responses that arrive as a bare
// array without pagination info.
func FallbackMeta(total, perPage int) Meta {
	if perPage <= 0 {
		perPage = 8
	}
	return Meta{TotalPages: 1, CurrentPage: 1, TotalItems: total, ItemsPerPage: perPage}
}
