package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// TiposObra is the closed enum of obra types accepted by the API.
var TiposObra = []string{
	"PELICULA", "LIBRO/SAGA", "PELICULA/SAGA", "SERIE",
	"LIBRO/PELICULA/SAGA", "PELICULA/LIBRO", "OTROS",
}

// Obra is a media work. The API speaks two field-naming conventions for the
// type, year and image ("tipo" vs "tipo_obra", "anioPublicacion" vs
// "anio_publicacion"/"anio", "imagen" vs "imagenUrl"); all variants are
// decoded and Normalize folds them into the canonical client-side names.
type Obra struct {
	ID      string `json:"id,omitempty"`
	MongoID string `json:"_id,omitempty"`
	Titulo  string `json:"titulo"`

	Tipo     string `json:"tipo,omitempty"`
	TipoObra string `json:"tipo_obra,omitempty"`

	AnioPublicacion    int `json:"anioPublicacion,omitempty"`
	AnioPublicacionAPI int `json:"anio_publicacion,omitempty"`
	Anio               int `json:"anio,omitempty"`

	Imagen    string `json:"imagen,omitempty"`
	ImagenURL string `json:"imagenUrl,omitempty"`

	Genero   string `json:"genero,omitempty"`
	Sinopsis string `json:"sinopsis,omitempty"`
}

// Key resolves the entity identifier, preferring "_id" over "id".
func (o Obra) Key() string {
	if o.MongoID != "" {
		return o.MongoID
	}
	return o.ID
}

// Normalize returns a copy with the canonical fields populated from
// whichever naming convention the server used. Applied to every read.
func (o Obra) Normalize() Obra {
	if o.Tipo == "" {
		o.Tipo = o.TipoObra
	}
	if o.AnioPublicacion == 0 {
		if o.AnioPublicacionAPI != 0 {
			o.AnioPublicacion = o.AnioPublicacionAPI
		} else {
			o.AnioPublicacion = o.Anio
		}
	}
	if o.Imagen == "" {
		o.Imagen = o.ImagenURL
	}
	return o
}

// Payload translates the canonical fields into the server's write
// convention. A blank image falls back to prev's stored value instead of
// overwriting it with empty; prev may be nil on create.
func (o Obra) Payload(prev *Obra) map[string]any {
	out := map[string]any{
		"titulo":    o.Titulo,
		"tipo_obra": firstNonEmpty(o.Tipo, o.TipoObra),
		"genero":    o.Genero,
		"sinopsis":  o.Sinopsis,
	}
	if anio := o.Normalize().AnioPublicacion; anio != 0 {
		out["anio_publicacion"] = anio
	}
	imagen := firstNonEmpty(strings.TrimSpace(o.Imagen), strings.TrimSpace(o.ImagenURL))
	if imagen == "" && prev != nil {
		imagen = prev.Normalize().Imagen
	}
	if imagen != "" {
		out["imagen"] = imagen
	}
	return out
}

var urlRe = regexp.MustCompile(`(?i)^https?://`)

// Validate checks the form rules enforced before any network call.
func (o Obra) Validate() map[string]string {
	errs := map[string]string{}
	currentYear := time.Now().Year()

	if strings.TrimSpace(o.Titulo) == "" {
		errs["titulo"] = "El título de la obra es obligatorio."
	}
	tipo := strings.TrimSpace(firstNonEmpty(o.Tipo, o.TipoObra))
	if tipo == "" {
		errs["tipo"] = "El tipo de obra (Libro, Serie, etc.) es obligatorio."
	}
	if anio := o.Normalize().AnioPublicacion; anio != 0 && (anio < 1000 || anio > currentYear) {
		errs["anioPublicacion"] = fmt.Sprintf(
			"El año de publicación debe ser un valor numérico entre 1000 y %d.", currentYear)
	}
	if g := strings.TrimSpace(o.Genero); g != "" && len(g) < 2 {
		errs["genero"] = "El género debe tener al menos 2 caracteres."
	}
	if len(o.Sinopsis) > 5000 {
		errs["sinopsis"] = "La sinopsis excede el máximo de 5000 caracteres."
	}
	if imagen := strings.TrimSpace(firstNonEmpty(o.Imagen, o.ImagenURL)); imagen != "" {
		if !urlRe.MatchString(imagen) && !looksLikeLocalPath(imagen) {
			errs["imagenUrl"] = "La URL o ruta de la imagen de portada no es válida " +
				"(ej: /images/obras/crepusculo.jpg o https://ejemplo.com/image.jpg)."
		}
	}
	return errs
}

// NormalizeTipo maps an unknown stored type onto the edit form's fallback.
// Historic rows created before the enum was closed keep working this way.
func NormalizeTipo(tipo string) string {
	if containsString(TiposObra, tipo) {
		return tipo
	}
	if tipo == "" {
		return ""
	}
	return "Otros"
}

func looksLikeLocalPath(s string) bool {
	return strings.Contains(s, "images") || strings.Contains(s, "public") ||
		strings.HasPrefix(s, "/") || strings.HasPrefix(s, "./") || strings.HasPrefix(s, "../")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
