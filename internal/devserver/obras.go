package devserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Obras are stored and served in the server-side field convention
// (tipo_obra, anio_publicacion) so the client's normalization layer gets
// exercised against realistic payloads.

type obraReq struct {
	Titulo   string `json:"titulo"`
	TipoObra string `json:"tipo_obra"`
	Anio     int    `json:"anio_publicacion"`
	Imagen   string `json:"imagen"`
	Genero   string `json:"genero"`
	Sinopsis string `json:"sinopsis"`
}

func (r obraReq) validate() string {
	if strings.TrimSpace(r.Titulo) == "" {
		return "El título de la obra es obligatorio."
	}
	if strings.TrimSpace(r.TipoObra) == "" {
		return "El tipo de obra es obligatorio."
	}
	if r.Anio != 0 && (r.Anio < 1000 || r.Anio > time.Now().Year()) {
		return "El año de publicación no es válido."
	}
	if len(r.Sinopsis) > 5000 {
		return "La sinopsis excede el máximo de 5000 caracteres."
	}
	return ""
}

func (r obraReq) record() map[string]any {
	out := map[string]any{
		"titulo":    strings.TrimSpace(r.Titulo),
		"tipo_obra": strings.TrimSpace(r.TipoObra),
		"genero":    r.Genero,
		"sinopsis":  r.Sinopsis,
	}
	if r.Anio != 0 {
		out["anio_publicacion"] = r.Anio
	}
	if r.Imagen != "" {
		out["imagen"] = r.Imagen
	}
	return out
}

func (s *Server) listObras(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.listObras())
}

func (s *Server) getObra(c *gin.Context) {
	o := s.store.getObra(c.Param("id"))
	if o == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Obra no encontrada."})
		return
	}
	c.JSON(http.StatusOK, o)
}

func (s *Server) createObra(c *gin.Context) {
	var req obraReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "JSON inválido."})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": msg})
		return
	}

	created, ok := s.store.createObra(req.record())
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"message": "Ya existe una obra con ese título."})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) updateObra(c *gin.Context) {
	var req obraReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "JSON inválido."})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": msg})
		return
	}

	updated := s.store.updateObra(c.Param("id"), req.record())
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Obra no encontrada."})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteObra(c *gin.Context) {
	if !s.store.deleteObra(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Obra no encontrada."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Obra eliminada."})
}
