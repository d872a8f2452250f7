package devserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"nocturna/pkg/models"
)

func (s *Server) listPersonajes(c *gin.Context) {
	page := parseInt(c.Query("page"), 1)
	limit := parseInt(c.Query("limit"), 8)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 8
	}

	items, meta := s.store.listPersonajes(
		strings.TrimSpace(c.Query("tipo")),
		strings.TrimSpace(c.Query("nombre")),
		page, limit,
	)

	c.JSON(http.StatusOK, gin.H{
		"personajes": items,
		"meta":       meta,
	})
}

func (s *Server) getPersonaje(c *gin.Context) {
	p := s.store.getPersonaje(c.Param("id"))
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Personaje no encontrado."})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) createPersonaje(c *gin.Context) {
	var p models.Personaje
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "JSON inválido."})
		return
	}
	if errs := p.Validate(); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": anyMessage(errs)})
		return
	}
	c.JSON(http.StatusCreated, s.store.createPersonaje(p))
}

func (s *Server) updatePersonaje(c *gin.Context) {
	var p models.Personaje
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "JSON inválido."})
		return
	}
	if errs := p.Validate(); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": anyMessage(errs)})
		return
	}
	updated := s.store.updatePersonaje(c.Param("id"), p)
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Personaje no encontrado."})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) deletePersonaje(c *gin.Context) {
	if !s.store.deletePersonaje(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Personaje no encontrado."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Personaje eliminado."})
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func anyMessage(errs map[string]string) string {
	for _, msg := range errs {
		return msg
	}
	return "Datos inválidos."
}
