package devserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type registerReq struct {
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "JSON inválido."})
		return
	}

	req.Nombre = strings.TrimSpace(req.Nombre)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if req.Nombre == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "El nombre es obligatorio."})
		return
	}
	if !strings.Contains(req.Email, "@") || len(req.Email) > 255 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email inválido."})
		return
	}
	if len(req.Password) < 8 || len(req.Password) > 72 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "La contraseña debe tener entre 8 y 72 caracteres."})
		return
	}

	u, ok := s.store.createUser(req.Nombre, req.Email, req.Password, "user")
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"message": "El email ya está registrado."})
		return
	}

	token, exp, err := s.tokens.Sign(u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "No se pudo firmar el token."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":       u,
		"token":      token,
		"expires_at": exp.UTC().Format(time.RFC3339),
	})
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "JSON inválido."})
		return
	}

	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email y contraseña son obligatorios."})
		return
	}

	u := s.store.authenticate(req.Email, req.Password)
	if u == nil {
		// don't reveal which part failed
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Credenciales inválidas."})
		return
	}

	token, exp, err := s.tokens.Sign(u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "No se pudo firmar el token."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":       u,
		"token":      token,
		"expires_at": exp.UTC().Format(time.RFC3339),
	})
}
