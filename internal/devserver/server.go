// Package devserver is a development stand-in for the remote catalog API.
// It implements the same REST surface and error bodies so the client can be
// run and integration-tested without the real backend.
package devserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nocturna/internal/config"
)

type Server struct {
	store  *memStore
	tokens TokenService
}

// New builds the stub server and its router. Seeded demo data includes an
// admin account (admin@nocturna.dev / nocturna-admin).
func New(cfg config.ServerConfig) (*Server, *gin.Engine) {
	store := newMemStore()
	store.seed()

	s := &Server{
		store: store,
		tokens: TokenService{
			Secret:   []byte(cfg.JWTSecret),
			Issuer:   cfg.JWTIssuer,
			Duration: cfg.JWTDuration,
		},
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	if cfg.RateRPS > 0 {
		router.Use(rateLimit(cfg.RateRPS, cfg.RateBurst))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api")

	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/register", s.register)
	authGroup.POST("/login", s.login)

	personajes := apiGroup.Group("/personajes")
	personajes.GET("", s.listPersonajes)
	personajes.GET("/:id", s.getPersonaje)

	adminPersonajes := personajes.Group("")
	adminPersonajes.Use(authMiddleware(s.tokens), requireAdmin())
	adminPersonajes.POST("", s.createPersonaje)
	adminPersonajes.PUT("/:id", s.updatePersonaje)
	adminPersonajes.DELETE("/:id", s.deletePersonaje)

	obrasGroup := apiGroup.Group("/obras")
	obrasGroup.GET("", s.listObras)
	obrasGroup.GET("/:id", s.getObra)

	adminObras := obrasGroup.Group("")
	adminObras.Use(authMiddleware(s.tokens), requireAdmin())
	adminObras.POST("", s.createObra)
	adminObras.PUT("/:id", s.updateObra)
	adminObras.DELETE("/:id", s.deleteObra)

	return s, router
}
