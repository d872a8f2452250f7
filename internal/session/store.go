// Package session holds the current user and bearer token, persists them to
// a session file (the sessionStorage analog) and wires the credential into
// the API client.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"nocturna/internal/api"
	"nocturna/internal/favorites"
	"nocturna/internal/notify"
	"nocturna/pkg/models"
)

// NamespaceDropper discards a favorites namespace when its identity departs.
type NamespaceDropper interface {
	DropNamespace(ns string) error
}

type Store struct {
	mu     sync.Mutex
	api    *api.Client
	notify notify.Notifier
	favs   NamespaceDropper
	path   string
	log    zerolog.Logger

	user  *models.Usuario
	token string
}

type persisted struct {
	User  *models.Usuario `json:"user"`
	Token string          `json:"token"`
}

// New builds the store, restores any persisted session from path and
// installs the token source on the API client.
func New(client *api.Client, notifier notify.Notifier, favs NamespaceDropper, path string, log zerolog.Logger) *Store {
	s := &Store{
		api:    client,
		notify: notifier,
		favs:   favs,
		path:   path,
		log:    log,
	}
	s.restore()
	client.SetTokenSource(s.Token)
	return s
}

func (s *Store) restore() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Debug().Err(err).Msg("session file unreadable")
		}
		return
	}
	var p persisted
	if err := json.Unmarshal(data, &p); err != nil {
		s.log.Debug().Err(err).Msg("session file corrupt, ignoring")
		return
	}
	s.user = p.User
	s.token = p.Token
}

func (s *Store) save() error {
	s.mu.Lock()
	p := persisted{User: s.user, Token: s.token}
	s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Login authenticates and stores the session. Failures are reported through
// the notifier and never escape as errors.
func (s *Store) Login(ctx context.Context, email, password string) bool {
	resp, err := s.api.Login(ctx, api.Credentials{Email: email, Password: password})
	if err != nil {
		s.notify.Error(api.Message(err, "Credenciales inválidas o error de conexión."))
		return false
	}

	s.store(resp)
	s.notify.Success(fmt.Sprintf("Bienvenido, %s. Rol: %s",
		resp.User.Nombre, strings.ToUpper(resp.User.Rol)))
	return true
}

// Register creates an account and logs straight in. A duplicate-email
// conflict gets its own message.
func (s *Store) Register(ctx context.Context, nombre, email, password string) bool {
	resp, err := s.api.Register(ctx, api.RegisterRequest{Nombre: nombre, Email: email, Password: password})
	if err != nil {
		if api.IsConflict(err, "email") {
			s.notify.Error(api.Message(err, "El email ya está registrado."))
		} else {
			s.notify.Error(api.Message(err, "Error al registrar. El email podría estar ya en uso."))
		}
		return false
	}

	s.store(resp)
	s.notify.Success(fmt.Sprintf("Cuenta creada para %s. ¡Ya estás logueado!", resp.User.Nombre))
	return true
}

func (s *Store) store(resp *api.AuthResponse) {
	s.mu.Lock()
	user := resp.User
	s.user = &user
	s.token = resp.Token
	s.mu.Unlock()

	if err := s.save(); err != nil {
		s.log.Warn().Err(err).Msg("persist session")
	}
}

// Logout discards the departing identity's favorites namespace, then clears
// the stored profile, token and outgoing credential.
func (s *Store) Logout() {
	s.mu.Lock()
	ns := favorites.Namespace(s.user.Key())
	s.user = nil
	s.token = ""
	s.mu.Unlock()

	if s.favs != nil {
		if err := s.favs.DropNamespace(ns); err != nil {
			s.notify.Error("No se pudo cerrar sesión.")
			s.log.Warn().Err(err).Str("namespace", ns).Msg("drop favorites namespace")
		}
	}

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.log.Warn().Err(err).Msg("remove session file")
	}
	s.notify.Info("Sesión cerrada correctamente.")
}

// User returns a copy of the current profile, or nil when logged out.
func (s *Store) User() *models.Usuario {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Token returns the current bearer credential; empty when logged out. This
// is the TokenSource installed on the API client.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Store) LoggedIn() bool {
	return s.Token() != ""
}

// Rol returns the current role string, empty when logged out.
func (s *Store) Rol() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return ""
	}
	return s.user.Rol
}

// IsAdmin is derived, never stored: the role, case-normalized, must equal
// "admin".
func (s *Store) IsAdmin() bool {
	return strings.ToLower(s.Rol()) == "admin"
}

// Key resolves the favorites identity for the current session.
func (s *Store) Key() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user.Key()
}

// Expired inspects the token's exp claim without verifying the signature
// (the client does not hold the signing secret). Tokens without an exp claim
// never report expired.
func (s *Store) Expired() bool {
	tok := s.Token()
	if tok == "" {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
