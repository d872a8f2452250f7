package devserver

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"nocturna/pkg/models"
)

type storedUser struct {
	models.Usuario
	PasswordHash string
}

// memStore is the stub's in-memory backing store. It only exists so the
// client can be developed and tested without the real backend.
type memStore struct {
	mu         sync.Mutex
	users      map[string]*storedUser // keyed by email
	personajes []models.Personaje
	obras      []map[string]any // stored in the server's field convention
}

func newMemStore() *memStore {
	return &memStore{users: make(map[string]*storedUser)}
}

func (m *memStore) createUser(nombre, email, password, rol string) (*models.Usuario, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	if _, exists := m.users[email]; exists {
		return nil, false
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false
	}

	u := &storedUser{
		Usuario: models.Usuario{
			ID:     uuid.NewString(),
			Nombre: nombre,
			Email:  email,
			Rol:    rol,
		},
		PasswordHash: string(hash),
	}
	m.users[email] = u
	out := u.Usuario
	return &out, true
}

func (m *memStore) authenticate(email, password string) *models.Usuario {
	m.mu.Lock()
	u, ok := m.users[strings.ToLower(strings.TrimSpace(email))]
	m.mu.Unlock()
	if !ok {
		return nil
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil
	}
	out := u.Usuario
	return &out
}

func (m *memStore) listPersonajes(tipo, nombre string, page, limit int) ([]models.Personaje, models.Meta) {
	m.mu.Lock()
	defer m.mu.Unlock()

	filtered := make([]models.Personaje, 0, len(m.personajes))
	for _, p := range m.personajes {
		if tipo != "" && !strings.EqualFold(p.Tipo, tipo) {
			continue
		}
		if nombre != "" && !strings.Contains(strings.ToLower(p.Nombre), strings.ToLower(nombre)) {
			continue
		}
		filtered = append(filtered, p)
	}

	total := len(filtered)
	totalPages := (total + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	items := make([]models.Personaje, end-start)
	copy(items, filtered[start:end])

	return items, models.Meta{
		TotalPages:   totalPages,
		CurrentPage:  page,
		TotalItems:   total,
		ItemsPerPage: limit,
	}
}

func (m *memStore) getPersonaje(id string) *models.Personaje {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.personajes {
		if m.personajes[i].Key() == id {
			p := m.personajes[i]
			return &p
		}
	}
	return nil
}

func (m *memStore) createPersonaje(p models.Personaje) models.Personaje {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = uuid.NewString()
	m.personajes = append(m.personajes, p)
	return p
}

func (m *memStore) updatePersonaje(id string, p models.Personaje) *models.Personaje {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.personajes {
		if m.personajes[i].Key() == id {
			p.ID = m.personajes[i].ID
			p.MongoID = m.personajes[i].MongoID
			m.personajes[i] = p
			return &p
		}
	}
	return nil
}

func (m *memStore) deletePersonaje(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.personajes {
		if m.personajes[i].Key() == id {
			m.personajes = append(m.personajes[:i], m.personajes[i+1:]...)
			return true
		}
	}
	return false
}

func (m *memStore) listObras() []map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]map[string]any, len(m.obras))
	for i, o := range m.obras {
		out[i] = cloneObra(o)
	}
	return out
}

func (m *memStore) getObra(id string) map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.obras {
		if obraID(o) == id {
			return cloneObra(o)
		}
	}
	return nil
}

// createObra rejects duplicate titles, the catalog's uniqueness rule.
func (m *memStore) createObra(o map[string]any) (map[string]any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	titulo, _ := o["titulo"].(string)
	for _, existing := range m.obras {
		if t, _ := existing["titulo"].(string); strings.EqualFold(t, titulo) {
			return nil, false
		}
	}

	o["id"] = uuid.NewString()
	m.obras = append(m.obras, o)
	return cloneObra(o), true
}

func (m *memStore) updateObra(id string, o map[string]any) map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.obras {
		if obraID(existing) == id {
			o["id"] = existing["id"]
			if v, ok := existing["_id"]; ok {
				o["_id"] = v
			}
			m.obras[i] = o
			return cloneObra(o)
		}
	}
	return nil
}

func (m *memStore) deleteObra(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.obras {
		if obraID(existing) == id {
			m.obras = append(m.obras[:i], m.obras[i+1:]...)
			return true
		}
	}
	return false
}

func obraID(o map[string]any) string {
	if v, ok := o["_id"].(string); ok && v != "" {
		return v
	}
	v, _ := o["id"].(string)
	return v
}

func cloneObra(o map[string]any) map[string]any {
	out := make(map[string]any, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// Seed loads demo data: an admin account and a small catalog.
func (m *memStore) seed() {
	m.createUser("Admin", "admin@nocturna.dev", "nocturna-admin", "admin")
	m.createUser("Invitado", "invitado@nocturna.dev", "nocturna-guest", "user")

	obras := []map[string]any{
		{"titulo": "Crepúsculo", "tipo_obra": "LIBRO/PELICULA/SAGA", "anio_publicacion": 2005,
			"imagen": "/images/obras/crepusculo.jpg", "genero": "Romance paranormal",
			"sinopsis": "Una joven se muda a Forks y conoce a un vampiro."},
		{"titulo": "Entrevista con el vampiro", "tipo_obra": "PELICULA/LIBRO", "anio_publicacion": 1976,
			"imagen": "/images/obras/entrevista.jpg", "genero": "Terror gótico",
			"sinopsis": "Un vampiro relata dos siglos de existencia."},
		{"titulo": "El mago de Terramar", "tipo_obra": "LIBRO/SAGA", "anio_publicacion": 1968,
			"imagen": "/images/obras/terramar.jpg", "genero": "Fantasía",
			"sinopsis": "Ged aprende el precio del poder en un mundo de islas."},
	}
	for _, o := range obras {
		m.createObra(o)
	}

	tipos := []struct {
		nombre, tipo, clasificacion string
		poderes                     models.Poderes
	}{
		{"Edward Cullen", "Vampiro", "Protagonista", models.Poderes{"Velocidad", "Telepatía"}},
		{"Lestat de Lioncourt", "Vampiro", "Antagonista", models.Poderes{"Vuelo", "Hipnosis"}},
		{"Claudia", "Vampiro", "Aliado", models.Poderes{"Sigilo"}},
		{"Ged", "Mago", "Protagonista", models.Poderes{"Invocación", "Cambio de forma"}},
		{"Tenar", "Bruja", "Aliado", models.Poderes{"Clarividencia"}},
		{"Ogion", "Mago", "Aliado", models.Poderes{"Silencio", "Equilibrio"}},
		{"Remus Lupin", "Licántropo", "Aliado", models.Poderes{"Fuerza", "Olfato"}},
		{"Fenrir Greyback", "Licántropo", "Antagonista", models.Poderes{"Ferocidad"}},
		{"Morgana", "Bruja", "Antagonista", models.Poderes{"Ilusiones", "Maldiciones"}},
		{"Baba Yaga", "Otro", "Antagonista", models.Poderes{"Metamorfosis"}},
	}
	for _, t := range tipos {
		m.createPersonaje(models.Personaje{
			Nombre:        t.nombre,
			Tipo:          t.tipo,
			Clasificacion: t.clasificacion,
			Poderes:       t.poderes,
			Imagen:        "https://loremflickr.com/320/240/fantasy",
		})
	}

	sort.Slice(m.personajes, func(i, j int) bool {
		return m.personajes[i].Nombre < m.personajes[j].Nombre
	})
}
