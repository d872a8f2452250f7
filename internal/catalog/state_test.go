package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"nocturna/internal/api"
	"nocturna/internal/config"
	"nocturna/internal/devserver"
	"nocturna/internal/favorites"
	"nocturna/internal/notify"
	"nocturna/pkg/database"
	"nocturna/pkg/models"
)

type confirmStub struct {
	ok      bool
	prompts []string
}

func (c *confirmStub) Confirm(prompt string) bool {
	c.prompts = append(c.prompts, prompt)
	return c.ok
}

type identStub struct {
	mu  sync.Mutex
	key string
}

func (i *identStub) Key() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.key
}

func (i *identStub) set(key string) {
	i.mu.Lock()
	i.key = key
	i.mu.Unlock()
}

type fixture struct {
	state   *State
	client  *api.Client
	rec     *notify.Recorder
	confirm *confirmStub
	ident   *identStub
}

func newFixture(t *testing.T, baseURL string) *fixture {
	t.Helper()

	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "data.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	f := &fixture{
		client:  api.New(baseURL),
		rec:     notify.NewRecorder(),
		confirm: &confirmStub{},
		ident:   &identStub{key: "u1"},
	}
	f.state = New(f.client, f.rec, f.confirm, favorites.NewStore(db), f.ident, zerolog.Nop())
	return f
}

func newStubFixture(t *testing.T) *fixture {
	t.Helper()
	_, router := devserver.New(config.ServerConfig{
		JWTSecret:   "test-secret",
		JWTIssuer:   "nocturna-test",
		JWTDuration: time.Hour,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return newFixture(t, srv.URL)
}

func (f *fixture) loginAdmin(t *testing.T) {
	t.Helper()
	resp, err := f.client.Login(context.Background(), api.Credentials{
		Email: "admin@nocturna.dev", Password: "nocturna-admin",
	})
	require.NoError(t, err)
	tok := resp.Token
	f.client.SetTokenSource(func() string { return tok })
}

func (f *fixture) findPersonaje(t *testing.T, nombre string) models.Personaje {
	t.Helper()
	page, err := f.client.ListPersonajes(context.Background(), api.ListParams{
		Page: 1, Limit: 50, Nombre: nombre,
	})
	require.NoError(t, err)
	require.NotEmpty(t, page.Personajes, "seeded personaje %q not found", nombre)
	return page.Personajes[0]
}

func TestRefreshLoadsFirstPage(t *testing.T) {
	f := newStubFixture(t)
	f.state.Refresh(context.Background())

	require.Len(t, f.state.Personajes(), DefaultLimit)
	require.False(t, f.state.Loading())

	meta := f.state.Meta()
	require.Equal(t, 10, meta.TotalItems)
	require.Equal(t, 2, meta.TotalPages)
	require.Equal(t, 1, meta.CurrentPage)
}

func TestSetPageFollowsServerMeta(t *testing.T) {
	f := newStubFixture(t)
	ctx := context.Background()

	f.state.SetPage(ctx, 2)
	require.Len(t, f.state.Personajes(), 2)
	require.Equal(t, 2, f.state.Page())

	// past the last page the server clamps, and its meta wins
	f.state.SetPage(ctx, 99)
	require.Equal(t, 2, f.state.Page())
	require.Len(t, f.state.Personajes(), 2)
}

func TestTipoFilterResetsPage(t *testing.T) {
	f := newStubFixture(t)
	ctx := context.Background()

	f.state.SetPage(ctx, 2)
	f.state.SetTipoFilter(ctx, "Vampiro")

	require.Equal(t, 1, f.state.Page())
	ps := f.state.Personajes()
	require.Len(t, ps, 3)
	for _, p := range ps {
		require.Equal(t, "Vampiro", p.Tipo)
	}
	require.Equal(t, 3, f.state.Meta().TotalItems)
}

func TestNombreFilterMatchesSubstring(t *testing.T) {
	f := newStubFixture(t)
	f.state.SetNombreFilter(context.Background(), "ged")

	ps := f.state.Personajes()
	require.Len(t, ps, 1)
	require.Equal(t, "Ged", ps[0].Nombre)
}

func TestSetLimitResetsPage(t *testing.T) {
	f := newStubFixture(t)
	ctx := context.Background()

	f.state.SetPage(ctx, 2)
	f.state.SetLimit(ctx, 5)

	require.Equal(t, 1, f.state.Page())
	require.Len(t, f.state.Personajes(), 5)
	require.Equal(t, 5, f.state.Meta().ItemsPerPage)
}

// A list response that comes back after the tuple changed again must not
// overwrite the newer fetch's state.
func TestStaleListResponseDiscarded(t *testing.T) {
	firstStarted := make(chan struct{})
	release := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("tipo") == "" {
			close(firstStarted)
			<-release
			w.Write([]byte(`{"personajes":[{"id":"s1","nombre":"Stale"}],"meta":{"totalPages":1,"currentPage":1,"totalItems":1,"itemsPerPage":8}}`))
			return
		}
		w.Write([]byte(`{"personajes":[{"id":"f1","nombre":"Fresh"}],"meta":{"totalPages":1,"currentPage":1,"totalItems":1,"itemsPerPage":8}}`))
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		f.state.Refresh(ctx)
		close(done)
	}()

	<-firstStarted
	f.state.SetTipoFilter(ctx, "Vampiro")
	close(release)
	<-done

	ps := f.state.Personajes()
	require.Len(t, ps, 1)
	require.Equal(t, "Fresh", ps[0].Nombre)
	require.False(t, f.state.Loading())
}

// A mutation that succeeds must report success even when the follow-up
// resync of the list fails; the resync failure gets its own notification.
func TestCreateSuccessNotifiedBeforeResyncFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":"p1","nombre":"Carmilla","tipo":"Vampiro"}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"Error interno."}`))
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL)
	ok := f.state.Create(context.Background(), models.Personaje{
		Nombre: "Carmilla", Tipo: "Vampiro",
	})
	require.True(t, ok)

	entries := f.rec.Entries()
	require.Len(t, entries, 2)
	require.Equal(t, notify.Entry{
		Level:   notify.LevelSuccess,
		Message: "Personaje Carmilla creado correctamente.",
	}, entries[0])
	require.Equal(t, notify.Entry{
		Level:   notify.LevelError,
		Message: "Error al cargar la lista de personajes.",
	}, entries[1])
}

func TestSetQueryThenRefreshFetchesOnce(t *testing.T) {
	var (
		mu      sync.Mutex
		queries []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		queries = append(queries, r.URL.RawQuery)
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"personajes":[{"id":"p1","nombre":"Lestat de Lioncourt","tipo":"Vampiro"}],"meta":{"totalPages":1,"currentPage":1,"totalItems":1,"itemsPerPage":4}}`))
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL)
	f.state.SetQuery(2, 4, "Vampiro", "lestat")
	f.state.Refresh(context.Background())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, queries, 1, "setting the whole tuple must cost a single fetch")
	require.Contains(t, queries[0], "page=2")
	require.Contains(t, queries[0], "limit=4")
	require.Contains(t, queries[0], "tipo=Vampiro")
	require.Contains(t, queries[0], "nombre=lestat")
	require.Len(t, f.state.Personajes(), 1)
}

func TestCreateValidationStopsBeforeAPICall(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL)
	ok := f.state.Create(context.Background(), models.Personaje{Tipo: "Vampiro"})

	require.False(t, ok)
	require.Zero(t, calls, "invalid personaje must never reach the API")
	require.Equal(t, notify.LevelError, f.rec.Last().Level)
}

func TestCreateRefetchesCurrentPage(t *testing.T) {
	f := newStubFixture(t)
	ctx := context.Background()
	f.loginAdmin(t)
	f.state.Refresh(ctx)

	ok := f.state.Create(ctx, models.Personaje{
		Nombre:        "  <b>Carmilla</b>  ",
		Tipo:          "Vampiro",
		Clasificacion: "Antagonista",
		Poderes:       models.Poderes{"<i>Seducción</i>", ""},
	})
	require.True(t, ok)
	require.Equal(t, 11, f.state.Meta().TotalItems)
	require.Equal(t, notify.Entry{
		Level:   notify.LevelSuccess,
		Message: "Personaje Carmilla creado correctamente.",
	}, f.rec.Last())

	created := f.findPersonaje(t, "Carmilla")
	require.Equal(t, "Carmilla", created.Nombre)
	require.Equal(t, models.Poderes{"Seducción"}, created.Poderes)
}

func TestUpdateKeepsStoredImageWhenBlank(t *testing.T) {
	f := newStubFixture(t)
	ctx := context.Background()
	f.loginAdmin(t)

	f.state.SetNombreFilter(ctx, "Lestat")
	require.Len(t, f.state.Personajes(), 1)
	prev := f.state.Personajes()[0]
	require.NotEmpty(t, prev.Imagen)

	ok := f.state.Update(ctx, prev.Key(), models.Personaje{
		Nombre:        "Lestat de Lioncourt",
		Tipo:          "Vampiro",
		Clasificacion: "Antagonista",
	})
	require.True(t, ok)

	after, err := f.client.GetPersonaje(ctx, prev.Key())
	require.NoError(t, err)
	require.Equal(t, prev.Imagen, after.Imagen)
}

func TestDeleteDeclinedIsNoOp(t *testing.T) {
	f := newStubFixture(t)
	ctx := context.Background()
	lestat := f.findPersonaje(t, "Lestat")

	ok := f.state.Delete(ctx, lestat.Key(), lestat.Nombre)
	require.False(t, ok)
	require.Len(t, f.confirm.prompts, 1)
	require.Contains(t, f.confirm.prompts[0], "¿Estás seguro de eliminar a Lestat de Lioncourt?")
	require.Empty(t, f.rec.Entries(), "declining must not notify")

	_, err := f.client.GetPersonaje(ctx, lestat.Key())
	require.NoError(t, err, "declining must not delete")
}

func TestDeleteConfirmed(t *testing.T) {
	f := newStubFixture(t)
	ctx := context.Background()
	f.loginAdmin(t)
	f.confirm.ok = true
	f.state.Refresh(ctx)

	lestat := f.findPersonaje(t, "Lestat")
	ok := f.state.Delete(ctx, lestat.Key(), lestat.Nombre)
	require.True(t, ok)
	require.Equal(t, 9, f.state.Meta().TotalItems)
	require.Equal(t, notify.Entry{
		Level:   notify.LevelSuccess,
		Message: "Personaje Lestat de Lioncourt eliminado correctamente.",
	}, f.rec.Last())

	_, err := f.client.GetPersonaje(ctx, lestat.Key())
	apiErr, isAPI := api.AsAPIError(err)
	require.True(t, isAPI)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}
