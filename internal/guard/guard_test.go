package guard

import (
	"testing"

	"github.com/stretchr/testify/require"

	"nocturna/internal/notify"
)

type fakeSession struct {
	loggedIn bool
	rol      string
}

func (f fakeSession) LoggedIn() bool { return f.loggedIn }
func (f fakeSession) Rol() string    { return f.rol }

func TestCheck(t *testing.T) {
	cases := []struct {
		name    string
		session fakeSession
		roles   []string
		want    Decision
		level   notify.Level
		message string
	}{
		{
			name:    "no session redirects to login",
			session: fakeSession{},
			roles:   []string{"admin"},
			want:    RedirectLogin,
			level:   notify.LevelWarn,
			message: "Necesitas iniciar sesión para acceder a esta página.",
		},
		{
			name:    "wrong role redirects to catalog",
			session: fakeSession{loggedIn: true, rol: "user"},
			roles:   []string{"admin"},
			want:    RedirectCatalog,
			level:   notify.LevelError,
			message: "No tienes permisos suficientes para acceder a esta función.",
		},
		{
			name:    "matching role allows",
			session: fakeSession{loggedIn: true, rol: "admin"},
			roles:   []string{"admin"},
			want:    Allow,
		},
		{
			name:    "role comparison is case-insensitive",
			session: fakeSession{loggedIn: true, rol: "ADMIN"},
			roles:   []string{"admin"},
			want:    Allow,
		},
		{
			name:    "no role requirement only needs a session",
			session: fakeSession{loggedIn: true, rol: "user"},
			want:    Allow,
		},
		{
			name:    "empty role never matches",
			session: fakeSession{loggedIn: true},
			roles:   []string{""},
			want:    RedirectCatalog,
			level:   notify.LevelError,
			message: "No tienes permisos suficientes para acceder a esta función.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := notify.NewRecorder()
			got := Check(tc.session, rec, tc.roles...)
			require.Equal(t, tc.want, got)

			if tc.message == "" {
				require.Empty(t, rec.Entries())
				return
			}
			require.Equal(t, notify.Entry{Level: tc.level, Message: tc.message}, rec.Last())
		})
	}
}
