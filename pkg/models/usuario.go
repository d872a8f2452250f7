package models

// AnonKey is the favorites namespace identity used when no user is resolved.
const AnonKey = "anon"

// Usuario is the profile stored alongside the session token.
type Usuario struct {
	ID      string `json:"id,omitempty"`
	MongoID string `json:"_id,omitempty"`
	Nombre  string `json:"nombre"`
	Email   string `json:"email"`
	Rol     string `json:"rol"`
}

// Key resolves the identity used to namespace per-user state:
// id, then _id, then email, then the anonymous key.
func (u *Usuario) Key() string {
	if u == nil {
		return AnonKey
	}
	switch {
	case u.ID != "":
		return u.ID
	case u.MongoID != "":
		return u.MongoID
	case u.Email != "":
		return u.Email
	}
	return AnonKey
}
