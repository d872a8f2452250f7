// Package favorites persists the per-identity favorites set in the local
// sqlite store. Each set lives under a "favorites-<identity>" namespace and
// survives across sessions until its identity logs out.
package favorites

import (
	"context"
	"database/sql"
	"fmt"

	"nocturna/pkg/models"
)

// Prefix is prepended to the resolved identity to form the namespace key.
const Prefix = "favorites-"

// Namespace builds the storage key for an identity.
func Namespace(identity string) string {
	if identity == "" {
		identity = models.AnonKey
	}
	return Prefix + identity
}

type Store struct {
	DB *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

// List returns the namespace's favorites in insertion order.
func (s *Store) List(ctx context.Context, ns string) ([]models.Favorito, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT personaje_id, nombre, imagen, tipo
		FROM favorites
		WHERE namespace = ?
		ORDER BY added_at, rowid
	`, ns)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	var out []models.Favorito
	for rows.Next() {
		var f models.Favorito
		var imagen, tipo sql.NullString
		if err := rows.Scan(&f.ID, &f.Nombre, &imagen, &tipo); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		f.Imagen = imagen.String
		f.Tipo = tipo.String
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// Contains reports whether the personaje id is in the namespace.
func (s *Store) Contains(ctx context.Context, ns, id string) (bool, error) {
	var n int
	err := s.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM favorites WHERE namespace = ? AND personaje_id = ?
	`, ns, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("contains favorite: %w", err)
	}
	return n > 0, nil
}

// Add inserts the favorite and reports whether a row was actually written.
// The primary key makes a duplicate add a no-op, which is the storage-level
// guard against double-add races.
func (s *Store) Add(ctx context.Context, ns string, f models.Favorito) (bool, error) {
	res, err := s.DB.ExecContext(ctx, `
		INSERT INTO favorites (namespace, personaje_id, nombre, imagen, tipo)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(namespace, personaje_id) DO NOTHING
	`, ns, f.ID, f.Nombre, f.Imagen, f.Tipo)
	if err != nil {
		return false, fmt.Errorf("add favorite: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Remove deletes the favorite and reports whether it existed.
func (s *Store) Remove(ctx context.Context, ns, id string) (bool, error) {
	res, err := s.DB.ExecContext(ctx, `
		DELETE FROM favorites WHERE namespace = ? AND personaje_id = ?
	`, ns, id)
	if err != nil {
		return false, fmt.Errorf("remove favorite: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Clear empties the namespace unconditionally.
func (s *Store) Clear(ctx context.Context, ns string) error {
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM favorites WHERE namespace = ?`, ns); err != nil {
		return fmt.Errorf("clear favorites: %w", err)
	}
	return nil
}

// DropNamespace discards an identity's whole set. Called by the session
// store when that identity logs out.
func (s *Store) DropNamespace(ns string) error {
	return s.Clear(context.Background(), ns)
}
