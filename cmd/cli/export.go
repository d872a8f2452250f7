package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"nocturna/internal/api"
	"nocturna/pkg/models"
)

func (a *app) handleExport(ctx context.Context, sub string, args []string) {
	switch sub {
	case "json":
		fs := flag.NewFlagSet("export json", flag.ExitOnError)
		out := fs.String("out", "data/personajes.json", "output JSON path")
		limit := fs.Int("limit", 200, "max personajes to export")
		_ = fs.Parse(args)

		items, err := a.fetchAll(ctx, *limit)
		if err != nil {
			log.Fatalf("export json failed: %v", err)
		}
		if err := writeJSONFile(*out, items); err != nil {
			log.Fatalf("write json failed: %v", err)
		}
		a.notifier.Success(fmt.Sprintf("%d personajes exportados a %s", len(items), *out))
	case "csv":
		fs := flag.NewFlagSet("export csv", flag.ExitOnError)
		out := fs.String("out", "data/personajes.csv", "output CSV path")
		limit := fs.Int("limit", 200, "max personajes to export")
		_ = fs.Parse(args)

		items, err := a.fetchAll(ctx, *limit)
		if err != nil {
			log.Fatalf("export csv failed: %v", err)
		}
		if err := writeCSVFile(*out, items); err != nil {
			log.Fatalf("write csv failed: %v", err)
		}
		a.notifier.Success(fmt.Sprintf("%d personajes exportados a %s", len(items), *out))
	default:
		log.Fatal("usage: nocturna export <json|csv>")
	}
}

// fetchAll pages through the catalog until limit entries are collected or
// the server runs out.
func (a *app) fetchAll(ctx context.Context, limit int) ([]models.Personaje, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be > 0")
	}

	var out []models.Personaje
	page := 1
	for len(out) < limit {
		pageSize := 50
		if remaining := limit - len(out); remaining < pageSize {
			pageSize = remaining
		}

		resp, err := a.client.ListPersonajes(ctx, api.ListParams{Page: page, Limit: pageSize})
		if err != nil {
			return nil, err
		}
		if len(resp.Personajes) == 0 {
			break
		}
		out = append(out, resp.Personajes...)
		if page >= resp.Meta.TotalPages {
			break
		}
		page++
	}
	return out, nil
}

// handleFavoritosExport writes the active identity's favorites list to disk.
func (a *app) handleFavoritosExport(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("favoritos export", flag.ExitOnError)
	format := fs.String("format", "json", "json or csv")
	out := fs.String("out", "", "output path (default data/favoritos.<format>)")
	_ = fs.Parse(args)

	path := *out
	if path == "" {
		path = "data/favoritos." + *format
	}

	favs := a.catalog.Favoritos(ctx)
	if err := exportFavoritos(favs, *format, path); err != nil {
		log.Fatalf("favoritos export failed: %v", err)
	}
	a.notifier.Success(fmt.Sprintf("%d favoritos exportados a %s", len(favs), path))
}

func exportFavoritos(favs []models.Favorito, format, path string) error {
	switch format {
	case "json":
		return writeJSONFile(path, favs)
	case "csv":
		return writeFavoritosCSV(path, favs)
	}
	return fmt.Errorf("formato %q no soportado (json|csv)", format)
}

func writeFavoritosCSV(path string, favs []models.Favorito) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"id", "nombre", "tipo", "imagen"}); err != nil {
		return err
	}
	for _, f := range favs {
		if err := writer.Write([]string{f.ID, f.Nombre, f.Tipo, f.Imagen}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeJSONFile(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func writeCSVFile(path string, items []models.Personaje) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{
		"id", "nombre", "tipo", "clasificacion", "poderes", "descripcion", "obra", "imagen",
	}); err != nil {
		return err
	}
	for _, p := range items {
		if err := writer.Write([]string{
			p.Key(),
			p.Nombre,
			p.Tipo,
			p.Clasificacion,
			strings.Join(p.Poderes, ","),
			p.Descripcion,
			p.Obra,
			p.Imagen,
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
