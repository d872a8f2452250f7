package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"nocturna/internal/api"
	"nocturna/internal/catalog"
	"nocturna/internal/config"
	"nocturna/internal/favorites"
	"nocturna/internal/guard"
	"nocturna/internal/logging"
	"nocturna/internal/notify"
	"nocturna/internal/obras"
	"nocturna/internal/session"
	"nocturna/pkg/database"
	"nocturna/pkg/models"
)

// app bundles the wired state managers behind the CLI commands.
type app struct {
	cfg      config.Config
	notifier notify.Notifier
	session  *session.Store
	catalog  *catalog.State
	obras    *obras.State
	client   *api.Client
	autoYes  bool
}

func main() {
	cfg := config.Load()

	global := flag.NewFlagSet("nocturna", flag.ExitOnError)
	baseURL := global.String("api", cfg.APIBaseURL, "API base URL")
	autoYes := global.Bool("yes", false, "assume yes on confirmation prompts")
	if err := global.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	args := global.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	cfg.APIBaseURL = *baseURL

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	notifier := notify.NewConsole()

	db := database.MustOpen(database.Config{Path: cfg.DBPath})
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate local store: %v", err)
	}

	favStore := favorites.NewStore(db)
	client := api.New(cfg.APIBaseURL, api.WithLogger(logger))
	sess := session.New(client, notifier, favStore, cfg.SessionFile, logger)

	a := &app{
		cfg:      cfg,
		notifier: notifier,
		session:  sess,
		client:   client,
		autoYes:  *autoYes,
	}
	a.catalog = catalog.New(client, notifier, a, favStore, sess, logger)
	a.obras = obras.New(client, notifier, a, logger)

	if sess.LoggedIn() && sess.Expired() {
		notifier.Warn("Tu sesión ha expirado. Inicia sesión de nuevo.")
		sess.Logout()
	}

	ctx := context.Background()
	cmd := args[0]
	sub := ""
	if len(args) > 1 {
		sub = args[1]
	}
	rest := args[1:]
	if len(args) > 2 {
		rest = args[2:]
	}

	switch cmd {
	case "auth":
		a.handleAuth(ctx, sub, rest)
	case "personajes":
		a.handlePersonajes(ctx, sub, rest)
	case "obras":
		a.handleObras(ctx, sub, rest)
	case "favoritos":
		a.handleFavoritos(ctx, sub, rest)
	case "export":
		a.handleExport(ctx, sub, rest)
	default:
		printUsage()
		os.Exit(1)
	}
}

// Confirm implements the destructive-action guard: a y/N prompt, skipped
// with -yes.
func (a *app) Confirm(prompt string) bool {
	if a.autoYes {
		return true
	}
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", prompt)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "s" || answer == "si" || answer == "sí"
}

// requireAdmin runs the route guard for an admin-only command. When denied,
// the command exits without issuing the protected API call.
func (a *app) requireAdmin() {
	if guard.Check(a.session, a.notifier, "admin") != guard.Allow {
		os.Exit(1)
	}
}

func (a *app) handleAuth(ctx context.Context, sub string, args []string) {
	switch sub {
	case "login":
		fs := flag.NewFlagSet("auth login", flag.ExitOnError)
		email := fs.String("email", "", "email address")
		password := fs.String("password", "", "password")
		_ = fs.Parse(args)
		if *email == "" || *password == "" {
			log.Fatal("email y password son obligatorios")
		}
		if !a.session.Login(ctx, *email, *password) {
			os.Exit(1)
		}
	case "register":
		fs := flag.NewFlagSet("auth register", flag.ExitOnError)
		nombre := fs.String("nombre", "", "display name")
		email := fs.String("email", "", "email address")
		password := fs.String("password", "", "password")
		_ = fs.Parse(args)
		if *nombre == "" || *email == "" || *password == "" {
			log.Fatal("nombre, email y password son obligatorios")
		}
		if !a.session.Register(ctx, *nombre, *email, *password) {
			os.Exit(1)
		}
	case "logout":
		a.session.Logout()
	case "whoami":
		u := a.session.User()
		if u == nil {
			fmt.Println("sin sesión")
			return
		}
		printJSON(map[string]any{"user": u, "admin": a.session.IsAdmin()})
	default:
		log.Fatal("usage: nocturna auth <login|register|logout|whoami>")
	}
}

func (a *app) handlePersonajes(ctx context.Context, sub string, args []string) {
	switch sub {
	case "list":
		fs := flag.NewFlagSet("personajes list", flag.ExitOnError)
		page := fs.Int("page", 1, "page number")
		limit := fs.Int("limit", catalog.DefaultLimit, "page size")
		tipo := fs.String("tipo", "", "type filter (Vampiro, Bruja, ...)")
		nombre := fs.String("nombre", "", "name search")
		_ = fs.Parse(args)

		a.catalog.SetQuery(*page, *limit, *tipo, *nombre)
		a.catalog.Refresh(ctx)
		printJSON(map[string]any{
			"personajes": a.catalog.Personajes(),
			"meta":       a.catalog.Meta(),
		})
	case "show":
		fs := flag.NewFlagSet("personajes show", flag.ExitOnError)
		id := fs.String("id", "", "personaje id")
		_ = fs.Parse(args)
		if *id == "" {
			log.Fatal("id es obligatorio")
		}
		p, err := a.client.GetPersonaje(ctx, *id)
		if err != nil {
			log.Fatalf("show: %v", err)
		}
		printJSON(p)
	case "create":
		a.requireAdmin()
		p, _ := personajeFlags("personajes create", args)
		if !a.catalog.Create(ctx, p) {
			os.Exit(1)
		}
	case "update":
		a.requireAdmin()
		p, id := personajeFlags("personajes update", args)
		if id == "" {
			log.Fatal("id es obligatorio")
		}
		if !a.catalog.Update(ctx, id, p) {
			os.Exit(1)
		}
	case "delete":
		a.requireAdmin()
		fs := flag.NewFlagSet("personajes delete", flag.ExitOnError)
		id := fs.String("id", "", "personaje id")
		nombre := fs.String("nombre", "", "name used in the confirmation")
		_ = fs.Parse(args)
		if *id == "" {
			log.Fatal("id es obligatorio")
		}
		if !a.catalog.Delete(ctx, *id, *nombre) {
			os.Exit(1)
		}
	default:
		log.Fatal("usage: nocturna personajes <list|show|create|update|delete>")
	}
}

func personajeFlags(name string, args []string) (models.Personaje, string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	id := fs.String("id", "", "personaje id")
	nombre := fs.String("nombre", "", "name")
	tipo := fs.String("tipo", "", "type (Vampiro, Bruja, Mago, ...)")
	clasificacion := fs.String("clasificacion", "Protagonista", "Protagonista|Antagonista|Aliado")
	imagen := fs.String("imagen", "", "image URL or local path")
	poderes := fs.String("poderes", "", "comma-separated powers")
	descripcion := fs.String("descripcion", "", "description")
	obra := fs.String("obra", "", "obra id")
	_ = fs.Parse(args)

	return models.Personaje{
		Nombre:        *nombre,
		Tipo:          *tipo,
		Clasificacion: *clasificacion,
		Imagen:        *imagen,
		Poderes:       models.ParsePoderes(*poderes),
		Descripcion:   *descripcion,
		Obra:          *obra,
	}, *id
}

func (a *app) handleObras(ctx context.Context, sub string, args []string) {
	switch sub {
	case "list":
		a.obras.Load(ctx)
		printJSON(a.obras.Obras())
	case "show":
		fs := flag.NewFlagSet("obras show", flag.ExitOnError)
		id := fs.String("id", "", "obra id")
		_ = fs.Parse(args)
		if *id == "" {
			log.Fatal("id es obligatorio")
		}
		o, err := a.client.GetObra(ctx, *id)
		if err != nil {
			log.Fatalf("show: %v", err)
		}
		printJSON(o.Normalize())
	case "create":
		a.requireAdmin()
		o, _ := obraFlags("obras create", args)
		a.obras.Load(ctx)
		if !a.obras.Create(ctx, o) {
			os.Exit(1)
		}
	case "update":
		a.requireAdmin()
		o, id := obraFlags("obras update", args)
		if id == "" {
			log.Fatal("id es obligatorio")
		}
		a.obras.Load(ctx)
		if !a.obras.Update(ctx, id, o) {
			os.Exit(1)
		}
	case "delete":
		a.requireAdmin()
		fs := flag.NewFlagSet("obras delete", flag.ExitOnError)
		id := fs.String("id", "", "obra id")
		titulo := fs.String("titulo", "", "title used in the confirmation")
		_ = fs.Parse(args)
		if *id == "" {
			log.Fatal("id es obligatorio")
		}
		a.obras.Load(ctx)
		if !a.obras.Delete(ctx, *id, *titulo) {
			os.Exit(1)
		}
	default:
		log.Fatal("usage: nocturna obras <list|show|create|update|delete>")
	}
}

func obraFlags(name string, args []string) (models.Obra, string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	id := fs.String("id", "", "obra id")
	titulo := fs.String("titulo", "", "title")
	tipo := fs.String("tipo", "", "PELICULA, LIBRO/SAGA, SERIE, ...")
	anio := fs.Int("anio", 0, "publication year")
	imagen := fs.String("imagen", "", "cover URL or local path")
	genero := fs.String("genero", "", "genre")
	sinopsis := fs.String("sinopsis", "", "synopsis")
	_ = fs.Parse(args)

	return models.Obra{
		Titulo:          *titulo,
		Tipo:            models.NormalizeTipo(strings.TrimSpace(*tipo)),
		AnioPublicacion: *anio,
		Imagen:          *imagen,
		Genero:          *genero,
		Sinopsis:        *sinopsis,
	}, *id
}

func (a *app) handleFavoritos(ctx context.Context, sub string, args []string) {
	switch sub {
	case "list":
		printJSON(a.catalog.Favoritos(ctx))
	case "toggle":
		fs := flag.NewFlagSet("favoritos toggle", flag.ExitOnError)
		id := fs.String("id", "", "personaje id")
		_ = fs.Parse(args)
		if *id == "" {
			log.Fatal("id es obligatorio")
		}
		p, err := a.client.GetPersonaje(ctx, *id)
		if err != nil {
			log.Fatalf("toggle: %v", err)
		}
		a.catalog.ToggleFavorite(ctx, *p)
	case "remove":
		fs := flag.NewFlagSet("favoritos remove", flag.ExitOnError)
		id := fs.String("id", "", "personaje id")
		_ = fs.Parse(args)
		if *id == "" {
			log.Fatal("id es obligatorio")
		}
		a.catalog.RemoveFavorite(ctx, *id)
	case "clear":
		a.catalog.ClearAllFavorites(ctx)
	case "export":
		a.handleFavoritosExport(ctx, args)
	default:
		log.Fatal("usage: nocturna favoritos <list|toggle|remove|clear|export>")
	}
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("json: %v", err)
	}
	fmt.Println(string(b))
}

func printUsage() {
	fmt.Println("nocturna [-api URL] [-yes] <command> [subcommand] [flags]")
	fmt.Println("commands:")
	fmt.Println("  auth login|register|logout|whoami")
	fmt.Println("  personajes list|show|create|update|delete")
	fmt.Println("  obras list|show|create|update|delete")
	fmt.Println("  favoritos list|toggle|remove|clear|export")
	fmt.Println("  export json|csv")
}
