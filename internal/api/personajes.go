package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"nocturna/pkg/models"
)

// ListParams is the (page, limit, tipo, nombre) tuple a personajes fetch is
// issued for. Blank filters are trimmed and omitted from the query.
type ListParams struct {
	Page   int
	Limit  int
	Tipo   string
	Nombre string
}

func (p ListParams) query() url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("limit", strconv.Itoa(p.Limit))
	if tipo := strings.TrimSpace(p.Tipo); tipo != "" {
		q.Set("tipo", tipo)
	}
	if nombre := strings.TrimSpace(p.Nombre); nombre != "" {
		q.Set("nombre", nombre)
	}
	return q
}

// PersonajesPage is one page of the listing plus its pagination block. The
// endpoint may answer either {personajes: [...], meta: {...}} or a bare
// array; both decode, and a missing meta is synthesized from the page.
type PersonajesPage struct {
	Personajes []models.Personaje `json:"personajes"`
	Meta       models.Meta        `json:"meta"`
}

func (p *PersonajesPage) UnmarshalJSON(data []byte) error {
	var bare []models.Personaje
	if err := json.Unmarshal(data, &bare); err == nil {
		p.Personajes = bare
		p.Meta = models.Meta{}
		return nil
	}

	type alias PersonajesPage
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*p = PersonajesPage(a)
	return nil
}

func (c *Client) ListPersonajes(ctx context.Context, params ListParams) (*PersonajesPage, error) {
	var page PersonajesPage
	if err := c.do(ctx, http.MethodGet, "/api/personajes", params.query(), nil, &page); err != nil {
		return nil, err
	}
	if page.Meta == (models.Meta{}) {
		page.Meta = models.FallbackMeta(len(page.Personajes), params.Limit)
	}
	return &page, nil
}

func (c *Client) GetPersonaje(ctx context.Context, id string) (*models.Personaje, error) {
	var p models.Personaje
	if err := c.do(ctx, http.MethodGet, "/api/personajes/"+url.PathEscape(id), nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) CreatePersonaje(ctx context.Context, p models.Personaje) (*models.Personaje, error) {
	var created models.Personaje
	if err := c.do(ctx, http.MethodPost, "/api/personajes", nil, p, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdatePersonaje(ctx context.Context, id string, p models.Personaje) (*models.Personaje, error) {
	var updated models.Personaje
	if err := c.do(ctx, http.MethodPut, "/api/personajes/"+url.PathEscape(id), nil, p, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeletePersonaje(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/personajes/"+url.PathEscape(id), nil, nil, nil)
}
