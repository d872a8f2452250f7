package api

import (
	"context"
	"net/http"
	"net/url"

	"nocturna/pkg/models"
)

func (c *Client) ListObras(ctx context.Context) ([]models.Obra, error) {
	var obras []models.Obra
	if err := c.do(ctx, http.MethodGet, "/api/obras", nil, nil, &obras); err != nil {
		return nil, err
	}
	return obras, nil
}

func (c *Client) GetObra(ctx context.Context, id string) (*models.Obra, error) {
	var o models.Obra
	if err := c.do(ctx, http.MethodGet, "/api/obras/"+url.PathEscape(id), nil, nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateObra sends a payload already translated to the server's write
// convention (see models.Obra.Payload) and returns the server's echo.
func (c *Client) CreateObra(ctx context.Context, payload map[string]any) (*models.Obra, error) {
	var created models.Obra
	if err := c.do(ctx, http.MethodPost, "/api/obras", nil, payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateObra(ctx context.Context, id string, payload map[string]any) (*models.Obra, error) {
	var updated models.Obra
	if err := c.do(ctx, http.MethodPut, "/api/obras/"+url.PathEscape(id), nil, payload, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteObra(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/obras/"+url.PathEscape(id), nil, nil, nil)
}
