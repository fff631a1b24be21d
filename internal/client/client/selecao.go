package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/espm/internal/client/models"
	"github.com/dmitrijs2005/espm/internal/common"
)

const favoritePath = "/publicTender/data/favorite"

// SelecaoClient reads public tenders from the empregabilidade API and keeps
// the user's favorites on the ESPM API. Listing endpoints are public; the
// favorites endpoint needs the httpClient to carry an AuthTransport.
type SelecaoClient struct {
	empregabilidadeURL string
	espmURL            string
	httpClient         *http.Client
}

func NewSelecaoClient(empregabilidadeURL, espmURL string, httpClient *http.Client) *SelecaoClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &SelecaoClient{
		empregabilidadeURL: strings.TrimRight(empregabilidadeURL, "/"),
		espmURL:            strings.TrimRight(espmURL, "/"),
		httpClient:         httpClient,
	}
}

func (c *SelecaoClient) GetAllConcursos(ctx context.Context) ([]models.Concurso, error) {
	var out []models.Concurso
	if err := c.get(ctx, c.empregabilidadeURL, true, &out); err != nil {
		return nil, fmt.Errorf("failed to list concursos: %w", err)
	}
	if out == nil {
		out = []models.Concurso{}
	}
	return out, nil
}

func (c *SelecaoClient) GetConcurso(ctx context.Context, id int) (*models.Concurso, error) {
	var out models.Concurso
	if err := c.get(ctx, c.empregabilidadeURL+"/"+strconv.Itoa(id), true, &out); err != nil {
		return nil, fmt.Errorf("failed to get concurso %d: %w", id, err)
	}
	return &out, nil
}

func (c *SelecaoClient) GetClassificacao(ctx context.Context, idConcurso, idCargo int) ([]models.Classificacao, error) {
	u := fmt.Sprintf("%s/%d/cargo/%d/classificacao", c.empregabilidadeURL, idConcurso, idCargo)

	var out []models.Classificacao
	if err := c.get(ctx, u, true, &out); err != nil {
		return nil, fmt.Errorf("failed to get classificacao %d/%d: %w", idConcurso, idCargo, err)
	}
	return out, nil
}

// GetFavorites returns the favorites stored on the server for the signed-in user.
func (c *SelecaoClient) GetFavorites(ctx context.Context) (*models.ConcursoFavorito, error) {
	var out models.ConcursoFavorito
	if err := c.get(ctx, c.espmURL+favoritePath, false, &out); err != nil {
		return nil, fmt.Errorf("failed to get favorites: %w", err)
	}
	return &out, nil
}

// SyncFavorites replaces the server-side favorites with ids and returns the
// stored document.
func (c *SelecaoClient) SyncFavorites(ctx context.Context, ids []int) (*models.ConcursoFavorito, error) {
	if ids == nil {
		ids = []int{}
	}
	payload, err := json.Marshal(models.ConcursoFavorito{FavoriteItems: ids})
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.espmURL+favoritePath, bytes.NewReader(payload), false)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var out models.ConcursoFavorito
	if err := doJSON(c.httpClient, req, &out); err != nil {
		return nil, fmt.Errorf("failed to sync favorites: %w", err)
	}
	return &out, nil
}

func (c *SelecaoClient) get(ctx context.Context, u string, anonymous bool, target any) error {
	req, err := c.newRequest(ctx, http.MethodGet, u, nil, anonymous)
	if err != nil {
		return err
	}
	return doJSON(c.httpClient, req, target)
}

func (c *SelecaoClient) newRequest(ctx context.Context, method, u string, body io.Reader, anonymous bool) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if anonymous {
		req.Header.Set(common.AnonymousHeaderName, "true")
	}
	return req, nil
}
