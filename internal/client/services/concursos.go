package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/espm/internal/client/models"
	"github.com/dmitrijs2005/espm/internal/client/repositories/favorites"
	"github.com/dmitrijs2005/espm/internal/logging"
	"github.com/dmitrijs2005/espm/internal/textx"
)

// ErrNotAuthenticated is returned by operations that need a session when
// there is none.
var ErrNotAuthenticated = errors.New("not authenticated")

// SelecaoAPI is the remote side of ConcursoService.
type SelecaoAPI interface {
	GetAllConcursos(ctx context.Context) ([]models.Concurso, error)
	GetConcurso(ctx context.Context, id int) (*models.Concurso, error)
	GetClassificacao(ctx context.Context, idConcurso, idCargo int) ([]models.Classificacao, error)
	GetFavorites(ctx context.Context) (*models.ConcursoFavorito, error)
	SyncFavorites(ctx context.Context, ids []int) (*models.ConcursoFavorito, error)
}

// SessionChecker reports whether a session is available for authenticated calls.
type SessionChecker interface {
	HasSession() bool
}

// ConcursoService lists public tenders and manages the user's favorites.
type ConcursoService interface {
	LoadAll(ctx context.Context) ([]models.Concurso, error)
	Get(ctx context.Context, id int) (*models.Concurso, error)
	Classificacao(ctx context.Context, idConcurso, idCargo int) ([]models.Classificacao, error)
	ToggleFavorite(ctx context.Context, c models.Concurso) ([]models.Concurso, error)
	ToggleFavoriteByID(ctx context.Context, id int) ([]models.Concurso, error)
	Favorites(ctx context.Context) ([]models.Concurso, error)
	SyncFavorites(ctx context.Context) (*models.ConcursoFavorito, error)
	RemoteFavorites(ctx context.Context) (*models.ConcursoFavorito, error)
}

type concursoService struct {
	api     SelecaoAPI
	favs    favorites.Repository
	session SessionChecker
	log     logging.Logger
}

func NewConcursoService(api SelecaoAPI, favs favorites.Repository, session SessionChecker, log logging.Logger) ConcursoService {
	if log == nil {
		log = logging.Discard()
	}
	return &concursoService{api: api, favs: favs, session: session, log: log}
}

// LoadAll fetches every concurso, flags the local favorites and lists them first.
func (s *concursoService) LoadAll(ctx context.Context) ([]models.Concurso, error) {
	list, err := s.api.GetAllConcursos(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.markFavorites(ctx, list); err != nil {
		return nil, err
	}
	return SortByFavorites(list), nil
}

func (s *concursoService) Get(ctx context.Context, id int) (*models.Concurso, error) {
	c, err := s.api.GetConcurso(ctx, id)
	if err != nil {
		return nil, err
	}
	fav, err := s.favs.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Favorito = fav
	return c, nil
}

func (s *concursoService) Classificacao(ctx context.Context, idConcurso, idCargo int) ([]models.Classificacao, error) {
	return s.api.GetClassificacao(ctx, idConcurso, idCargo)
}

// ToggleFavorite removes c from the favorites when present and adds it
// otherwise. It returns the resulting favorites.
func (s *concursoService) ToggleFavorite(ctx context.Context, c models.Concurso) ([]models.Concurso, error) {
	exists, err := s.favs.Exists(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		err = s.favs.Remove(ctx, c.ID)
	} else {
		err = s.favs.Add(ctx, c)
	}
	if err != nil {
		return nil, err
	}
	return s.favs.List(ctx)
}

// ToggleFavoriteByID is ToggleFavorite for callers that only know the id.
// The concurso is fetched only when it has to be added.
func (s *concursoService) ToggleFavoriteByID(ctx context.Context, id int) ([]models.Concurso, error) {
	exists, err := s.favs.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return s.ToggleFavorite(ctx, models.Concurso{ID: id})
	}

	c, err := s.api.GetConcurso(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.ToggleFavorite(ctx, *c)
}

func (s *concursoService) Favorites(ctx context.Context) ([]models.Concurso, error) {
	return s.favs.List(ctx)
}

// SyncFavorites pushes the local favorite ids to the ESPM API.
func (s *concursoService) SyncFavorites(ctx context.Context) (*models.ConcursoFavorito, error) {
	if s.session == nil || !s.session.HasSession() {
		return nil, ErrNotAuthenticated
	}

	ids, err := s.favs.IDs(ctx)
	if err != nil {
		return nil, err
	}

	out, err := s.api.SyncFavorites(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("favorites sync error: %w", err)
	}
	s.log.Info(ctx, "favorites synced", "count", len(ids))
	return out, nil
}

// RemoteFavorites fetches the favorites document last stored on the ESPM API.
func (s *concursoService) RemoteFavorites(ctx context.Context) (*models.ConcursoFavorito, error) {
	if s.session == nil || !s.session.HasSession() {
		return nil, ErrNotAuthenticated
	}

	out, err := s.api.GetFavorites(ctx)
	if err != nil {
		return nil, fmt.Errorf("remote favorites error: %w", err)
	}
	return out, nil
}

func (s *concursoService) markFavorites(ctx context.Context, list []models.Concurso) error {
	ids, err := s.favs.IDs(ctx)
	if err != nil {
		return err
	}
	fav := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		fav[id] = struct{}{}
	}
	for i := range list {
		_, list[i].Favorito = fav[list[i].ID]
	}
	return nil
}

// Search returns the concursos whose orgao or descricao contains term,
// ignoring case and accents. An empty term matches everything.
func Search(list []models.Concurso, term string) []models.Concurso {
	needle := textx.Normalize(term)
	if needle == "" {
		return list
	}
	out := make([]models.Concurso, 0, len(list))
	for _, c := range list {
		if textx.Contains(c.Orgao, needle) || textx.Contains(c.Descricao, needle) {
			out = append(out, c)
		}
	}
	return out
}

// SortByFavorites returns list with favorites first, keeping the relative
// order within each group.
func SortByFavorites(list []models.Concurso) []models.Concurso {
	out := make([]models.Concurso, 0, len(list))
	for _, c := range list {
		if c.Favorito {
			out = append(out, c)
		}
	}
	for _, c := range list {
		if !c.Favorito {
			out = append(out, c)
		}
	}
	return out
}
