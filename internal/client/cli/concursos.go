package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/espm/internal/client/models"
	"github.com/dmitrijs2005/espm/internal/client/services"
	"github.com/dmitrijs2005/espm/internal/textx"
)

// orgaoWidth is the label width used for the orgao column.
const orgaoWidth = 12

// Concursos lists every tender, favorites first. Arguments, when given, are
// joined into a search term.
func (a *App) Concursos(ctx context.Context, args []string) error {
	list, err := a.concursoService.LoadAll(ctx)
	if err != nil {
		return describe(err)
	}
	list = services.Search(list, strings.Join(args, " "))
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No tenders found")
		return nil
	}
	for _, c := range list {
		a.printConcurso(c)
	}
	return nil
}

// Concurso shows one tender and its positions.
func (a *App) Concurso(ctx context.Context, args []string) error {
	ids, err := parseIDs(args, "concurso <id>", 1)
	if err != nil {
		return err
	}

	c, err := a.concursoService.Get(ctx, ids[0])
	if err != nil {
		return describe(err)
	}

	a.printConcurso(*c)
	if c.Tipo != "" {
		fmt.Fprintf(a.out, "  type:    %s\n", c.Tipo)
	}
	if c.DataAtualizacao != "" {
		fmt.Fprintf(a.out, "  updated: %s\n", c.DataAtualizacao)
	}
	for _, cargo := range c.Cargos {
		fmt.Fprintf(a.out, "  cargo %d: %s\n", cargo.ID, cargo.Nome)
	}
	return nil
}

// Classificacao prints the ranking of one position.
func (a *App) Classificacao(ctx context.Context, args []string) error {
	ids, err := parseIDs(args, "classificacao <id> <cargo>", 2)
	if err != nil {
		return err
	}

	rows, err := a.concursoService.Classificacao(ctx, ids[0], ids[1])
	if err != nil {
		return describe(err)
	}
	if len(rows) == 0 {
		fmt.Fprintln(a.out, "No ranking published")
		return nil
	}
	for _, r := range rows {
		fmt.Fprintf(a.out, "%4d  %-10s %-30s %7.2f  %s\n", r.Posicao, r.Inscricao, r.Nome, r.Nota, r.Situacao)
	}
	return nil
}

// Favorito toggles a tender in the local favorites.
func (a *App) Favorito(ctx context.Context, args []string) error {
	ids, err := parseIDs(args, "favorito <id>", 1)
	if err != nil {
		return err
	}

	favs, err := a.concursoService.ToggleFavoriteByID(ctx, ids[0])
	if err != nil {
		return describe(err)
	}

	for _, c := range favs {
		if c.ID == ids[0] {
			fmt.Fprintf(a.out, "Added %d to favorites (%d total)\n", ids[0], len(favs))
			return nil
		}
	}
	fmt.Fprintf(a.out, "Removed %d from favorites (%d total)\n", ids[0], len(favs))
	return nil
}

// Favoritos lists the local favorites in the order they were added. With
// --remote it shows the favorites stored on the ESPM API instead.
func (a *App) Favoritos(ctx context.Context, args []string) error {
	switch {
	case len(args) == 0:
	case len(args) == 1 && args[0] == "--remote":
		return a.remoteFavoritos(ctx)
	default:
		return usageError("favoritos [--remote]")
	}

	favs, err := a.concursoService.Favorites(ctx)
	if err != nil {
		return describe(err)
	}
	if len(favs) == 0 {
		fmt.Fprintln(a.out, "No favorites yet")
		return nil
	}
	for _, c := range favs {
		c.Favorito = true
		a.printConcurso(c)
	}
	return nil
}

func (a *App) remoteFavoritos(ctx context.Context) error {
	doc, err := a.concursoService.RemoteFavorites(ctx)
	if err != nil {
		return describe(err)
	}
	if len(doc.FavoriteItems) == 0 {
		fmt.Fprintln(a.out, "No favorites on the server")
		return nil
	}

	ids := make([]string, len(doc.FavoriteItems))
	for i, id := range doc.FavoriteItems {
		ids[i] = strconv.Itoa(id)
	}
	if doc.Date != "" {
		fmt.Fprintf(a.out, "Server favorites (%s): %s\n", doc.Date, strings.Join(ids, ", "))
	} else {
		fmt.Fprintf(a.out, "Server favorites: %s\n", strings.Join(ids, ", "))
	}
	return nil
}

// Sync pushes the local favorites to the ESPM API.
func (a *App) Sync(ctx context.Context) error {
	out, err := a.concursoService.SyncFavorites(ctx)
	if err != nil {
		return describe(err)
	}
	fmt.Fprintf(a.out, "Synced %d favorites\n", len(out.FavoriteItems))
	return nil
}

func (a *App) printConcurso(c models.Concurso) {
	mark := " "
	if c.Favorito {
		mark = "*"
	}
	fmt.Fprintf(a.out, "%s %5d  %-13s %s [%s]\n", mark, c.ID, textx.Truncate(c.Orgao, orgaoWidth), c.Descricao, c.Status)
}

// parseIDs reads exactly n integer arguments.
func parseIDs(args []string, usage string, n int) ([]int, error) {
	if len(args) != n {
		return nil, usageError(usage)
	}
	ids := make([]int, n)
	for i, arg := range args {
		id, err := strconv.Atoi(arg)
		if err != nil {
			return nil, usageError(usage)
		}
		ids[i] = id
	}
	return ids, nil
}
