package models

// Concurso is a public tender listed by the selection API. Favorito is local
// state and is filled in by the client.
type Concurso struct {
	ID              int     `json:"id"`
	Orgao           string  `json:"orgao"`
	Descricao       string  `json:"descricao"`
	Status          string  `json:"status"`
	Tipo            string  `json:"tipo,omitempty"`
	DataAtualizacao string  `json:"ultimaAtualizacao,omitempty"`
	Cargos          []Cargo `json:"cargos,omitempty"`
	Favorito        bool    `json:"favorito"`
}

// Cargo is a position offered by a concurso.
type Cargo struct {
	ID   int    `json:"id"`
	Nome string `json:"nome"`
}

// Classificacao is one row of a position's ranking.
type Classificacao struct {
	Posicao   int     `json:"classificacao"`
	Inscricao string  `json:"inscricao"`
	Nome      string  `json:"nome"`
	Situacao  string  `json:"situacao"`
	Nota      float64 `json:"nota"`
}

// ConcursoFavorito is the favorites document kept by the ESPM API for the
// signed-in user.
type ConcursoFavorito struct {
	ID            string `json:"id,omitempty"`
	Date          string `json:"date,omitempty"`
	FavoriteItems []int  `json:"favoriteItems"`
}
