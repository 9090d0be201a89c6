// Package pg provides the PostgreSQL implementation of the film catalog.
package pg

import (
	"context"
	"database/sql"

	"filmgate.io/internal/film"
	"filmgate.io/internal/ids"
)

var _ film.Service = (*FilmStore)(nil)

// FilmStore implements film.Service on PostgreSQL.
type FilmStore struct {
	db *sql.DB
}

func NewFilmStore(db *sql.DB) *FilmStore {
	return &FilmStore{db: db}
}

func (s *FilmStore) Create(ctx context.Context, title, director string, year int) (film.Film, error) {
	if err := film.Validate(title, director, year); err != nil {
		return film.Film{}, err
	}
	f := film.Film{ID: ids.New(), Title: title, Director: director, Year: year}
	row := s.db.QueryRowContext(ctx,
		`insert into films(id, title, director, year) values($1,$2,$3,$4)
		 returning created_at, updated_at`,
		f.ID, f.Title, f.Director, f.Year,
	)
	if err := row.Scan(&f.CreatedAt, &f.UpdatedAt); err != nil {
		return film.Film{}, err
	}
	return f, nil
}

func (s *FilmStore) List(ctx context.Context) ([]film.Film, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, title, director, year, created_at, updated_at from films order by created_at asc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []film.Film
	for rows.Next() {
		var f film.Film
		if err := rows.Scan(&f.ID, &f.Title, &f.Director, &f.Year, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *FilmStore) Get(ctx context.Context, id string) (film.Film, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, title, director, year, created_at, updated_at from films where id=$1`, id)
	var f film.Film
	if err := row.Scan(&f.ID, &f.Title, &f.Director, &f.Year, &f.CreatedAt, &f.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return film.Film{}, film.ErrNotFound
		}
		return film.Film{}, err
	}
	return f, nil
}

func (s *FilmStore) Update(ctx context.Context, id string, upd film.Update) (film.Film, error) {
	if err := upd.Validate(); err != nil {
		return film.Film{}, err
	}
	row := s.db.QueryRowContext(ctx,
		`update films
		    set title    = coalesce($2, title),
		        director = coalesce($3, director),
		        year     = coalesce($4, year),
		        updated_at = now()
		  where id = $1
		 returning id, title, director, year, created_at, updated_at`,
		id, upd.Title, upd.Director, upd.Year,
	)
	var f film.Film
	if err := row.Scan(&f.ID, &f.Title, &f.Director, &f.Year, &f.CreatedAt, &f.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return film.Film{}, film.ErrNotFound
		}
		return film.Film{}, err
	}
	return f, nil
}

func (s *FilmStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from films where id=$1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return film.ErrNotFound
	}
	return nil
}
