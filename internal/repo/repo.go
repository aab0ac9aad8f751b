package repo

import (
	"context"
	"database/sql"
	"time"
)

type RunMeta struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Run is a saved result set: the exported CSV of one computed catalog.
type Run struct {
	RunMeta
	CSV string `json:"-"`
}

type Repository interface {
	CreateUser(ctx context.Context, login, email, password string) (int, error)
	GetBylogin(ctx context.Context, login string) (int, string, error)
	SaveRun(ctx context.Context, userID int, name, csv string) (int, error)
	ListRuns(ctx context.Context, userID int) ([]RunMeta, error)
	GetRun(ctx context.Context, userID, runID int) (Run, error)
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresDB(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateUser(ctx context.Context, login, email, password string) (int, error) {
	var id int
	query := "INSERT INTO users (login, email, password) VALUES ($1, $2, $3) RETURNING id"
	err := r.db.QueryRowContext(ctx, query, login, email, password).Scan(&id)
	return id, err
}

func (r *PostgresRepository) GetBylogin(ctx context.Context, login string) (int, string, error) {
	var id int
	var hash string

	query := "SELECT id, password FROM users WHERE login=$1"

	err := r.db.QueryRowContext(ctx, query, login).Scan(&id, &hash)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, "", nil
		}
		return 0, "", err
	}
	return id, hash, nil
}

func (r *PostgresRepository) SaveRun(ctx context.Context, userID int, name, csv string) (int, error) {
	var id int
	query := "INSERT INTO runs (user_id, name, csv, created_at) VALUES ($1, $2, $3, now()) RETURNING id"
	err := r.db.QueryRowContext(ctx, query, userID, name, csv).Scan(&id)
	return id, err
}

func (r *PostgresRepository) ListRuns(ctx context.Context, userID int) ([]RunMeta, error) {
	query := "SELECT id, name, created_at FROM runs WHERE user_id=$1 ORDER BY created_at DESC"
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var metas []RunMeta
	for rows.Next() {
		var m RunMeta
		if err := rows.Scan(&m.ID, &m.Name, &m.CreatedAt); err != nil {
			return nil, err
		}
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

func (r *PostgresRepository) GetRun(ctx context.Context, userID, runID int) (Run, error) {
	var run Run
	query := "SELECT id, name, created_at, csv FROM runs WHERE user_id=$1 AND id=$2"
	err := r.db.QueryRowContext(ctx, query, userID, runID).
		Scan(&run.ID, &run.Name, &run.CreatedAt, &run.CSV)
	return run, err
}
