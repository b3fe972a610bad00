package notes

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// Repository stores notes in Postgres.
type Repository struct {
	db *sql.DB

	stmtList *sql.Stmt
}

func NewRepository(ctx context.Context, db *sql.DB) (*Repository, error) {
	list, err := db.PrepareContext(ctx, `
		SELECT id, owner_id, title, msg, created_at, updated_at
		FROM notes
		WHERE owner_id = $1
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}

	return &Repository{db: db, stmtList: list}, nil
}

func (r *Repository) Close() error {
	if r.stmtList != nil {
		return r.stmtList.Close()
	}
	return nil
}

// Create uses explicit transaction: INSERT notes + INSERT audit.
func (r *Repository) Create(ctx context.Context, ownerID, title, msg string) (Note, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return Note{}, err
	}
	defer tx.Rollback()

	var n Note
	err = tx.QueryRowContext(ctx, `
		INSERT INTO notes (id, owner_id, title, msg) VALUES ($1, $2, $3, $4)
		RETURNING id, owner_id, title, msg, created_at, updated_at
	`, uuid.NewString(), ownerID, title, msg).Scan(&n.ID, &n.PostedBy, &n.Title, &n.Msg, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return Note{}, err
	}

	if err := audit(ctx, tx, n.ID, "create"); err != nil {
		return Note{}, err
	}
	if err := tx.Commit(); err != nil {
		return Note{}, err
	}
	return n, nil
}

func (r *Repository) Update(ctx context.Context, id, title, msg string) (Note, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return Note{}, err
	}
	defer tx.Rollback()

	var n Note
	err = tx.QueryRowContext(ctx, `
		UPDATE notes
		SET title = $1, msg = $2, updated_at = now()
		WHERE id = $3
		RETURNING id, owner_id, title, msg, created_at, updated_at
	`, title, msg, id).Scan(&n.ID, &n.PostedBy, &n.Title, &n.Msg, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Note{}, ErrNotFound
	}
	if err != nil {
		return Note{}, err
	}

	if err := audit(ctx, tx, n.ID, "update"); err != nil {
		return Note{}, err
	}
	if err := tx.Commit(); err != nil {
		return Note{}, err
	}
	return n, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if a, _ := res.RowsAffected(); a == 0 {
		return ErrNotFound
	}

	if err := audit(ctx, tx, id, "delete"); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *Repository) ListByOwner(ctx context.Context, ownerID string) ([]Note, error) {
	rows, err := r.stmtList.QueryContext(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNotes(rows)
}

func audit(ctx context.Context, tx *sql.Tx, noteID, action string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO notes_audit (note_id, action) VALUES ($1, $2)`, noteID, action)
	return err
}

func scanNotes(rows *sql.Rows) ([]Note, error) {
	out := make([]Note, 0, 32)
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.PostedBy, &n.Title, &n.Msg, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
