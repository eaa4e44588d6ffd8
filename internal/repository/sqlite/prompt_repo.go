package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"

	"teachassist/internal/errs"
	"teachassist/internal/model"
)

// PromptRepo implements PromptRepository using SQLite.
type PromptRepo struct{ db *DB }

// NewPromptRepo constructs a prompt repository.
func NewPromptRepo(db *DB) *PromptRepo { return &PromptRepo{db: db} }

// Create inserts a new prompt. Flagging it default clears the flag on others.
func (r *PromptRepo) Create(ctx context.Context, p *model.SystemPrompt) (err error) {
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	if p.IsDefault {
		if _, err = tx.ExecContext(ctx, `UPDATE system_prompts SET is_default=0`); err != nil {
			return err
		}
	}
	const q = `INSERT INTO system_prompts (id, name, content, is_default, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, q,
		p.ID.String(), p.Name, p.Content, boolInt(p.IsDefault), unix(now), unix(now))
	if isConstraintViolation(err) {
		err = errs.ErrAlreadyExists
	}
	return err
}

// GetByID loads a prompt by ID.
func (r *PromptRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.SystemPrompt, error) {
	const q = `SELECT id, name, content, is_default, created_at, updated_at FROM system_prompts WHERE id=?`
	return scanPrompt(r.db.QueryRowContext(ctx, q, id.String()))
}

// GetDefault returns the prompt flagged as default.
func (r *PromptRepo) GetDefault(ctx context.Context) (*model.SystemPrompt, error) {
	const q = `SELECT id, name, content, is_default, created_at, updated_at
FROM system_prompts WHERE is_default=1 LIMIT 1`
	return scanPrompt(r.db.QueryRowContext(ctx, q))
}

// GetAll returns all prompts ordered by name.
func (r *PromptRepo) GetAll(ctx context.Context) ([]model.SystemPrompt, error) {
	const q = `SELECT id, name, content, is_default, created_at, updated_at
FROM system_prompts ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SystemPrompt
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Update persists mutable prompt fields. Flagging it default clears the flag on others.
func (r *PromptRepo) Update(ctx context.Context, p *model.SystemPrompt) (err error) {
	p.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	if p.IsDefault {
		if _, err = tx.ExecContext(ctx, `UPDATE system_prompts SET is_default=0 WHERE id<>?`, p.ID.String()); err != nil {
			return err
		}
	}
	const q = `UPDATE system_prompts SET name=?, content=?, is_default=?, updated_at=? WHERE id=?`
	res, err := tx.ExecContext(ctx, q,
		p.Name, p.Content, boolInt(p.IsDefault), unix(p.UpdatedAt), p.ID.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes a prompt.
func (r *PromptRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM system_prompts WHERE id=?`, id.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func scanPrompt(row rowScanner) (*model.SystemPrompt, error) {
	var (
		p        model.SystemPrompt
		idStr    string
		def      int
		cre, upd int64
	)
	err := row.Scan(&idStr, &p.Name, &p.Content, &def, &cre, &upd)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.ID = uuidOrNil(idStr)
	p.IsDefault = def != 0
	p.CreatedAt, p.UpdatedAt = fromUnix(cre), fromUnix(upd)
	return &p, nil
}
