package study

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"studycat/internal/study/models"
	id "studycat/pkg/domain"
	"studycat/pkg/platform/sentinel"
	txcontext "studycat/pkg/platform/tx"
)

// Postgres persists studies in the studies table. Name uniqueness is enforced
// by the name_lower unique index.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const studyColumns = `id, name, record, revision, created_by, created_at, updated_at`

func (p *Postgres) CreateIfNameAvailable(ctx context.Context, s *models.Study) error {
	body, err := encodeFields(s.Record)
	if err != nil {
		return err
	}
	res, err := txcontext.Exec(ctx, p.db).ExecContext(ctx, `
		INSERT INTO studies (id, name, name_lower, record, revision, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT DO NOTHING`,
		uuid.UUID(s.ID), s.Name, models.NameKey(s.Name), body, s.Revision,
		nullableCurator(s.CreatedBy), s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert study: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert study: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("study name %q: %w", s.Name, sentinel.ErrAlreadyUsed)
	}
	return nil
}

func (p *Postgres) FindByID(ctx context.Context, studyID id.StudyID) (*models.Study, error) {
	row := txcontext.Exec(ctx, p.db).QueryRowContext(ctx,
		`SELECT `+studyColumns+` FROM studies WHERE id = $1`, uuid.UUID(studyID))
	return scanStudy(row)
}

func (p *Postgres) FindByName(ctx context.Context, name string) (*models.Study, error) {
	row := txcontext.Exec(ctx, p.db).QueryRowContext(ctx,
		`SELECT `+studyColumns+` FROM studies WHERE name_lower = $1`, models.NameKey(name))
	return scanStudy(row)
}

func (p *Postgres) List(ctx context.Context) ([]*models.Study, error) {
	rows, err := txcontext.Exec(ctx, p.db).QueryContext(ctx,
		`SELECT `+studyColumns+` FROM studies ORDER BY name_lower`)
	if err != nil {
		return nil, fmt.Errorf("list studies: %w", err)
	}
	defer rows.Close()

	var out []*models.Study
	for rows.Next() {
		s, err := scanStudy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate studies: %w", err)
	}
	return out, nil
}

// Execute locks the row with SELECT ... FOR UPDATE, runs validate and mutate,
// and writes the result. It joins the caller's transaction when present.
func (p *Postgres) Execute(ctx context.Context, studyID id.StudyID, validate func(*models.Study) error, mutate func(*models.Study)) (*models.Study, error) {
	var out *models.Study
	err := txcontext.NewPostgres(p.db, 0).RunInTx(ctx, func(ctx context.Context) error {
		exec := txcontext.Exec(ctx, p.db)
		s, err := scanStudy(exec.QueryRowContext(ctx,
			`SELECT `+studyColumns+` FROM studies WHERE id = $1 FOR UPDATE`, uuid.UUID(studyID)))
		if err != nil {
			return err
		}
		if err := validate(s); err != nil {
			return err
		}
		mutate(s)

		body, err := encodeFields(s.Record)
		if err != nil {
			return err
		}
		_, err = exec.ExecContext(ctx, `
			UPDATE studies SET record = $2, revision = $3, updated_at = $4
			WHERE id = $1`,
			uuid.UUID(s.ID), body, s.Revision, s.UpdatedAt)
		if err != nil {
			return fmt.Errorf("update study: %w", err)
		}
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the study; genomes go with it via ON DELETE CASCADE.
func (p *Postgres) Delete(ctx context.Context, studyID id.StudyID) error {
	res, err := txcontext.Exec(ctx, p.db).ExecContext(ctx,
		`DELETE FROM studies WHERE id = $1`, uuid.UUID(studyID))
	if err != nil {
		return fmt.Errorf("delete study: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete study: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudy(row rowScanner) (*models.Study, error) {
	var (
		s         models.Study
		rawID     uuid.UUID
		body      []byte
		createdBy *uuid.UUID
	)
	err := row.Scan(&rawID, &s.Name, &body, &s.Revision, &createdBy, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan study: %w", err)
	}
	s.ID = id.StudyID(rawID)
	if createdBy != nil {
		s.CreatedBy = id.CuratorID(*createdBy)
	}
	rec, err := decodeFields(body)
	if err != nil {
		return nil, err
	}
	s.Record = rec
	return &s, nil
}

func nullableCurator(c id.CuratorID) *uuid.UUID {
	if c.IsNil() {
		return nil
	}
	v := uuid.UUID(c)
	return &v
}
