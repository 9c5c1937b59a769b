package genome

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"studycat/internal/study/models"
	id "studycat/pkg/domain"
	txcontext "studycat/pkg/platform/tx"
)

// Postgres stores genomes in the genomes table with fields as a JSONB object.
// Batch writes pass accession lists as arrays so each call is one statement.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Register(ctx context.Context, studyID id.StudyID, accessions []id.Accession) ([]id.Accession, error) {
	if len(accessions) == 0 {
		return nil, nil
	}
	rows, err := txcontext.Exec(ctx, p.db).QueryContext(ctx, `
		INSERT INTO genomes (study_id, accession)
		SELECT $1, acc FROM unnest($2::text[]) WITH ORDINALITY AS a(acc, ord)
		ORDER BY ord
		ON CONFLICT DO NOTHING
		RETURNING accession`,
		uuid.UUID(studyID), pq.Array(accessionStrings(accessions)))
	if err != nil {
		return nil, fmt.Errorf("register genomes: %w", err)
	}
	defer rows.Close()

	inserted := make(map[id.Accession]bool)
	for rows.Next() {
		var acc string
		if err := rows.Scan(&acc); err != nil {
			return nil, fmt.Errorf("scan registered genome: %w", err)
		}
		inserted[id.Accession(acc)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("register genomes: %w", err)
	}
	// RETURNING order is not guaranteed; report in input order.
	var added []id.Accession
	for _, acc := range accessions {
		if inserted[acc] {
			added = append(added, acc)
			delete(inserted, acc)
		}
	}
	return added, nil
}

func (p *Postgres) ListByStudy(ctx context.Context, studyID id.StudyID) ([]*models.Genome, error) {
	rows, err := txcontext.Exec(ctx, p.db).QueryContext(ctx, `
		SELECT accession, fields, representative, is_representative
		FROM genomes
		WHERE study_id = $1
		ORDER BY accession`, uuid.UUID(studyID))
	if err != nil {
		return nil, fmt.Errorf("list genomes: %w", err)
	}
	defer rows.Close()

	var out []*models.Genome
	for rows.Next() {
		var (
			acc    string
			fields []byte
			rep    sql.NullString
			isRep  sql.NullBool
		)
		if err := rows.Scan(&acc, &fields, &rep, &isRep); err != nil {
			return nil, fmt.Errorf("scan genome: %w", err)
		}
		g := models.NewGenome(studyID, id.Accession(acc))
		if err := json.Unmarshal(fields, &g.Fields); err != nil {
			return nil, fmt.Errorf("decode genome fields: %w", err)
		}
		g.Representative = id.Accession(rep.String)
		g.IsRepresentative = isRep.Bool
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate genomes: %w", err)
	}
	return out, nil
}

func (p *Postgres) ListAccessions(ctx context.Context, studyID id.StudyID) ([]id.Accession, error) {
	rows, err := txcontext.Exec(ctx, p.db).QueryContext(ctx,
		`SELECT accession FROM genomes WHERE study_id = $1 ORDER BY accession`, uuid.UUID(studyID))
	if err != nil {
		return nil, fmt.Errorf("list accessions: %w", err)
	}
	defer rows.Close()

	var out []id.Accession
	for rows.Next() {
		var acc string
		if err := rows.Scan(&acc); err != nil {
			return nil, fmt.Errorf("scan accession: %w", err)
		}
		out = append(out, id.Accession(acc))
	}
	return out, rows.Err()
}

func (p *Postgres) SetField(ctx context.Context, studyID id.StudyID, field string, values map[id.Accession]*models.FieldValue) (int, error) {
	var (
		setAccs   []string
		setValues []string
		clearAccs []string
	)
	for acc, v := range values {
		if v == nil {
			clearAccs = append(clearAccs, string(acc))
			continue
		}
		b, err := json.Marshal(v)
		if err != nil {
			return 0, fmt.Errorf("encode field value: %w", err)
		}
		setAccs = append(setAccs, string(acc))
		setValues = append(setValues, string(b))
	}

	exec := txcontext.Exec(ctx, p.db)
	total := 0
	if len(setAccs) > 0 {
		res, err := exec.ExecContext(ctx, `
			UPDATE genomes g
			SET fields = jsonb_set(g.fields, ARRAY[$2::text], v.val::jsonb, true)
			FROM unnest($3::text[], $4::text[]) AS v(acc, val)
			WHERE g.study_id = $1 AND g.accession = v.acc`,
			uuid.UUID(studyID), field, pq.Array(setAccs), pq.Array(setValues))
		if err != nil {
			return 0, fmt.Errorf("set genome field: %w", err)
		}
		n, _ := res.RowsAffected()
		total += int(n)
	}
	if len(clearAccs) > 0 {
		res, err := exec.ExecContext(ctx, `
			UPDATE genomes SET fields = fields - $2::text
			WHERE study_id = $1 AND accession = ANY($3::text[])`,
			uuid.UUID(studyID), field, pq.Array(clearAccs))
		if err != nil {
			return 0, fmt.Errorf("clear genome field: %w", err)
		}
		n, _ := res.RowsAffected()
		total += int(n)
	}
	return total, nil
}

func (p *Postgres) ResetRepresentatives(ctx context.Context, studyID id.StudyID) error {
	_, err := txcontext.Exec(ctx, p.db).ExecContext(ctx, `
		UPDATE genomes SET representative = NULL, is_representative = FALSE
		WHERE study_id = $1`, uuid.UUID(studyID))
	if err != nil {
		return fmt.Errorf("reset representatives: %w", err)
	}
	return nil
}

func (p *Postgres) AssignRepresentatives(ctx context.Context, studyID id.StudyID, assignments map[id.Accession]id.Accession) error {
	if len(assignments) == 0 {
		return nil
	}
	accs := make([]string, 0, len(assignments))
	reps := make([]string, 0, len(assignments))
	for acc, rep := range assignments {
		accs = append(accs, string(acc))
		reps = append(reps, string(rep))
	}
	_, err := txcontext.Exec(ctx, p.db).ExecContext(ctx, `
		UPDATE genomes g
		SET representative = v.rep, is_representative = (v.acc = v.rep)
		FROM unnest($2::text[], $3::text[]) AS v(acc, rep)
		WHERE g.study_id = $1 AND g.accession = v.acc`,
		uuid.UUID(studyID), pq.Array(accs), pq.Array(reps))
	if err != nil {
		return fmt.Errorf("assign representatives: %w", err)
	}
	return nil
}

func (p *Postgres) DeleteByStudy(ctx context.Context, studyID id.StudyID) error {
	_, err := txcontext.Exec(ctx, p.db).ExecContext(ctx,
		`DELETE FROM genomes WHERE study_id = $1`, uuid.UUID(studyID))
	if err != nil {
		return fmt.Errorf("delete genomes: %w", err)
	}
	return nil
}

func accessionStrings(accs []id.Accession) []string {
	out := make([]string, len(accs))
	for i, a := range accs {
		out[i] = string(a)
	}
	return out
}
