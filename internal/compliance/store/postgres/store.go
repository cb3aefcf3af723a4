// Package postgres persists case facts, evidence and compliance records.
// Evidence rows are insert-only; the compliance record is upserted per case.
// Every statement joins the transaction carried by the context, if any.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"nyaya/internal/compliance"
	"nyaya/pkg/domain"
	"nyaya/pkg/platform/sentinel"
	txcontext "nyaya/pkg/platform/tx"
)

const uniqueViolation = "23505"

// Store implements the service evidence and compliance stores on PostgreSQL.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *Store) SaveFacts(ctx context.Context, facts *compliance.CaseFacts) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO case_facts (case_id, cnr_number, accused_name, sections, law_code, registered_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, facts.CaseID.String(), facts.CNRNumber, facts.AccusedName, pq.Array(facts.Sections), string(facts.LawCode), facts.RegisteredAt)
	if err != nil {
		return translateInsertErr("insert case facts", err)
	}
	return nil
}

func (s *Store) FindFacts(ctx context.Context, caseID domain.CaseID) (*compliance.CaseFacts, error) {
	var (
		f        compliance.CaseFacts
		id, law  string
		sections []string
	)
	err := s.execer(ctx).QueryRowContext(ctx, `
		SELECT case_id, cnr_number, accused_name, sections, law_code, registered_at
		FROM case_facts WHERE case_id = $1
	`, caseID.String()).Scan(&id, &f.CNRNumber, &f.AccusedName, pq.Array(&sections), &law, &f.RegisteredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find case facts: %w", err)
	}
	f.CaseID = domain.CaseID(id)
	f.LawCode = compliance.LawCode(law)
	f.Sections = sections
	return &f, nil
}

func (s *Store) SaveVideo(ctx context.Context, video *compliance.Video) error {
	metadata, err := json.Marshal(video)
	if err != nil {
		return fmt.Errorf("marshal video: %w", err)
	}
	_, err = s.execer(ctx).ExecContext(ctx, `
		INSERT INTO forensic_videos (video_id, case_id, source_hash, server_hash, upload_status, integrity_status, metadata, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`, video.ID, video.CaseID.String(), video.SourceHash, video.ServerHash,
		string(video.UploadStatus), string(video.IntegrityStatus), metadata)
	if err != nil {
		return translateInsertErr("insert video", err)
	}
	return nil
}

func (s *Store) FindVideo(ctx context.Context, videoID string) (*compliance.Video, error) {
	return scanJSON[compliance.Video](s.execer(ctx).QueryRowContext(ctx,
		`SELECT metadata FROM forensic_videos WHERE video_id = $1`, videoID), "find video")
}

func (s *Store) LatestVideo(ctx context.Context, caseID domain.CaseID) (*compliance.Video, error) {
	return scanJSON[compliance.Video](s.execer(ctx).QueryRowContext(ctx, `
		SELECT metadata FROM forensic_videos WHERE case_id = $1 ORDER BY seq DESC LIMIT 1
	`, caseID.String()), "latest video")
}

func (s *Store) SaveVisitToken(ctx context.Context, token *compliance.VisitToken) error {
	metadata, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("marshal visit token: %w", err)
	}
	_, err = s.execer(ctx).ExecContext(ctx, `
		INSERT INTO visit_tokens (token_id, case_id, expert_id, is_verified, metadata, recorded_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`, token.ID, token.CaseID.String(), token.ExpertID.String(), token.IsVerified, metadata)
	if err != nil {
		return translateInsertErr("insert visit token", err)
	}
	return nil
}

func (s *Store) LatestVisitToken(ctx context.Context, caseID domain.CaseID) (*compliance.VisitToken, error) {
	return scanJSON[compliance.VisitToken](s.execer(ctx).QueryRowContext(ctx, `
		SELECT metadata FROM visit_tokens WHERE case_id = $1 ORDER BY seq DESC LIMIT 1
	`, caseID.String()), "latest visit token")
}

func (s *Store) FindCompliance(ctx context.Context, caseID domain.CaseID) (*compliance.Compliance, error) {
	return scanJSON[compliance.Compliance](s.execer(ctx).QueryRowContext(ctx,
		`SELECT record FROM compliance_records WHERE case_id = $1`, caseID.String()), "find compliance")
}

// SaveCompliance upserts the record; the indexed columns mirror the JSON body
// so the judicial review queue can be read without decoding every row.
func (s *Store) SaveCompliance(ctx context.Context, record *compliance.Compliance) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal compliance: %w", err)
	}
	_, err = s.execer(ctx).ExecContext(ctx, `
		INSERT INTO compliance_records (case_id, is_mandatory, interlock_status, check_result, judicial_review, record, last_checked)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (case_id) DO UPDATE SET
			is_mandatory = EXCLUDED.is_mandatory,
			interlock_status = EXCLUDED.interlock_status,
			check_result = EXCLUDED.check_result,
			judicial_review = EXCLUDED.judicial_review,
			record = EXCLUDED.record,
			last_checked = EXCLUDED.last_checked
	`, record.CaseID.String(), record.IsMandatory, string(record.InterlockStatus), string(record.CheckResult),
		record.NeedsJudicialReview(), body, record.LastChecked)
	if err != nil {
		return fmt.Errorf("upsert compliance: %w", err)
	}
	return nil
}

func (s *Store) ListJudicialReview(ctx context.Context) ([]*compliance.Compliance, error) {
	rows, err := s.execer(ctx).QueryContext(ctx,
		`SELECT record FROM compliance_records WHERE judicial_review ORDER BY case_id`)
	if err != nil {
		return nil, fmt.Errorf("list judicial review: %w", err)
	}
	defer rows.Close()

	var out []*compliance.Compliance
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan compliance: %w", err)
		}
		var c compliance.Compliance
		if err := json.Unmarshal(body, &c); err != nil {
			return nil, fmt.Errorf("decode compliance: %w", err)
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate compliance: %w", err)
	}
	return out, nil
}

func scanJSON[T any](row *sql.Row, op string) (*T, error) {
	var body []byte
	if err := row.Scan(&body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}
	return &out, nil
}

func translateInsertErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", op, sentinel.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}
