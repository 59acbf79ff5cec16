package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"survey-service/internal/survey/model"
)

// Postgres keeps every document as JSONB in one table keyed by collection.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	p := &Postgres{pool: pool}
	if err := p.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

func (p *Postgres) ensureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS survey_documents (
			id UUID PRIMARY KEY,
			seq BIGSERIAL,
			collection TEXT NOT NULL,
			owner TEXT NOT NULL DEFAULT '',
			raw BOOLEAN NOT NULL DEFAULT FALSE,
			doc JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS survey_documents_collection_seq_idx
			ON survey_documents (collection, seq);
		CREATE TABLE IF NOT EXISTS import_collections (
			name TEXT PRIMARY KEY,
			display_name TEXT NOT NULL DEFAULT '',
			owner TEXT NOT NULL DEFAULT '',
			count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (p *Postgres) CreateRecord(ctx context.Context, collection, owner string, r model.Record) (string, error) {
	return p.insert(ctx, collection, owner, false, recordDocument(r))
}

func (p *Postgres) CreateDocument(ctx context.Context, collection, owner string, fields map[string]any) (string, error) {
	return p.insert(ctx, collection, owner, true, fields)
}

func (p *Postgres) insert(ctx context.Context, collection, owner string, raw bool, doc map[string]any) (string, error) {
	if err := ValidateCollection(collection); err != nil {
		return "", err
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	id := uuid.New()
	if _, err := p.pool.Exec(ctx, `
		INSERT INTO survey_documents (id, collection, owner, raw, doc)
		VALUES ($1, $2, $3, $4, $5)
	`, id, collection, owner, raw, b); err != nil {
		return "", fmt.Errorf("insert document: %w", err)
	}
	return id.String(), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStored(row scanner) (model.StoredRecord, error) {
	var (
		s   model.StoredRecord
		id  uuid.UUID
		raw bool
		doc []byte
	)
	if err := row.Scan(&id, &s.Collection, &s.Owner, &raw, &doc, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return s, err
	}
	s.ID = id.String()
	if raw {
		if err := json.Unmarshal(doc, &s.Fields); err != nil {
			return s, fmt.Errorf("decode document %s: %w", s.ID, err)
		}
		s.Record = NormalizeDocument(s.Fields)
		return s, nil
	}
	if err := json.Unmarshal(doc, &s.Record); err != nil {
		return s, fmt.Errorf("decode document %s: %w", s.ID, err)
	}
	s.Record = withLists(s.Record)
	return s, nil
}

const selectDocument = `SELECT id, collection, owner, raw, doc, created_at, updated_at FROM survey_documents`

func (p *Postgres) ListRecords(ctx context.Context, collection string) ([]model.StoredRecord, error) {
	if err := ValidateCollection(collection); err != nil {
		return nil, err
	}
	rows, err := p.pool.Query(ctx, selectDocument+` WHERE collection = $1 ORDER BY seq`, collection)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	out := []model.StoredRecord{}
	for rows.Next() {
		s, err := scanStored(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (p *Postgres) UpdateRecord(ctx context.Context, collection, id string, patch model.RecordPatch) (model.StoredRecord, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return model.StoredRecord{}, ErrNotFound
	}
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return model.StoredRecord{}, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback(ctx)

	cur, err := scanStored(tx.QueryRow(ctx, selectDocument+` WHERE collection = $1 AND id = $2 FOR UPDATE`, collection, uid))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.StoredRecord{}, ErrNotFound
	}
	if err != nil {
		return model.StoredRecord{}, err
	}

	// a patched raw document becomes a canonical one
	next := withLists(patch.Apply(cur.Record))
	b, err := json.Marshal(recordDocument(next))
	if err != nil {
		return model.StoredRecord{}, fmt.Errorf("encode document: %w", err)
	}
	now := time.Now().UTC()
	if _, err := tx.Exec(ctx, `
		UPDATE survey_documents SET doc = $1, raw = FALSE, updated_at = $2 WHERE id = $3
	`, b, now, uid); err != nil {
		return model.StoredRecord{}, fmt.Errorf("update document: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return model.StoredRecord{}, fmt.Errorf("commit update: %w", err)
	}

	cur.Record, cur.Fields, cur.UpdatedAt = next, nil, now
	return cur, nil
}

func (p *Postgres) DeleteRecord(ctx context.Context, collection, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	tag, err := p.pool.Exec(ctx, `DELETE FROM survey_documents WHERE collection = $1 AND id = $2`, collection, uid)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) DeleteCollection(ctx context.Context, collection string) (int, error) {
	if err := ValidateCollection(collection); err != nil {
		return 0, err
	}
	tag, err := p.pool.Exec(ctx, `DELETE FROM survey_documents WHERE collection = $1`, collection)
	if err != nil {
		return 0, fmt.Errorf("delete collection: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (p *Postgres) RegisterCollection(ctx context.Context, info model.CollectionInfo) error {
	if err := ValidateCollection(info.Name); err != nil {
		return err
	}
	if info.CreatedAt.IsZero() {
		info.CreatedAt = time.Now().UTC()
	}
	_, err := p.pool.Exec(ctx, `
		INSERT INTO import_collections (name, display_name, owner, count, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO UPDATE
		SET display_name = EXCLUDED.display_name, owner = EXCLUDED.owner, count = EXCLUDED.count
	`, info.Name, info.DisplayName, info.Owner, info.Count, info.CreatedAt)
	if err != nil {
		return fmt.Errorf("register collection: %w", err)
	}
	return nil
}

func (p *Postgres) ListCollections(ctx context.Context) ([]model.CollectionInfo, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT c.name, c.display_name, c.owner, c.created_at,
			(SELECT COUNT(*) FROM survey_documents d WHERE d.collection = c.name)
		FROM import_collections c
		ORDER BY c.created_at DESC, c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	out := []model.CollectionInfo{}
	for rows.Next() {
		var (
			c     model.CollectionInfo
			count int64
		)
		if err := rows.Scan(&c.Name, &c.DisplayName, &c.Owner, &c.CreatedAt, &count); err != nil {
			return nil, err
		}
		c.Count = int(count)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (p *Postgres) Close() { p.pool.Close() }
