package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"model-registry/internal/core/domain"
	"model-registry/internal/core/ports/output"
)

type store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) ports.Store {
	return &store{pool: pool}
}

func (s *store) SaveModel(ctx context.Context, model *domain.Model) error {
	query := `
		INSERT INTO model
			(id, created_at, updated_at, name, description, model_type, current_version_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE
		SET updated_at = EXCLUDED.updated_at,
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			model_type = EXCLUDED.model_type,
			current_version_id = EXCLUDED.current_version_id
	`
	_, err := s.pool.Exec(ctx, query,
		model.ID, model.CreatedAt, model.UpdatedAt,
		model.Name, model.Description, model.ModelType,
		model.CurrentVersionID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrModelNameExists
		}
		return fmt.Errorf("save model: %w", err)
	}
	return nil
}

func (s *store) SaveVersion(ctx context.Context, version *domain.ModelVersion) error {
	query := `
		INSERT INTO model_version
			(id, created_at, updated_at, model_id, version_number, state, payload)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE
		SET updated_at = EXCLUDED.updated_at,
			state = EXCLUDED.state,
			payload = EXCLUDED.payload
	`
	_, err := s.pool.Exec(ctx, query,
		version.ID, version.CreatedAt, version.UpdatedAt,
		version.ModelID, version.VersionNumber, string(version.State),
		[]byte(version.Payload),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23503":
				return domain.ErrModelNotFound
			case "23505":
				return fmt.Errorf("save version: duplicate version number: %w", err)
			}
		}
		return fmt.Errorf("save version: %w", err)
	}
	return nil
}

func (s *store) LoadModel(ctx context.Context, id uuid.UUID) (*domain.Model, error) {
	query := `
		SELECT id, created_at, updated_at, name, description, model_type, current_version_id
		FROM model
		WHERE id = $1
	`
	model, err := scanModel(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrModelNotFound
		}
		return nil, fmt.Errorf("load model: %w", err)
	}
	return model, nil
}

func (s *store) LoadVersion(ctx context.Context, id uuid.UUID) (*domain.ModelVersion, error) {
	query := `
		SELECT id, created_at, updated_at, model_id, version_number, state, payload
		FROM model_version
		WHERE id = $1
	`
	version, err := scanVersion(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVersionNotFound
		}
		return nil, fmt.Errorf("load version: %w", err)
	}
	return version, nil
}

func (s *store) DeleteModel(ctx context.Context, id uuid.UUID) error {
	// model_version rows go with the model via ON DELETE CASCADE.
	result, err := s.pool.Exec(ctx, `DELETE FROM model WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete model: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrModelNotFound
	}
	return nil
}

func (s *store) LoadAll(ctx context.Context) ([]*domain.Model, []*domain.ModelVersion, error) {
	models, err := s.loadModels(ctx)
	if err != nil {
		return nil, nil, err
	}
	versions, err := s.loadVersions(ctx)
	if err != nil {
		return nil, nil, err
	}
	return models, versions, nil
}

func (s *store) loadModels(ctx context.Context) ([]*domain.Model, error) {
	query := `
		SELECT id, created_at, updated_at, name, description, model_type, current_version_id
		FROM model
		ORDER BY created_at
	`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load models: %w", err)
	}
	defer rows.Close()

	var models []*domain.Model
	for rows.Next() {
		model, err := scanModel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan model row: %w", err)
		}
		models = append(models, model)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate model rows: %w", err)
	}
	return models, nil
}

func (s *store) loadVersions(ctx context.Context) ([]*domain.ModelVersion, error) {
	query := `
		SELECT id, created_at, updated_at, model_id, version_number, state, payload
		FROM model_version
		ORDER BY model_id, version_number
	`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load versions: %w", err)
	}
	defer rows.Close()

	var versions []*domain.ModelVersion
	for rows.Next() {
		version, err := scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan version row: %w", err)
		}
		versions = append(versions, version)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate version rows: %w", err)
	}
	return versions, nil
}

// scanModel scans a Model from a single row; pgx.Rows satisfies pgx.Row, so
// list queries reuse it.
func scanModel(row pgx.Row) (*domain.Model, error) {
	m := &domain.Model{}
	err := row.Scan(
		&m.ID, &m.CreatedAt, &m.UpdatedAt,
		&m.Name, &m.Description, &m.ModelType,
		&m.CurrentVersionID,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func scanVersion(row pgx.Row) (*domain.ModelVersion, error) {
	v := &domain.ModelVersion{}
	var payload []byte
	err := row.Scan(
		&v.ID, &v.CreatedAt, &v.UpdatedAt,
		&v.ModelID, &v.VersionNumber, &v.State,
		&payload,
	)
	if err != nil {
		return nil, err
	}
	v.Payload = payload
	return v, nil
}
