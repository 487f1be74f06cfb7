package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kerem/doctrack/internal/app/models"
	"github.com/kerem/doctrack/internal/pkg/apperrors"
	"github.com/kerem/doctrack/internal/pkg/dberrors"
	"github.com/kerem/doctrack/internal/pkg/logger"
)

// DocumentRepository handles document metadata database operations
type DocumentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewDocumentRepository creates a new DocumentRepository
func NewDocumentRepository(db *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts document metadata and returns the generated ID
func (r *DocumentRepository) Create(ctx context.Context, doc *models.DocumentRef) (int64, error) {
	now := time.Now()
	sql, args, err := r.sb.Insert("documents").
		Columns("request_id", "file_name", "content_type", "uploader_id", "storage_key", "uploaded_at").
		Values(doc.RequestID, doc.FileName, doc.ContentType, doc.UploaderID, doc.StorageKey, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create document query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.ErrRequestNotFound
		}
		logger.Error().Err(err).Int64("requestID", doc.RequestID).Msg("Error executing create document query")
		return 0, fmt.Errorf("error creating document: %w", err)
	}
	doc.ID = id
	doc.UploadedAt = now
	return id, nil
}

// GetByID retrieves document metadata by ID
func (r *DocumentRepository) GetByID(ctx context.Context, id int64) (*models.DocumentRef, error) {
	sql, args, err := r.sb.Select("id", "request_id", "file_name", "content_type", "uploader_id", "storage_key", "uploaded_at").
		From("documents").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get document query: %w", err)
	}

	var d models.DocumentRef
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&d.ID, &d.RequestID, &d.FileName, &d.ContentType, &d.UploaderID, &d.StorageKey, &d.UploadedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDocumentNotFound
		}
		logger.Error().Err(err).Int64("documentID", id).Msg("Error scanning document row")
		return nil, fmt.Errorf("error retrieving document: %w", err)
	}
	return &d, nil
}

// ListByRequest retrieves all document metadata attached to a request
func (r *DocumentRepository) ListByRequest(ctx context.Context, requestID int64) ([]*models.DocumentRef, error) {
	sql, args, err := r.sb.Select("id", "request_id", "file_name", "content_type", "uploader_id", "storage_key", "uploaded_at").
		From("documents").
		Where(squirrel.Eq{"request_id": requestID}).
		OrderBy("uploaded_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list documents query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing documents: %w", err)
	}
	defer rows.Close()

	var docs []*models.DocumentRef
	for rows.Next() {
		var d models.DocumentRef
		if err := rows.Scan(&d.ID, &d.RequestID, &d.FileName, &d.ContentType, &d.UploaderID, &d.StorageKey, &d.UploadedAt); err != nil {
			return nil, fmt.Errorf("error scanning document row: %w", err)
		}
		docs = append(docs, &d)
	}
	return docs, rows.Err()
}
