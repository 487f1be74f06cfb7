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
	"github.com/kerem/doctrack/internal/app/models/dto"
	"github.com/kerem/doctrack/internal/db"
	"github.com/kerem/doctrack/internal/pkg/apperrors"
	"github.com/kerem/doctrack/internal/pkg/logger"
)

// RequestRepository handles request, timeline and document-join database
// operations. Mutations enforce the optimistic version check: an UPDATE
// guarded by the caller's last-seen version that matches no row means a
// concurrent writer got there first.
type RequestRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewRequestRepository creates a new RequestRepository
func NewRequestRepository(db *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var requestColumns = []string{
	"id", "request_type", "student_id",
	"first_name", "last_name", "email", "phone",
	"enrollment_status", "institution_name", "institution_email",
	"program", "reason", "collection_method", "delivery_address",
	"needed_by_date", "status", "assigned_staff_id", "rejection_reason",
	"version", "created_at", "updated_at",
}

func scanRequest(row pgx.Row) (*models.Request, error) {
	var req models.Request
	err := row.Scan(
		&req.ID, &req.RequestType, &req.StudentID,
		&req.FirstName, &req.LastName, &req.Email, &req.Phone,
		&req.EnrollmentStatus, &req.InstitutionName, &req.InstitutionEmail,
		&req.Program, &req.Reason, &req.CollectionMethod, &req.DeliveryAddress,
		&req.NeededByDate, &req.Status, &req.AssignedStaffID, &req.RejectionReason,
		&req.Version, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// Create inserts a new request together with its first timeline entry in
// one transaction and returns the generated request ID.
func (r *RequestRepository) Create(ctx context.Context, request *models.Request, firstEntry *models.TimelineEntry) (int64, error) {
	now := time.Now()
	var requestID int64

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Insert("requests").
			Columns(
				"request_type", "student_id",
				"first_name", "last_name", "email", "phone",
				"enrollment_status", "institution_name", "institution_email",
				"program", "reason", "collection_method", "delivery_address",
				"needed_by_date", "status", "version", "created_at", "updated_at",
			).
			Values(
				request.RequestType, request.StudentID,
				request.FirstName, request.LastName, request.Email, request.Phone,
				request.EnrollmentStatus, request.InstitutionName, request.InstitutionEmail,
				request.Program, request.Reason, request.CollectionMethod, request.DeliveryAddress,
				request.NeededByDate, request.Status, 1, now, now,
			).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create request query: %w", err)
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&requestID); err != nil {
			logger.Error().Err(err).Int64("studentID", request.StudentID).Msg("Error executing create request query")
			return fmt.Errorf("error creating request: %w", err)
		}

		firstEntry.RequestID = requestID
		return r.insertTimelineEntry(ctx, tx, firstEntry, now)
	})
	if err != nil {
		return 0, err
	}

	request.ID = requestID
	request.Version = 1
	request.CreatedAt = now
	request.UpdatedAt = now
	return requestID, nil
}

func (r *RequestRepository) insertTimelineEntry(ctx context.Context, tx pgx.Tx, entry *models.TimelineEntry, at time.Time) error {
	sql, args, err := r.sb.Insert("timeline_entries").
		Columns("request_id", "status", "note", "actor_id", "actor_name", "created_at").
		Values(entry.RequestID, entry.Status, entry.Note, entry.ActorID, entry.ActorName, at).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build timeline insert query: %w", err)
	}

	if err := tx.QueryRow(ctx, sql, args...).Scan(&entry.ID); err != nil {
		logger.Error().Err(err).Int64("requestID", entry.RequestID).Msg("Error appending timeline entry")
		return fmt.Errorf("error appending timeline entry: %w", err)
	}
	entry.CreatedAt = at
	return nil
}

// GetByID retrieves a request with its full timeline and attached document
// metadata.
func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*models.Request, error) {
	sql, args, err := r.sb.Select(requestColumns...).
		From("requests").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get request query: %w", err)
	}

	request, err := scanRequest(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRequestNotFound
		}
		logger.Error().Err(err).Int64("requestID", id).Msg("Error scanning request row")
		return nil, fmt.Errorf("error retrieving request: %w", err)
	}

	if request.Timeline, err = r.loadTimeline(ctx, id); err != nil {
		return nil, err
	}
	if request.Documents, err = r.loadDocuments(ctx, id); err != nil {
		return nil, err
	}
	return request, nil
}

func (r *RequestRepository) loadTimeline(ctx context.Context, requestID int64) ([]*models.TimelineEntry, error) {
	sql, args, err := r.sb.Select("id", "request_id", "status", "note", "actor_id", "actor_name", "created_at").
		From("timeline_entries").
		Where(squirrel.Eq{"request_id": requestID}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build timeline query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error loading timeline: %w", err)
	}
	defer rows.Close()

	var entries []*models.TimelineEntry
	for rows.Next() {
		var e models.TimelineEntry
		if err := rows.Scan(&e.ID, &e.RequestID, &e.Status, &e.Note, &e.ActorID, &e.ActorName, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning timeline row: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func (r *RequestRepository) loadDocuments(ctx context.Context, requestID int64) ([]*models.DocumentRef, error) {
	sql, args, err := r.sb.Select("id", "request_id", "file_name", "content_type", "uploader_id", "storage_key", "uploaded_at").
		From("documents").
		Where(squirrel.Eq{"request_id": requestID}).
		OrderBy("uploaded_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build documents query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error loading documents: %w", err)
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

// ListByStudent lists a student's own requests.
func (r *RequestRepository) ListByStudent(ctx context.Context, studentID int64, filter dto.RequestFilter) ([]*models.Request, int64, error) {
	return r.list(ctx, squirrel.Eq{"student_id": studentID}, filter)
}

// ListByAssignee lists requests assigned to the given staff member.
func (r *RequestRepository) ListByAssignee(ctx context.Context, staffID int64, filter dto.RequestFilter) ([]*models.Request, int64, error) {
	return r.list(ctx, squirrel.Eq{"assigned_staff_id": staffID}, filter)
}

// ListAll lists every request regardless of ownership.
func (r *RequestRepository) ListAll(ctx context.Context, filter dto.RequestFilter) ([]*models.Request, int64, error) {
	return r.list(ctx, nil, filter)
}

func (r *RequestRepository) list(ctx context.Context, scope squirrel.Sqlizer, filter dto.RequestFilter) ([]*models.Request, int64, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size < 1 {
		size = 10
	}

	columns := append(append([]string{}, requestColumns...), "COUNT(*) OVER() AS total_count")
	builder := r.sb.Select(columns...).From("requests")
	if scope != nil {
		builder = builder.Where(scope)
	}
	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.RequestType != nil {
		builder = builder.Where(squirrel.Eq{"request_type": *filter.RequestType})
	}
	sql, args, err := builder.
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(size)).
		Offset(uint64((page - 1) * size)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list requests query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.Request
	var total int64
	for rows.Next() {
		var req models.Request
		err := rows.Scan(
			&req.ID, &req.RequestType, &req.StudentID,
			&req.FirstName, &req.LastName, &req.Email, &req.Phone,
			&req.EnrollmentStatus, &req.InstitutionName, &req.InstitutionEmail,
			&req.Program, &req.Reason, &req.CollectionMethod, &req.DeliveryAddress,
			&req.NeededByDate, &req.Status, &req.AssignedStaffID, &req.RejectionReason,
			&req.Version, &req.CreatedAt, &req.UpdatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning request row: %w", err)
		}
		requests = append(requests, &req)
	}
	return requests, total, rows.Err()
}

// ApplyTransition updates the request's status and appends the matching
// timeline entry in one transaction. The losing writer of a concurrent
// update gets apperrors.ErrConflict.
func (r *RequestRepository) ApplyTransition(ctx context.Context, requestID int64, expectedVersion int64, newStatus models.RequestStatus, rejectionReason *string, entry *models.TimelineEntry) error {
	now := time.Now()
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		builder := r.sb.Update("requests").
			Set("status", newStatus).
			Set("version", squirrel.Expr("version + 1")).
			Set("updated_at", now).
			Where(squirrel.Eq{"id": requestID, "version": expectedVersion})
		if rejectionReason != nil {
			builder = builder.Set("rejection_reason", *rejectionReason)
		}
		sql, args, err := builder.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build transition query: %w", err)
		}

		cmdTag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			logger.Error().Err(err).Int64("requestID", requestID).Msg("Error executing transition query")
			return fmt.Errorf("error applying transition: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return r.staleWriteError(ctx, tx, requestID)
		}

		entry.RequestID = requestID
		return r.insertTimelineEntry(ctx, tx, entry, now)
	})
}

// UpdateContent rewrites the requester-entered fields, optionally logging
// a timeline entry when content-edit auditing is enabled.
func (r *RequestRepository) UpdateContent(ctx context.Context, request *models.Request, expectedVersion int64, entry *models.TimelineEntry) error {
	now := time.Now()
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Update("requests").
			Set("first_name", request.FirstName).
			Set("last_name", request.LastName).
			Set("email", request.Email).
			Set("phone", request.Phone).
			Set("enrollment_status", request.EnrollmentStatus).
			Set("institution_name", request.InstitutionName).
			Set("institution_email", request.InstitutionEmail).
			Set("program", request.Program).
			Set("reason", request.Reason).
			Set("collection_method", request.CollectionMethod).
			Set("delivery_address", request.DeliveryAddress).
			Set("needed_by_date", request.NeededByDate).
			Set("version", squirrel.Expr("version + 1")).
			Set("updated_at", now).
			Where(squirrel.Eq{"id": request.ID, "version": expectedVersion}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update content query: %w", err)
		}

		cmdTag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			logger.Error().Err(err).Int64("requestID", request.ID).Msg("Error executing update content query")
			return fmt.Errorf("error updating request content: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return r.staleWriteError(ctx, tx, request.ID)
		}

		if entry != nil {
			entry.RequestID = request.ID
			return r.insertTimelineEntry(ctx, tx, entry, now)
		}
		return nil
	})
}

// SetAssignee overwrites the assigned staff member. Assignment changes
// carry no timeline entry and no status change.
func (r *RequestRepository) SetAssignee(ctx context.Context, requestID int64, expectedVersion int64, staffID int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Update("requests").
			Set("assigned_staff_id", staffID).
			Set("version", squirrel.Expr("version + 1")).
			Set("updated_at", time.Now()).
			Where(squirrel.Eq{"id": requestID, "version": expectedVersion}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build assign query: %w", err)
		}

		cmdTag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			logger.Error().Err(err).Int64("requestID", requestID).Int64("staffID", staffID).Msg("Error executing assign query")
			return fmt.Errorf("error assigning request: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return r.staleWriteError(ctx, tx, requestID)
		}
		return nil
	})
}

// staleWriteError distinguishes a vanished row from a lost optimistic race.
func (r *RequestRepository) staleWriteError(ctx context.Context, tx pgx.Tx, requestID int64) error {
	sql, args, err := r.sb.Select("1").
		From("requests").
		Where(squirrel.Eq{"id": requestID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build existence query: %w", err)
	}

	var one int
	err = tx.QueryRow(ctx, sql, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrRequestNotFound
	}
	if err != nil {
		return fmt.Errorf("error checking request existence: %w", err)
	}
	return apperrors.ErrConflict
}

// Snapshot loads every request without timeline or documents. The
// analytics projection recomputes its aggregates over this set on demand.
func (r *RequestRepository) Snapshot(ctx context.Context) ([]*models.Request, error) {
	sql, args, err := r.sb.Select(requestColumns...).
		From("requests").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build snapshot query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error loading request snapshot: %w", err)
	}
	defer rows.Close()

	var requests []*models.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning request row: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// ListOverdue lists non-terminal requests whose needed-by date precedes
// the given day.
func (r *RequestRepository) ListOverdue(ctx context.Context, today time.Time) ([]*models.Request, error) {
	y, m, d := today.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, today.Location())

	sql, args, err := r.sb.Select(requestColumns...).
		From("requests").
		Where(squirrel.Lt{"needed_by_date": midnight}).
		Where(squirrel.NotEq{"status": []models.RequestStatus{models.StatusCompleted, models.StatusRejected}}).
		OrderBy("needed_by_date", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build overdue query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing overdue requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning request row: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}
