package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"donationdesk/internal/donation/models"
	"donationdesk/pkg/platform/sentinel"
)

// Postgres persists requesters and donation requests in PostgreSQL. Schema
// lives in schema.sql next to this file.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const requesterColumns = `id, org_name, contact_name, contact_email, contact_phone, category, address, notes, created_at, updated_at`

func (s *Postgres) CreateRequester(ctx context.Context, r *models.Requester) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO requesters (`+requesterColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		r.ID, r.OrgName, nullString(r.ContactName), nullString(r.ContactEmail),
		nullString(r.ContactPhone), string(r.Category), nullString(r.Address),
		nullString(r.Notes), r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create requester: %w", err)
	}
	return nil
}

func (s *Postgres) UpdateRequester(ctx context.Context, r *models.Requester) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE requesters
		SET org_name = $2, contact_name = $3, contact_email = $4, contact_phone = $5,
		    category = $6, address = $7, notes = $8, updated_at = $9
		WHERE id = $1`,
		r.ID, r.OrgName, nullString(r.ContactName), nullString(r.ContactEmail),
		nullString(r.ContactPhone), string(r.Category), nullString(r.Address),
		nullString(r.Notes), r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update requester: %w", err)
	}
	return requireRowAffected(res)
}

func (s *Postgres) GetRequester(ctx context.Context, id uuid.UUID) (*models.Requester, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+requesterColumns+` FROM requesters WHERE id = $1`, id)
	r, err := scanRequester(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get requester: %w", err)
	}
	return r, nil
}

func (s *Postgres) FindRequesterByEmail(ctx context.Context, email string) (*models.Requester, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+requesterColumns+` FROM requesters
		WHERE contact_email IS NOT NULL AND lower(contact_email) = lower($1)
		LIMIT 1`, email)
	r, err := scanRequester(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find requester by email: %w", err)
	}
	return r, nil
}

func (s *Postgres) ListRequesters(ctx context.Context) ([]*models.Requester, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+requesterColumns+` FROM requesters ORDER BY lower(org_name) ASC`)
	if err != nil {
		return nil, fmt.Errorf("list requesters: %w", err)
	}
	defer rows.Close()

	var out []*models.Requester
	for rows.Next() {
		r, err := scanRequester(rows)
		if err != nil {
			return nil, fmt.Errorf("scan requester: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list requesters: %w", err)
	}
	return out, nil
}

const requestColumns = `r.id, r.requester_id, r.description, r.request_date, r.event_name, r.event_date,
	r.amount_requested, r.amount_approved, r.donation_type, r.status, r.reviewed_at, r.fulfilled_at,
	r.notes, r.internal_notes, r.email_sent_at, r.email_subject, r.created_at, r.updated_at`

const requestJoin = `
	SELECT ` + requestColumns + `,
	       q.id, q.org_name, q.contact_name, q.contact_email, q.contact_phone,
	       q.category, q.address, q.notes, q.created_at, q.updated_at
	FROM donation_requests r
	JOIN requesters q ON q.id = r.requester_id`

func (s *Postgres) CreateRequest(ctx context.Context, r *models.DonationRequest) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO donation_requests (
			id, requester_id, description, request_date, event_name, event_date,
			amount_requested, amount_approved, donation_type, status, reviewed_at, fulfilled_at,
			notes, internal_notes, email_sent_at, email_subject, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		r.ID, r.RequesterID, r.Description, r.RequestDate, nullString(r.EventName),
		nullString(r.EventDate), r.AmountRequested, r.AmountApproved, string(r.DonationType),
		string(r.Status), r.ReviewedAt, r.FulfilledAt, nullString(r.Notes),
		nullString(r.InternalNotes), r.EmailSentAt, nullString(r.EmailSubject),
		r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create donation request: %w", err)
	}
	return nil
}

func (s *Postgres) UpdateRequest(ctx context.Context, r *models.DonationRequest) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE donation_requests
		SET description = $2, request_date = $3, event_name = $4, event_date = $5,
		    amount_requested = $6, amount_approved = $7, donation_type = $8, status = $9,
		    reviewed_at = $10, fulfilled_at = $11, notes = $12, internal_notes = $13,
		    email_sent_at = $14, email_subject = $15, updated_at = $16
		WHERE id = $1`,
		r.ID, r.Description, r.RequestDate, nullString(r.EventName), nullString(r.EventDate),
		r.AmountRequested, r.AmountApproved, string(r.DonationType), string(r.Status),
		r.ReviewedAt, r.FulfilledAt, nullString(r.Notes), nullString(r.InternalNotes),
		r.EmailSentAt, nullString(r.EmailSubject), r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update donation request: %w", err)
	}
	return requireRowAffected(res)
}

func (s *Postgres) DeleteRequest(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM donation_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete donation request: %w", err)
	}
	return requireRowAffected(res)
}

func (s *Postgres) GetRequest(ctx context.Context, id uuid.UUID) (*models.RequestWithRequester, error) {
	row := s.db.QueryRowContext(ctx, requestJoin+` WHERE r.id = $1`, id)
	r, err := scanRequestWithRequester(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get donation request: %w", err)
	}
	return r, nil
}

func (s *Postgres) ListRequests(ctx context.Context) ([]*models.RequestWithRequester, error) {
	return s.listRequests(ctx, requestJoin+` ORDER BY r.created_at DESC`)
}

func (s *Postgres) ListRequestsByRequester(ctx context.Context, requesterID uuid.UUID) ([]*models.RequestWithRequester, error) {
	return s.listRequests(ctx, requestJoin+` WHERE r.requester_id = $1 ORDER BY r.created_at DESC`, requesterID)
}

func (s *Postgres) listRequests(ctx context.Context, query string, args ...any) ([]*models.RequestWithRequester, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list donation requests: %w", err)
	}
	defer rows.Close()

	var out []*models.RequestWithRequester
	for rows.Next() {
		r, err := scanRequestWithRequester(rows)
		if err != nil {
			return nil, fmt.Errorf("scan donation request: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list donation requests: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRequester(row scanner) (*models.Requester, error) {
	var (
		r                                          models.Requester
		contactName, contactEmail, contactPhone    sql.NullString
		address, notes                             sql.NullString
		category                                   string
	)
	err := row.Scan(&r.ID, &r.OrgName, &contactName, &contactEmail, &contactPhone,
		&category, &address, &notes, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	r.ContactName = contactName.String
	r.ContactEmail = contactEmail.String
	r.ContactPhone = contactPhone.String
	r.Category = models.Category(category)
	r.Address = address.String
	r.Notes = notes.String
	return &r, nil
}

func scanRequestWithRequester(row scanner) (*models.RequestWithRequester, error) {
	var (
		r                                       models.RequestWithRequester
		eventName, eventDate                    sql.NullString
		reqNotes, internalNotes, emailSubject   sql.NullString
		donationType, status                    string
		reviewedAt, fulfilledAt, emailSentAt    sql.NullTime
		qContactName, qContactEmail             sql.NullString
		qContactPhone, qAddress, qNotes         sql.NullString
		qCategory                               string
	)
	err := row.Scan(
		&r.ID, &r.RequesterID, &r.Description, &r.RequestDate, &eventName, &eventDate,
		&r.AmountRequested, &r.AmountApproved, &donationType, &status, &reviewedAt, &fulfilledAt,
		&reqNotes, &internalNotes, &emailSentAt, &emailSubject, &r.CreatedAt, &r.UpdatedAt,
		&r.Requester.ID, &r.Requester.OrgName, &qContactName, &qContactEmail, &qContactPhone,
		&qCategory, &qAddress, &qNotes, &r.Requester.CreatedAt, &r.Requester.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.EventName = eventName.String
	r.EventDate = eventDate.String
	r.DonationType = models.DonationType(donationType)
	r.Status = models.Status(status)
	r.ReviewedAt = nullTimePtr(reviewedAt)
	r.FulfilledAt = nullTimePtr(fulfilledAt)
	r.Notes = reqNotes.String
	r.InternalNotes = internalNotes.String
	r.EmailSentAt = nullTimePtr(emailSentAt)
	r.EmailSubject = emailSubject.String
	r.Requester.ContactName = qContactName.String
	r.Requester.ContactEmail = qContactEmail.String
	r.Requester.ContactPhone = qContactPhone.String
	r.Requester.Category = models.Category(qCategory)
	r.Requester.Address = qAddress.String
	r.Requester.Notes = qNotes.String
	return &r, nil
}

func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
