package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harvestChurchAdmin/church-messaging-app/internal/messaging/domain"
	"github.com/harvestChurchAdmin/church-messaging-app/internal/messaging/repository"
)

type pgSmsRecordRepository struct {
	db *pgxpool.Pool
}

// NewPgSmsRecordRepository creates the PostgreSQL ledger implementation.
func NewPgSmsRecordRepository(db *pgxpool.Pool) repository.SmsRecordRepository {
	return &pgSmsRecordRepository{db: db}
}

func (r *pgSmsRecordRepository) Insert(ctx context.Context, rec *domain.SmsRecord) error {
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	if rec.Status == "" {
		rec.Status = domain.MessageStatusQueued
	}

	// A duplicate SID (transport retry reusing a placeholder, or a webhook
	// race) degrades into a status update on the existing row. One atomic
	// statement; the store serializes conflicting writes per key.
	query := `
		INSERT INTO sms_records (
			sid, to_phone_number, message_body, sender_user_id, status,
			error_code, error_message, recipient_name, sender_name,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (sid) DO UPDATE SET
			status = EXCLUDED.status,
			error_code = EXCLUDED.error_code,
			error_message = EXCLUDED.error_message,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.Exec(ctx, query,
		rec.SID, rec.ToPhoneNumber, rec.MessageBody, rec.SenderUserID, rec.Status,
		rec.ErrorCode, rec.ErrorMessage, rec.RecipientName, rec.SenderName,
		rec.CreatedAt, rec.UpdatedAt,
	)
	return err
}

func (r *pgSmsRecordRepository) UpdateStatus(ctx context.Context, sid string, status domain.MessageStatus, errorCode, errorMessage *string) error {
	query := `
		UPDATE sms_records
		SET status = $2, error_code = $3, error_message = $4, updated_at = $5
		WHERE sid = $1
	`
	tag, err := r.db.Exec(ctx, query, sid, status, errorCode, errorMessage, time.Now().UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

const smsRecordColumns = `
	sid, to_phone_number, message_body, sender_user_id, status,
	error_code, error_message, recipient_name, sender_name,
	created_at, updated_at
`

func scanSmsRecord(row pgx.Row) (*domain.SmsRecord, error) {
	rec := &domain.SmsRecord{}
	err := row.Scan(
		&rec.SID, &rec.ToPhoneNumber, &rec.MessageBody, &rec.SenderUserID, &rec.Status,
		&rec.ErrorCode, &rec.ErrorMessage, &rec.RecipientName, &rec.SenderName,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *pgSmsRecordRepository) MostRecentSentTo(ctx context.Context, toPhoneNumber string) (*domain.SmsRecord, error) {
	// Point lookup backed by the (to_phone_number, created_at) index.
	query := `
		SELECT ` + smsRecordColumns + `
		FROM sms_records
		WHERE to_phone_number = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	rec, err := scanSmsRecord(r.db.QueryRow(ctx, query, toPhoneNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (r *pgSmsRecordRepository) ListAll(ctx context.Context) ([]*domain.SmsRecord, error) {
	query := `
		SELECT ` + smsRecordColumns + `
		FROM sms_records
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.SmsRecord
	for rows.Next() {
		rec, err := scanSmsRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
