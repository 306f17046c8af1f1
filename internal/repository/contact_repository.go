package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/raveworks-booking/internal/model"
)

// ContactRepo stores contact form submissions.
type ContactRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewContactRepo returns a new ContactRepo bound to the given database.
func NewContactRepo(db *sql.DB) *ContactRepo {
	return &ContactRepo{db: db, now: time.Now}
}

// Create inserts a contact record, generating its id and created_at.
func (r *ContactRepo) Create(ctx context.Context, rec model.ContactRecord) (model.ContactRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.CreatedAt = r.now().UTC()

	const q = `INSERT INTO contacts (id, name, email, subject, message, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, q, rec.ID, rec.Name, rec.Email, rec.Subject, rec.Message, rec.CreatedAt); err != nil {
		return model.ContactRecord{}, fmt.Errorf("insert contact: %w", err)
	}
	return rec, nil
}
