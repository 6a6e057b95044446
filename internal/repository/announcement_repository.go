package repository

import (
	"context"
	"database/sql"

	"github.com/civicease/complaint-service/internal/model"
)

// AnnouncementRepo persists public notices published by the admin and
// sub-admins.  Unlike complaints, announcements support hard deletion.
type AnnouncementRepo struct{ DB *sql.DB }

func NewAnnouncementRepo(db *sql.DB) *AnnouncementRepo { return &AnnouncementRepo{DB: db} }

const announcementColumns = `id, title, message, priority, is_active,
	 created_by, created_by_name, created_at, updated_at`

// ListActive returns publicly visible announcements, newest first.
func (r *AnnouncementRepo) ListActive(ctx context.Context) ([]model.Announcement, error) {
	return r.list(ctx, ` WHERE is_active=1 ORDER BY created_at DESC, id DESC`)
}

// ListAll returns every announcement for the publishing roles.
func (r *AnnouncementRepo) ListAll(ctx context.Context) ([]model.Announcement, error) {
	return r.list(ctx, ` ORDER BY created_at DESC, id DESC`)
}

func (r *AnnouncementRepo) list(ctx context.Context, tail string) ([]model.Announcement, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+announcementColumns+` FROM announcements`+tail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	anns := []model.Announcement{}
	for rows.Next() {
		var a model.Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Message, &a.Priority, &a.IsActive,
			&a.CreatedBy, &a.CreatedByName, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		anns = append(anns, a)
	}
	return anns, rows.Err()
}

// GetByID fetches a single announcement.
func (r *AnnouncementRepo) GetByID(ctx context.Context, id uint64) (model.Announcement, error) {
	var a model.Announcement
	err := r.DB.QueryRowContext(ctx,
		`SELECT `+announcementColumns+` FROM announcements WHERE id=? LIMIT 1`, id).
		Scan(&a.ID, &a.Title, &a.Message, &a.Priority, &a.IsActive,
			&a.CreatedBy, &a.CreatedByName, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Announcement{}, ErrAnnouncementNotFound
	}
	return a, err
}

// Create inserts a new announcement and returns it with timestamps
// populated.
func (r *AnnouncementRepo) Create(ctx context.Context, a model.Announcement) (model.Announcement, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO announcements (title, message, priority, is_active, created_by, created_by_name)
		 VALUES (?,?,?,?,?,?)`,
		a.Title, a.Message, a.Priority, a.IsActive, a.CreatedBy, a.CreatedByName)
	if err != nil {
		return model.Announcement{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Announcement{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// Update rewrites the editable fields of an existing announcement.
func (r *AnnouncementRepo) Update(ctx context.Context, a model.Announcement) (model.Announcement, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE announcements SET title=?, message=?, priority=?, is_active=? WHERE id=?`,
		a.Title, a.Message, a.Priority, a.IsActive, a.ID)
	if err != nil {
		return model.Announcement{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Announcement{}, ErrAnnouncementNotFound
	}
	return r.GetByID(ctx, a.ID)
}

// Delete removes an announcement.
func (r *AnnouncementRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM announcements WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAnnouncementNotFound
	}
	return nil
}
