package repository

import (
	"context"
	"database/sql"

	"github.com/nthenge/sokoreach/internal/model"
)

// LeadRepositoryInterface defines the lead source used by the campaign commands
type LeadRepositoryInterface interface {
	ListLeads(ctx context.Context) ([]model.Recipient, error)
	CountLeads(ctx context.Context) (int, error)
}

// LeadRepository is the concrete Postgres implementation
type LeadRepository struct {
	DB *sql.DB
}

var _ LeadRepositoryInterface = (*LeadRepository)(nil)

// ListLeads fetches every lead in insertion order so campaign resume
// offsets stay stable between runs
func (r *LeadRepository) ListLeads(ctx context.Context) ([]model.Recipient, error) {
	query := `
        SELECT phone, business_name, COALESCE(description, ''), COALESCE(website, ''), COALESCE(google_maps_link, '')
        FROM leads
        ORDER BY id
    `
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := []model.Recipient{}
	for rows.Next() {
		var l model.Recipient
		if err := rows.Scan(&l.Phone, &l.Name, &l.Description, &l.Website, &l.MapsLink); err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

// CountLeads returns how many leads are waiting in the table
func (r *LeadRepository) CountLeads(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads`).Scan(&n)
	return n, err
}
