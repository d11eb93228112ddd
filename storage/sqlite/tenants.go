package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/contracthub/retrieval/core"
)

// CreateTenant registers a new tenant with a unique username.
func (s *Store) CreateTenant(ctx context.Context, username string) (*core.Tenant, error) {
	tenant := &core.Tenant{Username: username}
	if err := core.ValidateTenant(tenant); err != nil {
		return nil, err
	}
	tenant.CreatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO tenants (username, created_at) VALUES (?, ?)",
		tenant.Username, tenant.CreatedAt.UnixMicro())
	if err != nil {
		return nil, mapError(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	tenant.Id = core.ID(id)
	return tenant, nil
}

// GetTenant retrieves a tenant by ID.
func (s *Store) GetTenant(ctx context.Context, id core.ID) (*core.Tenant, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, username, created_at FROM tenants WHERE id = ?", int64(id))
	return scanTenant(row)
}

// FindTenantByUsername retrieves a tenant by username.
func (s *Store) FindTenantByUsername(ctx context.Context, username string) (*core.Tenant, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, username, created_at FROM tenants WHERE username = ?", username)
	return scanTenant(row)
}

func scanTenant(row *sql.Row) (*core.Tenant, error) {
	var (
		id        int64
		username  string
		createdAt int64
	)
	if err := row.Scan(&id, &username, &createdAt); err != nil {
		return nil, mapError(err)
	}
	return &core.Tenant{
		Id:        core.ID(id),
		Username:  username,
		CreatedAt: time.UnixMicro(createdAt).UTC(),
	}, nil
}
