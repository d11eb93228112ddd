package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/contracthub/retrieval/core"
	"github.com/contracthub/retrieval/storage"
)

// CreateTenant registers a new tenant with a unique username.
func (s *Store) CreateTenant(ctx context.Context, username string) (*core.Tenant, error) {
	tenant := &core.Tenant{Username: username}
	if err := core.ValidateTenant(tenant); err != nil {
		return nil, err
	}

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		nameKey := makeTenantNameKey(username)
		if _, err := tx.Get(nameKey); err == nil {
			return storage.ErrDuplicateKey
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		id, err := nextID(s.tenantSeq)
		if err != nil {
			return err
		}
		tenant.Id = id
		tenant.CreatedAt = time.Now().UTC()

		if err := tx.Set(makeTenantKey(tenant.Id), storage.MarshalTenant(tenant)); err != nil {
			return err
		}
		if err := tx.Set(nameKey, storage.MarshalID(tenant.Id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	return tenant, nil
}

// GetTenant retrieves a tenant by ID.
func (s *Store) GetTenant(ctx context.Context, id core.ID) (*core.Tenant, error) {
	var tenant *core.Tenant
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		tenant, err = readTenant(tx, makeTenantKey(id))
		if err != nil {
			return err
		}
		if tenant == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return tenant, err
}

// FindTenantByUsername retrieves a tenant by username via the name index.
func (s *Store) FindTenantByUsername(ctx context.Context, username string) (*core.Tenant, error) {
	var tenant *core.Tenant
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeTenantNameKey(username))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}

		var id core.ID
		if err := item.Value(func(val []byte) error {
			var err error
			id, err = storage.UnmarshalID(val)
			return err
		}); err != nil {
			return err
		}

		tenant, err = readTenant(tx, makeTenantKey(id))
		if err != nil {
			return err
		}
		if tenant == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return tenant, err
}

// readTenant reads a tenant record from the transaction.
// Returns nil without error when the key does not exist.
func readTenant(tx *badger.Txn, key []byte) (*core.Tenant, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var tenant *core.Tenant
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		tenant, unmarshalErr = storage.UnmarshalTenant(val)
		return unmarshalErr
	})
	return tenant, err
}
