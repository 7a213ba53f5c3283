package xnames

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/everFinance/xnames/schema"
)

// Authority answers capability checks over the admins and maintainers sets.
// Checks always take the caller explicitly.
type Authority struct {
	store *Store
	exec  *execution
}

func newAuthority(store *Store, exec *execution) *Authority {
	return &Authority{store: store, exec: exec}
}

func (a *Authority) HasMaintainerRights(addr common.Address) bool {
	return a.store.IsMember(schema.MaintainersBucket, addr) || a.HasAdminRights(addr)
}

func (a *Authority) HasAdminRights(addr common.Address) bool {
	return a.store.IsMember(schema.AdminsBucket, addr)
}

func (a *Authority) UpdateAuthority(caller common.Address, params schema.AuthorityUpdateParams) error {
	if err := a.exec.check(); err != nil {
		return err
	}

	var bucket string
	switch params.Field {
	case schema.Maintainer:
		if !a.HasMaintainerRights(caller) {
			return schema.ErrUnauthorized
		}
		bucket = schema.MaintainersBucket
	case schema.Admin:
		if !a.HasAdminRights(caller) {
			return schema.ErrUnauthorized
		}
		bucket = schema.AdminsBucket
	default:
		return fmt.Errorf("unknown authority field: %d", params.Field)
	}

	switch params.Kind {
	case schema.Add:
		if a.store.IsMember(bucket, params.Address) {
			return nil
		}
		return a.store.AddMember(bucket, params.Address)
	case schema.Remove:
		if !a.store.IsMember(bucket, params.Address) {
			return nil
		}
		if params.Field == schema.Admin {
			admins, err := a.store.LoadMembers(schema.AdminsBucket)
			if err != nil {
				return err
			}
			if len(admins) <= 1 {
				return schema.ErrLastAdmin
			}
		}
		return a.store.RemoveMember(bucket, params.Address)
	default:
		return fmt.Errorf("unknown update kind: %d", params.Kind)
	}
}

func (a *Authority) addAdmin(addr common.Address) error {
	return a.store.AddMember(schema.AdminsBucket, addr)
}

func (a *Authority) Admins() ([]common.Address, error) {
	return a.store.LoadMembers(schema.AdminsBucket)
}

func (a *Authority) Maintainers() ([]common.Address, error) {
	return a.store.LoadMembers(schema.MaintainersBucket)
}
