package schema

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

type AuthorityField uint8

const (
	Maintainer AuthorityField = iota
	Admin
)

type UpdateKind uint8

const (
	Remove UpdateKind = iota
	Add
)

type AuthorityUpdateParams struct {
	Field   AuthorityField `json:"field"`
	Kind    UpdateKind     `json:"kind"`
	Address common.Address `json:"address"`
}

func (f AuthorityField) String() string {
	switch f {
	case Maintainer:
		return "maintainer"
	case Admin:
		return "admin"
	}
	return fmt.Sprintf("AuthorityField(%d)", uint8(f))
}

func (f AuthorityField) MarshalText() ([]byte, error) {
	switch f {
	case Maintainer, Admin:
		return []byte(f.String()), nil
	}
	return nil, fmt.Errorf("unknown authority field: %d", uint8(f))
}

func (f *AuthorityField) UnmarshalText(text []byte) error {
	switch string(text) {
	case "maintainer":
		*f = Maintainer
	case "admin":
		*f = Admin
	default:
		return fmt.Errorf("unknown authority field: %q", text)
	}
	return nil
}

func (k UpdateKind) String() string {
	switch k {
	case Remove:
		return "remove"
	case Add:
		return "add"
	}
	return fmt.Sprintf("UpdateKind(%d)", uint8(k))
}

func (k UpdateKind) MarshalText() ([]byte, error) {
	switch k {
	case Remove, Add:
		return []byte(k.String()), nil
	}
	return nil, fmt.Errorf("unknown update kind: %d", uint8(k))
}

func (k *UpdateKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "remove":
		*k = Remove
	case "add":
		*k = Add
	default:
		return fmt.Errorf("unknown update kind: %q", text)
	}
	return nil
}
