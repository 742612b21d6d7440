package repository

import (
	"github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/user/domain/entity"
)

type UserRepository interface {
	Create(user *entity.User) error
	GetByUsername(username string) (*entity.User, error)
	GetByUuid(uuid string) (*entity.User, error)
	GetBriefByUuids(uuids []string) ([]entity.User, error)
	// ListByRole returns enabled staff holding the role, ordered by id
	// ascending. The ordering is load-bearing: the assignment engine
	// breaks load ties by enumeration order.
	ListByRole(roleName string) ([]entity.User, error)
	HasRole(uuid string, roleName string) (bool, error)
	EnsureRole(name string, label string) (*entity.Role, error)
	AddRole(userUuid string, roleName string) error
}
