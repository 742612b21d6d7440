package persistence

import (
	"errors"

	userEntity "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/user/domain/entity"
	userRepository "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/user/domain/repository"

	"gorm.io/gorm"
)

type userRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) userRepository.UserRepository {
	return &userRepositoryImpl{db: db}
}

func (r *userRepositoryImpl) Create(user *userEntity.User) error {
	return r.db.Create(user).Error
}

func (r *userRepositoryImpl) GetByUsername(username string) (*userEntity.User, error) {
	var u userEntity.User
	if err := r.db.Preload("Roles").Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepositoryImpl) GetByUuid(uuid string) (*userEntity.User, error) {
	var u userEntity.User
	if err := r.db.Preload("Roles").Where("uuid = ?", uuid).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepositoryImpl) GetBriefByUuids(uuids []string) ([]userEntity.User, error) {
	if len(uuids) == 0 {
		return nil, nil
	}
	var users []userEntity.User
	err := r.db.
		Select("id", "uuid", "username", "nickname", "email", "status").
		Where("uuid IN ?", uuids).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepositoryImpl) ListByRole(roleName string) ([]userEntity.User, error) {
	var users []userEntity.User
	err := r.db.
		Joins("JOIN staff_user_role sur ON sur.user_id = staff_user.id").
		Joins("JOIN staff_role sr ON sr.id = sur.role_id").
		Where("sr.name = ? AND staff_user.status = ?", roleName, 0).
		Order("staff_user.id ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepositoryImpl) HasRole(uuid string, roleName string) (bool, error) {
	var count int64
	err := r.db.Model(&userEntity.User{}).
		Joins("JOIN staff_user_role sur ON sur.user_id = staff_user.id").
		Joins("JOIN staff_role sr ON sr.id = sur.role_id").
		Where("staff_user.uuid = ? AND sr.name = ?", uuid, roleName).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepositoryImpl) EnsureRole(name string, label string) (*userEntity.Role, error) {
	var role userEntity.Role
	err := r.db.Where("name = ?", name).First(&role).Error
	if err == nil {
		return &role, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	role = userEntity.Role{Name: name, Label: label}
	if err := r.db.Create(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *userRepositoryImpl) AddRole(userUuid string, roleName string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var u userEntity.User
		if err := tx.Where("uuid = ?", userUuid).First(&u).Error; err != nil {
			return err
		}
		var role userEntity.Role
		if err := tx.Where("name = ?", roleName).First(&role).Error; err != nil {
			return err
		}
		return tx.Model(&u).Association("Roles").Append(&role)
	})
}
