package service

import (
	userEntity "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/user/domain/entity"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/util/myjwt"
)

func generateToken(u *userEntity.User) (string, error) {
	return myjwt.GenerateToken(u.Uuid, u.Username, u.RoleNames())
}
