package service

import (
	"context"
	"errors"
	"time"

	userRequest "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/user/application/dto/request"
	userRespond "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/user/application/dto/respond"
	userEntity "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/user/domain/entity"
	userRepository "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/user/domain/repository"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/redis"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/util"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/xerr"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/zlog"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// OnlineAgentsKey is the redis set maintained by the websocket handler
// while a staff client is connected.
const OnlineAgentsKey = "support:online_agents"

type UserService interface {
	Login(req userRequest.LoginRequest) (*userRespond.LoginRespond, error)
	Register(req userRequest.RegisterRequest) (*userRespond.LoginRespond, error)
	ListAgents(roleName string) ([]userRespond.AgentItem, error)
}

type userServiceImpl struct {
	userRepo userRepository.UserRepository
}

func NewUserService(userRepo userRepository.UserRepository) UserService {
	return &userServiceImpl{userRepo: userRepo}
}

func (s *userServiceImpl) Login(req userRequest.LoginRequest) (*userRespond.LoginRespond, error) {
	if req.Username == "" || req.Password == "" {
		return nil, xerr.New(xerr.BadRequest, xerr.ErrParam.Message)
	}

	u, err := s.userRepo.GetByUsername(req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xerr.New(xerr.Unauthorized, "invalid username or password")
		}
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	if u.Status != 0 {
		return nil, xerr.New(xerr.Forbidden, "account disabled")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		return nil, xerr.New(xerr.Unauthorized, "invalid username or password")
	}

	return s.toLoginRespond(u)
}

func (s *userServiceImpl) Register(req userRequest.RegisterRequest) (*userRespond.LoginRespond, error) {
	if req.Username == "" || req.Password == "" {
		return nil, xerr.New(xerr.BadRequest, xerr.ErrParam.Message)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}

	u := &userEntity.User{
		Uuid:      util.GenerateUUID(),
		Username:  req.Username,
		Password:  string(hash),
		Nickname:  req.Nickname,
		Email:     req.Email,
		Phone:     req.Phone,
		CreatedAt: time.Now(),
	}
	if err := s.userRepo.Create(u); err != nil {
		zlog.Error(err.Error())
		return nil, xerr.New(xerr.BadRequest, "username already taken")
	}

	for _, role := range req.Roles {
		if err := s.userRepo.AddRole(u.Uuid, role); err != nil {
			zlog.Error(err.Error())
		}
	}

	created, err := s.userRepo.GetByUuid(u.Uuid)
	if err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	return s.toLoginRespond(created)
}

func (s *userServiceImpl) ListAgents(roleName string) ([]userRespond.AgentItem, error) {
	agents, err := s.userRepo.ListByRole(roleName)
	if err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}

	online := map[string]struct{}{}
	if redis.IsConnected() {
		members, err := redis.SMembers(context.Background(), OnlineAgentsKey)
		if err == nil {
			for _, m := range members {
				online[m] = struct{}{}
			}
		}
	}

	out := make([]userRespond.AgentItem, 0, len(agents))
	for i := range agents {
		a := agents[i]
		_, isOnline := online[a.Uuid]
		out = append(out, userRespond.AgentItem{
			Uuid:   a.Uuid,
			Name:   a.DisplayName(),
			Email:  a.Email,
			Online: isOnline,
		})
	}
	return out, nil
}

func (s *userServiceImpl) toLoginRespond(u *userEntity.User) (*userRespond.LoginRespond, error) {
	token, err := generateToken(u)
	if err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	return &userRespond.LoginRespond{
		Token:    token,
		Uuid:     u.Uuid,
		Username: u.Username,
		Nickname: u.Nickname,
		Roles:    u.RoleNames(),
	}, nil
}
