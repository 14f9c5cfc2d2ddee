package service

import (
	"errors"

	"Team_Orga/internal/model"
	"Team_Orga/internal/repository/mysql"

	"gorm.io/gorm"
)

type RoleService struct {
	repo  *mysql.RoleRepository
	users *mysql.UserRepository
}

func NewRoleService() *RoleService {
	return &RoleService{
		repo:  &mysql.RoleRepository{DB: mysql.DB},
		users: &mysql.UserRepository{DB: mysql.DB},
	}
}

// GrantAdmin 现任管理员给别人授权，幂等
func (s *RoleService) GrantAdmin(actingAs, targetID uint64) error {
	if err := requireAdmin(s.repo, actingAs); err != nil {
		return err
	}
	if _, err := s.users.FindByID(targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.ErrNotFound
		}
		return err
	}
	return s.repo.Grant(targetID, actingAs, model.RoleAdmin)
}

// RevokeAdmin 收回授权；不允许自己撤自己，防止把最后一个管理员撤没
func (s *RoleService) RevokeAdmin(actingAs, targetID uint64) error {
	if err := requireAdmin(s.repo, actingAs); err != nil {
		return err
	}
	if actingAs == targetID {
		return model.ErrForbidden
	}
	affected, err := s.repo.Revoke(targetID, model.RoleAdmin)
	if err != nil {
		return err
	}
	if affected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// IsAdmin 当前是否持有管理员授权
func (s *RoleService) IsAdmin(userID uint64) (bool, error) {
	return s.repo.HasRole(userID, model.RoleAdmin)
}

// ListAdmins 管理员名单
func (s *RoleService) ListAdmins() ([]model.User, error) {
	grants, err := s.repo.ListByRole(model.RoleAdmin)
	if err != nil {
		return nil, err
	}
	admins := []model.User{}
	for _, g := range grants {
		u, err := s.users.FindByID(g.UserID)
		if err != nil {
			continue
		}
		u.Password = ""
		admins = append(admins, *u)
	}
	return admins, nil
}
