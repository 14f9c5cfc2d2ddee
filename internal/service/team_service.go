package service

import (
	"errors"

	"Team_Orga/internal/model"
	"Team_Orga/internal/repository/mysql"
)

type TeamService struct {
	repo  *mysql.TeamRepository
	roles *mysql.RoleRepository
}

func NewTeamService() *TeamService {
	return &TeamService{
		repo:  &mysql.TeamRepository{DB: mysql.DB},
		roles: &mysql.RoleRepository{DB: mysql.DB},
	}
}

// ListTeams 注册页的球队选择列表，无需登录
func (s *TeamService) ListTeams() ([]model.Team, error) {
	return s.repo.List()
}

func (s *TeamService) CreateTeam(actingAs uint64, name string) (*model.Team, error) {
	if name == "" {
		return nil, errors.New("team name required")
	}
	if err := requireAdmin(s.roles, actingAs); err != nil {
		return nil, err
	}
	team := &model.Team{Name: name}
	if err := s.repo.Create(team); err != nil {
		return nil, err
	}
	return team, nil
}
