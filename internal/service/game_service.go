package service

import (
	"context"
	"errors"
	"time"

	"Team_Orga/internal/model"
	"Team_Orga/internal/repository/mysql"

	"gorm.io/gorm"
)

type GameService struct {
	repo   *mysql.GameRepository
	offers *mysql.OfferRepository
	roster *mysql.RosterRepository
	roles  *mysql.RoleRepository
	users  *mysql.UserRepository
}

// OfferView 比赛详情里的一条车位发布
type OfferView struct {
	Offer  model.Offer      `json:"offer"`
	Driver string           `json:"driver"`
	Roster mysql.RosterView `json:"roster"`
}

type GameDetail struct {
	Game   model.Game  `json:"game"`
	Offers []OfferView `json:"offers"`
}

func NewGameService() *GameService {
	return &GameService{
		repo:   &mysql.GameRepository{DB: mysql.DB},
		offers: &mysql.OfferRepository{DB: mysql.DB},
		roster: &mysql.RosterRepository{DB: mysql.DB},
		roles:  &mysql.RoleRepository{DB: mysql.DB},
		users:  &mysql.UserRepository{DB: mysql.DB},
	}
}

// CreateGame 只有管理员能建比赛
func (s *GameService) CreateGame(ctx context.Context, actingAs, teamID uint64, opponent, location string, gameDate time.Time) (*model.Game, error) {
	if opponent == "" {
		return nil, errors.New("opponent required")
	}
	if gameDate.IsZero() {
		return nil, errors.New("game date required")
	}
	if err := requireAdmin(s.roles, actingAs); err != nil {
		return nil, err
	}

	game := &model.Game{
		TeamID:    teamID,
		Opponent:  opponent,
		GameDate:  gameDate,
		Location:  location,
		CreatedBy: actingAs,
	}
	if err := s.repo.Create(game); err != nil {
		return nil, err
	}
	return game, nil
}

func (s *GameService) ListGames(teamID uint64, page, size int) ([]model.Game, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	offset := (page - 1) * size
	return s.repo.ListByTeam(teamID, offset, size)
}

// GameDetail 比赛 + 全部车位发布 + 每辆车的乘客视图
func (s *GameService) GameDetail(ctx context.Context, gameID, callerID uint64) (*GameDetail, error) {
	game, err := s.repo.FindByID(gameID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}

	offers, err := s.offers.ListByGame(gameID)
	if err != nil {
		return nil, err
	}

	detail := &GameDetail{Game: *game, Offers: []OfferView{}}
	for _, o := range offers {
		view, err := s.roster.View(ctx, model.GroupCarpool, o.ID, callerID)
		if err != nil {
			return nil, err
		}
		var driver string
		if u, err := s.users.FindByID(o.UserID); err == nil {
			driver = u.FullName
		}
		detail.Offers = append(detail.Offers, OfferView{Offer: o, Driver: driver, Roster: *view})
	}
	return detail, nil
}

// DeleteGame 管理员删除比赛，级联所有车位发布和乘客
func (s *GameService) DeleteGame(ctx context.Context, gameID, actingAs uint64) error {
	if err := requireAdmin(s.roles, actingAs); err != nil {
		return err
	}
	return s.roster.DeleteGameCascade(ctx, gameID, actingAs)
}

// requireAdmin 各服务共用的特权检查
func requireAdmin(roles *mysql.RoleRepository, userID uint64) error {
	ok, err := roles.HasRole(userID, model.RoleAdmin)
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrForbidden
	}
	return nil
}
