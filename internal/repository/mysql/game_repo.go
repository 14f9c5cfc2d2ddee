package mysql

import (
	"Team_Orga/internal/model"

	"gorm.io/gorm"
)

type GameRepository struct {
	DB *gorm.DB
}

func (r *GameRepository) Create(g *model.Game) error {
	return r.DB.Create(g).Error
}

func (r *GameRepository) FindByID(id uint64) (*model.Game, error) {
	var game model.Game
	err := r.DB.First(&game, id).Error
	return &game, err
}

// ListByTeam 按比赛日期排序的赛程
func (r *GameRepository) ListByTeam(teamID uint64, offset, limit int) ([]model.Game, error) {
	var list []model.Game
	err := r.DB.Where("team_id = ?", teamID).
		Order("game_date ASC").
		Offset(offset).Limit(limit).
		Find(&list).Error
	return list, err
}
