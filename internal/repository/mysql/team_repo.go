package mysql

import (
	"Team_Orga/internal/model"

	"gorm.io/gorm"
)

type TeamRepository struct {
	DB *gorm.DB
}

func (r *TeamRepository) Create(t *model.Team) error {
	return r.DB.Create(t).Error
}

func (r *TeamRepository) FindByID(id uint64) (*model.Team, error) {
	var team model.Team
	err := r.DB.First(&team, id).Error
	return &team, err
}

func (r *TeamRepository) List() ([]model.Team, error) {
	var list []model.Team
	err := r.DB.Order("name ASC").Find(&list).Error
	return list, err
}
