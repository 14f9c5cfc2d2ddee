package mysql

import (
	"Team_Orga/internal/model"

	"gorm.io/gorm"
)

type OfferRepository struct {
	DB *gorm.DB
}

func (r *OfferRepository) Create(o *model.Offer) error {
	return r.DB.Create(o).Error
}

func (r *OfferRepository) FindByID(id uint64) (*model.Offer, error) {
	var offer model.Offer
	err := r.DB.First(&offer, id).Error
	return &offer, err
}

func (r *OfferRepository) ListByGame(gameID uint64) ([]model.Offer, error) {
	var list []model.Offer
	err := r.DB.Where("game_id = ?", gameID).Order("created_at ASC").Find(&list).Error
	return list, err
}
