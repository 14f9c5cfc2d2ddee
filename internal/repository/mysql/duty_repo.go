package mysql

import (
	"Team_Orga/internal/model"

	"gorm.io/gorm"
)

type DutySlotRepository struct {
	DB *gorm.DB
}

func (r *DutySlotRepository) Create(s *model.DutySlot) error {
	return r.DB.Create(s).Error
}

func (r *DutySlotRepository) FindByID(id uint64) (*model.DutySlot, error) {
	var slot model.DutySlot
	err := r.DB.First(&slot, id).Error
	return &slot, err
}

// ListByKind 最近的轮值单元在前
func (r *DutySlotRepository) ListByKind(teamID uint64, kind model.GroupKind) ([]model.DutySlot, error) {
	var list []model.DutySlot
	err := r.DB.Where("team_id = ? AND kind = ?", teamID, kind).
		Order("start_date DESC").
		Find(&list).Error
	return list, err
}
