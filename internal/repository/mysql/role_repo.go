package mysql

import (
	"Team_Orga/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoleRepository struct {
	DB *gorm.DB
}

// HasRole 有没有某个角色授权（对应前端的 has_role 查询）
func (r *RoleRepository) HasRole(userID uint64, role string) (bool, error) {
	var n int64
	err := r.DB.Model(&model.UserRole{}).
		Where("user_id = ? AND role = ?", userID, role).
		Count(&n).Error
	return n > 0, err
}

// Grant 幂等授予：已有授权时不报错
func (r *RoleRepository) Grant(userID, grantedBy uint64, role string) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "role"}},
		DoNothing: true,
	}).Create(&model.UserRole{UserID: userID, Role: role, GrantedBy: grantedBy}).Error
}

func (r *RoleRepository) Revoke(userID uint64, role string) (int64, error) {
	res := r.DB.Where("user_id = ? AND role = ?", userID, role).Delete(&model.UserRole{})
	return res.RowsAffected, res.Error
}

func (r *RoleRepository) ListByRole(role string) ([]model.UserRole, error) {
	var list []model.UserRole
	err := r.DB.Where("role = ?", role).Find(&list).Error
	return list, err
}
