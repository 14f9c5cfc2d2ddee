package mysql

import (
	"Team_Orga/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("username = ? OR email = ?", username, username).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByID(id uint64) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) UpdatePassword(user *model.User, newPassword string) error {
	return r.DB.Model(user).Update("password", newPassword).Error
}

// UpdateProfile 只允许改姓名和球衣号，值日计数列归引擎所有，这里不碰
func (r *UserRepository) UpdateProfile(id uint64, fullName string, jerseyNumber *int) error {
	return r.DB.Model(&model.User{}).Where("id = ?", id).
		Updates(map[string]any{"full_name": fullName, "jersey_number": jerseyNumber}).Error
}

// ListByTeam 球员名单，带值日计数，按姓名排序
func (r *UserRepository) ListByTeam(teamID uint64) ([]model.User, error) {
	var list []model.User
	err := r.DB.Where("team_id = ?", teamID).Order("full_name ASC").Find(&list).Error
	return list, err
}
