package service

import (
	"context"
	"errors"

	"Team_Orga/internal/model"
	"Team_Orga/internal/pkg"
	"Team_Orga/internal/repository/mysql"
	"Team_Orga/internal/repository/redis"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserNotExist     = errors.New("user not exist")
	ErrUserExist        = errors.New("user already exist")
	ErrPasswordMismatch = errors.New("password mismatch")
)

type UserService struct {
	repo    *mysql.UserRepository
	teams   *mysql.TeamRepository
	roles   *mysql.RoleRepository
	roster  *mysql.RosterRepository
	session *redis.SessionRepository
}

// PlayerView 球员名单里的一行，带管理员标记和值日计数
type PlayerView struct {
	ID              uint64 `json:"id"`
	FullName        string `json:"full_name"`
	JerseyNumber    *int   `json:"jersey_number"`
	WashCount       int64  `json:"wash_count"`
	LockerDutyCount int64  `json:"locker_duty_count"`
	IsAdmin         bool   `json:"is_admin"`
}

func NewUserService() *UserService {
	return &UserService{
		repo:    &mysql.UserRepository{DB: mysql.DB},
		teams:   &mysql.TeamRepository{DB: mysql.DB},
		roles:   &mysql.RoleRepository{DB: mysql.DB},
		roster:  &mysql.RosterRepository{DB: mysql.DB},
		session: &redis.SessionRepository{},
	}
}

// Register 注册并落到所选球队
func (s *UserService) Register(username, password, email, fullName string, teamID uint64) (*model.User, error) {
	if username == "" || password == "" || email == "" || fullName == "" {
		return nil, errors.New("missing required fields")
	}
	if _, err := s.teams.FindByID(teamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username: username,
		Password: string(hash),
		Email:    email,
		FullName: fullName,
		TeamID:   teamID,
	}
	if err := s.repo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExist
		}
		return nil, err
	}
	user.Password = ""
	return user, nil
}

// Login 用户名或邮箱登录，签发 token 对并登记会话
func (s *UserService) Login(ctx context.Context, username, password string) (*pkg.Pair, *model.User, error) {
	user, err := s.repo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrUserNotExist
		}
		return nil, nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, nil, ErrPasswordMismatch
	}

	pair, err := pkg.GeneratePair(user.ID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.session.AddToken(ctx, user.ID, pair.AccessToken); err != nil {
		return nil, nil, err
	}
	user.Password = ""
	return pair, user, nil
}

func (s *UserService) Logout(ctx context.Context, userID uint64) error {
	return s.session.DeleteToken(ctx, userID)
}

// Refresh 换发 token 对，同时刷新会话里的 access token
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*pkg.Pair, error) {
	pair, err := pkg.Refresh(refreshToken)
	if err != nil {
		return nil, err
	}
	claims, err := pkg.ParseAccess(pair.AccessToken)
	if err != nil {
		return nil, err
	}
	if err := s.session.AddToken(ctx, claims.UserID, pair.AccessToken); err != nil {
		return nil, err
	}
	return pair, nil
}

// ChangePassword 改密后强制重新登录
func (s *UserService) ChangePassword(ctx context.Context, userID uint64, oldPassword, newPassword string) error {
	if newPassword == "" {
		return errors.New("new password required")
	}
	user, err := s.repo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotExist
		}
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)) != nil {
		return ErrPasswordMismatch
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(user, string(hash)); err != nil {
		return err
	}
	return s.session.DeleteToken(ctx, userID)
}

func (s *UserService) UpdateProfile(userID uint64, fullName string, jerseyNumber *int) error {
	if fullName == "" {
		return errors.New("full name required")
	}
	return s.repo.UpdateProfile(userID, fullName, jerseyNumber)
}

func (s *UserService) Profile(userID uint64) (*model.User, error) {
	user, err := s.repo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotExist
		}
		return nil, err
	}
	user.Password = ""
	return user, nil
}

// DeleteAccount 本人或管理员删号，占用的名额全部释放
func (s *UserService) DeleteAccount(ctx context.Context, targetID, actingAs uint64) error {
	if targetID != actingAs {
		if err := requireAdmin(s.roles, actingAs); err != nil {
			return err
		}
	}
	if _, err := s.repo.FindByID(targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.ErrNotFound
		}
		return err
	}
	if err := s.roster.DeleteUserCascade(ctx, targetID); err != nil {
		return err
	}
	return s.session.DeleteToken(ctx, targetID)
}

// ListPlayers 本队球员名单，带管理员标记
func (s *UserService) ListPlayers(teamID uint64) ([]PlayerView, error) {
	users, err := s.repo.ListByTeam(teamID)
	if err != nil {
		return nil, err
	}
	grants, err := s.roles.ListByRole(model.RoleAdmin)
	if err != nil {
		return nil, err
	}
	adminSet := make(map[uint64]struct{}, len(grants))
	for _, g := range grants {
		adminSet[g.UserID] = struct{}{}
	}

	views := make([]PlayerView, 0, len(users))
	for _, u := range users {
		_, isAdmin := adminSet[u.ID]
		views = append(views, PlayerView{
			ID:              u.ID,
			FullName:        u.FullName,
			JerseyNumber:    u.JerseyNumber,
			WashCount:       u.WashCount,
			LockerDutyCount: u.LockerDutyCount,
			IsAdmin:         isAdmin,
		})
	}
	return views, nil
}
