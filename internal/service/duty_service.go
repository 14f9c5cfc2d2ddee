package service

import (
	"context"
	"errors"
	"time"

	"Team_Orga/internal/config"
	"Team_Orga/internal/model"
	"Team_Orga/internal/repository/mysql"

	"gorm.io/gorm"
)

var ErrDutySlotExists = errors.New("duty slot already exists")

type DutyService struct {
	repo   *mysql.DutySlotRepository
	roster *mysql.RosterRepository
	roles  *mysql.RoleRepository
	cfg    config.DutyConfig
}

// DutySlotView 值日列表里的一个轮值单元
type DutySlotView struct {
	Slot   model.DutySlot   `json:"slot"`
	Roster mysql.RosterView `json:"roster"`
}

func NewDutyService(cfg config.DutyConfig) *DutyService {
	return &DutyService{
		repo:   &mysql.DutySlotRepository{DB: mysql.DB},
		roster: &mysql.RosterRepository{DB: mysql.DB},
		roles:  &mysql.RoleRepository{DB: mysql.DB},
		cfg:    cfg,
	}
}

// CreateLockerWeek 管理员建一周更衣室值日（默认3个名额）
func (s *DutyService) CreateLockerWeek(ctx context.Context, actingAs, teamID uint64, startDate, endDate string) (*model.DutySlot, error) {
	if err := requireAdmin(s.roles, actingAs); err != nil {
		return nil, err
	}
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, errors.New("invalid start date")
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return nil, errors.New("invalid end date")
	}
	if start.After(end) {
		return nil, errors.New("start date must not be after end date")
	}
	return s.createSlot(teamID, actingAs, model.GroupLocker, startDate, endDate, s.cfg.LockerCapacity)
}

// CreateWashDay 管理员建一个洗球衣日（默认1个名额）
func (s *DutyService) CreateWashDay(ctx context.Context, actingAs, teamID uint64, gameDay string) (*model.DutySlot, error) {
	if err := requireAdmin(s.roles, actingAs); err != nil {
		return nil, err
	}
	if _, err := time.Parse("2006-01-02", gameDay); err != nil {
		return nil, errors.New("invalid game day")
	}
	return s.createSlot(teamID, actingAs, model.GroupWash, gameDay, gameDay, s.cfg.WashCapacity)
}

// createSlot 靠 uk_slot_range 唯一索引挡重复，不做先查后插
func (s *DutyService) createSlot(teamID, actingAs uint64, kind model.GroupKind, startDate, endDate string, capacity int) (*model.DutySlot, error) {
	slot := &model.DutySlot{
		TeamID:         teamID,
		Kind:           kind,
		StartDate:      startDate,
		EndDate:        endDate,
		SlotsTotal:     capacity,
		SlotsAvailable: capacity,
		CreatedBy:      actingAs,
	}
	if err := s.repo.Create(slot); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDutySlotExists
		}
		return nil, err
	}
	return slot, nil
}

// List 某类值日的全部轮值单元，带占位者和本人是否已入列
func (s *DutyService) List(ctx context.Context, teamID uint64, kind model.GroupKind, callerID uint64) ([]DutySlotView, error) {
	if kind != model.GroupLocker && kind != model.GroupWash {
		return nil, errors.New("invalid duty kind")
	}
	slots, err := s.repo.ListByKind(teamID, kind)
	if err != nil {
		return nil, err
	}
	views := []DutySlotView{}
	for _, slot := range slots {
		v, err := s.roster.View(ctx, kind, slot.ID, callerID)
		if err != nil {
			return nil, err
		}
		views = append(views, DutySlotView{Slot: slot, Roster: *v})
	}
	return views, nil
}
