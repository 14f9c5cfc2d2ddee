package service

import (
	"context"
	"errors"

	"Team_Orga/internal/model"
	"Team_Orga/internal/repository/mysql"

	"gorm.io/gorm"
)

type OfferService struct {
	repo  *mysql.OfferRepository
	games *mysql.GameRepository
}

func NewOfferService() *OfferService {
	return &OfferService{
		repo:  &mysql.OfferRepository{DB: mysql.DB},
		games: &mysql.GameRepository{DB: mysql.DB},
	}
}

// CreateOffer 任何队员都可以发车位。seats 是司机本人之外的可载人数，
// 允许 0（先占位，之后再放座）。
func (s *OfferService) CreateOffer(ctx context.Context, userID, gameID uint64, depLocation, depTime string, seats int) (*model.Offer, error) {
	if depLocation == "" || depTime == "" {
		return nil, errors.New("departure location and time required")
	}
	if seats < 0 {
		return nil, errors.New("seats must not be negative")
	}
	if _, err := s.games.FindByID(gameID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}

	offer := &model.Offer{
		GameID:            gameID,
		UserID:            userID,
		DepartureLocation: depLocation,
		DepartureTime:     depTime,
		SlotsTotal:        seats,
		SlotsAvailable:    seats,
	}
	if err := s.repo.Create(offer); err != nil {
		return nil, err
	}
	return offer, nil
}
