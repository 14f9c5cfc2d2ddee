package handler

import (
	"net/http"

	"Team_Orga/internal/service"

	"github.com/gin-gonic/gin"
)

type OfferHandler struct {
	svc *service.OfferService
}

// CreateOfferReq 发车位请求体，seats 不含司机本人
type CreateOfferReq struct {
	GameID            uint64 `json:"game_id" binding:"required"`
	DepartureLocation string `json:"departure_location" binding:"required"`
	DepartureTime     string `json:"departure_time" binding:"required"`
	Seats             int    `json:"seats"`
}

func NewOfferHandler() *OfferHandler {
	return &OfferHandler{
		svc: service.NewOfferService(),
	}
}

func (h *OfferHandler) Create(c *gin.Context) {
	var req CreateOfferReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	userID, ok := currentUser(c)
	if !ok {
		return
	}

	offer, err := h.svc.CreateOffer(c.Request.Context(), userID, req.GameID, req.DepartureLocation, req.DepartureTime, req.Seats)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"offer": offer})
}
