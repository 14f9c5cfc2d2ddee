package handler

import (
	"net/http"

	"Team_Orga/internal/config"
	"Team_Orga/internal/model"
	"Team_Orga/internal/service"

	"github.com/gin-gonic/gin"
)

type DutyHandler struct {
	svc   *service.DutyService
	users *service.UserService
}

// CreateLockerWeekReq 建一周更衣室值日
type CreateLockerWeekReq struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

// CreateWashDayReq 建一个洗球衣日
type CreateWashDayReq struct {
	GameDay string `json:"game_day" binding:"required"`
}

func NewDutyHandler(cfg config.DutyConfig) *DutyHandler {
	return &DutyHandler{
		svc:   service.NewDutyService(cfg),
		users: service.NewUserService(),
	}
}

func (h *DutyHandler) CreateLockerWeek(c *gin.Context) {
	var req CreateLockerWeekReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	userID, ok := currentUser(c)
	if !ok {
		return
	}
	me, err := h.users.Profile(userID)
	if err != nil {
		respondErr(c, err)
		return
	}

	slot, err := h.svc.CreateLockerWeek(c.Request.Context(), userID, me.TeamID, req.StartDate, req.EndDate)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"slot": slot})
}

func (h *DutyHandler) CreateWashDay(c *gin.Context) {
	var req CreateWashDayReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	userID, ok := currentUser(c)
	if !ok {
		return
	}
	me, err := h.users.Profile(userID)
	if err != nil {
		respondErr(c, err)
		return
	}

	slot, err := h.svc.CreateWashDay(c.Request.Context(), userID, me.TeamID, req.GameDay)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"slot": slot})
}

// List 某类值日的轮值列表，kind 取 locker 或 wash
func (h *DutyHandler) List(c *gin.Context) {
	kind, ok := paramKind(c)
	if !ok {
		return
	}
	if kind == model.GroupCarpool {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid kind"})
		return
	}

	userID, ok := currentUser(c)
	if !ok {
		return
	}
	me, err := h.users.Profile(userID)
	if err != nil {
		respondErr(c, err)
		return
	}

	views, err := h.svc.List(c.Request.Context(), me.TeamID, kind, userID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": views})
}
