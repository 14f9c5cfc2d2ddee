package handler

import (
	"net/http"

	"Team_Orga/internal/service"

	"github.com/gin-gonic/gin"
)

type TeamHandler struct {
	svc *service.TeamService
}

type CreateTeamReq struct {
	Name string `json:"name" binding:"required"`
}

func NewTeamHandler() *TeamHandler {
	return &TeamHandler{
		svc: service.NewTeamService(),
	}
}

// List 注册页的球队下拉框，无需登录
func (h *TeamHandler) List(c *gin.Context) {
	teams, err := h.svc.ListTeams()
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"teams": teams})
}

func (h *TeamHandler) Create(c *gin.Context) {
	var req CreateTeamReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	userID, ok := currentUser(c)
	if !ok {
		return
	}

	team, err := h.svc.CreateTeam(userID, req.Name)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"team": team})
}
