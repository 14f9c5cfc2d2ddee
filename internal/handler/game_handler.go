package handler

import (
	"net/http"
	"strconv"
	"time"

	"Team_Orga/internal/service"

	"github.com/gin-gonic/gin"
)

type GameHandler struct {
	svc   *service.GameService
	users *service.UserService
}

// CreateGameReq 建比赛请求体，日期格式 2006-01-02 15:04
type CreateGameReq struct {
	Opponent string `json:"opponent" binding:"required"`
	Location string `json:"location"`
	GameDate string `json:"game_date" binding:"required"`
}

func NewGameHandler() *GameHandler {
	return &GameHandler{
		svc:   service.NewGameService(),
		users: service.NewUserService(),
	}
}

func (h *GameHandler) Create(c *gin.Context) {
	var req CreateGameReq
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

	gameDate, err := time.Parse("2006-01-02 15:04", req.GameDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid game date"})
		return
	}

	game, err := h.svc.CreateGame(c.Request.Context(), userID, me.TeamID, req.Opponent, req.Location, gameDate)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"game": game})
}

// List 本队赛程，按开球时间升序分页
func (h *GameHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	me, err := h.users.Profile(userID)
	if err != nil {
		respondErr(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	games, err := h.svc.ListGames(me.TeamID, page, size)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"games": games})
}

// Detail 比赛详情，带全部车位发布和乘客
func (h *GameHandler) Detail(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	gameID, ok := paramID(c, "id")
	if !ok {
		return
	}

	detail, err := h.svc.GameDetail(c.Request.Context(), gameID, userID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// Delete 管理员删比赛，车位和乘客级联清掉
func (h *GameHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	gameID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteGame(c.Request.Context(), gameID, userID); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}
