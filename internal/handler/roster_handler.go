package handler

import (
	"net/http"

	"Team_Orga/internal/service"

	"github.com/gin-gonic/gin"
)

// RosterHandler 名额操作的统一入口：拼车车位和值日名额走同一组路由，
// kind 路径参数区分 carpool / locker / wash。
type RosterHandler struct {
	svc *service.RosterService
}

// AssignReq 管理员指派/移除请求体
type AssignReq struct {
	UserID uint64 `json:"user_id" binding:"required"`
}

func NewRosterHandler() *RosterHandler {
	return &RosterHandler{
		svc: service.NewRosterService(),
	}
}

// Join 自己占一个名额
func (h *RosterHandler) Join(c *gin.Context) {
	kind, ok := paramKind(c)
	if !ok {
		return
	}
	groupID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	view, err := h.svc.Join(c.Request.Context(), kind, groupID, userID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Leave 自己退出
func (h *RosterHandler) Leave(c *gin.Context) {
	kind, ok := paramKind(c)
	if !ok {
		return
	}
	groupID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	view, err := h.svc.Leave(c.Request.Context(), kind, groupID, userID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Assign 管理员替人占名额
func (h *RosterHandler) Assign(c *gin.Context) {
	var req AssignReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	kind, ok := paramKind(c)
	if !ok {
		return
	}
	groupID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	view, err := h.svc.Assign(c.Request.Context(), kind, groupID, req.UserID, userID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Unassign 管理员移除占位者
func (h *RosterHandler) Unassign(c *gin.Context) {
	var req AssignReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	kind, ok := paramKind(c)
	if !ok {
		return
	}
	groupID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	view, err := h.svc.Unassign(c.Request.Context(), kind, groupID, req.UserID, userID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Delete 司机撤车或管理员删分组，占位者连带清退
func (h *RosterHandler) Delete(c *gin.Context) {
	kind, ok := paramKind(c)
	if !ok {
		return
	}
	groupID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	removed, err := h.svc.DeleteGroup(c.Request.Context(), kind, groupID, userID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "ok", "removed": len(removed)})
}

// View 分组的名额视图
func (h *RosterHandler) View(c *gin.Context) {
	kind, ok := paramKind(c)
	if !ok {
		return
	}
	groupID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	view, err := h.svc.View(c.Request.Context(), kind, groupID, userID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Seats 列表页用的剩余名额，走缓存
func (h *RosterHandler) Seats(c *gin.Context) {
	kind, ok := paramKind(c)
	if !ok {
		return
	}
	groupID, ok := paramID(c, "id")
	if !ok {
		return
	}

	seats, err := h.svc.RemainingSeats(c.Request.Context(), kind, groupID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"remaining": seats})
}
