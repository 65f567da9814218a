package controller

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"seek_immo_v1_202610/internal/leasing"
	"seek_immo_v1_202610/internal/listing"
	"seek_immo_v1_202610/internal/service"
	"seek_immo_v1_202610/internal/session"
	"seek_immo_v1_202610/pkg/seekapi"

	"github.com/gin-gonic/gin"
)

// ==================== 统一响应 ====================

func success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    data,
	})
}

func created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": "success",
		"data":    data,
	})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"code":    400,
		"message": message,
	})
}

// fail 把错误映射为 HTTP 状态码和一条法语提示。字段校验错误额外返回 data.errors
func fail(c *gin.Context, err error) {
	status := statusOf(err)
	body := gin.H{
		"code":    status,
		"message": leasing.UserMessage(err),
	}

	var ve listing.ValidationErrors
	if errors.As(err, &ve) {
		body["data"] = gin.H{"errors": ve}
	}
	if status >= http.StatusInternalServerError {
		log.Printf("[API] %s %s 失败: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, body)
}

var statusByError = []struct {
	err    error
	status int
}{
	{session.ErrBusy, http.StatusConflict},
	{session.ErrSessionClosed, http.StatusGone},
	{session.ErrNotFound, http.StatusNotFound},
	{listing.ErrEditForbidden, http.StatusForbidden},
	{listing.ErrNothingToSubmit, http.StatusConflict},
	{leasing.ErrTransitionNotAllowed, http.StatusConflict},
	{leasing.ErrFlowState, http.StatusConflict},
	{leasing.ErrContratInactif, http.StatusConflict},
	{leasing.ErrDateFinInvalide, http.StatusBadRequest},
	{leasing.ErrLocataireRequis, http.StatusBadRequest},
}

func statusOf(err error) int {
	var ve listing.ValidationErrors
	if errors.As(err, &ve) {
		return http.StatusBadRequest
	}
	var biz *service.BizError
	if errors.As(err, &biz) {
		return biz.Code
	}
	var remote *seekapi.APIError
	if errors.As(err, &remote) {
		if remote.Status >= 400 && remote.Status < 600 {
			return remote.Status
		}
		return http.StatusBadGateway
	}
	for _, m := range statusByError {
		if errors.Is(err, m.err) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// ==================== 参数解析 ====================

// parseID 解析路径中的正整数 ID，失败时直接写 400
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "Identifiant invalide")
		return 0, false
	}
	return id, true
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		badRequest(c, "Paramètres invalides: "+err.Error())
		return false
	}
	return true
}
