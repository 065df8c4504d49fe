package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"blog-platform/apps/blog-service/model"
	"blog-platform/pkg/httpx"
)

// PasscodeRequest 口令校验请求
type PasscodeRequest struct {
	Passcode string `json:"passcode"`
}

// VerifyPasscode 校验管理口令，成功下发管理令牌
func (h *HTTPHandler) VerifyPasscode(c *gin.Context) {
	var req PasscodeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Passcode == "" {
		httpx.WriteError(c, http.StatusBadRequest, "Passcode is required", "")
		return
	}

	token, err := h.passcodeSvc.VerifyPasscode(c.Request.Context(), req.Passcode)
	if err != nil {
		// 口令不存在按业务拒绝处理，统一返回400
		if errors.Is(err, model.ErrNotFound) || errors.Is(err, model.ErrInvalidInput) {
			httpx.WriteError(c, http.StatusBadRequest, "Invalid passcode", "")
			return
		}
		h.writeError(c, err, "Server error. Please try again later.")
		return
	}

	httpx.WriteMessage(c, http.StatusOK, "Passcode verified", gin.H{"token": token})
}

// VerifyAdminAccess 管理令牌有效性探测，门禁放行即有效
func (h *HTTPHandler) VerifyAdminAccess(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Token is valid",
		"authenticated": true,
	})
}

// GetDashboard 管理后台首页
func (h *HTTPHandler) GetDashboard(c *gin.Context) {
	httpx.WriteMessage(c, http.StatusOK, "Welcome to the admin dashboard!", nil)
}
