package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"library-api/internal/platform/httpx"
)

type Handler struct{ svc *Service }

// RegisterRoutes mounts /auth routes. アカウント管理は admin のみ
func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	admin := []gin.HandlerFunc{svc.RequireAuth(), RequireRole(RoleAdmin)}

	r.POST("/auth/login", h.Login)
	r.POST("/auth/librarians", append(admin, h.Register)...)
	r.DELETE("/auth/librarians/:id", append(admin, h.Delete)...)
}

type LoginRequest struct {
	ID       string `json:"id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type RegisterRequest struct {
	ID       string `json:"id" binding:"required,max=64"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role,omitempty"`
}

// Login godoc
// @Summary  Issue a bearer token
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body LoginRequest true "credentials"
// @Success  200 {object} LoginResponse
// @Failure  401 {object} httpx.ErrorBody
// @Router   /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Fail(c, err)
		return
	}
	token, err := h.svc.Login(c.Request.Context(), req.ID, req.Password)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, LoginResponse{Token: token})
}

// Register godoc
// @Summary  Create a librarian account (admin)
// @Tags     auth
// @Accept   json
// @Param    body body RegisterRequest true "account"
// @Success  201
// @Failure  400 {object} httpx.ErrorBody
// @Failure  401 {object} httpx.ErrorBody
// @Failure  403 {object} httpx.ErrorBody
// @Security Bearer
// @Router   /auth/librarians [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Fail(c, err)
		return
	}
	if err := h.svc.Register(c.Request.Context(), req.ID, req.Password, req.Role); err != nil {
		httpx.Fail(c, err)
		return
	}
	c.Header("Location", "/api/auth/librarians/"+req.ID)
	c.Status(http.StatusCreated)
}

// Delete godoc
// @Summary  Delete a librarian account (admin)
// @Tags     auth
// @Param    id path string true "librarian id"
// @Success  204
// @Failure  400 {object} httpx.ErrorBody
// @Failure  404
// @Security Bearer
// @Router   /auth/librarians/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.GetString(CtxLibrarianKey), c.Param("id")); err != nil {
		httpx.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
