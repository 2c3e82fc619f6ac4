package assessments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ValeriiSysoiev/AI-Enable-Cyber-Maturity-Assessment-2-sub003/internal/shared/server/respond"
)

// Handler exposes assessment CRUD over HTTP.
type Handler struct {
	svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register attaches assessment routes to the API group.
func (h *Handler) Register(api *gin.RouterGroup) {
	api.POST("/assessments", h.create)
	api.GET("/assessments", h.list)
	api.GET("/assessments/:id", h.get)
}

type createRequest struct {
	Name      string `json:"name"`
	Framework string `json:"framework"`
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "Body must be JSON with a name field", nil)
		return
	}
	if req.Name == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "name is required", nil)
		return
	}

	assessment, err := h.svc.Create(c.Request.Context(), req.Name, req.Framework)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", err.Error(), nil)
		return
	}
	respond.Created(c, assessment)
}

func (h *Handler) get(c *gin.Context) {
	assessment, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		respond.Error(c, http.StatusNotFound, "not_found", "Assessment not found", nil)
		return
	}
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", err.Error(), nil)
		return
	}
	respond.OK(c, assessment)
}

func (h *Handler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, err := h.svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", err.Error(), nil)
		return
	}
	respond.OK(c, gin.H{"assessments": items})
}
