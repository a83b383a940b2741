package attendance

import (
	"net/http"
	"strconv"
	"time"

	"fptrack/internal/middleware"
	"fptrack/internal/pkg/response"
	"fptrack/internal/repository"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	hub     *Hub
}

func NewHandler(service *Service, hub *Hub) *Handler {
	return &Handler{service: service, hub: hub}
}

// RegisterRoutes mounts the attendance endpoints on an authenticated group.
// Punch data is visible to managers and admins only.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	grp := r.Group("/attendance")
	grp.Use(middleware.StaffOnly())
	{
		grp.GET("/logs", h.ListLogs)
		grp.GET("/live", h.Live)
	}
}

// ListLogs handles GET /attendance/logs?deviceUserId=&from=&to=&limit=
func (h *Handler) ListLogs(c *gin.Context) {
	filter := repository.AttendanceLogFilter{
		DeviceUserID: c.Query("deviceUserId"),
	}

	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_QUERY", "from must be RFC3339")
			return
		}
		filter.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_QUERY", "to must be RFC3339")
			return
		}
		filter.To = &t
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			response.Error(c, http.StatusBadRequest, "INVALID_QUERY", "limit must be a positive integer")
			return
		}
		filter.Limit = n
	}

	logs, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to list attendance logs")
		return
	}

	response.Success(c, http.StatusOK, toLogResponses(logs))
}

// Live upgrades to a websocket and streams punches as they are ingested.
func (h *Handler) Live(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		return
	}
	h.hub.ServeWS(conn)
}
