package api

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/celerix-dev/drowsewatch/internal/query"
	"github.com/celerix-dev/drowsewatch/internal/records"
	"github.com/celerix-dev/drowsewatch/pkg/schema"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const retryMessage = "Something went wrong. Please try again."

type Handler struct {
	Records *records.Service
	Log     zerolog.Logger
	// Now stamps export file names. Nil means time.Now.
	Now func() time.Time
}

// userRequest is the body of PUT /api/users/:id.
type userRequest struct {
	FullName   string        `json:"fullName" binding:"required"`
	Email      string        `json:"email" binding:"required,email"`
	Name       string        `json:"name" binding:"required"`
	Status     schema.Status `json:"status" binding:"required,oneof=Active Inactive"`
	Role       schema.Role   `json:"role" binding:"required,oneof=Admin User Moderator Guest"`
	JoinedDate schema.Date   `json:"joinedDate"`
	LastActive string        `json:"lastActive"`
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// fail maps service errors to a status code and the failure envelope.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, records.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
	case errors.Is(err, query.ErrInvalidFilter):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	default:
		logFrom(c, h.Log).Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": retryMessage})
	}
}

func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		return 1
	}
	return page
}

func pagination[T any](p query.Page[T]) gin.H {
	return gin.H{
		"page":       p.Page,
		"pageSize":   p.PageSize,
		"totalPages": p.TotalPages,
		"totalItems": p.TotalItems,
		"hasPrev":    p.HasPrev,
		"hasNext":    p.HasNext,
		"from":       p.From,
		"to":         p.To,
	}
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.Records.ListUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	p := query.Paginate(query.FilterUsers(users, c.Query("q")), pageParam(c), query.UsersPageSize)
	c.JSON(http.StatusOK, gin.H{"success": true, "users": p.Items, "pagination": pagination(p)})
}

func (h *Handler) GetUser(c *gin.Context) {
	user, ok, err := h.Records.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h *Handler) UpsertUser(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	res, err := h.Records.UpsertUser(c.Request.Context(), schema.User{
		ID:         c.Param("id"),
		FullName:   req.FullName,
		Email:      req.Email,
		Name:       req.Name,
		Status:     req.Status,
		Role:       req.Role,
		JoinedDate: req.JoinedDate,
		LastActive: req.LastActive,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"success": true, "user": res.User, "created": res.Created})
}

func (h *Handler) ArchiveUser(c *gin.Context) {
	res, err := h.Records.ArchiveUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	body := gin.H{"success": true, "outcome": res.Outcome.String()}
	if res.Outcome == records.OutcomeArchived {
		body["user"] = res.User
		body["message"] = "User archived successfully"
	}
	c.JSON(http.StatusOK, body)
}

func (h *Handler) ListArchivedUsers(c *gin.Context) {
	users, err := h.Records.ListArchivedUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": query.FilterArchived(users, c.Query("q"))})
}

func (h *Handler) RestoreUser(c *gin.Context) {
	res, err := h.Records.RestoreUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	body := gin.H{"success": true, "outcome": res.Outcome.String()}
	if res.Outcome == records.OutcomeRestored {
		body["user"] = res.User
		body["message"] = "User restored successfully"
	}
	c.JSON(http.StatusOK, body)
}

func (h *Handler) filteredReports(c *gin.Context) ([]schema.Report, error) {
	f, err := query.ParseReportFilter(c.Query("start"), c.Query("end"), c.Query("level"))
	if err != nil {
		return nil, err
	}
	reports, err := h.Records.ListReports(c.Request.Context())
	if err != nil {
		return nil, err
	}
	return f.Apply(reports), nil
}

func (h *Handler) ListReports(c *gin.Context) {
	reports, err := h.filteredReports(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	summary := query.Summarize(reports)
	p := query.Paginate(reports, pageParam(c), query.ReportsPageSize)
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"reports":      p.Items,
		"pagination":   pagination(p),
		"summary":      summary,
		"distribution": summary.Distribution(),
		"metrics":      summary.Metrics(),
	})
}

func (h *Handler) ExportReports(c *gin.Context) {
	reports, err := h.filteredReports(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	var buf bytes.Buffer
	if err := query.WriteCSV(&buf, reports); err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+query.ExportFileName(h.now())+`"`)
	c.Data(http.StatusOK, query.CSVContentType+"; charset=utf-8", buf.Bytes())
}

func (h *Handler) CreateReport(c *gin.Context) {
	var report schema.Report
	if err := c.ShouldBindJSON(&report); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if !report.DrowsinessLevel.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "drowsinessLevel must be 1, 2 or 3"})
		return
	}
	report, err := h.Records.CreateReport(c.Request.Context(), report)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"success": true, "report": report})
}

func (h *Handler) Alerts(c *gin.Context) {
	reports, err := h.Records.ListReports(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	feed := query.AlertFeed(reports, pageParam(c))
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"critical":      feed.Critical,
		"warning":       feed.Warning,
		"criticalCount": feed.CriticalCount,
		"warningCount":  feed.WarningCount,
		"pagination":    pagination(feed.Pagination),
	})
}

func (h *Handler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	users, err := h.Records.ListUsers(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	reports, err := h.Records.ListReports(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "overview": query.Overview(users, reports)})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
