package server

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	auditdomain "github.com/greentruckerlabs/greentrucker/internal/audit/domain"
	"github.com/gin-gonic/gin"
)

func auditEntry(identity Identity, action, targetType, targetID string, detail map[string]any) auditdomain.Entry {
	actor := identity.Name
	if actor == "" {
		actor = identity.KeyID
	}
	return auditdomain.Entry{
		Actor:      actor,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Detail:     detail,
	}
}

// @Summary      Export Audit Trail
// @Description  Export recorded actions as CSV or JSON, optionally snappy-compressed
// @Tags         audit
// @Produce      json
// @Security     ApiKeyAuth
// @Param        from      query  string  false  "Start date (YYYY-MM-DD)"
// @Param        to        query  string  false  "End date (YYYY-MM-DD)"
// @Param        format    query  string  false  "csv or json"
// @Param        actions   query  string  false  "Comma-separated action filter"
// @Param        compress  query  bool    false  "Snappy-compress the payload"
// @Router       /v1/audit/export [get]
func (s *Server) ExportAudit(c *gin.Context) {
	now := time.Now().UTC()
	start := now.AddDate(0, -1, 0)
	end := now

	if from := strings.TrimSpace(c.Query("from")); from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			AbortWithError(c, newValidationError("from", "date", "from must be formatted YYYY-MM-DD"))
			return
		}
		start = parsed
	}
	if to := strings.TrimSpace(c.Query("to")); to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			AbortWithError(c, newValidationError("to", "date", "to must be formatted YYYY-MM-DD"))
			return
		}
		end = parsed.AddDate(0, 0, 1)
	}

	format := auditdomain.ExportFormat(strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", "csv"))))
	if format != auditdomain.ExportFormatCSV && format != auditdomain.ExportFormatJSON {
		AbortWithError(c, newValidationError("format", "oneof", "format must be csv or json"))
		return
	}

	var actions []string
	if raw := strings.TrimSpace(c.Query("actions")); raw != "" {
		for _, action := range strings.Split(raw, ",") {
			if action = strings.TrimSpace(action); action != "" {
				actions = append(actions, action)
			}
		}
	}

	compress, _ := strconv.ParseBool(c.DefaultQuery("compress", "false"))

	result, err := s.auditSvc.Export(c.Request.Context(), auditdomain.ExportRequest{
		StartDate: start,
		EndDate:   end,
		Format:    format,
		Actions:   actions,
		Compress:  compress,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	contentType := "text/csv"
	ext := "csv"
	if format == auditdomain.ExportFormatJSON {
		contentType = "application/json"
		ext = "json"
	}
	if result.Compressed {
		contentType = "application/octet-stream"
		ext += ".snappy"
	}

	c.Header("X-Checksum-SHA256", result.Checksum)
	c.Header("X-Record-Count", strconv.Itoa(result.Count))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=audit-export.%s", ext))
	c.Data(200, contentType, result.Data)
}
