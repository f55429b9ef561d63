package server

import (
	"strings"
	"time"

	scheduledomain "github.com/greentruckerlabs/greentrucker/internal/schedule/domain"
	"github.com/gin-gonic/gin"
)

type createScheduleRequest struct {
	CustomerName   string    `json:"customerName"`
	Category       string    `json:"category"`
	ScheduleDate   time.Time `json:"scheduleDate"`
	Location       string    `json:"location"`
	Email          string    `json:"email"`
	AdditionalNote string    `json:"additionalNote"`
}

type updateScheduleRequest struct {
	Status         *string    `json:"status"`
	ScheduleDate   *time.Time `json:"scheduleDate"`
	Location       *string    `json:"location"`
	AdditionalNote *string    `json:"additionalNote"`
}

// @Summary      Create Pickup Request
// @Description  File a pickup request; a confirmation email is queued on success
// @Tags         schedules
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request body createScheduleRequest true "Pickup Request"
// @Router       /v1/schedules [post]
func (s *Server) CreateSchedule(c *gin.Context) {
	identity := identityFrom(c)
	resident := s.residentScope(c, identity)
	if resident == "" {
		AbortWithError(c, newValidationError("residentId", "required", "a resident id is required"))
		return
	}

	var req createScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	record, err := s.scheduleSvc.Create(c.Request.Context(), scheduledomain.CreateRequest{
		ResidentID:     resident,
		CustomerName:   strings.TrimSpace(req.CustomerName),
		Category:       strings.TrimSpace(req.Category),
		ScheduleDate:   req.ScheduleDate,
		Location:       strings.TrimSpace(req.Location),
		Email:          strings.TrimSpace(req.Email),
		AdditionalNote: strings.TrimSpace(req.AdditionalNote),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, record)
}

func (s *Server) ListSchedules(c *gin.Context) {
	ctx := c.Request.Context()
	identity := identityFrom(c)

	if resident := s.residentScope(c, identity); resident != "" {
		records, err := s.scheduleSvc.ListByResident(ctx, resident)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		respondList(c, records)
		return
	}

	records, err := s.scheduleSvc.List(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, records)
}

func (s *Server) GetSchedule(c *gin.Context) {
	record, err := s.scheduleSvc.Get(c.Request.Context(), c.Param("requestId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, record)
}

func (s *Server) UpdateSchedule(c *gin.Context) {
	var req updateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	update := scheduledomain.UpdateRequest{
		ScheduleDate:   req.ScheduleDate,
		Location:       req.Location,
		AdditionalNote: req.AdditionalNote,
	}
	if req.Status != nil {
		status := scheduledomain.RequestStatus(strings.TrimSpace(*req.Status))
		update.Status = &status
	}

	record, err := s.scheduleSvc.Update(c.Request.Context(), c.Param("requestId"), update)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, "schedule.update", "schedule", record.RequestID, map[string]any{
		"status": string(record.Status),
	})
	respondData(c, record)
}

func (s *Server) DeleteSchedule(c *gin.Context) {
	requestID := c.Param("requestId")
	if err := s.scheduleSvc.Delete(c.Request.Context(), requestID); err != nil {
		AbortWithError(c, err)
		return
	}
	s.recordAudit(c, "schedule.delete", "schedule", requestID, nil)
	respondData(c, gin.H{"deleted": requestID})
}
