package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/care-scheduler/internal/dto"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/care-scheduler/internal/middleware"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
	"github.com/BruksfildServices01/care-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/care-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentService interface {
	Create(ctx context.Context, in ucAppointment.CreateInput) (*models.Appointment, error)
	Get(ctx context.Context, id uint) (*models.Appointment, error)
	GetForMember(ctx context.Context, id, memberID uint) (*models.Appointment, error)
	List(ctx context.Context, f domain.ListFilter) (*ucAppointment.ListResult, error)
	Update(ctx context.Context, id uint, in ucAppointment.UpdateInput) (*models.Appointment, error)

	Approve(ctx context.Context, id uint) (*models.Appointment, error)
	Reject(ctx context.Context, id uint, reason string) (*models.Appointment, error)
	Cancel(ctx context.Context, id uint, reason string, byOwnerMemberID *uint) (*models.Appointment, error)
	Complete(ctx context.Context, id uint) (*models.Appointment, error)
	AddRating(ctx context.Context, id uint, score int, comment string, byOwnerMemberID *uint) (*models.Appointment, error)
	BatchUpdateStatus(ctx context.Context, ids []uint, target domain.Status) (int, error)

	PreCheckAvailability(ctx context.Context, providerID uint, start, end time.Time) (domain.AvailabilityResult, error)
	AvailableSlots(ctx context.Context, providerID uint, date time.Time) ([]domain.TimeSlot, error)
	QuotePrice(ctx context.Context, serviceTypeID uint, start, end time.Time) (float64, error)
	AvailableActions(ctx context.Context, id, memberID uint) ([]domain.Action, error)
	ProviderRating(ctx context.Context, providerID uint) (*models.ProviderRating, error)

	Statistics(ctx context.Context, f domain.StatsFilter) (*ucAppointment.Statistics, error)
	CountsByDay(ctx context.Context, providerID uint, from, to time.Time) ([]domain.DayCount, error)
}

type AppointmentHandler struct {
	svc   AppointmentService
	clock timezone.Clock
	loc   *time.Location
}

func NewAppointmentHandler(svc AppointmentService, clock timezone.Clock) *AppointmentHandler {
	return &AppointmentHandler{svc: svc, clock: clock, loc: clock.Location()}
}

// ======================================================
// HELPERS
// ======================================================

// ctx carries the caller into the service for audit records.
func (h *AppointmentHandler) ctx(c *gin.Context) context.Context {
	return ucAppointment.WithActor(c.Request.Context(), ucAppointment.Actor{
		ID:        c.GetUint(middleware.ContextUserID),
		Role:      c.GetString(middleware.ContextUserRole),
		RequestID: c.GetString(middleware.ContextRequestID),
	})
}

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid id.")
		return 0, false
	}
	return uint(id), true
}

func optionalUintQuery(c *gin.Context, name string) (*uint, bool) {
	s := c.Query(name)
	if s == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, "invalid_"+name, "Invalid "+name+".")
		return nil, false
	}
	id := uint(v)
	return &id, true
}

// ownerOf returns the member id for member callers and nil for staff.
func ownerOf(c *gin.Context) *uint {
	if id, ok := middleware.MemberID(c); ok {
		return &id
	}
	return nil
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req dto.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid data.")
		return
	}

	var creator domain.Creator
	if memberID, ok := middleware.MemberID(c); ok {
		if req.IsBlocked || (req.MemberID != nil && *req.MemberID != memberID) {
			httperr.WriteError(c, httperr.Forbidden("staff_only", "members can only book for themselves"))
			return
		}
		creator = domain.Member{ID: memberID}
	} else if req.IsBlocked {
		creator = domain.StaffBlock{Reason: req.BlockType}
	} else {
		if req.MemberID == nil {
			httperr.BadRequest(c, "member_required", "member_id is required for bookings.")
			return
		}
		creator = domain.Member{ID: *req.MemberID}
	}

	ap, err := h.svc.Create(h.ctx(c), ucAppointment.CreateInput{
		ProviderID:      req.ProviderID,
		Start:           req.Start,
		End:             req.End,
		Creator:         creator,
		ServiceTypeID:   req.ServiceTypeID,
		ServiceLocation: req.ServiceLocation,
		Notes:           req.Notes,
	})
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// READ
// ======================================================

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var (
		ap  *models.Appointment
		err error
	)
	if memberID, isMember := middleware.MemberID(c); isMember {
		ap, err = h.svc.GetForMember(h.ctx(c), id, memberID)
	} else {
		ap, err = h.svc.Get(h.ctx(c), id)
	}
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) List(c *gin.Context) {
	var f domain.ListFilter
	var ok bool

	if f.ProviderID, ok = optionalUintQuery(c, "provider_id"); !ok {
		return
	}
	if f.MemberID, ok = optionalUintQuery(c, "member_id"); !ok {
		return
	}
	if memberID, isMember := middleware.MemberID(c); isMember {
		f.MemberID = &memberID
	}

	if s := c.Query("status"); s != "" {
		st, valid := domain.ParseStatus(s)
		if !valid {
			httperr.BadRequest(c, "invalid_status", "Unknown status.")
			return
		}
		f.Status = &st
	}
	if s := c.Query("blocked"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			httperr.BadRequest(c, "invalid_blocked", "blocked must be true or false.")
			return
		}
		f.Blocked = &b
	}

	var err error
	if f.From, err = parseOptionalDate(c.Query("from"), h.loc); err != nil {
		httperr.BadRequest(c, "invalid_date", "Use YYYY-MM-DD.")
		return
	}
	if f.To, err = parseOptionalDate(c.Query("to"), h.loc); err != nil {
		httperr.BadRequest(c, "invalid_date", "Use YYYY-MM-DD.")
		return
	}

	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(ucAppointment.DefaultPageSize)))

	res, err := h.svc.List(h.ctx(c), f)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	httpresp.Page(c, res.Items, res.Total, res.Page, res.PageSize)
}

// ======================================================
// UPDATE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid data.")
		return
	}

	ap, err := h.svc.Update(h.ctx(c), id, ucAppointment.UpdateInput{
		Start:           req.Start,
		End:             req.End,
		ServiceTypeID:   req.ServiceTypeID,
		ServiceLocation: req.ServiceLocation,
		Notes:           req.Notes,
	})
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// STATUS
// ======================================================

func (h *AppointmentHandler) Approve(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	ap, err := h.svc.Approve(h.ctx(c), id)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Reject(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req dto.ReasonRequest
	_ = c.ShouldBindJSON(&req)

	ap, err := h.svc.Reject(h.ctx(c), id, req.Reason)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req dto.ReasonRequest
	_ = c.ShouldBindJSON(&req)

	ap, err := h.svc.Cancel(h.ctx(c), id, req.Reason, ownerOf(c))
	if err != nil {
		httperr.WriteError(c, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	ap, err := h.svc.Complete(h.ctx(c), id)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Rate(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req dto.RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid data.")
		return
	}

	ap, err := h.svc.AddRating(h.ctx(c), id, req.Score, req.Comment, ownerOf(c))
	if err != nil {
		httperr.WriteError(c, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) BatchStatus(c *gin.Context) {
	var req dto.BatchStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid data.")
		return
	}

	n, err := h.svc.BatchUpdateStatus(h.ctx(c), req.IDs, domain.Status(req.Status))
	if err != nil {
		httperr.WriteError(c, err)
		return
	}
	httpresp.OK(c, dto.BatchStatusResponse{Updated: n})
}

func (h *AppointmentHandler) Actions(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	memberID, isMember := middleware.MemberID(c)
	if !isMember {
		httperr.WriteError(c, httperr.Forbidden("member_only", "actions are listed for the owning member"))
		return
	}

	actions, err := h.svc.AvailableActions(h.ctx(c), id, memberID)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}
	httpresp.List(c, actions)
}

// ======================================================
// AVAILABILITY / PRICING
// ======================================================

func (h *AppointmentHandler) CheckAvailability(c *gin.Context) {
	var req dto.AvailabilityCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid data.")
		return
	}

	res, err := h.svc.PreCheckAvailability(h.ctx(c), req.ProviderID, req.Start, req.End)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}
	httpresp.OK(c, res)
}

func (h *AppointmentHandler) Slots(c *gin.Context) {
	providerID, ok := idParam(c, "id")
	if !ok {
		return
	}

	date, err := parseDate(c.Query("date"), h.loc)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Use YYYY-MM-DD.")
		return
	}
	if date.Before(timezone.StartOfDay(h.clock.Now(), h.loc)) {
		httperr.BadRequest(c, "date_in_the_past", "Slots are only offered from today on.")
		return
	}

	slots, err := h.svc.AvailableSlots(h.ctx(c), providerID, date)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	out := make([]dto.SlotDTO, len(slots))
	for i, s := range slots {
		out[i] = dto.SlotDTO{Start: s.Start, End: s.End}
	}
	httpresp.List(c, out)
}

func (h *AppointmentHandler) Quote(c *gin.Context) {
	var req dto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid data.")
		return
	}

	amount, err := h.svc.QuotePrice(h.ctx(c), req.ServiceTypeID, req.Start, req.End)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	httpresp.OK(c, dto.QuoteResponse{
		ServiceTypeID: req.ServiceTypeID,
		Hours:         req.End.Sub(req.Start).Hours(),
		TotalAmount:   amount,
	})
}

func (h *AppointmentHandler) ProviderRating(c *gin.Context) {
	providerID, ok := idParam(c, "id")
	if !ok {
		return
	}

	r, err := h.svc.ProviderRating(h.ctx(c), providerID)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}
	httpresp.OK(c, r)
}

// ======================================================
// STATISTICS
// ======================================================

func (h *AppointmentHandler) Statistics(c *gin.Context) {
	var f domain.StatsFilter
	var ok bool
	if f.ProviderID, ok = optionalUintQuery(c, "provider_id"); !ok {
		return
	}

	var err error
	if f.From, err = parseOptionalDate(c.Query("from"), h.loc); err != nil {
		httperr.BadRequest(c, "invalid_date", "Use YYYY-MM-DD.")
		return
	}
	if f.To, err = parseOptionalDate(c.Query("to"), h.loc); err != nil {
		httperr.BadRequest(c, "invalid_date", "Use YYYY-MM-DD.")
		return
	}

	stats, err := h.svc.Statistics(h.ctx(c), f)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}
	httpresp.OK(c, stats)
}

// Calendar returns per-day counts; to is inclusive.
func (h *AppointmentHandler) Calendar(c *gin.Context) {
	providerID, ok := idParam(c, "id")
	if !ok {
		return
	}

	from, err := parseDate(c.Query("from"), h.loc)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Use YYYY-MM-DD.")
		return
	}
	to, err := parseDate(c.Query("to"), h.loc)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Use YYYY-MM-DD.")
		return
	}

	days, err := h.svc.CountsByDay(h.ctx(c), providerID, from, to.AddDate(0, 0, 1))
	if err != nil {
		httperr.WriteError(c, err)
		return
	}
	httpresp.List(c, days)
}

var _ AppointmentService = (*ucAppointment.Service)(nil)
