package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"frontdesk/internal/app/commands"
	"frontdesk/internal/app/dto"
	AuditApp "frontdesk/internal/app/handlers/audit"
	"frontdesk/internal/app/queries"
	domainaudit "frontdesk/internal/domain/audit"
	"frontdesk/internal/infra/progress"
)

// AuditHandler exposes the night-audit state machine. Each step endpoint is a
// thin shell over the corresponding command; ordering, idempotency and
// per-item failure recording live in the application layer.
type AuditHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Progress progress.Tracker
}

func (h AuditHandler) Current(c *gin.Context) {
	q := AuditApp.GetCurrentAuditQuery{HotelID: c.Param("id")}
	a, err := queries.Ask[AuditApp.GetCurrentAuditQuery, *domainaudit.NightAudit](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h AuditHandler) Start(c *gin.Context) {
	cmd := AuditApp.StartAuditCommand{HotelID: c.Param("id"), StartedBy: operatorFrom(c)}
	a, err := commands.Dispatch[AuditApp.StartAuditCommand, *domainaudit.NightAudit](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h AuditHandler) NoShowCandidates(c *gin.Context) {
	q := AuditApp.GetNoShowsQuery{HotelID: c.Param("id")}
	candidates, err := queries.Ask[AuditApp.GetNoShowsQuery, []dto.NoShowCandidate](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"candidates": candidates})
}

type processNoShowsRequest struct {
	Actions []dto.NoShowAction `json:"actions"`
}

func (h AuditHandler) ProcessNoShows(c *gin.Context) {
	var req processNoShowsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := AuditApp.ProcessNoShowsCommand{HotelID: c.Param("id"), Actions: req.Actions, By: operatorFrom(c)}
	a, err := commands.Dispatch[AuditApp.ProcessNoShowsCommand, *domainaudit.NightAudit](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h AuditHandler) RolloverRooms(c *gin.Context) {
	cmd := AuditApp.RolloverRoomsCommand{HotelID: c.Param("id"), By: operatorFrom(c)}
	a, err := commands.Dispatch[AuditApp.RolloverRoomsCommand, *domainaudit.NightAudit](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h AuditHandler) CashierData(c *gin.Context) {
	q := AuditApp.GetCashierDataQuery{HotelID: c.Param("id")}
	shifts, err := queries.Ask[AuditApp.GetCashierDataQuery, []dto.ShiftSummary](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shifts": shifts})
}

type closeShiftsRequest struct {
	Closures []dto.ShiftClosure `json:"closures"`
}

func (h AuditHandler) CloseShifts(c *gin.Context) {
	var req closeShiftsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := AuditApp.CloseShiftsCommand{HotelID: c.Param("id"), Closures: req.Closures, By: operatorFrom(c)}
	a, err := commands.Dispatch[AuditApp.CloseShiftsCommand, *domainaudit.NightAudit](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h AuditHandler) RolloverDate(c *gin.Context) {
	cmd := AuditApp.RolloverDateCommand{HotelID: c.Param("id"), By: operatorFrom(c)}
	a, err := commands.Dispatch[AuditApp.RolloverDateCommand, *domainaudit.NightAudit](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h AuditHandler) Finalize(c *gin.Context) {
	cmd := AuditApp.FinalizeAuditCommand{HotelID: c.Param("id"), By: operatorFrom(c)}
	a, err := commands.Dispatch[AuditApp.FinalizeAuditCommand, *domainaudit.NightAudit](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// ProgressTrail replays the recorded step events for the hotel's active
// audit, so a reconnecting client can catch up.
func (h AuditHandler) ProgressTrail(c *gin.Context) {
	if h.Progress == nil {
		c.JSON(http.StatusOK, gin.H{"events": []progress.Entry{}})
		return
	}
	q := AuditApp.GetCurrentAuditQuery{HotelID: c.Param("id")}
	a, err := queries.Ask[AuditApp.GetCurrentAuditQuery, *domainaudit.NightAudit](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	trail, err := h.Progress.Snapshot(c.Request.Context(), a.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	if trail == nil {
		trail = []progress.Entry{}
	}
	c.JSON(http.StatusOK, gin.H{"operation_id": a.ID, "events": trail})
}

// operatorFrom identifies the acting operator. Station clients send the
// header; absent one the actor is recorded as system.
func operatorFrom(c *gin.Context) string {
	if op := c.GetHeader("X-Operator-ID"); op != "" {
		return op
	}
	return "system"
}

var _ AuditHTTP = AuditHandler{}
