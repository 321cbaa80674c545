package handlers

import (
	"encoding/json"
	"net/http"

	"propwire/application/services"
	"propwire/interfaces/http/protocol"
	"propwire/pkg/common"
	"propwire/pkg/utils"

	"go.uber.org/zap"
)

// PageHandler serves the demo page components over the wire protocol
type PageHandler struct {
	renderer *protocol.Renderer
	activity *services.ActivityService
	logger   *zap.Logger
}

// NewPageHandler creates a new page handler
func NewPageHandler(
	renderer *protocol.Renderer,
	activity *services.ActivityService,
	logger *zap.Logger,
) *PageHandler {
	return &PageHandler{
		renderer: renderer,
		activity: activity,
		logger:   logger,
	}
}

// Dashboard handles GET /app/dashboard
func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, ComponentDashboard)
}

// Activity handles GET /app/activity
func (h *PageHandler) Activity(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, ComponentActivity)
}

// RecordActivityRequest represents the request body for recording an event
type RecordActivityRequest struct {
	Action string `json:"action" validate:"required,min=1,max=64"`
}

// RecordActivity handles POST /app/activity
func (h *PageHandler) RecordActivity(w http.ResponseWriter, r *http.Request) {
	var req RecordActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, "Validation error: "+err.Error())
		return
	}

	userID, ok := common.GetUserID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, "Unauthorized")
		return
	}

	event := h.activity.Record(r.Context(), userID, req.Action)
	h.logger.Info("Activity recorded",
		zap.String("event_id", event.ID),
		zap.String("action", event.Action),
	)

	// Answer with a fresh render of the page the form lives on
	h.renderer.Render(w, r, ComponentActivity)
}
