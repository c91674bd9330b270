package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"idlescape/internal/app/history"
	"idlescape/internal/app/play"
	"idlescape/internal/app/ports"
	"idlescape/internal/app/status"
	"idlescape/internal/domain/game"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// userIDHeader carries the id of the already authenticated user; the
// gateway in front of the server owns authentication.
const userIDHeader = "X-User-ID"

type Handler struct {
	Play      *play.Manager
	StatusUC  status.UseCase
	RosterUC  status.RosterUseCase
	HistoryUC history.UseCase
	KPI       kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	characters := s.Group("/api/characters")
	characters.GET("", h.listCharacters)
	characters.POST("", h.createCharacter)
	characters.GET("/:id", h.characterStatus)
	characters.GET("/:id/history", h.characterHistory)
	characters.POST("/:id/load", h.loadCharacter)

	session := s.Group("/api/session")
	session.GET("", h.observe)
	session.GET("/actions", h.actions)
	session.POST("/start", h.start)
	session.POST("/stop", h.stop)
	session.POST("/offline", h.claimOffline)
	session.POST("/equip", h.equip)
	session.POST("/close", h.closeSession)

	slayer := s.Group("/api/slayer")
	slayer.POST("/task", h.newSlayerTask)
	slayer.POST("/complete", h.completeSlayerTask)
	slayer.POST("/cancel", h.cancelSlayerTask)

	s.GET("/ops/kpi", h.kpi)
}

type createCharacterRequest struct {
	Name string `json:"name"`
}

type startRequest struct {
	Location string `json:"location"`
	ActionID string `json:"action_id"`
}

type equipRequest struct {
	ItemID  string `json:"item_id"`
	Unequip bool   `json:"unequip,omitempty"`
	Slot    string `json:"slot,omitempty"`
}

type slayerTaskRequest struct {
	Difficulty string `json:"difficulty"`
}

func (h Handler) listCharacters(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	resp, err := h.RosterUC.Execute(c, userID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"characters": resp})
}

func (h Handler) createCharacter(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	var body createCharacterRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	character, err := h.Play.Create(c, play.CreateRequest{OwnerID: userID, Name: body.Name})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, character)
}

func (h Handler) characterStatus(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	resp, err := h.StatusUC.Execute(c, status.Request{OwnerID: userID, CharacterID: ctx.Param("id")})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) characterHistory(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	characterID := ctx.Param("id")
	// ownership check; history rows are keyed by character only
	if _, err := h.StatusUC.Execute(c, status.Request{OwnerID: userID, CharacterID: characterID}); err != nil {
		writeError(ctx, err)
		return
	}
	limit, _ := strconv.Atoi(ctx.Query("limit"))
	resp, err := h.HistoryUC.Execute(c, history.Request{
		CharacterID:  characterID,
		Limit:        limit,
		OccurredFrom: unixQuery(ctx, "occurred_from"),
		OccurredTo:   unixQuery(ctx, "occurred_to"),
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) loadCharacter(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	resp, err := h.Play.Load(c, play.LoadRequest{OwnerID: userID, CharacterID: ctx.Param("id")})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) observe(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	resp, err := h.Play.Observe(c, userID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) actions(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	resp, err := h.Play.Actions(c, userID, ctx.Query("location"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"actions": resp})
}

func (h Handler) start(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	var body startRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.Play.Start(c, play.StartRequest{OwnerID: userID, Location: body.Location, ActionID: body.ActionID})
	if err != nil {
		if writeActionRejectedFromErr(ctx, err) {
			return
		}
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) stop(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	resp, err := h.Play.Stop(c, userID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) claimOffline(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	rewards, err := h.Play.ClaimOffline(c, userID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"rewards": rewards})
}

func (h Handler) equip(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	var body equipRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.Play.Equip(c, play.EquipRequest{
		OwnerID: userID,
		ItemID:  game.ItemID(body.ItemID),
		Unequip: body.Unequip,
		Slot:    game.EquipmentSlot(body.Slot),
	})
	if err != nil {
		if writeActionRejectedFromErr(ctx, err) {
			return
		}
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) closeSession(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	if err := h.Play.Close(c, userID); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.SetStatusCode(consts.StatusNoContent)
}

func (h Handler) newSlayerTask(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	var body slayerTaskRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if body.Difficulty == "" {
		body.Difficulty = string(game.DifficultyEasy)
	}
	resp, err := h.Play.NewSlayerTask(c, play.SlayerRequest{OwnerID: userID, Difficulty: game.Difficulty(body.Difficulty)})
	h.writeSlayer(ctx, resp, err)
}

func (h Handler) completeSlayerTask(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	resp, err := h.Play.CompleteSlayerTask(c, userID)
	h.writeSlayer(ctx, resp, err)
}

func (h Handler) cancelSlayerTask(c context.Context, ctx *app.RequestContext) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	resp, err := h.Play.CancelSlayerTask(c, userID)
	h.writeSlayer(ctx, resp, err)
}

func (h Handler) writeSlayer(ctx *app.RequestContext, resp play.SlayerResponse, err error) {
	if err != nil {
		if writeActionRejectedFromErr(ctx, err) {
			return
		}
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

// unixQuery parses a unix seconds query parameter; absent or bad is zero.
func unixQuery(ctx *app.RequestContext, key string) time.Time {
	v, err := strconv.ParseInt(ctx.Query(key), 10, 64)
	if err != nil || v <= 0 {
		return time.Time{}
	}
	return time.Unix(v, 0).UTC()
}

var ErrMissingUserID = errors.New("missing x-user-id header")

func requireUser(ctx *app.RequestContext) (string, bool) {
	userID := strings.TrimSpace(string(ctx.GetHeader(userIDHeader)))
	if userID == "" {
		writeError(ctx, ErrMissingUserID)
		return "", false
	}
	return userID, true
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, ErrMissingUserID):
		writeErrorBody(ctx, consts.StatusUnauthorized, "missing_user_id", err.Error())
	case errors.Is(err, play.ErrNoActiveSession):
		writeErrorBody(ctx, consts.StatusConflict, "no_active_session", err.Error())
	case errors.Is(err, play.ErrInvalidRequest),
		errors.Is(err, status.ErrInvalidRequest),
		errors.Is(err, history.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	case errors.Is(err, game.ErrCorruptedCharacterReference):
		writeErrorBody(ctx, consts.StatusConflict, "corrupted_character_reference", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

// writeActionRejectedFromErr renders engine rejections. It reports false for
// errors that are not gameplay rejections.
func writeActionRejectedFromErr(ctx *app.RequestContext, err error) bool {
	var reqErr *game.RequirementError
	switch {
	case errors.As(err, &reqErr):
		r := reqErr.Requirement
		details := map[string]any{"kind": string(r.Kind)}
		switch r.Kind {
		case game.RequirementLevel:
			details["skill"] = string(r.Skill)
			details["level"] = r.Level
		case game.RequirementItem:
			details["item_id"] = string(r.ItemID)
			details["quantity"] = r.Quantity
		case game.RequirementEquipment:
			details["item_id"] = string(r.ItemID)
			if r.Slot != "" {
				details["slot"] = string(r.Slot)
			}
		}
		writeActionRejected(ctx, consts.StatusConflict, "requirement_not_met", err.Error(), []string{r.String()}, details)
		return true
	case errors.Is(err, game.ErrUnknownAction):
		writeActionRejected(ctx, consts.StatusNotFound, "unknown_action", err.Error(), []string{"UNKNOWN_ACTION"}, nil)
		return true
	case errors.Is(err, game.ErrActionNotRunnable):
		writeActionRejected(ctx, consts.StatusConflict, "action_not_runnable", err.Error(), []string{"NOT_RUNNABLE"}, nil)
		return true
	case errors.Is(err, game.ErrInsufficientResources):
		writeActionRejected(ctx, consts.StatusConflict, "insufficient_resources", err.Error(), []string{"INSUFFICIENT_RESOURCES"}, nil)
		return true
	case errors.Is(err, game.ErrNotEquippable):
		writeActionRejected(ctx, consts.StatusConflict, "not_equippable", err.Error(), []string{"NOT_EQUIPPABLE"}, nil)
		return true
	case errors.Is(err, game.ErrInvalidTaskState):
		writeActionRejected(ctx, consts.StatusConflict, "invalid_task_state", err.Error(), []string{"INVALID_TASK_STATE"}, nil)
		return true
	default:
		return false
	}
}

func writeActionRejected(ctx *app.RequestContext, status int, code, message string, blockedBy []string, details map[string]any) {
	ctx.JSON(status, map[string]any{
		"result_code": "REJECTED",
		"error": map[string]any{
			"code":       code,
			"message":    message,
			"blocked_by": blockedBy,
			"details":    details,
		},
	})
}
