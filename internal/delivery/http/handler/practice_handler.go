package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/juniortalk/juniortalk-be/internal/delivery/http/domain"
	"github.com/juniortalk/juniortalk-be/internal/delivery/http/entity"
	"github.com/juniortalk/juniortalk-be/internal/delivery/http/usecase"
	"github.com/juniortalk/juniortalk-be/internal/pkg/response"
	"github.com/juniortalk/juniortalk-be/internal/pkg/validate"
	"github.com/sirupsen/logrus"
)

type (
	PracticeHandler interface {
		ListScenarios(ctx *fiber.Ctx) error
		StartSession(ctx *fiber.Ctx) error
		GetSession(ctx *fiber.Ctx) error
		SendMessage(ctx *fiber.Ctx) error
		RestartSession(ctx *fiber.Ctx) error
		ExitSession(ctx *fiber.Ctx) error
		SpeechClip(ctx *fiber.Ctx) error
		GetStats(ctx *fiber.Ctx) error
	}

	practiceHandler struct {
		validator *validate.Validator
		logger    *logrus.Logger
		usecase   usecase.PracticeUsecase
	}
)

func NewPracticeHandler(validator *validate.Validator, logger *logrus.Logger, usecase usecase.PracticeUsecase) PracticeHandler {
	return &practiceHandler{
		validator: validator,
		logger:    logger,
		usecase:   usecase,
	}
}

// GET /scenarios
func (h *practiceHandler) ListScenarios(ctx *fiber.Ctx) error {
	scenarios, err := h.usecase.ListScenarios(ctx.UserContext())
	if err != nil {
		return response.NewFailed(domain.SCENARIO_LIST_FAILED, fiber.NewError(fiber.StatusInternalServerError, err.Error()), h.logger).Send(ctx)
	}

	return response.NewSuccess(domain.SCENARIO_LIST_SUCCESS, scenarios, nil).Send(ctx)
}

// POST /practice/sessions
func (h *practiceHandler) StartSession(ctx *fiber.Ctx) error {
	var req entity.StartSessionRequest

	if err := h.validator.ParseAndValidate(ctx, &req); err != nil {
		return response.NewFailed(domain.PRACTICE_SESSION_START_FAILED, fiber.NewError(fiber.StatusBadRequest, err.Error()), h.logger).Send(ctx)
	}

	session, err := h.usecase.StartSession(ctx.UserContext(), &req)
	if err != nil {
		return response.NewFailed(domain.PRACTICE_SESSION_START_FAILED, fiber.NewError(fiber.StatusBadRequest, err.Error()), h.logger).Send(ctx)
	}

	return response.NewSuccess(domain.PRACTICE_SESSION_START_SUCCESS, session, nil).Send(ctx)
}

// GET /practice/sessions/:session_id
func (h *practiceHandler) GetSession(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("session_id")
	if sessionID == "" {
		return response.NewFailed(domain.PRACTICE_SESSION_GET_FAILED, fiber.NewError(fiber.StatusBadRequest, "session_id is required"), h.logger).Send(ctx)
	}

	session, err := h.usecase.GetSession(ctx.UserContext(), sessionID)
	if err != nil {
		return response.NewFailed(domain.PRACTICE_SESSION_GET_FAILED, sessionError(err), h.logger).Send(ctx)
	}

	return response.NewSuccess(domain.PRACTICE_SESSION_GET_SUCCESS, session, nil).Send(ctx)
}

// POST /practice/sessions/:session_id/messages
func (h *practiceHandler) SendMessage(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("session_id")
	if sessionID == "" {
		return response.NewFailed(domain.PRACTICE_SEND_MESSAGE_FAILED, fiber.NewError(fiber.StatusBadRequest, "session_id is required"), h.logger).Send(ctx)
	}

	var req entity.SendMessageRequest
	if err := h.validator.ParseAndValidate(ctx, &req); err != nil {
		return response.NewFailed(domain.PRACTICE_SEND_MESSAGE_FAILED, fiber.NewError(fiber.StatusBadRequest, err.Error()), h.logger).Send(ctx)
	}

	session, err := h.usecase.SendMessage(ctx.UserContext(), sessionID, req.Message)
	if err != nil {
		return response.NewFailed(domain.PRACTICE_SEND_MESSAGE_FAILED, sessionError(err), h.logger).Send(ctx)
	}

	return response.NewSuccess(domain.PRACTICE_SEND_MESSAGE_SUCCESS, session, nil).Send(ctx)
}

// POST /practice/sessions/:session_id/restart
func (h *practiceHandler) RestartSession(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("session_id")
	if sessionID == "" {
		return response.NewFailed(domain.PRACTICE_SESSION_RESTART_FAILED, fiber.NewError(fiber.StatusBadRequest, "session_id is required"), h.logger).Send(ctx)
	}

	session, err := h.usecase.RestartSession(ctx.UserContext(), sessionID)
	if err != nil {
		return response.NewFailed(domain.PRACTICE_SESSION_RESTART_FAILED, sessionError(err), h.logger).Send(ctx)
	}

	return response.NewSuccess(domain.PRACTICE_SESSION_RESTART_SUCCESS, session, nil).Send(ctx)
}

// DELETE /practice/sessions/:session_id
func (h *practiceHandler) ExitSession(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("session_id")
	if sessionID == "" {
		return response.NewFailed(domain.PRACTICE_SESSION_EXIT_FAILED, fiber.NewError(fiber.StatusBadRequest, "session_id is required"), h.logger).Send(ctx)
	}

	if err := h.usecase.ExitSession(ctx.UserContext(), sessionID); err != nil {
		return response.NewFailed(domain.PRACTICE_SESSION_EXIT_FAILED, sessionError(err), h.logger).Send(ctx)
	}

	return response.NewSuccess(domain.PRACTICE_SESSION_EXIT_SUCCESS, nil, nil).Send(ctx)
}

// GET /practice/sessions/:session_id/turns/:turn_id/speech
func (h *practiceHandler) SpeechClip(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("session_id")
	turnID := ctx.Params("turn_id")
	if sessionID == "" || turnID == "" {
		return response.NewFailed(domain.PRACTICE_SPEECH_FAILED, fiber.NewError(fiber.StatusBadRequest, "session_id and turn_id are required"), h.logger).Send(ctx)
	}

	path, err := h.usecase.SpeechClipPath(ctx.UserContext(), sessionID, turnID)
	if err != nil {
		return response.NewFailed(domain.PRACTICE_SPEECH_FAILED, sessionError(err), h.logger).Send(ctx)
	}

	ctx.Set(fiber.HeaderContentType, "audio/mpeg")
	return ctx.SendFile(path)
}

// GET /stats
func (h *practiceHandler) GetStats(ctx *fiber.Ctx) error {
	return response.NewSuccess(domain.STATS_GET_SUCCESS, h.usecase.Stats(ctx.UserContext()), nil).Send(ctx)
}

// sessionError maps usecase sentinels to HTTP status codes.
func sessionError(err error) *fiber.Error {
	switch {
	case errors.Is(err, usecase.ErrSessionNotFound), errors.Is(err, usecase.ErrTurnNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, usecase.ErrSessionBusy), errors.Is(err, usecase.ErrSessionFinished):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, usecase.ErrTurnFailed), errors.Is(err, usecase.ErrStaleReply):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	default:
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
}
