package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/seansissman/streak-club/internal/httpx"
	"github.com/seansissman/streak-club/internal/service"
	"github.com/seansissman/streak-club/internal/validation"
)

// AdminHandler exposes the moderator-only surface: config edits, community
// resets, stats drift repair and the dev clock.
type AdminHandler struct {
	challengeService *service.ChallengeService
}

func NewAdminHandler(challengeService *service.ChallengeService) *AdminHandler {
	return &AdminHandler{challengeService: challengeService}
}

func (h *AdminHandler) SetConfig(c *fiber.Ctx) error {
	communityID, err := communityParam(c)
	if err != nil {
		return httpx.BadRequest(c, "invalid_community", err.Error())
	}

	var input service.ConfigInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	cfg, err := h.challengeService.SetConfig(communityID, input)
	if err != nil {
		var invalid *validation.Error
		switch {
		case errors.Is(err, service.ErrConfirmRequired):
			return httpx.Conflict(c, "confirm_required",
				"Changing templates on a live challenge requires confirm_template_change")
		case errors.As(err, &invalid):
			return httpx.BadRequest(c, "validation_failed", invalid.Error())
		default:
			return httpx.Internal(c, "set_config_failed")
		}
	}
	return c.JSON(cfg)
}

func (h *AdminHandler) Reset(c *fiber.Ctx) error {
	communityID, err := communityParam(c)
	if err != nil {
		return httpx.BadRequest(c, "invalid_community", err.Error())
	}

	generation, err := h.challengeService.Reset(communityID)
	if err != nil {
		return httpx.Internal(c, "reset_failed")
	}
	return c.JSON(fiber.Map{"generation": generation})
}

func (h *AdminHandler) RepairStats(c *fiber.Ctx) error {
	communityID, err := communityParam(c)
	if err != nil {
		return httpx.BadRequest(c, "invalid_community", err.Error())
	}

	result, err := h.challengeService.RepairStats(communityID)
	if err != nil {
		return httpx.Internal(c, "repair_failed")
	}
	return c.JSON(result)
}

type devClockInput struct {
	OffsetSeconds int64 `json:"offset_seconds"`
}

func (h *AdminHandler) SetDevClock(c *fiber.Ctx) error {
	communityID, err := communityParam(c)
	if err != nil {
		return httpx.BadRequest(c, "invalid_community", err.Error())
	}

	var input devClockInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	if err := h.challengeService.SetDevTimeOffset(communityID, input.OffsetSeconds); err != nil {
		return httpx.Internal(c, "set_dev_clock_failed")
	}

	snapshot, err := h.challengeService.Now(communityID)
	if err != nil {
		return httpx.Internal(c, "set_dev_clock_failed")
	}
	return c.JSON(snapshot)
}
