package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/seansissman/streak-club/internal/httpx"
	"github.com/seansissman/streak-club/internal/service"
	"github.com/seansissman/streak-club/internal/streak"
	"github.com/seansissman/streak-club/internal/validation"
)

type ChallengeHandler struct {
	challengeService *service.ChallengeService
}

func NewChallengeHandler(challengeService *service.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{challengeService: challengeService}
}

func communityParam(c *fiber.Ctx) (string, error) {
	id := validation.NormalizeCommunityID(c.Params("community"))
	if err := validation.ValidateCommunityID(id); err != nil {
		return "", err
	}
	return id, nil
}

type joinInput struct {
	Privacy string `json:"privacy"`
}

func (h *ChallengeHandler) Join(c *fiber.Ctx) error {
	communityID, err := communityParam(c)
	if err != nil {
		return httpx.BadRequest(c, "invalid_community", err.Error())
	}
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	var input joinInput
	_ = c.BodyParser(&input)
	if input.Privacy != "" {
		if err := validation.ValidatePrivacy(input.Privacy); err != nil {
			return httpx.BadRequest(c, "invalid_privacy", err.Error())
		}
	}

	state, err := h.challengeService.Join(communityID, userID, input.Privacy)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"state": state})
}

func (h *ChallengeHandler) CheckIn(c *fiber.Ctx) error {
	communityID, err := communityParam(c)
	if err != nil {
		return httpx.BadRequest(c, "invalid_community", err.Error())
	}
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	result, err := h.challengeService.CheckIn(communityID, userID)
	if err != nil {
		if errors.Is(err, streak.ErrAlreadyCheckedIn) {
			// Surface the current state so the client can reconcile its UI.
			me, meErr := h.challengeService.Me(communityID, userID)
			body := fiber.Map{
				"error": "Already checked in for today",
				"code":  "already_checked_in",
			}
			if meErr == nil {
				body["state"] = me.State
				body["seconds_until_reset"] = me.SecondsUntilReset
			}
			return c.Status(fiber.StatusConflict).JSON(body)
		}
		return h.mapError(c, err)
	}
	return c.JSON(result)
}

func (h *ChallengeHandler) Me(c *fiber.Ctx) error {
	communityID, err := communityParam(c)
	if err != nil {
		return httpx.BadRequest(c, "invalid_community", err.Error())
	}
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	view, err := h.challengeService.Me(communityID, userID)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(view)
}

type privacyInput struct {
	Privacy string `json:"privacy"`
}

func (h *ChallengeHandler) SetPrivacy(c *fiber.Ctx) error {
	communityID, err := communityParam(c)
	if err != nil {
		return httpx.BadRequest(c, "invalid_community", err.Error())
	}
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	var input privacyInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}
	if err := validation.ValidatePrivacy(input.Privacy); err != nil {
		return httpx.BadRequest(c, "invalid_privacy", err.Error())
	}

	state, err := h.challengeService.SetPrivacy(communityID, userID, input.Privacy)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"state": state})
}

func (h *ChallengeHandler) Leaderboard(c *fiber.Ctx) error {
	communityID, err := communityParam(c)
	if err != nil {
		return httpx.BadRequest(c, "invalid_community", err.Error())
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return httpx.BadRequest(c, "invalid_limit", "Limit must be a positive integer")
		}
	}

	entries, err := h.challengeService.Leaderboard(communityID, limit)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"entries": entries})
}

func (h *ChallengeHandler) Stats(c *fiber.Ctx) error {
	communityID, err := communityParam(c)
	if err != nil {
		return httpx.BadRequest(c, "invalid_community", err.Error())
	}

	stats, err := h.challengeService.Stats(communityID)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(stats)
}

func (h *ChallengeHandler) GetConfig(c *fiber.Ctx) error {
	communityID, err := communityParam(c)
	if err != nil {
		return httpx.BadRequest(c, "invalid_community", err.Error())
	}

	cfg, err := h.challengeService.EnsureConfig(communityID)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(cfg)
}

func (h *ChallengeHandler) mapError(c *fiber.Ctx, err error) error {
	var rateLimited *service.RateLimitedError
	var invalid *validation.Error

	switch {
	case errors.Is(err, service.ErrNotJoined):
		return httpx.Forbidden(c, "not_joined", "Join the challenge first")
	case errors.As(err, &rateLimited):
		return httpx.RateLimited(c, int64(rateLimited.RetryAfter.Seconds())+1)
	case errors.As(err, &invalid):
		return httpx.BadRequest(c, "validation_failed", invalid.Error())
	default:
		return httpx.Internal(c, "challenge_operation_failed")
	}
}
