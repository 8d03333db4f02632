package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"docbot/internal/digest"
	"docbot/internal/fetch"
	"docbot/internal/onboarding"
	"docbot/internal/profile"
	"docbot/internal/store"
)

// ChatMessage is the inbound webhook payload from the chat platform.
type ChatMessage struct {
	Text     string `json:"text"`
	UserName string `json:"user_name"`
}

// ChatReply is what the chat platform renders back to the user.
type ChatReply struct {
	Text    string         `json:"text"`
	Results []digest.Entry `json:"results,omitempty"`
}

type ChatHandler struct {
	Profiles profile.Store
	Engine   *digest.Engine
	Runs     *store.Store // optional run history; nil disables recording
	Fetcher  *fetch.Fetcher
	Logger   *log.Logger
}

// chat is the main webhook route: restart, weekly update, onboarding, or
// the onboarded fallthrough, in that order.
func (h *ChatHandler) chat(c echo.Context) error {
	var msg ChatMessage
	if err := c.Bind(&msg); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	user := msg.UserName
	if user == "" {
		user = "Unknown"
	}
	text := strings.TrimSpace(msg.Text)
	ctx := c.Request().Context()

	if strings.Contains(strings.ToLower(text), "restart") {
		p := profile.New(user)
		if err := h.Profiles.Put(ctx, p); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, ChatReply{Text: "Restarted onboarding. " + onboarding.Start()})
	}

	p, err := h.Profiles.Get(ctx, user)
	if errors.Is(err, profile.ErrNotFound) {
		p = profile.New(user)
		if err := h.Profiles.Put(ctx, p); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, ChatReply{Text: onboarding.Start()})
	}
	if err != nil {
		return err
	}

	if strings.EqualFold(text, "weekly update") {
		if !p.Onboarded() {
			return c.JSON(http.StatusOK, ChatReply{Text: "Please complete onboarding before requesting a weekly update."})
		}
		d, err := h.runDigest(ctx, p)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, ChatReply{Text: d.Text, Results: d.Results})
	}

	if p.Stage != profile.StageDone {
		reply, updated := onboarding.Advance(p, text)
		if err := h.Profiles.Put(ctx, updated); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, ChatReply{Text: reply})
	}

	return c.JSON(http.StatusOK, ChatReply{Text: "You're fully onboarded. Type 'weekly update' to get your update."})
}

// triggerDigest generates a digest for a user outside the chat flow.
func (h *ChatHandler) triggerDigest(c echo.Context) error {
	ctx := c.Request().Context()
	p, err := h.Profiles.Get(ctx, c.Param("user"))
	if errors.Is(err, profile.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return err
	}
	if !p.Onboarded() {
		return echo.NewHTTPError(http.StatusConflict, "user has not completed onboarding")
	}
	d, err := h.runDigest(ctx, p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

// preview returns extracted page text for a digest link.
func (h *ChatHandler) preview(c echo.Context) error {
	pageURL := c.QueryParam("url")
	if pageURL == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "url query parameter required")
	}
	text, err := h.Fetcher.PageText(c.Request().Context(), pageURL)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"url": pageURL, "text": text})
}

func (h *ChatHandler) runDigest(ctx context.Context, p profile.Profile) (digest.Digest, error) {
	var runID string
	if h.Runs != nil {
		id, err := h.Runs.CreateRun(ctx, p.UserID)
		if err != nil {
			h.Logger.Printf("failed to record run for %s: %v", p.UserID, err)
		} else {
			runID = id
		}
	}

	d, err := h.Engine.WeeklyUpdate(ctx, p)
	if runID != "" {
		status, errMsg := store.RunStatusSucceeded, (*string)(nil)
		if err != nil {
			s := err.Error()
			status, errMsg = store.RunStatusFailed, &s
		}
		if ferr := h.Runs.FinishRun(ctx, runID, status, d.Text, errMsg); ferr != nil {
			h.Logger.Printf("failed to finish run %s: %v", runID, ferr)
		}
	}
	if err != nil {
		return digest.Digest{}, err
	}
	observeDigest(d)
	return d, nil
}
