package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/cardboard/internal/cards"
	"github.com/cardboard/internal/chat"
)

// ChatSession is the chat surface the handlers drive
type ChatSession interface {
	Turn(ctx context.Context, userText string) (*chat.TurnResult, error)
	Cards() []cards.Card
}

func (s *Server) handleIndex(c echo.Context) error {
	page, err := renderPage(&PageData{
		Title: "Agent App",
		Cards: prepareCardData(s.session.Cards()),
	})
	if err != nil {
		return err
	}
	return c.HTML(http.StatusOK, page)
}

func (s *Server) handleChat(c echo.Context) error {
	userText := strings.TrimSpace(c.FormValue("msg"))
	if userText == "" {
		userText = "(empty)"
	}

	result, err := s.session.Turn(c.Request().Context(), userText)
	if err != nil {
		log.Error().Err(err).Msg("chat turn failed")
		fragment, renderErr := renderExchange(&ExchangeData{
			UserText:   userText,
			AgentText:  "Sorry, something went wrong. Please try again.",
			AgentError: true,
		})
		if renderErr != nil {
			return renderErr
		}
		return c.HTML(http.StatusOK, fragment)
	}

	fragment, err := renderExchange(&ExchangeData{
		UserText:  result.UserText,
		AgentText: result.DisplayText,
		Cards:     prepareCardData(result.Cards),
		SwapCards: result.CardsChanged(),
	})
	if err != nil {
		return err
	}
	return c.HTML(http.StatusOK, fragment)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
