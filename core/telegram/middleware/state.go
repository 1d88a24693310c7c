package middleware

import (
	"github.com/9304065865a/podolog/core/logger"
	tghelpers "github.com/9304065865a/podolog/core/telegram/helpers"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// StepGetter is the minimal interface required from the conversation store.
type StepGetter interface {
	StepOf(userID int64) string
}

// Step returns a middleware that runs the handler only while the user's
// conversation sits on the expected step. Updates arriving on any other step
// are ignored, so stale keyboards cannot fire out-of-order transitions.
func Step(mgr StepGetter, expected string) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			userID := c.Sender().ID
			current := mgr.StepOf(userID)
			ctx := tghelpers.BuildContext(c)
			if current == expected {
				logger.TG.LogAttrs(ctx, slog.LevelDebug, "fsm.match",
					slog.Int64("user_id", userID),
					slog.String("step", current),
					slog.String("expected", expected),
				)
				return next(c)
			}
			logger.TG.LogAttrs(ctx, slog.LevelDebug, "fsm.skip",
				slog.Int64("user_id", userID),
				slog.String("step", current),
				slog.String("expected", expected),
			)
			return nil
		}
	}
}
