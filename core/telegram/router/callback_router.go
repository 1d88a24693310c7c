package router

import (
	"log/slog"
	"time"

	tg "github.com/9304065865a/podolog/core/telegram"
	"github.com/9304065865a/podolog/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// CallbackOptions supplies a fallback for unknown callback keys when the
// registry has none.
type CallbackOptions struct {
	NotFound tele.HandlerFunc
}

// CallbackRoute routes every inline button press through the registry. The
// callback query is answered up front so the client spinner clears even if
// the handler is slow.
func CallbackRoute(reg *tg.Registry, opts CallbackOptions) tg.Route {
	handler := func(c tele.Context) error {
		cb := c.Callback()
		if cb == nil {
			return nil
		}
		start := time.Now()

		key, _ := parseCallback(cb)
		name := "callback." + normalizeHandlerName(key)

		_ = c.Respond()

		if h, ok := reg.GetCallback(key); ok && h != nil {
			return handleWithSummary(c, name, start, "", "", func() error {
				return h(c)
			}, slog.String("cb_key", key))
		}

		fallback := reg.CallbackNotFound()
		if fallback == nil {
			fallback = opts.NotFound
		}
		return handleWithSummary(c, name, start, "", "", func() error {
			if fallback != nil {
				return fallback(c)
			}
			return nil
		}, slog.String("cb_key", key), slog.String("reason", "not_found"))
	}

	return tg.Route{
		Endpoint: tele.OnCallback,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}
