// Package flow routes in-conversation updates to the handler owning the
// user's current step.
package flow

import (
	"sync"

	"log/slog"

	"github.com/9304065865a/podolog/core/logger"
	tghelpers "github.com/9304065865a/podolog/core/telegram/helpers"
	"github.com/9304065865a/podolog/internal/session"

	tele "gopkg.in/telebot.v4"
)

// Router dispatches text and photo updates by conversation step. Conversations
// register their step handlers at wiring time; the message router consults
// InProgress/ManagerHandler per update.
type Router struct {
	sessions *session.Store

	mu     sync.RWMutex
	texts  map[session.Step]tele.HandlerFunc
	photos map[session.Step]tele.HandlerFunc
}

// NewRouter builds a Router over the shared session store.
func NewRouter(sessions *session.Store) *Router {
	return &Router{
		sessions: sessions,
		texts:    make(map[session.Step]tele.HandlerFunc),
		photos:   make(map[session.Step]tele.HandlerFunc),
	}
}

// HandleText registers the text handler for a step.
func (r *Router) HandleText(step session.Step, h tele.HandlerFunc) {
	if h == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.texts[step] = h
}

// HandlePhoto registers the photo handler for a step.
func (r *Router) HandlePhoto(step session.Step, h tele.HandlerFunc) {
	if h == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.photos[step] = h
}

// InProgress reports whether the user has an active conversation.
func (r *Router) InProgress(userID int64) bool {
	return r.sessions.Active(userID)
}

// StepOf exposes the user's current step for step-gating middleware.
func (r *Router) StepOf(userID int64) string {
	sess, ok := r.sessions.Get(userID)
	if !ok {
		return ""
	}
	return string(sess.Step)
}

// ManagerHandler executes the handler registered for the user's current step.
// Updates with no matching handler are dropped; the step's own prompt stays
// on screen.
func (r *Router) ManagerHandler(c tele.Context) error {
	userID := c.Sender().ID
	sess, ok := r.sessions.Get(userID)
	if !ok {
		return nil
	}

	isPhoto := c.Message() != nil && c.Message().Photo != nil

	r.mu.RLock()
	table := r.texts
	if isPhoto {
		table = r.photos
	}
	h := table[sess.Step]
	r.mu.RUnlock()

	ctx := tghelpers.BuildContext(c)
	logger.Debug(ctx, "tg", "fsm.dispatch",
		slog.Int64("user_id", userID),
		slog.String("kind", string(sess.Kind)),
		slog.String("step", string(sess.Step)),
		slog.Bool("photo", isPhoto),
	)

	if h == nil {
		return nil
	}
	return h(c)
}
