// Package commands defines the command descriptor shared by the registry
// and routers.
package commands

import (
	tele "gopkg.in/telebot.v4"
)

// Command describes a slash command. AdminOnly and Hidden commands are kept
// out of the published Telegram command menu; Aliases match during lookup
// but are never advertised.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	AdminOnly   bool
	Hidden      bool
	Aliases     []string
}
