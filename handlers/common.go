package handlers

import (
	"gymhub/lifecycle"
	"gymhub/mailer"
	"gymhub/media"
	"gymhub/motivation"
	"gymhub/notify"
	"gymhub/push"
)

// Deps are the services the handlers lean on, constructed once in main.
type Deps struct {
	Media      media.Store
	Ledger     *lifecycle.Ledger
	Notifier   *notify.Service
	Motivation *motivation.Service
	Push       *push.Service
	Mailer     mailer.Mailer
}

var deps Deps

// Configure wires the handler package. Must run before the router
// serves traffic.
func Configure(d Deps) {
	deps = d
}
