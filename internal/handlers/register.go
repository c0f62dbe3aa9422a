package handlers

import "github.com/ohcnetwork/care-whatsapp/internal/messaging/dispatch"

// RegisterAll wires the shipped handlers into the dispatcher in
// specific-first order. First match wins, so the exact "help" command
// precedes the substring matchers, and the fallback is installed last.
func RegisterAll(d *dispatch.Dispatcher, deps Deps, mode FallbackMode) {
	d.Register(
		HelpHandler{deps},
		MedicationsHandler{deps},
		RecordsHandler{deps},
		ProceduresHandler{deps},
		TokenHandler{deps},
		ScheduleHandler{deps},
		ResourceHandler{deps},
	)
	d.SetFallback(Fallback{Deps: deps, Mode: mode})
}
