package contracts

import "github.com/julienschmidt/httprouter"

// Handler is one domain's HTTP surface. The application mounts every
// handler on a single router under /api/v1, so route paths must be unique
// across slots, bookings, settings and the admin dashboard.
type Handler interface {
	RegisterRoutes(router *httprouter.Router)
}
