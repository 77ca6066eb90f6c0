package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Access is the protection a route gets when mounted. The zero value is not a
// valid level, so a route that forgets to declare one fails to mount.
type Access int

const (
	// Public routes are reachable without a session. Only safe methods
	// (GET, HEAD, OPTIONS) may be public.
	Public Access = iota + 1
	// PublicWrite is the named exemption for the few mutating routes an
	// anonymous visitor must reach: login and the contact form.
	PublicWrite
	// Gated routes require a valid session.
	Gated
	// Admin routes require a valid session whose claims carry isAdmin.
	Admin
)

func (a Access) String() string {
	switch a {
	case Public:
		return "public"
	case PublicWrite:
		return "public-write"
	case Gated:
		return "gated"
	case Admin:
		return "admin"
	default:
		return fmt.Sprintf("access(%d)", int(a))
	}
}

type route struct {
	method  string
	path    string
	access  Access
	handler gin.HandlerFunc
}

// routes is the whole HTTP surface. Every endpoint is declared here and
// nowhere else.
func (s *Server) routes() []route {
	return []route{
		{http.MethodPost, "/api/login", PublicWrite, s.login},
		{http.MethodGet, "/api/verify", Public, s.verify},
		{http.MethodGet, "/api/logout", Public, s.logout},
		{http.MethodPost, "/api/register", Admin, s.register},

		{http.MethodGet, "/api/sermons", Public, s.listSermons},
		{http.MethodGet, "/api/sermons/data", Public, s.sermonIndex},
		{http.MethodPost, "/api/sermons", Gated, s.createSermon},
		{http.MethodPut, "/api/sermons/:id", Gated, s.updateSermon},
		{http.MethodDelete, "/api/sermons/:id", Gated, s.deleteSermon},

		{http.MethodGet, "/api/speakers", Public, s.listSpeakers},
		{http.MethodPost, "/api/speakers", Gated, s.createSpeaker},
		{http.MethodDelete, "/api/speakers/:id", Gated, s.deleteSpeaker},

		{http.MethodGet, "/api/series", Public, s.listSeries},
		{http.MethodPost, "/api/series", Gated, s.createSeries},
		{http.MethodDelete, "/api/series/:id", Gated, s.deleteSeries},

		{http.MethodGet, "/api/events", Public, s.listEvents},
		{http.MethodPost, "/api/events", Gated, s.createEvent},
		{http.MethodDelete, "/api/events/:id", Gated, s.deleteEvent},

		{http.MethodPost, "/api/contact", PublicWrite, s.contact},
		{http.MethodGet, "/api/messages", Gated, s.listMessages},

		{http.MethodPost, "/api/media", Gated, s.uploadMedia},
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}

// mount registers routes on r, putting gate (and the admin check) in front
// of every route that needs it.
func mount(r gin.IRoutes, routes []route, gate gin.HandlerFunc) error {
	for _, rt := range routes {
		var chain []gin.HandlerFunc

		switch rt.access {
		case Public:
			if !isSafeMethod(rt.method) {
				return fmt.Errorf("route %s %s: %s method cannot be public", rt.method, rt.path, rt.method)
			}
			chain = []gin.HandlerFunc{rt.handler}
		case PublicWrite:
			chain = []gin.HandlerFunc{rt.handler}
		case Gated:
			chain = []gin.HandlerFunc{gate, rt.handler}
		case Admin:
			chain = []gin.HandlerFunc{gate, requireAdmin, rt.handler}
		default:
			return fmt.Errorf("route %s %s: unknown %s", rt.method, rt.path, rt.access)
		}

		if rt.handler == nil {
			return fmt.Errorf("route %s %s: nil handler", rt.method, rt.path)
		}
		r.Handle(rt.method, rt.path, chain...)
	}
	return nil
}
