package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"conferencecentral/internal/delivery/http/controllers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
)

// RouterDeps bundles what the router needs to serve the API.
type RouterDeps struct {
	Logger         *slog.Logger
	Verifier       domain.TokenVerifier
	AllowedOrigins []string
	Conferences    *controllers.ConferenceController
	Profiles       *controllers.ProfileController
	Sessions       *controllers.SessionController
	// Metrics serves /metrics when set.
	Metrics http.Handler
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(d RouterDeps) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(d.Verifier, d.Logger)

	// Conferences
	mux.HandleFunc("POST /conferences", auth(d.Conferences.CreateConference))
	mux.HandleFunc("GET /conferences/created", auth(d.Conferences.ListCreated))
	mux.HandleFunc("POST /conferences/query", auth(d.Conferences.QueryConferences))
	mux.HandleFunc("GET /conferences/announcement", auth(d.Conferences.GetAnnouncement))
	mux.HandleFunc("GET /conferences/attending", auth(d.Conferences.ListAttending))
	mux.HandleFunc("GET /conferences/{conferenceKey}", auth(d.Conferences.GetConference))
	mux.HandleFunc("PUT /conferences/{conferenceKey}", auth(d.Conferences.UpdateConference))
	mux.HandleFunc("POST /conferences/{conferenceKey}/registration", auth(d.Conferences.Register))
	mux.HandleFunc("DELETE /conferences/{conferenceKey}/registration", auth(d.Conferences.Unregister))

	// Profile
	mux.HandleFunc("GET /profile", auth(d.Profiles.GetProfile))
	mux.HandleFunc("POST /profile", auth(d.Profiles.SaveProfile))

	// Speakers
	mux.HandleFunc("POST /speakers", auth(d.Sessions.CreateSpeaker))
	mux.HandleFunc("GET /speakers/featured", auth(d.Sessions.GetFeaturedSpeaker))
	mux.HandleFunc("GET /conferences/{conferenceKey}/speakers", auth(d.Sessions.ListSpeakers))

	// Sessions
	mux.HandleFunc("POST /sessions", auth(d.Sessions.CreateSession))
	mux.HandleFunc("GET /sessions/location", auth(d.Sessions.ListByLocation))
	mux.HandleFunc("POST /sessions/query", auth(d.Sessions.QuerySessions))
	mux.HandleFunc("GET /sessions/early", auth(d.Sessions.ListEarlySessions))
	mux.HandleFunc("GET /conferences/{conferenceKey}/sessions", auth(d.Sessions.ListByConference))
	mux.HandleFunc("GET /conferences/{conferenceKey}/sessions/type/{sessionType}", auth(d.Sessions.ListByType))

	// Wishlist
	mux.HandleFunc("GET /wishlist", auth(d.Sessions.GetWishlist))
	mux.HandleFunc("POST /wishlist/{sessionKey}", auth(d.Sessions.AddToWishlist))
	mux.HandleFunc("DELETE /wishlist/{sessionKey}", auth(d.Sessions.RemoveFromWishlist))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	if d.Metrics != nil {
		mux.Handle("GET /metrics", d.Metrics)
	}

	return middleware.LoggingMiddleware(d.Logger, middleware.CORS(d.AllowedOrigins, mux))
}
