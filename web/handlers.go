package web

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/nmaupu/cocktails/catalog"
	"github.com/nmaupu/cocktails/errors"
	"github.com/nmaupu/cocktails/health"
	"github.com/nmaupu/cocktails/live"
	"github.com/nmaupu/cocktails/menu"
)

// serviceName appears in the health response body and as the aggregate
// component name.
const serviceName = "cocktail-menu"

type indexData struct {
	Groups []menu.Group
}

type loginData struct {
	Error string
}

type adminData struct {
	Groups      []menu.Group
	Ingredients []string
	States      map[string]bool
}

// toggleRequest is the JSON body of both toggle endpoints
type toggleRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	items, err := s.toggler.Items(r.Context())
	if err != nil {
		s.writeError(w, r, "web", err)
		return
	}
	s.render(w, http.StatusOK, "index.html", indexData{Groups: menu.GroupByAlcohol(items)})
}

// handleHealth serves the container liveness/readiness probe. The catalog
// file is re-verified on every probe so a deleted or corrupted file flips
// the service unhealthy; backend checks come from the background monitor.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := catalog.Verify(s.cfg.CatalogPath); err != nil {
		s.writeJSONStatus(w, http.StatusServiceUnavailable, map[string]any{
			"status": "unhealthy",
			"error":  health.FromError("catalog", err).Message,
		})
		return
	}

	if s.monitor != nil {
		if agg := s.monitor.AggregateHealth(serviceName); agg.IsUnhealthy() {
			msg := agg.Message
			for _, sub := range agg.SubStatuses {
				if sub.IsUnhealthy() {
					msg = sub.Component + ": " + sub.Message
					break
				}
			}
			s.writeJSONStatus(w, http.StatusServiceUnavailable, map[string]any{
				"status": "unhealthy",
				"error":  msg,
			})
			return
		}
	}

	s.writeJSON(w, map[string]any{
		"status":  "healthy",
		"service": serviceName,
	})
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "login.html", loginData{})
}

func (s *Server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if s.limiter != nil && !s.limiter.Allow(clientHost(r)) {
		s.logger.Warn("login rate limited",
			"remote", clientHost(r),
			"request_id", requestIDFrom(r.Context()))
		s.render(w, http.StatusTooManyRequests, "login.html",
			loginData{Error: "Too many attempts, try again later"})
		return
	}

	password := r.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.AdminPassword)) != 1 {
		s.logger.Warn("login rejected",
			"remote", clientHost(r),
			"request_id", requestIDFrom(r.Context()))
		s.render(w, http.StatusUnauthorized, "login.html",
			loginData{Error: "Incorrect password"})
		return
	}

	if err := s.sessions.Issue(r.Context(), w); err != nil {
		s.logger.Error("issue session",
			"error", err,
			"request_id", requestIDFrom(r.Context()))
		s.render(w, http.StatusServiceUnavailable, "login.html",
			loginData{Error: "Login temporarily unavailable"})
		return
	}

	http.Redirect(w, r, "/admin", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.Destroy(r.Context(), w, r)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleAdmin(w http.ResponseWriter, r *http.Request) {
	items, err := s.toggler.Items(r.Context())
	if err != nil {
		s.writeError(w, r, "web", err)
		return
	}
	states, err := s.toggler.IngredientStates(r.Context())
	if err != nil {
		s.writeError(w, r, "web", err)
		return
	}
	s.render(w, http.StatusOK, "admin.html", adminData{
		Groups:      menu.GroupByAlcohol(items),
		Ingredients: s.toggler.Catalog().AllIngredients(),
		States:      states,
	})
}

// handleState serves the public name→enabled map polled by menu pages
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	items, err := s.toggler.Items(r.Context())
	if err != nil {
		s.writeError(w, r, "web", err)
		return
	}
	s.writeJSON(w, menu.StateView(items))
}

func (s *Server) handleToggleIngredient(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSONError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		s.writeJSONError(w, "Ingredient name is required", http.StatusBadRequest)
		return
	}

	available, err := s.toggler.ToggleIngredient(r.Context(), req.Name)
	if err != nil {
		s.writeError(w, r, "web", err)
		return
	}

	if s.metrics != nil {
		s.metrics.RecordToggle("ingredient")
	}
	if s.hub != nil {
		s.hub.Broadcast(live.IngredientEvent(req.Name, available))
	}
	s.logger.Info("ingredient toggled",
		"ingredient", req.Name,
		"available", available,
		"request_id", requestIDFrom(r.Context()))

	s.writeJSON(w, map[string]any{
		"success":   true,
		"available": available,
	})
}

func (s *Server) handleToggleCocktail(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSONError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		s.writeJSONError(w, "Cocktail name is required", http.StatusBadRequest)
		return
	}

	enabled, err := s.toggler.ToggleCocktail(r.Context(), req.Name)
	if err != nil {
		if errors.IsNotFound(err) {
			s.writeJSONError(w, "Cocktail not found", http.StatusNotFound)
			return
		}
		s.writeError(w, r, "web", err)
		return
	}

	if s.metrics != nil {
		s.metrics.RecordToggle("cocktail")
	}
	if s.hub != nil {
		s.hub.Broadcast(live.CocktailEvent(req.Name, enabled))
	}
	s.logger.Info("cocktail override toggled",
		"cocktail", req.Name,
		"enabled", enabled,
		"request_id", requestIDFrom(r.Context()))

	s.writeJSON(w, map[string]any{
		"success":     true,
		"enabled":     enabled,
		"is_override": true,
	})
}
