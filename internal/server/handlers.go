package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/domain"
)

type valueBody struct {
	Value string `json:"value"`
}

type statusBody struct {
	Implemented bool `json:"implemented"`
}

type rangeBody struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type filterBody struct {
	Query string               `json:"query"`
	Type  domain.ApplianceType `json:"type"`
}

func (s *Server) dashboardRoutes(r chi.Router) {
	const name = "dashboard"
	d := s.screens.Dashboard

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) { s.respond(w, name, nil) })
	r.Post("/reload", func(w http.ResponseWriter, _ *http.Request) {
		d.Activate(s.baseContext())
		s.respond(w, name, nil)
	})
	r.Put("/interval", func(w http.ResponseWriter, r *http.Request) {
		var in valueBody
		err := decodeJSON(r, &in)
		if err == nil {
			err = d.SetHistoryInterval(domain.HistoryInterval(in.Value))
		}
		s.respond(w, name, err)
	})
	r.Put("/period", func(w http.ResponseWriter, r *http.Request) {
		var in valueBody
		err := decodeJSON(r, &in)
		if err == nil {
			err = d.SetBreakdownPeriod(domain.BreakdownPeriod(in.Value))
		}
		s.respond(w, name, err)
	})
	r.Post("/appliances/{id}/toggle", func(w http.ResponseWriter, r *http.Request) {
		s.respond(w, name, d.ToggleAppliance(r.Context(), chi.URLParam(r, "id")))
	})
	r.Put("/recommendations/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		var in statusBody
		err := decodeJSON(r, &in)
		if err == nil {
			err = d.SetRecommendationImplemented(r.Context(), chi.URLParam(r, "id"), in.Implemented)
		}
		s.respond(w, name, err)
	})
}

func (s *Server) usageRoutes(r chi.Router) {
	const name = "usage"
	u := s.screens.Usage

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) { s.respond(w, name, nil) })
	r.Post("/reload", func(w http.ResponseWriter, _ *http.Request) {
		u.Activate(s.baseContext())
		s.respond(w, name, nil)
	})
	r.Put("/interval", func(w http.ResponseWriter, r *http.Request) {
		var in valueBody
		err := decodeJSON(r, &in)
		if err == nil {
			err = u.SetHistoryInterval(domain.HistoryInterval(in.Value))
		}
		s.respond(w, name, err)
	})
	r.Put("/period", func(w http.ResponseWriter, r *http.Request) {
		var in valueBody
		err := decodeJSON(r, &in)
		if err == nil {
			err = u.SetBreakdownPeriod(domain.BreakdownPeriod(in.Value))
		}
		s.respond(w, name, err)
	})
	r.Put("/range", func(w http.ResponseWriter, r *http.Request) {
		var in rangeBody
		err := decodeJSON(r, &in)
		if err == nil {
			err = u.SetDateRange(in.StartDate, in.EndDate)
		}
		s.respond(w, name, err)
	})

	if s.exporter == nil {
		return
	}
	r.Post("/export", func(w http.ResponseWriter, r *http.Request) {
		res, err := s.exporter.Export(r.Context(), u.Snapshot())
		if err != nil {
			s.log.Warn().Err(err).Msg("export failed")
			writeJSON(w, statusFor(err), errorBody{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, res)
	})
	r.Get("/exports", func(w http.ResponseWriter, r *http.Request) {
		keys, err := s.exporter.List(r.Context())
		if err != nil {
			writeJSON(w, statusFor(err), errorBody{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string][]string{"exports": keys})
	})
}

func (s *Server) applianceRoutes(r chi.Router) {
	const name = "appliances"
	a := s.screens.Appliances

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) { s.respond(w, name, nil) })
	r.Post("/reload", func(w http.ResponseWriter, _ *http.Request) {
		a.Activate(s.baseContext())
		s.respond(w, name, nil)
	})
	r.Put("/filter", func(w http.ResponseWriter, r *http.Request) {
		var in filterBody
		err := decodeJSON(r, &in)
		if err == nil {
			err = a.SetTypeFilter(in.Type)
		}
		if err == nil {
			a.SetQuery(in.Query)
		}
		s.respond(w, name, err)
	})
	r.Put("/{id}", func(w http.ResponseWriter, r *http.Request) {
		var in domain.Appliance
		err := decodeJSON(r, &in)
		if err == nil {
			err = a.Update(r.Context(), chi.URLParam(r, "id"), in)
		}
		s.respond(w, name, err)
	})
	r.Post("/{id}/toggle", func(w http.ResponseWriter, r *http.Request) {
		s.respond(w, name, a.Toggle(r.Context(), chi.URLParam(r, "id")))
	})
	r.Post("/{id}/reload", func(w http.ResponseWriter, r *http.Request) {
		s.respond(w, name, a.Reload(r.Context(), chi.URLParam(r, "id")))
	})
}

func (s *Server) recommendationRoutes(r chi.Router) {
	const name = "recommendations"
	rc := s.screens.Recommendations

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) { s.respond(w, name, nil) })
	r.Post("/reload", func(w http.ResponseWriter, _ *http.Request) {
		rc.Activate(s.baseContext())
		s.respond(w, name, nil)
	})
	r.Put("/category", func(w http.ResponseWriter, r *http.Request) {
		var in valueBody
		err := decodeJSON(r, &in)
		if err == nil {
			err = rc.SetCategory(domain.RecommendationCategory(in.Value))
		}
		s.respond(w, name, err)
	})
	r.Put("/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		var in statusBody
		err := decodeJSON(r, &in)
		if err == nil {
			err = rc.MarkImplemented(r.Context(), chi.URLParam(r, "id"), in.Implemented)
		}
		s.respond(w, name, err)
	})
	r.Post("/generate", func(w http.ResponseWriter, r *http.Request) {
		s.respond(w, name, rc.Generate(r.Context()))
	})
}

func (s *Server) settingsRoutes(r chi.Router) {
	const name = "settings"
	st := s.screens.Settings

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) { s.respond(w, name, nil) })
	r.Post("/reload", func(w http.ResponseWriter, _ *http.Request) {
		st.Activate(s.baseContext())
		s.respond(w, name, nil)
	})
	// The form posts the whole draft; individual leaves are not addressed over HTTP.
	r.Put("/draft", func(w http.ResponseWriter, r *http.Request) {
		var in domain.UserSettings
		err := decodeJSON(r, &in)
		if err == nil {
			err = st.Edit(func(d *domain.UserSettings) error {
				in.ID = d.ID
				*d = in
				return nil
			})
		}
		s.respond(w, name, err)
	})
	r.Post("/draft/discard", func(w http.ResponseWriter, _ *http.Request) {
		st.Discard()
		s.respond(w, name, nil)
	})
	r.Post("/draft/rules/{index}/toggle", func(w http.ResponseWriter, r *http.Request) {
		idx, err := pathIndex(r, "index")
		if err == nil {
			err = st.ToggleRule(idx)
		}
		s.respond(w, name, err)
	})
	r.Post("/save", func(w http.ResponseWriter, r *http.Request) {
		s.respond(w, name, st.Save(r.Context()))
	})
	r.Post("/rules", func(w http.ResponseWriter, r *http.Request) {
		var in domain.AutomationRule
		err := decodeJSON(r, &in)
		if err == nil {
			err = st.AddRule(r.Context(), in)
		}
		s.respond(w, name, err)
	})
	r.Put("/rules/{id}", func(w http.ResponseWriter, r *http.Request) {
		var in domain.AutomationRule
		err := decodeJSON(r, &in)
		if err == nil {
			err = st.UpdateRule(r.Context(), chi.URLParam(r, "id"), in)
		}
		s.respond(w, name, err)
	})
	r.Delete("/rules/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.respond(w, name, st.DeleteRule(r.Context(), chi.URLParam(r, "id")))
	})
}
