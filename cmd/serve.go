package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/valuation-cli/internal/extract"
	"github.com/sells-group/valuation-cli/internal/model"
	"github.com/sells-group/valuation-cli/internal/refdata"
	"github.com/sells-group/valuation-cli/internal/score"
	"github.com/sells-group/valuation-cli/internal/store"
	"github.com/sells-group/valuation-cli/internal/validate"
	"github.com/sells-group/valuation-cli/internal/valuation"
	"github.com/sells-group/valuation-cli/pkg/geocode"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local API server",
	Long:  "Starts the HTTP API the desktop shell talks to. All endpoints are JSON; CORS is open for localhost tooling.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		manufacturers, err := loadManufacturers()
		if err != nil {
			return err
		}

		api := &apiServer{
			store:         st,
			manufacturers: manufacturers,
			extractor:     extract.New(manufacturers),
			// The geocode service caches per instance and is not safe for
			// concurrent use, so each request gets its own.
			newGeocoder: newGeocoder,
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: api.routes(),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

type apiServer struct {
	store         store.Store
	manufacturers *refdata.Manufacturers
	extractor     *extract.Extractor
	newGeocoder   func() (*geocode.Service, error)
}

func (s *apiServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/extract", s.handleExtract)
		r.Post("/validate", s.handleValidate)
		r.Post("/geocode", s.handleGeocode)
		r.Post("/score", s.handleScore)

		r.Route("/appraisals", func(r chi.Router) {
			r.Post("/", s.handleCreateAppraisal)
			r.Get("/", s.handleListAppraisals)
			r.Get("/{id}", s.handleGetAppraisal)
			r.Delete("/{id}", s.handleDeleteAppraisal)
			r.Post("/{id}/comparables", s.handleAddComparable)
			r.Get("/{id}/comparables", s.handleListComparables)
			r.Post("/{id}/analyze", s.handleAnalyze)
		})

		r.Delete("/comparables/{id}", s.handleDeleteComparable)
	})

	return r
}

func (s *apiServer) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text   string `json:"text"`
		Method string `json:"method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	vehicle, err := s.extractor.Extract(req.Text, model.ExtractionMethod(req.Method))
	if err != nil {
		if eris.Is(err, extract.ErrNotReportText) {
			writeError(w, http.StatusUnprocessableEntity, "input is not usable report text")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

func (s *apiServer) handleValidate(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeJSON(w, http.StatusOK, validate.All(fields, s.manufacturers))
}

func (s *apiServer) handleGeocode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Location string `json:"location"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	geocoder, err := s.newGeocoder()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	coords := geocoder.Geocode(req.Location)
	if coords == nil {
		writeError(w, http.StatusNotFound, "location could not be resolved")
		return
	}
	writeJSON(w, http.StatusOK, coords)
}

// handleScore scores comparables against a loss vehicle in memory, without
// touching the store. The analyze endpoint is the persisting variant.
func (s *apiServer) handleScore(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Vehicle     model.Vehicle      `json:"vehicle"`
		Comparables []model.Comparable `json:"comparables"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Comparables) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "no comparables to score")
		return
	}

	breakdowns := make([]model.QualityBreakdown, len(req.Comparables))
	for i, comp := range req.Comparables {
		breakdowns[i] = score.Calculate(comp, req.Vehicle)
	}
	writeJSON(w, http.StatusOK, breakdowns)
}

func (s *apiServer) handleCreateAppraisal(w http.ResponseWriter, r *http.Request) {
	var vehicle model.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&vehicle); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	appraisal, err := s.store.CreateAppraisal(r.Context(), vehicle)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, appraisal)
}

func (s *apiServer) handleListAppraisals(w http.ResponseWriter, r *http.Request) {
	filter := store.AppraisalFilter{
		Status: model.AppraisalStatus(r.URL.Query().Get("status")),
		VIN:    r.URL.Query().Get("vin"),
	}

	appraisals, err := s.store.ListAppraisals(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if appraisals == nil {
		appraisals = []model.Appraisal{}
	}
	writeJSON(w, http.StatusOK, appraisals)
}

func (s *apiServer) handleGetAppraisal(w http.ResponseWriter, r *http.Request) {
	appraisal, err := s.store.GetAppraisal(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "appraisal not found")
		return
	}
	writeJSON(w, http.StatusOK, appraisal)
}

func (s *apiServer) handleDeleteAppraisal(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteAppraisal(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusNotFound, "appraisal not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *apiServer) handleAddComparable(w http.ResponseWriter, r *http.Request) {
	var comp model.Comparable
	if err := json.NewDecoder(r.Body).Decode(&comp); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	comp.AppraisalID = chi.URLParam(r, "id")

	if _, err := s.store.GetAppraisal(r.Context(), comp.AppraisalID); err != nil {
		writeError(w, http.StatusNotFound, "appraisal not found")
		return
	}
	if comp.ListPrice <= 0 {
		writeError(w, http.StatusBadRequest, "list_price must be positive")
		return
	}

	created, err := s.store.AddComparable(r.Context(), comp)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *apiServer) handleListComparables(w http.ResponseWriter, r *http.Request) {
	comps, err := s.store.ListComparables(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if comps == nil {
		comps = []model.Comparable{}
	}
	writeJSON(w, http.StatusOK, comps)
}

func (s *apiServer) handleDeleteComparable(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteComparable(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusNotFound, "comparable not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *apiServer) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	appraisal, err := s.store.GetAppraisal(ctx, id)
	if err != nil {
		writeError(w, http.StatusNotFound, "appraisal not found")
		return
	}
	comps, err := s.store.ListComparables(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(comps) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "no comparables to aggregate")
		return
	}

	geocoder, err := s.newGeocoder()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := resolveDistances(ctx, geocoder, &appraisal.Vehicle, comps); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	acfg := adjustmentConfig()
	for i := range comps {
		price, adj := valuation.AdjustPrice(comps[i], appraisal.Vehicle, acfg)
		comps[i].AdjustedPrice = price
		comps[i].Adjustments = &adj

		b := score.Calculate(comps[i], appraisal.Vehicle)
		comps[i].ScoreBreakdown = &b
		comps[i].QualityScore = b.FinalScore

		if err := s.store.UpdateComparable(ctx, comps[i]); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	analysis, err := valuation.Aggregate(appraisal.Vehicle, comps)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.store.UpdateAppraisalAnalysis(ctx, id, analysis); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
