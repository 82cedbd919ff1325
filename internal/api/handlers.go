package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/roadmetrics/traffic.report/internal/clipdb"
	"github.com/roadmetrics/traffic.report/internal/detect"
	"github.com/roadmetrics/traffic.report/internal/httputil"
	"github.com/roadmetrics/traffic.report/internal/report"
	"github.com/roadmetrics/traffic.report/internal/security"
	"github.com/roadmetrics/traffic.report/internal/stats"
	"github.com/roadmetrics/traffic.report/internal/track"
	"github.com/roadmetrics/traffic.report/internal/units"
)

// requestUnits resolves the display unit for a request: the units
// query parameter when present and valid, the server default
// otherwise. The second return value is false for an invalid override.
func (s *Server) requestUnits(r *http.Request) (string, bool) {
	u := r.URL.Query().Get("units")
	if u == "" {
		return s.units, true
	}
	if !units.IsValid(u) {
		return "", false
	}
	return u, true
}

// convertDocument returns a copy of doc with every speed value
// converted from km/h to the target unit.
func convertDocument(doc *report.Document, target string) *report.Document {
	out := *doc

	out.Stats.MeanSpeedKmh = units.ConvertSpeedKmh(doc.Stats.MeanSpeedKmh, target)
	out.Stats.MaxSpeedKmh = units.ConvertSpeedKmh(doc.Stats.MaxSpeedKmh, target)
	out.Stats.P85SpeedKmh = units.ConvertSpeedKmh(doc.Stats.P85SpeedKmh, target)
	out.Stats.StdDevSpeedKmh = units.ConvertSpeedKmh(doc.Stats.StdDevSpeedKmh, target)

	out.Stats.Directions = append([]stats.DirectionStats(nil), doc.Stats.Directions...)
	for i := range out.Stats.Directions {
		out.Stats.Directions[i].MeanSpeedKmh = units.ConvertSpeedKmh(out.Stats.Directions[i].MeanSpeedKmh, target)
	}
	out.Stats.TimeBuckets = append([]stats.TimeBucket(nil), doc.Stats.TimeBuckets...)
	for i := range out.Stats.TimeBuckets {
		out.Stats.TimeBuckets[i].MeanSpeedKmh = units.ConvertSpeedKmh(out.Stats.TimeBuckets[i].MeanSpeedKmh, target)
	}

	out.Vehicles = append([]track.Result(nil), doc.Vehicles...)
	for i := range out.Vehicles {
		out.Vehicles[i].SpeedKmh = units.ConvertSpeedKmh(out.Vehicles[i].SpeedKmh, target)
	}
	out.Alerts = append([]track.Alert(nil), doc.Alerts...)
	for i := range out.Alerts {
		out.Alerts[i].SpeedKmh = units.ConvertSpeedKmh(out.Alerts[i].SpeedKmh, target)
	}
	return &out
}

type processRequest struct {
	Path string `json:"path"`
}

func (s *Server) processClip(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.BadRequest(w, "invalid JSON body")
		return
	}
	if req.Path == "" {
		httputil.BadRequest(w, "missing 'path'")
		return
	}
	if err := security.ValidateFileExtension(req.Path, detect.FileExtension); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	if err := security.ValidatePathWithinDirectory(req.Path, s.logDir); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	doc, err := s.runner.RunFile(r.Context(), req.Path)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("processing failed: %v", err))
		return
	}
	httputil.WriteJSONOK(w, doc)
}

func (s *Server) listClips(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	clips, err := s.db.ListClips()
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to list clips: %v", err))
		return
	}
	if clips == nil {
		clips = []clipdb.ClipSummary{}
	}
	httputil.WriteJSONOK(w, clips)
}

// clipRoutes dispatches /api/clips/{name}, /api/clips/{name}/report and
// /api/clips/{name}/chart.
func (s *Server) clipRoutes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/clips/")
	name, sub, _ := strings.Cut(rest, "/")
	if name == "" {
		httputil.BadRequest(w, "missing clip name")
		return
	}

	doc, err := s.db.GetClip(name)
	if err == clipdb.ErrNotFound {
		httputil.NotFound(w, fmt.Sprintf("clip %q not found", name))
		return
	}
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to load clip: %v", err))
		return
	}

	switch sub {
	case "":
		s.showClip(w, r, doc)
	case "report":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := report.WriteText(w, doc); err != nil {
			httputil.InternalServerError(w, "failed to render report")
		}
	case "chart":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := report.WriteSpeedChart(w, doc); err != nil {
			httputil.InternalServerError(w, "failed to render chart")
		}
	default:
		httputil.NotFound(w, fmt.Sprintf("unknown resource %q", sub))
	}
}

func (s *Server) showClip(w http.ResponseWriter, r *http.Request, doc *report.Document) {
	u, ok := s.requestUnits(r)
	if !ok {
		httputil.BadRequest(w, "invalid units, must be one of: "+units.ValidUnitsString())
		return
	}
	if u != units.KMPH {
		doc = convertDocument(doc, u)
	}
	httputil.WriteJSONOK(w, map[string]interface{}{
		"units":    u,
		"document": doc,
	})
}

func (s *Server) listAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	limit := 100
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 {
			httputil.BadRequest(w, "invalid 'limit' parameter")
			return
		}
		limit = parsed
	}

	alerts, err := s.db.ListAlerts(limit)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to list alerts: %v", err))
		return
	}
	if alerts == nil {
		alerts = []clipdb.AlertRecord{}
	}
	httputil.WriteJSONOK(w, alerts)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONOK(w, map[string]string{"status": "ok"})
}
