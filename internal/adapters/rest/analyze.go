package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ewilliams-labs/timbre/internal/core/domain"
	"github.com/ewilliams-labs/timbre/internal/core/ports"
)

// analyzeRequest defines what the client sends us. The flag fields are
// pointers so an absent field falls back to its documented default instead of
// false.
type analyzeRequest struct {
	SongID           string `json:"songId"`
	AudioURL         string `json:"audioUrl"`
	AnalyzeMFCC      *bool  `json:"analyze_mfcc"`
	AnalyzeStructure *bool  `json:"analyze_structure"`
	PredictGenre     *bool  `json:"predict_genre"`
}

type analyzeResponse struct {
	SongID           string             `json:"songId"`
	Tempo            int                `json:"tempo"`
	Duration         float64            `json:"duration"`
	Key              string             `json:"key"`
	LoudnessDB       float64            `json:"loudness_db"`
	SpectralCentroid float64            `json:"spectral_centroid"`
	ZeroCrossingRate float64            `json:"zero_crossing_rate"`
	MFCCs            map[string]float64 `json:"mfccs,omitempty"`
	PredictedGenre   *string            `json:"predicted_genre,omitempty"`
	Confidence       *float64           `json:"confidence,omitempty"`
}

type reportResponse struct {
	SongID         string               `json:"songId"`
	Features       domain.FeatureVector `json:"features"`
	PredictedGenre *string              `json:"predicted_genre,omitempty"`
	Confidence     *float64             `json:"confidence,omitempty"`
	AnalyzedAt     time.Time            `json:"analyzed_at"`
}

// AnalyzeAudio handles POST /analyze-audio
func (h *Handler) AnalyzeAudio(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	// 1. Decode the Request Body
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// 2. Validate Input
	if req.SongID == "" || req.AudioURL == "" {
		writeError(w, http.StatusBadRequest, "songId and audioUrl are required")
		return
	}

	analysisReq := domain.AnalysisRequest{
		SongID:        req.SongID,
		AudioURL:      req.AudioURL,
		WithMFCC:      boolOrDefault(req.AnalyzeMFCC, true),
		WithStructure: boolOrDefault(req.AnalyzeStructure, false),
		PredictGenre:  boolOrDefault(req.PredictGenre, true),
	}

	// 3. Call the Service (The Core Logic)
	requestID := uuid.NewString()
	log.Printf("DEBUG rest: [%s] analyzing song %s", requestID, analysisReq.SongID)

	report, err := h.svc.Analyze(r.Context(), analysisReq)
	if err != nil {
		log.Printf("WARN rest: [%s] analysis failed: %v", requestID, err)
		if errors.Is(err, ports.ErrDownload) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// 4. Format the Response
	resp, err := formatReport(report, analysisReq)
	if err != nil {
		log.Printf("WARN rest: [%s] %v", requestID, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetAnalysis handles GET /analyses/{songId}
func (h *Handler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	songID := r.PathValue("songId")
	if songID == "" {
		writeError(w, http.StatusBadRequest, "song id is required")
		return
	}

	report, err := h.svc.Report(r.Context(), songID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no analysis for song "+songID)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, storedReport(report))
}

// ListAnalyses handles GET /analyses
func (h *Handler) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	reports, err := h.svc.RecentReports(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]reportResponse, 0, len(reports))
	for _, report := range reports {
		out = append(out, storedReport(report))
	}
	writeJSON(w, http.StatusOK, out)
}

// formatReport applies the documented roundings and the caller's visibility
// flags. Rounding and the key to label mapping happen here and nowhere
// upstream.
func formatReport(report domain.AnalysisReport, req domain.AnalysisRequest) (analyzeResponse, error) {
	fv := report.Features

	keyLabel, ok := domain.KeyLabel(int(math.Round(fv[domain.FeatKey])))
	if !ok {
		return analyzeResponse{}, fmt.Errorf("rest: analysis produced an invalid key index %v", fv[domain.FeatKey])
	}

	resp := analyzeResponse{
		SongID:           report.SongID,
		Tempo:            int(math.Round(fv[domain.FeatTempo])),
		Duration:         round2(fv[domain.FeatDuration]),
		Key:              keyLabel,
		LoudnessDB:       round2(fv[domain.FeatLoudness]),
		SpectralCentroid: round2(fv[domain.FeatSpectralCentroid]),
		ZeroCrossingRate: round4(fv[domain.FeatZeroCrossing]),
	}

	if req.WithMFCC {
		mfccs := make(map[string]float64)
		for key, value := range fv {
			if strings.HasPrefix(key, "mfcc_") {
				mfccs[key] = round4(value)
			}
		}
		resp.MFCCs = mfccs
	}

	if req.PredictGenre && report.Classification != nil {
		genre := report.Classification.Genre
		confidence := report.Classification.Confidence
		resp.PredictedGenre = &genre
		resp.Confidence = &confidence
	}

	return resp, nil
}

func storedReport(report domain.AnalysisReport) reportResponse {
	resp := reportResponse{
		SongID:     report.SongID,
		Features:   report.Features,
		AnalyzedAt: report.AnalyzedAt,
	}
	if report.Classification != nil {
		genre := report.Classification.Genre
		confidence := report.Classification.Confidence
		resp.PredictedGenre = &genre
		resp.Confidence = &confidence
	}
	return resp
}

func boolOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
