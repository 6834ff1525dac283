package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ewilliams-labs/timbre/internal/core/domain"
	"github.com/ewilliams-labs/timbre/internal/core/genre"
	"github.com/ewilliams-labs/timbre/internal/core/ports"
	"github.com/ewilliams-labs/timbre/internal/core/services"
)

// --- Mocks ---
// The handler depends on the concrete AnalysisService, so these tests build a
// real service over mock ports, the same shape main wires at startup.

// stubAnalyzer produces fixed series tuned so the extractor yields a vector
// that satisfies every Afrobeats predicate.
type stubAnalyzer struct {
	tempoCalls int
}

var _ ports.SignalAnalyzer = (*stubAnalyzer)(nil)

func (s *stubAnalyzer) Tempo(domain.Waveform) float64 {
	s.tempoCalls++
	return 110
}

func (s *stubAnalyzer) Chroma(domain.Waveform) [][]float64 {
	chroma := make([][]float64, 12)
	for pc := range chroma {
		chroma[pc] = []float64{0.1}
	}
	chroma[9] = []float64{0.9} // A
	return chroma
}

func (s *stubAnalyzer) HarmonicPercussive(w domain.Waveform) ([]float64, []float64) {
	return []float64{0.25, 0.25}, []float64{0.1, -0.1}
}

func (s *stubAnalyzer) Pulse(domain.Waveform) []float64 {
	return []float64{0.2, 0.8, 0.2, 0.8}
}

func (s *stubAnalyzer) MFCC(domain.Waveform, int) [][]float64 {
	return [][]float64{{-150, -160}, {125, 135}}
}

func (s *stubAnalyzer) SpectralCentroid(domain.Waveform) []float64 {
	return []float64{2000, 2400}
}

func (s *stubAnalyzer) SpectralBandwidth(domain.Waveform) []float64 {
	return []float64{1800, 2200}
}

func (s *stubAnalyzer) SpectralRolloff(domain.Waveform) []float64 {
	return []float64{4000, 4400}
}

func (s *stubAnalyzer) ZeroCrossingRate(domain.Waveform) []float64 {
	return []float64{0.03, 0.05}
}

func (s *stubAnalyzer) RMSEnergy(domain.Waveform) []float64 {
	return []float64{0.1, 0.1}
}

type fakeLoader struct {
	wave  domain.Waveform
	err   error
	calls int
}

func (f *fakeLoader) Load(ctx context.Context, url string) (domain.Waveform, error) {
	f.calls++
	if f.err != nil {
		return domain.Waveform{}, f.err
	}
	return f.wave, nil
}

type mockStore struct {
	reports map[string]domain.AnalysisReport
	saved   []domain.AnalysisReport
}

func newMockStore() *mockStore {
	return &mockStore{reports: map[string]domain.AnalysisReport{}}
}

func (m *mockStore) Save(ctx context.Context, report domain.AnalysisReport) error {
	m.saved = append(m.saved, report)
	m.reports[report.SongID] = report
	return nil
}

func (m *mockStore) GetBySongID(ctx context.Context, songID string) (domain.AnalysisReport, error) {
	report, ok := m.reports[songID]
	if !ok {
		return domain.AnalysisReport{}, domain.ErrNotFound
	}
	return report, nil
}

func (m *mockStore) Recent(ctx context.Context, limit int) ([]domain.AnalysisReport, error) {
	if limit <= 0 {
		limit = 20
	}
	out := make([]domain.AnalysisReport, 0, len(m.saved))
	for i := len(m.saved) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.saved[i])
	}
	return out, nil
}

type mockVerifier struct {
	identity domain.Identity
	err      error
}

func (m *mockVerifier) Verify(ctx context.Context, token string) (domain.Identity, error) {
	if m.err != nil {
		return domain.Identity{}, m.err
	}
	return m.identity, nil
}

// --- Helpers ---

func testWave() domain.Waveform {
	return domain.Waveform{Samples: []float64{0.5, -0.5, 0.5, -0.5}, SampleRate: 4}
}

func newTestHandler(loader ports.AudioLoader, store ports.AnalysisStore, verifier ports.TokenVerifier) (*Handler, *stubAnalyzer) {
	analyzer := &stubAnalyzer{}
	extractor := services.NewExtractor(analyzer)
	svc := services.NewAnalysisService(loader, extractor, genre.DefaultRules(), store)
	return NewHandler(svc, verifier), analyzer
}

func postAnalyze(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/analyze-audio", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
	return resp
}

// --- Tests ---

func TestAnalyzeAudioHappyPath(t *testing.T) {
	loader := &fakeLoader{wave: testWave()}
	store := newMockStore()
	h, _ := newTestHandler(loader, store, nil)

	rr := postAnalyze(t, h, `{"songId": "song-1", "audioUrl": "https://cdn.example.com/p.mp3"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}

	resp := decodeBody(t, rr)
	checks := map[string]any{
		"songId":             "song-1",
		"tempo":              float64(110),
		"duration":           1.0,
		"key":                "A",
		"loudness_db":        -10.0,
		"spectral_centroid":  2200.0,
		"zero_crossing_rate": 0.04,
		"predicted_genre":    "Afrobeats",
		"confidence":         1.0,
	}
	for key, want := range checks {
		if got := resp[key]; got != want {
			t.Errorf("%s: got %v, want %v", key, got, want)
		}
	}

	mfccs, ok := resp["mfccs"].(map[string]any)
	if !ok {
		t.Fatalf("mfccs: got %T, want an object", resp["mfccs"])
	}
	if mfccs["mfcc_0"] != -155.0 || mfccs["mfcc_1"] != 130.0 {
		t.Errorf("mfccs: got %v, want mfcc_0=-155 mfcc_1=130", mfccs)
	}

	if len(store.saved) != 1 {
		t.Fatalf("stored reports: got %d, want 1", len(store.saved))
	}
}

func TestAnalyzeAudioDownloadFailureNeverReachesExtractor(t *testing.T) {
	loader := &fakeLoader{err: ports.DownloadError{URL: "https://cdn.example.com/gone.mp3", StatusCode: http.StatusNotFound}}
	h, analyzer := newTestHandler(loader, newMockStore(), nil)

	rr := postAnalyze(t, h, `{"songId": "song-1", "audioUrl": "https://cdn.example.com/gone.mp3"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400 (body %s)", rr.Code, rr.Body.String())
	}
	if loader.calls != 1 {
		t.Fatalf("loader calls: got %d, want 1", loader.calls)
	}
	if analyzer.tempoCalls != 0 {
		t.Fatalf("extractor ran %d times after a failed download, want 0", analyzer.tempoCalls)
	}
}

func TestAnalyzeAudioFlagOmissions(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantAbsent  []string
		wantPresent []string
	}{
		{
			name:        "mfcc disabled",
			body:        `{"songId": "s", "audioUrl": "https://cdn/p.mp3", "analyze_mfcc": false}`,
			wantAbsent:  []string{"mfccs"},
			wantPresent: []string{"predicted_genre", "confidence"},
		},
		{
			name:        "prediction disabled",
			body:        `{"songId": "s", "audioUrl": "https://cdn/p.mp3", "predict_genre": false}`,
			wantAbsent:  []string{"predicted_genre", "confidence"},
			wantPresent: []string{"mfccs"},
		},
		{
			name:        "defaults keep everything",
			body:        `{"songId": "s", "audioUrl": "https://cdn/p.mp3"}`,
			wantPresent: []string{"mfccs", "predicted_genre", "confidence"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			h, _ := newTestHandler(&fakeLoader{wave: testWave()}, nil, nil)
			rr := postAnalyze(t, h, tc.body)
			if rr.Code != http.StatusOK {
				t.Fatalf("status: got %d, want 200 (body %s)", rr.Code, rr.Body.String())
			}
			resp := decodeBody(t, rr)
			for _, key := range tc.wantAbsent {
				if _, present := resp[key]; present {
					t.Errorf("field %q should be omitted, got %v", key, resp[key])
				}
			}
			for _, key := range tc.wantPresent {
				if _, present := resp[key]; !present {
					t.Errorf("field %q missing from response", key)
				}
			}
		})
	}
}

func TestAnalyzeAudioValidation(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		wantStatus  int
	}{
		{name: "missing song id", contentType: "application/json", body: `{"audioUrl": "https://cdn/p.mp3"}`, wantStatus: http.StatusBadRequest},
		{name: "missing audio url", contentType: "application/json", body: `{"songId": "s"}`, wantStatus: http.StatusBadRequest},
		{name: "malformed json", contentType: "application/json", body: `{`, wantStatus: http.StatusBadRequest},
		{name: "wrong content type", contentType: "text/plain", body: `{"songId": "s", "audioUrl": "https://cdn/p.mp3"}`, wantStatus: http.StatusUnsupportedMediaType},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			h, _ := newTestHandler(&fakeLoader{wave: testWave()}, nil, nil)
			req := httptest.NewRequest(http.MethodPost, "/analyze-audio", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", tc.contentType)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tc.wantStatus {
				t.Fatalf("status: got %d, want %d", rr.Code, tc.wantStatus)
			}
		})
	}
}

func TestGetAnalysis(t *testing.T) {
	store := newMockStore()
	stored := domain.AnalysisReport{
		SongID:         "stored-1",
		Features:       domain.FeatureVector{domain.FeatTempo: 117, domain.FeatKey: 9},
		Classification: &domain.Classification{Genre: "Afrobeats", Confidence: 0.75},
		AnalyzedAt:     time.Date(2026, time.March, 14, 10, 30, 0, 0, time.UTC),
	}
	if err := store.Save(context.Background(), stored); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	h, _ := newTestHandler(&fakeLoader{wave: testWave()}, store, nil)

	t.Run("stored song", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/analyses/stored-1", nil)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("status: got %d, want 200", rr.Code)
		}
		resp := decodeBody(t, rr)
		if resp["songId"] != "stored-1" {
			t.Errorf("songId: got %v, want stored-1", resp["songId"])
		}
		if resp["predicted_genre"] != "Afrobeats" {
			t.Errorf("predicted_genre: got %v, want Afrobeats", resp["predicted_genre"])
		}
	})

	t.Run("missing song", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/analyses/never-seen", nil)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("status: got %d, want 404", rr.Code)
		}
	})

	t.Run("recent list", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/analyses?limit=1", nil)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("status: got %d, want 200", rr.Code)
		}
		var list []map[string]any
		if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
			t.Fatalf("decode list: %v", err)
		}
		if len(list) != 1 {
			t.Fatalf("list length: got %d, want 1", len(list))
		}
	})

	t.Run("bad limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/analyses?limit=abc", nil)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status: got %d, want 400", rr.Code)
		}
	})
}

func TestProtectedData(t *testing.T) {
	tests := []struct {
		name       string
		verifier   ports.TokenVerifier
		header     string
		wantStatus int
		wantUID    string
	}{
		{
			name:       "valid token",
			verifier:   &mockVerifier{identity: domain.Identity{UID: "user-1"}},
			header:     "Bearer good-token",
			wantStatus: http.StatusOK,
			wantUID:    "user-1",
		},
		{
			name:       "missing header",
			verifier:   &mockVerifier{identity: domain.Identity{UID: "user-1"}},
			header:     "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "not a bearer scheme",
			verifier:   &mockVerifier{identity: domain.Identity{UID: "user-1"}},
			header:     "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "verifier rejects",
			verifier:   &mockVerifier{err: ports.ErrUnauthorized},
			header:     "Bearer bad-token",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "no verifier configured",
			verifier:   nil,
			header:     "Bearer good-token",
			wantStatus: http.StatusNotImplemented,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			h, _ := newTestHandler(&fakeLoader{wave: testWave()}, nil, tc.verifier)
			req := httptest.NewRequest(http.MethodGet, "/protected-data", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tc.wantStatus {
				t.Fatalf("status: got %d, want %d (body %s)", rr.Code, tc.wantStatus, rr.Body.String())
			}
			if tc.wantUID != "" {
				resp := decodeBody(t, rr)
				if resp["uid"] != tc.wantUID {
					t.Errorf("uid: got %v, want %v", resp["uid"], tc.wantUID)
				}
			}
		})
	}
}

func TestHealthCheck(t *testing.T) {
	h, _ := newTestHandler(&fakeLoader{wave: testWave()}, nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	resp := decodeBody(t, rr)
	if resp["status"] != "ok" {
		t.Fatalf("status field: got %v, want ok", resp["status"])
	}
}
