package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRespondJSON_SetsStatusAndContentType(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		data       any
	}{
		{"OK", http.StatusOK, map[string]string{"status": "ok"}},
		{"Accepted", http.StatusAccepted, map[string]int{"total": 3}},
		{"NoBody", http.StatusOK, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			respondJSON(recorder, tc.statusCode, tc.data)

			assertStatusCode(t, recorder, tc.statusCode)
			assertContentType(t, recorder, "application/json")
			if tc.data == nil && recorder.Body.Len() != 0 {
				t.Errorf("expected empty body, got %q", recorder.Body.String())
			}
		})
	}
}

func TestRespondError(t *testing.T) {
	recorder := httptest.NewRecorder()
	respondError(recorder, http.StatusNotFound, "asset not found")

	assertStatusCode(t, recorder, http.StatusNotFound)
	assertJSONError(t, recorder, "asset not found")
}

func TestHealthCheck_ReturnsOK(t *testing.T) {
	recorder := httptest.NewRecorder()
	HealthCheck(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assertStatusCode(t, recorder, http.StatusOK)
	var result map[string]string
	parseJSONResponse(t, recorder, &result)
	if result["status"] != "ok" {
		t.Errorf("expected status 'ok', got '%s'", result["status"])
	}
}

func TestAssetIDTokens(t *testing.T) {
	ids := []string{
		"/home/user/Bilder/urlaub.jpg",
		`C:\Users\me\Desktop\scan 01.png`,
		"/tmp/caf\u00e9 & friends?.webp",
	}
	for _, id := range ids {
		t.Run(id, func(t *testing.T) {
			token := EncodeAssetID(id)
			got, err := DecodeAssetID(token)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != id {
				t.Errorf("expected '%s', got '%s'", id, got)
			}
		})
	}

	for _, bad := range []string{"", "%%%", "a+b/"} {
		if _, err := DecodeAssetID(bad); err == nil {
			t.Errorf("expected error for token %q", bad)
		}
	}
}

func TestSanitizeForLog(t *testing.T) {
	if got := sanitizeForLog("a\nb\rc"); got != "abc" {
		t.Errorf("expected 'abc', got '%s'", got)
	}
}

func TestAssetIDParam(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		expected string
		ok       bool
	}{
		{"valid token", EncodeAssetID("/photos/scan.png"), "/photos/scan.png", true},
		{"empty token", "", "", false},
		{"not base64", "%%%", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := requestWithChiParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": tt.token})
			rec := httptest.NewRecorder()

			id, ok := assetIDParam(rec, req)
			if ok != tt.ok || id != tt.expected {
				t.Errorf("expected (%q, %v), got (%q, %v)", tt.expected, tt.ok, id, ok)
			}
			if !tt.ok {
				assertStatusCode(t, rec, http.StatusBadRequest)
			}
		})
	}
}
