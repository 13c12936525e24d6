package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/handler"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/nonce"
)

func TestHandleBootstrap(t *testing.T) {
	gin.SetMode(gin.TestMode)

	signer := nonce.NewSigner(testSecret)
	r := gin.New()
	r.GET("/track/bootstrap", handler.NewBootstrapHandler(signer).HandleBootstrap)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/track/bootstrap", http.NoBody)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		Endpoint string `json:"endpoint"`
		Nonce    string `json:"nonce"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	if body.Endpoint != "/track/record" {
		t.Errorf("expected endpoint /track/record, got %q", body.Endpoint)
	}

	// The issued nonce must pass verification by the same signer.
	if err := signer.Verify(body.Nonce, time.Now()); err != nil {
		t.Errorf("expected issued nonce to verify, got %v", err)
	}
}
