package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agentengineer/curator/internal/model"
	"github.com/agentengineer/curator/internal/service"
)

func TestVerifyHandler_Pages(t *testing.T) {
	tests := []struct {
		name     string
		result   *service.VerifyResult
		err      error
		wantCode int
		wantText []string
	}{
		{
			name:     "missing token",
			result:   &service.VerifyResult{Outcome: model.OutcomeMissingToken},
			wantCode: http.StatusBadRequest,
			wantText: []string{"Invalid Verification Link", "missing or invalid"},
		},
		{
			name:     "unknown token",
			result:   &service.VerifyResult{Outcome: model.OutcomeTokenNotFound},
			wantCode: http.StatusBadRequest,
			wantText: []string{"Invalid Token", "invalid or has expired"},
		},
		{
			name:     "already verified",
			result:   &service.VerifyResult{Outcome: model.OutcomeAlreadyVerified, Email: "a@x.io"},
			wantCode: http.StatusOK,
			wantText: []string{"Already Verified", "<strong>a@x.io</strong>"},
		},
		{
			name:     "newly verified",
			result:   &service.VerifyResult{Outcome: model.OutcomeNewlyVerified, Email: "a@x.io"},
			wantCode: http.StatusOK,
			wantText: []string{"Subscription Verified!", "a@x.io", "You&#39;re now subscribed to The Agent Engineer newsletter!"},
		},
		{
			name:     "update failed",
			err:      service.ErrVerificationFailed,
			wantCode: http.StatusInternalServerError,
			wantText: []string{"Verification Failed"},
		},
		{
			name:     "unexpected error",
			err:      errors.New("failed to look up token: timeout"),
			wantCode: http.StatusInternalServerError,
			wantText: []string{"Something went wrong"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubNewsletter{verifyResult: tt.result, verifyErr: tt.err}
			h := NewVerifyHandler(svc, "The Agent Engineer", discardLogger())

			req := httptest.NewRequest(http.MethodGet, "/verify?token=abc", nil)
			rec := httptest.NewRecorder()

			h.Verify(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("expected status %d, got %d", tt.wantCode, rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
				t.Errorf("expected HTML content type, got %s", ct)
			}
			if csp := rec.Header().Get("Content-Security-Policy"); !strings.Contains(csp, "style-src 'unsafe-inline'") {
				t.Errorf("unexpected CSP: %s", csp)
			}

			body := rec.Body.String()
			for _, want := range tt.wantText {
				if !strings.Contains(body, want) {
					t.Errorf("page missing %q", want)
				}
			}
			if strings.Contains(body, "timeout") {
				t.Error("raw error detail leaked to page")
			}
		})
	}
}

func TestVerifyHandler_PassesToken(t *testing.T) {
	svc := &stubNewsletter{verifyResult: &service.VerifyResult{Outcome: model.OutcomeTokenNotFound}}
	h := NewVerifyHandler(svc, "site", discardLogger())

	h.Verify(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/verify?token=deadbeef", nil))

	if svc.gotToken != "deadbeef" {
		t.Errorf("expected token deadbeef, got %q", svc.gotToken)
	}
}

func TestVerifyHandler_EscapesEmail(t *testing.T) {
	svc := &stubNewsletter{verifyResult: &service.VerifyResult{
		Outcome: model.OutcomeAlreadyVerified,
		Email:   `<script>alert(1)</script>@x.io`,
	}}
	h := NewVerifyHandler(svc, "site", discardLogger())

	rec := httptest.NewRecorder()
	h.Verify(rec, httptest.NewRequest(http.MethodGet, "/verify?token=abc", nil))

	body := rec.Body.String()
	if strings.Contains(body, "<script>") {
		t.Error("email must be HTML-escaped")
	}
	if !strings.Contains(body, "&lt;script&gt;") {
		t.Error("expected escaped email in page")
	}
}
