package api

import (
	"net/http"
	"testing"

	"github.com/terraincognita07/landtrust/internal/models"
)

func TestGetApplicationWithoutDraftStartsAtFirstStep(t *testing.T) {
	env := newAPITestEnv(t)
	applicant := env.register(t, "applicant@example.com")

	payload := expectJSON(t, env.do(t, http.MethodGet, "/api/application", applicant.token, nil), http.StatusOK)
	if payload["step"] != float64(1) || payload["total_steps"] != float64(8) {
		t.Fatalf("unexpected step payload: %v", payload)
	}
	if payload["application"] != nil {
		t.Fatalf("expected no application yet, got %v", payload["application"])
	}
	if payload["editable"] != true {
		t.Fatalf("expected new draft to be editable, got %v", payload["editable"])
	}
}

func TestSaveApplicationStepPersistsDraftAndAdvances(t *testing.T) {
	env := newAPITestEnv(t)
	applicant := env.register(t, "applicant@example.com")

	saved := expectJSON(t, env.do(t, http.MethodPost, "/api/application/steps/1", applicant.token, map[string]any{
		"first_name": "Jane",
		"last_name":  "Doe",
	}), http.StatusOK)
	if saved["step"] != float64(2) {
		t.Fatalf("expected step 2 after saving step 1, got %v", saved["step"])
	}

	second := expectJSON(t, env.do(t, http.MethodPost, "/api/application/steps/2", applicant.token, map[string]any{
		"agent_name": "Pat Agent",
	}), http.StatusOK)
	application, _ := second["application"].(map[string]any)
	if application["first_name"] != "Jane" || application["agent_name"] != "Pat Agent" {
		t.Fatalf("expected merged fields across steps, got %v", application)
	}
	if application["status"] != models.StatusDraft {
		t.Fatalf("expected draft status, got %v", application["status"])
	}

	reloaded := expectJSON(t, env.do(t, http.MethodGet, "/api/application", applicant.token, nil), http.StatusOK)
	if reloaded["step"] != float64(1) {
		t.Fatalf("expected reload to resume at step 1, got %v", reloaded["step"])
	}
	stored, _ := reloaded["application"].(map[string]any)
	if stored["id"] != application["id"] {
		t.Fatalf("expected one application row, got ids %v and %v", stored["id"], application["id"])
	}
}

func TestSaveApplicationStepRejectsInvalidInput(t *testing.T) {
	env := newAPITestEnv(t)
	applicant := env.register(t, "applicant@example.com")

	expectJSON(t, env.do(t, http.MethodPost, "/api/application/steps/abc", applicant.token, nil), http.StatusBadRequest)
	expectJSON(t, env.do(t, http.MethodPost, "/api/application/steps/9", applicant.token, nil), http.StatusBadRequest)
	expectJSON(t, env.do(t, http.MethodPost, "/api/application/steps/1", applicant.token, "not an object"), http.StatusBadRequest)
}

func TestStrictStepValidationReportsMissingFields(t *testing.T) {
	env := newAPITestEnv(t, func(options *HandlerOptions) {
		options.StrictStepValidation = true
	})
	applicant := env.register(t, "applicant@example.com")

	payload := expectJSON(t, env.do(t, http.MethodPost, "/api/application/steps/1", applicant.token, map[string]any{
		"first_name": "Jane",
	}), http.StatusBadRequest)
	missing, _ := payload["missing"].([]any)
	if len(missing) == 0 || missing[0] != "last_name" {
		t.Fatalf("expected missing fields starting with last_name, got %v", payload)
	}
}

func TestSubmitRequiresHouseOrWaitlist(t *testing.T) {
	env := newAPITestEnv(t)
	applicant := env.register(t, "applicant@example.com")

	body := completeApplicationBody()
	body["selected_houses"] = []string{}
	payload := expectJSON(t, env.do(t, http.MethodPost, "/api/application/submit", applicant.token, body), http.StatusBadRequest)
	if payload["error"] != "select at least one house or join the waitlist" {
		t.Fatalf("unexpected payload: %v", payload)
	}

	current := expectJSON(t, env.do(t, http.MethodGet, "/api/application", applicant.token, nil), http.StatusOK)
	if current["application"] != nil {
		t.Fatalf("expected nothing persisted after rejected submit, got %v", current["application"])
	}
}

func TestSubmitRejectsMissingMandatoryFields(t *testing.T) {
	env := newAPITestEnv(t)
	applicant := env.register(t, "applicant@example.com")

	payload := expectJSON(t, env.do(t, http.MethodPost, "/api/application/submit", applicant.token, map[string]any{
		"join_waitlist": true,
	}), http.StatusBadRequest)
	if payload["error"] != "validation failed" {
		t.Fatalf("unexpected payload: %v", payload)
	}
	if missing, _ := payload["missing"].([]any); len(missing) == 0 {
		t.Fatalf("expected missing field list, got %v", payload)
	}
}

func TestSubmitRejectsUnknownHouse(t *testing.T) {
	env := newAPITestEnv(t)
	applicant := env.register(t, "applicant@example.com")

	body := completeApplicationBody()
	body["selected_houses"] = []string{"2", "404"}
	expectJSON(t, env.do(t, http.MethodPost, "/api/application/submit", applicant.token, body), http.StatusBadRequest)
}

func TestSubmitLocksApplication(t *testing.T) {
	env := newAPITestEnv(t)
	applicant := env.register(t, "applicant@example.com")
	env.submitApplication(t, applicant)

	current := expectJSON(t, env.do(t, http.MethodGet, "/api/application", applicant.token, nil), http.StatusOK)
	application, _ := current["application"].(map[string]any)
	if application["status"] != models.StatusSubmitted {
		t.Fatalf("expected submitted status, got %v", application["status"])
	}
	if current["editable"] != false {
		t.Fatalf("expected submitted application to be read-only, got %v", current["editable"])
	}

	expectJSON(t, env.do(t, http.MethodPost, "/api/application/steps/1", applicant.token, map[string]any{
		"first_name": "Changed",
	}), http.StatusConflict)
}

func TestListPropertiesReturnsSeededHouses(t *testing.T) {
	env := newAPITestEnv(t)
	applicant := env.register(t, "applicant@example.com")

	payload := expectJSON(t, env.do(t, http.MethodGet, "/api/properties", applicant.token, nil), http.StatusOK)
	properties, _ := payload["properties"].([]any)
	if len(properties) != 4 {
		t.Fatalf("expected 4 seeded properties, got %d", len(properties))
	}
	first, _ := properties[0].(map[string]any)
	if first["id"] != "1" {
		t.Fatalf("expected properties ordered by id, got %v", first)
	}
}
