package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/landtrust/internal/db"
	"github.com/terraincognita07/landtrust/internal/metrics"
	"github.com/terraincognita07/landtrust/internal/models"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

type apiTestEnv struct {
	app     *fiber.App
	handler *Handler
	repos   *db.Repositories
}

type testAccount struct {
	userID string
	token  string
}

func newAPITestEnv(t *testing.T, mutate ...func(*HandlerOptions)) apiTestEnv {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "landtrust-api.db"), nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	options := HandlerOptions{SecretKey: testSecretKey, Metrics: metrics.New()}
	for _, apply := range mutate {
		apply(&options)
	}

	handler, err := NewHandler(database, options)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}

	app := fiber.New()
	RegisterRoutes(app, handler)
	app.Use(handler.NotFound)

	return apiTestEnv{app: app, handler: handler, repos: handler.repositories}
}

func (env apiTestEnv) do(t *testing.T, method string, path string, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return response
}

// expectJSON checks the status code and decodes the body.
func expectJSON(t *testing.T, response *http.Response, status int) map[string]any {
	t.Helper()
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	if response.StatusCode != status {
		t.Fatalf("expected status %d, got %d: %s", status, response.StatusCode, raw)
	}

	payload := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			t.Fatalf("decode response %q: %v", raw, err)
		}
	}
	return payload
}

func (env apiTestEnv) register(t *testing.T, email string) testAccount {
	t.Helper()

	payload := expectJSON(t, env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":            email,
		"password":         "StrongPass1",
		"confirm_password": "StrongPass1",
		"full_name":        "Test " + email,
	}), http.StatusCreated)

	token, _ := payload["token"].(string)
	user, _ := payload["user"].(map[string]any)
	userID, _ := user["id"].(string)
	if token == "" || userID == "" {
		t.Fatalf("expected token and user id in register payload, got %v", payload)
	}
	return testAccount{userID: userID, token: token}
}

func (env apiTestEnv) grant(t *testing.T, account testAccount, role string) {
	t.Helper()

	if err := env.repos.Roles.Grant(context.Background(), account.userID, role); err != nil {
		t.Fatalf("grant %s: %v", role, err)
	}
}

func (env apiTestEnv) registerAdmin(t *testing.T, email string) testAccount {
	t.Helper()

	account := env.register(t, email)
	env.grant(t, account, models.RoleAdmin)
	return account
}

func completeApplicationBody() map[string]any {
	return map[string]any{
		"first_name":      "Jane",
		"last_name":       "Doe",
		"date_of_birth":   "1990-04-01",
		"email":           "jane@example.com",
		"phone":           "555-0100",
		"current_address": "12 Lake St",
		"zip_code":        "33801",
		"annual_income":   "52000",
		"credit_score":    680,
		"household_members": []map[string]string{
			{"name": "Jane", "age": "34"},
		},
		"personal_references": []map[string]string{
			{"name": "Ref One", "phone": "555-0101", "relationship": "Pastor"},
			{"name": "Ref Two", "phone": "555-0102", "relationship": "Neighbor"},
		},
		"selected_houses": []string{"2"},
	}
}

// submitApplication walks one saved step and submits a complete application, returning its id.
func (env apiTestEnv) submitApplication(t *testing.T, applicant testAccount) string {
	t.Helper()

	expectJSON(t, env.do(t, http.MethodPost, "/api/application/steps/1", applicant.token, map[string]any{
		"first_name": "Jane",
	}), http.StatusOK)

	payload := expectJSON(t, env.do(t, http.MethodPost, "/api/application/submit", applicant.token, completeApplicationBody()), http.StatusOK)
	application, _ := payload["application"].(map[string]any)
	applicationID, _ := application["id"].(string)
	if applicationID == "" {
		t.Fatalf("expected application id after submit, got %v", payload)
	}
	return applicationID
}
