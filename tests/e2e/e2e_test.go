//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rollcall/rollcall/internal/testutil"
)

type user struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type createResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    user   `json:"data"`
	Error   string `json:"error"`
}

type listResponse struct {
	Success bool   `json:"success"`
	Data    []user `json:"data"`
	Error   string `json:"error"`
}

func baseURL() string {
	return envOrDefault("ROLLCALL_BASE_URL", "http://localhost:8080")
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func TestE2ESmoke(t *testing.T) {
	base := baseURL()

	var health map[string]any
	if status := doJSON(t, http.MethodGet, base+"/readyz", nil, &health); status != http.StatusOK {
		t.Fatalf("readyz returned %d: %v", status, health)
	}

	email := testutil.UniqueID("e2e") + "@example.com"
	var created createResponse
	status := doJSON(t, http.MethodPost, base+"/users", map[string]string{
		"name":  "E2E User",
		"email": email,
	}, &created)
	if status != http.StatusCreated {
		t.Fatalf("create returned %d: %s", status, created.Error)
	}
	if !created.Success || created.Data.ID == "" || created.Data.Email != email {
		t.Fatalf("unexpected create envelope: %+v", created)
	}

	var listed listResponse
	if status := doJSON(t, http.MethodGet, base+"/users", nil, &listed); status != http.StatusOK {
		t.Fatalf("list returned %d: %s", status, listed.Error)
	}
	if len(listed.Data) == 0 || listed.Data[0].ID != created.Data.ID {
		t.Fatalf("newest record should be first, got %+v", listed.Data)
	}
}

func TestE2ENewestFirst(t *testing.T) {
	base := baseURL()
	prefix := testutil.UniqueID("order")

	var ids []string
	for _, name := range []string{"A", "B", "C"} {
		var created createResponse
		status := doJSON(t, http.MethodPost, base+"/api/users", map[string]string{
			"name":  prefix + "-" + name,
			"email": fmt.Sprintf("%s-%s@example.com", prefix, strings.ToLower(name)),
		}, &created)
		if status != http.StatusCreated {
			t.Fatalf("create %s returned %d", name, status)
		}
		ids = append(ids, created.Data.ID)
		time.Sleep(5 * time.Millisecond)
	}

	var listed listResponse
	doJSON(t, http.MethodGet, base+"/api/users", nil, &listed)

	var got []string
	for _, u := range listed.Data {
		if strings.HasPrefix(u.Name, prefix) {
			got = append(got, u.ID)
		}
	}
	want := []string{ids[2], ids[1], ids[0]}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestE2EMissingField(t *testing.T) {
	var out createResponse
	status := doJSON(t, http.MethodPost, baseURL()+"/users", map[string]string{"name": "No Email"}, &out)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if out.Success || !strings.Contains(out.Error, "email") {
		t.Errorf("unexpected failure envelope: %+v", out)
	}
}

// TestE2ENoSecretsInResponses checks that the store password never reaches
// a client, even on the readiness endpoint.
func TestE2ENoSecretsInResponses(t *testing.T) {
	password := testutil.RequireEnv(t, "E2E_DATABASE_PASSWORD")

	client := &http.Client{Timeout: 10 * time.Second}
	for _, path := range []string{"/readyz", "/users", "/metrics"} {
		resp, err := client.Get(baseURL() + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if strings.Contains(string(body), password) {
			t.Errorf("SECURITY: %s leaked the database password", path)
		}
	}
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()

	var buf io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		buf = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, buf)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request %s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	if out != nil {
		decoder := json.NewDecoder(resp.Body)
		if err := decoder.Decode(out); err != nil && resp.ContentLength != 0 {
			t.Fatalf("decode response: %v", err)
		}
	}

	return resp.StatusCode
}
