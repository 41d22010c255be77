package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/skysim/skyplan/pkg/pipeline"
	"github.com/skysim/skyplan/pkg/plan"
	"github.com/skysim/skyplan/pkg/scene"
	"github.com/skysim/skyplan/pkg/store"
)

func newTestServer(t *testing.T) (*server, *httptest.Server) {
	t.Helper()
	c := New(os.Stderr, log.ErrorLevel)
	srv := newServer(pipeline.NewRunner(nil, nil), store.NewMemoryStore(), c)
	ts := httptest.NewServer(srv.routes())
	t.Cleanup(ts.Close)
	return srv, ts
}

func testSceneBody(t *testing.T) []byte {
	t.Helper()
	sc, err := scene.Parse(testScene)
	if err != nil {
		t.Fatal(err)
	}
	body, err := json.Marshal(planRequest{Scene: *sc})
	if err != nil {
		t.Fatal(err)
	}
	return body
}

func TestServeHealth(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestServeCreateAndGetPlan(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/plans", "application/json", bytes.NewReader(testSceneBody(t)))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var created planResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	p, err := plan.Unmarshal(created.Plan)
	if err != nil {
		t.Fatalf("response plan: %v", err)
	}
	if p.Count() != 9 {
		t.Errorf("count = %d, want 9", p.Count())
	}

	getResp, err := http.Get(ts.URL + "/plans/" + p.ID)
	if err != nil {
		t.Fatal(err)
	}
	defer getResp.Body.Close()
	if getResp.StatusCode != http.StatusOK {
		t.Errorf("GET status = %d, want 200", getResp.StatusCode)
	}

	var fetched plan.Plan
	if err := json.NewDecoder(getResp.Body).Decode(&fetched); err != nil {
		t.Fatal(err)
	}
	if fetched.ID != p.ID {
		t.Errorf("fetched ID = %s, want %s", fetched.ID, p.ID)
	}
}

func TestServeListPlans(t *testing.T) {
	_, ts := newTestServer(t)

	for i := 0; i < 2; i++ {
		resp, err := http.Post(ts.URL+"/plans", "application/json", bytes.NewReader(testSceneBody(t)))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
	}

	resp, err := http.Get(ts.URL + "/plans")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var plans []plan.Plan
	if err := json.NewDecoder(resp.Body).Decode(&plans); err != nil {
		t.Fatal(err)
	}
	if len(plans) != 2 {
		t.Errorf("len = %d, want 2", len(plans))
	}
}

func TestServeDeletePlan(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/plans", "application/json", bytes.NewReader(testSceneBody(t)))
	if err != nil {
		t.Fatal(err)
	}
	var created planResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	p, err := plan.Unmarshal(created.Plan)
	if err != nil {
		t.Fatal(err)
	}

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/plans/"+p.ID, nil)
	delResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	delResp.Body.Close()
	if delResp.StatusCode != http.StatusNoContent {
		t.Errorf("DELETE status = %d, want 204", delResp.StatusCode)
	}

	getResp, err := http.Get(ts.URL + "/plans/" + p.ID)
	if err != nil {
		t.Fatal(err)
	}
	getResp.Body.Close()
	if getResp.StatusCode != http.StatusNotFound {
		t.Errorf("GET deleted status = %d, want 404", getResp.StatusCode)
	}
}

func TestServeNotFound(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/plans/nope")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}

	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Code != "NOT_FOUND" {
		t.Errorf("code = %q, want NOT_FOUND", body.Code)
	}
}

func TestServeInvalidScene(t *testing.T) {
	_, ts := newTestServer(t)

	body := []byte(`{"scene": {"layout": {"kind": "wedge"}}}`)
	resp, err := http.Post(ts.URL+"/plans", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestServeMalformedBody(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/plans", "application/json", bytes.NewReader([]byte("{")))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
