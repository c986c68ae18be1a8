package results

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func get(t *testing.T, s *Server, path string) (int, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.Handler().ServeHTTP(w, req)
	out := make(map[string]interface{})
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("%s: invalid json %q", path, w.Body.String())
	}
	return w.Code, out
}

func TestServer(t *testing.T) {
	c := NewCollector()
	fillCollector(c)
	s := NewServer(0, c)
	s.SetInfo("mdp", "chain-15")

	code, body := get(t, s, "/experiment")
	if code != http.StatusOK || body["mdp"] != "chain-15" || body["finalized"] != false {
		t.Errorf("unexpected experiment response %d %v", code, body)
	}

	code, body = get(t, s, "/agents")
	agents, ok := body["agents"].([]interface{})
	if code != http.StatusOK || !ok || len(agents) != 2 {
		t.Errorf("unexpected agents response %d %v", code, body)
	}

	code, body = get(t, s, "/agents/q")
	episodes, ok := body["episodes"].([]interface{})
	if code != http.StatusOK || !ok || len(episodes) != 2 {
		t.Fatalf("unexpected agent response %d %v", code, body)
	}
	if first := episodes[0].(map[string]interface{}); first["mean"] != 2.0 {
		t.Errorf("expected mean 2, got %v", first["mean"])
	}

	code, _ = get(t, s, "/agents/unknown")
	if code != http.StatusNotFound {
		t.Errorf("expected not found, got %d", code)
	}

	code, body = get(t, s, "/times")
	times, ok := body["times"].([]interface{})
	if code != http.StatusOK || !ok || len(times) != 1 {
		t.Errorf("unexpected times response %d %v", code, body)
	}
}
