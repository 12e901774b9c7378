package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"floorforge/pkg/pipeline"
	"floorforge/pkg/schema"
	"floorforge/pkg/store"
)

func newTestServer(t *testing.T) (*Server, store.Store) {
	t.Helper()
	st := store.NewMemoryStore()
	logger := log.New(io.Discard)
	return New(st, pipeline.NewRunner(nil, nil, logger), logger), st
}

func do(t *testing.T, h http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func sampleBytes(t *testing.T) []byte {
	t.Helper()
	data, err := schema.Marshal(schema.Sample())
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv.Router(), http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestValidateEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	t.Run("valid document", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/v1/validate", sampleBytes(t))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var result schema.Result
		if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
			t.Fatal(err)
		}
		if !result.Valid {
			t.Errorf("valid = false, errors = %v", result.Errors)
		}
	})

	t.Run("invalid document is still 200", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/v1/validate", []byte(`{}`))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 with findings in body", rec.Code)
		}
		var result schema.Result
		if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
			t.Fatal(err)
		}
		if result.Valid {
			t.Error("valid = true for empty document")
		}
	})
}

func TestMigrateEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	doc := schema.Sample()
	doc.Version = "1.0.0"
	doc.Walls[0].Rotation = nil
	body, err := schema.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}

	rec := do(t, router, http.MethodPost, "/v1/migrate", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	migrated, err := schema.Parse(rec.Body.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if migrated.Version != schema.CurrentVersion {
		t.Errorf("version = %q, want %q", migrated.Version, schema.CurrentVersion)
	}
	if migrated.Walls[0].Rotation == nil {
		t.Error("wall rotation not defaulted")
	}

	if rec := do(t, router, http.MethodPost, "/v1/migrate", []byte("{bad")); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d for malformed body, want 400", rec.Code)
	}
}

func TestPlanEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	t.Run("valid spec", func(t *testing.T) {
		body := []byte(`{"rows": 2, "cols": 3, "cell": {"width": 10, "height": 10}, "spacing": 2}`)
		rec := do(t, router, http.MethodPost, "/v1/plan", body)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
		}
		var resp struct {
			Count int `json:"count"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if resp.Count != 6 {
			t.Errorf("count = %d, want 6", resp.Count)
		}
	})

	t.Run("invalid spec", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/v1/plan", []byte(`{"rows": 0, "cols": 3}`))
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("status = %d, want 422", rec.Code)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/v1/plan", []byte("{bad"))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestSceneEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	rec := do(t, router, http.MethodPost, "/v1/scene", sampleBytes(t))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	var result pipeline.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if !result.Validation.Valid {
		t.Fatalf("validation failed: %v", result.Validation.Errors)
	}
	if result.Scene == nil || len(result.Scene.Equipment) == 0 {
		t.Error("scene missing or empty")
	}
}

func TestSceneEndpointUncomposable(t *testing.T) {
	srv, _ := newTestServer(t)

	doc := schema.Sample()
	doc.EquipmentArrays[0].Config.Cols = 0
	body, err := schema.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}

	rec := do(t, srv.Router(), http.MethodPost, "/v1/scene", body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422: %s", rec.Code, rec.Body)
	}
}

func TestLayoutCRUD(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	// Empty store lists no layouts.
	rec := do(t, router, http.MethodGet, "/v1/layouts/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var list struct {
		Layouts []string `json:"layouts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Layouts) != 0 {
		t.Errorf("layouts = %v, want empty", list.Layouts)
	}

	// Create.
	rec = do(t, router, http.MethodPost, "/v1/layouts/", sampleBytes(t))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201: %s", rec.Code, rec.Body)
	}
	created, err := schema.Parse(rec.Body.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if created.SiteID == "" {
		t.Fatal("created layout has no site id")
	}

	// Get.
	rec = do(t, router, http.MethodGet, "/v1/layouts/"+created.SiteID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	// Put replaces under the path's site ID.
	doc := schema.Sample()
	doc.Room.Width = 150
	body, err := schema.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	rec = do(t, router, http.MethodPut, "/v1/layouts/"+created.SiteID, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d: %s", rec.Code, rec.Body)
	}
	rec = do(t, router, http.MethodGet, "/v1/layouts/"+created.SiteID, nil)
	got, err := schema.Parse(rec.Body.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if got.Room.Width != 150 {
		t.Errorf("room.width = %g, want replaced 150", got.Room.Width)
	}
	if got.SiteID != created.SiteID {
		t.Errorf("site_id = %q, want path id %q", got.SiteID, created.SiteID)
	}

	// Delete.
	rec = do(t, router, http.MethodDelete, "/v1/layouts/"+created.SiteID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", rec.Code)
	}
	rec = do(t, router, http.MethodGet, "/v1/layouts/"+created.SiteID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestCreateLayoutInvalidDocument(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv.Router(), http.MethodPost, "/v1/layouts/", []byte(`{"version": "1.1.0"}`))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var result schema.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.Valid {
		t.Error("valid = true in rejection body")
	}
}

func TestCreateLayoutMigratesBeforeStorage(t *testing.T) {
	srv, st := newTestServer(t)

	doc := schema.Sample()
	doc.Version = "1.0.0"
	body, err := schema.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}

	rec := do(t, srv.Router(), http.MethodPost, "/v1/layouts/", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	stored, err := st.Get(context.Background(), doc.SiteID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Version != schema.CurrentVersion {
		t.Errorf("stored version = %q, want %q", stored.Version, schema.CurrentVersion)
	}
}

func TestGetLayoutNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv.Router(), http.MethodGet, "/v1/layouts/site-missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error.Code == "" {
		t.Error("error body has no code")
	}
}
