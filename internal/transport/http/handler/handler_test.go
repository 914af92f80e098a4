package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dashboard-bff/internal/supabase"
)

// fakeUpstream is an in-memory stand-in for the hosted REST + storage APIs.
// It understands eq. filters, echoes created/updated representations, and
// records every write so tests can assert that a rejected request issued
// none.
type fakeUpstream struct {
	t   *testing.T
	srv *httptest.Server

	mu     sync.Mutex
	tables map[string][]map[string]any
	nextID int64

	writes         []string // "METHOD table" for every tabular write
	uploads        []string // "bucket/key"
	storageDeletes []string
	storageFail    bool
}

func newFakeUpstream(t *testing.T) *fakeUpstream {
	f := &fakeUpstream{
		t:      t,
		tables: map[string][]map[string]any{},
		nextID: 1,
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeUpstream) handle(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.HasPrefix(r.URL.Path, "/rest/v1/"):
		f.handleRest(w, r)
	case strings.HasPrefix(r.URL.Path, "/storage/v1/object/"):
		f.handleStorage(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeUpstream) handleRest(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	table := strings.TrimPrefix(r.URL.Path, "/rest/v1/")

	filters := map[string]string{}
	for k, vals := range r.URL.Query() {
		if k == "select" || len(vals) == 0 {
			continue
		}
		filters[k] = strings.TrimPrefix(vals[0], "eq.")
	}

	matchIdx := []int{}
	for i, row := range f.tables[table] {
		ok := true
		for k, v := range filters {
			if fmt.Sprint(row[k]) != v {
				ok = false
				break
			}
		}
		if ok {
			matchIdx = append(matchIdx, i)
		}
	}

	writeRows := func(idx []int) {
		rows := []map[string]any{}
		for _, i := range idx {
			rows = append(rows, f.tables[table][i])
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(rows)
	}

	switch r.Method {
	case http.MethodGet:
		writeRows(matchIdx)
	case http.MethodPost:
		f.writes = append(f.writes, "POST "+table)
		var row map[string]any
		if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		row["id"] = f.nextID
		f.nextID++
		f.tables[table] = append(f.tables[table], row)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode([]map[string]any{row})
	case http.MethodPatch:
		f.writes = append(f.writes, "PATCH "+table)
		var patch map[string]any
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		for _, i := range matchIdx {
			for k, v := range patch {
				f.tables[table][i][k] = v
			}
		}
		writeRows(matchIdx)
	case http.MethodDelete:
		f.writes = append(f.writes, "DELETE "+table)
		kept := []map[string]any{}
		drop := map[int]bool{}
		for _, i := range matchIdx {
			drop[i] = true
		}
		for i, row := range f.tables[table] {
			if !drop[i] {
				kept = append(kept, row)
			}
		}
		f.tables[table] = kept
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "method", http.StatusMethodNotAllowed)
	}
}

func (f *fakeUpstream) handleStorage(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := strings.TrimPrefix(r.URL.Path, "/storage/v1/object/")
	switch r.Method {
	case http.MethodPost:
		if f.storageFail {
			http.Error(w, "bucket unavailable", http.StatusInternalServerError)
			return
		}
		f.uploads = append(f.uploads, key)
		_ = json.NewEncoder(w).Encode(map[string]string{"Key": key})
	case http.MethodDelete:
		f.storageDeletes = append(f.storageDeletes, key)
		if f.storageFail {
			http.Error(w, "bucket unavailable", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	default:
		http.Error(w, "method", http.StatusMethodNotAllowed)
	}
}

func (f *fakeUpstream) seed(table string, row map[string]any) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	row["id"] = id
	f.tables[table] = append(f.tables[table], row)
	return id
}

func (f *fakeUpstream) row(table string, id int64) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.tables[table] {
		if fmt.Sprint(row["id"]) == fmt.Sprint(id) {
			return row
		}
	}
	return nil
}

func (f *fakeUpstream) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.writes)
}

// newTestRouter mounts all entity routes against the fake, middleware-free,
// the way the routes are mounted in production.
func newTestRouter(f *fakeUpstream) *gin.Engine {
	gin.SetMode(gin.TestMode)

	store := supabase.New(supabase.Config{
		URL:        f.srv.URL,
		ServiceKey: "test-key",
		Timeout:    5 * time.Second,
	}, zap.NewNop())

	r := gin.New()

	cities := NewCityHandler(store)
	r.GET("/cities", cities.List)
	r.GET("/cities/:id", cities.Get)
	r.POST("/cities", cities.Create)
	r.PUT("/cities/:id", cities.Update)
	r.DELETE("/cities/:id", cities.Delete)

	categories := NewCategoryHandler(store)
	r.GET("/categories", categories.List)
	r.GET("/categories/:id", categories.Get)
	r.POST("/categories", categories.Create)
	r.PUT("/categories/:id", categories.Update)
	r.DELETE("/categories/:id", categories.Delete)

	services := NewServiceHandler(store, "logos")
	r.GET("/services", services.List)
	r.GET("/services/:id", services.Get)
	r.POST("/services", services.Create)
	r.PUT("/services/:id", services.Update)
	r.DELETE("/services/:id", services.Delete)
	r.POST("/services/:id/logo", services.UploadLogo)
	r.DELETE("/services/:id/logo", services.DeleteLogo)

	users := NewUserHandler(store, "avatars")
	r.GET("/users", users.List)
	r.GET("/users/:id", users.Get)
	r.POST("/users", users.Create)
	r.PUT("/users/:id", users.Update)
	r.DELETE("/users/:id", users.Delete)
	r.POST("/users/:id/avatar", users.UploadAvatar)
	r.DELETE("/users/:id/avatar", users.DeleteAvatar)

	return r
}

func urlID(prefix string, id int64) string { return fmt.Sprintf("%s/%d", prefix, id) }

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func doJSON(r *gin.Engine, method, url string, body any) *httptest.ResponseRecorder {
	var rd *strings.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = strings.NewReader(string(b))
	} else {
		rd = strings.NewReader("")
	}
	req := httptest.NewRequest(method, url, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doMultipart(r *gin.Engine, url, filename string, size int) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", filename)
	_, _ = fw.Write(bytes.Repeat([]byte{0xAB}, size))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, url, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
