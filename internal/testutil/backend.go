// Package testutil provides an in-memory academy backend for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/mux"
)

// Fixed credentials and tokens issued by the fake backend.
const (
	AdminEmail    = "admin@befa.ng"
	AdminPassword = "secret"
	AccessToken   = "access-1"
	RefreshToken  = "refresh-1"
)

// Request is one recorded call.
type Request struct {
	Method      string
	Path        string
	Query       string
	ContentType string
	Auth        string
	Body        []byte
}

// Backend is a mux-routed fake of the admin API. Records are stored as raw JSON objects.
type Backend struct {
	Router *mux.Router
	Server *httptest.Server

	mu          sync.Mutex
	collections map[string]map[int64]map[string]any
	nextID      int64
	requests    []Request
	overrides   map[string]http.HandlerFunc
	paginate    bool
	access      string
	extraction  map[string]any
	pdf         []byte
}

// NewBackend starts a server mounted under /api. Callers must Close it.
func NewBackend() *Backend {
	b := &Backend{
		Router:      mux.NewRouter(),
		collections: map[string]map[int64]map[string]any{},
		overrides:   map[string]http.HandlerFunc{},
		access:      AccessToken,
		pdf:         []byte("%PDF-1.4 registration"),
	}
	for _, c := range []string{"players", "events", "posts", "products", "orders"} {
		b.collections[c] = map[int64]map[string]any{}
	}
	b.Router.Use(b.record)
	b.Router.Use(b.override)
	b.RegisterRoutes(b.Router.PathPrefix("/api").Subrouter())
	b.Server = httptest.NewServer(b.Router)
	return b
}

// URL is the API base URL.
func (b *Backend) URL() string { return b.Server.URL + "/api" }

// Close stops the server.
func (b *Backend) Close() { b.Server.Close() }

// RegisterRoutes wires every endpoint the client uses.
func (b *Backend) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/auth/admin-login/", b.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/auth/jwt/refresh/", b.handleRefresh).Methods(http.MethodPost)

	a := r.NewRoute().Subrouter()
	a.Use(b.requireAuth)
	a.HandleFunc("/auth/me/", b.handleMe).Methods(http.MethodGet)
	a.HandleFunc("/admin/dashboard/stats/", b.handleStats).Methods(http.MethodGet)
	a.HandleFunc("/admin/dashboard/recent-players/", b.handleRecent).Methods(http.MethodGet)
	a.HandleFunc("/admin/dashboard/position-breakdown/", b.handlePositions).Methods(http.MethodGet)
	a.HandleFunc("/admin/players/extract-from-pdf/", b.handleExtract).Methods(http.MethodPost)
	a.HandleFunc("/admin/players/{id:[0-9]+}/upload-photo/", b.handleUpload("players", "player_image")).Methods(http.MethodPost)
	a.HandleFunc("/admin/players/{id:[0-9]+}/download-pdf/", b.handlePDF).Methods(http.MethodGet)
	a.HandleFunc("/admin/posts/{id:[0-9]+}/upload-image/", b.handleUpload("posts", "image_url")).Methods(http.MethodPost)
	a.HandleFunc("/admin/products/{id:[0-9]+}/upload-image/", b.handleUpload("products", "image_url")).Methods(http.MethodPost)
	a.HandleFunc("/admin/uploads/image/", b.handleUpload("", "")).Methods(http.MethodPost)

	for _, c := range []string{"players", "events", "posts", "products", "orders"} {
		a.HandleFunc("/admin/"+c+"/", b.handleList(c)).Methods(http.MethodGet)
		a.HandleFunc("/admin/"+c+"/", b.handleCreate(c)).Methods(http.MethodPost)
		a.HandleFunc("/admin/"+c+"/{id:[0-9]+}/", b.handleGet(c)).Methods(http.MethodGet)
		a.HandleFunc("/admin/"+c+"/{id:[0-9]+}/", b.handlePatch(c)).Methods(http.MethodPatch)
		a.HandleFunc("/admin/"+c+"/{id:[0-9]+}/", b.handleDelete(c)).Methods(http.MethodDelete)
	}
}

// Override replaces the handler for method and API-relative path.
func (b *Backend) Override(method, path string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.overrides[method+" /api"+path] = h
}

// Paginate switches list responses to the {count, results} envelope.
func (b *Backend) Paginate(on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.paginate = on
}

// RevokeTokens makes every authenticated call fail with 401.
func (b *Backend) RevokeTokens() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.access = ""
}

// SetExtraction sets the OCR result returned by the extract endpoint.
func (b *Backend) SetExtraction(fields map[string]any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.extraction = fields
}

// Seed stores a record and returns its id.
func (b *Backend) Seed(collection string, record map[string]any) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.insert(collection, record)
}

// Record returns a stored record.
func (b *Backend) Record(collection string, id int64) (map[string]any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	rec, ok := b.collections[collection][id]
	return rec, ok
}

// Requests returns a copy of the request log.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// LastRequest returns the most recent call.
func (b *Backend) LastRequest() Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.requests) == 0 {
		return Request{}
	}
	return b.requests[len(b.requests)-1]
}

func (b *Backend) insert(collection string, record map[string]any) int64 {
	b.nextID++
	id := b.nextID
	rec := map[string]any{}
	for k, v := range record {
		rec[k] = v
	}
	rec["id"] = id
	b.collections[collection][id] = rec
	return id
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		b.mu.Lock()
		b.requests = append(b.requests, Request{
			Method:      r.Method,
			Path:        r.URL.Path,
			Query:       r.URL.RawQuery,
			ContentType: r.Header.Get("Content-Type"),
			Auth:        r.Header.Get("Authorization"),
			Body:        body,
		})
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) override(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		h, ok := b.overrides[r.Method+" "+r.URL.Path]
		b.mu.Unlock()
		if ok {
			h(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		want := b.access
		b.mu.Unlock()
		if want == "" || r.Header.Get("Authorization") != "Bearer "+want {
			WriteJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WriteJSON writes v with status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func decodeObject(r *http.Request) (map[string]any, error) {
	obj := map[string]any{}
	if err := json.NewDecoder(r.Body).Decode(&obj); err != nil {
		return nil, err
	}
	return obj, nil
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	obj, err := decodeObject(r)
	if err != nil {
		WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	if obj["email"] != AdminEmail || obj["password"] != AdminPassword {
		WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		return
	}
	b.mu.Lock()
	b.access = AccessToken
	b.mu.Unlock()
	WriteJSON(w, http.StatusOK, map[string]any{
		"access":  AccessToken,
		"refresh": RefreshToken,
		"user":    map[string]any{"id": 1, "email": AdminEmail, "first_name": "Ada", "is_staff": true},
	})
}

func (b *Backend) handleRefresh(w http.ResponseWriter, r *http.Request) {
	obj, err := decodeObject(r)
	if err != nil || obj["refresh"] != RefreshToken {
		WriteJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired"})
		return
	}
	b.mu.Lock()
	b.access = "access-2"
	b.mu.Unlock()
	WriteJSON(w, http.StatusOK, map[string]string{"access": "access-2"})
}

func (b *Backend) handleMe(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{"id": 1, "email": AdminEmail, "first_name": "Ada", "last_name": "Obi", "is_staff": true})
}

func (b *Backend) sorted(collection string) []map[string]any {
	recs := make([]map[string]any, 0, len(b.collections[collection]))
	for _, rec := range b.collections[collection] {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i]["id"].(int64) < recs[j]["id"].(int64) })
	return recs
}

func (b *Backend) handleStats(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	stats := map[string]any{"total_players": len(b.collections["players"]), "new_this_month": 0, "admitted": 0, "pending": 0}
	for _, p := range b.collections["players"] {
		switch p["admission_status"] {
		case "admitted":
			stats["admitted"] = stats["admitted"].(int) + 1
		case "pending", nil:
			stats["pending"] = stats["pending"].(int) + 1
		}
	}
	stats["new_this_month"] = stats["total_players"]
	WriteJSON(w, http.StatusOK, stats)
}

func (b *Backend) handleRecent(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	recs := b.sorted("players")
	b.mu.Unlock()
	for i, j := 0, len(recs)-1; i < j; i, j = i+1, j-1 {
		recs[i], recs[j] = recs[j], recs[i]
	}
	if len(recs) > 5 {
		recs = recs[:5]
	}
	WriteJSON(w, http.StatusOK, recs)
}

func (b *Backend) handlePositions(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	counts := map[string]int{}
	for _, p := range b.collections["players"] {
		if pos, ok := p["soccer_position"].(string); ok && pos != "" {
			counts[pos+"s"]++
		}
	}
	out := []map[string]any{}
	for _, label := range []string{"Strikers", "Midfielders", "Defenders", "Goalkeepers"} {
		out = append(out, map[string]any{"label": label, "count": counts[label]})
	}
	WriteJSON(w, http.StatusOK, out)
}

func (b *Backend) handleList(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		b.mu.Lock()
		recs := b.sorted(collection)
		paginate := b.paginate
		b.mu.Unlock()

		out := []map[string]any{}
		for _, rec := range recs {
			if collection == "players" && !matchPlayer(rec, q.Get("search"), q.Get("position"), q.Get("status")) {
				continue
			}
			out = append(out, rec)
		}
		if paginate {
			WriteJSON(w, http.StatusOK, map[string]any{"count": len(out), "next": nil, "previous": nil, "results": out})
			return
		}
		WriteJSON(w, http.StatusOK, out)
	}
}

func matchPlayer(rec map[string]any, search, position, status string) bool {
	str := func(k string) string { s, _ := rec[k].(string); return s }
	if position != "" && str("soccer_position") != position {
		return false
	}
	if status != "" && str("admission_status") != status {
		return false
	}
	if search != "" {
		hay := strings.ToLower(str("surname") + " " + str("other_name") + " " + str("middle_name"))
		if !strings.Contains(hay, strings.ToLower(search)) {
			return false
		}
	}
	return true
}

func (b *Backend) handleCreate(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		obj, err := decodeObject(r)
		if err != nil {
			WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
			return
		}
		if collection == "players" {
			if s, _ := obj["surname"].(string); s == "" {
				WriteJSON(w, http.StatusBadRequest, map[string][]string{"surname": {"This field may not be blank."}})
				return
			}
			obj["created_at"] = "2026-01-15T10:00:00Z"
		}
		if collection == "posts" {
			obj["author_email"] = AdminEmail
			obj["like_count"] = 0
		}
		b.mu.Lock()
		id := b.insert(collection, obj)
		rec := b.collections[collection][id]
		b.mu.Unlock()
		WriteJSON(w, http.StatusCreated, rec)
	}
}

func (b *Backend) handleGet(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, ok := b.Record(collection, pathID(r))
		if !ok {
			WriteJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
			return
		}
		WriteJSON(w, http.StatusOK, rec)
	}
}

func (b *Backend) handlePatch(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		obj, err := decodeObject(r)
		if err != nil {
			WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
			return
		}
		b.mu.Lock()
		rec, ok := b.collections[collection][pathID(r)]
		if ok {
			for k, v := range obj {
				if k != "id" {
					rec[k] = v
				}
			}
		}
		b.mu.Unlock()
		if !ok {
			WriteJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
			return
		}
		WriteJSON(w, http.StatusOK, rec)
	}
}

func (b *Backend) handleDelete(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r)
		b.mu.Lock()
		_, ok := b.collections[collection][id]
		delete(b.collections[collection], id)
		b.mu.Unlock()
		if !ok {
			WriteJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleUpload stores nothing but the resulting URL; collection "" is the generic endpoint.
func (b *Backend) handleUpload(collection, field string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "No file provided"})
			return
		}
		_ = f.Close()

		if collection == "" {
			WriteJSON(w, http.StatusOK, map[string]string{
				"url":       "https://cdn.befa.test/uploads/" + hdr.Filename,
				"public_id": "uploads/" + strings.TrimSuffix(hdr.Filename, "."+ext(hdr.Filename)),
			})
			return
		}

		id := pathID(r)
		url := fmt.Sprintf("https://cdn.befa.test/%s/%d/%s", collection, id, hdr.Filename)
		b.mu.Lock()
		rec, ok := b.collections[collection][id]
		if ok {
			rec[field] = url
		}
		b.mu.Unlock()
		if !ok {
			WriteJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
			return
		}
		if collection == "players" {
			WriteJSON(w, http.StatusOK, map[string]string{"image_url": url})
			return
		}
		WriteJSON(w, http.StatusOK, rec)
	}
}

func ext(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return ""
}

func (b *Backend) handleExtract(w http.ResponseWriter, r *http.Request) {
	f, _, err := r.FormFile("file")
	if err != nil {
		WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "No file provided"})
		return
	}
	_ = f.Close()
	b.mu.Lock()
	ex := b.extraction
	b.mu.Unlock()
	if ex == nil {
		ex = map[string]any{}
	}
	WriteJSON(w, http.StatusOK, ex)
}

func (b *Backend) handlePDF(w http.ResponseWriter, r *http.Request) {
	if _, ok := b.Record("players", pathID(r)); !ok {
		WriteJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	b.mu.Lock()
	pdf := b.pdf
	b.mu.Unlock()
	w.Header().Set("Content-Type", "application/pdf")
	_, _ = w.Write(pdf)
}
