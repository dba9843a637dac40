package web

import (
	"context"
	"encoding/json"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hpungsan/rolo/internal/config"
	"github.com/hpungsan/rolo/internal/contact"
	"github.com/hpungsan/rolo/internal/db"
	"github.com/hpungsan/rolo/internal/logger"
	"github.com/hpungsan/rolo/internal/ops"
	"github.com/hpungsan/rolo/internal/store"
)

func setupTest(t *testing.T) *Handlers {
	t.Helper()
	database, err := db.Init(filepath.Join(t.TempDir(), "contacts.db"))
	if err != nil {
		t.Fatalf("db.Init: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	lggr := logger.Test(t)
	svc := ops.NewService(store.New(database, lggr), config.DefaultConfig(), lggr)

	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		t.Fatalf("template sub-FS: %v", err)
	}

	return &Handlers{
		svc:      svc,
		renderer: NewRenderer(templateSub, "test", lggr),
	}
}

// seedContact adds a contact through the service.
func seedContact(t *testing.T, h *Handlers, c contact.Contact) {
	t.Helper()
	if _, err := h.svc.HandleAddContact(context.Background(), ops.AddContactCommand{Contact: c}); err != nil {
		t.Fatalf("seed contact %q: %v", c.Name, err)
	}
}

func ana() contact.Contact {
	return contact.Contact{
		Name: "Ana",
		Details: []contact.Detail{
			contact.Telephone{CountryCode: "1", CityCode: "555", Number: "1234"},
			contact.Email{Address: "ana@x.com"},
			contact.SocialMedia{Platform: "tw", Handle: "ana_t"},
		},
	}
}

// --- HandleList ---

func TestHandleList_Default(t *testing.T) {
	h := setupTest(t)
	seedContact(t, h, ana())
	seedContact(t, h, contact.Contact{Name: "Bob"})

	req := httptest.NewRequest("GET", "/contacts", nil)
	rec := httptest.NewRecorder()
	h.HandleList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"<!DOCTYPE html>", "Ana", "Bob", "Phone: 15551234", "Email: ana@x.com", "tw: ana_t"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in list page", want)
		}
	}
	if strings.Index(body, "Ana") > strings.Index(body, "Bob") {
		t.Error("contacts should appear in insertion order")
	}
}

func TestHandleList_Empty(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/contacts", nil)
	rec := httptest.NewRecorder()
	h.HandleList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No contacts available.") {
		t.Error("expected empty-state message")
	}
}

func TestHandleList_JSON(t *testing.T) {
	h := setupTest(t)
	seedContact(t, h, ana())

	req := httptest.NewRequest("GET", "/contacts", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.HandleList(rec, req)

	var resp struct {
		Contacts []contact.View `json:"contacts"`
		Count    int            `json:"count"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	if resp.Count != 1 || resp.Contacts[0].Name != "Ana" || len(resp.Contacts[0].Details) != 3 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestHandleList_EscapesNames(t *testing.T) {
	h := setupTest(t)
	seedContact(t, h, contact.Contact{Name: "<script>alert(1)</script>"})

	req := httptest.NewRequest("GET", "/contacts", nil)
	rec := httptest.NewRecorder()
	h.HandleList(rec, req)

	if strings.Contains(rec.Body.String(), "<script>alert(1)</script>") {
		t.Error("contact name must be HTML-escaped")
	}
}

// --- HandleSearch ---

func TestHandleSearch_EmptyQuery(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/contacts/search", nil)
	rec := httptest.NewRecorder()
	h.HandleSearch(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `name="name"`) {
		t.Error("expected search form")
	}
	if strings.Contains(body, "No contact found") {
		t.Error("empty query should not report a miss")
	}
}

func TestHandleSearch_Found(t *testing.T) {
	h := setupTest(t)
	seedContact(t, h, ana())

	req := httptest.NewRequest("GET", "/contacts/search?name=Ana", nil)
	rec := httptest.NewRecorder()
	h.HandleSearch(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "Found contact:") || !strings.Contains(body, "Phone: 15551234") {
		t.Errorf("expected found contact in body, got:\n%s", body)
	}
}

func TestHandleSearch_NotFound(t *testing.T) {
	h := setupTest(t)
	seedContact(t, h, ana())

	req := httptest.NewRequest("GET", "/contacts/search?name=ana", nil)
	rec := httptest.NewRecorder()
	h.HandleSearch(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No contact found with name") {
		t.Error("expected miss message (search is case-sensitive)")
	}
}

func TestHandleSearch_JSON(t *testing.T) {
	h := setupTest(t)
	seedContact(t, h, ana())

	req := httptest.NewRequest("GET", "/contacts/search?name=Ana", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.HandleSearch(rec, req)

	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	if resp["found"] != true {
		t.Errorf("found = %v, want true", resp["found"])
	}
}

// --- HandleDetail ---

func TestHandleDetail_Found(t *testing.T) {
	h := setupTest(t)
	seedContact(t, h, ana())

	req := httptest.NewRequest("GET", "/contacts/Ana", nil)
	req.SetPathValue("name", "Ana")
	rec := httptest.NewRecorder()
	h.HandleDetail(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	// Card rendered from markdown
	if !strings.Contains(body, "<h2>Ana</h2>") {
		t.Error("expected contact name heading")
	}
	if !strings.Contains(body, "<li>tw: ana_t</li>") {
		t.Error("expected social media list item with literal underscore")
	}
	if !strings.Contains(body, `data-delete="/contacts/Ana"`) {
		t.Error("expected delete button")
	}
}

func TestHandleDetail_NoDetails(t *testing.T) {
	h := setupTest(t)
	seedContact(t, h, contact.Contact{Name: "Bob"})

	req := httptest.NewRequest("GET", "/contacts/Bob", nil)
	req.SetPathValue("name", "Bob")
	rec := httptest.NewRecorder()
	h.HandleDetail(rec, req)

	if !strings.Contains(rec.Body.String(), "No contact details.") {
		t.Error("expected empty details note")
	}
}

func TestHandleDetail_NotFound(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/contacts/Ghost", nil)
	req.SetPathValue("name", "Ghost")
	rec := httptest.NewRecorder()
	h.HandleDetail(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHandleDetail_EmptyName(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/contacts/", nil)
	req.SetPathValue("name", "")
	rec := httptest.NewRecorder()
	h.HandleDetail(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleDetail_JSON(t *testing.T) {
	h := setupTest(t)
	seedContact(t, h, ana())

	req := httptest.NewRequest("GET", "/contacts/Ana", nil)
	req.SetPathValue("name", "Ana")
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.HandleDetail(rec, req)

	var view contact.View
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	if view.Name != "Ana" || view.Details[2].Value != "tw:ana_t" {
		t.Errorf("view = %+v", view)
	}
}

// --- HandleDelete ---

func TestHandleDelete_JSONRequest(t *testing.T) {
	h := setupTest(t)
	seedContact(t, h, ana())

	req := httptest.NewRequest("DELETE", "/contacts/Ana", nil)
	req.SetPathValue("name", "Ana")
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.HandleDelete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	if resp["deleted"] != true || resp["name"] != "Ana" {
		t.Errorf("resp = %v", resp)
	}

	_, found, err := h.svc.HandleGetContactByName(context.Background(), ops.GetContactByNameQuery{Name: "Ana"})
	if err != nil || found {
		t.Errorf("contact should be gone, found=%v err=%v", found, err)
	}
}

func TestHandleDelete_DefaultRedirect(t *testing.T) {
	h := setupTest(t)
	seedContact(t, h, ana())

	req := httptest.NewRequest("DELETE", "/contacts/Ana", nil)
	req.SetPathValue("name", "Ana")
	rec := httptest.NewRecorder()
	h.HandleDelete(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/contacts" {
		t.Errorf("Location = %q, want /contacts", loc)
	}
}

func TestHandleDelete_NotFound_JSON(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("DELETE", "/contacts/Ghost", nil)
	req.SetPathValue("name", "Ghost")
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.HandleDelete(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	errObj := resp["error"].(map[string]any)
	if errObj["code"] != "NOT_FOUND" || errObj["status"] != float64(404) {
		t.Errorf("error = %v", errObj)
	}
}

// --- Error rendering ---

func TestErrorRendering_FullErrorPage(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/contacts/Ghost", nil)
	req.SetPathValue("name", "Ghost")
	rec := httptest.NewRecorder()
	h.HandleDetail(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "<!DOCTYPE html>") {
		t.Error("full error page should contain layout")
	}
	if !strings.Contains(body, "404") || !strings.Contains(body, "error-message") {
		t.Error("error page should show status code and message")
	}
}

// --- Routing ---

func TestRoutes(t *testing.T) {
	h := setupTest(t)
	seedContact(t, h, contact.Contact{Name: "Ana Maria"})

	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(routes(h, staticSub))
	defer srv.Close()

	client := srv.Client()
	client.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

	tests := []struct {
		method string
		path   string
		status int
	}{
		{"GET", "/", http.StatusFound},
		{"GET", "/contacts", http.StatusOK},
		{"GET", "/contacts/search?name=Ana+Maria", http.StatusOK},
		{"GET", "/contacts/" + url.PathEscape("Ana Maria"), http.StatusOK},
		{"GET", "/contacts/Ghost", http.StatusNotFound},
		{"GET", "/static/style.css", http.StatusOK},
		{"POST", "/contacts", http.StatusMethodNotAllowed},
		{"DELETE", "/contacts/" + url.PathEscape("Ana Maria"), http.StatusSeeOther},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, nil)
			if err != nil {
				t.Fatal(err)
			}
			resp, err := client.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if resp.Header.Get("X-Frame-Options") != "DENY" {
				t.Error("missing security headers")
			}
		})
	}
}

func TestContactMarkdown(t *testing.T) {
	got := contactMarkdown(ana())
	want := "## Ana\n\n- Phone: 15551234\n- Email: ana@x\\.com\n- tw: ana\\_t\n"
	if got != want {
		t.Errorf("contactMarkdown() = %q, want %q", got, want)
	}
}

func TestRenderMarkdown_DropsRawHTML(t *testing.T) {
	out := string(renderMarkdown("<script>alert(1)</script>"))
	if strings.Contains(out, "<script>") {
		t.Errorf("raw HTML should not pass through: %s", out)
	}
}
