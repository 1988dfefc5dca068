package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ninetytwo-orders/internal/config"
	"github.com/ninetytwo-orders/internal/models"
	"github.com/ninetytwo-orders/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupRouterTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.MigrateDB(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	cfg := config.Defaults()
	cfg.Admin.Login = "admin"
	cfg.Admin.Password = "secret"
	cfg.Admin.PasswordHash = ""
	cfg.Admin.SessionMode = config.SessionModeStatic
	cfg.Captcha.Enabled = false
	cfg.Queue.Enabled = false
	cfg.Redis.Enabled = false
	cfg.Export.ArchiveDir = t.TempDir()
	return SetupRouter(cfg, provider.NewContainerWithDB(cfg, db))
}

func doRequest(r http.Handler, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v (%s)", err, w.Body.String())
	}
	return body
}

func login(t *testing.T, r http.Handler) *http.Cookie {
	t.Helper()
	w := doRequest(r, http.MethodPost, "/api/login", `{"login":"admin","password":"secret"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login want 200 got %d: %s", w.Code, w.Body.String())
	}
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "nt_admin" {
			return cookie
		}
	}
	t.Fatalf("session cookie missing")
	return nil
}

func createOrder(t *testing.T, r http.Handler, session *http.Cookie, slug string) {
	t.Helper()
	body := fmt.Sprintf(`{"slug":%q,"title":"FC Polako","rowsCount":3,"sport":"Football","products":["jersey","shorts"]}`, slug)
	w := doRequest(r, http.MethodPost, "/api/orders", body, session)
	if w.Code != http.StatusOK {
		t.Fatalf("create order want 200 got %d: %s", w.Code, w.Body.String())
	}
	resp := decodeBody(t, w)
	if resp["ok"] != true || resp["slug"] != slug {
		t.Fatalf("unexpected create response: %v", resp)
	}
}

func firstRowID(t *testing.T, r http.Handler, slug string) int {
	t.Helper()
	w := doRequest(r, http.MethodGet, "/api/orders/"+slug, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get order want 200 got %d", w.Code)
	}
	var doc struct {
		Rows []struct {
			ID int `json:"id"`
		} `json:"rows"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode order failed: %v", err)
	}
	if len(doc.Rows) == 0 {
		t.Fatalf("order has no rows")
	}
	return doc.Rows[0].ID
}

func TestLoginIssuesSessionCookie(t *testing.T) {
	r := setupRouterTest(t)

	w := doRequest(r, http.MethodPost, "/api/login", `{"login":"admin","password":"wrong"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad credentials want 401 got %d", w.Code)
	}
	if got := decodeBody(t, w)["error"]; got != "Invalid login or password" {
		t.Fatalf("unexpected error message %v", got)
	}

	w = doRequest(r, http.MethodPost, "/api/login", `{"login":"admin","password":"secret"}`)
	if w.Code != http.StatusOK || decodeBody(t, w)["ok"] != true {
		t.Fatalf("login want ok got %d: %s", w.Code, w.Body.String())
	}
	header := w.Header().Get("Set-Cookie")
	for _, want := range []string{"nt_admin=1", "Path=/", "Max-Age=86400", "HttpOnly", "SameSite=Lax"} {
		if !strings.Contains(header, want) {
			t.Fatalf("cookie %q missing %s", header, want)
		}
	}
}

func TestAdminEndpointsRequireSession(t *testing.T) {
	r := setupRouterTest(t)
	cases := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/orders", ""},
		{http.MethodPost, "/api/orders", `{"slug":"x","title":"y"}`},
		{http.MethodPatch, "/api/orders/x", `{"title":"z"}`},
		{http.MethodDelete, "/api/orders/x", ""},
		{http.MethodPost, "/api/orders/x/exports", ""},
	}
	for _, tc := range cases {
		w := doRequest(r, tc.method, tc.path, tc.body)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s want 401 got %d", tc.method, tc.path, w.Code)
		}
		if got := decodeBody(t, w)["error"]; got != "Unauthorized" {
			t.Fatalf("%s %s unexpected error %v", tc.method, tc.path, got)
		}
	}

	forged := &http.Cookie{Name: "nt_admin", Value: "0"}
	if w := doRequest(r, http.MethodGet, "/api/orders", "", forged); w.Code != http.StatusUnauthorized {
		t.Fatalf("forged cookie want 401 got %d", w.Code)
	}
}

func TestSessionEndpoint(t *testing.T) {
	r := setupRouterTest(t)
	if got := decodeBody(t, doRequest(r, http.MethodGet, "/api/session", ""))["admin"]; got != false {
		t.Fatalf("guest session want admin=false got %v", got)
	}
	session := login(t, r)
	if got := decodeBody(t, doRequest(r, http.MethodGet, "/api/session", "", session))["admin"]; got != true {
		t.Fatalf("admin session want admin=true got %v", got)
	}
	w := doRequest(r, http.MethodPost, "/api/logout", "", session)
	if w.Code != http.StatusOK || !strings.Contains(w.Header().Get("Set-Cookie"), "Max-Age=0") {
		t.Fatalf("logout should expire cookie, got %d %q", w.Code, w.Header().Get("Set-Cookie"))
	}
}

func TestOrderLifecycle(t *testing.T) {
	r := setupRouterTest(t)
	session := login(t, r)
	createOrder(t, r, session, "fc-polako")

	w := doRequest(r, http.MethodPost, "/api/orders", `{"slug":"fc-polako","title":"Again","products":["jersey"]}`, session)
	if w.Code != http.StatusBadRequest || decodeBody(t, w)["error"] == "" {
		t.Fatalf("duplicate slug want 400 with message got %d: %s", w.Code, w.Body.String())
	}
	w = doRequest(r, http.MethodPost, "/api/orders", `{"slug":"","title":"x"}`, session)
	if w.Code != http.StatusBadRequest || decodeBody(t, w)["error"] != "slug and title are required" {
		t.Fatalf("missing slug want 400 got %d: %s", w.Code, w.Body.String())
	}

	w = doRequest(r, http.MethodGet, "/api/orders", "", session)
	var list struct {
		Orders []struct {
			Slug string `json:"slug"`
		} `json:"orders"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil || len(list.Orders) != 1 || list.Orders[0].Slug != "fc-polako" {
		t.Fatalf("unexpected order list %s (%v)", w.Body.String(), err)
	}

	w = doRequest(r, http.MethodGet, "/api/orders/fc-polako", "")
	doc := decodeBody(t, w)
	for _, key := range []string{"id", "slug", "title", "columns", "config", "unitLabels", "rows"} {
		if _, ok := doc[key]; !ok {
			t.Fatalf("order document missing %s", key)
		}
	}
	if rows := doc["rows"].([]interface{}); len(rows) != 3 {
		t.Fatalf("expected 3 rows got %d", len(rows))
	}

	w = doRequest(r, http.MethodPatch, "/api/orders/fc-polako", `{"title":"FC Polako 2026"}`, session)
	if w.Code != http.StatusOK {
		t.Fatalf("patch order want 200 got %d: %s", w.Code, w.Body.String())
	}
	if got := decodeBody(t, doRequest(r, http.MethodGet, "/api/orders/fc-polako", ""))["title"]; got != "FC Polako 2026" {
		t.Fatalf("title not updated: %v", got)
	}
	if w := doRequest(r, http.MethodPatch, "/api/orders/ghost", `{"title":"x"}`, session); w.Code != http.StatusNotFound {
		t.Fatalf("patch unknown order want 404 got %d", w.Code)
	}

	if w := doRequest(r, http.MethodDelete, "/api/orders/fc-polako", "", session); w.Code != http.StatusOK {
		t.Fatalf("delete order want 200 got %d", w.Code)
	}
	w = doRequest(r, http.MethodGet, "/api/orders/fc-polako", "")
	if w.Code != http.StatusNotFound || decodeBody(t, w)["error"] != "Order not found" {
		t.Fatalf("deleted order want 404 got %d", w.Code)
	}
	if w := doRequest(r, http.MethodDelete, "/api/orders/fc-polako", "", session); w.Code != http.StatusNotFound {
		t.Fatalf("second delete want 404 got %d", w.Code)
	}
}

func TestRowEndpointsArePublic(t *testing.T) {
	r := setupRouterTest(t)
	createOrder(t, r, login(t, r), "rows")
	rowID := firstRowID(t, r, "rows")

	w := doRequest(r, http.MethodPatch, fmt.Sprintf("/api/orders/rows/rows/%d", rowID), `{"data":{"name":"Berzins","qty_jersey":"3,5"}}`)
	if w.Code != http.StatusOK || decodeBody(t, w)["ok"] != true {
		t.Fatalf("patch row want ok got %d: %s", w.Code, w.Body.String())
	}
	if w := doRequest(r, http.MethodPatch, "/api/orders/rows/rows/999999", `{"data":{}}`); w.Code != http.StatusNotFound || decodeBody(t, w)["error"] != "Row not found" {
		t.Fatalf("unknown row want 404 got %d", w.Code)
	}
	if w := doRequest(r, http.MethodPatch, "/api/orders/rows/rows/abc", `{"data":{}}`); w.Code != http.StatusNotFound {
		t.Fatalf("malformed row id want 404 got %d", w.Code)
	}
	if w := doRequest(r, http.MethodPatch, fmt.Sprintf("/api/orders/ghost/rows/%d", rowID), `{"data":{}}`); w.Code != http.StatusNotFound || decodeBody(t, w)["error"] != "Order not found" {
		t.Fatalf("unknown order want 404 got %d", w.Code)
	}

	w = doRequest(r, http.MethodPost, "/api/orders/rows/rows", "")
	if w.Code != http.StatusOK {
		t.Fatalf("add row want 200 got %d", w.Code)
	}
	newID, ok := decodeBody(t, w)["id"].(float64)
	if !ok || newID <= float64(rowID) {
		t.Fatalf("unexpected new row id %v", newID)
	}
	if w := doRequest(r, http.MethodDelete, fmt.Sprintf("/api/orders/rows/rows/%d", int(newID)), ""); w.Code != http.StatusOK {
		t.Fatalf("delete row want 200 got %d", w.Code)
	}
	if w := doRequest(r, http.MethodDelete, fmt.Sprintf("/api/orders/rows/rows/%d", int(newID)), ""); w.Code != http.StatusNotFound {
		t.Fatalf("second delete row want 404 got %d", w.Code)
	}
}

func TestExportEndpoints(t *testing.T) {
	r := setupRouterTest(t)
	session := login(t, r)
	createOrder(t, r, session, "print")

	w := doRequest(r, http.MethodGet, "/api/orders/print/export?mode=factory", "")
	if w.Code != http.StatusOK || !strings.HasPrefix(w.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("export want html got %d %s", w.Code, w.Header().Get("Content-Type"))
	}
	if strings.Contains(w.Body.String(), "PRICE") {
		t.Fatalf("factory export must hide prices")
	}
	if w := doRequest(r, http.MethodGet, "/api/orders/print/export?mode=draft", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("invalid mode want 400 got %d", w.Code)
	}

	w = doRequest(r, http.MethodPost, "/api/orders/print/exports", `{"mode":"full"}`, session)
	if w.Code != http.StatusOK {
		t.Fatalf("archive want 200 got %d: %s", w.Code, w.Body.String())
	}
	resp := decodeBody(t, w)
	if resp["queued"] != false || !strings.HasSuffix(fmt.Sprint(resp["path"]), ".html") {
		t.Fatalf("unexpected archive response %v", resp)
	}
}

func TestCatalogAndSizeSuggestion(t *testing.T) {
	r := setupRouterTest(t)
	w := doRequest(r, http.MethodGet, "/api/catalog?sport=Hockey", "")
	if w.Code != http.StatusOK || decodeBody(t, w)["sport"] != "Hockey" {
		t.Fatalf("catalog want Hockey got %d: %s", w.Code, w.Body.String())
	}

	w = doRequest(r, http.MethodGet, "/api/size-suggestion?height=172&weight=58", "")
	resp := decodeBody(t, w)
	if w.Code != http.StatusOK || resp["size"] != "L" || resp["mode"] != "match" {
		t.Fatalf("unexpected suggestion %d %v", w.Code, resp)
	}
	if w := doRequest(r, http.MethodGet, "/api/size-suggestion?height=&weight=58", ""); w.Code != http.StatusNotFound {
		t.Fatalf("missing height want 404 got %d", w.Code)
	}
	if w := doRequest(r, http.MethodGet, "/api/captcha", ""); w.Code != http.StatusNotFound {
		t.Fatalf("disabled captcha want 404 got %d", w.Code)
	}
}
