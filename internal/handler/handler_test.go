package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vaultpass/pwgen/internal/generator"
	"github.com/vaultpass/pwgen/internal/model"
	"github.com/vaultpass/pwgen/internal/settings"
)

type stubClient struct {
	resp model.GenerateResponse
	err  error
	last model.GenerateRequest
}

func (c *stubClient) Generate(ctx context.Context, req model.GenerateRequest) (model.GenerateResponse, error) {
	c.last = req
	return c.resp, c.err
}

func newTestRouter(t *testing.T, client *stubClient) http.Handler {
	t.Helper()
	codec, err := settings.NewCodec([]byte("0123456789abcdef0123456789abcdef"))
	if err != nil {
		t.Fatalf("NewCodec() unexpected error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewRouter(ctx, RouterConfig{
		Generator: NewGeneratorHandler(client),
		Settings:  NewSettingsHandler(codec, settings.DefaultStoreOptions()),
		RPS:       100,
		Burst:     100,
	})
}

func do(h http.Handler, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func settingsCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == settings.CookieName {
			return c
		}
	}
	return nil
}

func strPtr(s string) *string { return &s }

func TestHealth(t *testing.T) {
	rec := do(newTestRouter(t, &stubClient{}), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("got %d %q", rec.Code, rec.Body.String())
	}
}

func TestHandleGenerate_Single(t *testing.T) {
	client := &stubClient{resp: model.GenerateResponse{Password: strPtr("Aa1!aaaaaaaa")}}
	rec := do(newTestRouter(t, client), http.MethodPost, "/api/v1/generate", `{"passphraseToggle":true,"wordCount":6}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp GenerateResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if resp.Password == nil || *resp.Password != "Aa1!aaaaaaaa" {
		t.Errorf("password = %v", resp.Password)
	}
	if resp.Strength == nil || resp.Strength.Score != 5 {
		t.Errorf("strength = %+v", resp.Strength)
	}
	if client.last.Kind != model.KindPassphrase || client.last.WordCount != 6 || client.last.Length != 12 {
		t.Errorf("forwarded request = %+v", client.last)
	}
}

func TestHandleGenerate_Multi(t *testing.T) {
	client := &stubClient{resp: model.GenerateResponse{Passwords: []string{"a", "bbbbbbbb"}}}
	rec := do(newTestRouter(t, client), http.MethodPost, "/api/v1/generate", `{}`)

	var resp GenerateResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if len(resp.Strengths) != 2 || resp.Strengths[1].Score != 2 {
		t.Errorf("strengths = %+v", resp.Strengths)
	}
}

func TestHandleGenerate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"invalid body", `{`, nil, http.StatusBadRequest},
		{"invalid separator", `{"separator":"pipe"}`, nil, http.StatusBadRequest},
		{"zero length", `{"length":0}`, nil, http.StatusBadRequest},
		{"upstream status", `{}`, &generator.GenerationError{Kind: generator.KindResponse, StatusCode: 500}, http.StatusBadGateway},
		{"upstream down", `{}`, &generator.GenerationError{Kind: generator.KindTransport}, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &stubClient{err: tt.err, resp: model.GenerateResponse{Password: strPtr("x")}}
			rec := do(newTestRouter(t, client), http.MethodPost, "/api/v1/generate", tt.body)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body.String())
			}
		})
	}
}

func TestHandleStrength(t *testing.T) {
	h := newTestRouter(t, &stubClient{})

	rec := do(h, http.MethodPost, "/api/v1/strength", `{"secret":"Aa1!aaaaaaaa"}`)
	var resp StrengthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if !resp.Rated || resp.Score != 5 || resp.Label != "Strong" {
		t.Errorf("response = %+v", resp)
	}

	rec = do(h, http.MethodPost, "/api/v1/strength", `{"secret":""}`)
	resp = StrengthResponse{}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if resp.Rated {
		t.Errorf("empty secret rated: %+v", resp)
	}
}

func TestSettingsLifecycle(t *testing.T) {
	h := newTestRouter(t, &stubClient{})

	rec := do(h, http.MethodGet, "/api/v1/settings", "")
	var got SettingsResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if got.Saved || got.Settings != model.DefaultSettings() {
		t.Fatalf("initial settings = %+v", got)
	}

	s := model.DefaultSettings()
	s.Length = 30
	s.Language = "de"
	body, _ := json.Marshal(map[string]any{"settings": s, "save": true})
	rec = do(h, http.MethodPut, "/api/v1/settings", string(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d, body %s", rec.Code, rec.Body.String())
	}
	cookie := settingsCookie(rec)
	if cookie == nil {
		t.Fatal("PUT did not set the settings cookie")
	}
	if cookie.MaxAge != 31536000 || cookie.SameSite != http.SameSiteStrictMode || cookie.Path != "/" {
		t.Errorf("cookie attributes = %+v", cookie)
	}

	rec = do(h, http.MethodGet, "/api/v1/settings", "", cookie)
	got = SettingsResponse{}
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if !got.Saved || got.Settings != s {
		t.Errorf("settings after save = %+v", got)
	}

	body, _ = json.Marshal(map[string]any{"settings": s, "save": false})
	rec = do(h, http.MethodPut, "/api/v1/settings", string(body), cookie)
	if c := settingsCookie(rec); c == nil || c.MaxAge >= 0 {
		t.Errorf("save=false did not expire cookie: %+v", c)
	}
}

func TestSettingsCorruptCookie(t *testing.T) {
	h := newTestRouter(t, &stubClient{})

	rec := do(h, http.MethodGet, "/api/v1/settings", "", &http.Cookie{Name: settings.CookieName, Value: "garbage"})
	var got SettingsResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if got.Saved || got.Settings != model.DefaultSettings() {
		t.Errorf("corrupt cookie settings = %+v", got)
	}
	if c := settingsCookie(rec); c == nil || c.MaxAge >= 0 {
		t.Errorf("corrupt cookie not expired: %+v", c)
	}
}

func TestSettingsDelete(t *testing.T) {
	rec := do(newTestRouter(t, &stubClient{}), http.MethodDelete, "/api/v1/settings", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if c := settingsCookie(rec); c == nil || c.MaxAge >= 0 {
		t.Errorf("cookie not expired: %+v", c)
	}
}
