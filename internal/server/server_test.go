package server

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"

	"github.com/diogo/offsum/internal/models"
	"github.com/diogo/offsum/internal/reply"
	"github.com/diogo/offsum/internal/session"
)

const longText = "Artificial Intelligence is transforming industries by automating tasks, " +
	"improving decision-making, and enabling new products and services. It is used in " +
	"healthcare, finance, education, and transport, and its reach keeps growing each year."

type client struct {
	t      *testing.T
	srv    *Server
	cookie *http.Cookie
}

func newTestServer(t *testing.T, variant models.Variant, opts ...session.Option) *client {
	t.Helper()
	opts = append([]session.Option{session.WithThinkingDelay(0)}, opts...)
	return &client{
		t: t,
		srv: New(Options{
			Variant:  variant,
			Sessions: session.NewManager(time.Hour, nil, opts...),
		}),
	}
}

func (c *client) do(method, path, contentType, body string) *httptest.ResponseRecorder {
	c.t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	rec := httptest.NewRecorder()
	c.srv.Handler().ServeHTTP(rec, req)

	for _, ck := range rec.Result().Cookies() {
		if ck.Name == CookieName {
			c.cookie = ck
		}
	}
	return rec
}

func (c *client) json(method, path, body string) *httptest.ResponseRecorder {
	return c.do(method, path, "application/json", body)
}

func (c *client) form(path string, values url.Values) *httptest.ResponseRecorder {
	return c.do(http.MethodPost, path, "application/x-www-form-urlencoded", values.Encode())
}

func TestHealth(t *testing.T) {
	c := newTestServer(t, models.VariantSummarize)

	rec := c.json(http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := gjson.Get(rec.Body.String(), "status").String(); got != "healthy" {
		t.Errorf("status field = %q", got)
	}
	if c.cookie != nil {
		t.Error("health should not create a session")
	}
}

func TestPostMessage_Replies(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		style string
		want  string
	}{
		{"short input", "hello", "", reply.PasteContentPrompt},
		{"trigger phrase", "Please SUMMARISE my large paragraph", "", reply.CannedParagraphReply},
		{"long input", longText, "Exam Ready", "**Summary Style:** Exam Ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestServer(t, models.VariantSummarize)
			if tt.style != "" {
				if rec := c.json(http.MethodPut, "/api/style", `{"style":"`+tt.style+`"}`); rec.Code != http.StatusOK {
					t.Fatalf("PUT /api/style status = %d", rec.Code)
				}
			}

			rec := c.json(http.MethodPost, "/api/messages", `{"text":`+quote(tt.text)+`}`)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
			}

			body := rec.Body.String()
			if !gjson.Get(body, "appended").Bool() {
				t.Error("expected appended=true")
			}
			if n := gjson.Get(body, "messages.#").Int(); n != 2 {
				t.Fatalf("messages = %d, want 2", n)
			}
			if got := gjson.Get(body, "messages.0.role").String(); got != "user" {
				t.Errorf("first role = %q", got)
			}
			if got := gjson.Get(body, "messages.1.content").String(); !strings.Contains(got, tt.want) {
				t.Errorf("reply = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func TestPostMessage_WhitespaceIgnored(t *testing.T) {
	c := newTestServer(t, models.VariantSummarize)

	rec := c.json(http.MethodPost, "/api/messages", `{"text":"  \n\t "}`)
	body := rec.Body.String()

	if gjson.Get(body, "appended").Bool() {
		t.Error("whitespace input must not be appended")
	}
	if n := gjson.Get(body, "messages.#").Int(); n != 0 {
		t.Errorf("messages = %d, want 0", n)
	}
}

func TestPostMessage_BadBody(t *testing.T) {
	c := newTestServer(t, models.VariantSummarize)

	rec := c.json(http.MethodPost, "/api/messages", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestClearMessages(t *testing.T) {
	c := newTestServer(t, models.VariantSummarize)
	c.json(http.MethodPost, "/api/messages", `{"text":"hi"}`)

	rec := c.json(http.MethodDelete, "/api/messages", "")
	if n := gjson.Get(rec.Body.String(), "messages.#").Int(); n != 0 {
		t.Errorf("messages after clear = %d", n)
	}

	// Clearing an empty log is fine
	rec = c.json(http.MethodDelete, "/api/messages", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestPutStyle_Invalid(t *testing.T) {
	c := newTestServer(t, models.VariantSummarize)

	rec := c.json(http.MethodPut, "/api/style", `{"style":"Long"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(gjson.Get(body, "error").String(), "Long") {
		t.Errorf("error = %q", gjson.Get(body, "error").String())
	}
	if n := gjson.Get(body, "allowed.#").Int(); n != 4 {
		t.Errorf("allowed = %d styles, want 4", n)
	}

	rec = c.json(http.MethodGet, "/api/styles", "")
	if got := gjson.Get(rec.Body.String(), "current").String(); got != "Short" {
		t.Errorf("style changed to %q after invalid request", got)
	}
}

func TestListStyles(t *testing.T) {
	c := newTestServer(t, models.VariantSummarize)
	c.json(http.MethodPut, "/api/style", `{"style":"bullet-points"}`)

	body := c.json(http.MethodGet, "/api/styles", "").Body.String()

	var names []string
	for _, v := range gjson.Get(body, "styles").Array() {
		names = append(names, v.String())
	}
	if strings.Join(names, ",") != "Short,Detailed,Bullet Points,Exam Ready" {
		t.Errorf("styles = %v", names)
	}
	if got := gjson.Get(body, "default").String(); got != "Short" {
		t.Errorf("default = %q", got)
	}
	if got := gjson.Get(body, "current").String(); got != "Bullet Points" {
		t.Errorf("current = %q", got)
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	a := newTestServer(t, models.VariantSummarize)
	b := &client{t: t, srv: a.srv}

	a.json(http.MethodPost, "/api/messages", `{"text":"from a"}`)
	b.json(http.MethodPut, "/api/style", `{"style":"Detailed"}`)

	aBody := a.json(http.MethodGet, "/api/messages", "").Body.String()
	bBody := b.json(http.MethodGet, "/api/messages", "").Body.String()

	if gjson.Get(aBody, "session").String() == gjson.Get(bBody, "session").String() {
		t.Fatal("clients share a session")
	}
	if n := gjson.Get(bBody, "messages.#").Int(); n != 0 {
		t.Errorf("b sees %d messages", n)
	}
	if got := gjson.Get(aBody, "style").String(); got != "Short" {
		t.Errorf("a style = %q, want Short", got)
	}
	if a.srv.sessions.Len() != 2 {
		t.Errorf("sessions = %d, want 2", a.srv.sessions.Len())
	}
}

func TestUnknownCookieStartsNewSession(t *testing.T) {
	c := newTestServer(t, models.VariantSummarize)
	c.cookie = &http.Cookie{Name: CookieName, Value: "stale"}

	body := c.json(http.MethodGet, "/api/messages", "").Body.String()

	if got := gjson.Get(body, "session").String(); got == "stale" || got == "" {
		t.Errorf("session = %q, want a fresh ID", got)
	}
	if c.cookie.Value == "stale" {
		t.Error("expected a new cookie")
	}
}

func TestDemoSeed(t *testing.T) {
	c := newTestServer(t, models.VariantEcho, session.WithSeed(models.DemoConversation()...))

	body := c.json(http.MethodGet, "/api/messages", "").Body.String()
	if n := gjson.Get(body, "messages.#").Int(); n != 4 {
		t.Errorf("seeded messages = %d, want 4", n)
	}
}

func TestFormFlow(t *testing.T) {
	c := newTestServer(t, models.VariantSummarize)

	rec := c.do(http.MethodGet, "/", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / status = %d", rec.Code)
	}
	page := rec.Body.String()
	for _, want := range []string{"Offline Summarization Tool", "Ready when you are", "Summary Style", `value="Short" checked`} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}

	rec = c.form("/style", url.Values{"style": {"Bullet Points"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("POST /style status = %d", rec.Code)
	}

	rec = c.form("/chat", url.Values{"text": {longText}})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("POST /chat = %d %q", rec.Code, rec.Header().Get("Location"))
	}

	page = c.do(http.MethodGet, "/", "", "").Body.String()
	if strings.Contains(page, "Ready when you are") {
		t.Error("welcome should be hidden once messages exist")
	}
	if !strings.Contains(page, "<strong>Summary Style:</strong> Bullet Points") {
		t.Error("assistant reply should be rendered as markdown")
	}
	if !strings.Contains(page, `class="user-msg"`) {
		t.Error("user message missing")
	}

	c.form("/clear", nil)
	page = c.do(http.MethodGet, "/", "", "").Body.String()
	if !strings.Contains(page, "Ready when you are") {
		t.Error("welcome should return after clear")
	}
}

func TestFormStyle_Invalid(t *testing.T) {
	c := newTestServer(t, models.VariantSummarize)

	rec := c.form("/style", url.Values{"style": {"Long"}})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestPageEscapesUserInput(t *testing.T) {
	c := newTestServer(t, models.VariantSummarize)
	c.form("/chat", url.Values{"text": {"<script>alert(1)</script>"}})

	page := c.do(http.MethodGet, "/", "", "").Body.String()
	if strings.Contains(page, "<script>alert(1)</script>") {
		t.Error("user input must be escaped")
	}
}

func TestEchoVariantPage(t *testing.T) {
	c := newTestServer(t, models.VariantEcho)

	page := c.do(http.MethodGet, "/", "", "").Body.String()
	if !strings.Contains(page, "What can I help with?") {
		t.Error("echo page should use its welcome text")
	}
	if strings.Contains(page, "Summary Style") {
		t.Error("echo page has no style selector")
	}

	body := c.json(http.MethodPost, "/api/messages", `{"text":"ping"}`).Body.String()
	if got := gjson.Get(body, "reply").String(); !strings.Contains(got, "Demo Response") || !strings.Contains(got, "ping") {
		t.Errorf("echo reply = %q", got)
	}
}

func TestRecovery(t *testing.T) {
	c := newTestServer(t, models.VariantSummarize)
	c.srv.engine.GET("/panic", func(*gin.Context) { panic("boom") })

	rec := c.do(http.MethodGet, "/panic", "", "")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestServe_Shutdown(t *testing.T) {
	c := newTestServer(t, models.VariantSummarize)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestExportMessages(t *testing.T) {
	c := newTestServer(t, models.VariantSummarize)
	c.json(http.MethodPost, "/api/messages", `{"text":"hello"}`)

	rec := c.do(http.MethodGet, "/api/messages/export", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/markdown") {
		t.Errorf("content type = %q", rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Body.String(), "## User\n\nhello") {
		t.Errorf("markdown export = %q", rec.Body.String())
	}

	rec = c.do(http.MethodGet, "/api/messages/export?format=json", "", "")
	if got := gjson.Get(rec.Body.String(), "messages.1.content").String(); got != reply.PasteContentPrompt {
		t.Errorf("json export reply = %q", got)
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "offsum-transcript.json") {
		t.Errorf("disposition = %q", rec.Header().Get("Content-Disposition"))
	}

	rec = c.do(http.MethodGet, "/api/messages/export?format=pdf", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
