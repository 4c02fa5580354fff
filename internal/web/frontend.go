package web

import (
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v7"
	gutils "github.com/Laisky/go-utils/v6"
	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/Laisky/searchhub/internal/hub"
	"github.com/Laisky/searchhub/internal/session"
	"github.com/Laisky/searchhub/library/log"
	"github.com/Laisky/searchhub/library/search"
)

// DefaultCookieName names the cookie carrying the session id.
const DefaultCookieName = "searchhub_session"

const (
	sessionCtxKey = "searchhub_session_state"
	tabSettings   = "settings"
	pageTitle     = "SearchHub"
)

//go:embed templates/*.html
var templateFS embed.FS

// Frontend serves the browser pages and the JSON API on top of a hub.
type Frontend struct {
	hub        *hub.Hub
	store      session.Store
	cookieName string
	cookieTTL  time.Duration
	tmpl       *template.Template
}

// FrontendOption customises a Frontend.
type FrontendOption func(*Frontend)

// WithCookieName overrides DefaultCookieName.
func WithCookieName(name string) FrontendOption {
	return func(f *Frontend) {
		if name = strings.TrimSpace(name); name != "" {
			f.cookieName = name
		}
	}
}

// WithCookieTTL sets the cookie Max-Age. Zero makes it a browser session cookie.
func WithCookieTTL(ttl time.Duration) FrontendOption {
	return func(f *Frontend) {
		if ttl > 0 {
			f.cookieTTL = ttl
		}
	}
}

// NewFrontend parses the embedded templates and returns a Frontend.
func NewFrontend(h *hub.Hub, store session.Store, opts ...FrontendOption) (*Frontend, error) {
	if h == nil {
		return nil, errors.New("hub is required")
	}
	if store == nil {
		return nil, errors.New("session store is required")
	}

	tmpl, err := template.New("").Funcs(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "parse templates")
	}

	f := &Frontend{
		hub:        h,
		store:      store,
		cookieName: DefaultCookieName,
		tmpl:       tmpl,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Register mounts the page and API routes. apiMiddlewares run before the /api handlers.
func (f *Frontend) Register(server gin.IRouter, apiMiddlewares ...gin.HandlerFunc) error {
	if server == nil {
		return errors.New("router is required")
	}

	pages := server.Group("/", f.sessionMiddleware)
	pages.GET("/", f.index)
	pages.POST("/search", f.submitSearch)
	pages.POST("/history/clear", f.clearHistory)
	pages.POST("/settings", f.saveSettings)

	api := server.Group("/api", apiMiddlewares...)
	api.Use(f.sessionMiddleware)
	api.GET("/search", f.apiSearch)
	api.GET("/history", f.apiHistory)
	api.DELETE("/history", f.apiClearHistory)
	api.OPTIONS("/*path", func(ctx *gin.Context) { ctx.Status(http.StatusNoContent) })

	return nil
}

// sessionMiddleware loads the session named by the cookie, or starts a new one,
// and saves it back after the handler ran.
func (f *Frontend) sessionMiddleware(ctx *gin.Context) {
	logger := f.logger(ctx)
	id, _ := ctx.Cookie(f.cookieName)

	st, err := f.store.Load(ctx.Request.Context(), id)
	if err != nil {
		// serve the request on a throwaway state rather than failing the page
		logger.Error("load session", zap.Error(err))
		st = session.NewState(session.NewID())
	}

	ctx.Set(sessionCtxKey, st)
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(f.cookieName, st.ID, int(f.cookieTTL/time.Second), "/", "", false, true)

	ctx.Next()

	st.UpdatedAt = gutils.Clock.GetUTCNow()
	if err := f.store.Save(ctx.Request.Context(), st); err != nil {
		logger.Error("save session", zap.String("session", st.ID), zap.Error(err))
	}
}

func (f *Frontend) logger(ctx *gin.Context) logSDK.Logger {
	if ctxLogger := gmw.GetLogger(ctx); ctxLogger != nil {
		return ctxLogger.Named("web")
	}
	return log.Logger.Named("web")
}

func sessionState(ctx *gin.Context) *session.State {
	st, ok := ctx.MustGet(sessionCtxKey).(*session.State)
	if !ok {
		panic("session state missing from gin context")
	}
	return st
}

// tabLink is one entry of the navigation bar.
type tabLink struct {
	Key    string
	Label  string
	Active bool
}

// pageData feeds templates/index.html.
type pageData struct {
	Title    string
	Tab      string
	Tabs     []tabLink
	Variant  search.Variant
	Query    string
	Outcome  *hub.Outcome
	Notice   *search.Notice
	History  []string
	Settings session.Settings

	SafeSearchLevels  []session.SafeSearch
	MinResultsPerPage int
	MaxResultsPerPage int
}

// LinkText is the label of the link under each result.
func (p *pageData) LinkText() string {
	switch p.Variant {
	case search.VariantNews:
		return "Read Article"
	case search.VariantImages:
		return "View Images"
	default:
		return "Open Link"
	}
}

// Placeholder is the search box hint.
func (p *pageData) Placeholder() string {
	switch p.Variant {
	case search.VariantNews:
		return "Search for news..."
	case search.VariantImages:
		return "Search for images..."
	default:
		return "Search the web..."
	}
}

// StatsLine summarises the result count.
func (p *pageData) StatsLine() string {
	if p.Outcome == nil {
		return ""
	}
	switch p.Variant {
	case search.VariantNews:
		return "About " + strconv.Itoa(p.Outcome.Total) + " news results"
	case search.VariantImages:
		return "About " + strconv.Itoa(p.Outcome.Total) + " image results"
	default:
		return "About " + strconv.Itoa(p.Outcome.Total) + " results"
	}
}

// ResultTitle decorates a result title for the active tab. i is zero based.
func (p *pageData) ResultTitle(i int, title string) string {
	switch p.Variant {
	case search.VariantNews:
		return "📰 " + title
	case search.VariantImages:
		return "🖼️ " + title
	default:
		return strconv.Itoa(i+1) + ". " + title
	}
}

// SearchLink prefills the web tab with query.
func (p *pageData) SearchLink(query string) string {
	return "/?tab=" + string(search.VariantWeb) + "&q=" + url.QueryEscape(query)
}

func (f *Frontend) newPage(st *session.State, tab string) *pageData {
	p := &pageData{
		Title:             pageTitle,
		Tab:               tab,
		History:           st.History.List(),
		Settings:          st.Settings,
		SafeSearchLevels:  session.SafeSearchLevels,
		MinResultsPerPage: session.MinResultsPerPage,
		MaxResultsPerPage: session.MaxResultsPerPage,
	}

	if tab != tabSettings {
		if v, err := search.ParseVariant(tab); err == nil {
			p.Variant = v
		} else {
			p.Variant = search.VariantWeb
			p.Tab = string(search.VariantWeb)
		}
	}

	for _, v := range search.Variants {
		p.Tabs = append(p.Tabs, tabLink{Key: string(v), Label: v.Label(), Active: p.Tab == string(v)})
	}
	p.Tabs = append(p.Tabs, tabLink{Key: tabSettings, Label: "Settings", Active: p.Tab == tabSettings})
	return p
}

func (f *Frontend) render(ctx *gin.Context, status int, page *pageData) {
	ctx.Status(status)
	ctx.Header("Content-Type", "text/html; charset=utf-8")
	if err := f.tmpl.ExecuteTemplate(ctx.Writer, "index.html", page); err != nil {
		f.logger(ctx).Error("render page", zap.Error(err))
	}
}

// index renders the tab named by ?tab=, prefilled with ?q=.
func (f *Frontend) index(ctx *gin.Context) {
	st := sessionState(ctx)
	page := f.newPage(st, ctx.DefaultQuery("tab", string(search.VariantWeb)))
	page.Query = ctx.Query("q")
	f.render(ctx, http.StatusOK, page)
}

func (f *Frontend) submitSearch(ctx *gin.Context) {
	st := sessionState(ctx)

	variant, err := search.ParseVariant(ctx.PostForm("variant"))
	if err != nil {
		page := f.newPage(st, string(search.VariantWeb))
		page.Notice = search.NewNotice(search.NoticeError, err.Error())
		f.render(ctx, http.StatusBadRequest, page)
		return
	}

	req := hub.Request{
		Query:   ctx.PostForm("q"),
		Variant: variant,
		Lucky:   ctx.PostForm("lucky") != "",
	}
	out := f.hub.Submit(ctx, st, req)

	page := f.newPage(st, string(variant))
	page.Query = req.Query
	page.Outcome = out
	page.Notice = out.Notice
	f.render(ctx, http.StatusOK, page)
}

func (f *Frontend) clearHistory(ctx *gin.Context) {
	st := sessionState(ctx)
	notice := f.hub.ClearHistory(st)

	page := f.newPage(st, tabSettings)
	page.Notice = notice
	f.render(ctx, http.StatusOK, page)
}

func (f *Frontend) saveSettings(ctx *gin.Context) {
	st := sessionState(ctx)

	status := http.StatusOK
	rpp, err := strconv.Atoi(ctx.PostForm("results_per_page"))
	var notice *search.Notice
	if err != nil {
		notice = search.NewNotice(search.NoticeError, "results per page must be a number")
		status = http.StatusBadRequest
	} else if notice, err = f.hub.UpdateSettings(st, ctx.PostForm("safe_search"), rpp); err != nil {
		f.logger(ctx).Debug("reject settings", zap.Error(err))
		status = http.StatusBadRequest
	}

	page := f.newPage(st, tabSettings)
	page.Notice = notice
	f.render(ctx, status, page)
}

// apiSearchResponse is the JSON body of GET /api/search.
type apiSearchResponse struct {
	Query     string          `json:"query"`
	CreatedAt time.Time       `json:"created_at"`
	Results   []search.Result `json:"results"`
	Notice    *search.Notice  `json:"notice,omitempty"`
}

func (f *Frontend) apiSearch(ctx *gin.Context) {
	st := sessionState(ctx)

	variant, err := search.ParseVariant(ctx.Query("variant"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out := f.hub.Submit(ctx, st, hub.Request{
		Query:   ctx.Query("q"),
		Variant: variant,
		Lucky:   ctx.Query("lucky") != "",
	})
	if !out.Searched() {
		status := http.StatusBadRequest
		if out.Throttled {
			status = http.StatusTooManyRequests
		}
		ctx.JSON(status, gin.H{"error": out.Notice.Message})
		return
	}

	status := http.StatusOK
	if out.Response.Failed() {
		status = http.StatusBadGateway
	}
	ctx.JSON(status, apiSearchResponse{
		Query:     out.SentQuery,
		CreatedAt: out.Response.CreatedAt,
		Results:   out.Results,
		Notice:    out.Notice,
	})
}

func (f *Frontend) apiHistory(ctx *gin.Context) {
	st := sessionState(ctx)
	ctx.JSON(http.StatusOK, gin.H{"history": st.History.List()})
}

func (f *Frontend) apiClearHistory(ctx *gin.Context) {
	st := sessionState(ctx)
	notice := f.hub.ClearHistory(st)
	ctx.JSON(http.StatusOK, gin.H{"history": st.History.List(), "notice": notice})
}
