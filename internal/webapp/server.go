// Package webapp is the HTML back office: one server-rendered view per
// screen, all persistence behind the store repositories.
package webapp

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/zdevbro-cpu/las-backoffice/internal/config"
	"github.com/zdevbro-cpu/las-backoffice/internal/middleware"
	"github.com/zdevbro-cpu/las-backoffice/internal/security"
	"github.com/zdevbro-cpu/las-backoffice/internal/store"
)

const (
	sessionCookieName = "las_session"
	branchCookieName  = "las_branch"
)

//go:embed templates/login.html templates/dashboard.html templates/branches.html templates/sales.html templates/orders.html templates/events.html templates/event_detail.html templates/letters.html templates/schedule.html templates/referral_landing.html assets/app.css
var templatesFS embed.FS

type server struct {
	store      *store.Store
	sessionTTL time.Duration
	baseURL    string

	mu     sync.Mutex
	drafts map[string]*weekDraft

	loginTmpl       *template.Template
	dashboardTmpl   *template.Template
	branchesTmpl    *template.Template
	salesTmpl       *template.Template
	ordersTmpl      *template.Template
	eventsTmpl      *template.Template
	eventDetailTmpl *template.Template
	lettersTmpl     *template.Template
	scheduleTmpl    *template.Template
	landingTmpl     *template.Template
}

// viewer is the explicit per-request context: who is signed in, which
// branch they are operating, and the CSRF token their forms must echo.
// It is passed into every handler rather than read from ambient state.
type viewer struct {
	User    store.User
	Session store.Session
	Branch  store.Branch
}

func (v viewer) CSRF() string {
	return v.Session.CSRFToken
}

func Run(ctx context.Context, cfg config.Config) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return errors.New("LAS_ADMIN_USERNAME and LAS_ADMIN_PASSWORD are required")
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 12 * time.Hour
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	if err := st.EnsureAdminUser(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return fmt.Errorf("ensure admin user: %w", err)
	}

	s := &server{
		store:      st,
		sessionTTL: cfg.SessionTTL,
		baseURL:    config.EnvOrDefault("LAS_BASE_URL", "http://localhost"+cfg.Addr),
		drafts:     make(map[string]*weekDraft),

		loginTmpl:       template.Must(template.ParseFS(templatesFS, "templates/login.html")),
		dashboardTmpl:   template.Must(template.ParseFS(templatesFS, "templates/dashboard.html")),
		branchesTmpl:    template.Must(template.ParseFS(templatesFS, "templates/branches.html")),
		salesTmpl:       template.Must(template.ParseFS(templatesFS, "templates/sales.html")),
		ordersTmpl:      template.Must(template.ParseFS(templatesFS, "templates/orders.html")),
		eventsTmpl:      template.Must(template.ParseFS(templatesFS, "templates/events.html")),
		eventDetailTmpl: template.Must(template.ParseFS(templatesFS, "templates/event_detail.html")),
		lettersTmpl:     template.Must(template.ParseFS(templatesFS, "templates/letters.html")),
		scheduleTmpl:    template.Must(template.ParseFS(templatesFS, "templates/schedule.html")),
		landingTmpl:     template.Must(template.ParseFS(templatesFS, "templates/referral_landing.html")),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.loginRoute)
	mux.HandleFunc("/logout", s.requireViewer(s.logout))
	mux.HandleFunc("/assets/app.css", s.appCSSFile)
	mux.HandleFunc("/dashboard", s.requireViewer(s.dashboardPage))
	mux.HandleFunc("/branches", s.requireViewer(s.branchesRoute))
	mux.HandleFunc("/branches/", s.requireViewer(s.branchByCodeRoute))
	mux.HandleFunc("/sales", s.requireViewer(s.salesRoute))
	mux.HandleFunc("/sales/export", s.requireViewer(s.salesExport))
	mux.HandleFunc("/sales/import", s.requireViewer(s.salesImport))
	mux.HandleFunc("/orders", s.requireViewer(s.ordersRoute))
	mux.HandleFunc("/orders/", s.requireViewer(s.orderByNoRoute))
	mux.HandleFunc("/events", s.requireViewer(s.eventsRoute))
	mux.HandleFunc("/events/", s.requireViewer(s.eventByIDRoute))
	mux.HandleFunc("/letters", s.requireViewer(s.lettersRoute))
	mux.HandleFunc("/schedule", s.requireViewer(s.schedulePage))
	mux.HandleFunc("/schedule/cell", s.requireViewer(s.scheduleCell))
	mux.HandleFunc("/schedule/temp", s.requireViewer(s.scheduleTempStaff))
	mux.HandleFunc("/schedule/save", s.requireViewer(s.scheduleSave))
	mux.HandleFunc("/schedule/diary", s.requireViewer(s.scheduleDiary))
	mux.HandleFunc("/schedule/staff/archive", s.requireViewer(s.scheduleStaffArchive))
	mux.HandleFunc("/schedule/export", s.requireViewer(s.scheduleExport))
	mux.HandleFunc("/r/", s.referralLanding)
	mux.HandleFunc("/e/", s.eventLanding)

	csp := strings.Join([]string{
		"default-src 'self'",
		"style-src 'self' 'unsafe-inline'",
		"img-src 'self' data:",
		"script-src 'self'",
		"frame-ancestors 'none'",
	}, "; ")

	handler := middleware.Chain(
		mux,
		middleware.RequestLog(),
		middleware.SecurityHeaders(middleware.SecurityHeadersConfig{ContentSecurityPolicy: csp}),
	)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("back office listening on http://localhost%s", cfg.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// requireViewer resolves the session and operating branch and hands the
// explicit viewer to the wrapped handler. Mutating methods additionally
// must pass checkCSRF inside the handler.
func (s *server) requireViewer(next func(http.ResponseWriter, *http.Request, viewer)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, ok := s.resolveViewer(w, r)
		if !ok {
			http.Redirect(w, r, "/?error=Please+sign+in", http.StatusFound)
			return
		}
		next(w, r, v)
	}
}

func (s *server) resolveViewer(w http.ResponseWriter, r *http.Request) (viewer, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return viewer{}, false
	}
	sess, user, err := s.store.GetSession(r.Context(), cookie.Value)
	if err != nil {
		return viewer{}, false
	}

	v := viewer{User: user, Session: sess}

	branchID := user.BranchID
	if user.IsAdmin {
		// Admins operate whichever branch they last picked.
		if picked := strings.TrimSpace(r.URL.Query().Get("branch")); picked != "" {
			if b, err := s.store.GetBranchByCode(r.Context(), picked); err == nil {
				branchID = b.ID
				http.SetCookie(w, &http.Cookie{
					Name: branchCookieName, Value: b.Code, Path: "/", HttpOnly: true,
					SameSite: http.SameSiteStrictMode,
				})
			}
		} else if c, err := r.Cookie(branchCookieName); err == nil && c.Value != "" {
			if b, err := s.store.GetBranchByCode(r.Context(), c.Value); err == nil {
				branchID = b.ID
			}
		}
	}
	if branchID != 0 {
		if b, err := s.store.GetBranch(r.Context(), branchID); err == nil {
			v.Branch = b
		} else if !errors.Is(err, store.ErrNotFound) {
			log.Printf("load branch %d: %v", branchID, err)
		}
	}
	return v, true
}

// checkCSRF verifies the token echoed by a mutating form.
func (s *server) checkCSRF(r *http.Request, v viewer) bool {
	return r.FormValue("csrf") != "" && r.FormValue("csrf") == v.Session.CSRFToken
}

func (s *server) render(w http.ResponseWriter, tmpl *template.Template, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		log.Printf("template render failed: %v", err)
	}
}

func (s *server) appCSSFile(w http.ResponseWriter, r *http.Request) {
	css, err := templatesFS.ReadFile("assets/app.css")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write(css)
}

func (s *server) loginRoute(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		s.loginPage(w, r)
	case http.MethodPost:
		s.login(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *server) loginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.resolveViewer(w, r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	s.render(w, s.loginTmpl, loginData{Error: r.URL.Query().Get("error")})
}

func (s *server) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/?error=Invalid+form+submission", http.StatusFound)
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	if username == "" || password == "" {
		http.Redirect(w, r, "/?error=Username+and+password+are+required", http.StatusFound)
		return
	}

	user, hash, err := s.store.LookupUserByUsername(r.Context(), username)
	if err != nil || !security.VerifyPassword(password, hash) {
		http.Redirect(w, r, "/?error=Invalid+credentials", http.StatusFound)
		return
	}

	sessionID, err := security.RandomToken(32)
	if err != nil {
		http.Redirect(w, r, "/?error=Unable+to+sign+in", http.StatusFound)
		return
	}
	csrfToken, err := security.RandomToken(32)
	if err != nil {
		http.Redirect(w, r, "/?error=Unable+to+sign+in", http.StatusFound)
		return
	}

	expires := time.Now().UTC().Add(s.sessionTTL)
	if err := s.store.CreateSession(r.Context(), sessionID, user.ID, csrfToken, expires); err != nil {
		log.Printf("create session: %v", err)
		http.Redirect(w, r, "/?error=Unable+to+sign+in", http.StatusFound)
		return
	}
	_ = s.store.DeleteExpiredSessions(r.Context())

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(s.sessionTTL.Seconds()),
		Expires:  expires,
	})
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (s *server) logout(w http.ResponseWriter, r *http.Request, v viewer) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.checkCSRF(r, v) {
		http.Error(w, "invalid csrf token", http.StatusForbidden)
		return
	}
	_ = s.store.DeleteSession(r.Context(), v.Session.ID)
	s.dropDraft(v.Session.ID)
	http.SetCookie(w, &http.Cookie{
		Name: sessionCookieName, Value: "", Path: "/", HttpOnly: true, MaxAge: -1,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}
