package webapp

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/zdevbro-cpu/las-backoffice/internal/mathletter"
	"github.com/zdevbro-cpu/las-backoffice/internal/qrcard"
	"github.com/zdevbro-cpu/las-backoffice/internal/security"
	"github.com/zdevbro-cpu/las-backoffice/internal/store"
)

func (s *server) eventsRoute(w http.ResponseWriter, r *http.Request, v viewer) {
	switch r.Method {
	case http.MethodGet:
		s.eventsPage(w, r, v)
	case http.MethodPost:
		s.createEvent(w, r, v)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *server) eventsPage(w http.ResponseWriter, r *http.Request, v viewer) {
	var events []store.Event
	if v.Branch.ID != 0 {
		var err error
		events, err = s.store.ListBranchEvents(r.Context(), v.Branch.ID)
		if err != nil {
			log.Printf("list events: %v", err)
		}
	}
	s.render(w, s.eventsTmpl, eventsData{basePage: s.newBasePage(r, v), Events: events})
}

func (s *server) createEvent(w http.ResponseWriter, r *http.Request, v viewer) {
	if err := r.ParseForm(); err != nil || !s.checkCSRF(r, v) {
		http.Redirect(w, r, "/events?error=Invalid+form+submission", http.StatusFound)
		return
	}
	if v.Branch.ID == 0 {
		http.Redirect(w, r, "/events?error=Pick+a+branch+first", http.StatusFound)
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	startsOn := strings.TrimSpace(r.FormValue("starts_on"))
	endsOn := strings.TrimSpace(r.FormValue("ends_on"))
	if title == "" || startsOn == "" || endsOn == "" {
		http.Redirect(w, r, "/events?error=Title+and+dates+are+required", http.StatusFound)
		return
	}

	slug, err := security.RandomToken(6)
	if err != nil {
		http.Redirect(w, r, "/events?error=Unable+to+create+event", http.StatusFound)
		return
	}

	_, err = s.store.CreateEvent(r.Context(), store.Event{
		BranchID:    v.Branch.ID,
		Title:       title,
		StartsOn:    startsOn,
		EndsOn:      endsOn,
		LandingSlug: strings.ToLower(slug),
	})
	if err != nil {
		log.Printf("create event: %v", err)
		http.Redirect(w, r, "/events?error=Unable+to+create+event", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/events?message=Event+created", http.StatusFound)
}

func (s *server) eventByIDRoute(w http.ResponseWriter, r *http.Request, v viewer) {
	trimmed := strings.Trim(strings.TrimPrefix(r.URL.Path, "/events/"), "/")
	parts := strings.Split(trimmed, "/")
	eventID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || eventID <= 0 {
		http.NotFound(w, r)
		return
	}

	event, err := s.store.GetEvent(r.Context(), eventID)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		log.Printf("get event %d: %v", eventID, err)
		http.Error(w, "unable to load event", http.StatusInternalServerError)
		return
	}
	if event.BranchID != v.Branch.ID && !v.User.IsAdmin {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	if len(parts) == 1 {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.eventDetailPage(w, r, v, event)
		return
	}

	switch parts[1] {
	case "referrals":
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.createReferral(w, r, v, event)
	case "card":
		s.referralCard(w, r, event)
	default:
		http.NotFound(w, r)
	}
}

func (s *server) eventDetailPage(w http.ResponseWriter, r *http.Request, v viewer, event store.Event) {
	referrals, err := s.store.ListEventReferrals(r.Context(), event.ID)
	if err != nil {
		log.Printf("list referrals: %v", err)
	}
	s.render(w, s.eventDetailTmpl, eventDetailData{
		basePage:   s.newBasePage(r, v),
		Event:      event,
		Referrals:  referrals,
		LandingURL: s.baseURL + "/r/",
	})
}

func (s *server) createReferral(w http.ResponseWriter, r *http.Request, v viewer, event store.Event) {
	back := fmt.Sprintf("/events/%d", event.ID)
	if err := r.ParseForm(); err != nil || !s.checkCSRF(r, v) {
		http.Redirect(w, r, back+"?error=Invalid+form+submission", http.StatusFound)
		return
	}

	name := strings.TrimSpace(r.FormValue("referrer_name"))
	if name == "" {
		http.Redirect(w, r, back+"?error=Referrer+name+is+required", http.StatusFound)
		return
	}

	code, err := security.RandomToken(4)
	if err != nil {
		http.Redirect(w, r, back+"?error=Unable+to+create+referral", http.StatusFound)
		return
	}

	refID, err := s.store.CreateReferral(r.Context(), store.Referral{
		EventID:      event.ID,
		Code:         strings.ToUpper(code),
		ReferrerName: name,
		Phone:        strings.TrimSpace(r.FormValue("phone")),
	})
	if err != nil {
		log.Printf("create referral: %v", err)
		http.Redirect(w, r, back+"?error=Unable+to+create+referral", http.StatusFound)
		return
	}

	// Every referral starts the letter sequence immediately.
	if _, err := s.store.CreateLetterSignup(r.Context(), refID, time.Now().Format("2006-01-02")); err != nil {
		log.Printf("create letter signup: %v", err)
	}
	http.Redirect(w, r, back+"?message=Referral+created", http.StatusFound)
}

// referralCard renders the QR landing card as a PNG. A GET uses the
// plain white card; a POST composites onto uploaded template artwork.
func (s *server) referralCard(w http.ResponseWriter, r *http.Request, event store.Event) {
	code := strings.TrimSpace(r.URL.Query().Get("code"))

	template := qrcard.PlainTemplate(1000, 1400)
	placement := qrcard.DefaultPlacement

	if r.Method == http.MethodPost {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			http.Error(w, "invalid upload", http.StatusBadRequest)
			return
		}
		if code == "" {
			code = strings.TrimSpace(r.FormValue("code"))
		}
		file, _, err := r.FormFile("template")
		if err == nil {
			defer file.Close()
			decoded, err := qrcard.DecodeTemplate(file)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			template = decoded
		}
		placement = placementFromForm(r, placement)
	}

	if code == "" {
		http.Error(w, "code is required", http.StatusBadRequest)
		return
	}
	if _, err := s.store.GetReferralByCode(r.Context(), code); err != nil {
		http.Error(w, "unknown referral code", http.StatusNotFound)
		return
	}

	card, err := qrcard.Compose(template, s.baseURL+"/r/"+url.PathEscape(code), placement)
	if err != nil {
		log.Printf("compose card for %s: %v", code, err)
		http.Error(w, "unable to compose card", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=card-%s.png", code))
	if err := qrcard.WritePNG(w, card); err != nil {
		log.Printf("write card png: %v", err)
	}
}

func placementFromForm(r *http.Request, fallback qrcard.Placement) qrcard.Placement {
	parse := func(field string, current float64) float64 {
		if f, err := strconv.ParseFloat(r.FormValue(field), 64); err == nil && f >= 0 && f <= 100 {
			return f
		}
		return current
	}
	return qrcard.Placement{
		XPercent:     parse("x_percent", fallback.XPercent),
		YPercent:     parse("y_percent", fallback.YPercent),
		WidthPercent: parse("width_percent", fallback.WidthPercent),
	}
}

func (s *server) lettersRoute(w http.ResponseWriter, r *http.Request, v viewer) {
	switch r.Method {
	case http.MethodGet:
		s.lettersPage(w, r, v)
	case http.MethodPost:
		s.recordLetterSend(w, r, v)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *server) lettersPage(w http.ResponseWriter, r *http.Request, v viewer) {
	data := lettersData{
		basePage: s.newBasePage(r, v),
		Today:    time.Now().Format("2006-01-02"),
	}
	if v.Branch.ID == 0 {
		s.render(w, s.lettersTmpl, data)
		return
	}

	signups, sent, err := s.store.ListLetterSignups(r.Context(), v.Branch.ID)
	if err != nil {
		log.Printf("list letter signups: %v", err)
		s.render(w, s.lettersTmpl, data)
		return
	}

	now := time.Now()
	for _, signup := range signups {
		signedUp, err := time.Parse("2006-01-02", signup.SignedUpOn)
		if err != nil {
			log.Printf("signup %d has bad date %q", signup.ID, signup.SignedUpOn)
			continue
		}

		item := letterItem{
			Signup:   signup,
			Referrer: signup.ReferrerName,
			Done:     mathletter.Done(sent[signup.ID]),
		}
		for _, step := range mathletter.DueSteps(signedUp, now, sent[signup.ID]) {
			item.Due = append(item.Due, letterStep{Number: step.Number, Title: step.Title})
		}
		data.Items = append(data.Items, item)
	}
	s.render(w, s.lettersTmpl, data)
}

func (s *server) recordLetterSend(w http.ResponseWriter, r *http.Request, v viewer) {
	if err := r.ParseForm(); err != nil || !s.checkCSRF(r, v) {
		http.Redirect(w, r, "/letters?error=Invalid+form+submission", http.StatusFound)
		return
	}

	signupID, err := strconv.ParseInt(r.FormValue("signup_id"), 10, 64)
	step, stepErr := strconv.Atoi(r.FormValue("step"))
	if err != nil || signupID <= 0 || stepErr != nil || step <= 0 {
		http.Redirect(w, r, "/letters?error=Invalid+letter+reference", http.StatusFound)
		return
	}

	if err := s.store.RecordLetterSend(r.Context(), signupID, step, time.Now().Format("2006-01-02")); err != nil {
		log.Printf("record letter send: %v", err)
		http.Redirect(w, r, "/letters?error=Unable+to+record+send", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/letters?message=Letter+recorded", http.StatusFound)
}

// eventLanding is the public event page reached by slug, without any
// referrer attribution.
func (s *server) eventLanding(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	slug := strings.Trim(strings.TrimPrefix(r.URL.Path, "/e/"), "/")
	if slug == "" {
		http.NotFound(w, r)
		return
	}

	event, err := s.store.GetEventBySlug(r.Context(), slug)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		log.Printf("get event by slug %s: %v", slug, err)
		http.Error(w, "unable to load event", http.StatusInternalServerError)
		return
	}

	s.render(w, s.landingTmpl, landingData{Event: event})
}

// referralLanding is the public page a scanned QR code opens. No session
// is required; it only names the event and referrer.
func (s *server) referralLanding(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	code := strings.Trim(strings.TrimPrefix(r.URL.Path, "/r/"), "/")
	if code == "" {
		http.NotFound(w, r)
		return
	}

	referral, err := s.store.GetReferralByCode(r.Context(), code)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		log.Printf("get referral %s: %v", code, err)
		http.Error(w, "unable to load referral", http.StatusInternalServerError)
		return
	}

	event, err := s.store.GetEvent(r.Context(), referral.EventID)
	if err != nil {
		log.Printf("get event for referral %s: %v", code, err)
		http.Error(w, "unable to load event", http.StatusInternalServerError)
		return
	}

	s.render(w, s.landingTmpl, landingData{Event: event, Referral: referral})
}
