package handler

import (
	"net/http"
	"net/url"
)

const flashCookieName = "flash"

// Flash categories, used as CSS class suffixes by the templates.
const (
	FlashSuccess = "success"
	FlashWarning = "warning"
	FlashDanger  = "danger"
)

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Category string
	Message  string
}

// setFlash stores a notice for the next page render. It is called right
// before a redirect.
func setFlash(w http.ResponseWriter, category, message string) {
	v := url.Values{"k": {category}, "m": {message}}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    v.Encode(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash returns the pending notice, if any, and expires the cookie so it
// is shown once.
func popFlash(w http.ResponseWriter, r *http.Request) *Flash {
	c, err := r.Cookie(flashCookieName)
	if err != nil {
		return nil
	}

	http.SetCookie(w, &http.Cookie{Name: flashCookieName, Value: "", Path: "/", MaxAge: -1})

	v, err := url.ParseQuery(c.Value)
	if err != nil || v.Get("m") == "" {
		return nil
	}
	return &Flash{Category: v.Get("k"), Message: v.Get("m")}
}

// redirectWithFlash is the usual ending of a form POST.
func redirectWithFlash(w http.ResponseWriter, r *http.Request, to, category, message string) {
	setFlash(w, category, message)
	http.Redirect(w, r, to, http.StatusSeeOther)
}
