package session

import "net/http"

// requestStore adapts one request/response pair to the Store interface.
// Reads come from the request's Cookie header, writes become Set-Cookie
// headers on the response.
type requestStore struct {
	w http.ResponseWriter
	r *http.Request
}

// FromRequest returns a Store backed by real HTTP cookies.
func FromRequest(w http.ResponseWriter, r *http.Request) Store {
	return requestStore{w: w, r: r}
}

func (s requestStore) Get(name string) (string, bool) {
	cookie, err := s.r.Cookie(name)
	if err != nil {
		return "", false
	}
	return cookie.Value, true
}

func (s requestStore) Set(name, value string, opts Options) {
	http.SetCookie(s.w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     opts.Path,
		MaxAge:   opts.MaxAge,
		HttpOnly: opts.HTTPOnly,
		Secure:   opts.Secure,
		SameSite: sameSite(opts.SameSite),
	})
}

func (s requestStore) Delete(name string) {
	http.SetCookie(s.w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

func sameSite(v string) http.SameSite {
	switch v {
	case "Strict":
		return http.SameSiteStrictMode
	case "None":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
