package httpx

import (
	"errors"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/ayush/photo-portfolio/backend/internal/apperr"
)

// ErrBodyTooLarge is returned when a request body exceeds the upload cap.
var ErrBodyTooLarge = apperr.New(apperr.ErrTooLarge, "File too large")

// LimitBody caps every request body at maxBytes. Handlers see the
// overflow as a *http.MaxBytesError on read.
func LimitBody(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// IsMultipart reports whether the request carries multipart form data.
func IsMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}

// IsJSON reports whether the request declares a JSON body.
func IsJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

// ParseMultipart parses a multipart body of at most maxBytes.
func ParseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return ErrBodyTooLarge
		}
		return apperr.Validation("Invalid form data")
	}
	return nil
}

// FormFile returns the named file part, or nil when the form has none.
// The caller must close the returned file.
func FormFile(r *http.Request, field string) (multipart.File, *multipart.FileHeader, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return nil, nil, nil
	}
	fh := r.MultipartForm.File[field][0]
	f, err := fh.Open()
	if err != nil {
		return nil, nil, apperr.Validation("Invalid form data")
	}
	return f, fh, nil
}

// FormValue reports the value of a form field and whether it was sent at
// all. Multipart and urlencoded bodies are both consulted; the caller
// parses the body first.
func FormValue(r *http.Request, key string) (string, bool) {
	if r.MultipartForm != nil {
		if vs := r.MultipartForm.Value[key]; len(vs) > 0 {
			return vs[0], true
		}
	}
	if vs := r.PostForm[key]; len(vs) > 0 {
		return vs[0], true
	}
	return "", false
}

// ParseForm parses a multipart body when one is declared and falls back to
// urlencoded parsing otherwise. Other content types parse to an empty form.
func ParseForm(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	if IsMultipart(r) {
		return ParseMultipart(w, r, maxBytes)
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseForm(); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return ErrBodyTooLarge
		}
		return apperr.Validation("Invalid form data")
	}
	return nil
}
