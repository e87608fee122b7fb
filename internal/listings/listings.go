// Package listings serves the file-less records: services, testimonials
// and contact inquiries.
package listings

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// idParam returns the {id} URL parameter, or false when it is not a
// positive integer.
func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}
