package handlers

import (
	"mime"
	"net/http"
	"strconv"
	"strings"

	"fashionmart/internal/services/collection"

	"github.com/go-chi/chi/v5"
)

// ListView renders one list view from query parameters without opening a session
func ListView(svc *collection.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := collection.NewListRequest(chi.URLParam(r, "resource"), r.URL.Query())

		view, err := svc.View(r.Context(), req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// Overview returns stat cards for the resources listed in ?resources=a,b
func Overview(svc *collection.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var names []string
		for _, v := range r.URL.Query()["resources"] {
			for _, n := range strings.Split(v, ",") {
				if n = strings.TrimSpace(n); n != "" {
					names = append(names, n)
				}
			}
		}

		overview, err := svc.Overview(r.Context(), names)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": overview})
	}
}

// Export streams the upstream export of a resource as an attachment
func Export(svc *collection.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		format := strings.ToLower(q.Get("format"))
		if format == "" {
			format = "csv"
		}
		q.Del("format")

		blob, err := svc.Export(r.Context(), chi.URLParam(r, "resource"), format, q)
		if err != nil {
			writeError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", blob.ContentType)
		w.Header().Set("Content-Disposition", attachment(blob.Filename))
		w.Header().Set("Content-Length", strconv.Itoa(len(blob.Data)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(blob.Data)
	}
}

// attachment quotes and escapes the upstream filename. Names mime cannot
// encode fall back to a bare attachment.
func attachment(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "attachment"
}
