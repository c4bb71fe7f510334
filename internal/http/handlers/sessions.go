package handlers

import (
	"encoding/json"
	"net/http"

	"fashionmart/internal/core/listview"
	"fashionmart/internal/services/collection"

	"github.com/go-chi/chi/v5"
)

// OpenSession starts a list view session for a page
func OpenSession(svc *collection.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req collection.OpenRequest
		if !decodeBody(w, r, &req) {
			return
		}
		view, err := svc.OpenSession(r.Context(), req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, view)
	}
}

func RenderSession(svc *collection.Service) http.HandlerFunc {
	return sessionView(func(r *http.Request, id string) (*collection.View, error) {
		return svc.Render(r.Context(), id)
	})
}

func RefreshSession(svc *collection.Service) http.HandlerFunc {
	return sessionView(func(r *http.Request, id string) (*collection.View, error) {
		return svc.Refresh(r.Context(), id)
	})
}

func CloseSession(svc *collection.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.CloseSession(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type filterBody struct {
	Values []string `json:"values"`
}

// ApplyFilter sets one filter. Ranges take [min, max]; an empty list clears the filter.
func ApplyFilter(svc *collection.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body filterBody
		if !decodeBody(w, r, &body) {
			return
		}
		view, err := svc.ApplyFilter(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "key"), body.Values)
		respond(w, r, view, err)
	}
}

func ClearFilter(svc *collection.Service) http.HandlerFunc {
	return sessionView(func(r *http.Request, id string) (*collection.View, error) {
		return svc.ClearFilter(r.Context(), id, chi.URLParam(r, "key"))
	})
}

func ResetFilters(svc *collection.Service) http.HandlerFunc {
	return sessionView(func(r *http.Request, id string) (*collection.View, error) {
		return svc.ResetFilters(r.Context(), id)
	})
}

func SetSort(svc *collection.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Sort string `json:"sort"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		view, err := svc.SetSort(r.Context(), chi.URLParam(r, "id"), listview.SortKey(body.Sort))
		respond(w, r, view, err)
	}
}

func LoadMore(svc *collection.Service) http.HandlerFunc {
	return sessionView(func(r *http.Request, id string) (*collection.View, error) {
		return svc.LoadMore(r.Context(), id)
	})
}

// ItemAction proxies POST /<resource>/<itemID>/<action> and patches the session
func ItemAction(svc *collection.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body json.RawMessage
		if !decodeBody(w, r, &body) {
			return
		}
		var payload any
		if len(body) > 0 {
			payload = body
		}
		view, err := svc.Act(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "itemID"), chi.URLParam(r, "action"), payload)
		respond(w, r, view, err)
	}
}

func DeleteItem(svc *collection.Service) http.HandlerFunc {
	return sessionView(func(r *http.Request, id string) (*collection.View, error) {
		return svc.DeleteItem(r.Context(), id, chi.URLParam(r, "itemID"))
	})
}

func sessionView(fn func(r *http.Request, id string) (*collection.View, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := fn(r, chi.URLParam(r, "id"))
		respond(w, r, view, err)
	}
}

func respond(w http.ResponseWriter, r *http.Request, view *collection.View, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
