package handlers

import (
	"net/http"

	"fashionmart/internal/services/views"

	"github.com/go-chi/chi/v5"
)

func ListSavedViews(svc *views.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context(), r.URL.Query().Get("resource"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": list})
	}
}

func GetSavedView(svc *views.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func CreateSavedView(svc *views.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req views.SaveRequest
		if !decodeBody(w, r, &req) {
			return
		}
		v, err := svc.Save(r.Context(), req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, v)
	}
}

func DeleteSavedView(svc *views.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
