package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/SachinNic1502/lapkart-backend/api/responses"
	"github.com/SachinNic1502/lapkart-backend/api/validators"
	productsvc "github.com/SachinNic1502/lapkart-backend/internal/products"
	pkgerrors "github.com/SachinNic1502/lapkart-backend/pkg/errors"
	"github.com/SachinNic1502/lapkart-backend/pkg/logger"
)

// ProductCreate adds a catalog entry.
func ProductCreate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload productsvc.CreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// ProductList returns a catalog page with optional filters.
func ProductList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.PaginationFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		req := productsvc.ListRequest{
			Category: strings.TrimSpace(r.URL.Query().Get("category")),
			Query:    strings.TrimSpace(r.URL.Query().Get("q")),
			Limit:    params.Limit,
			Cursor:   params.Cursor,
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("refurbished")); raw != "" {
			refurbished, err := strconv.ParseBool(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "refurbished must be a boolean"))
				return
			}
			req.Refurbished = &refurbished
		}

		result, err := svc.List(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// ProductDetail returns one catalog entry.
func ProductDetail(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.UUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}
