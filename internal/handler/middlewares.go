package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/rotaworks-dev/staffhub/backend/internal/domain"
)

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w}
		next.ServeHTTP(rw, r)
		duration := time.Since(start)
		slog.Info("request handled", "status", rw.StatusCode, "ip", r.RemoteAddr, "method", r.Method, "path", r.URL.Path, "duration", duration)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.internalServerError(w, r, fmt.Errorf("panic: %v", err))
				stackTrace := string(debug.Stack())
				fmt.Print(stackTrace) // slog mangles multi-line stack traces
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("__staffhub_token")
		if err != nil {
			switch {
			case errors.Is(err, http.ErrNoCookie):
				h.errorResponse(w, r, http.StatusUnauthorized, "not logged in")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		tokenString := cookie.Value
		claims := &AuthClaims{}
		_, err = jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(h.config.JWT.Secret), nil
		})
		if err != nil {
			h.errorResponse(w, r, http.StatusUnauthorized, "invalid token")
			return
		}

		// stash the caller's identity from the claims in the context
		ctx := r.Context()
		ctx = context.WithValue(ctx, RoleCtxKey, claims.Role)
		ctx = context.WithValue(ctx, SubCtxKey, claims.Subject)
		ctx = context.WithValue(ctx, OrgCtxKey, claims.OrganizationID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) myInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subString := r.Context().Value(SubCtxKey).(string)

		sub, err := strconv.ParseInt(subString, 10, 64)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}

		myInfo, err := h.repository.GetStaffByID(sub)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, http.StatusUnauthorized, "account no longer exists")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), MyInfoCtx, myInfo)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) RequiredRole(roles []domain.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			roleCtx := r.Context().Value(RoleCtxKey).(string)
			role := domain.Role(roleCtx)
			if !slices.Contains(roles, role) {
				h.errorResponse(w, r, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// callerOrg is the organization the token was issued for. Every entity loader
// below checks it so cross-organization IDs read as not found.
func callerOrg(r *http.Request) int64 {
	return r.Context().Value(OrgCtxKey).(int64)
}

func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (h *Handler) staffInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		staffID, err := idParam(r)
		if err != nil {
			h.errorResponse(w, r, http.StatusBadRequest, "invalid staff id")
			return
		}

		member, err := h.repository.GetStaffByID(staffID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, http.StatusNotFound, "staff member not found")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}
		if member.OrganizationID != callerOrg(r) {
			h.errorResponse(w, r, http.StatusNotFound, "staff member not found")
			return
		}

		ctx := context.WithValue(r.Context(), StaffInfoCtx, member)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) location(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locationID, err := idParam(r)
		if err != nil {
			h.errorResponse(w, r, http.StatusBadRequest, "invalid location id")
			return
		}

		location, err := h.repository.GetLocationByID(locationID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, http.StatusNotFound, "location not found")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}
		if location.OrganizationID != callerOrg(r) {
			h.errorResponse(w, r, http.StatusNotFound, "location not found")
			return
		}

		ctx := context.WithValue(r.Context(), LocationCtx, location)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) shiftCategory(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := idParam(r)
		if err != nil {
			h.errorResponse(w, r, http.StatusBadRequest, "invalid shift category id")
			return
		}

		category, err := h.repository.GetShiftCategoryByID(categoryID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, http.StatusNotFound, "shift category not found")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}
		if category.OrganizationID != callerOrg(r) {
			h.errorResponse(w, r, http.StatusNotFound, "shift category not found")
			return
		}

		ctx := context.WithValue(r.Context(), CategoryCtx, category)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) shift(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		shiftID, err := idParam(r)
		if err != nil {
			h.errorResponse(w, r, http.StatusBadRequest, "invalid shift id")
			return
		}

		shift, err := h.repository.GetShiftByID(shiftID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, http.StatusNotFound, "shift not found")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}
		if shift.OrganizationID != callerOrg(r) {
			h.errorResponse(w, r, http.StatusNotFound, "shift not found")
			return
		}

		ctx := context.WithValue(r.Context(), ShiftCtx, shift)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) swapRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID, err := idParam(r)
		if err != nil {
			h.errorResponse(w, r, http.StatusBadRequest, "invalid swap request id")
			return
		}

		request, err := h.repository.GetSwapRequestByID(requestID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, http.StatusNotFound, "swap request not found")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}
		if request.OrganizationID != callerOrg(r) {
			h.errorResponse(w, r, http.StatusNotFound, "swap request not found")
			return
		}

		ctx := context.WithValue(r.Context(), SwapRequestCtx, request)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) timeEntry(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entryID, err := idParam(r)
		if err != nil {
			h.errorResponse(w, r, http.StatusBadRequest, "invalid time entry id")
			return
		}

		entry, err := h.repository.GetTimeEntryByID(entryID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, http.StatusNotFound, "time entry not found")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}
		if entry.OrganizationID != callerOrg(r) {
			h.errorResponse(w, r, http.StatusNotFound, "time entry not found")
			return
		}

		ctx := context.WithValue(r.Context(), TimeEntryCtx, entry)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
