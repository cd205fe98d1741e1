package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/novacreations/nova-hr/internal/api/middleware"
	"github.com/novacreations/nova-hr/internal/auth"
	"github.com/novacreations/nova-hr/internal/employees"
	"github.com/novacreations/nova-hr/internal/pto"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func authMeta(r *http.Request) auth.RequestMeta {
	return auth.RequestMeta{
		IPAddress: middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
	}
}

func ptoMeta(r *http.Request) pto.RequestMeta {
	return pto.RequestMeta{
		IPAddress: middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
	}
}

func employeesMeta(r *http.Request) employees.RequestMeta {
	return employees.RequestMeta{
		IPAddress: middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
	}
}
