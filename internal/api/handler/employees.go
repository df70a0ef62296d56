package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/staffapi/internal/api/request"
	"github.com/mcoot/staffapi/internal/api/response"
	"github.com/mcoot/staffapi/internal/middleware"
	"github.com/mcoot/staffapi/internal/model"
	"github.com/mcoot/staffapi/internal/services/directory"
)

// maxJSONBody caps JSON request bodies
const maxJSONBody = 1 << 20

// EmployeeHandler handles the employee directory endpoints
type EmployeeHandler struct {
	directory *directory.Directory
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(dir *directory.Directory) *EmployeeHandler {
	return &EmployeeHandler{directory: dir}
}

// List handles GET /api/employees
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := request.ParseEmployeeQuery(r.URL.Query())
	response.JSON(w, http.StatusOK, h.directory.List(filter))
}

// Oldest handles GET /api/employees/oldest
func (h *EmployeeHandler) Oldest(w http.ResponseWriter, r *http.Request) {
	employee, err := h.directory.Oldest()
	if err != nil {
		WriteError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, employee)
}

// Get handles GET /api/employees/{name}
func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	employee, err := h.directory.FindByName(mux.Vars(r)["name"])
	if err != nil {
		WriteError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, employee)
}

// Create handles POST /api/employees. Schema violations answer a bare
// bad_request; the field messages only go to the debug log.
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		WriteError(w, r, NewBadRequestError())
		return
	}

	candidate, err := directory.ParseCandidate(body)
	if err == nil {
		var employee model.Employee
		employee, err = h.directory.Append(candidate)
		if err == nil {
			response.JSON(w, http.StatusCreated, employee)
			return
		}
	}

	var verr *model.ValidationError
	if errors.As(err, &verr) {
		middleware.LoggerFrom(r.Context()).Debug("employee rejected", slog.Any("fields", verr.Fields))
		WriteError(w, r, NewBadRequestError())
		return
	}
	WriteError(w, r, err)
}
