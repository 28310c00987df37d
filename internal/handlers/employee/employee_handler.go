// internal/handlers/employee/employee_handler.go
package employee

import (
	"net/http"

	"ptieasy-service/internal/domain/employee"
	"ptieasy-service/internal/pkg/response"
	service "ptieasy-service/internal/service/employee"

	"github.com/gin-gonic/gin"
)

type EmployeeHandler struct {
	employeeService *service.EmployeeService
}

func NewEmployeeHandler(employeeService *service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{
		employeeService: employeeService,
	}
}

// CreateEmployee creates a new employee
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req employee.EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.employeeService.CreateEmployee(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, response.StatusFromError(err), "failed to create employee", err)
		return
	}

	response.Success(c, http.StatusCreated, "employee created successfully", result)
}

// GetEmployee retrieves an employee by ID
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	result, err := h.employeeService.GetEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, response.StatusFromError(err), "employee not found", err)
		return
	}

	response.Success(c, http.StatusOK, "employee retrieved", result)
}

// UpdateEmployee replaces the employee form
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	var req employee.EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.employeeService.UpdateEmployee(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		response.Error(c, response.StatusFromError(err), "failed to update employee", err)
		return
	}

	response.Success(c, http.StatusOK, "employee updated successfully", result)
}

// DeleteEmployee removes an employee
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	if err := h.employeeService.DeleteEmployee(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, response.StatusFromError(err), "failed to delete employee", err)
		return
	}

	response.Success(c, http.StatusOK, "employee deleted successfully", nil)
}

// ListEmployees retrieves employees with filters
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	var filters employee.EmployeeListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	result, err := h.employeeService.ListEmployees(c.Request.Context(), &filters)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list employees", err)
		return
	}

	response.Success(c, http.StatusOK, "employees retrieved", result)
}
