// internal/handlers/vehicle/vehicle_handler.go
package vehicle

import (
	"net/http"

	"ptieasy-service/internal/domain/vehicle"
	"ptieasy-service/internal/pkg/response"
	service "ptieasy-service/internal/service/vehicle"

	"github.com/gin-gonic/gin"
)

type VehicleHandler struct {
	vehicleService *service.VehicleService
}

func NewVehicleHandler(vehicleService *service.VehicleService) *VehicleHandler {
	return &VehicleHandler{
		vehicleService: vehicleService,
	}
}

// CreateVehicle adds a vehicle to the fleet; vehicle_id must be unique
func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	var req vehicle.VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.vehicleService.CreateVehicle(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, response.StatusFromError(err), "failed to create vehicle", err)
		return
	}

	response.Success(c, http.StatusCreated, "vehicle created successfully", result)
}

// GetVehicle retrieves a vehicle by ID
func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	result, err := h.vehicleService.GetVehicle(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, response.StatusFromError(err), "vehicle not found", err)
		return
	}

	response.Success(c, http.StatusOK, "vehicle retrieved", result)
}

// UpdateVehicle replaces the vehicle form
func (h *VehicleHandler) UpdateVehicle(c *gin.Context) {
	var req vehicle.VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.vehicleService.UpdateVehicle(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		response.Error(c, response.StatusFromError(err), "failed to update vehicle", err)
		return
	}

	response.Success(c, http.StatusOK, "vehicle updated successfully", result)
}

// DeleteVehicle removes a vehicle
func (h *VehicleHandler) DeleteVehicle(c *gin.Context) {
	if err := h.vehicleService.DeleteVehicle(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, response.StatusFromError(err), "failed to delete vehicle", err)
		return
	}

	response.Success(c, http.StatusOK, "vehicle deleted successfully", nil)
}

// ListVehicles retrieves vehicles with filters
func (h *VehicleHandler) ListVehicles(c *gin.Context) {
	var filters vehicle.VehicleListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	result, err := h.vehicleService.ListVehicles(c.Request.Context(), &filters)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list vehicles", err)
		return
	}

	response.Success(c, http.StatusOK, "vehicles retrieved", result)
}
