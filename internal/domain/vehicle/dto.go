// internal/domain/vehicle/dto.go
package vehicle

// VehicleRequest is the full vehicle form, used for create and update
type VehicleRequest struct {
	VehicleID         string `json:"vehicle_id" binding:"required"`
	Type              Type   `json:"type" binding:"omitempty,oneof=truck van trailer"`
	Make              string `json:"make" binding:"required"`
	Model             string `json:"model" binding:"required"`
	Year              int    `json:"year" binding:"omitempty,min=1900,max=2100"`
	LicensePlate      string `json:"license_plate"`
	AssignedDriverRef string `json:"assigned_driver_ref"`
	Status            Status `json:"status" binding:"omitempty,oneof=active maintenance inactive"`
	Mileage           int64  `json:"mileage" binding:"min=0"`
	Location          string `json:"location"`
}

// VehicleListFilters for listing/searching vehicles
type VehicleListFilters struct {
	Search   string `form:"search"` // vehicle id, make, model, plate, driver
	Type     Type   `form:"type" binding:"omitempty,oneof=truck van trailer"`
	Status   Status `form:"status" binding:"omitempty,oneof=active maintenance inactive"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// VehicleView is a list row with display fields resolved
type VehicleView struct {
	Vehicle
	MileageDisplay        string `json:"mileage_display"`
	AssignedDriverDisplay string `json:"assigned_driver_display"`
}

// VehicleListResponse paginated list response
type VehicleListResponse struct {
	Vehicles   []VehicleView `json:"vehicles"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
}
