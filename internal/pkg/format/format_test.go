package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMileage(t *testing.T) {
	assert.Equal(t, "45,000 mi", Mileage(45000))
	assert.Equal(t, "0 mi", Mileage(0))
	assert.Equal(t, "1,234,567 mi", Mileage(1234567))
}

func TestLastActive(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		ago  time.Duration
		want string
	}{
		{30 * time.Second, "Just now"},
		{5 * time.Minute, "5m ago"},
		{59 * time.Minute, "59m ago"},
		{3 * time.Hour, "3h ago"},
		{50 * time.Hour, "2d ago"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, LastActive(now.Add(-tt.ago), now))
		})
	}
}

func TestMinutes(t *testing.T) {
	assert.Equal(t, "11.2 min", Minutes(11*time.Minute+12*time.Second))
	assert.Equal(t, "8 min", Minutes(8*time.Minute))
}

func TestElapsed(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2 hours", Elapsed(now.Add(-2*time.Hour), now))
	assert.Equal(t, "15 minutes", Elapsed(now.Add(-15*time.Minute), now))
	assert.Equal(t, "now", Elapsed(now, now))
}

func TestVehicleLabel(t *testing.T) {
	assert.Equal(t, "Truck #101", VehicleLabel("TRK-101"))
	assert.Equal(t, "Van #205", VehicleLabel("van-205"))
	assert.Equal(t, "BUS-9", VehicleLabel("BUS-9"))
	assert.Equal(t, "Truck #7", VehicleLabel("Truck #7"))
}
