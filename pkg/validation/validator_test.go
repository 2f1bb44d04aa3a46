package validation

import (
	"strings"
	"testing"
)

// TestValidateHubRequest tests zone declaration validation
func TestValidateHubRequest(t *testing.T) {
	tests := []struct {
		name        string
		req         HubRequest
		expectError bool
		errorField  string
	}{
		{
			name:        "Valid plain hub",
			req:         HubRequest{Name: "waypoint1", MaxDrones: 1},
			expectError: false,
		},
		{
			name:        "Valid restricted hub with color",
			req:         HubRequest{Name: "gate", Zone: "restricted", Color: "red", MaxDrones: 2},
			expectError: false,
		},
		{
			name:        "Missing name - invalid",
			req:         HubRequest{MaxDrones: 1},
			expectError: true,
			errorField:  "Name",
		},
		{
			name:        "Name with dash - invalid",
			req:         HubRequest{Name: "a-b", MaxDrones: 1},
			expectError: true,
			errorField:  "Name",
		},
		{
			name:        "Unknown zone type - invalid",
			req:         HubRequest{Name: "x", Zone: "lava", MaxDrones: 1},
			expectError: true,
			errorField:  "Zone",
		},
		{
			name:        "Zero capacity - invalid",
			req:         HubRequest{Name: "x", MaxDrones: 0},
			expectError: true,
			errorField:  "MaxDrones",
		},
		{
			name:        "Two-word color - invalid",
			req:         HubRequest{Name: "x", Color: "dark red", MaxDrones: 1},
			expectError: true,
			errorField:  "Color",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHubRequest(&tt.req)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got nil")
				} else if tt.errorField != "" && !strings.HasPrefix(err.Error(), tt.errorField) {
					t.Errorf("Expected error for field %s, got: %v", tt.errorField, err)
				}
			} else if err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}

// TestValidateConnectionRequest tests connection declaration validation
func TestValidateConnectionRequest(t *testing.T) {
	tests := []struct {
		name        string
		req         ConnectionRequest
		expectError bool
		errorField  string
	}{
		{
			name:        "Valid connection",
			req:         ConnectionRequest{From: "a", To: "b", MaxLinkCapacity: 1},
			expectError: false,
		},
		{
			name:        "Self loop - invalid",
			req:         ConnectionRequest{From: "a", To: "a", MaxLinkCapacity: 1},
			expectError: true,
			errorField:  "To",
		},
		{
			name:        "Missing endpoint - invalid",
			req:         ConnectionRequest{From: "a", MaxLinkCapacity: 1},
			expectError: true,
			errorField:  "To",
		},
		{
			name:        "Zero link capacity - invalid",
			req:         ConnectionRequest{From: "a", To: "b"},
			expectError: true,
			errorField:  "MaxLinkCapacity",
		},
		{
			name:        "Endpoint with space - invalid",
			req:         ConnectionRequest{From: "a b", To: "c", MaxLinkCapacity: 1},
			expectError: true,
			errorField:  "From",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConnectionRequest(&tt.req)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got nil")
				} else if tt.errorField != "" && !strings.HasPrefix(err.Error(), tt.errorField) {
					t.Errorf("Expected error for field %s, got: %v", tt.errorField, err)
				}
			} else if err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}

func TestNilRequests(t *testing.T) {
	if ValidateHubRequest(nil) == nil {
		t.Error("Expected error for nil hub request")
	}
	if ValidateConnectionRequest(nil) == nil {
		t.Error("Expected error for nil connection request")
	}
}

func TestValidateFleetSize(t *testing.T) {
	tests := []struct {
		size        int
		expectError bool
	}{
		{1, false},
		{25, false},
		{MaxFleetSize, false},
		{0, true},
		{-3, true},
		{MaxFleetSize + 1, true},
	}

	for _, tt := range tests {
		err := ValidateFleetSize(tt.size)
		if (err != nil) != tt.expectError {
			t.Errorf("ValidateFleetSize(%d) error = %v, expectError %v", tt.size, err, tt.expectError)
		}
	}
}

func TestValidateZoneName(t *testing.T) {
	valid := []string{"start", "hub_1", "Zone42", "é"}
	invalid := []string{"", "a-b", "a b", "x[1]", "#c", "a:b", strings.Repeat("n", MaxZoneNameLength+1)}

	for _, name := range valid {
		if err := ValidateZoneName(name); err != nil {
			t.Errorf("ValidateZoneName(%q) unexpected error: %v", name, err)
		}
	}
	for _, name := range invalid {
		if err := ValidateZoneName(name); err == nil {
			t.Errorf("ValidateZoneName(%q) expected error", name)
		}
	}
}

func TestStruct(t *testing.T) {
	type sample struct {
		Workers int `validate:"min=1"`
	}
	if err := Struct(sample{Workers: 2}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	err := Struct(sample{})
	if err == nil || !strings.Contains(err.Error(), "Workers: must be at least 1") {
		t.Errorf("unexpected error: %v", err)
	}
}
