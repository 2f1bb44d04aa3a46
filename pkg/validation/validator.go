package validation

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Validation constants
	MaxZoneNameLength = 64
	MaxColorLength    = 32
	MaxFleetSize      = 100000
	MaxCapacity       = 1 << 20

	// Zone names may not contain dashes or whitespace: the connection
	// syntax "a-b" splits on the first dash.
	zoneNamePattern = regexp.MustCompile(`^[^\s\-\[\]#:]+$`)
	colorPattern    = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

func init() {
	validate = validator.New()
}

// HubRequest is a zone declaration as read from a map file
type HubRequest struct {
	Name      string `json:"name" validate:"required,max=64"`
	Zone      string `json:"zone" validate:"omitempty,oneof=normal priority restricted blocked"`
	Color     string `json:"color" validate:"omitempty,max=32"`
	MaxDrones int    `json:"maxDrones" validate:"min=1"`
}

// ConnectionRequest is a connection declaration as read from a map file
type ConnectionRequest struct {
	From            string `json:"from" validate:"required,max=64"`
	To              string `json:"to" validate:"required,max=64,nefield=From"`
	MaxLinkCapacity int    `json:"maxLinkCapacity" validate:"min=1"`
}

// ValidateHubRequest validates a zone declaration
func ValidateHubRequest(req *HubRequest) error {
	if req == nil {
		return errors.New("hub request cannot be nil")
	}

	// Validate using struct tags
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}

	if err := ValidateZoneName(req.Name); err != nil {
		return fmt.Errorf("Name: %w", err)
	}
	if req.Color != "" && !colorPattern.MatchString(req.Color) {
		return fmt.Errorf("Color: '%s' must be a single word", req.Color)
	}
	if req.MaxDrones > MaxCapacity {
		return fmt.Errorf("MaxDrones: must not exceed %d, got %d", MaxCapacity, req.MaxDrones)
	}

	return nil
}

// ValidateConnectionRequest validates a connection declaration
func ValidateConnectionRequest(req *ConnectionRequest) error {
	if req == nil {
		return errors.New("connection request cannot be nil")
	}

	// Validate using struct tags
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}

	if err := ValidateZoneName(req.From); err != nil {
		return fmt.Errorf("From: %w", err)
	}
	if err := ValidateZoneName(req.To); err != nil {
		return fmt.Errorf("To: %w", err)
	}
	if req.MaxLinkCapacity > MaxCapacity {
		return fmt.Errorf("MaxLinkCapacity: must not exceed %d, got %d", MaxCapacity, req.MaxLinkCapacity)
	}

	return nil
}

// ValidateFleetSize validates the number of drones to route
func ValidateFleetSize(size int) error {
	if size < 1 {
		return fmt.Errorf("fleet size must be at least 1, got %d", size)
	}
	if size > MaxFleetSize {
		return fmt.Errorf("fleet size must not exceed %d, got %d", MaxFleetSize, size)
	}
	return nil
}

// ValidateZoneName validates a zone name
func ValidateZoneName(name string) error {
	if name == "" {
		return errors.New("zone name cannot be empty")
	}
	if len(name) > MaxZoneNameLength {
		return fmt.Errorf("zone name '%s' exceeds maximum length of %d characters", name, MaxZoneNameLength)
	}
	if !zoneNamePattern.MatchString(name) {
		return fmt.Errorf("zone name '%s' is invalid (no dashes, spaces, brackets, '#' or ':')", name)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Field()
		tag := e.Tag()
		param := e.Param()

		switch tag {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s], got %v", field, param, e.Value())
		case "nefield":
			return fmt.Errorf("%s: must differ from %s", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, tag)
		}
	}

	return err
}

// Struct validates any struct carrying validator tags and formats the first
// failure like the request validators do.
func Struct(v any) error {
	return formatValidationError(validate.Struct(v))
}
