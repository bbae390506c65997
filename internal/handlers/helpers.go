package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/filevault/backend/internal/services"
	"github.com/filevault/backend/pkg/logger"
	"github.com/filevault/backend/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
	return v
}

func parseUUID(value string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(value))
}

// validateRequest returns a message for the first failing field, or "".
func validateRequest(req any) string {
	err := validate.Struct(req)
	if err == nil {
		return ""
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "invalid request body"
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "hexcolor":
		return fmt.Sprintf("%s must be a hex color", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// optionalID is a JSON id field that tells absent apart from null or "".
// Null and "" both mean "no folder" (the root).
type optionalID struct {
	set bool
	raw string
}

func (o *optionalID) UnmarshalJSON(data []byte) error {
	o.set = true
	if string(data) == "null" {
		o.raw = ""
		return nil
	}
	return json.Unmarshal(data, &o.raw)
}

// resolve returns the parsed id, or nil with toRoot=true for null/"".
func (o optionalID) resolve(field string) (id *uuid.UUID, toRoot bool, err error) {
	if !o.set {
		return nil, false, nil
	}
	raw := strings.TrimSpace(o.raw)
	if raw == "" {
		return nil, true, nil
	}
	parsed, err := parseUUID(raw)
	if err != nil {
		return nil, false, fmt.Errorf("invalid %s", field)
	}
	return &parsed, false, nil
}

// parseFolderParam reads an optional folder id from a form or query value.
func parseFolderParam(raw string) (*uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "root" {
		return nil, nil
	}
	parsed, err := parseUUID(raw)
	if err != nil {
		return nil, errors.New("invalid folderId")
	}
	return &parsed, nil
}

var kindStatus = map[services.Kind]int{
	services.KindValidation:   fiber.StatusBadRequest,
	services.KindUnauthorized: fiber.StatusUnauthorized,
	services.KindForbidden:    fiber.StatusForbidden,
	services.KindNotFound:     fiber.StatusNotFound,
	services.KindInternal:     fiber.StatusInternalServerError,
}

// respondError writes the envelope for a service error.
func respondError(c *fiber.Ctx, err error) error {
	kind := services.KindOf(err)
	status, ok := kindStatus[kind]
	if !ok {
		status = fiber.StatusInternalServerError
	}

	if status == fiber.StatusInternalServerError {
		details := map[string]interface{}{
			"method": c.Method(),
			"path":   c.Path(),
		}
		if userID := logger.GetUserIDFromContext(c); userID != nil {
			logger.ErrorWithUser(*userID, "request_failed", err, details)
		} else {
			logger.Error("request_failed", err, details)
		}
	}

	return utils.Error(c, status, services.MessageOf(err))
}

func getRequestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestID").(string); ok {
		return id
	}
	return ""
}
