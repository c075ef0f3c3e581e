package utils

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate runs struct validation against the shared validator instance.
func Validate(s any) error {
	return validate.Struct(s)
}

// FormatValidationError flattens validation errors into a readable string.
func FormatValidationError(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok {
		var parts []string
		for _, e := range errs {
			parts = append(parts, e.Field()+" failed on the "+e.Tag()+" rule")
		}
		return strings.Join(parts, ", ")
	}
	return err.Error()
}

// BindAndValidate binds the JSON request body to obj and validates it.
// On failure it writes a BadRequest response and returns false.
func BindAndValidate(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		BadRequest(c, "Invalid request payload: "+err.Error())
		return false
	}
	if err := Validate(obj); err != nil {
		BadRequest(c, "Validation failed: "+FormatValidationError(err))
		return false
	}
	return true
}
