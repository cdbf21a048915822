package utils

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	// Report fields by their JSON names.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
	}
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// Validate performs validation on a struct using its binding tags.
func Validate(s interface{}) error {
	return binding.Validator.ValidateStruct(s)
}

// FormatValidationError formats validation errors into a readable string.
func FormatValidationError(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return "Dados inválidos"
	}

	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, describeFieldError(e))
	}
	return strings.Join(messages, "; ")
}

func describeFieldError(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s é obrigatório", field)
	case "email":
		return fmt.Sprintf("%s deve ser um e-mail válido", field)
	case "min":
		return fmt.Sprintf("%s deve ter no mínimo %s caracteres", field, e.Param())
	case "max":
		return fmt.Sprintf("%s deve ter no máximo %s caracteres", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s deve ser um de: %s", field, e.Param())
	case "uuid":
		return fmt.Sprintf("%s deve ser um ID válido", field)
	default:
		return fmt.Sprintf("%s é inválido", field)
	}
}

// BindAndValidate binds the request body to a struct and validates it.
// If validation fails, it sends a BadRequest response and returns false.
// An empty body binds as an empty object.
func BindAndValidate(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if errors.Is(err, io.EOF) {
		err = Validate(obj)
	}
	if err == nil {
		return true
	}

	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		BadRequest(c, FormatValidationError(err))
	} else {
		BadRequest(c, "Dados inválidos: corpo da requisição malformado")
	}
	return false
}
