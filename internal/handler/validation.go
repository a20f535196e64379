package handler

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/yourusername/spatial-quiz-api/internal/domain/spatial"
)

var registerOnce sync.Once

// RegisterValidators регистрирует пользовательские теги в валидаторе gin:
// direction, answer_option, grid_coord
func RegisterValidators() {
	registerOnce.Do(func() {
		validate, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		validate.RegisterValidation("direction", validateDirection)
		validate.RegisterValidation("answer_option", validateAnswerOption)
		validate.RegisterValidation("grid_coord", validateGridCoord)

		// Имена полей в ошибках - как в JSON/форме
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})
	})
}

func validateDirection(fl validator.FieldLevel) bool {
	_, err := spatial.ParseDirection(fl.Field().String())
	return err == nil
}

func validateAnswerOption(fl validator.FieldLevel) bool {
	_, err := spatial.ParseAnswerOption(fl.Field().String())
	return err == nil
}

func validateGridCoord(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := field.Int()
		return v >= 0 && v < spatial.GridSize
	}
	return false
}
