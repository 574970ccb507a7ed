package middleware

import (
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/jwalitptl/dentalcare-api/internal/model"
)

var registerOnce sync.Once

// RegisterValidators installs the custom binding tags on gin's validator and
// makes field errors report JSON names. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})

		must(v.RegisterValidation("notblank", validators.NotBlank))
		must(v.RegisterValidation("isodate", isoDate))
		must(v.RegisterValidation("hhmm", hhmm))
		must(v.RegisterValidation("appointmentstatus", func(fl validator.FieldLevel) bool {
			return model.AppointmentStatus(fl.Field().String()).Valid()
		}))
		must(v.RegisterValidation("poststatus", func(fl validator.FieldLevel) bool {
			return model.PostStatus(fl.Field().String()).Valid()
		}))
		must(v.RegisterValidation("postcategory", func(fl validator.FieldLevel) bool {
			return model.PostCategory(fl.Field().String()).Valid()
		}))
	})
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func isoDate(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

// hhmm accepts HH:MM with optional seconds.
func hhmm(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	for _, layout := range []string{"15:04", "15:04:05"} {
		if len(s) == len(layout) {
			if _, err := time.Parse(layout, s); err == nil {
				return true
			}
		}
	}
	return false
}
