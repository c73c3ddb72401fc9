package validation

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/lidiabooking/booking-api/pkg/timeutil"
)

// Register installs the custom binding validations on gin's validator.
// "localdatetime" checks the "YYYY-MM-DD HH:MM" wall-clock format used
// by admin payloads.
func Register() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterValidation("localdatetime", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(timeutil.DateTimeLayout, fl.Field().String())
		return err == nil
	})
}
