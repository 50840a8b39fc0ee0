package handler

import (
	"errors"
	"net/http"
	"reflect"

	"betteredible/internal/apierror"
	"betteredible/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

// newValidator builds the shared validator with decimal.Decimal registered
// as a numeric type, so tags like min=0 and gt=0 work on money fields
// instead of panicking with "Bad field type decimal.Decimal".
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// fieldErrors flattens validator output into a field→tag map for the
// 422 response body.
func fieldErrors(err error) map[string]string {
	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
	}
	return fields
}

// bindAndValidate decodes the JSON body into req and runs its validation
// tags. On failure it writes the error response and returns false; the
// caller must return without writing anything else.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fieldErrors(err)))
		return false
	}
	return true
}

// writeServiceError maps typed service failures onto HTTP statuses. Missing
// records are 404, gated transitions and lost races are 409 — the client can
// recover from both by re-reading state. Everything else is a 400.
func writeServiceError(c *gin.Context, err error) {
	var nf *service.NotFoundError
	if errors.As(err, &nf) {
		c.JSON(http.StatusNotFound, apierror.New(nf.Error()))
		return
	}
	var it *service.InvalidTransitionError
	if errors.As(err, &it) {
		c.JSON(http.StatusConflict, apierror.New(it.Error()))
		return
	}
	if errors.Is(err, service.ErrConcurrentModification) {
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
}

// parseUUIDParam parses a path param as a UUID, writing a 400 on failure.
func parseUUIDParam(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid "+param))
		return uuid.Nil, false
	}
	return id, true
}
