package handler

import (
	"errors"
	"net/http"
	"reflect"

	"feedmill/internal/apierror"
	"feedmill/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewFieldValidation(fields))
		return false
	}
	return true
}

// actorRole returns the normalized role placed on the context by the
// middleware. Empty string when the header was absent.
func actorRole(c *gin.Context) string {
	return c.GetString(middleware.ActorRoleKey)
}

// parseUUIDParam parses a path parameter as a UUID, writing a 400 on failure.
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps typed domain errors to HTTP statuses. Unknown errors are
// handed to the error-handler middleware, which logs them and answers 500.
func respondError(c *gin.Context, err error) {
	var (
		authErr   *apierror.AuthorizationError
		valErr    *apierror.ValidationError
		notFound  *apierror.NotFoundError
		negStock  *apierror.NegativeStockError
		importErr *apierror.ImportError
	)
	switch {
	case errors.As(err, &authErr):
		c.JSON(http.StatusForbidden, apierror.New(authErr.Error()))
	case errors.As(err, &valErr):
		c.JSON(http.StatusBadRequest, apierror.New(valErr.Error()))
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, apierror.New(notFound.Error()))
	case errors.As(err, &negStock):
		c.JSON(http.StatusConflict, apierror.New(negStock.Error()))
	case errors.As(err, &importErr):
		status := http.StatusBadRequest
		if importErr.Kind == apierror.ImportDuplicateFile || importErr.Kind == apierror.ImportStockConflict {
			status = http.StatusConflict
		}
		c.JSON(status, apierror.New(importErr.Error()))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("internal server error"))
	}
}
