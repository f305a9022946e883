package pipeline

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/modulith/modulith/internal/platform/logger"
	"github.com/modulith/modulith/internal/store"
)

// Service is a unit of business logic executed by the pipeline. Process
// mutates the shared result envelope's Data/Message fields directly and
// returns an error (usually a *Fault) to abort and roll back.
type Service interface {
	Process(ctx context.Context, tx *sql.Tx, input any, res *Result) error
}

// InputValidator lets a service replace the default tag-based validation of
// its input. Services that do not implement it get their input validated
// against its struct tags; inputs without tags pass trivially.
type InputValidator interface {
	ValidateInput(input any) error
}

// Executor runs services with at most one transaction per top-level call
// and normalizes every failure into the result envelope. It never
// re-raises: callers always receive an envelope.
type Executor struct {
	runner   store.TxRunner
	validate *validator.Validate
	logger   *slog.Logger
	dev      bool
}

// NewExecutor creates an Executor. dev enables verbose failure messages in
// error envelopes; keep it off outside development environments so internal
// detail cannot leak to callers.
func NewExecutor(runner store.TxRunner, log *slog.Logger, dev bool) *Executor {
	if log == nil {
		log = slog.Default()
	}

	validate := validator.New()
	// Report field errors under their JSON names, not Go field names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &Executor{
		runner:   runner,
		validate: validate,
		logger:   log.With(slog.String("component", "pipeline")),
		dev:      dev,
	}
}

// Execute runs a top-level service call: fresh envelope, input validation,
// one transaction around Process, commit on success and rollback on any
// failure. The returned envelope always carries a status code; Data is set
// only on success, Errors only on validation failure.
func (e *Executor) Execute(ctx context.Context, svc Service, input any) *Result {
	res := NewResult()

	err := e.runner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := e.validateInput(svc, input); err != nil {
			return err
		}
		return svc.Process(ctx, tx, input, res)
	})

	if err != nil {
		e.fail(ctx, res, err)
	}

	return res
}

// Sub invokes another service's Process inside the caller's transaction:
// no new transaction, no input validation, and the caller's envelope is
// mutated in place. A failing sub-service aborts the whole composed call.
func (e *Executor) Sub(ctx context.Context, tx *sql.Tx, svc Service, input any, res *Result) error {
	return svc.Process(ctx, tx, input, res)
}

// validateInput applies the service's input rules. Services implementing
// InputValidator define their own rules; everything else is validated
// against the input struct's validator tags.
func (e *Executor) validateInput(svc Service, input any) error {
	if v, ok := svc.(InputValidator); ok {
		return v.ValidateInput(input)
	}

	if input == nil {
		return nil
	}

	rv := reflect.ValueOf(input)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	return e.validate.Struct(input)
}

// fail normalizes a Process or validation failure into the envelope.
func (e *Executor) fail(ctx context.Context, res *Result, err error) {
	log := logger.FromContextOrDefault(ctx, e.logger)
	res.Err = err

	// Field-level validation failures from validator tags.
	if vErrs, ok := asValidationErrors(err); ok {
		res.StatusCode = http.StatusUnprocessableEntity
		res.Errors = fieldErrors(vErrs)
		res.Message = "The given data was invalid."
		log.Debug("service input validation failed",
			slog.Any("fields", res.Errors))
		return
	}

	// Tagged business faults.
	if f, ok := AsFault(err); ok {
		res.StatusCode = f.Kind.StatusCode()
		res.Message = f.Message
		if f.Kind == KindValidation {
			res.Errors = f.Fields
		}
		if e.dev && f.Err != nil {
			res.Message = fmt.Sprintf("%s (caused by: %v)", f.Message, f.Err)
		}
		log.Debug("service failed with business fault",
			slog.String("kind", f.Kind.String()),
			slog.Int("status_code", res.StatusCode))
		return
	}

	// Everything else is an unexpected failure.
	res.StatusCode = http.StatusInternalServerError
	if e.dev {
		res.Message = fmt.Sprintf("caught %T: %v", err, err)
	} else {
		res.Message = "Internal server error."
	}
	log.Error("service failed with unexpected error",
		slog.String("error", err.Error()))
}

func asValidationErrors(err error) (validator.ValidationErrors, bool) {
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		return vErrs, true
	}
	return nil, false
}

// fieldErrors converts validator errors into the envelope's field error map.
func fieldErrors(vErrs validator.ValidationErrors) map[string][]string {
	fields := make(map[string][]string, len(vErrs))
	for _, fe := range vErrs {
		name := strings.ToLower(fe.Field())
		fields[name] = append(fields[name], validationMessage(fe))
	}
	return fields
}

func validationMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", field)
	case "min":
		return fmt.Sprintf("The %s must be at least %s characters.", field, fe.Param())
	case "max":
		return fmt.Sprintf("The %s may not be greater than %s characters.", field, fe.Param())
	case "eqfield":
		return fmt.Sprintf("The %s confirmation does not match.", field)
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}
