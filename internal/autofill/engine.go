// Package autofill sequences the end-to-end identifier auto-fill flows:
// verify an identifier against the backend, normalize the registry
// response, resolve form fields and populate them, with uniform structured
// failures at every stage.
package autofill

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"formfill/internal/autofill/form"
	"formfill/internal/autofill/mapping"
	"formfill/internal/autofill/metrics"
	"formfill/internal/autofill/populate"
	"formfill/internal/autofill/record"
	"formfill/internal/autofill/tracer"
	"formfill/internal/autofill/trigger"
	"formfill/internal/autofill/verify"
	"formfill/pkg/fferrors"
)

// Verifier is the gateway surface the engine depends on.
type Verifier interface {
	VerifyPerson(ctx context.Context, identifier string) verify.Result
	VerifyOrganization(ctx context.Context, registrationNumber, companyName string) verify.Result
	Cancel()
}

// Result is the uniform outcome of one auto-fill run, identical in shape
// for person and organization flows.
type Result struct {
	Success             bool
	PopulatedFieldCount int
	PopulatedFields     []string
	Cached              bool
	Error               *fferrors.Error
}

// Callbacks are the host's optional hooks into the pipeline. OnComplete
// always fires, regardless of outcome.
type Callbacks struct {
	OnVerificationStart    func(identifier string)
	OnVerificationComplete func(result verify.Result)
	OnVerificationError    func(err *fferrors.Error)
	OnComplete             func(result Result)
}

// Engine drives auto-fill for one form. It is event driven and not safe
// for concurrent runs; the gateway's single-flight semantics make a second
// run cancel the first.
type Engine struct {
	form       form.Form
	gateway    Verifier
	config     Config
	normalizer *record.Normalizer
	populator  *populate.Populator
	presenter  FeedbackPresenter
	callbacks  Callbacks
	logger     *slog.Logger
	tracer     tracer.Tracer
	metrics    *metrics.Metrics
	setValue   func(fieldName, value string) error

	mu       sync.Mutex
	attached []*trigger.Coordinator
}

// Option configures the Engine.
type Option func(*Engine)

// WithConfig sets the activation policy and overrides.
func WithConfig(cfg Config) Option {
	return func(e *Engine) { e.config = cfg }
}

// WithPresenter sets the feedback sink.
func WithPresenter(p FeedbackPresenter) Option {
	return func(e *Engine) { e.presenter = p }
}

// WithCallbacks sets the host's pipeline hooks.
func WithCallbacks(cb Callbacks) Option {
	return func(e *Engine) { e.callbacks = cb }
}

// WithLogger sets the logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithTracer sets the tracer for the engine.
func WithTracer(t tracer.Tracer) Option {
	return func(e *Engine) { e.tracer = t }
}

// WithMetrics sets the metrics sink the engine records population
// outcomes on. Share the instance with the gateway so verification and
// population metrics land on one registry.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithSetValue installs a side-channel setter passed through to population
// for hosts whose widgets are not addressable natively.
func WithSetValue(fn func(fieldName, value string) error) Option {
	return func(e *Engine) { e.setValue = fn }
}

// New creates an engine bound to one form and one gateway.
func New(f form.Form, gateway Verifier, opts ...Option) *Engine {
	e := &Engine{
		form:      f,
		gateway:   gateway,
		config:    DefaultConfig(),
		presenter: NoopPresenter{},
		logger:    slog.Default(),
		tracer:    tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.normalizer = record.New(record.WithLogger(e.logger))
	e.populator = populate.NewPopulator(populate.WithLogger(e.logger))
	return e
}

// RunPersonAutoFill verifies a person identifier and populates the form
// from the canonical person record.
func (e *Engine) RunPersonAutoFill(ctx context.Context, identifier string) Result {
	return e.run(ctx, form.IdentifierPerson, identifier, func(ctx context.Context) verify.Result {
		return e.gateway.VerifyPerson(ctx, identifier)
	}, func(data map[string]string) []record.Attribute {
		return record.PersonAttributes(e.normalizer.NormalizePerson(data))
	})
}

// RunOrganizationAutoFill verifies a registration number and populates the
// form from the canonical organization record. The registry requires the
// company name alongside the number.
func (e *Engine) RunOrganizationAutoFill(ctx context.Context, identifier, companyName string) Result {
	return e.run(ctx, form.IdentifierOrganization, identifier, func(ctx context.Context) verify.Result {
		return e.gateway.VerifyOrganization(ctx, identifier, companyName)
	}, func(data map[string]string) []record.Attribute {
		return record.OrganizationAttributes(e.normalizer.NormalizeOrganization(data))
	})
}

func (e *Engine) run(
	ctx context.Context,
	kind form.IdentifierType,
	identifier string,
	callGateway func(context.Context) verify.Result,
	normalize func(map[string]string) []record.Attribute,
) (result Result) {
	defer func() {
		if e.callbacks.OnComplete != nil {
			e.callbacks.OnComplete(result)
		}
	}()

	ctx, span := e.tracer.Start(ctx, tracer.SpanAutoFill,
		tracer.String(tracer.AttrIdentifierType, kind.String()),
		tracer.String(tracer.AttrIdentifierHash, tracer.HashIdentifier(identifier)),
	)
	defer func() {
		// An explicit nil check keeps a nil *fferrors.Error from reaching the
		// span as a non-nil error interface.
		if result.Error != nil {
			span.End(result.Error)
			return
		}
		span.End(nil)
	}()

	formType := form.DetectFormType(e.form)

	if formType != form.FormTypeNone && !e.config.Active(formType) {
		return e.fail(fferrors.New(fferrors.CodeAutoFillDisabled,
			fmt.Sprintf("auto-fill is disabled for %s forms", formType)))
	}

	if !form.Supports(e.form, kind) {
		return e.fail(fferrors.New(fferrors.CodeUnsupportedForm,
			fmt.Sprintf("form has no %s identifier field", kind)))
	}

	idField, _ := form.IdentifierField(e.form, kind)
	e.presenter.ShowLoading(idField.Name())
	defer e.presenter.HideLoading(idField.Name())

	if e.callbacks.OnVerificationStart != nil {
		e.callbacks.OnVerificationStart(identifier)
	}

	res := callGateway(ctx)
	if !res.Success {
		if e.callbacks.OnVerificationError != nil {
			e.callbacks.OnVerificationError(res.Error)
		}
		return e.fail(res.Error)
	}
	if e.callbacks.OnVerificationComplete != nil {
		e.callbacks.OnVerificationComplete(res)
	}

	// A "found" record with fewer than two attributes is a registry serving
	// junk, not a usable answer.
	if record.NonEmptyCount(res.Data) < 2 {
		return e.fail(fferrors.New(fferrors.CodeInvalidResponse,
			"verification response carries too little data to populate from"))
	}

	attrs := normalize(res.Data)

	mappings := mapping.Map(e.form, attrs, e.config.OverridesFor(formType))
	if len(mappings) == 0 {
		return e.fail(fferrors.New(fferrors.CodeNoFieldsMapped,
			"no canonical attribute mapped to any form field"))
	}

	popResult := e.populator.Populate(e.form, mappings, populate.Options{
		OverwriteUserInput: e.config.OverwriteUserInput,
		SetValue:           e.setValue,
		Marker:             e.presenter.MarkAutoFilled,
	})

	span.SetAttributes(
		tracer.Int(tracer.AttrMappedFields, len(mappings)),
		tracer.String(tracer.AttrFormType, formType.String()),
		tracer.Bool(tracer.AttrCached, res.Cached),
	)

	if e.metrics != nil {
		e.metrics.RecordPopulation(formType.String(),
			len(popResult.PopulatedFields), len(popResult.SkippedFields))
	}

	for _, fieldErr := range popResult.Errors {
		e.logger.Warn("field population error",
			"field", fieldErr.FieldName,
			"error", fieldErr.Err,
		)
	}
	if len(popResult.PopulatedFields) == 0 && len(popResult.Errors) > 0 {
		return e.fail(fferrors.New(fferrors.CodePopulationFailure,
			"every mapped field failed to populate"))
	}

	e.presenter.ShowSuccess(len(popResult.PopulatedFields), res.Cached)
	return Result{
		Success:             true,
		PopulatedFieldCount: len(popResult.PopulatedFields),
		PopulatedFields:     popResult.PopulatedFields,
		Cached:              res.Cached,
	}
}

func (e *Engine) fail(err *fferrors.Error) Result {
	e.presenter.ShowError(err.Code, err.Message)
	return Result{Error: err}
}

// MarkFieldModified records a user edit so later runs skip the field.
func (e *Engine) MarkFieldModified(fieldName string) {
	e.populator.MarkModified(fieldName)
}

// AttachPersonTrigger wires focus-loss on the form's person identifier
// field to RunPersonAutoFill.
func (e *Engine) AttachPersonTrigger() (*trigger.Coordinator, error) {
	idField, ok := form.IdentifierField(e.form, form.IdentifierPerson)
	if !ok {
		return nil, fferrors.New(fferrors.CodeUnsupportedForm, "form has no person identifier field")
	}
	c := trigger.Attach(idField, form.IdentifierPerson, func(ctx context.Context, identifier string) error {
		result := e.RunPersonAutoFill(ctx, identifier)
		if result.Error != nil {
			return result.Error
		}
		return nil
	}, trigger.WithLogger(e.logger))
	e.remember(c)
	return c, nil
}

// AttachOrganizationTrigger wires focus-loss on the registration-number
// field to RunOrganizationAutoFill. The coordinator cannot call the
// gateway itself because the registry needs the company name too; the
// engine reads it from the form at trigger time.
func (e *Engine) AttachOrganizationTrigger() (*trigger.Coordinator, error) {
	idField, ok := form.IdentifierField(e.form, form.IdentifierOrganization)
	if !ok {
		return nil, fferrors.New(fferrors.CodeUnsupportedForm, "form has no organization identifier field")
	}
	c := trigger.Attach(idField, form.IdentifierOrganization, func(ctx context.Context, identifier string) error {
		companyField, ok := form.ResolveExisting(e.form, "companyName")
		if !ok || companyField.Value() == "" {
			return fferrors.New(fferrors.CodeInvalidInput,
				"company name is required before the registration number can be verified")
		}
		result := e.RunOrganizationAutoFill(ctx, identifier, companyField.Value())
		if result.Error != nil {
			return result.Error
		}
		return nil
	}, trigger.WithLogger(e.logger))
	e.remember(c)
	return c, nil
}

func (e *Engine) remember(c *trigger.Coordinator) {
	e.mu.Lock()
	e.attached = append(e.attached, c)
	e.mu.Unlock()
}

// Cleanup cancels any in-flight verification and detaches every trigger.
// Safe to call repeatedly.
func (e *Engine) Cleanup() {
	e.gateway.Cancel()
	e.mu.Lock()
	attached := e.attached
	e.attached = nil
	e.mu.Unlock()
	for _, c := range attached {
		c.Detach()
	}
}
