// Package pipeline orchestrates one PDF fill run: load the weekly YAML
// data, read the form template, enrich incomplete contacts, and write the
// filled output. Every stage is traced; enrichment failures are recorded
// and skipped rather than aborting the run.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/pdffill/internal/enrich"
	"github.com/fyrsmithlabs/pdffill/internal/formdata"
	"github.com/fyrsmithlabs/pdffill/internal/logging"
	"github.com/fyrsmithlabs/pdffill/internal/mapping"
	"github.com/fyrsmithlabs/pdffill/internal/pdf"
	"github.com/fyrsmithlabs/pdffill/internal/telemetry"
)

// FormTemplate is the PDF form capability the pipeline needs. *pdf.Template
// satisfies it; tests substitute an in-memory form.
type FormTemplate interface {
	Path() string
	Fields() map[string]struct{}
	Fill(values map[string]string, boxes map[string]bool, outPath string) error
}

// Collaborators are the pluggable pieces of a Runner. Zero-value loaders
// default to the real file-backed implementations.
type Collaborators struct {
	Lookup       enrich.Lookup
	OpenTemplate func(path string) (FormTemplate, error)
	LoadData     func(path string) (*formdata.Week, error)
	LoadMapping  func(path string) (*mapping.Mapping, error)
}

// Runner executes fill runs.
type Runner struct {
	lookup       enrich.Lookup
	openTemplate func(path string) (FormTemplate, error)
	loadData     func(path string) (*formdata.Week, error)
	loadMapping  func(path string) (*mapping.Mapping, error)

	logger  *logging.Logger
	tracer  trace.Tracer
	metrics *Metrics
}

// NewRunner creates a Runner. tel may be a disabled Telemetry; tracing and
// metrics then become no-ops without changing run behavior.
func NewRunner(c Collaborators, tel *telemetry.Telemetry, logger *logging.Logger) (*Runner, error) {
	if c.Lookup == nil {
		return nil, fmt.Errorf("lookup is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	r := &Runner{
		lookup:       c.Lookup,
		openTemplate: c.OpenTemplate,
		loadData:     c.LoadData,
		loadMapping:  c.LoadMapping,
		logger:       logger,
		tracer:       tel.Tracer(InstrumentationName),
	}
	if r.openTemplate == nil {
		r.openTemplate = func(path string) (FormTemplate, error) {
			return pdf.Open(path)
		}
	}
	if r.loadData == nil {
		r.loadData = formdata.Load
	}
	if r.loadMapping == nil {
		r.loadMapping = mapping.Load
	}

	metrics, err := NewMetrics(tel.Meter(InstrumentationName))
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}
	r.metrics = metrics
	return r, nil
}

// Request names the input and output files for one run.
type Request struct {
	TemplatePath string
	DataPath     string
	OutputPath   string
	MappingPath  string
}

// Result summarizes one run.
type Result struct {
	RunID            string
	ContactsProvided int
	Enriched         int
	Skipped          int
	Failed           int
}

// Run executes one fill run under a root span. Enrichment failures do not
// fail the run; file errors do.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	runID := uuid.New().String()
	ctx = logging.WithRunID(ctx, runID)

	ctx, root := r.tracer.Start(ctx, "fill_pdf_form", trace.WithAttributes(
		attribute.String("run.id", runID),
		attribute.String("pdf.input_path", req.TemplatePath),
		attribute.String("pdf.output_path", req.OutputPath),
		attribute.String("yaml.input_path", req.DataPath),
	))
	defer root.End()

	res, err := r.execute(ctx, req, runID)
	if err != nil {
		root.RecordError(err)
		root.SetStatus(codes.Error, err.Error())
		r.metrics.RecordRun(ctx, "failure", time.Since(start))
		r.logger.Error(ctx, "pdf fill run failed", zap.Error(err))
		return nil, err
	}

	root.SetAttributes(attribute.Bool("pdf.processing_complete", true))
	r.metrics.RecordRun(ctx, "success", time.Since(start))
	r.logger.Info(ctx, "pdf fill run complete",
		zap.String("output", req.OutputPath),
		zap.Int("contacts_provided", res.ContactsProvided),
		zap.Int("enriched", res.Enriched),
		zap.Int("failed", res.Failed),
		zap.Duration("duration", time.Since(start)),
	)
	return res, nil
}

func (r *Runner) execute(ctx context.Context, req Request, runID string) (*Result, error) {
	week, m, err := r.loadInputs(ctx, req)
	if err != nil {
		return nil, err
	}

	tmpl, err := r.readTemplate(ctx, req.TemplatePath)
	if err != nil {
		return nil, err
	}

	res := &Result{RunID: runID, ContactsProvided: len(week.Contacts)}
	r.enrichContacts(ctx, week, res)

	if err := r.writeOutput(ctx, tmpl, week, m, req.OutputPath); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *Runner) loadInputs(ctx context.Context, req Request) (*formdata.Week, *mapping.Mapping, error) {
	ctx, span := r.tracer.Start(ctx, "load_yaml_data", trace.WithAttributes(
		telemetry.FilePathKey.String(req.DataPath),
	))
	defer span.End()

	week, err := r.loadData(req.DataPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, fmt.Errorf("failed to load data: %w", err)
	}

	m := &mapping.Mapping{Aliases: map[string][]string{}, Checkboxes: map[string]map[string]string{}}
	if req.MappingPath != "" {
		span.SetAttributes(attribute.String("mapping.path", req.MappingPath))
		m, err = r.loadMapping(req.MappingPath)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, nil, fmt.Errorf("failed to load mapping: %w", err)
		}
	}

	span.SetAttributes(attribute.Int("contacts.count", len(week.Contacts)))
	r.logger.Debug(ctx, "loaded weekly data",
		zap.String("path", req.DataPath),
		zap.Int("contacts", len(week.Contacts)),
	)
	return week, m, nil
}

func (r *Runner) readTemplate(ctx context.Context, path string) (FormTemplate, error) {
	ctx, span := r.tracer.Start(ctx, "read_pdf_template", trace.WithAttributes(
		telemetry.FilePathKey.String(path),
	))
	defer span.End()

	tmpl, err := r.openTemplate(path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to read template: %w", err)
	}

	span.SetAttributes(attribute.Int("fields.count", len(tmpl.Fields())))
	r.logger.Debug(ctx, "read pdf template",
		zap.String("path", path),
		zap.Int("fields", len(tmpl.Fields())),
	)
	return tmpl, nil
}

// enrichContacts walks all three form slots. Slots without input data and
// lookups that fail are recorded as failures on the slot span and the run
// continues; a complete contact is a success without a lookup.
func (r *Runner) enrichContacts(ctx context.Context, week *formdata.Week, res *Result) {
	ctx, span := r.tracer.Start(ctx, "enrich_contacts", trace.WithAttributes(
		attribute.Int("contacts.total", formdata.ContactSlots),
		attribute.Int("contacts.provided", len(week.Contacts)),
	))
	defer span.End()

	for i := 1; i <= formdata.ContactSlots; i++ {
		r.enrichContact(ctx, week.Contact(i), i, res)
	}

	span.SetAttributes(
		attribute.Int("contacts.enriched", res.Enriched),
		attribute.Int("contacts.failed", res.Failed),
	)
}

func (r *Runner) enrichContact(ctx context.Context, c *formdata.Contact, index int, res *Result) {
	start := time.Now()
	name := ""
	if c != nil {
		name = strings.TrimSpace(c.Employer)
	}

	ctx, span := r.tracer.Start(ctx, fmt.Sprintf("enrich_contact_%d", index), trace.WithAttributes(
		telemetry.ContactIndexKey.Int(index),
		telemetry.ContactBusinessNameKey.String(name),
	))
	defer span.End()

	if c == nil || name == "" {
		err := fmt.Errorf("contact %d: no employer name provided", index)
		r.recordEnrichFailure(ctx, span, name, err, time.Since(start))
		res.Failed++
		return
	}

	if !c.NeedsEnrichment() {
		span.SetAttributes(
			telemetry.EnrichmentSuccessKey.Bool(true),
			telemetry.EnrichmentSkippedKey.Bool(true),
		)
		r.logger.Debug(ctx, "contact already complete", zap.String("employer", name))
		res.Skipped++
		return
	}

	info, err := r.lookup.Lookup(ctx, name)
	if err != nil {
		r.recordEnrichFailure(ctx, span, name, err, time.Since(start))
		res.Failed++
		return
	}

	mergeContact(c, info)
	span.SetAttributes(telemetry.EnrichmentSuccessKey.Bool(true))
	r.metrics.RecordEnrichment(ctx, name, time.Since(start))
	r.logger.Info(ctx, "enriched contact",
		zap.String("employer", name),
		zap.String("city", info.City),
		zap.String("state", info.State),
	)
	res.Enriched++
}

func (r *Runner) recordEnrichFailure(ctx context.Context, span trace.Span, name string, err error, d time.Duration) {
	class := enrich.Classify(err)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(
		telemetry.EnrichmentSuccessKey.Bool(false),
		telemetry.EnrichmentErrorKey.String(err.Error()),
		telemetry.ErrorTypeKey.String(class.String()),
	)
	r.metrics.RecordEnrichmentFailure(ctx, name, class, d)
	r.logger.Warn(ctx, "contact enrichment failed",
		zap.String("employer", name),
		zap.String("error_type", class.String()),
		zap.Error(err),
	)
}

// mergeContact fills only the empty fields; input data always wins over
// looked-up data.
func mergeContact(c *formdata.Contact, info *enrich.ContactInfo) {
	if c.Address == "" {
		c.Address = info.Address
	}
	if c.City == "" {
		c.City = info.City
	}
	if c.State == "" {
		c.State = info.State
	}
	if c.WebsiteOrEmail == "" {
		c.WebsiteOrEmail = info.WebsiteOrEmail
	}
	if c.Phone == "" {
		c.Phone = info.Phone
	}
}

func (r *Runner) writeOutput(ctx context.Context, tmpl FormTemplate, week *formdata.Week, m *mapping.Mapping, outPath string) error {
	ctx, span := r.tracer.Start(ctx, "write_pdf_output", trace.WithAttributes(
		telemetry.FilePathKey.String(outPath),
	))
	defer span.End()

	values, boxes := buildFill(week, m, tmpl.Fields())
	span.SetAttributes(
		attribute.Int("fields.text", len(values)),
		attribute.Int("fields.checkbox", len(boxes)),
	)

	if err := tmpl.Fill(values, boxes, outPath); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to write output: %w", err)
	}

	r.logger.Debug(ctx, "wrote filled pdf",
		zap.String("path", outPath),
		zap.Int("text_fields", len(values)),
		zap.Int("checkboxes", len(boxes)),
	)
	return nil
}

// buildFill maps the weekly data onto concrete PDF field names. Logical
// keys resolve through the mapping's alias lists against the fields the
// form actually has; empty values and unresolvable keys are dropped.
func buildFill(week *formdata.Week, m *mapping.Mapping, fields map[string]struct{}) (map[string]string, map[string]bool) {
	values := map[string]string{}
	boxes := map[string]bool{}

	set := func(key, value string) {
		if value == "" {
			return
		}
		if field := m.Resolve(fields, key); field != "" {
			values[field] = value
		}
	}

	set("week_ending", week.WeekEnding)
	set("name", week.Name)
	set("id_or_ssn", week.IDOrSSN)

	for i := 1; i <= formdata.ContactSlots; i++ {
		c := week.Contact(i)
		if c == nil {
			continue
		}
		prefix := fmt.Sprintf("c%d.", i)

		set(prefix+"date", c.Date)
		set(prefix+"job_title_or_ref", c.JobTitleOrRef)
		set(prefix+"employer", c.Employer)
		set(prefix+"address", c.Address)
		set(prefix+"city", c.City)
		set(prefix+"state", c.State)
		set(prefix+"website_or_email", c.WebsiteOrEmail)
		set(prefix+"phone", c.Phone)
		set(prefix+"what_activity", c.WhatActivity)
		set(prefix+"documentation", c.Documentation)
		set(prefix+"office_name", c.OfficeName)

		markGroup(boxes, m, fields, prefix+"kind", c.Kind)
		markGroup(boxes, m, fields, prefix+"method", c.ContactMethod)
		markGroup(boxes, m, fields, prefix+"type", c.ContactType)
	}

	return values, boxes
}

// markGroup checks the matching box in a checkbox group and clears the
// rest, so a refilled form never keeps a stale mark.
func markGroup(boxes map[string]bool, m *mapping.Mapping, fields map[string]struct{}, key, value string) {
	group := m.CheckboxGroup(key)
	if len(group) == 0 || value == "" {
		return
	}
	for label, field := range group {
		if _, ok := fields[field]; !ok {
			continue
		}
		boxes[field] = mapping.MatchLabel(label, value)
	}
}
