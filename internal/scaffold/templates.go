package scaffold

// FileTemplate pairs a target path template with a content template.
type FileTemplate struct {
	Path    string
	Content string
}

// moduleTemplates is the skeleton stamped out for a new module. Generated
// code mirrors the Auth module's layering: record + store interface +
// pipeline services + handler.
var moduleTemplates = []FileTemplate{
	{
		Path: "internal/{{.Name}}/doc.go",
		Content: `// Package {{.Name}} contains the {{.Entity}} module: record type, store
// interface and pipeline services.
package {{.Name}}
`,
	},
	{
		Path: "internal/{{.Name}}/models.go",
		Content: `package {{.Name}}

import (
	"{{.ModulePath}}/internal/domain"
)

// {{.Entity}} is the module's persisted record.
type {{.Entity}} struct {
	ID   int64  ` + "`json:\"-\"`" + `
	Name string ` + "`json:\"name\"`" + `
	domain.AuditFields
}

// Validate checks if the {{.Entity}} has valid data.
func (e *{{.Entity}}) Validate() error {
	if e.Name == "" {
		return domain.ErrValidation
	}
	return nil
}

// Create{{.Entity}}Input carries the fields for a new {{.EntityLower}}.
// Actor is the id of the authenticated caller.
type Create{{.Entity}}Input struct {
	Name string ` + "`json:\"name\" validate:\"required,max=255\"`" + `

	Actor *int64 ` + "`json:\"-\"`" + `
}

// Update{{.Entity}}Input carries an edit based on the version the caller
// read; a stale version fails with a conflict.
type Update{{.Entity}}Input struct {
	PublicID string ` + "`json:\"{{.EntitySnake}}_uuid\" validate:\"required,uuid\"`" + `
	Name     string ` + "`json:\"name\"            validate:\"required,max=255\"`" + `
	Version  int64  ` + "`json:\"version\"`" + `

	Actor *int64 ` + "`json:\"-\"`" + `
}

// Delete{{.Entity}}Input identifies the record to soft-delete.
type Delete{{.Entity}}Input struct {
	PublicID string ` + "`json:\"{{.EntitySnake}}_uuid\" validate:\"required,uuid\"`" + `

	Actor *int64 ` + "`json:\"-\"`" + `
}

// Get{{.Entity}}Input controls retrieval: optional single lookup by public
// identifier, sorting, and optional pagination.
type Get{{.Entity}}Input struct {
	PublicID       string ` + "`json:\"{{.EntitySnake}}_uuid,omitempty\"`" + `
	SortBy         string ` + "`json:\"sort_by,omitempty\"`" + `
	SortDir        string ` + "`json:\"sort_type,omitempty\"`" + `
	WithPagination bool   ` + "`json:\"with_pagination,omitempty\"`" + `
	PerPage        int    ` + "`json:\"per_page,omitempty\"`" + `
	Page           int    ` + "`json:\"page,omitempty\"`" + `
	BaseURL        string ` + "`json:\"-\"`" + `
}
`,
	},
	{
		Path: "internal/{{.Name}}/store.go",
		Content: `package {{.Name}}

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"{{.ModulePath}}/internal/store"
)

// Err{{.Entity}}NotFound indicates that the requested {{.EntityLower}} does not exist.
var Err{{.Entity}}NotFound = fmt.Errorf("%w: {{.EntitySnake}}", store.ErrNotFound)

// List{{.Entity}}Params controls sorting and paging for {{.EntityLower}} list queries.
type List{{.Entity}}Params struct {
	SortBy  string
	SortDir store.SortDirection
	Limit   int
	Offset  int
}

// {{.Entity}}Store defines the interface for {{.EntityLower}} data persistence.
// Queries operate on the active set: soft-deleted records are excluded.
type {{.Entity}}Store interface {
	// Create saves a new {{.EntityLower}} to the store. Audit fields must
	// already be stamped; the store assigns the numeric ID.
	Create(ctx context.Context, e *{{.Entity}}) error

	// GetByPublicID retrieves an active {{.EntityLower}} by public identifier.
	// Returns Err{{.Entity}}NotFound if the record does not exist.
	GetByPublicID(ctx context.Context, publicID uuid.UUID) (*{{.Entity}}, error)

	// List returns active {{.Table}} ordered and paged per params, plus the
	// total active count (ignoring paging).
	List(ctx context.Context, params List{{.Entity}}Params) ([]{{.Entity}}, int64, error)

	// Update persists the record's current field values, including audit fields.
	Update(ctx context.Context, e *{{.Entity}}) error

	// WithTx returns a new {{.Entity}}Store instance bound to the transaction.
	WithTx(tx *sql.Tx) {{.Entity}}Store
}
`,
	},
	{
		Path: "internal/{{.Name}}/service.go",
		Content: `package {{.Name}}

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"{{.ModulePath}}/internal/audit"
	"{{.ModulePath}}/internal/paginate"
	"{{.ModulePath}}/internal/pipeline"
	"{{.ModulePath}}/internal/store"
)

// Create{{.Entity}}Service creates a new {{.EntityLower}} with stamped audit fields.
type Create{{.Entity}}Service struct {
	{{.Table}} {{.Entity}}Store
	auditor *audit.Auditor
	logger  *slog.Logger
}

// NewCreate{{.Entity}}Service creates a Create{{.Entity}}Service.
func NewCreate{{.Entity}}Service({{.Table}} {{.Entity}}Store, auditor *audit.Auditor, log *slog.Logger) *Create{{.Entity}}Service {
	if log == nil {
		log = slog.Default()
	}
	return &Create{{.Entity}}Service{
		{{.Table}}: {{.Table}},
		auditor: auditor,
		logger:  log.With(slog.String("component", "create_{{.EntitySnake}}_service")),
	}
}

var _ pipeline.Service = (*Create{{.Entity}}Service)(nil)

// Process implements pipeline.Service.
func (s *Create{{.Entity}}Service) Process(ctx context.Context, tx *sql.Tx, input any, res *pipeline.Result) error {
	in, ok := input.(*Create{{.Entity}}Input)
	if !ok {
		return fmt.Errorf("unexpected input type %T", input)
	}

	e := &{{.Entity}}{Name: in.Name}
	s.auditor.PrepareCreate(e, in.Actor)

	if err := s.{{.Table}}.WithTx(tx).Create(ctx, e); err != nil {
		return fmt.Errorf("failed to create {{.EntitySnake}}: %w", err)
	}

	res.StatusCode = http.StatusCreated
	res.Data = e
	res.Message = "{{.Entity}} created successfully."
	return nil
}

// Update{{.Entity}}Service applies an edit under optimistic locking.
type Update{{.Entity}}Service struct {
	{{.Table}} {{.Entity}}Store
	auditor *audit.Auditor
	logger  *slog.Logger
}

// NewUpdate{{.Entity}}Service creates an Update{{.Entity}}Service.
func NewUpdate{{.Entity}}Service({{.Table}} {{.Entity}}Store, auditor *audit.Auditor, log *slog.Logger) *Update{{.Entity}}Service {
	if log == nil {
		log = slog.Default()
	}
	return &Update{{.Entity}}Service{
		{{.Table}}: {{.Table}},
		auditor: auditor,
		logger:  log.With(slog.String("component", "update_{{.EntitySnake}}_service")),
	}
}

var _ pipeline.Service = (*Update{{.Entity}}Service)(nil)

// Process implements pipeline.Service.
func (s *Update{{.Entity}}Service) Process(ctx context.Context, tx *sql.Tx, input any, res *pipeline.Result) error {
	in, ok := input.(*Update{{.Entity}}Input)
	if !ok {
		return fmt.Errorf("unexpected input type %T", input)
	}

	{{.Table}} := s.{{.Table}}.WithTx(tx)

	publicID, err := uuid.Parse(in.PublicID)
	if err != nil {
		return pipeline.NotFound("{{.Entity}} not found")
	}

	e, err := {{.Table}}.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, Err{{.Entity}}NotFound) {
			return pipeline.NotFound("{{.Entity}} not found")
		}
		return fmt.Errorf("failed to get {{.EntitySnake}}: %w", err)
	}

	if err := s.auditor.ValidateVersion(e, in.Version); err != nil {
		return err
	}

	e.Name = in.Name
	s.auditor.PrepareUpdate(e, in.Actor)

	if err := {{.Table}}.Update(ctx, e); err != nil {
		return fmt.Errorf("failed to update {{.EntitySnake}}: %w", err)
	}

	res.Data = e
	res.Message = "{{.Entity}} updated successfully."
	return nil
}

// Delete{{.Entity}}Service soft-deletes a record, honoring declared
// delete restrictions.
type Delete{{.Entity}}Service struct {
	{{.Table}} {{.Entity}}Store
	auditor *audit.Auditor
	guard   audit.RelationGuard
	logger  *slog.Logger
}

// NewDelete{{.Entity}}Service creates a Delete{{.Entity}}Service. guard may be
// nil when {{.Entity}} declares no delete restrictions.
func NewDelete{{.Entity}}Service({{.Table}} {{.Entity}}Store, auditor *audit.Auditor, guard audit.RelationGuard, log *slog.Logger) *Delete{{.Entity}}Service {
	if log == nil {
		log = slog.Default()
	}
	return &Delete{{.Entity}}Service{
		{{.Table}}: {{.Table}},
		auditor: auditor,
		guard:   guard,
		logger:  log.With(slog.String("component", "delete_{{.EntitySnake}}_service")),
	}
}

var _ pipeline.Service = (*Delete{{.Entity}}Service)(nil)

// Process implements pipeline.Service.
func (s *Delete{{.Entity}}Service) Process(ctx context.Context, tx *sql.Tx, input any, res *pipeline.Result) error {
	in, ok := input.(*Delete{{.Entity}}Input)
	if !ok {
		return fmt.Errorf("unexpected input type %T", input)
	}

	{{.Table}} := s.{{.Table}}.WithTx(tx)

	publicID, err := uuid.Parse(in.PublicID)
	if err != nil {
		return pipeline.NotFound("{{.Entity}} not found")
	}

	e, err := {{.Table}}.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, Err{{.Entity}}NotFound) {
			return pipeline.NotFound("{{.Entity}} not found")
		}
		return fmt.Errorf("failed to get {{.EntitySnake}}: %w", err)
	}

	if s.guard != nil {
		if err := s.auditor.RestrictSoftDeletes(ctx, e, s.guard); err != nil {
			return err
		}
	}

	s.auditor.PrepareDelete(e, in.Actor)

	if err := {{.Table}}.Update(ctx, e); err != nil {
		return fmt.Errorf("failed to delete {{.EntitySnake}}: %w", err)
	}

	res.Message = "{{.Entity}} deleted successfully."
	return nil
}

// Get{{.Entity}}Service retrieves {{.Table}} with sorting and optional pagination.
type Get{{.Entity}}Service struct {
	{{.Table}} {{.Entity}}Store
	logger  *slog.Logger
}

// NewGet{{.Entity}}Service creates a Get{{.Entity}}Service.
func NewGet{{.Entity}}Service({{.Table}} {{.Entity}}Store, log *slog.Logger) *Get{{.Entity}}Service {
	if log == nil {
		log = slog.Default()
	}
	return &Get{{.Entity}}Service{
		{{.Table}}: {{.Table}},
		logger:  log.With(slog.String("component", "get_{{.EntitySnake}}_service")),
	}
}

var _ pipeline.Service = (*Get{{.Entity}}Service)(nil)

// Process implements pipeline.Service.
func (s *Get{{.Entity}}Service) Process(ctx context.Context, tx *sql.Tx, input any, res *pipeline.Result) error {
	in, ok := input.(*Get{{.Entity}}Input)
	if !ok {
		return fmt.Errorf("unexpected input type %T", input)
	}

	{{.Table}} := s.{{.Table}}.WithTx(tx)

	if in.PublicID != "" {
		publicID, err := uuid.Parse(in.PublicID)
		if err != nil {
			return pipeline.NotFound("{{.Entity}} not found")
		}

		e, err := {{.Table}}.GetByPublicID(ctx, publicID)
		if err != nil {
			if errors.Is(err, Err{{.Entity}}NotFound) {
				return pipeline.NotFound("{{.Entity}} not found")
			}
			return fmt.Errorf("failed to get {{.EntitySnake}}: %w", err)
		}

		res.Data = e
		res.Message = "{{.Entity}} successfully fetched."
		return nil
	}

	params := List{{.Entity}}Params{SortBy: in.SortBy, SortDir: store.SortDesc}
	if params.SortBy == "" {
		params.SortBy = "updated_at"
	}
	if in.SortDir == "asc" {
		params.SortDir = store.SortAsc
	}

	perPage := in.PerPage
	if perPage <= 0 {
		perPage = 10
	}
	page := in.Page
	if page < 1 {
		page = 1
	}
	if in.WithPagination {
		params.Limit, params.Offset = paginate.LimitOffset(perPage, page)
	}

	list, total, err := {{.Table}}.List(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to list {{.Table}}: %w", err)
	}

	payload := struct {
		Items      []{{.Entity}}           ` + "`json:\"items\"`" + `
		Pagination *paginate.Descriptor ` + "`json:\"pagination,omitempty\"`" + `
	}{Items: list}

	if in.WithPagination {
		descriptor := paginate.NewDescriptor(in.BaseURL, perPage, page, total)
		payload.Pagination = &descriptor
	}

	res.Data = payload
	res.Message = "{{.Entity}} successfully fetched."
	return nil
}
`,
	},
	{
		Path: "internal/{{.Name}}/handler.go",
		Content: `package {{.Name}}

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"{{.ModulePath}}/internal/api/shared"
	"{{.ModulePath}}/internal/pipeline"
)

// Handler exposes the {{.Entity}} module over HTTP.
type Handler struct {
	executor *pipeline.Executor
	create   *Create{{.Entity}}Service
	update   *Update{{.Entity}}Service
	delete   *Delete{{.Entity}}Service
	get      *Get{{.Entity}}Service
	logger   *slog.Logger
}

// NewHandler creates a Handler with the given dependencies.
func NewHandler(
	executor *pipeline.Executor,
	create *Create{{.Entity}}Service,
	update *Update{{.Entity}}Service,
	del *Delete{{.Entity}}Service,
	get *Get{{.Entity}}Service,
	log *slog.Logger,
) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		executor: executor,
		create:   create,
		update:   update,
		delete:   del,
		get:      get,
		logger:   log.With(slog.String("component", "{{.EntitySnake}}_handler")),
	}
}

// Create handles POST /api/{{.Table}}.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in Create{{.Entity}}Input
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	res := h.executor.Execute(r.Context(), h.create, &in)
	shared.RespondWithResult(w, r, res)
}

// Update handles PUT /api/{{.Table}}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var in Update{{.Entity}}Input
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	res := h.executor.Execute(r.Context(), h.update, &in)
	shared.RespondWithResult(w, r, res)
}

// Delete handles DELETE /api/{{.Table}}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	var in Delete{{.Entity}}Input
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	res := h.executor.Execute(r.Context(), h.delete, &in)
	shared.RespondWithResult(w, r, res)
}

// Get handles GET /api/{{.Table}}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	in := Get{{.Entity}}Input{
		PublicID:       q.Get("{{.EntitySnake}}_uuid"),
		SortBy:         q.Get("sort_by"),
		SortDir:        q.Get("sort_type"),
		WithPagination: q.Get("with_pagination") == "true",
		BaseURL:        shared.BaseURL(r),
	}

	res := h.executor.Execute(r.Context(), h.get, &in)
	shared.RespondWithResult(w, r, res)
}

// Routes mounts the module's endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/api/{{.Table}}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Post("/", h.Create)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
	})
}
`,
	},
	{
		Path: "internal/{{.Name}}/service_test.go",
		Content: `package {{.Name}}

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"{{.ModulePath}}/internal/audit"
	"{{.ModulePath}}/internal/pipeline"
	"{{.ModulePath}}/internal/store"
)

type fakeRunner struct{}

func (fakeRunner) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	return fn(ctx, nil)
}

type stub{{.Entity}}Store struct {
	byPublicID map[uuid.UUID]*{{.Entity}}
	created    []*{{.Entity}}
}

func newStub{{.Entity}}Store() *stub{{.Entity}}Store {
	return &stub{{.Entity}}Store{byPublicID: make(map[uuid.UUID]*{{.Entity}})}
}

func (s *stub{{.Entity}}Store) Create(_ context.Context, e *{{.Entity}}) error {
	s.created = append(s.created, e)
	s.byPublicID[e.PublicID] = e
	return nil
}

func (s *stub{{.Entity}}Store) GetByPublicID(_ context.Context, publicID uuid.UUID) (*{{.Entity}}, error) {
	e, ok := s.byPublicID[publicID]
	if !ok {
		return nil, Err{{.Entity}}NotFound
	}
	return e, nil
}

func (s *stub{{.Entity}}Store) List(_ context.Context, _ List{{.Entity}}Params) ([]{{.Entity}}, int64, error) {
	out := make([]{{.Entity}}, 0, len(s.byPublicID))
	for _, e := range s.byPublicID {
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

func (s *stub{{.Entity}}Store) Update(_ context.Context, e *{{.Entity}}) error {
	s.byPublicID[e.PublicID] = e
	return nil
}

func (s *stub{{.Entity}}Store) WithTx(_ *sql.Tx) {{.Entity}}Store { return s }

func TestCreate{{.Entity}}(t *testing.T) {
	t.Parallel()

	executor := pipeline.NewExecutor(fakeRunner{}, nil, false)
	{{.Table}} := newStub{{.Entity}}Store()
	svc := NewCreate{{.Entity}}Service({{.Table}}, audit.New(), nil)

	res := executor.Execute(context.Background(), svc, &Create{{.Entity}}Input{Name: "First"})

	require.True(t, res.Success)
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	require.Len(t, {{.Table}}.created, 1)
	assert.Equal(t, int64(0), {{.Table}}.created[0].Version)
}

func TestCreate{{.Entity}}RequiresName(t *testing.T) {
	t.Parallel()

	executor := pipeline.NewExecutor(fakeRunner{}, nil, false)
	{{.Table}} := newStub{{.Entity}}Store()
	svc := NewCreate{{.Entity}}Service({{.Table}}, audit.New(), nil)

	res := executor.Execute(context.Background(), svc, &Create{{.Entity}}Input{})

	require.False(t, res.Success)
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	assert.Empty(t, {{.Table}}.created)
}
`,
	},
}
