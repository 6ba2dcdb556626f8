package mcpserver

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Defaults applied before validation, mirroring the tool schema defaults.
const (
	defaultContextLength = 100
	defaultRecentLimit   = 5
	defaultChangesLimit  = 10
	defaultChangesDays   = 90
)

// Enumerations shared by several tools.
var (
	periods          = []any{"daily", "weekly", "monthly", "quarterly", "yearly"}
	patchOperations  = []any{"append", "prepend", "replace"}
	patchTargetTypes = []any{"heading", "block", "frontmatter"}
)

// Every tool decodes its arguments into one of these structs and validates
// it before any network call happens. A validation error is reported to the
// caller with the violated constraint and the vault API is never reached.

type listDirParams struct {
	Dirpath string
}

func (p listDirParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Dirpath, validation.Required),
	)
}

type fileParams struct {
	Filepath string
}

func (p fileParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Filepath, validation.Required),
	)
}

type batchFileParams struct {
	Filepaths []string
}

func (p batchFileParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Filepaths, validation.Required, validation.Each(validation.Required)),
	)
}

type simpleSearchParams struct {
	Query         string
	ContextLength int
}

func (p simpleSearchParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Query, validation.Required),
		validation.Field(&p.ContextLength, validation.Required, validation.Min(1)),
	)
}

type complexSearchParams struct {
	Query map[string]any
}

func (p complexSearchParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Query, validation.Required),
	)
}

type appendParams struct {
	Filepath string
	Content  string
}

func (p appendParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Filepath, validation.Required),
		validation.Field(&p.Content, validation.Required),
	)
}

type patchParams struct {
	Filepath   string
	Operation  string
	TargetType string
	Target     string
	Content    string
}

func (p patchParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Filepath, validation.Required),
		validation.Field(&p.Operation, validation.Required, validation.In(patchOperations...)),
		validation.Field(&p.TargetType, validation.Required, validation.In(patchTargetTypes...)),
		validation.Field(&p.Target, validation.Required),
		validation.Field(&p.Content, validation.Required),
	)
}

type deleteParams struct {
	Filepath string
	Confirm  bool
}

func (p deleteParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Filepath, validation.Required),
		validation.Field(&p.Confirm, validation.Required.Error("must be true to delete")),
	)
}

type periodParams struct {
	Period string
}

func (p periodParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Period, validation.Required, validation.In(periods...)),
	)
}

type recentPeriodicParams struct {
	Period         string
	Limit          int
	IncludeContent bool
}

func (p recentPeriodicParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Period, validation.Required, validation.In(periods...)),
		validation.Field(&p.Limit, validation.Required, validation.Min(1), validation.Max(50)),
	)
}

type recentChangesParams struct {
	Limit int
	Days  int
}

func (p recentChangesParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Limit, validation.Required, validation.Min(1), validation.Max(100)),
		validation.Field(&p.Days, validation.Required, validation.Min(1)),
	)
}
