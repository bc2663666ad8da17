package eskit

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/thalesfsp/customerror"

	"github.com/thalesfsp/eskit/internal/shared"
)

//////
// Const, vars, and types.
//////

// IndexOptions defines the options for index creation.
//
// NOTE: Use NewIndexOptions() to create a new IndexOptions struct!
type IndexOptions struct {
	// Roles of the dataset columns, drives the mapping.
	Roles *ColumnRoles `json:"roles"`

	// Language of the text columns.
	Language string `default:"english" json:"language" validate:"required"`

	// Synonyms rules, optional, Solr format ("foo, bar => baz").
	Synonyms []string `json:"synonyms"`

	// DocType used by pre-7 engines.
	DocType string `default:"_doc" json:"docType" validate:"required"`

	// DeleteOld drops an existing index of the same name first. Absence of
	// the index is not an error.
	DeleteOld bool `json:"deleteOld"`

	// MappingOnly updates the mapping of an existing index instead of
	// creating one.
	MappingOnly bool `json:"mappingOnly"`
}

//////
// Methods.
//////

// EngineMajor returns the engine's numeric major version, from the cluster
// info endpoint.
func (s *Stack) EngineMajor(ctx context.Context) (uint64, error) {
	client, err := s.ES()
	if err != nil {
		return 0, err
	}

	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return 0, ErrorCatalog.
			MustGet(ErrFailedToGetInfo).
			NewFailedToError(customerror.WithError(err))
	}

	defer res.Body.Close()

	if res.IsError() {
		return 0, ErrorCatalog.
			MustGet(ErrFailedToGetInfo).
			NewFailedToError(customerror.WithField("status", res.Status()))
	}

	var info InfoResponse

	if err := json.NewDecoder(res.Body).Decode(&info); err != nil {
		return 0, ErrorCatalog.
			MustGet(ErrFailedToGetInfo).
			NewFailedToError(customerror.WithError(err))
	}

	if info.Version == nil {
		return 0, ErrorCatalog.
			MustGet(ErrInvalidVersion).
			NewFailedToError(customerror.WithField("info", info))
	}

	version, err := semver.NewVersion(info.Version.Number)
	if err != nil {
		return 0, ErrorCatalog.
			MustGet(ErrInvalidVersion).
			NewFailedToError(
				customerror.WithError(err),
				customerror.WithField("version", info.Version.Number),
			)
	}

	return version.Major(), nil
}

// CreateIndex derives the settings+mappings body from the options and issues
// the create call. The body is returned for inspection. When MappingOnly is
// set, the mapping of an existing index is updated instead.
func (s *Stack) CreateIndex(
	ctx context.Context,
	index string,
	opts *IndexOptions,
) (map[string]any, error) {
	if index == "" {
		return nil, ErrorCatalog.MustGet(ErrIndexNameRequired).NewRequiredError()
	}

	if opts == nil {
		o, err := NewIndexOptions(nil)
		if err != nil {
			return nil, err
		}

		opts = o
	}

	if opts.Language == "" {
		opts.Language = "english"
	}

	if opts.DocType == "" {
		opts.DocType = shared.DocType
	}

	client, err := s.ES()
	if err != nil {
		return nil, err
	}

	major, err := s.EngineMajor(ctx)
	if err != nil {
		return nil, err
	}

	if opts.MappingOnly {
		mapping := buildMapping(opts.Roles, opts.Language, opts.DocType, major)

		return mapping, s.putMapping(ctx, index, mapping)
	}

	body := BuildIndexBody(opts.Roles, opts.Language, opts.Synonyms, opts.DocType, major)

	if opts.DeleteOld {
		if err := s.DeleteIndex(ctx, index); err != nil {
			return nil, err
		}
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, ErrorCatalog.
			MustGet(ErrFailedToCreateIndex).
			NewFailedToError(customerror.WithError(err))
	}

	res, err := client.Indices.Create(
		index,
		client.Indices.Create.WithContext(ctx),
		client.Indices.Create.WithBody(bytes.NewReader(data)),
	)
	if err != nil {
		return nil, ErrorCatalog.
			MustGet(ErrFailedToCreateIndex).
			NewFailedToError(customerror.WithError(err))
	}

	defer res.Body.Close()

	if res.IsError() {
		return nil, ErrorCatalog.
			MustGet(ErrFailedToCreateIndex).
			NewFailedToError(
				customerror.WithField("index", index),
				customerror.WithField("response", res.String()),
			)
	}

	logger.Infolnf("created index %q", index)

	return body, nil
}

// putMapping updates the mapping of an existing index.
func (s *Stack) putMapping(ctx context.Context, index string, mapping map[string]any) error {
	client, err := s.ES()
	if err != nil {
		return err
	}

	data, err := json.Marshal(mapping)
	if err != nil {
		return ErrorCatalog.
			MustGet(ErrFailedToPutMapping).
			NewFailedToError(customerror.WithError(err))
	}

	res, err := client.Indices.PutMapping(
		[]string{index},
		bytes.NewReader(data),
		client.Indices.PutMapping.WithContext(ctx),
	)
	if err != nil {
		return ErrorCatalog.
			MustGet(ErrFailedToPutMapping).
			NewFailedToError(customerror.WithError(err))
	}

	defer res.Body.Close()

	if res.IsError() {
		return ErrorCatalog.
			MustGet(ErrFailedToPutMapping).
			NewFailedToError(
				customerror.WithField("index", index),
				customerror.WithField("response", res.String()),
			)
	}

	return nil
}

// DeleteIndex deletes the given index. Deleting an index that does not exist
// is not an error.
func (s *Stack) DeleteIndex(ctx context.Context, index string) error {
	if index == "" {
		return ErrorCatalog.MustGet(ErrIndexNameRequired).NewRequiredError()
	}

	client, err := s.ES()
	if err != nil {
		return err
	}

	res, err := client.Indices.Delete(
		[]string{index},
		client.Indices.Delete.WithContext(ctx),
		client.Indices.Delete.WithIgnoreUnavailable(true),
	)
	if err != nil {
		return ErrorCatalog.
			MustGet(ErrFailedToDeleteIndex).
			NewFailedToError(customerror.WithError(err))
	}

	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return ErrorCatalog.
			MustGet(ErrFailedToDeleteIndex).
			NewFailedToError(
				customerror.WithField("index", index),
				customerror.WithField("response", res.String()),
			)
	}

	return nil
}

// Truncate clears all documents from the given index with a match-all
// delete-by-query, preserving the index and its mapping.
func (s *Stack) Truncate(ctx context.Context, index string) (*DeleteByQueryResponse, error) {
	if index == "" {
		return nil, ErrorCatalog.MustGet(ErrIndexNameRequired).NewRequiredError()
	}

	client, err := s.ES()
	if err != nil {
		return nil, err
	}

	res, err := client.DeleteByQuery(
		[]string{index},
		strings.NewReader(`{"query":{"match_all":{}}}`),
		client.DeleteByQuery.WithContext(ctx),
		client.DeleteByQuery.WithRefresh(true),
	)
	if err != nil {
		return nil, ErrorCatalog.
			MustGet(ErrFailedToTruncate).
			NewFailedToError(customerror.WithError(err))
	}

	defer res.Body.Close()

	if res.IsError() {
		return nil, ErrorCatalog.
			MustGet(ErrFailedToTruncate).
			NewFailedToError(
				customerror.WithField("index", index),
				customerror.WithField("response", res.String()),
			)
	}

	var out DeleteByQueryResponse

	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, ErrorCatalog.
			MustGet(ErrFailedToTruncate).
			NewFailedToError(customerror.WithError(err))
	}

	return &out, nil
}

//////
// Factory.
//////

// NewIndexOptions creates index options for the given column roles.
func NewIndexOptions(roles *ColumnRoles) (*IndexOptions, error) {
	iO := &IndexOptions{
		Roles:    roles,
		Language: "english",
		DocType:  shared.DocType,
	}

	if err := process(iO); err != nil {
		return nil, customerror.NewInvalidError("index options", customerror.WithError(err))
	}

	return iO, nil
}
