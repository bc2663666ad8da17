package eskit

import (
	"github.com/thalesfsp/customerror"

	"github.com/thalesfsp/eskit/internal/shared"
)

//////
// Const, vars, types.
//////

const (
	ErrDatasetRequired       = "ERR_DATASET_REQUIRED"         // Required.
	ErrFailedToCreateClient  = "ERR_FAILED_TO_CREATE_CLIENT"  // FailedTo.
	ErrFailedToCreateIndex   = "ERR_FAILED_TO_CREATE_INDEX"   // FailedTo.
	ErrFailedToDeleteIndex   = "ERR_FAILED_TO_DELETE_INDEX"   // FailedTo.
	ErrFailedToFindStack     = "ERR_FAILED_TO_FIND_STACK"     // FailedTo.
	ErrFailedToGetInfo       = "ERR_FAILED_TO_GET_INFO"       // FailedTo.
	ErrFailedToIndexDocument = "ERR_FAILED_TO_INDEX_DOCUMENT" // FailedTo.
	ErrFailedToPing          = "ERR_FAILED_TO_PING"           // FailedTo.
	ErrFailedToPutMapping    = "ERR_FAILED_TO_PUT_MAPPING"    // FailedTo.
	ErrFailedToStartStack    = "ERR_FAILED_TO_START_STACK"    // FailedTo.
	ErrFailedToTruncate      = "ERR_FAILED_TO_TRUNCATE"       // FailedTo.
	ErrIndexNameRequired     = "ERR_INDEX_NAME_REQUIRED"      // Required.
	ErrInvalidVersion        = "ERR_INVALID_VERSION"          // Invalid.
	ErrNoStackAvailable      = "ERR_NO_STACK_AVAILABLE"       // FailedTo.
	ErrWaitForTimedOut       = "ERR_WAIT_FOR_TIMED_OUT"       // FailedTo.
)

// ErrorCatalog is the error catalog for the module.
var ErrorCatalog = customerror.
	MustNewCatalog(shared.Name).
	MustSet(ErrDatasetRequired, "dataset").
	MustSet(ErrFailedToCreateClient, "create client").
	MustSet(ErrFailedToCreateIndex, "create index").
	MustSet(ErrFailedToDeleteIndex, "delete index").
	MustSet(ErrFailedToFindStack, "find stack").
	MustSet(ErrFailedToGetInfo, "get cluster info").
	MustSet(ErrFailedToIndexDocument, "index document").
	MustSet(ErrFailedToPing, "ping").
	MustSet(ErrFailedToPutMapping, "put mapping").
	MustSet(ErrFailedToStartStack, "start stack").
	MustSet(ErrFailedToTruncate, "truncate index").
	MustSet(ErrIndexNameRequired, "index name").
	MustSet(ErrInvalidVersion, "engine version").
	MustSet(ErrNoStackAvailable, "reach a running stack").
	MustSet(ErrWaitForTimedOut, "wait for the stack to become alive")

//////
// Exported functionalities.
//////

// MustGet returns a custom error from the error catalog.
func MustGet(errorCode string, opts ...customerror.Option) *customerror.CustomError {
	return ErrorCatalog.MustGet(errorCode, opts...)
}
