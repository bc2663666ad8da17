package shared

//////
// Const, vars, and types.
//////

// Name of the module, used in the error catalog and the logger.
const Name = "eskit"

// DocType is the legacy document type used by pre-7 engines.
const DocType = "_doc"
