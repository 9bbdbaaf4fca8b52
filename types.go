package codable

// Severity expresses the severity level for reader issues.
type Severity int

const (
	SeverityIgnore Severity = iota
	SeverityWarn
	SeverityError
)

// Strictness configures enforcement for duplicate keys.
type Strictness struct {
	OnDuplicateKey Severity // Warn or Error (duplicate object keys).
}

// ReadOpt bundles reading options. The zero value reads without limits and
// keeps the last value of a duplicated key.
type ReadOpt struct {
	Strictness Strictness
	MaxDepth   int   // maximum container nesting; 0 disables the check
	MaxBytes   int64 // maximum input size; 0 disables the check
	// OnWarning receives issues that do not stop reading, such as duplicate
	// keys under SeverityWarn.
	OnWarning func(*Error)
}

func readOpt(opts []ReadOpt) ReadOpt {
	if len(opts) == 0 {
		return ReadOpt{}
	}
	return opts[len(opts)-1]
}
