package linter

// Formatter receives side-channel output while files are processed.
// Return values are never inspected.
type Formatter interface {
	// DispatchTemplateHeader is called before a file is rendered.
	DispatchTemplateHeader(fname string)
	// DispatchParseHeader is called before a file is parsed.
	DispatchParseHeader(fname string)
	// DispatchFileViolations is called once a file is done. onlyFixable is
	// true when the run is fixing.
	DispatchFileViolations(fname string, file *LintedFile, onlyFixable bool)
}
