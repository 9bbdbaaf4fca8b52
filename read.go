package codable

import (
	"errors"
	"fmt"
	"io"

	eng "github.com/reoring/codable/internal/engine"
)

// ReadTree reads one document from src into a raw tree, applying the
// enforcement configured by opts.
func ReadTree(src Source, opts ...ReadOpt) (any, error) {
	tree, err := eng.BuildTree(EnforceSource(src, readOpt(opts)))
	if err != nil {
		return nil, readError(err)
	}
	return tree, nil
}

// ReadJSON reads a JSON document.
func ReadJSON(data []byte, opts ...ReadOpt) (any, error) {
	opt := readOpt(opts)
	if opt.MaxBytes > 0 && int64(len(data)) > opt.MaxBytes {
		return nil, truncated(opt.MaxBytes)
	}
	return ReadTree(JSONBytes(data), opt)
}

// ReadJSONReader reads a JSON document from r. With MaxBytes set, at most
// MaxBytes+1 bytes are pulled from r.
func ReadJSONReader(r io.Reader, opts ...ReadOpt) (any, error) {
	opt := readOpt(opts)
	if opt.MaxBytes > 0 {
		r = io.LimitReader(r, opt.MaxBytes+1)
	}
	return ReadTree(JSONReader(r), opt)
}

// ReadYAML reads the first document of a YAML stream.
func ReadYAML(data []byte, opts ...ReadOpt) (any, error) {
	opt := readOpt(opts)
	if opt.MaxBytes > 0 && int64(len(data)) > opt.MaxBytes {
		return nil, truncated(opt.MaxBytes)
	}
	return ReadTree(YAMLBytes(data), opt)
}

// ReadYAMLReader reads the first YAML document from r.
func ReadYAMLReader(r io.Reader, opts ...ReadOpt) (any, error) {
	opt := readOpt(opts)
	if opt.MaxBytes > 0 {
		data, err := io.ReadAll(io.LimitReader(r, opt.MaxBytes+1))
		if err != nil {
			return nil, readError(err)
		}
		return ReadYAML(data, opt)
	}
	return ReadTree(YAMLReader(r), opt)
}

// DuplicateKeys lists every duplicated object key of a JSON document.
func DuplicateKeys(data []byte) ([]*Error, error) {
	var found []*Error
	_, err := ReadTree(JSONBytes(data), ReadOpt{
		Strictness: Strictness{OnDuplicateKey: SeverityWarn},
		OnWarning:  func(e *Error) { found = append(found, e) },
	})
	return found, err
}

// DuplicateKeysReader is DuplicateKeys for a reader.
func DuplicateKeysReader(r io.Reader) ([]*Error, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return DuplicateKeys(data)
}

func truncated(limit int64) error {
	return &Error{Code: CodeTruncated, Err: fmt.Errorf("input exceeds %d bytes", limit)}
}

func readError(err error) error {
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return fromEngineIssue(ie.SimpleIssue)
	}
	return &Error{Code: CodeParseError, Err: err}
}

func fromEngineIssue(si eng.SimpleIssue) *Error {
	return &Error{Code: si.Code, Path: pathOf(si.Path), Err: errors.New(si.Message)}
}

func pathOf(segs []any) Path {
	p := make(Path, 0, len(segs))
	for _, s := range segs {
		switch x := s.(type) {
		case string:
			p = append(p, StringKey(x))
		case int:
			p = append(p, IndexKey(x))
		}
	}
	return p
}
