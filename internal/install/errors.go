package install

import "fmt"

// InstallError records a filesystem failure during install or delete and
// the path it happened on
type InstallError struct {
	Op   string
	Path string
	Err  error
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *InstallError) Unwrap() error {
	return e.Err
}

func wrapErr(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &InstallError{Op: op, Path: path, Err: err}
}
