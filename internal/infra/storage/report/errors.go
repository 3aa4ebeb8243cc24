package report

import "errors"

var (
	ErrBuildQuery = errors.New("report.repository: failed to build query")
	ErrExecQuery  = errors.New("report.repository: failed to execute query")
	ErrScanRow    = errors.New("report.repository: failed to scan row")
)
