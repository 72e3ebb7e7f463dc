package app

import "errors"

var (
	ErrNoWorksheet = errors.New("no worksheet found in the Excel file")
	ErrNoValidRows = errors.New("no valid menu items found in the Excel file")
)
