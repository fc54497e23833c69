package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrLocationNotFound = errors.New("location not found")
	ErrBranchNotFound   = errors.New("branch not found")
)
