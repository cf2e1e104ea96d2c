package logger

import "errors"

var (
	// ErrServiceNameIsEmpty is returned when Init is called without a service name.
	ErrServiceNameIsEmpty = errors.New("log config servicename can not be empty")

	// ErrAppNameIsEmpty is returned when Init is called without an app name.
	ErrAppNameIsEmpty = errors.New("log config appname can not be empty")
)
