package xr

import "errors"

var (
	ErrNotSupported  = errors.New("xr: not supported")
	ErrSessionDenied = errors.New("xr: session denied")
	ErrSessionEnded  = errors.New("xr: session ended")
	ErrUnknownSpace  = errors.New("xr: unknown reference space")
	ErrForeignHandle = errors.New("xr: handle belongs to another session")
)
