package main

import "errors"

var (
	ErrOpenMapFile   = errors.New("open map file")
	ErrParseMapFile  = errors.New("parse map file")
	ErrReadGuestFile = errors.New("read guest module")
	ErrLoadConfig    = errors.New("load config")
	ErrOpenLogFile   = errors.New("open log file")
	ErrRunGuest      = errors.New("run guest")
)
