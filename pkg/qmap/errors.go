package qmap

import "errors"

// ErrUnexpectedEOF is wrapped via internal/errx.With when the reader runs
// out of input mid-token.
var ErrUnexpectedEOF = errors.New("qmap: unexpected end of input")

// ErrUnexpectedToken is wrapped via internal/errx.With when a token does
// not fit the grammar position it was read in.
var ErrUnexpectedToken = errors.New("qmap: unexpected token")

// ErrMalformedNumber is wrapped via internal/errx.With when a numeric
// field fails to parse as a float.
var ErrMalformedNumber = errors.New("qmap: malformed number")
