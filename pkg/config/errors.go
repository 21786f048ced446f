package config

import "errors"

// ErrReadConfig wraps a failure to read qmpp.yaml (anything other than
// the file simply not existing).
var ErrReadConfig = errors.New("config: read qmpp.yaml")

// ErrParseConfig wraps a YAML syntax or type error in qmpp.yaml.
var ErrParseConfig = errors.New("config: parse qmpp.yaml")
