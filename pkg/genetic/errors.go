package genetic

import "errors"

var ErrInvalidArgument = errors.New("invalid argument")
