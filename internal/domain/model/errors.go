package model

import "errors"

// ErrInvalidStyle is wrapped by every validation failure.
var ErrInvalidStyle = errors.New("invalid style")
