package command

import "errors"

// ErrNotEncodable is returned by Encode for ActionIgnored and unknown actions.
var ErrNotEncodable = errors.New("action has no wire tag")
