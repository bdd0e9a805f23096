package main

import "errors"

var errMissingModelArg = errors.New("mosox: missing required argument <model_path>")
