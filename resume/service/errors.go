package service

import "errors"

// ErrGenerationFailed wraps every failure inside the rendering pipeline.
// Causes are not distinguished by callers.
var ErrGenerationFailed = errors.New("resume generation failed")
