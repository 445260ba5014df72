// Package app holds what the cmd/ binaries share: the Runner contract plus the
// errors and http subpackages.
package app

// Runner is a long-lived process started by a cmd/ entrypoint. Run blocks
// until the process receives a shutdown signal or fails.
type Runner interface {
	Run() error
}
