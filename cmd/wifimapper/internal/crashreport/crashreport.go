// Package crashreport captures panics and submits them to Sentry.
//
// There is no DSN baked into the binary: reports are only submitted
// when the SENTRY_DSN environment variable is set and the user has
// opted in through the advanced.send_crash_reports setting.
package crashreport

import (
	"github.com/getsentry/raven-go"
)

// Disabled globally disables crash reporting and makes all the crash
// reporting logic a no-op.
var Disabled = false

// CapturePanic runs f and reports a possible panic. It returns the
// error returned by f along with the recovered panic value, if any.
func CapturePanic(f func() error, tags map[string]string) (err error, panicValue interface{}) {
	if Disabled {
		return f(), nil
	}
	panicValue, _ = raven.CapturePanic(func() {
		err = f()
	}, tags)
	return
}

// Wait blocks until any pending crash report has been submitted.
func Wait() {
	if Disabled {
		return
	}
	raven.Wait()
}
