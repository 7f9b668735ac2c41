package wifi

//
// Dependencies
//

import (
	"net"
	"time"

	"github.com/wifimap/survey-cli/internal/model"
	"github.com/wifimap/survey-cli/internal/shellx"
	"golang.org/x/sys/execabs"
)

// dependencies abstracts the externals used by the measurers such
// that we can test the parsers without the system tools installed.
type dependencies interface {
	// Output runs the given command logging its invocation and
	// returns its standard output.
	Output(logger model.Logger, command string, args ...string) ([]byte, error)

	// LookPath searches for an executable in the PATH.
	LookPath(file string) (string, error)

	// DialTimeout opens a connection honoring a timeout.
	DialTimeout(network, address string, timeout time.Duration) (net.Conn, error)
}

// stdDependencies is the implementation of [dependencies] used in
// production.
type stdDependencies struct{}

var _ dependencies = &stdDependencies{}

// Output implements [dependencies].
func (*stdDependencies) Output(logger model.Logger, command string, args ...string) ([]byte, error) {
	return shellx.Output(logger, command, args...)
}

// LookPath implements [dependencies].
func (*stdDependencies) LookPath(file string) (string, error) {
	return execabs.LookPath(file)
}

// DialTimeout implements [dependencies].
func (*stdDependencies) DialTimeout(network, address string, timeout time.Duration) (net.Conn, error) {
	return net.DialTimeout(network, address, timeout)
}
