// Package iperf runs bandwidth sub-tests by driving the iperf3
// command line tool and normalizing its JSON output.
//
// A sub-test is one direction/protocol combination (TCP-download,
// TCP-upload, UDP-download, UDP-upload). Because iperf3 reports no
// intermediate progress in JSON mode, the runner estimates progress
// from elapsed wall-clock time while the subprocess runs.
//
// The runner never fails: a sub-test that cannot run or whose output
// cannot be parsed yields the all-empty "not run" result, so one
// failed sub-test does not abort the rest of a survey.
package iperf

import "time"

const (
	// defaultBinary is the iperf3 binary we look up when the
	// settings do not override it.
	defaultBinary = "iperf3"

	// progressTickInterval is how often we estimate intra-test
	// progress while the subprocess runs.
	progressTickInterval = 250 * time.Millisecond
)
