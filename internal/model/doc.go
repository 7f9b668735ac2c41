// Package model contains the shared interfaces and data structures.
//
// # Criteria for adding a type to this package
//
// This package should contain two kinds of types:
//
// 1. important interfaces that are shared by several packages
// within the codebase, with the objective of separating unrelated
// pieces of code and making unit testing easier;
//
// 2. important pieces of data that are shared across different
// packages (e.g., the representation of a Wi-Fi snapshot).
//
// In general, this package should not contain logic, unless
// this logic is strictly related to data structures and we
// cannot implement this logic elsewhere.
//
// # Content of this package
//
// The following list summarizes the categories of types that
// currently belong here and names the files in which they are
// implemented:
//
// - wifi.go: Wi-Fi snapshot types and the platform adapter
// contract implemented once per operating system;
//
// - bandwidth.go: bandwidth sub-test results;
//
// - settings.go: the caller-supplied measurement settings;
//
// - event.go: progress events streamed while a survey runs;
//
// - result.go: the outcome of a whole survey run;
//
// - store.go: survey point storage interfaces;
//
// - logger.go: generic definition of an apex/log compatible logger,
// used in several places across the codebase.
package model
