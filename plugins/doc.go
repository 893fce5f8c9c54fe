// Package plugins hosts template pack subpackages. It contains no runtime
// code itself; this file exists so the architecture guard that lives
// alongside it has a package to run in.
//
// Packs depend only on the public protoreg/pkg/... packages. They must not
// import protoreg/internal/... so that a pack can be built and shipped
// outside this module.
package plugins
