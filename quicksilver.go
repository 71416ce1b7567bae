/*
Package quicksilver is a small, embeddable JavaScript-subset evaluation core.

A Runtime owns an isolated set of global bindings; Eval parses and executes a
source string against them and returns a Value. The package also exposes an
ABI-shaped boundary over opaque integer handles (see capi.go) for callers that
cannot hold Go values directly, such as a c-shared build.
*/
package quicksilver

// Version of the quicksilver core.
const Version = "0.3.0"
