// Package sdlpop binds the native SDLPoP engine library through purego.
//
// Every Engine loads its own copy of the shared library so that instances
// never share engine globals. The library is located through
// registry.Options.Library and finds its data files under Options.Root.
package sdlpop
