//go:build darwin || linux

package sdlpop

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unsafe"

	"github.com/ebitengine/purego"
)

// library is one private copy of the engine shared library.
//
// The dynamic loader returns the same handle for a path it has already
// opened, which would make every instance share the engine's globals.
// Loading a fresh copy of the file per instance gives each one its own
// data segment.
type library struct {
	handle uintptr
	path   string // private copy, removed on close
}

func openLibrary(src string) (*library, error) {
	path, err := copyToTemp(src)
	if err != nil {
		return nil, err
	}

	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("sdlpop: cannot load %s: %w", src, err)
	}
	return &library{handle: handle, path: path}, nil
}

func copyToTemp(src string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("sdlpop: cannot open library: %w", err)
	}
	defer in.Close()

	out, err := os.CreateTemp("", "frameforge-*"+filepath.Ext(src))
	if err != nil {
		return "", fmt.Errorf("sdlpop: cannot create library copy: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(out.Name())
		return "", fmt.Errorf("sdlpop: cannot copy library: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(out.Name())
		return "", fmt.Errorf("sdlpop: cannot copy library: %w", err)
	}
	return out.Name(), nil
}

// symbol returns the address of an exported variable.
func (l *library) symbol(name string) (uintptr, error) {
	addr, err := purego.Dlsym(l.handle, name)
	if err != nil {
		return 0, fmt.Errorf("sdlpop: missing symbol %s: %w", name, err)
	}
	if addr == 0 {
		return 0, fmt.Errorf("sdlpop: symbol %s resolved to nil", name)
	}
	return addr, nil
}

// bytesAt views size bytes of library memory starting at addr.
func bytesAt(addr uintptr, size int) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)
}

// bind registers fn (a pointer to a func variable) against the exported
// function name. purego panics on a missing symbol; that is turned into
// an error so a mismatched library fails the constructor instead.
func (l *library) bind(fn any, name string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sdlpop: cannot bind %s: %v", name, r)
		}
	}()
	purego.RegisterLibFunc(fn, l.handle, name)
	return nil
}

func (l *library) close() error {
	err := purego.Dlclose(l.handle)
	if rmErr := os.Remove(l.path); err == nil && rmErr != nil && !os.IsNotExist(rmErr) {
		err = rmErr
	}
	if err != nil {
		return fmt.Errorf("sdlpop: cannot unload library: %w", err)
	}
	return nil
}
