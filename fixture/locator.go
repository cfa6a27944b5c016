package fixture

import (
	"path"

	"github.com/spf13/afero"

	"github.com/kbukum/seedkit/errors"
)

// Locator resolves a module name to its base directory.
type Locator interface {
	Locate(module string) (string, error)
}

// DirLocator is a fixed module to directory table.
type DirLocator map[string]string

// Locate returns the directory registered for module.
func (l DirLocator) Locate(module string) (string, error) {
	dir, ok := l[module]
	if !ok {
		return "", errors.UnknownModule(module)
	}
	return dir, nil
}

// RootLocator treats every directory under Root as a module.
type RootLocator struct {
	Fs   afero.Fs
	Root string
}

// Locate returns Root/module when it is an existing directory.
func (l *RootLocator) Locate(module string) (string, error) {
	if module == "" || module == "." || module == ".." || path.Base(module) != module {
		return "", errors.UnknownModule(module)
	}
	dir := path.Join(l.Root, module)
	ok, err := afero.IsDir(l.Fs, dir)
	if err != nil || !ok {
		return "", errors.UnknownModule(module)
	}
	return dir, nil
}

// ChainLocator tries each locator in turn.
type ChainLocator []Locator

// Locate returns the first successful resolution.
func (c ChainLocator) Locate(module string) (string, error) {
	for _, l := range c {
		if dir, err := l.Locate(module); err == nil {
			return dir, nil
		}
	}
	return "", errors.UnknownModule(module)
}
