package main

import (
	"io"
	"os"
	"time"

	"github.com/repoglow/go-ogimage"
	"github.com/repoglow/go-ogimage/internal/github"
)

// MetadataFactory builds the metadata source for one repository.
type MetadataFactory func(owner, repo string, opts github.Options) (ogimage.MetadataSource, error)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, the browser and the metadata source.
type Environment struct {
	Now         func() time.Time
	Stdout      io.Writer
	Stderr      io.Writer
	Launcher    ogimage.Launcher
	NewMetadata MetadataFactory
	SettleDelay time.Duration
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:         time.Now,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Launcher:    ogimage.RodLauncher{},
		NewMetadata: newGitHubMetadata,
		SettleDelay: ogimage.DefaultSettleDelay,
	}
}
