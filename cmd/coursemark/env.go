package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Context   context.Context
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	LookupEnv func(string) (string, bool)
	Environ   func() []string
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Context:   context.Background(),
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		LookupEnv: os.LookupEnv,
		Environ:   os.Environ,
	}
}

// envPrefix namespaces every recognized environment variable.
const envPrefix = "COURSEMARK_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // COURSEMARK_CONFIG: config file name or path
	Mode       string        // COURSEMARK_MODE: conversion mode
	Style      string        // COURSEMARK_STYLE: CSS style name or path
	OutputDir  string        // COURSEMARK_OUTPUT_DIR: default output directory
	Timeout    time.Duration // COURSEMARK_TIMEOUT: per-file timeout
	Workers    int           // COURSEMARK_WORKERS: parallel workers
}

var knownEnvVars = map[string]bool{
	envPrefix + "CONFIG":     true,
	envPrefix + "MODE":       true,
	envPrefix + "STYLE":      true,
	envPrefix + "OUTPUT_DIR": true,
	envPrefix + "TIMEOUT":    true,
	envPrefix + "WORKERS":    true,
}

func envVarNames() []string {
	names := make([]string, 0, len(knownEnvVars))
	for name := range knownEnvVars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// loadEnvConfig reads configuration from environment variables.
// Unparseable durations and counts are reported as errors.
func loadEnvConfig(lookup func(string) (string, bool)) (*envConfig, error) {
	get := func(name string) string {
		v, _ := lookup(envPrefix + name)
		return strings.TrimSpace(v)
	}

	cfg := &envConfig{
		ConfigPath: get("CONFIG"),
		Mode:       get("MODE"),
		Style:      get("STYLE"),
		OutputDir:  get("OUTPUT_DIR"),
	}

	if v := get("TIMEOUT"); v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			return nil, fmt.Errorf("%sTIMEOUT: %w", envPrefix, err)
		}
		cfg.Timeout = d
	}

	if v := get("WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %sWORKERS=%q", ErrInvalidWorkerCount, envPrefix, v)
		}
		if err := validateWorkers(n); err != nil {
			return nil, err
		}
		cfg.Workers = n
	}

	return cfg, nil
}

// warnUnknownEnvVars lists COURSEMARK_* variables that are not recognized,
// which usually means a typo.
func warnUnknownEnvVars(environ []string) []string {
	var unknown []string
	for _, kv := range environ {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			unknown = append(unknown, name)
		}
	}
	return unknown
}
