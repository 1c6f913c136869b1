package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"myregistry/domain"

	"gopkg.in/yaml.v3"
)

// Env variable names.
const (
	envAPIPort             = "SERVICE_PORT_API"
	envGatewayPort         = "SERVICE_PORT_GATEWAY"
	envConfigPath          = "CONFIG_PATH"
	envHeartbeatIntervalMs = "HEARTBEAT_INTERVAL_MS"
	envFlagDownAfterMs     = "FLAG_DOWN_AFTER_MS"
	envEvictionThresholdMs = "EVICTION_THRESHOLD_MS"
	envRetryCount          = "RETRY_COUNT"
	envForwardTimeoutMs    = "FORWARD_TIMEOUT_MS"
)

// Defaults applied when the corresponding env variable is unset. The flag-down
// threshold defaults to one heartbeat interval and the eviction threshold to
// three, so a single transient delay flags an instance without removing it.
const (
	defaultHeartbeatInterval = 30 * time.Second
	defaultRetryCount        = 1
	defaultForwardTimeout    = 10 * time.Second
)

// Config holds the full process configuration loaded by LoadConfig from
// environment variables. The route table itself is loaded separately via
// LoadRouteConfig so that an unavailable config source degrades to an empty
// table instead of preventing startup.
type Config struct {
	APIPort           int
	GatewayPort       int
	ConfigPath        string
	HeartbeatInterval time.Duration
	FlagDownAfter     time.Duration
	EvictionThreshold time.Duration
	RetryCount        int
	ForwardTimeout    time.Duration
}

// yamlRouteConfig is the root struct for YAML unmarshalling of the route table.
type yamlRouteConfig struct {
	Routes []yamlRoute `yaml:"routes"`
}

// yamlRoute is one route entry: id, path prefix (trailing "*" wildcards
// allowed) and target service name.
type yamlRoute struct {
	ID      string `yaml:"id"`
	Prefix  string `yaml:"prefix"`
	Service string `yaml:"service"`
}

// LoadConfig builds process config from environment variables. SERVICE_PORT_API and SERVICE_PORT_GATEWAY are required (1-65535, distinct); every tunable falls back to its default when unset but an explicitly set invalid value is an error.
//
// Parameters: none (source — os.Getenv).
//
// Returns: (*Config, nil) on success; (nil, error) on missing/invalid port or invalid tunable.
//
// Called only from main at startup.
func LoadConfig() (*Config, error) {
	apiPort, err := requiredPort(envAPIPort)
	if err != nil {
		return nil, err
	}
	gatewayPort, err := requiredPort(envGatewayPort)
	if err != nil {
		return nil, err
	}
	if apiPort == gatewayPort {
		return nil, fmt.Errorf("%s and %s must differ, both are %d", envAPIPort, envGatewayPort, apiPort)
	}

	heartbeat, err := optionalDurationMs(envHeartbeatIntervalMs, defaultHeartbeatInterval)
	if err != nil {
		return nil, err
	}
	flagDownAfter, err := optionalDurationMs(envFlagDownAfterMs, heartbeat)
	if err != nil {
		return nil, err
	}
	evictionThreshold, err := optionalDurationMs(envEvictionThresholdMs, 3*heartbeat)
	if err != nil {
		return nil, err
	}
	if evictionThreshold < flagDownAfter {
		return nil, fmt.Errorf("%s must not be smaller than %s", envEvictionThresholdMs, envFlagDownAfterMs)
	}
	forwardTimeout, err := optionalDurationMs(envForwardTimeoutMs, defaultForwardTimeout)
	if err != nil {
		return nil, err
	}

	retryCount := defaultRetryCount
	if raw := strings.TrimSpace(os.Getenv(envRetryCount)); raw != "" {
		retryCount, err = strconv.Atoi(raw)
		if err != nil || retryCount < 0 {
			return nil, fmt.Errorf("%s must be a non-negative integer, got %q", envRetryCount, raw)
		}
	}

	configPath := strings.TrimSpace(os.Getenv(envConfigPath))
	if configPath != "" && !filepath.IsAbs(configPath) {
		abs, absErr := filepath.Abs(configPath)
		if absErr != nil {
			return nil, absErr
		}
		configPath = abs
	}

	return &Config{
		APIPort:           apiPort,
		GatewayPort:       gatewayPort,
		ConfigPath:        configPath,
		HeartbeatInterval: heartbeat,
		FlagDownAfter:     flagDownAfter,
		EvictionThreshold: evictionThreshold,
		RetryCount:        retryCount,
		ForwardTimeout:    forwardTimeout,
	}, nil
}

// LoadRouteConfig reads and validates the YAML route table at path. Prefixes are normalized (trailing "*" wildcards removed, leading "/" added) and validated via domain.ValidateRouteConfig; declaration order in the file is preserved.
//
// Parameter path — route file path; empty string yields an empty (valid) table.
//
// Returns: (RouteConfig, nil) on success or empty path; (RouteConfig{}, error) on read, parse or validation error — the caller treats this as a degraded start with an empty table, not a fatal error.
//
// Called only from main at startup.
func LoadRouteConfig(path string) (domain.RouteConfig, error) {
	if path == "" {
		return domain.RouteConfig{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.RouteConfig{}, fmt.Errorf("read route config %s: %w", path, err)
	}
	var raw yamlRouteConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return domain.RouteConfig{}, fmt.Errorf("parse route config %s: %w", path, err)
	}

	routes := make([]domain.Route, 0, len(raw.Routes))
	for _, route := range raw.Routes {
		routes = append(routes, domain.Route{
			RouteID: strings.TrimSpace(route.ID),
			Prefix:  normalizePrefix(route.Prefix),
			Service: domain.ServiceID(strings.TrimSpace(route.Service)),
		})
	}
	cfg := domain.RouteConfig{Routes: routes}
	if err := domain.ValidateRouteConfig(cfg); err != nil {
		return domain.RouteConfig{}, err
	}
	return cfg, nil
}

// requiredPort reads env variable name as a TCP port.
func requiredPort(name string) (int, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	port, err := strconv.Atoi(raw)
	if err != nil || raw == "" {
		return 0, fmt.Errorf("%s must be a valid port (1-65535)", name)
	}
	if port <= 0 || port > 65535 {
		return 0, fmt.Errorf("%s must be 1-65535, got %d", name, port)
	}
	return port, nil
}

// optionalDurationMs reads env variable name as a positive millisecond count,
// returning fallback when unset.
func optionalDurationMs(name string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer (ms), got %q", name, raw)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// normalizePrefix trims spaces, removes trailing "*" wildcards and a trailing
// "/" left behind by them, and adds a leading "/" if needed so route matching
// (strings.HasPrefix) works correctly ("/catalog/**" becomes "/catalog").
//
// Parameter prefix — prefix string from YAML (may lack leading "/" or carry trailing wildcards).
//
// Returns: normalized string (leading "/", no trailing wildcard).
//
// Called only from LoadRouteConfig when parsing routes.
func normalizePrefix(prefix string) string {
	p := strings.TrimSpace(prefix)
	p = strings.TrimRight(p, "*")
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	if p != "" && p[0] != '/' {
		p = "/" + p
	}
	return p
}
