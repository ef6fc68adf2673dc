// Package config loads and watches the pinsetter configuration file
// (pinsetter.yaml).
//
// Top-level types:
//   - Config{Log, Server, Simulator}: full config tree parsed from YAML
//   - LogConfig: level (debug|info|warn|error), format (json|text), no_color
//   - ServerConfig: http_port, lane_ttl, broadcast_interval, auth
//   - AuthConfig: mode (apikey|none), header, key_env; Key() resolves the
//     expected API key from the environment
//   - SimulatorConfig: games, seed, strategy (symbols|pins), max_attempts
//
// Load(path) reads the YAML file, applies defaults (info/json logging, port
// 8080, 30m lane TTL, 2s broadcast, 10 simulated games, symbols strategy,
// 1000 attempts per throw), then validates required fields and enums.
// Default() returns the same defaults without reading a file.
//
// Watch(ctx, path, onChange) uses fsnotify to detect file changes and calls
// onChange with the newly parsed Config. It re-adds the watch after each
// event so atomic-save editors (rename then create) keep being tracked.
package config
