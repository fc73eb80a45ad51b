// Package config provides the configuration system for textengine.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← Highest priority (TEXTENGINE_*)
//	├─────────────────────────────┤
//	│  2. Config File             │  ← TOML or YAML, chosen by extension
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// Layers are merged as untyped maps and then decoded into Config, so a
// layer only needs to mention the settings it changes. Unknown keys are
// rejected.
//
// # Sub-packages
//
//   - loader: Configuration file loading (TOML, YAML, environment variables)
package config
