// Package config collects the explicit settings that drive a run of the
// aggregation engine. Nothing here is a global; callers build a Config and
// thread it through coordinator.Run.
package config

import "runtime"

// Preset names accepted on the CLI's one positional argument.
const (
	PresetTiny  = "tiny"
	PresetSmall = "small"
	PresetBig   = "big"
)

// defaultPaths mirrors the data layout the original analytics project
// shipped with: a handful of named sample files under data/.
var defaultPaths = map[string]string{
	PresetTiny:  "data/tinyTwitter.json",
	PresetSmall: "data/smallTwitter.json",
	PresetBig:   "data/bigTwitter.json",
}

const defaultPostsPath = "data/smallTwitter.json"

// DefaultSalPath is the reference suburb file shipped alongside the posts
// presets.
const DefaultSalPath = "data/sal.json"

// DefaultSubChunkBudget bounds the peak memory of a single sub-chunk read.
const DefaultSubChunkBudget int64 = 1 << 20 // 1 MiB

// Config holds everything a run of the engine needs, resolved ahead of
// time so no component reaches for ambient state.
type Config struct {
	PostsPath      string
	SalPath        string
	Workers        int
	SubChunkBudget int64
}

// ResolvePreset maps the CLI's optional {tiny,small,big} argument to a
// posts file path, falling back to the default for any other value
// (including the empty string).
func ResolvePreset(arg string) string {
	if p, ok := defaultPaths[arg]; ok {
		return p
	}
	return defaultPostsPath
}

// Default returns a Config for the given preset argument using
// runtime.NumCPU() workers and the default sub-chunk budget.
func Default(presetArg string) Config {
	return Config{
		PostsPath:      ResolvePreset(presetArg),
		SalPath:        DefaultSalPath,
		Workers:        runtime.NumCPU(),
		SubChunkBudget: DefaultSubChunkBudget,
	}
}
