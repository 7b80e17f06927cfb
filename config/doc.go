// Package config loads solver settings from a YAML file and TSPFORGE_*
// environment variables on top of built-in defaults, and converts them into
// the option types of the engine, tsp, partition and memopt packages.
//
// Environment keys mirror the YAML paths with dots replaced by underscores:
// engine.direct_ceiling is TSPFORGE_ENGINE_DIRECT_CEILING.
package config
