// Package config holds the run configuration for league-stats.
//
// Values come from three layers, later ones winning: built-in defaults that
// reproduce the classic Arsenal vs Nott'ham Forest run, an optional YAML run
// file, and command-line flags applied by the cli package. The run file is
// read from --config when given, otherwise from
// $XDG_CONFIG_HOME/league-stats/config.yaml when that file exists.
package config
