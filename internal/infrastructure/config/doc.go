// Package config loads and validates pydb configuration.
//
// Configuration is layered: hardcoded defaults, then a YAML file, then
// environment variables. MySQL credentials follow the conventional MYSQL_*
// variable names so existing deployments keep working; everything else uses
// the PYDB_ prefix.
package config
