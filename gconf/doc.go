/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each package keeps a single configuration entity stored under "_c:<package>".
Configuration is loaded from the genesis file with InitConfig and can be
changed later by its owner using UpdateConfigurationHandler.

Not being able to get a configuration value is a critical condition for the
application and there is no recovery path for the client. Application must be
terminated and configured correctly. This is why packages load their
configuration with a function that panics on failure.
*/
package gconf
