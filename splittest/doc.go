/*
Package splittest provides mocks and helpers that are useful when writing
tests for handlers, decorators and extensions.
*/
package splittest
