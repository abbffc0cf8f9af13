/*
Package utils provides decorators that are shared by all request handlers:
panic recovery, request logging and savepoints that discard the writes of a
failed request.
*/
package utils
