/*
Package x contains the extensions that make up the alias routing and split
settlement application.

Extensions implement a part of the functionality (Handler, Decorator,
etc.) and are combined together by the app package. Code shared by all of
them, like the Authenticator, lives in this package.
*/
package x
