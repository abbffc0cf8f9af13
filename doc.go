/*
Package splitpay defines the interfaces shared by every part of the alias
routing application: storage, messages, handlers, addressing and request
context.

State is a content-addressed key-value store. Every record lives under an
address derived from a namespace and a key (see Derive). Code that needs to
trust a record location always derives the address again and compares it
with whatever it was given.

Extensions living under the x/ directory implement the alias registry, the
route registry, payment settlement and payment requests. Each of them
registers handlers on a Registry and reads configuration through gconf.
*/
package splitpay
