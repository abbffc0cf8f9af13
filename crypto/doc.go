/*
Package crypto provides the ed25519 keys used to sign requests and to
authenticate their signers.

A public key is turned into a condition ("sigs/ed25519/<key>") and from there
into an address, so every key holder is identified by the same 20 byte
address format as any other principal.
*/
package crypto
