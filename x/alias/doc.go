/*
Package alias implements the registry of human readable aliases.

An alias is stored under the address derived from its name. Only the owner
can modify or delete it. Records that depend on an alias must reference its
Identity rather than its name, because the identity changes whenever the
alias is re-registered or transferred to a new owner.
*/
package alias
