/*
Package route implements the registry of payout routes.

A route belongs to an alias and lists the recipients an incoming payment is
split between. The route remembers the identity of the alias registration it
was configured for. When the alias is deleted and registered again, or
transferred, the route no longer matches and must be configured again before
it can be used.

A route that can no longer be decoded can be retired by the alias owner with
the migrate stale message. Its content is never interpreted.
*/
package route
