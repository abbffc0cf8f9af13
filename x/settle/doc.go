/*
Package settle implements the payment settlement engine.

A payment made to an alias is split between the recipients of the alias
route. Before any value moves the alias must be active and the route must be
bound to the current registration of the alias.

The payer supplies the transfer target of every split, in route order. Each
target is compared with the address derived from the recipient and never
trusted as is. For native payments the target is the recipient itself. For
token payments it is the token sub-account of the recipient and it must
exist.

Shares are rounded down. What is left over is handed to a RemainderPolicy,
which by default keeps it with the payer.
*/
package settle
