/*
Package orm provides an easy to use db wrapper

Every model is stored in an envelope, the RawRecord. The envelope names the
bucket that wrote the record and carries the serialized model as an opaque
payload. Envelope format never changes, so any record can be inspected and
reclaimed even when its payload can no longer be decoded.

Records are stored under "<bucket name>:<key>". Secondary indexes are stored
under "_x.<bucket name>_<index name>:<value><key>" and are maintained on every
write.
*/
package orm
