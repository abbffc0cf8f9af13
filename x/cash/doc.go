/*
Package cash is the ledger of the application.

Native wallets are stored under the owner address. Token sub-accounts are
stored under the address derived from the "token" namespace, the owner and
the ticker, so that anyone can verify that a sub-account belongs to a given
owner without trusting a caller supplied address.

Record deposits are kept in wallets stored under the address of the record
they pay for and are released when the record is removed.
*/
package cash
