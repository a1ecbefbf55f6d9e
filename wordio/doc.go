/*
Package wordio reads and writes data words of a register map.

Every implementation of IO addresses memory in words of a fixed data width.
A single access covers one or more consecutive words; the words are composed
into one value least significant word first, so an access may be at most 64
bits wide.

MmapIO maps a device resource or a regular file and batches word accesses
into accesses of the bulk width where alignment allows. Every addressed word
is still loaded or stored exactly once per call. StreamIO offers the same
surface over file reads and writes. ListIO, MapIO and ZeroIO are in memory.

BufferedIO wraps any IO and holds writes until Sync. Sync commits in
ascending offset order.

None of the implementations are safe for concurrent use.
*/
package wordio
