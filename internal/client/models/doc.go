// Package models defines the records exchanged with the pengaduan API and
// persisted in the local store: the signed-in user, content posts,
// complaints and bookmarks.
//
// Records written to the store go through Encode/Decode, which wrap them
// in a small versioned envelope so schema drift is caught on read.
package models
