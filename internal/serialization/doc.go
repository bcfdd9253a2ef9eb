// Package serialization saves and loads named arrays in the SafeTensors format.
//
//	Format Structure:
//	  [8 bytes: Header Size (uint64 LE)]
//	  [Header: JSON object, one entry per array plus optional __metadata__]
//	  [Array data: raw little-endian bytes in C order]
//
// Each header entry holds the dtype (I8, I32, F32, F64 or F16), the shape and the
// [start, end) byte range of the array within the data section. Arrays are stored in
// alphabetical order of their names. The writer records a SHA-256 checksum of the data
// section in the metadata; the reader verifies it when present.
//
// Example usage:
//
//	f := serialization.New()
//	if err := serialization.Put(f, "weights", w); err != nil {
//	    log.Fatal(err)
//	}
//	if err := serialization.WriteFile("model.safetensors", f); err != nil {
//	    log.Fatal(err)
//	}
//
//	loaded, err := serialization.ReadFile("model.safetensors")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	w, err = serialization.Get[float64](loaded, m, "weights")
package serialization
