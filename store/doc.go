// Package store keeps arrays of tagged words in a linear memory.
//
// A Store views n consecutive little-endian 8-byte words starting at a base
// offset in any nantag.Memory. LinearMemory provides one backed by a wazero
// runtime, so tagged words can live in the same memory a WebAssembly guest
// reads and writes.
//
//	mem, _ := store.NewLinearMemory(ctx, &store.Config{Pages: 1})
//	defer mem.Close(ctx)
//
//	st, _ := store.New(mem, 0, 16)
//	st.Put(0, codec.EncodeFloat(1.5))
//
//	o := nantag.NewOwned("text")
//	store.PutOwned(st, 1, &o)          // o is now float +0
//	back, _ := store.TakeOwned[string](st, 1)
//	defer back.Free()
//
// Words read back are validated before use. Ownership moves in and out of a
// slot explicitly; a slot never holds two owners.
package store
