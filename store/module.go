package store

import "bytes"

const (
	wasmMagic   uint32 = 0x6D736100
	wasmVersion uint32 = 0x01

	sectionMemory byte = 5
	sectionExport byte = 7

	kindMemory  byte = 2
	limitsBound byte = 0x01

	memoryExport = "memory"
)

// memoryModule encodes a module with no code that defines and exports one
// memory of min pages, growable to max.
func memoryModule(min, max uint32) []byte {
	var w bytes.Buffer
	writeU32LE(&w, wasmMagic)
	writeU32LE(&w, wasmVersion)

	var mem bytes.Buffer
	writeLEB128u(&mem, 1)
	mem.WriteByte(limitsBound)
	writeLEB128u(&mem, min)
	writeLEB128u(&mem, max)
	writeSection(&w, sectionMemory, mem.Bytes())

	var exp bytes.Buffer
	writeLEB128u(&exp, 1)
	writeLEB128u(&exp, uint32(len(memoryExport)))
	exp.WriteString(memoryExport)
	exp.WriteByte(kindMemory)
	writeLEB128u(&exp, 0)
	writeSection(&w, sectionExport, exp.Bytes())

	return w.Bytes()
}

func writeSection(w *bytes.Buffer, id byte, data []byte) {
	w.WriteByte(id)
	writeLEB128u(w, uint32(len(data)))
	w.Write(data)
}

func writeU32LE(w *bytes.Buffer, v uint32) {
	w.Write([]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)})
}

func writeLEB128u(w *bytes.Buffer, v uint32) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.WriteByte(b)
		if v == 0 {
			break
		}
	}
}
