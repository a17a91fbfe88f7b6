package bio

// ByteAccess is the only abstraction the core uses to manipulate a user
// byte-container type T, keeping the codec layer independent of any
// particular container (spec §4.1). Concrete third-party container
// adapters are out of scope per spec's explicit non-goals; this package
// supplies the built-in []byte instance the rest of the module uses.
type ByteAccess[T any] interface {
	SizeOf(v T) int
	ToByteSlice(v T) []byte
	FromByteSlice(b []byte) T
	Concat(a, b T) T
	Empty() T
}

// ByteSliceAccess is the built-in ByteAccess instance for plain []byte.
type ByteSliceAccess struct{}

func (ByteSliceAccess) SizeOf(v []byte) int          { return len(v) }
func (ByteSliceAccess) ToByteSlice(v []byte) []byte  { return v }
func (ByteSliceAccess) FromByteSlice(b []byte) []byte { return b }
func (ByteSliceAccess) Concat(a, b []byte) []byte {
	out := make([]byte, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}
func (ByteSliceAccess) Empty() []byte { return nil }
